package lms

import (
	"context"

	"github.com/litclass/litclass-lms/internal/curriculum"
)

// Lessons fetches all lessons, normalized and sorted by order. A missing
// or null list decodes as empty; null rows are dropped.
func (s *Service) Lessons(ctx context.Context) ([]*curriculum.Lesson, error) {
	var raw []*curriculum.Lesson
	if err := s.gw.CallInto(ctx, "lessons.list", nil, &raw); err != nil {
		return nil, err
	}
	out := make([]*curriculum.Lesson, 0, len(raw))
	for _, l := range raw {
		if l == nil {
			continue
		}
		l.Normalize()
		out = append(out, l)
	}
	curriculum.SortByOrder(out)
	return out, nil
}

// PublishedLessons is the student view of the curriculum.
func (s *Service) PublishedLessons(ctx context.Context) ([]*curriculum.Lesson, error) {
	all, err := s.Lessons(ctx)
	if err != nil {
		return nil, err
	}
	return curriculum.Published(all), nil
}

// SaveLesson routes drafts to lessons.add and persisted records to
// lessons.update.
func (s *Service) SaveLesson(ctx context.Context, l *curriculum.Lesson) error {
	l.PrepareSave()
	action := "lessons.update"
	if isNew(l.ID) {
		action = "lessons.add"
	}
	_, err := s.gw.Call(ctx, action, l)
	return err
}

func (s *Service) DeleteLesson(ctx context.Context, id string) error {
	_, err := s.gw.Call(ctx, "lessons.remove", idPayload{ID: id})
	return err
}
