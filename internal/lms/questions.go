package lms

import (
	"context"

	"github.com/litclass/litclass-lms/internal/bank"
)

// BankAll asks questions.list for the whole bank.
const BankAll = "all"

type questionsCriteria struct {
	LessonID string `json:"lessonId,omitempty"`
}

// Questions lists the question bank, optionally filtered to one lesson.
// Pass BankAll (or empty) for everything. Null rows are dropped.
func (s *Service) Questions(ctx context.Context, lessonID string) ([]*bank.BankQuestion, error) {
	crit := questionsCriteria{}
	if lessonID != "" {
		crit.LessonID = lessonID
	}
	var raw []*bank.BankQuestion
	if err := s.gw.CallInto(ctx, "questions.list", crit, &raw); err != nil {
		return nil, err
	}
	out := make([]*bank.BankQuestion, 0, len(raw))
	for _, q := range raw {
		if q == nil {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

// SaveQuestion validates and routes drafts (temp_ ids) to questions.add.
func (s *Service) SaveQuestion(ctx context.Context, q *bank.BankQuestion) error {
	if err := q.Validate(); err != nil {
		return err
	}
	action := "questions.update"
	if isNew(q.ID) {
		action = "questions.add"
	}
	_, err := s.gw.Call(ctx, action, q)
	return err
}

func (s *Service) DeleteQuestion(ctx context.Context, id string) error {
	_, err := s.gw.Call(ctx, "questions.remove", idPayload{ID: id})
	return err
}
