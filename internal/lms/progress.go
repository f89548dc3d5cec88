package lms

import (
	"context"

	"github.com/litclass/litclass-lms/internal/curriculum"
)

type progressCriteria struct {
	StudentID string `json:"studentId"`
}

// MyProgress fetches the current student's progress map.
func (s *Service) MyProgress(ctx context.Context) (curriculum.ProgressMap, error) {
	u, err := s.CurrentUser()
	if err != nil {
		return nil, err
	}
	var list []curriculum.StudentProgress
	if err := s.gw.CallInto(ctx, "progress.listByStudent", progressCriteria{StudentID: u.ID}, &list); err != nil {
		return nil, err
	}
	return curriculum.BuildProgressMap(list), nil
}

// AllProgress is the teacher's matrix view: every record for every student.
func (s *Service) AllProgress(ctx context.Context) ([]curriculum.StudentProgress, error) {
	var list []curriculum.StudentProgress
	if err := s.gw.CallInto(ctx, "progress.list", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

type progressUpdate struct {
	StudentID string  `json:"studentId"`
	LessonID  string  `json:"lessonId"`
	Score     float64 `json:"score"`
	Passed    bool    `json:"passed"`
}

// SaveProgress records a lesson-quiz result for the current student. The
// pass flag is derived here from the fixed 8/10 threshold; the backend
// overwrites any previous record for the (student, lesson) pair.
func (s *Service) SaveProgress(ctx context.Context, lessonID string, score float64) error {
	u, err := s.CurrentUser()
	if err != nil {
		return err
	}
	_, err = s.gw.Call(ctx, "progress.update", progressUpdate{
		StudentID: u.ID,
		LessonID:  lessonID,
		Score:     score,
		Passed:    score >= curriculum.PassingScore,
	})
	return err
}
