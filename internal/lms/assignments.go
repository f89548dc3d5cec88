package lms

import (
	"context"

	"github.com/litclass/litclass-lms/internal/grading"
)

// Assignments lists homework assignments with their rubrics.
func (s *Service) Assignments(ctx context.Context) ([]*grading.Assignment, error) {
	var raw []*grading.Assignment
	if err := s.gw.CallInto(ctx, "assignments.list", nil, &raw); err != nil {
		return nil, err
	}
	out := make([]*grading.Assignment, 0, len(raw))
	for _, a := range raw {
		if a == nil {
			continue
		}
		if a.Rubric == nil {
			a.Rubric = []grading.RubricItem{}
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *Service) SaveAssignment(ctx context.Context, a *grading.Assignment) error {
	action := "assignments.update"
	if isNew(a.ID) {
		action = "assignments.add"
	}
	_, err := s.gw.Call(ctx, action, a)
	return err
}
