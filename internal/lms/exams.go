package lms

import (
	"context"

	"github.com/litclass/litclass-lms/internal/bank"
)

// Exams lists practice exams with their question snapshots. A missing
// questions array comes back empty, never nil.
func (s *Service) Exams(ctx context.Context) ([]*bank.Exam, error) {
	var raw []*bank.Exam
	if err := s.gw.CallInto(ctx, "exams.list", nil, &raw); err != nil {
		return nil, err
	}
	out := make([]*bank.Exam, 0, len(raw))
	for _, e := range raw {
		if e == nil {
			continue
		}
		if e.Questions == nil {
			e.Questions = []*bank.ExamQuestion{}
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *Service) SaveExam(ctx context.Context, e *bank.Exam) error {
	action := "exams.update"
	if isNew(e.ID) {
		action = "exams.add"
	}
	_, err := s.gw.Call(ctx, action, e)
	return err
}

func (s *Service) DeleteExam(ctx context.Context, id string) error {
	_, err := s.gw.Call(ctx, "exams.remove", idPayload{ID: id})
	return err
}
