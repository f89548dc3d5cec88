package lms

import (
	"context"
	"fmt"
	"io"

	"github.com/litclass/litclass-lms/internal/roster"
	"github.com/litclass/litclass-lms/internal/session"
)

// Students lists student accounts from users.list: teachers are filtered
// out, derived fields (classification, rank) are filled, and the list is
// leaderboard-ordered.
func (s *Service) Students(ctx context.Context) ([]*roster.StudentAccount, error) {
	var raw []*roster.StudentAccount
	if err := s.gw.CallInto(ctx, "users.list", nil, &raw); err != nil {
		return nil, err
	}
	students := make([]*roster.StudentAccount, 0, len(raw))
	for _, u := range raw {
		if u == nil || u.Role != session.RoleStudent {
			continue
		}
		students = append(students, u)
	}
	return roster.Normalize(students), nil
}

// SaveStudent routes unpersisted records (empty or new_-prefixed id) to
// students.add, everything else to students.update.
func (s *Service) SaveStudent(ctx context.Context, acc *roster.StudentAccount) error {
	action := "students.update"
	if isNew(acc.ID) {
		action = "students.add"
	}
	_, err := s.gw.Call(ctx, action, acc)
	return err
}

func (s *Service) DeleteStudent(ctx context.Context, id string) error {
	_, err := s.gw.Call(ctx, "students.remove", idPayload{ID: id})
	return err
}

// ImportStudentsCSV creates one account per roster row. Rows are sent
// individually, matching the backend's one-record write model; the first
// failure aborts with the row count that made it through.
func (s *Service) ImportStudentsCSV(ctx context.Context, r io.Reader) (int, error) {
	rows, err := roster.ParseCSV(r)
	if err != nil {
		return 0, err
	}
	for i, row := range rows {
		if err := s.SaveStudent(ctx, row.Account()); err != nil {
			return i, fmt.Errorf("row %d (%s): %w", i+1, row.Username, err)
		}
	}
	return len(rows), nil
}

// ExportStudentsCSV writes the current roster in the import layout.
func (s *Service) ExportStudentsCSV(ctx context.Context, w io.Writer) error {
	students, err := s.Students(ctx)
	if err != nil {
		return err
	}
	return roster.WriteCSV(w, students)
}
