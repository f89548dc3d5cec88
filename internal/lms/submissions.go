package lms

import (
	"context"

	"github.com/litclass/litclass-lms/internal/bank"
)

type SubmissionType string

const (
	SubmissionAssignment SubmissionType = "assignment"
	SubmissionExam       SubmissionType = "exam"
)

type SubmissionStatus string

const (
	StatusPending SubmissionStatus = "pending"
	StatusGraded  SubmissionStatus = "graded"
)

// Submission is a student's turned-in work for an assignment or exam.
// Created pending, graded exactly once by the teacher (re-grading simply
// overwrites grade and feedback).
type Submission struct {
	ID           string                  `json:"id"`
	Type         SubmissionType          `json:"type"`
	AssignmentID string                  `json:"assignmentId"` // assignment or exam id
	StudentID    string                  `json:"studentId"`
	StudentName  string                  `json:"studentName"`
	Content      string                  `json:"content,omitempty"`
	Answers      map[string]*bank.Answer `json:"answers,omitempty"`    // exam: question position -> answer
	EssayLinks   map[string]string       `json:"essayLinks,omitempty"` // exam: question position -> external doc link
	SubmittedAt  int64                   `json:"submittedAt"`
	AutoScore    *float64                `json:"autoScore,omitempty"`
	Grade        *float64                `json:"grade,omitempty"`
	Feedback     string                  `json:"feedback,omitempty"`
	Status       SubmissionStatus        `json:"status"`
}

type studentCriteria struct {
	StudentID string `json:"student_id"`
}

// MySubmissions lists the current student's submissions.
func (s *Service) MySubmissions(ctx context.Context) ([]*Submission, error) {
	u, err := s.CurrentUser()
	if err != nil {
		return nil, err
	}
	var raw []*Submission
	if err := s.gw.CallInto(ctx, "submissions.listByStudent", studentCriteria{StudentID: u.ID}, &raw); err != nil {
		return nil, err
	}
	return dropNilSubmissions(raw), nil
}

// AllSubmissions is the teacher's grading queue.
func (s *Service) AllSubmissions(ctx context.Context) ([]*Submission, error) {
	var raw []*Submission
	if err := s.gw.CallInto(ctx, "submissions.listAll", nil, &raw); err != nil {
		return nil, err
	}
	return dropNilSubmissions(raw), nil
}

func dropNilSubmissions(in []*Submission) []*Submission {
	out := make([]*Submission, 0, len(in))
	for _, sub := range in {
		if sub == nil {
			continue
		}
		out = append(out, sub)
	}
	return out
}

// submitPayload keeps the snake_case keys the spreadsheet dispatcher
// expects on writes (reads come back camelCase).
type submitPayload struct {
	Type         SubmissionType          `json:"type"`
	AssignmentID string                  `json:"assignment_id"`
	StudentID    string                  `json:"student_id"`
	StudentName  string                  `json:"studentName"`
	Content      string                  `json:"content,omitempty"`
	Answers      map[string]*bank.Answer `json:"answers,omitempty"`
	EssayLinks   map[string]string       `json:"essay_links,omitempty"`
	AutoScore    *float64                `json:"auto_score,omitempty"`
	Status       SubmissionStatus        `json:"status"`
}

// SubmitAssignment turns in free-text work for an assignment.
func (s *Service) SubmitAssignment(ctx context.Context, assignmentID, content string) error {
	u, err := s.CurrentUser()
	if err != nil {
		return err
	}
	_, err = s.gw.Call(ctx, "submissions.submit", submitPayload{
		Type:         SubmissionAssignment,
		AssignmentID: assignmentID,
		StudentID:    u.ID,
		StudentName:  u.Name,
		Content:      content,
		Status:       StatusPending,
	})
	return err
}

// SubmitExam turns in exam answers with the locally computed auto-score.
// The submission stays pending until the teacher grades the free-text
// parts.
func (s *Service) SubmitExam(ctx context.Context, examID string, answers map[string]*bank.Answer, essayLinks map[string]string, autoScore float64) error {
	u, err := s.CurrentUser()
	if err != nil {
		return err
	}
	_, err = s.gw.Call(ctx, "submissions.submit", submitPayload{
		Type:         SubmissionExam,
		AssignmentID: examID,
		StudentID:    u.ID,
		StudentName:  u.Name,
		Answers:      answers,
		EssayLinks:   essayLinks,
		AutoScore:    &autoScore,
		Status:       StatusPending,
	})
	return err
}

type gradePayload struct {
	ID       string  `json:"id"`
	Grade    float64 `json:"grade"`
	Feedback string  `json:"feedback"`
}

// GradeSubmission writes grade and feedback in one call and returns the
// submission patched the way the server will store it, so list views can
// update optimistically instead of reloading.
func (s *Service) GradeSubmission(ctx context.Context, sub *Submission, grade float64, feedback string) (*Submission, error) {
	if _, err := s.gw.Call(ctx, "submissions.grade", gradePayload{ID: sub.ID, Grade: grade, Feedback: feedback}); err != nil {
		return nil, err
	}
	patched := *sub
	patched.Grade = &grade
	patched.Feedback = feedback
	patched.Status = StatusGraded
	return &patched, nil
}
