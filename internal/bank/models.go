// Package bank holds the question-bank and exam models shared by the
// client SDK and the dev gateway.
//
// Bank questions and exam questions are deliberately two types: creating an
// exam snapshots bank questions into the exam document (one-way copy), so
// later edits to the bank never reach an already-published exam.
package bank

import (
	"errors"
	"fmt"
	"strings"
)

type QuestionType string

const (
	TypeChoice QuestionType = "choice"
	TypeFill   QuestionType = "fill"
	TypeShort  QuestionType = "short"
	TypeEssay  QuestionType = "essay"
)

type ExamType string

const (
	ExamMidTerm1 ExamType = "mid-term-1"
	ExamTerm1    ExamType = "term-1"
	ExamMidTerm2 ExamType = "mid-term-2"
	ExamTerm2    ExamType = "term-2"
)

// BankQuestion is a reusable question owned by the question bank.
type BankQuestion struct {
	ID       string       `json:"id"`
	LessonID string       `json:"lessonId,omitempty"`
	Type     QuestionType `json:"type"`
	Text     string       `json:"question"`
	Options  []string     `json:"options,omitempty"`
	Correct  *Answer      `json:"correctAnswer,omitempty"`
	Points   float64      `json:"points,omitempty"`
	Tags     []string     `json:"tags,omitempty"`
}

// ExamQuestion is a denormalized copy of a question inside one exam.
type ExamQuestion struct {
	ID      string       `json:"id"`
	Type    QuestionType `json:"type"`
	Text    string       `json:"question"`
	Options []string     `json:"options,omitempty"`
	Correct *Answer      `json:"correctAnswer,omitempty"`
	Points  float64      `json:"points,omitempty"`
}

type Exam struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Type           ExamType        `json:"type"`
	Description    string          `json:"description"`
	Duration       int             `json:"duration"` // minutes
	ReadingPassage string          `json:"readingPassage,omitempty"`
	Questions      []*ExamQuestion `json:"questions"`
}

// SnapshotQuestions copies bank questions into exam questions. The copy is
// deep for the fields an exam keeps; the bank records stay untouched.
func SnapshotQuestions(qs []*BankQuestion) []*ExamQuestion {
	out := make([]*ExamQuestion, 0, len(qs))
	for _, q := range qs {
		if q == nil {
			continue
		}
		eq := &ExamQuestion{
			ID:     q.ID,
			Type:   q.Type,
			Text:   q.Text,
			Points: q.Points,
		}
		if len(q.Options) > 0 {
			eq.Options = append([]string(nil), q.Options...)
		}
		if q.Correct != nil {
			c := *q.Correct
			eq.Correct = &c
		}
		out = append(out, eq)
	}
	return out
}

var (
	errNoText          = errors.New("question text required")
	errChoiceOptions   = errors.New("choice question needs at least 2 options")
	errChoiceAnswerIdx = errors.New("choice answer must be an index into options")
	errOptionsOnChoice = errors.New("options only allowed on choice questions")
)

// Validate checks the invariants a teacher-entered question must hold.
func (q *BankQuestion) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return errNoText
	}
	switch q.Type {
	case TypeChoice:
		if len(q.Options) < 2 {
			return errChoiceOptions
		}
		if q.Correct == nil || !q.Correct.IsIndex || q.Correct.Index < 0 || q.Correct.Index >= len(q.Options) {
			return errChoiceAnswerIdx
		}
	case TypeFill, TypeShort:
		if len(q.Options) > 0 {
			return errOptionsOnChoice
		}
		if q.Correct == nil || strings.TrimSpace(q.Correct.Text) == "" {
			return fmt.Errorf("%s question needs an answer text", q.Type)
		}
	case TypeEssay:
		// graded manually, no key required
	default:
		return fmt.Errorf("unknown question type %q", q.Type)
	}
	return nil
}

// PointsOrDefault returns the question's weight, defaulting to 1 when the
// teacher left the field empty.
func (q *BankQuestion) PointsOrDefault() float64 {
	if q.Points <= 0 {
		return 1
	}
	return q.Points
}

func (q *ExamQuestion) PointsOrDefault() float64 {
	if q.Points <= 0 {
		return 1
	}
	return q.Points
}
