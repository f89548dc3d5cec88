// Package scoring grades a question set against a parallel answer list.
// It is pure: no I/O, no mutation of inputs, safe to call repeatedly.
package scoring

import (
	"strings"

	"github.com/litclass/litclass-lms/internal/bank"
)

// Q is the minimal view of a question needed for scoring. Both bank and
// exam questions convert into it.
type Q struct {
	Type    bank.QuestionType
	Points  float64 // 0 means unweighted, graded as 1
	Correct *bank.Answer
}

// FromExam adapts exam questions for scoring. Nil entries survive the
// conversion (as nil) so Score can apply its skip policy in one place.
func FromExam(qs []*bank.ExamQuestion) []*Q {
	out := make([]*Q, len(qs))
	for i, eq := range qs {
		if eq == nil {
			continue
		}
		out[i] = &Q{Type: eq.Type, Points: eq.Points, Correct: eq.Correct}
	}
	return out
}

// FromBank adapts bank questions for scoring.
func FromBank(qs []*bank.BankQuestion) []*Q {
	out := make([]*Q, len(qs))
	for i, bq := range qs {
		if bq == nil {
			continue
		}
		out[i] = &Q{Type: bq.Type, Points: bq.Points, Correct: bq.Correct}
	}
	return out
}

// Result aggregates one grading pass.
type Result struct {
	CorrectCount      int
	EarnedPoints      float64
	TotalPoints       float64
	PendingEssayCount int
}

// graded is the outcome for a single question.
type graded struct {
	correct bool
	pending bool
}

// strategy grades a single question type.
type strategy interface {
	Grade(q *Q, answer *bank.Answer) graded
}

var strategies = map[bank.QuestionType]strategy{
	bank.TypeChoice: choiceStrategy{},
	bank.TypeFill:   textStrategy{},
	bank.TypeShort:  textStrategy{},
	bank.TypeEssay:  essayStrategy{},
}

type choiceStrategy struct{}

// Choice grading is strict index equality. A text answer to a choice
// question never matches, no partial credit.
func (choiceStrategy) Grade(q *Q, answer *bank.Answer) graded {
	if q.Correct == nil || !q.Correct.IsIndex {
		return graded{}
	}
	if answer == nil || !answer.IsIndex {
		return graded{}
	}
	return graded{correct: answer.Index == q.Correct.Index}
}

type textStrategy struct{}

// Fill/short grading is case- and whitespace-insensitive exact match.
// Empty answers never match, even against an empty key.
func (textStrategy) Grade(q *Q, answer *bank.Answer) graded {
	if q.Correct == nil || answer == nil || answer.IsIndex {
		return graded{}
	}
	user := strings.ToLower(strings.TrimSpace(answer.Text))
	want := strings.ToLower(strings.TrimSpace(q.Correct.Text))
	return graded{correct: user != "" && user == want}
}

type essayStrategy struct{}

// Essays are never auto-scored; they wait for the teacher.
func (essayStrategy) Grade(*Q, *bank.Answer) graded { return graded{pending: true} }

// Score grades questions against the parallel answers slice. Nil question
// entries are skipped entirely (malformed upstream rows must not count as
// wrong answers); answers beyond the questions' length are ignored and
// missing answers grade as empty. Unknown question types are skipped.
func Score(questions []*Q, answers []*bank.Answer) Result {
	var res Result
	for i, q := range questions {
		if q == nil {
			continue
		}
		s, ok := strategies[q.Type]
		if !ok {
			continue
		}
		points := q.Points
		if points <= 0 {
			points = 1
		}
		res.TotalPoints += points

		var ans *bank.Answer
		if i < len(answers) {
			ans = answers[i]
		}
		g := s.Grade(q, ans)
		switch {
		case g.pending:
			res.PendingEssayCount++
		case g.correct:
			res.CorrectCount++
			res.EarnedPoints += points
		}
	}
	return res
}

// Outcome is the pass/fail reading of a Result under a caller-supplied
// absolute point threshold.
type Outcome struct {
	Result
	Passed bool
	// PendingReview is set in exam mode (threshold 0): no local verdict,
	// the auto-graded subtotal is provisional until the teacher grades
	// the free-text parts.
	PendingReview bool
}

// Judge applies passingScore to a result. A passingScore of 0 means exam
// mode: the caller shows "submitted, pending review" instead of a verdict.
func Judge(res Result, passingScore float64) Outcome {
	if passingScore == 0 {
		return Outcome{Result: res, PendingReview: true}
	}
	return Outcome{Result: res, Passed: res.EarnedPoints >= passingScore}
}
