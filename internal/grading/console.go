// Package grading holds the teacher-side marking rules: rubric sums for
// assignments and auto+manual totals for exams.
package grading

import (
	"github.com/litclass/litclass-lms/internal/bank"
)

// RubricItem is one criterion of an assignment rubric.
type RubricItem struct {
	ID        string  `json:"id"`
	Criteria  string  `json:"criteria"`
	MaxPoints float64 `json:"maxPoints"`
}

// Assignment as managed by the teacher.
type Assignment struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Deadline    int64        `json:"deadline"` // unix millis, like the backend stores
	Rubric      []RubricItem `json:"rubric"`
}

// clamp bounds v to [0, max].
func clamp(v, max float64) float64 {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// AssignmentGrade sums per-criterion entries, each clamped to its
// criterion's maximum. Entries for unknown criteria are ignored.
func AssignmentGrade(rubric []RubricItem, entries map[string]float64) float64 {
	var total float64
	for _, item := range rubric {
		if v, ok := entries[item.ID]; ok {
			total += clamp(v, item.MaxPoints)
		}
	}
	return total
}

// RubricMax is the best grade the rubric allows.
func RubricMax(rubric []RubricItem) float64 {
	var total float64
	for _, item := range rubric {
		total += item.MaxPoints
	}
	return total
}

// ExamGrade adds manual points for essay/short questions on top of the
// auto-score computed at submission time. Manual entries are keyed by
// question position in the snapshot, so a bank question snapshotted twice
// into one exam is graded twice, independently. Each entry is clamped to
// its question's point value; entries for auto-graded or out-of-range
// positions are ignored. Re-grading just recomputes, so revisiting a
// graded submission overwrites cleanly.
func ExamGrade(autoScore float64, questions []*bank.ExamQuestion, manual map[int]float64) float64 {
	total := autoScore
	for i, q := range questions {
		if q == nil {
			continue
		}
		if q.Type != bank.TypeEssay && q.Type != bank.TypeShort {
			continue
		}
		if v, ok := manual[i]; ok {
			total += clamp(v, q.PointsOrDefault())
		}
	}
	return total
}
