package grading

import (
	"testing"

	"github.com/litclass/litclass-lms/internal/bank"
)

func TestAssignmentGradeClampsPerCriterion(t *testing.T) {
	rubric := []RubricItem{
		{ID: "r1", Criteria: "Nội dung", MaxPoints: 4},
		{ID: "r2", Criteria: "Diễn đạt", MaxPoints: 3},
		{ID: "r3", Criteria: "Sáng tạo", MaxPoints: 3},
	}
	entries := map[string]float64{
		"r1": 5,  // over max, clamp to 4
		"r2": -1, // under, clamp to 0
		"r3": 2.5,
		"zz": 10, // unknown criterion ignored
	}
	if got := AssignmentGrade(rubric, entries); got != 6.5 {
		t.Errorf("grade %v, want 6.5", got)
	}
	if got := RubricMax(rubric); got != 10 {
		t.Errorf("max %v, want 10", got)
	}
}

func TestExamGradeAddsClampedManualPoints(t *testing.T) {
	questions := []*bank.ExamQuestion{
		{ID: "q1", Type: bank.TypeChoice, Points: 2, Correct: bank.IndexAnswer(0)},
		{ID: "q2", Type: bank.TypeEssay, Points: 3},
		{ID: "q3", Type: bank.TypeShort, Points: 1, Correct: bank.TextAnswer("x")},
		nil,
	}
	manual := map[int]float64{
		0: 99, // choice is auto-graded, ignore
		1: 5,  // clamp to 3
		2: 0.5,
	}
	if got := ExamGrade(2, questions, manual); got != 5.5 {
		t.Errorf("total %v, want 5.5", got)
	}
}

func TestExamGradeDefaultsQuestionPoints(t *testing.T) {
	questions := []*bank.ExamQuestion{{ID: "e", Type: bank.TypeEssay}}
	if got := ExamGrade(0, questions, map[int]float64{0: 4}); got != 1 {
		t.Errorf("total %v, want clamp to default point 1", got)
	}
}

func TestExamGradeDuplicateSnapshotGradedPerPosition(t *testing.T) {
	// The same bank question snapshotted twice keeps two grades.
	questions := []*bank.ExamQuestion{
		{ID: "e", Type: bank.TypeEssay, Points: 3},
		{ID: "e", Type: bank.TypeEssay, Points: 3},
	}
	if got := ExamGrade(0, questions, map[int]float64{0: 2, 1: 3}); got != 5 {
		t.Errorf("total %v, want 5", got)
	}
}

func TestRegradeOverwrites(t *testing.T) {
	questions := []*bank.ExamQuestion{{ID: "e", Type: bank.TypeEssay, Points: 3}}
	first := ExamGrade(2, questions, map[int]float64{0: 1})
	second := ExamGrade(2, questions, map[int]float64{0: 3})
	if first != 3 || second != 5 {
		t.Errorf("first %v second %v", first, second)
	}
}
