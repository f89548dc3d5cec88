package main

import (
	"bufio"
	"context"
	"fmt"
	"strconv"

	"github.com/litclass/litclass-lms/internal/bank"
	"github.com/litclass/litclass-lms/internal/grading"
	"github.com/litclass/litclass-lms/internal/lms"
)

// grade marks one submission. Exams take per-question manual points on
// top of the stored auto-score; assignments are marked per rubric
// criterion. Every entered value is clamped to its question's or
// criterion's maximum.
func (cli *commandLine) grade(ctx context.Context, id, feedback string) error {
	subs, err := cli.svc.AllSubmissions(ctx)
	if err != nil {
		return err
	}
	var sub *lms.Submission
	for _, s := range subs {
		if s.ID == id {
			sub = s
			break
		}
	}
	if sub == nil {
		return fmt.Errorf("submission %s not found", id)
	}

	sc := cli.reader()
	var total float64
	switch sub.Type {
	case lms.SubmissionExam:
		total, err = cli.gradeExam(ctx, sc, sub)
	case lms.SubmissionAssignment:
		total, err = cli.gradeAssignment(ctx, sc, sub)
	default:
		total, err = cli.promptPoints(sc, "Điểm", 10)
	}
	if err != nil {
		return err
	}

	if _, err := cli.svc.GradeSubmission(ctx, sub, total, feedback); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "graded %s: %.1f\n", id, total)
	return nil
}

func (cli *commandLine) gradeExam(ctx context.Context, sc *bufio.Scanner, sub *lms.Submission) (float64, error) {
	auto := 0.0
	if sub.AutoScore != nil {
		auto = *sub.AutoScore
	}

	exams, err := cli.svc.Exams(ctx)
	if err != nil {
		return 0, err
	}
	var exam *bank.Exam
	for _, e := range exams {
		if e.ID == sub.AssignmentID {
			exam = e
			break
		}
	}
	if exam == nil {
		// Exam deleted after submission: nothing to itemize.
		fmt.Fprintln(cli.out, "Đề thi gốc không còn, nhập điểm tổng.")
		return cli.promptPoints(sc, "Điểm", 10)
	}

	fmt.Fprintf(cli.out, "Điểm tự động: %.1f\n", auto)
	manual := map[int]float64{}
	for i, q := range exam.Questions {
		if q == nil || (q.Type != bank.TypeEssay && q.Type != bank.TypeShort) {
			continue
		}
		fmt.Fprintf(cli.out, "\nCâu %d: %s\n", i+1, q.Text)
		key := strconv.Itoa(i)
		if link := sub.EssayLinks[key]; link != "" {
			fmt.Fprintf(cli.out, "Bài làm: %s\n", link)
		} else if ans := sub.Answers[key]; ans != nil && !ans.IsIndex {
			fmt.Fprintf(cli.out, "Trả lời: %s\n", ans.Text)
		}
		v, err := cli.promptPoints(sc, "Điểm", q.PointsOrDefault())
		if err != nil {
			return 0, err
		}
		manual[i] = v
	}
	return grading.ExamGrade(auto, exam.Questions, manual), nil
}

func (cli *commandLine) gradeAssignment(ctx context.Context, sc *bufio.Scanner, sub *lms.Submission) (float64, error) {
	if sub.Content != "" {
		fmt.Fprintf(cli.out, "Bài làm:\n%s\n", sub.Content)
	}

	assignments, err := cli.svc.Assignments(ctx)
	if err != nil {
		return 0, err
	}
	var a *grading.Assignment
	for _, cand := range assignments {
		if cand.ID == sub.AssignmentID {
			a = cand
			break
		}
	}
	if a == nil || len(a.Rubric) == 0 {
		return cli.promptPoints(sc, "Điểm", 10)
	}

	entries := map[string]float64{}
	for _, item := range a.Rubric {
		v, err := cli.promptPoints(sc, item.Criteria, item.MaxPoints)
		if err != nil {
			return 0, err
		}
		entries[item.ID] = v
	}
	return grading.AssignmentGrade(a.Rubric, entries), nil
}

// promptPoints reads one point value. The clamp to [0, max] happens in
// the grading package; this only rejects non-numeric input.
func (cli *commandLine) promptPoints(sc *bufio.Scanner, label string, max float64) (float64, error) {
	fmt.Fprintf(cli.out, "%s (tối đa %.1f): ", label, max)
	raw := readLine(sc)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("điểm không hợp lệ: %q", raw)
	}
	return v, nil
}
