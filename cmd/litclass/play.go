package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/litclass/litclass-lms/internal/bank"
	"github.com/litclass/litclass-lms/internal/curriculum"
	"github.com/litclass/litclass-lms/internal/game"
	"github.com/litclass/litclass-lms/internal/grading"
	"github.com/litclass/litclass-lms/internal/scoring"
)

func (cli *commandLine) reader() *bufio.Scanner {
	return bufio.NewScanner(cli.in)
}

func readLine(sc *bufio.Scanner) string {
	if !sc.Scan() {
		return ""
	}
	return strings.TrimSpace(sc.Text())
}

// askAnswer prompts for one question and returns the student's answer.
// Essay questions return nil and ask for an external document link instead.
func (cli *commandLine) askAnswer(sc *bufio.Scanner, q *bank.BankQuestion) (*bank.Answer, string) {
	fmt.Fprintf(cli.out, "\n%s\n", q.Text)
	switch q.Type {
	case bank.TypeChoice:
		for i, opt := range q.Options {
			fmt.Fprintf(cli.out, "  %d. %s\n", i+1, opt)
		}
		fmt.Fprint(cli.out, "Chọn đáp án: ")
		n, err := strconv.Atoi(readLine(sc))
		if err != nil || n < 1 || n > len(q.Options) {
			return bank.IndexAnswer(-1), ""
		}
		return bank.IndexAnswer(n - 1), ""
	case bank.TypeEssay:
		fmt.Fprint(cli.out, "Dán liên kết bài làm (Google Docs...): ")
		return nil, readLine(sc)
	default:
		fmt.Fprint(cli.out, "Trả lời: ")
		return bank.TextAnswer(readLine(sc)), ""
	}
}

func (cli *commandLine) takeQuiz(ctx context.Context, lessonID string) error {
	if _, err := cli.currentStudent(); err != nil {
		return err
	}
	questions, err := cli.svc.Questions(ctx, lessonID)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		return fmt.Errorf("bài học %s chưa có câu hỏi", lessonID)
	}

	sc := cli.reader()
	answers := make([]*bank.Answer, len(questions))
	for i, q := range questions {
		if q.Type == bank.TypeEssay {
			continue // lesson quizzes are auto-graded only
		}
		answers[i], _ = cli.askAnswer(sc, q)
	}

	res := scoring.Score(scoring.FromBank(questions), answers)
	score10 := 0.0
	if res.TotalPoints > 0 {
		score10 = res.EarnedPoints / res.TotalPoints * 10
	}
	outcome := scoring.Judge(scoring.Result{EarnedPoints: score10, TotalPoints: 10}, curriculum.PassingScore)

	fmt.Fprintf(cli.out, "\nĐúng %d/%d câu, điểm %.1f/10\n", res.CorrectCount, len(questions), score10)
	if outcome.Passed {
		fmt.Fprintln(cli.out, "Đạt! Bài tiếp theo đã được mở khóa.")
	} else {
		fmt.Fprintf(cli.out, "Chưa đạt (cần %.0f/10). Hãy ôn lại và thử lần nữa.\n", float64(curriculum.PassingScore))
	}
	return cli.svc.SaveProgress(ctx, lessonID, score10)
}

func (cli *commandLine) listExams(ctx context.Context) error {
	exams, err := cli.svc.Exams(ctx)
	if err != nil {
		return err
	}
	for _, e := range exams {
		fmt.Fprintf(cli.out, "%s\t%s\t%s\t%d câu, %d phút\n", e.ID, e.Type, e.Title, len(e.Questions), e.Duration)
	}
	return nil
}

func (cli *commandLine) takeExam(ctx context.Context, examID string) error {
	if _, err := cli.currentStudent(); err != nil {
		return err
	}
	exams, err := cli.svc.Exams(ctx)
	if err != nil {
		return err
	}
	var exam *bank.Exam
	for _, e := range exams {
		if e.ID == examID {
			exam = e
			break
		}
	}
	if exam == nil {
		return fmt.Errorf("không tìm thấy đề thi %s", examID)
	}

	fmt.Fprintf(cli.out, "=== %s (%d phút) ===\n", exam.Title, exam.Duration)
	if exam.ReadingPassage != "" {
		fmt.Fprintf(cli.out, "\nNgữ liệu:\n%s\n", exam.ReadingPassage)
	}

	// Answers are keyed by position in the snapshot, not question id:
	// the same bank question can be snapshotted twice into one exam.
	sc := cli.reader()
	answers := map[string]*bank.Answer{}
	links := map[string]string{}
	ordered := make([]*bank.Answer, len(exam.Questions))
	for i, q := range exam.Questions {
		if q == nil {
			continue
		}
		bq := &bank.BankQuestion{ID: q.ID, Type: q.Type, Text: q.Text, Options: q.Options}
		ans, link := cli.askAnswer(sc, bq)
		if link != "" {
			links[strconv.Itoa(i)] = link
		}
		if ans != nil {
			answers[strconv.Itoa(i)] = ans
			ordered[i] = ans
		}
	}

	res := scoring.Score(scoring.FromExam(exam.Questions), ordered)
	outcome := scoring.Judge(res, 0)

	if err := cli.svc.SubmitExam(ctx, exam.ID, answers, links, res.EarnedPoints); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "\nĐã nộp bài. Điểm tự động: %.1f/%.1f", res.EarnedPoints, res.TotalPoints)
	if outcome.PendingReview {
		fmt.Fprintln(cli.out, " (chờ giáo viên chấm phần tự luận)")
	} else {
		fmt.Fprintln(cli.out)
	}
	return nil
}

func (cli *commandLine) listAssignments(ctx context.Context) error {
	assignments, err := cli.svc.Assignments(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTÊN\tHẠN NỘP\tĐIỂM TỐI ĐA")
	for _, a := range assignments {
		due := "-"
		if a.Deadline > 0 {
			due = time.UnixMilli(a.Deadline).Format("02/01/2006 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\n", a.ID, a.Title, due, grading.RubricMax(a.Rubric))
	}
	return w.Flush()
}

func (cli *commandLine) submitAssignment(ctx context.Context, assignmentID string) error {
	if _, err := cli.currentStudent(); err != nil {
		return err
	}
	assignments, err := cli.svc.Assignments(ctx)
	if err != nil {
		return err
	}
	var a *grading.Assignment
	for _, cand := range assignments {
		if cand.ID == assignmentID {
			a = cand
			break
		}
	}
	if a == nil {
		return fmt.Errorf("không tìm thấy bài tập %s", assignmentID)
	}

	fmt.Fprintf(cli.out, "=== %s ===\n", a.Title)
	if a.Description != "" {
		fmt.Fprintln(cli.out, a.Description)
	}
	if a.Deadline > 0 {
		due := time.UnixMilli(a.Deadline)
		fmt.Fprintf(cli.out, "Hạn nộp: %s\n", due.Format("02/01/2006 15:04"))
		if time.Now().After(due) {
			fmt.Fprintln(cli.out, "Lưu ý: đã quá hạn nộp.")
		}
	}

	fmt.Fprintln(cli.out, "Nhập bài làm (kết thúc bằng dòng trống):")
	sc := cli.reader()
	var b strings.Builder
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			break
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	if b.Len() == 0 {
		return errors.New("bài làm trống")
	}
	if err := cli.svc.SubmitAssignment(ctx, a.ID, b.String()); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Đã nộp bài tập.")
	return nil
}

func (cli *commandLine) listGames(ctx context.Context) error {
	games, err := cli.svc.Games(ctx)
	if err != nil {
		return err
	}
	for _, g := range games {
		if !g.IsActive {
			continue
		}
		fmt.Fprintf(cli.out, "%s\t%s\t%s (%s)\n", g.ID, g.Type, g.Title, g.Level)
	}
	return nil
}

func (cli *commandLine) playGame(ctx context.Context, gameID string) error {
	if _, err := cli.currentStudent(); err != nil {
		return err
	}
	games, err := cli.svc.Games(ctx)
	if err != nil {
		return err
	}
	var g *game.Game
	for _, cand := range games {
		if cand.ID == gameID {
			g = cand
			break
		}
	}
	if g == nil || !g.IsActive {
		return fmt.Errorf("không tìm thấy trò chơi %s", gameID)
	}
	if g.Type == game.KindExternal {
		fmt.Fprintf(cli.out, "Trò chơi bên ngoài, mở trong trình duyệt: %s\n", g.GameURL)
		return nil
	}

	engine := cli.svc.NewGameEngine(g)
	if err := engine.Start(ctx); err != nil {
		return err
	}
	sc := cli.reader()

	for {
		switch engine.State() {
		case game.StatePlaying:
			q, idx, ok := engine.CurrentQuestion()
			if !ok {
				if err := engine.Next(ctx); err != nil {
					return err
				}
				continue
			}
			fmt.Fprintf(cli.out, "\n[Vòng %d/%d] Câu %d: %s\n", engine.Level(), engine.TotalLevels(), idx+1, q.Text)
			for i, opt := range q.Options {
				fmt.Fprintf(cli.out, "  %d. %s\n", i+1, opt)
			}
			fmt.Fprint(cli.out, "Chọn đáp án: ")
			n, convErr := strconv.Atoi(readLine(sc))
			if convErr != nil || n < 1 || n > len(q.Options) {
				fmt.Fprintln(cli.out, "Chọn một số trong danh sách.")
				continue
			}
			fb, err := engine.Answer(n - 1)
			if err != nil {
				return err
			}
			if fb.Correct {
				fmt.Fprintf(cli.out, "Chính xác! +%.0f điểm\n", fb.PointsAdded)
			} else if fb.CorrectIndex >= 0 && fb.CorrectIndex < len(q.Options) {
				fmt.Fprintf(cli.out, "Sai rồi. Đáp án đúng: %s\n", q.Options[fb.CorrectIndex])
			} else {
				fmt.Fprintln(cli.out, "Sai rồi.")
			}
			if err := engine.Next(ctx); err != nil {
				return err
			}

		case game.StateLevelSuccess:
			fmt.Fprintf(cli.out, "\nQua vòng %d! Tổng điểm: %.0f. Tiếp tục? (y/n) ", engine.Level(), engine.TotalScore())
			if readLine(sc) != "y" {
				engine.Exit()
				fmt.Fprintln(cli.out, "Đã thoát, điểm không được lưu.")
				return nil
			}
			if err := engine.Continue(ctx); err != nil {
				return err
			}

		case game.StateLevelFail:
			fmt.Fprintf(cli.out, "\nChưa qua vòng %d (đúng %d, cần %d). Chơi lại? (y/n) ",
				engine.Level(), engine.CorrectInLevel(), engine.PassThreshold())
			if readLine(sc) != "y" {
				engine.Exit()
				fmt.Fprintln(cli.out, "Đã thoát, điểm không được lưu.")
				return nil
			}
			if err := engine.Continue(ctx); err != nil {
				return err
			}

		case game.StateComplete:
			fmt.Fprintf(cli.out, "\nHoàn thành! Tổng điểm %.0f đã được cộng vào bảng xếp hạng.\n", engine.TotalScore())
			return nil

		default:
			return fmt.Errorf("unexpected game state %q", engine.State())
		}
	}
}
