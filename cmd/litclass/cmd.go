package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"syscall"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/litclass/litclass-lms/internal/curriculum"
	"github.com/litclass/litclass-lms/internal/lms"
	"github.com/litclass/litclass-lms/internal/session"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	svc *lms.Service
	in  io.Reader
	out io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  setup                                - bootstrap the server database")
	fmt.Fprintln(cli.out, "  login -username USERNAME             - log in (password prompted)")
	fmt.Fprintln(cli.out, "  logout                               - clear the local session")
	fmt.Fprintln(cli.out, "  whoami                               - show the logged-in user")
	fmt.Fprintln(cli.out, "  lessons                              - list all lessons (teacher)")
	fmt.Fprintln(cli.out, "  sync-samples                         - load the sample curriculum (teacher)")
	fmt.Fprintln(cli.out, "  path                                 - show the learning path with lock status")
	fmt.Fprintln(cli.out, "  quiz -lesson ID                      - take a lesson quiz")
	fmt.Fprintln(cli.out, "  exams                                - list exams")
	fmt.Fprintln(cli.out, "  exam -id ID                          - take an exam")
	fmt.Fprintln(cli.out, "  games                                - list games")
	fmt.Fprintln(cli.out, "  game -id ID                          - play an arcade game")
	fmt.Fprintln(cli.out, "  assignments                          - list homework assignments")
	fmt.Fprintln(cli.out, "  submit -assignment ID                - turn in homework text")
	fmt.Fprintln(cli.out, "  leaderboard                          - class ranking")
	fmt.Fprintln(cli.out, "  students list                        - list student accounts (teacher)")
	fmt.Fprintln(cli.out, "  students import -file F.csv          - import accounts from CSV (teacher)")
	fmt.Fprintln(cli.out, "  students export -file F.csv          - export accounts to CSV (teacher)")
	fmt.Fprintln(cli.out, "  submissions                          - grading queue (teacher) or own results (student)")
	fmt.Fprintln(cli.out, "  grade -id ID [-feedback S]           - grade a submission, points prompted (teacher)")
	fmt.Fprintln(cli.out, "  report                               - class overview (teacher)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	switch args[1] {
	case "setup":
		if err := cli.svc.Setup(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cli.out, "server bootstrapped")
		return nil

	case "login":
		loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
		username := loginCmd.String("username", "", "account username")
		if err := loginCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *username == "" {
			loginCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Mật khẩu: ")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		u, err := cli.svc.Login(ctx, *username, string(pwd))
		if err != nil {
			fmt.Fprintln(cli.out, lms.FriendlyLoginError(err))
			return err
		}
		fmt.Fprintf(cli.out, "Xin chào, %s (%s)\n", u.Name, u.Role)
		return nil

	case "logout":
		return cli.svc.Logout()

	case "whoami":
		u, err := cli.svc.CurrentUser()
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "%s (%s, %s)\n", u.Name, u.Username, u.Role)
		return nil

	case "lessons":
		return cli.listLessons(ctx)

	case "sync-samples":
		added, updated, err := cli.svc.SyncSampleLessons(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "sample curriculum synced: %d added, %d updated\n", added, updated)
		return nil

	case "path":
		return cli.showPath(ctx)

	case "quiz":
		quizCmd := flag.NewFlagSet("quiz", flag.ExitOnError)
		lessonID := quizCmd.String("lesson", "", "lesson id")
		if err := quizCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *lessonID == "" {
			quizCmd.Usage()
			return errHelp
		}
		return cli.takeQuiz(ctx, *lessonID)

	case "exams":
		return cli.listExams(ctx)

	case "exam":
		examCmd := flag.NewFlagSet("exam", flag.ExitOnError)
		id := examCmd.String("id", "", "exam id")
		if err := examCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *id == "" {
			examCmd.Usage()
			return errHelp
		}
		return cli.takeExam(ctx, *id)

	case "games":
		return cli.listGames(ctx)

	case "game":
		gameCmd := flag.NewFlagSet("game", flag.ExitOnError)
		id := gameCmd.String("id", "", "game id")
		if err := gameCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *id == "" {
			gameCmd.Usage()
			return errHelp
		}
		return cli.playGame(ctx, *id)

	case "assignments":
		return cli.listAssignments(ctx)

	case "submit":
		submitCmd := flag.NewFlagSet("submit", flag.ExitOnError)
		id := submitCmd.String("assignment", "", "assignment id")
		if err := submitCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *id == "" {
			submitCmd.Usage()
			return errHelp
		}
		return cli.submitAssignment(ctx, *id)

	case "leaderboard":
		return cli.leaderboard(ctx)

	case "students":
		return cli.students(ctx, args[2:])

	case "submissions":
		return cli.listSubmissions(ctx)

	case "grade":
		gradeCmd := flag.NewFlagSet("grade", flag.ExitOnError)
		id := gradeCmd.String("id", "", "submission id")
		feedback := gradeCmd.String("feedback", "", "feedback for the student")
		if err := gradeCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *id == "" {
			gradeCmd.Usage()
			return errHelp
		}
		return cli.grade(ctx, *id, *feedback)

	case "report":
		return cli.report(ctx)

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) listLessons(ctx context.Context) error {
	lessons, err := cli.svc.Lessons(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTHỨ TỰ\tTÊN BÀI\tTRẠNG THÁI")
	for _, l := range lessons {
		state := "nháp"
		if l.IsPublished {
			state = "đã xuất bản"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", l.ID, l.Order, l.Title, state)
	}
	return w.Flush()
}

func (cli *commandLine) showPath(ctx context.Context) error {
	lessons, err := cli.svc.PublishedLessons(ctx)
	if err != nil {
		return err
	}
	progress, err := cli.svc.MyProgress(ctx)
	if err != nil {
		return err
	}
	gate := curriculum.NewGate(nil)
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "BÀI\tTÊN\tTRẠNG THÁI\tĐIỂM")
	for _, l := range lessons {
		status := gate.StatusOf(l, lessons, progress)
		label := map[curriculum.Status]string{
			curriculum.StatusLocked:    "khóa",
			curriculum.StatusUnlocked:  "mở",
			curriculum.StatusCompleted: "hoàn thành",
		}[status]
		score := "-"
		if p, ok := progress[l.ID]; ok {
			score = fmt.Sprintf("%.1f/10", p.Score)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", l.Order, l.Title, label, score)
	}
	return w.Flush()
}

func (cli *commandLine) leaderboard(ctx context.Context) error {
	students, err := cli.svc.Students(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "HẠNG\tHỌ TÊN\tĐIỂM\tXẾP LOẠI")
	for _, s := range students {
		fmt.Fprintf(w, "%d\t%s\t%.0f\t%s\n", s.Rank, s.Name, s.TotalScore, s.Classification)
	}
	return w.Flush()
}

func (cli *commandLine) students(ctx context.Context, args []string) error {
	if len(args) < 1 {
		cli.printUsage()
		return errHelp
	}
	switch args[0] {
	case "list":
		students, err := cli.svc.Students(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTÀI KHOẢN\tHỌ TÊN\tPHỤ HUYNH\tSĐT\tĐIỂM")
		for _, s := range students {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.0f\n", s.ID, s.Username, s.Name, s.ParentName, s.Phone, s.TotalScore)
		}
		return w.Flush()

	case "import":
		importCmd := flag.NewFlagSet("students import", flag.ExitOnError)
		file := importCmd.String("file", "", "CSV file: username,password,name,parentName,phone")
		if err := importCmd.Parse(args[1:]); err != nil {
			return err
		}
		if *file == "" {
			importCmd.Usage()
			return errHelp
		}
		f, err := os.Open(*file)
		if err != nil {
			return err
		}
		defer f.Close()
		n, err := cli.svc.ImportStudentsCSV(ctx, f)
		if err != nil {
			return fmt.Errorf("imported %d accounts before failing: %w", n, err)
		}
		fmt.Fprintf(cli.out, "imported %d accounts\n", n)
		return nil

	case "export":
		exportCmd := flag.NewFlagSet("students export", flag.ExitOnError)
		file := exportCmd.String("file", "", "destination CSV file")
		if err := exportCmd.Parse(args[1:]); err != nil {
			return err
		}
		if *file == "" {
			exportCmd.Usage()
			return errHelp
		}
		f, err := os.Create(*file)
		if err != nil {
			return err
		}
		defer f.Close()
		return cli.svc.ExportStudentsCSV(ctx, f)

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) listSubmissions(ctx context.Context) error {
	u, err := cli.svc.CurrentUser()
	if err != nil {
		return err
	}
	var subs []*lms.Submission
	if u.Role == session.RoleStudent {
		subs, err = cli.svc.MySubmissions(ctx)
	} else {
		subs, err = cli.svc.AllSubmissions(ctx)
	}
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLOẠI\tHỌC SINH\tTỰ ĐỘNG\tĐIỂM\tTRẠNG THÁI")
	for _, s := range subs {
		auto, grade := "-", "-"
		if s.AutoScore != nil {
			auto = fmt.Sprintf("%.1f", *s.AutoScore)
		}
		if s.Grade != nil {
			grade = fmt.Sprintf("%.1f", *s.Grade)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", s.ID, s.Type, s.StudentName, auto, grade, s.Status)
	}
	return w.Flush()
}

func (cli *commandLine) report(ctx context.Context) error {
	stats, err := cli.svc.ClassOverview(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Sĩ số: %d\n", stats.TotalStudents)
	fmt.Fprintf(cli.out, "Tỉ lệ hoàn thành: %.1f%%\n", stats.CompletionRate)
	fmt.Fprintf(cli.out, "Cần quan tâm: %d\n", stats.AtRiskCount)
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "HỌ TÊN\tĐIỂM TB\tTRỄ HẠN\tCẢNH BÁO")
	for _, s := range stats.Students {
		warn := ""
		if s.IsAtRisk {
			warn = "!"
		}
		fmt.Fprintf(w, "%s\t%.1f\t%d\t%s\n", s.Name, s.AvgScore, s.MissedDeadlines, warn)
	}
	return w.Flush()
}

// currentStudent guards student-only commands.
func (cli *commandLine) currentStudent() (session.User, error) {
	u, err := cli.svc.CurrentUser()
	if err != nil {
		return session.User{}, err
	}
	if u.Role != session.RoleStudent {
		return session.User{}, errors.New("đăng nhập bằng tài khoản học sinh để làm bài")
	}
	return u, nil
}
