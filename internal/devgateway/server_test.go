package devgateway

import (
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/litclass/litclass-lms/internal/bank"
	"github.com/litclass/litclass-lms/internal/curriculum"
	"github.com/litclass/litclass-lms/internal/db"
	"github.com/litclass/litclass-lms/internal/gateway"
	"github.com/litclass/litclass-lms/internal/game"
	"github.com/litclass/litclass-lms/internal/lms"
	"github.com/litclass/litclass-lms/internal/roster"
	"github.com/litclass/litclass-lms/internal/session"
)

// newEnv boots a sqlite-backed gateway in-process and returns a factory
// for clients, each with its own session file, plus the base URL for raw
// protocol-level calls.
func newEnv(t *testing.T) (bootstrap func() *lms.Service, baseURL string) {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()
	dbh, err := db.Open(ctx, db.DriverSQLite, "file:"+filepath.Join(dir, "test.db")+"?_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { dbh.Close() })

	store := NewStore(dbh, db.DriverSQLite)
	srv := NewServer(store, NewAuthService("test-secret"), "giaovien", "123456")
	ts := httptest.NewServer(srv.Router([]string{"*"}))
	t.Cleanup(ts.Close)

	n := 0
	return func() *lms.Service {
		n++
		sessions := session.NewStore(filepath.Join(dir, "session", string(rune('a'+n))+".json"))
		return lms.NewService(gateway.NewClient(ts.URL+"/api"), sessions)
	}, ts.URL + "/api"
}

func mustSetupAndLogin(t *testing.T, svc *lms.Service) session.User {
	t.Helper()
	ctx := context.Background()
	if err := svc.Setup(ctx); err != nil {
		t.Fatal(err)
	}
	u, err := svc.Login(ctx, "giaovien", "123456")
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func TestSetupSeedsTeacherOnce(t *testing.T) {
	newService, _ := newEnv(t)
	svc := newService()
	ctx := context.Background()

	u := mustSetupAndLogin(t, svc)
	if u.Role != session.RoleTeacher {
		t.Fatalf("role %s", u.Role)
	}
	if u.Token == "" {
		t.Fatal("no token issued")
	}

	// Second setup must not clobber or duplicate the account.
	if err := svc.Setup(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Login(ctx, "giaovien", "123456"); err != nil {
		t.Fatal(err)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	newService, _ := newEnv(t)
	svc := newService()
	mustSetupAndLogin(t, svc)

	_, err := svc.Login(context.Background(), "giaovien", "wrong")
	var apiErr *gateway.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want APIError, got %v", err)
	}
}

func TestLessonRoundTrip(t *testing.T) {
	newService, _ := newEnv(t)
	svc := newService()
	mustSetupAndLogin(t, svc)
	ctx := context.Background()

	draft := &curriculum.Lesson{
		ID:          "new_draft",
		Order:       1,
		Title:       "Bài 1",
		MonthUnlock: 9,
		IsPublished: true,
		SubLessons: []curriculum.SubLesson{
			{ID: "s1", Title: "Văn bản 1", Type: curriculum.SubMainText},
		},
	}
	if err := svc.SaveLesson(ctx, draft); err != nil {
		t.Fatal(err)
	}

	lessons, err := svc.Lessons(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(lessons) != 1 {
		t.Fatalf("len %d", len(lessons))
	}
	got := lessons[0]
	if strings.HasPrefix(got.ID, "new_") {
		t.Errorf("server kept draft id %q", got.ID)
	}
	if !got.IsPublished || got.Title != "Bài 1" || len(got.SubLessons) != 1 {
		t.Errorf("round trip lost data: %+v", got)
	}

	got.Title = "Bài 1 (sửa)"
	if err := svc.SaveLesson(ctx, got); err != nil {
		t.Fatal(err)
	}
	lessons, _ = svc.Lessons(ctx)
	if len(lessons) != 1 || lessons[0].Title != "Bài 1 (sửa)" {
		t.Errorf("update did not overwrite: %+v", lessons[0])
	}

	if err := svc.DeleteLesson(ctx, got.ID); err != nil {
		t.Fatal(err)
	}
	lessons, _ = svc.Lessons(ctx)
	if len(lessons) != 0 {
		t.Errorf("delete left %d lessons", len(lessons))
	}
}

func addStudent(t *testing.T, teacher *lms.Service, username, name string) {
	t.Helper()
	acc := &roster.StudentAccount{User: session.User{Username: username, Name: name, Role: session.RoleStudent}}
	if err := teacher.SaveStudent(context.Background(), acc); err != nil {
		t.Fatal(err)
	}
}

func TestStudentDefaultPasswordAndRBAC(t *testing.T) {
	newService, _ := newEnv(t)
	teacher := newService()
	mustSetupAndLogin(t, teacher)
	ctx := context.Background()

	addStudent(t, teacher, "an", "Nguyễn Văn An")

	student := newService()
	u, err := student.Login(ctx, "an", "123")
	if err != nil {
		t.Fatalf("default password login: %v", err)
	}
	if u.Role != session.RoleStudent {
		t.Fatalf("role %s", u.Role)
	}

	// Content management is teacher-only.
	err = student.SaveLesson(ctx, &curriculum.Lesson{ID: "new_x", Title: "x"})
	var apiErr *gateway.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want forbidden APIError, got %v", err)
	}

	// Reading the path is allowed.
	if _, err := student.PublishedLessons(ctx); err != nil {
		t.Fatal(err)
	}
}

func TestProgressFlow(t *testing.T) {
	newService, _ := newEnv(t)
	teacher := newService()
	mustSetupAndLogin(t, teacher)
	ctx := context.Background()

	addStudent(t, teacher, "an", "An")
	student := newService()
	if _, err := student.Login(ctx, "an", "123"); err != nil {
		t.Fatal(err)
	}

	if err := student.SaveProgress(ctx, "lesson-1", 9); err != nil {
		t.Fatal(err)
	}
	// Retake with a lower score still overwrites; the client decides
	// whether to submit.
	if err := student.SaveProgress(ctx, "lesson-1", 7); err != nil {
		t.Fatal(err)
	}

	pm, err := student.MyProgress(ctx)
	if err != nil {
		t.Fatal(err)
	}
	rec, ok := pm["lesson-1"]
	if !ok {
		t.Fatal("no record for lesson-1")
	}
	if rec.Score != 7 || rec.Passed {
		t.Errorf("record %+v", rec)
	}

	all, err := teacher.AllProgress(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].StudentID == "" {
		t.Errorf("teacher view %+v", all)
	}
}

func TestGameResultAccumulatesScoreAndBadge(t *testing.T) {
	newService, _ := newEnv(t)
	teacher := newService()
	mustSetupAndLogin(t, teacher)
	ctx := context.Background()

	g := &game.Game{ID: "new_g", Title: "Vua tiếng Việt", Type: game.KindQuiz, IsActive: true,
		QuizConfig: &game.Config{LevelCount: 2, QuestionsPerLevel: 3, PointsPerLevel: 10}}
	if err := teacher.SaveGame(ctx, g); err != nil {
		t.Fatal(err)
	}
	games, err := teacher.Games(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 1 || games[0].QuizConfig == nil || games[0].QuizConfig.LevelCount != 2 {
		t.Fatalf("game round trip: %+v", games[0])
	}
	gameID := games[0].ID

	addStudent(t, teacher, "an", "An")
	student := newService()
	if _, err := student.Login(ctx, "an", "123"); err != nil {
		t.Fatal(err)
	}

	if err := student.SaveGameResult(ctx, gameID, 25, true); err != nil {
		t.Fatal(err)
	}
	if err := student.SaveGameResult(ctx, gameID, 13, true); err != nil {
		t.Fatal(err)
	}

	students, err := teacher.Students(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(students) != 1 {
		t.Fatalf("students %d", len(students))
	}
	an := students[0]
	if an.TotalScore != 38 {
		t.Errorf("totalScore %v, want 38", an.TotalScore)
	}
	badge := "game-" + gameID
	found := 0
	for _, b := range an.Badges {
		if b == badge {
			found++
		}
	}
	if found != 1 {
		t.Errorf("badge %q held %d times, want once", badge, found)
	}
}

func TestSubmitAndGradeExam(t *testing.T) {
	newService, _ := newEnv(t)
	teacher := newService()
	mustSetupAndLogin(t, teacher)
	ctx := context.Background()

	addStudent(t, teacher, "an", "An")
	student := newService()
	if _, err := student.Login(ctx, "an", "123"); err != nil {
		t.Fatal(err)
	}

	answers := map[string]*bank.Answer{"q1": bank.IndexAnswer(1)}
	links := map[string]string{"q2": "https://docs.example.com/essay"}
	if err := student.SubmitExam(ctx, "exam-1", answers, links, 2); err != nil {
		t.Fatal(err)
	}

	subs, err := teacher.AllSubmissions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(subs) != 1 {
		t.Fatalf("submissions %d", len(subs))
	}
	sub := subs[0]
	if sub.Status != lms.StatusPending || sub.AutoScore == nil || *sub.AutoScore != 2 {
		t.Errorf("submission %+v", sub)
	}
	if sub.Answers["q1"] == nil || !sub.Answers["q1"].IsIndex || sub.Answers["q1"].Index != 1 {
		t.Errorf("answers lost: %+v", sub.Answers)
	}
	if sub.EssayLinks["q2"] == "" {
		t.Errorf("essay links lost: %+v", sub.EssayLinks)
	}

	if _, err := teacher.GradeSubmission(ctx, sub, 8.5, "Tốt"); err != nil {
		t.Fatal(err)
	}
	mine, err := student.MySubmissions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 1 || mine[0].Status != lms.StatusGraded || mine[0].Grade == nil || *mine[0].Grade != 8.5 {
		t.Errorf("graded view %+v", mine[0])
	}
}

func TestStudentCannotActForAnother(t *testing.T) {
	newService, baseURL := newEnv(t)
	teacher := newService()
	mustSetupAndLogin(t, teacher)
	ctx := context.Background()

	addStudent(t, teacher, "an", "An")
	student := newService()
	u, err := student.Login(ctx, "an", "123")
	if err != nil {
		t.Fatal(err)
	}

	// Forge a progress write for someone else through the raw client.
	raw := gateway.NewClient(baseURL)
	raw.SetToken(u.Token)
	_, err = raw.Call(ctx, "progress.update", map[string]interface{}{
		"studentId": "someone-else", "lessonId": "lesson-1", "score": 10, "passed": true,
	})
	var apiErr *gateway.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want forbidden, got %v", err)
	}
}
