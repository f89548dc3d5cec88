package devgateway

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/litclass/litclass-lms/internal/bank"
	"github.com/litclass/litclass-lms/internal/curriculum"
	"github.com/litclass/litclass-lms/internal/grading"
	"github.com/litclass/litclass-lms/internal/roster"
	"github.com/litclass/litclass-lms/internal/session"
)

type idPayload struct {
	ID string `json:"id"`
}

// isNewID reports whether the client sent a draft id. Drafts get a fresh
// server-minted id on insert.
func isNewID(id string) bool {
	return id == "" || strings.HasPrefix(id, "new_") || strings.HasPrefix(id, "temp_")
}

func mintID(id string) string {
	if isNewID(id) {
		return uuid.NewString()
	}
	return id
}

// ---- auth / setup ----

func (s *Server) handleLogin(ctx context.Context, _ *Claims, payload json.RawMessage) (interface{}, error) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.Unmarshal(payload, &in); err != nil {
		return nil, err
	}
	u, err := s.store.Authenticate(ctx, in.Username, in.Password)
	if err != nil {
		return nil, err
	}
	tok, err := s.auth.Issue(u.ID, u.Username, string(u.Role))
	if err != nil {
		return nil, err
	}
	acc := u.StudentAccount
	acc.Token = tok
	return acc, nil
}

func (s *Server) handleSetup(ctx context.Context, _ *Claims, _ json.RawMessage) (interface{}, error) {
	if err := s.store.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	seeded, err := s.store.SeedTeacher(ctx, uuid.NewString(), s.adminUser, s.adminPass)
	if err != nil {
		return nil, err
	}
	return map[string]bool{"seededTeacher": seeded}, nil
}

// ---- lessons ----

func (s *Server) handleLessonsList(ctx context.Context, _ *Claims, _ json.RawMessage) (interface{}, error) {
	return s.store.ListLessons(ctx)
}

func (s *Server) handleLessonsAdd(ctx context.Context, _ *Claims, payload json.RawMessage) (interface{}, error) {
	var l curriculum.Lesson
	if err := json.Unmarshal(payload, &l); err != nil {
		return nil, err
	}
	l.ID = mintID(l.ID)
	if err := s.store.PutLesson(ctx, &l); err != nil {
		return nil, err
	}
	_ = s.store.AppendEvent(ctx, "lessons.add", l.ID, &l)
	return &l, nil
}

func (s *Server) handleLessonsUpdate(ctx context.Context, _ *Claims, payload json.RawMessage) (interface{}, error) {
	var l curriculum.Lesson
	if err := json.Unmarshal(payload, &l); err != nil {
		return nil, err
	}
	if l.ID == "" {
		return nil, errors.New("id required")
	}
	if err := s.store.PutLesson(ctx, &l); err != nil {
		return nil, err
	}
	_ = s.store.AppendEvent(ctx, "lessons.update", l.ID, &l)
	return &l, nil
}

func (s *Server) handleLessonsRemove(ctx context.Context, _ *Claims, payload json.RawMessage) (interface{}, error) {
	var in idPayload
	if err := json.Unmarshal(payload, &in); err != nil {
		return nil, err
	}
	if err := s.store.DeleteLesson(ctx, in.ID); err != nil {
		return nil, err
	}
	_ = s.store.AppendEvent(ctx, "lessons.remove", in.ID, in)
	return nil, nil
}

// ---- users / students ----

func (s *Server) handleUsersList(ctx context.Context, _ *Claims, _ json.RawMessage) (interface{}, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]roster.StudentAccount, 0, len(users))
	for _, u := range users {
		out = append(out, u.StudentAccount)
	}
	return out, nil
}

func (s *Server) saveStudent(ctx context.Context, payload json.RawMessage, isAdd bool) (interface{}, error) {
	var acc roster.StudentAccount
	if err := json.Unmarshal(payload, &acc); err != nil {
		return nil, err
	}
	if acc.Username == "" {
		return nil, errors.New("username required")
	}
	if acc.Role == "" {
		acc.Role = session.RoleStudent
	}
	if isAdd {
		acc.ID = mintID(acc.ID)
		if acc.Password == "" {
			acc.Password = roster.DefaultImportPassword
		}
	}
	var passHash string
	if acc.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		passHash = string(hash)
	}
	acc.Password = ""
	if err := s.store.UpsertUser(ctx, userRecord{StudentAccount: acc, PassHash: passHash}); err != nil {
		return nil, err
	}
	action := "students.update"
	if isAdd {
		action = "students.add"
	}
	_ = s.store.AppendEvent(ctx, action, acc.ID, &acc)
	return acc, nil
}

func (s *Server) handleStudentsAdd(ctx context.Context, _ *Claims, payload json.RawMessage) (interface{}, error) {
	return s.saveStudent(ctx, payload, true)
}

func (s *Server) handleStudentsUpdate(ctx context.Context, _ *Claims, payload json.RawMessage) (interface{}, error) {
	return s.saveStudent(ctx, payload, false)
}

func (s *Server) handleStudentsRemove(ctx context.Context, _ *Claims, payload json.RawMessage) (interface{}, error) {
	var in idPayload
	if err := json.Unmarshal(payload, &in); err != nil {
		return nil, err
	}
	if err := s.store.DeleteUser(ctx, in.ID); err != nil {
		return nil, err
	}
	_ = s.store.AppendEvent(ctx, "students.remove", in.ID, in)
	return nil, nil
}

// ---- questions ----

func (s *Server) handleQuestionsList(ctx context.Context, _ *Claims, payload json.RawMessage) (interface{}, error) {
	var in struct {
		LessonID string `json:"lessonId"`
	}
	if len(payload) > 0 {
		_ = json.Unmarshal(payload, &in)
	}
	return s.store.ListQuestions(ctx, in.LessonID)
}

func (s *Server) saveQuestion(ctx context.Context, payload json.RawMessage, isAdd bool) (interface{}, error) {
	var q bank.BankQuestion
	if err := json.Unmarshal(payload, &q); err != nil {
		return nil, err
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if isAdd {
		q.ID = mintID(q.ID)
	}
	if err := s.store.PutQuestion(ctx, &q); err != nil {
		return nil, err
	}
	action := "questions.update"
	if isAdd {
		action = "questions.add"
	}
	_ = s.store.AppendEvent(ctx, action, q.ID, &q)
	return &q, nil
}

func (s *Server) handleQuestionsAdd(ctx context.Context, _ *Claims, payload json.RawMessage) (interface{}, error) {
	return s.saveQuestion(ctx, payload, true)
}

func (s *Server) handleQuestionsUpdate(ctx context.Context, _ *Claims, payload json.RawMessage) (interface{}, error) {
	return s.saveQuestion(ctx, payload, false)
}

func (s *Server) handleQuestionsRemove(ctx context.Context, _ *Claims, payload json.RawMessage) (interface{}, error) {
	var in idPayload
	if err := json.Unmarshal(payload, &in); err != nil {
		return nil, err
	}
	if err := s.store.DeleteQuestion(ctx, in.ID); err != nil {
		return nil, err
	}
	_ = s.store.AppendEvent(ctx, "questions.remove", in.ID, in)
	return nil, nil
}

// ---- exams ----

func (s *Server) handleExamsList(ctx context.Context, _ *Claims, _ json.RawMessage) (interface{}, error) {
	return s.store.ListExams(ctx)
}

func (s *Server) saveExam(ctx context.Context, payload json.RawMessage, isAdd bool) (interface{}, error) {
	var e bank.Exam
	if err := json.Unmarshal(payload, &e); err != nil {
		return nil, err
	}
	if isAdd {
		e.ID = mintID(e.ID)
	}
	if e.Questions == nil {
		e.Questions = []*bank.ExamQuestion{}
	}
	if err := s.store.PutExam(ctx, &e); err != nil {
		return nil, err
	}
	action := "exams.update"
	if isAdd {
		action = "exams.add"
	}
	_ = s.store.AppendEvent(ctx, action, e.ID, &e)
	return &e, nil
}

func (s *Server) handleExamsAdd(ctx context.Context, _ *Claims, payload json.RawMessage) (interface{}, error) {
	return s.saveExam(ctx, payload, true)
}

func (s *Server) handleExamsUpdate(ctx context.Context, _ *Claims, payload json.RawMessage) (interface{}, error) {
	return s.saveExam(ctx, payload, false)
}

func (s *Server) handleExamsRemove(ctx context.Context, _ *Claims, payload json.RawMessage) (interface{}, error) {
	var in idPayload
	if err := json.Unmarshal(payload, &in); err != nil {
		return nil, err
	}
	if err := s.store.DeleteExam(ctx, in.ID); err != nil {
		return nil, err
	}
	_ = s.store.AppendEvent(ctx, "exams.remove", in.ID, in)
	return nil, nil
}

// ---- games ----

func (s *Server) handleGamesList(ctx context.Context, _ *Claims, _ json.RawMessage) (interface{}, error) {
	return s.store.ListGames(ctx)
}

func (s *Server) saveGame(ctx context.Context, payload json.RawMessage, isAdd bool) (interface{}, error) {
	var g gameRecord
	if err := json.Unmarshal(payload, &g); err != nil {
		return nil, err
	}
	// Older clients sent the config inline; normalize to the column.
	if g.QuizConfigJSON == nil && g.QuizConfig != nil {
		g.QuizConfigJSON = g.QuizConfig
	}
	g.QuizConfig = nil
	if isAdd {
		g.ID = mintID(g.ID)
	}
	if err := s.store.PutGame(ctx, &g); err != nil {
		return nil, err
	}
	action := "games.update"
	if isAdd {
		action = "games.add"
	}
	_ = s.store.AppendEvent(ctx, action, g.ID, &g)
	return &g, nil
}

func (s *Server) handleGamesAdd(ctx context.Context, _ *Claims, payload json.RawMessage) (interface{}, error) {
	return s.saveGame(ctx, payload, true)
}

func (s *Server) handleGamesUpdate(ctx context.Context, _ *Claims, payload json.RawMessage) (interface{}, error) {
	return s.saveGame(ctx, payload, false)
}

func (s *Server) handleGamesRemove(ctx context.Context, _ *Claims, payload json.RawMessage) (interface{}, error) {
	var in idPayload
	if err := json.Unmarshal(payload, &in); err != nil {
		return nil, err
	}
	if err := s.store.DeleteGame(ctx, in.ID); err != nil {
		return nil, err
	}
	_ = s.store.AppendEvent(ctx, "games.remove", in.ID, in)
	return nil, nil
}

func (s *Server) handleGameResult(ctx context.Context, claims *Claims, payload json.RawMessage) (interface{}, error) {
	var in struct {
		StudentID   string  `json:"studentId"`
		GameID      string  `json:"gameId"`
		Score       float64 `json:"score"`
		IsCompleted bool    `json:"isCompleted"`
	}
	if err := json.Unmarshal(payload, &in); err != nil {
		return nil, err
	}
	if err := requireSelf(claims, in.StudentID); err != nil {
		return nil, err
	}
	if err := s.store.InsertGameResult(ctx, uuid.NewString(), in.StudentID, in.GameID, in.Score, in.IsCompleted); err != nil {
		return nil, err
	}
	badge := ""
	if in.IsCompleted {
		badge = "game-" + in.GameID
	}
	if err := s.store.AddGameScore(ctx, in.StudentID, in.Score, badge); err != nil {
		return nil, err
	}
	_ = s.store.AppendEvent(ctx, "games.saveResult", in.StudentID, in)
	return nil, nil
}

// ---- assignments ----

func (s *Server) handleAssignmentsList(ctx context.Context, _ *Claims, _ json.RawMessage) (interface{}, error) {
	return s.store.ListAssignments(ctx)
}

func (s *Server) saveAssignment(ctx context.Context, payload json.RawMessage, isAdd bool) (interface{}, error) {
	var a grading.Assignment
	if err := json.Unmarshal(payload, &a); err != nil {
		return nil, err
	}
	if isAdd {
		a.ID = mintID(a.ID)
	}
	if a.Rubric == nil {
		a.Rubric = []grading.RubricItem{}
	}
	if err := s.store.PutAssignment(ctx, &a); err != nil {
		return nil, err
	}
	action := "assignments.update"
	if isAdd {
		action = "assignments.add"
	}
	_ = s.store.AppendEvent(ctx, action, a.ID, &a)
	return &a, nil
}

func (s *Server) handleAssignmentsAdd(ctx context.Context, _ *Claims, payload json.RawMessage) (interface{}, error) {
	return s.saveAssignment(ctx, payload, true)
}

func (s *Server) handleAssignmentsUpdate(ctx context.Context, _ *Claims, payload json.RawMessage) (interface{}, error) {
	return s.saveAssignment(ctx, payload, false)
}

// ---- progress ----

func (s *Server) handleProgressByStudent(ctx context.Context, claims *Claims, payload json.RawMessage) (interface{}, error) {
	var in struct {
		StudentID string `json:"studentId"`
	}
	if err := json.Unmarshal(payload, &in); err != nil {
		return nil, err
	}
	if err := requireSelf(claims, in.StudentID); err != nil {
		return nil, err
	}
	return s.store.ListProgress(ctx, in.StudentID)
}

func (s *Server) handleProgressList(ctx context.Context, _ *Claims, _ json.RawMessage) (interface{}, error) {
	return s.store.ListProgress(ctx, "")
}

func (s *Server) handleProgressUpdate(ctx context.Context, claims *Claims, payload json.RawMessage) (interface{}, error) {
	var in curriculum.StudentProgress
	if err := json.Unmarshal(payload, &in); err != nil {
		return nil, err
	}
	if in.StudentID == "" || in.LessonID == "" {
		return nil, errors.New("studentId and lessonId required")
	}
	if err := requireSelf(claims, in.StudentID); err != nil {
		return nil, err
	}
	if err := s.store.UpsertProgress(ctx, in); err != nil {
		return nil, err
	}
	_ = s.store.AppendEvent(ctx, "progress.update", in.StudentID+"/"+in.LessonID, in)
	return nil, nil
}

// ---- submissions ----

func (s *Server) handleSubmissionsByStudent(ctx context.Context, claims *Claims, payload json.RawMessage) (interface{}, error) {
	var in struct {
		StudentID string `json:"student_id"`
	}
	if err := json.Unmarshal(payload, &in); err != nil {
		return nil, err
	}
	if err := requireSelf(claims, in.StudentID); err != nil {
		return nil, err
	}
	return s.store.ListSubmissions(ctx, in.StudentID)
}

func (s *Server) handleSubmissionsAll(ctx context.Context, _ *Claims, _ json.RawMessage) (interface{}, error) {
	return s.store.ListSubmissions(ctx, "")
}

func (s *Server) handleSubmissionSubmit(ctx context.Context, claims *Claims, payload json.RawMessage) (interface{}, error) {
	// Writes arrive snake_case from the client.
	var in struct {
		Type         string                  `json:"type"`
		AssignmentID string                  `json:"assignment_id"`
		StudentID    string                  `json:"student_id"`
		StudentName  string                  `json:"studentName"`
		Content      string                  `json:"content"`
		Answers      map[string]*bank.Answer `json:"answers"`
		EssayLinks   map[string]string       `json:"essay_links"`
		AutoScore    *float64                `json:"auto_score"`
		Status       string                  `json:"status"`
	}
	if err := json.Unmarshal(payload, &in); err != nil {
		return nil, err
	}
	if in.AssignmentID == "" || in.StudentID == "" {
		return nil, errors.New("assignment_id and student_id required")
	}
	if err := requireSelf(claims, in.StudentID); err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = "pending"
	}
	rec := submissionRecord{
		ID:           uuid.NewString(),
		Type:         in.Type,
		AssignmentID: in.AssignmentID,
		StudentID:    in.StudentID,
		StudentName:  in.StudentName,
		Content:      in.Content,
		Answers:      in.Answers,
		EssayLinks:   in.EssayLinks,
		SubmittedAt:  time.Now().UnixMilli(),
		AutoScore:    in.AutoScore,
		Status:       in.Status,
	}
	if err := s.store.InsertSubmission(ctx, rec); err != nil {
		return nil, err
	}
	_ = s.store.AppendEvent(ctx, "submissions.submit", rec.ID, rec)
	return rec, nil
}

func (s *Server) handleSubmissionGrade(ctx context.Context, _ *Claims, payload json.RawMessage) (interface{}, error) {
	var in struct {
		ID       string  `json:"id"`
		Grade    float64 `json:"grade"`
		Feedback string  `json:"feedback"`
	}
	if err := json.Unmarshal(payload, &in); err != nil {
		return nil, err
	}
	if err := s.store.GradeSubmission(ctx, in.ID, in.Grade, in.Feedback); err != nil {
		return nil, err
	}
	_ = s.store.AppendEvent(ctx, "submissions.grade", in.ID, in)
	return nil, nil
}
