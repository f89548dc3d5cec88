// Package devgateway is a self-hosted backend for the litclass client: a
// single POST /api endpoint dispatching on the envelope's action name,
// backed by sqlite or postgres. It exists so a classroom can run the
// whole system on one machine without the hosted spreadsheet backend.
package devgateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// handlerFunc handles one action. claims is nil for public actions.
type handlerFunc func(ctx context.Context, claims *Claims, payload json.RawMessage) (interface{}, error)

type Server struct {
	store *Store
	auth  *AuthService
	rbac  *Checker

	adminUser string
	adminPass string

	handlers map[string]handlerFunc
	public   map[string]bool
}

func NewServer(store *Store, auth *AuthService, adminUser, adminPass string) *Server {
	s := &Server{
		store:     store,
		auth:      auth,
		rbac:      NewChecker(nil),
		adminUser: adminUser,
		adminPass: adminPass,
	}
	s.public = map[string]bool{
		"auth.login":   true,
		"system.setup": true,
	}
	s.handlers = map[string]handlerFunc{
		"auth.login":   s.handleLogin,
		"system.setup": s.handleSetup,

		"lessons.list":   s.handleLessonsList,
		"lessons.add":    s.handleLessonsAdd,
		"lessons.update": s.handleLessonsUpdate,
		"lessons.remove": s.handleLessonsRemove,

		"users.list":      s.handleUsersList,
		"students.add":    s.handleStudentsAdd,
		"students.update": s.handleStudentsUpdate,
		"students.remove": s.handleStudentsRemove,

		"questions.list":   s.handleQuestionsList,
		"questions.add":    s.handleQuestionsAdd,
		"questions.update": s.handleQuestionsUpdate,
		"questions.remove": s.handleQuestionsRemove,

		"exams.list":   s.handleExamsList,
		"exams.add":    s.handleExamsAdd,
		"exams.update": s.handleExamsUpdate,
		"exams.remove": s.handleExamsRemove,

		"games.list":       s.handleGamesList,
		"games.add":        s.handleGamesAdd,
		"games.update":     s.handleGamesUpdate,
		"games.remove":     s.handleGamesRemove,
		"games.saveResult": s.handleGameResult,

		"assignments.list":   s.handleAssignmentsList,
		"assignments.add":    s.handleAssignmentsAdd,
		"assignments.update": s.handleAssignmentsUpdate,

		"progress.listByStudent": s.handleProgressByStudent,
		"progress.list":          s.handleProgressList,
		"progress.update":        s.handleProgressUpdate,

		"submissions.listByStudent": s.handleSubmissionsByStudent,
		"submissions.listAll":       s.handleSubmissionsAll,
		"submissions.submit":        s.handleSubmissionSubmit,
		"submissions.grade":         s.handleSubmissionGrade,

		"reports.classOverview": s.handleClassOverview,
	}
	return s
}

// Router builds the HTTP surface: POST /api plus health probes.
func (s *Server) Router(corsOrigins []string) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/api", s.handleAPI)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	return r
}

type envelope struct {
	OK    bool        `json:"ok"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// handleAPI decodes the {action, payload} request and dispatches. Errors
// travel in the envelope with HTTP 200, matching what the client expects
// from the spreadsheet backend.
func (s *Server) handleAPI(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action  string          `json:"action"`
		Payload json.RawMessage `json:"payload"`
	}
	// The client sends text/plain to avoid CORS preflight; decode the
	// body regardless of content type.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, envelope{OK: false, Error: "bad request"})
		return
	}
	h, ok := s.handlers[req.Action]
	if !ok {
		writeEnvelope(w, envelope{OK: false, Error: "unknown action: " + req.Action})
		return
	}

	var claims *Claims
	if !s.public[req.Action] {
		var err error
		claims, err = s.bearerClaims(r)
		if err != nil {
			writeEnvelope(w, envelope{OK: false, Error: "unauthorized"})
			return
		}
		if !s.rbac.Has(claims.Role, req.Action) {
			writeEnvelope(w, envelope{OK: false, Error: "forbidden"})
			return
		}
	}

	data, err := h(r.Context(), claims, req.Payload)
	if err != nil {
		writeEnvelope(w, envelope{OK: false, Error: err.Error()})
		return
	}
	writeEnvelope(w, envelope{OK: true, Data: data})
}

func (s *Server) bearerClaims(r *http.Request) (*Claims, error) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return nil, errBadToken
	}
	return s.auth.Parse(strings.TrimPrefix(h, "Bearer "))
}

func writeEnvelope(w http.ResponseWriter, env envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(env)
}

// errForbidden rejects a student acting on another student's records.
var errForbidden = errors.New("forbidden")

// requireSelf lets teachers through and pins students to their own id.
func requireSelf(claims *Claims, studentID string) error {
	if claims == nil || claims.Role == "teacher" {
		return nil
	}
	if claims.Sub != studentID {
		return errForbidden
	}
	return nil
}
