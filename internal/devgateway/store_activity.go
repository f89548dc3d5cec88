package devgateway

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/litclass/litclass-lms/internal/bank"
	"github.com/litclass/litclass-lms/internal/curriculum"
)

// submissionRecord mirrors the client's read shape for submissions.
type submissionRecord struct {
	ID           string                  `json:"id"`
	Type         string                  `json:"type"`
	AssignmentID string                  `json:"assignmentId"`
	StudentID    string                  `json:"studentId"`
	StudentName  string                  `json:"studentName"`
	Content      string                  `json:"content,omitempty"`
	Answers      map[string]*bank.Answer `json:"answers,omitempty"`
	EssayLinks   map[string]string       `json:"essayLinks,omitempty"`
	SubmittedAt  int64                   `json:"submittedAt"`
	AutoScore    *float64                `json:"autoScore,omitempty"`
	Grade        *float64                `json:"grade,omitempty"`
	Feedback     string                  `json:"feedback,omitempty"`
	Status       string                  `json:"status"`
}

func (s *Store) UpsertProgress(ctx context.Context, p curriculum.StudentProgress) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO progress (student_id,lesson_id,score,passed,updated_at)
		 VALUES ($1,$2,$3,$4,$5)
		 ON CONFLICT (student_id,lesson_id) DO UPDATE SET
		   score=EXCLUDED.score, passed=EXCLUDED.passed, updated_at=EXCLUDED.updated_at`,
		p.StudentID, p.LessonID, p.Score, boolToInt(p.Passed), time.Now().UnixMilli())
	return err
}

func (s *Store) ListProgress(ctx context.Context, studentID string) ([]curriculum.StudentProgress, error) {
	var rows *sql.Rows
	var err error
	if studentID == "" {
		rows, err = s.db.QueryContext(ctx,
			`SELECT student_id,lesson_id,score,passed,updated_at FROM progress ORDER BY student_id,lesson_id`)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT student_id,lesson_id,score,passed,updated_at FROM progress WHERE student_id=$1 ORDER BY lesson_id`,
			studentID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []curriculum.StudentProgress{}
	for rows.Next() {
		var p curriculum.StudentProgress
		var passed int
		if err := rows.Scan(&p.StudentID, &p.LessonID, &p.Score, &passed, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.Passed = passed != 0
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) InsertSubmission(ctx context.Context, rec submissionRecord) error {
	answers, err := json.Marshal(rec.Answers)
	if err != nil {
		return err
	}
	links, err := json.Marshal(rec.EssayLinks)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO submissions (id,stype,assignment_id,student_id,student_name,content,answers_json,essay_links_json,submitted_at,auto_score,grade,feedback,status)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		rec.ID, rec.Type, rec.AssignmentID, rec.StudentID, rec.StudentName, rec.Content,
		string(answers), string(links), rec.SubmittedAt, rec.AutoScore, rec.Grade, rec.Feedback, rec.Status)
	return err
}

func (s *Store) ListSubmissions(ctx context.Context, studentID string) ([]submissionRecord, error) {
	const cols = `id,stype,assignment_id,student_id,student_name,content,answers_json,essay_links_json,submitted_at,auto_score,grade,feedback,status`
	var rows *sql.Rows
	var err error
	if studentID == "" {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+cols+` FROM submissions ORDER BY submitted_at DESC`)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+cols+` FROM submissions WHERE student_id=$1 ORDER BY submitted_at DESC`, studentID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []submissionRecord{}
	for rows.Next() {
		var rec submissionRecord
		var answers, links string
		var autoScore, grade sql.NullFloat64
		if err := rows.Scan(&rec.ID, &rec.Type, &rec.AssignmentID, &rec.StudentID, &rec.StudentName,
			&rec.Content, &answers, &links, &rec.SubmittedAt, &autoScore, &grade, &rec.Feedback, &rec.Status); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(answers), &rec.Answers); err != nil {
			rec.Answers = nil
		}
		if err := json.Unmarshal([]byte(links), &rec.EssayLinks); err != nil {
			rec.EssayLinks = nil
		}
		if autoScore.Valid {
			v := autoScore.Float64
			rec.AutoScore = &v
		}
		if grade.Valid {
			v := grade.Float64
			rec.Grade = &v
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GradeSubmission writes grade and feedback and flips the status. A second
// grade simply overwrites the first.
func (s *Store) GradeSubmission(ctx context.Context, id string, grade float64, feedback string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE submissions SET grade=$1, feedback=$2, status='graded' WHERE id=$3`,
		grade, feedback, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertGameResult records one play-through.
func (s *Store) InsertGameResult(ctx context.Context, id, studentID, gameID string, score float64, completed bool) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO game_results (id,student_id,game_id,score,is_completed,played_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		id, studentID, gameID, score, boolToInt(completed), time.Now().UnixMilli())
	return err
}

// AddGameScore accumulates a finished game's points onto the student's
// running total and awards the badge when it is not held yet.
func (s *Store) AddGameScore(ctx context.Context, studentID string, score float64, badge string) error {
	u, err := s.GetUser(ctx, studentID)
	if err != nil {
		return err
	}
	badges := u.Badges
	if badge != "" && !contains(badges, badge) {
		badges = append(badges, badge)
	}
	buf, err := json.Marshal(badgesOrEmpty(badges))
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE users SET total_score=total_score+$1, badges_json=$2 WHERE id=$3`,
		score, string(buf), studentID)
	return err
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
