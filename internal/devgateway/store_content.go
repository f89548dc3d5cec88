package devgateway

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/litclass/litclass-lms/internal/bank"
	"github.com/litclass/litclass-lms/internal/curriculum"
	"github.com/litclass/litclass-lms/internal/game"
	"github.com/litclass/litclass-lms/internal/grading"
)

// gameRecord adds the storage-side config column to the game model.
type gameRecord struct {
	game.Game
	QuizConfigJSON *game.Config `json:"quizConfigJson,omitempty"`
}

func (s *Store) PutLesson(ctx context.Context, l *curriculum.Lesson) error {
	subs, err := json.Marshal(l.SubLessons)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO lessons (id,ord,title,description,month_unlock,introduction_html,sub_lessons_json,is_published)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 ON CONFLICT (id) DO UPDATE SET
		   ord=EXCLUDED.ord, title=EXCLUDED.title, description=EXCLUDED.description,
		   month_unlock=EXCLUDED.month_unlock, introduction_html=EXCLUDED.introduction_html,
		   sub_lessons_json=EXCLUDED.sub_lessons_json, is_published=EXCLUDED.is_published`,
		l.ID, l.Order, l.Title, l.Description, l.MonthUnlock, l.IntroductionHTML,
		string(subs), boolToInt(bool(l.PublishedFlag)))
	return err
}

func (s *Store) ListLessons(ctx context.Context) ([]*curriculum.Lesson, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,ord,title,description,month_unlock,introduction_html,sub_lessons_json,is_published
		 FROM lessons ORDER BY ord`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*curriculum.Lesson{}
	for rows.Next() {
		var l curriculum.Lesson
		var subs string
		var pub int
		if err := rows.Scan(&l.ID, &l.Order, &l.Title, &l.Description, &l.MonthUnlock,
			&l.IntroductionHTML, &subs, &pub); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(subs), &l.SubLessons); err != nil {
			l.SubLessons = []curriculum.SubLesson{}
		}
		l.PublishedFlag = curriculum.IntBool(pub != 0)
		l.IsPublished = pub != 0
		out = append(out, &l)
	}
	return out, rows.Err()
}

func (s *Store) DeleteLesson(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM lessons WHERE id=$1`, id)
	return err
}

func (s *Store) PutQuestion(ctx context.Context, q *bank.BankQuestion) error {
	opts, err := json.Marshal(q.Options)
	if err != nil {
		return err
	}
	correct, err := json.Marshal(q.Correct)
	if err != nil {
		return err
	}
	tags, err := json.Marshal(q.Tags)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO questions (id,lesson_id,qtype,question,options_json,correct_json,points,tags_json)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 ON CONFLICT (id) DO UPDATE SET
		   lesson_id=EXCLUDED.lesson_id, qtype=EXCLUDED.qtype, question=EXCLUDED.question,
		   options_json=EXCLUDED.options_json, correct_json=EXCLUDED.correct_json,
		   points=EXCLUDED.points, tags_json=EXCLUDED.tags_json`,
		q.ID, q.LessonID, string(q.Type), q.Text, string(opts), string(correct),
		q.PointsOrDefault(), string(tags))
	return err
}

// ListQuestions filters to one lesson unless lessonID is empty or "all".
func (s *Store) ListQuestions(ctx context.Context, lessonID string) ([]*bank.BankQuestion, error) {
	var rows *sql.Rows
	var err error
	if lessonID == "" || lessonID == "all" {
		rows, err = s.db.QueryContext(ctx,
			`SELECT id,lesson_id,qtype,question,options_json,correct_json,points,tags_json FROM questions ORDER BY id`)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT id,lesson_id,qtype,question,options_json,correct_json,points,tags_json FROM questions WHERE lesson_id=$1 ORDER BY id`,
			lessonID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*bank.BankQuestion{}
	for rows.Next() {
		var q bank.BankQuestion
		var qtype, opts, correct, tags string
		if err := rows.Scan(&q.ID, &q.LessonID, &qtype, &q.Text, &opts, &correct, &q.Points, &tags); err != nil {
			return nil, err
		}
		q.Type = bank.QuestionType(qtype)
		if err := json.Unmarshal([]byte(opts), &q.Options); err != nil {
			q.Options = nil
		}
		if err := json.Unmarshal([]byte(correct), &q.Correct); err != nil {
			q.Correct = nil
		}
		if err := json.Unmarshal([]byte(tags), &q.Tags); err != nil {
			q.Tags = nil
		}
		out = append(out, &q)
	}
	return out, rows.Err()
}

func (s *Store) DeleteQuestion(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id=$1`, id)
	return err
}

func (s *Store) PutExam(ctx context.Context, e *bank.Exam) error {
	qs, err := json.Marshal(e.Questions)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO exams (id,title,etype,description,duration,reading_passage,questions_json)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 ON CONFLICT (id) DO UPDATE SET
		   title=EXCLUDED.title, etype=EXCLUDED.etype, description=EXCLUDED.description,
		   duration=EXCLUDED.duration, reading_passage=EXCLUDED.reading_passage,
		   questions_json=EXCLUDED.questions_json`,
		e.ID, e.Title, string(e.Type), e.Description, e.Duration, e.ReadingPassage, string(qs))
	return err
}

func (s *Store) ListExams(ctx context.Context) ([]*bank.Exam, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,title,etype,description,duration,reading_passage,questions_json FROM exams ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*bank.Exam{}
	for rows.Next() {
		var e bank.Exam
		var etype, qs string
		if err := rows.Scan(&e.ID, &e.Title, &etype, &e.Description, &e.Duration, &e.ReadingPassage, &qs); err != nil {
			return nil, err
		}
		e.Type = bank.ExamType(etype)
		if err := json.Unmarshal([]byte(qs), &e.Questions); err != nil {
			e.Questions = []*bank.ExamQuestion{}
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (s *Store) DeleteExam(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM exams WHERE id=$1`, id)
	return err
}

func (s *Store) PutGame(ctx context.Context, g *gameRecord) error {
	cfg, err := json.Marshal(g.QuizConfigJSON)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO games (id,title,description,level,gtype,thumbnail,game_url,quiz_config_json,is_active)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		 ON CONFLICT (id) DO UPDATE SET
		   title=EXCLUDED.title, description=EXCLUDED.description, level=EXCLUDED.level,
		   gtype=EXCLUDED.gtype, thumbnail=EXCLUDED.thumbnail, game_url=EXCLUDED.game_url,
		   quiz_config_json=EXCLUDED.quiz_config_json, is_active=EXCLUDED.is_active`,
		g.ID, g.Title, g.Description, string(g.Level), string(g.Type), g.Thumbnail,
		g.GameURL, string(cfg), boolToInt(g.IsActive))
	return err
}

func (s *Store) ListGames(ctx context.Context) ([]*gameRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,title,description,level,gtype,thumbnail,game_url,quiz_config_json,is_active FROM games ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*gameRecord{}
	for rows.Next() {
		var g gameRecord
		var level, gtype, cfg string
		var active int
		if err := rows.Scan(&g.ID, &g.Title, &g.Description, &level, &gtype,
			&g.Thumbnail, &g.GameURL, &cfg, &active); err != nil {
			return nil, err
		}
		g.Level = game.Difficulty(level)
		g.Type = game.Kind(gtype)
		g.IsActive = active != 0
		if err := json.Unmarshal([]byte(cfg), &g.QuizConfigJSON); err != nil {
			g.QuizConfigJSON = nil
		}
		out = append(out, &g)
	}
	return out, rows.Err()
}

func (s *Store) GetGame(ctx context.Context, id string) (*gameRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,title,description,level,gtype,thumbnail,game_url,quiz_config_json,is_active FROM games WHERE id=$1`, id)
	var g gameRecord
	var level, gtype, cfg string
	var active int
	err := row.Scan(&g.ID, &g.Title, &g.Description, &level, &gtype,
		&g.Thumbnail, &g.GameURL, &cfg, &active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	g.Level = game.Difficulty(level)
	g.Type = game.Kind(gtype)
	g.IsActive = active != 0
	if err := json.Unmarshal([]byte(cfg), &g.QuizConfigJSON); err != nil {
		g.QuizConfigJSON = nil
	}
	return &g, nil
}

func (s *Store) DeleteGame(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM games WHERE id=$1`, id)
	return err
}

func (s *Store) PutAssignment(ctx context.Context, a *grading.Assignment) error {
	rubric, err := json.Marshal(a.Rubric)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO assignments (id,title,description,deadline,rubric_json)
		 VALUES ($1,$2,$3,$4,$5)
		 ON CONFLICT (id) DO UPDATE SET
		   title=EXCLUDED.title, description=EXCLUDED.description,
		   deadline=EXCLUDED.deadline, rubric_json=EXCLUDED.rubric_json`,
		a.ID, a.Title, a.Description, a.Deadline, string(rubric))
	return err
}

func (s *Store) ListAssignments(ctx context.Context) ([]*grading.Assignment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,title,description,deadline,rubric_json FROM assignments ORDER BY deadline`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*grading.Assignment{}
	for rows.Next() {
		var a grading.Assignment
		var rubric string
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.Deadline, &rubric); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(rubric), &a.Rubric); err != nil {
			a.Rubric = []grading.RubricItem{}
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
