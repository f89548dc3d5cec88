package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures the schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:litclass.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/litclass?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := EnsureSchema(ctx, db, driver); err != nil {
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates all tables if missing. system.setup calls this too,
// so a fresh gateway can be bootstrapped over the wire.
func EnsureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	default:
		return fmt.Errorf("unsupported driver: %s", driver)
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  pass_hash TEXT NOT NULL,
  name TEXT NOT NULL,
  role TEXT NOT NULL,
  avatar TEXT NOT NULL DEFAULT '',
  parent_name TEXT NOT NULL DEFAULT '',
  phone TEXT NOT NULL DEFAULT '',
  total_score REAL NOT NULL DEFAULT 0,
  study_time INTEGER NOT NULL DEFAULT 0,
  badges_json TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS lessons (
  id TEXT PRIMARY KEY,
  ord INTEGER NOT NULL,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  month_unlock INTEGER NOT NULL DEFAULT 1,
  introduction_html TEXT NOT NULL DEFAULT '',
  sub_lessons_json TEXT NOT NULL DEFAULT '[]',
  is_published INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS questions (
  id TEXT PRIMARY KEY,
  lesson_id TEXT NOT NULL DEFAULT '',
  qtype TEXT NOT NULL,
  question TEXT NOT NULL,
  options_json TEXT NOT NULL DEFAULT '[]',
  correct_json TEXT NOT NULL DEFAULT 'null',
  points REAL NOT NULL DEFAULT 1,
  tags_json TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS exams (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  etype TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  duration INTEGER NOT NULL DEFAULT 0,
  reading_passage TEXT NOT NULL DEFAULT '',
  questions_json TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS games (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  level TEXT NOT NULL DEFAULT 'easy',
  gtype TEXT NOT NULL DEFAULT 'quiz',
  thumbnail TEXT NOT NULL DEFAULT '',
  game_url TEXT NOT NULL DEFAULT '',
  quiz_config_json TEXT NOT NULL DEFAULT 'null',
  is_active INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS game_results (
  id TEXT PRIMARY KEY,
  student_id TEXT NOT NULL,
  game_id TEXT NOT NULL,
  score REAL NOT NULL DEFAULT 0,
  is_completed INTEGER NOT NULL DEFAULT 0,
  played_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS assignments (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  deadline INTEGER NOT NULL DEFAULT 0,
  rubric_json TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS progress (
  student_id TEXT NOT NULL,
  lesson_id TEXT NOT NULL,
  score REAL NOT NULL DEFAULT 0,
  passed INTEGER NOT NULL DEFAULT 0,
  updated_at INTEGER NOT NULL,
  PRIMARY KEY (student_id, lesson_id)
);

CREATE TABLE IF NOT EXISTS submissions (
  id TEXT PRIMARY KEY,
  stype TEXT NOT NULL,
  assignment_id TEXT NOT NULL,
  student_id TEXT NOT NULL,
  student_name TEXT NOT NULL DEFAULT '',
  content TEXT NOT NULL DEFAULT '',
  answers_json TEXT NOT NULL DEFAULT 'null',
  essay_links_json TEXT NOT NULL DEFAULT 'null',
  submitted_at INTEGER NOT NULL,
  auto_score REAL,
  grade REAL,
  feedback TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'pending'
);

CREATE TABLE IF NOT EXISTS event_log (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,    -- BIGSERIAL in Postgres
  typ TEXT NOT NULL,                        -- e.g., submissions.grade
  key TEXT NOT NULL,                        -- natural key: record id
  data TEXT NOT NULL,                       -- JSON payload
  created_at INTEGER NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  pass_hash TEXT NOT NULL,
  name TEXT NOT NULL,
  role TEXT NOT NULL,
  avatar TEXT NOT NULL DEFAULT '',
  parent_name TEXT NOT NULL DEFAULT '',
  phone TEXT NOT NULL DEFAULT '',
  total_score DOUBLE PRECISION NOT NULL DEFAULT 0,
  study_time BIGINT NOT NULL DEFAULT 0,
  badges_json TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS lessons (
  id TEXT PRIMARY KEY,
  ord INTEGER NOT NULL,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  month_unlock INTEGER NOT NULL DEFAULT 1,
  introduction_html TEXT NOT NULL DEFAULT '',
  sub_lessons_json TEXT NOT NULL DEFAULT '[]',
  is_published INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS questions (
  id TEXT PRIMARY KEY,
  lesson_id TEXT NOT NULL DEFAULT '',
  qtype TEXT NOT NULL,
  question TEXT NOT NULL,
  options_json TEXT NOT NULL DEFAULT '[]',
  correct_json TEXT NOT NULL DEFAULT 'null',
  points DOUBLE PRECISION NOT NULL DEFAULT 1,
  tags_json TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS exams (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  etype TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  duration INTEGER NOT NULL DEFAULT 0,
  reading_passage TEXT NOT NULL DEFAULT '',
  questions_json TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS games (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  level TEXT NOT NULL DEFAULT 'easy',
  gtype TEXT NOT NULL DEFAULT 'quiz',
  thumbnail TEXT NOT NULL DEFAULT '',
  game_url TEXT NOT NULL DEFAULT '',
  quiz_config_json TEXT NOT NULL DEFAULT 'null',
  is_active INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS game_results (
  id TEXT PRIMARY KEY,
  student_id TEXT NOT NULL,
  game_id TEXT NOT NULL,
  score DOUBLE PRECISION NOT NULL DEFAULT 0,
  is_completed INTEGER NOT NULL DEFAULT 0,
  played_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS assignments (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  deadline BIGINT NOT NULL DEFAULT 0,
  rubric_json TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS progress (
  student_id TEXT NOT NULL,
  lesson_id TEXT NOT NULL,
  score DOUBLE PRECISION NOT NULL DEFAULT 0,
  passed INTEGER NOT NULL DEFAULT 0,
  updated_at BIGINT NOT NULL,
  PRIMARY KEY (student_id, lesson_id)
);

CREATE TABLE IF NOT EXISTS submissions (
  id TEXT PRIMARY KEY,
  stype TEXT NOT NULL,
  assignment_id TEXT NOT NULL,
  student_id TEXT NOT NULL,
  student_name TEXT NOT NULL DEFAULT '',
  content TEXT NOT NULL DEFAULT '',
  answers_json TEXT NOT NULL DEFAULT 'null',
  essay_links_json TEXT NOT NULL DEFAULT 'null',
  submitted_at BIGINT NOT NULL,
  auto_score DOUBLE PRECISION,
  grade DOUBLE PRECISION,
  feedback TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'pending'
);

CREATE TABLE IF NOT EXISTS event_log (
  seq BIGSERIAL PRIMARY KEY,
  typ TEXT NOT NULL,
  key TEXT NOT NULL,
  data TEXT NOT NULL,
  created_at BIGINT NOT NULL
);
`
