package devgateway

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/litclass/litclass-lms/internal/db"
	"github.com/litclass/litclass-lms/internal/roster"
	"github.com/litclass/litclass-lms/internal/session"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrBadCredential = errors.New("invalid credentials")
)

// Store is the SQL persistence behind the dispatcher. Document-ish fields
// (sub-lessons, options, answers, rubrics) live in JSON columns; everything
// queried on is a real column.
type Store struct {
	db     *sql.DB
	driver db.Driver
}

func NewStore(dbh *sql.DB, driver db.Driver) *Store {
	return &Store{db: dbh, driver: driver}
}

// EnsureSchema re-runs the DDL so system.setup can bootstrap a fresh
// database over the wire.
func (s *Store) EnsureSchema(ctx context.Context) error {
	return db.EnsureSchema(ctx, s.db, s.driver)
}

// userRecord is a users row. The password hash never leaves the store.
type userRecord struct {
	roster.StudentAccount
	PassHash string
}

func (s *Store) UpsertUser(ctx context.Context, u userRecord) error {
	badges, err := json.Marshal(badgesOrEmpty(u.Badges))
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id,username,pass_hash,name,role,avatar,parent_name,phone,total_score,study_time,badges_json)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		 ON CONFLICT (id) DO UPDATE SET
		   username=EXCLUDED.username, name=EXCLUDED.name, role=EXCLUDED.role,
		   avatar=EXCLUDED.avatar, parent_name=EXCLUDED.parent_name, phone=EXCLUDED.phone,
		   total_score=EXCLUDED.total_score, study_time=EXCLUDED.study_time,
		   badges_json=EXCLUDED.badges_json,
		   pass_hash=CASE WHEN EXCLUDED.pass_hash='' THEN users.pass_hash ELSE EXCLUDED.pass_hash END`,
		u.ID, u.Username, u.PassHash, u.Name, string(u.Role), u.Avatar,
		u.ParentName, u.Phone, u.TotalScore, u.StudyTime, string(badges))
	return err
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (userRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,username,pass_hash,name,role,avatar,parent_name,phone,total_score,study_time,badges_json
		 FROM users WHERE username=$1`, username)
	return scanUser(row)
}

func (s *Store) GetUser(ctx context.Context, id string) (userRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,username,pass_hash,name,role,avatar,parent_name,phone,total_score,study_time,badges_json
		 FROM users WHERE id=$1`, id)
	return scanUser(row)
}

type rowScanner interface{ Scan(dest ...interface{}) error }

func scanUser(row rowScanner) (userRecord, error) {
	var u userRecord
	var role, badges string
	err := row.Scan(&u.ID, &u.Username, &u.PassHash, &u.Name, &role, &u.Avatar,
		&u.ParentName, &u.Phone, &u.TotalScore, &u.StudyTime, &badges)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return userRecord{}, ErrNotFound
		}
		return userRecord{}, err
	}
	u.Role = session.Role(role)
	if err := json.Unmarshal([]byte(badges), &u.Badges); err != nil {
		u.Badges = nil
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]userRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,username,pass_hash,name,role,avatar,parent_name,phone,total_score,study_time,badges_json
		 FROM users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []userRecord{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id=$1`, id)
	return err
}

// Authenticate checks the bcrypt hash and returns the matching user.
func (s *Store) Authenticate(ctx context.Context, username, password string) (userRecord, error) {
	u, err := s.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return userRecord{}, ErrBadCredential
		}
		return userRecord{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PassHash), []byte(password)) != nil {
		return userRecord{}, ErrBadCredential
	}
	return u, nil
}

// SeedTeacher creates the default teacher account if no teacher exists yet.
func (s *Store) SeedTeacher(ctx context.Context, id, username, password string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE role='teacher'`).Scan(&n); err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	err = s.UpsertUser(ctx, userRecord{
		StudentAccount: roster.StudentAccount{
			User: session.User{ID: id, Username: username, Name: "Giáo viên", Role: session.RoleTeacher},
		},
		PassHash: string(hash),
	})
	return err == nil, err
}

// AppendEvent records a mutation in the event log. The log is append-only
// and exists so a future sync layer can replay changes.
func (s *Store) AppendEvent(ctx context.Context, typ, key string, data interface{}) error {
	buf, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO event_log (typ, key, data, created_at) VALUES ($1,$2,$3,$4)`,
		typ, key, string(buf), time.Now().Unix())
	return err
}

func badgesOrEmpty(b []string) []string {
	if b == nil {
		return []string{}
	}
	return b
}
