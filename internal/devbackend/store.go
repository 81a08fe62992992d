// Package devbackend is a local stand-in for the healthcare backend. It serves
// the same HTTP contract from a SQLite database of seeded synthetic users and
// answers chat with deterministic keyword-driven replies.
package devbackend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ashureev/healthdash/internal/domain"
	"github.com/ashureev/healthdash/internal/shared"
	_ "modernc.org/sqlite"
)

// TimestampLayout is the stored log timestamp format.
const TimestampLayout = "2006-01-02 15:04:05"

// Profile is a user row as served by GET /users/{id}.
type Profile struct {
	UserID int64 `json:"user_id"`
	domain.UserProfile
	PhysicalLimitations string `json:"physical_limitations"`
}

// Store persists users and logs in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// OpenStore opens (or creates) the database at dbPath.
func OpenStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		user_id INTEGER PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		city TEXT NOT NULL,
		dietary_preference TEXT NOT NULL,
		medical_conditions TEXT NOT NULL,
		physical_limitations TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS logs (
		log_id INTEGER PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(user_id),
		timestamp TEXT NOT NULL,
		log_type TEXT NOT NULL,
		value TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_logs_user_ts ON logs(user_id, timestamp);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// GetUser returns the profile for userID, or nil when there is none.
func (s *Store) GetUser(ctx context.Context, userID int64) (*Profile, error) {
	query := `
		SELECT user_id, first_name, last_name, city, dietary_preference,
		       medical_conditions, physical_limitations
		FROM users WHERE user_id = ?`

	var p Profile
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID, &p.FirstName, &p.LastName, &p.City, &p.DietaryPreference,
		&p.MedicalConditions, &p.PhysicalLimitations,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user row: %w", err)
	}
	return &p, nil
}

// ListLogs returns every log for userID, oldest first.
func (s *Store) ListLogs(ctx context.Context, userID int64) ([]domain.RawLogRecord, error) {
	query := `
		SELECT log_id, user_id, timestamp, log_type, value
		FROM logs WHERE user_id = ?
		ORDER BY timestamp ASC, log_id ASC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close log rows", "error", closeErr)
		}
	}()

	records := []domain.RawLogRecord{}
	for rows.Next() {
		var r domain.RawLogRecord
		var logType string
		if err := rows.Scan(&r.LogID, &r.UserID, &r.Timestamp, &logType, &r.Value); err != nil {
			return nil, fmt.Errorf("scan log row: %w", err)
		}
		r.LogType = domain.LogType(logType)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate logs: %w", err)
	}
	return records, nil
}

// LogData appends a log record stamped with the current time.
func (s *Store) LogData(ctx context.Context, userID int64, logType domain.LogType, value string) error {
	return s.insertLog(ctx, userID, logType, value, s.now())
}

func (s *Store) insertLog(ctx context.Context, userID int64, logType domain.LogType, value string, at time.Time) error {
	query := `INSERT INTO logs (user_id, timestamp, log_type, value) VALUES (?, ?, ?, ?)`
	err := shared.RetryOnConflict(ctx, 3, 50*time.Millisecond, func() error {
		_, err := s.db.ExecContext(ctx, query, userID, at.Format(TimestampLayout), string(logType), value)
		return err
	})
	if err != nil {
		return fmt.Errorf("insert %s log for user %d: %w", logType, userID, err)
	}
	return nil
}

// CountUsers returns the number of user rows.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
