package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"careerhub-client/internal/session/domain/model"
	apperrors "careerhub-client/internal/shared/errors"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the session in a single-row table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and migrates) the database at dbPath. ":memory:" is
// accepted for tests.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		dsn = dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection: the table holds one row and ":memory:" is per-connection.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS session (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		token TEXT NOT NULL,
		user_id INTEGER NOT NULL,
		display_name TEXT NOT NULL,
		saved_at INTEGER NOT NULL
	);`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Save(ctx context.Context, session *model.Session) error {
	if err := session.Validate(); err != nil {
		return err
	}
	savedAt := session.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin session tx: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO session (id, token, user_id, display_name, saved_at)
	VALUES (1, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		token = excluded.token,
		user_id = excluded.user_id,
		display_name = excluded.display_name,
		saved_at = excluded.saved_at`
	if _, err := tx.ExecContext(ctx, query, session.Token, session.UserID, session.DisplayName, savedAt.UnixMilli()); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) Current(ctx context.Context) (*model.Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT token, user_id, display_name, saved_at FROM session WHERE id = 1`)

	var session model.Session
	var savedAt int64
	err := row.Scan(&session.Token, &session.UserID, &session.DisplayName, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("scan session row: %w", err)
	}
	session.SavedAt = time.UnixMilli(savedAt).UTC()
	return &session, nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) IsActive(ctx context.Context) bool {
	_, err := s.Current(ctx)
	return err == nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
