package memory

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hupe1980/ginny/core"
)

var _ core.PreferenceStore = (*SQLiteStore)(nil)

// SQLiteStore implements core.PreferenceStore using a SQLite database.
type SQLiteStore struct{ db *sql.DB }

// NewSQLiteStore opens (and migrates) the database at dsn.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// go-sqlite3 serializes writers; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS preferences (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id TEXT NOT NULL,
  statement TEXT NOT NULL,
  created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_preferences_user_id ON preferences(user_id, id);
`)
	return err
}

// Get returns the user's statements in insertion order.
func (s *SQLiteStore) Get(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT statement FROM preferences WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, core.NewProviderError("sqlite", "get", err)
	}
	defer func() { _ = rows.Close() }()

	out := []string{}
	for rows.Next() {
		var statement string
		if err := rows.Scan(&statement); err != nil {
			return nil, core.NewProviderError("sqlite", "get", err)
		}
		out = append(out, statement)
	}
	if err := rows.Err(); err != nil {
		return nil, core.NewProviderError("sqlite", "get", err)
	}
	return out, nil
}

// Put appends a statement for userID.
func (s *SQLiteStore) Put(ctx context.Context, userID, statement string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO preferences (user_id, statement, created_at) VALUES (?, ?, ?)`,
		userID, statement, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return core.NewProviderError("sqlite", "put", err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
