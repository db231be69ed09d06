package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/resumeanalyzerai/prerender/internal/foundation/errors"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if needed) the database at dbPath. Use
// ":memory:" for an in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, errors.WrapError(err, errors.CategoryState, "failed to create state directory").
				WithContext("path", dbPath).Build()
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryState, "could not open build history database").
			WithContext("path", dbPath).Build()
	}
	// A single connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, errors.WrapError(err, errors.CategoryState, "failed to initialize build history schema").
			WithContext("path", dbPath).Build()
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		written INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		issues INTEGER NOT NULL,
		error TEXT,
		pages TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_builds_started_at ON builds(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append records a finished build.
func (s *SQLiteStore) Append(ctx context.Context, b Build) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pages, err := json.Marshal(b.Pages)
	if err != nil {
		return errors.WrapError(err, errors.CategoryState, "failed to marshal page counts").Build()
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO builds (id, started_at, finished_at, outcome, written, skipped, issues, error, pages) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		b.ID, b.StartedAt.UnixMilli(), b.FinishedAt.UnixMilli(), b.Outcome, b.Written, b.Skipped, b.Issues, b.Error, string(pages),
	)
	if err != nil {
		return errors.WrapError(err, errors.CategoryState, "failed to record build").WithContext("build_id", b.ID).Build()
	}
	return nil
}

// List returns up to limit builds, newest first. limit <= 0 returns all.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Build, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, started_at, finished_at, outcome, written, skipped, issues, error, pages FROM builds ORDER BY seq DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryState, "failed to query builds").Build()
	}
	defer func() { _ = rows.Close() }()

	var builds []Build
	for rows.Next() {
		var (
			b                 Build
			started, finished int64
			errText, pages    sql.NullString
		)
		if err := rows.Scan(&b.ID, &started, &finished, &b.Outcome, &b.Written, &b.Skipped, &b.Issues, &errText, &pages); err != nil {
			return nil, errors.WrapError(err, errors.CategoryState, "failed to scan build row").Build()
		}
		b.StartedAt = time.UnixMilli(started).UTC()
		b.FinishedAt = time.UnixMilli(finished).UTC()
		b.Error = errText.String
		if pages.Valid && pages.String != "" && pages.String != "null" {
			if err := json.Unmarshal([]byte(pages.String), &b.Pages); err != nil {
				return nil, errors.WrapError(err, errors.CategoryState, "failed to unmarshal page counts").
					WithContext("build_id", b.ID).Build()
			}
		}
		builds = append(builds, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapError(err, errors.CategoryState, "failed to iterate builds").Build()
	}
	return builds, nil
}

// Last returns the most recent build, or nil when none is recorded.
func (s *SQLiteStore) Last(ctx context.Context) (*Build, error) {
	builds, err := s.List(ctx, 1)
	if err != nil || len(builds) == 0 {
		return nil, err
	}
	return &builds[0], nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
