package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if needed) the state database at dbPath.
// Use ":memory:" for an in-memory database.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, fmt.Errorf("create state directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// An in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		slug TEXT PRIMARY KEY,
		fingerprint TEXT NOT NULL,
		first_seen INTEGER NOT NULL,
		last_changed INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		pages INTEGER NOT NULL,
		changed INTEGER NOT NULL,
		status TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_builds_started_at ON builds(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Observe(ctx context.Context, slug, fingerprint string, now time.Time) (Document, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, found, err := s.get(ctx, slug)
	if err != nil {
		return Document{}, false, err
	}

	switch {
	case !found:
		doc := Document{Slug: slug, Fingerprint: fingerprint, FirstSeen: now, LastChanged: now}
		_, err = s.db.ExecContext(ctx,
			"INSERT INTO documents (slug, fingerprint, first_seen, last_changed) VALUES (?, ?, ?, ?)",
			slug, fingerprint, now.UnixMilli(), now.UnixMilli(),
		)
		if err != nil {
			return Document{}, false, fmt.Errorf("insert document: %w", err)
		}
		return doc, true, nil
	case prev.Fingerprint != fingerprint:
		prev.Fingerprint = fingerprint
		prev.LastChanged = now
		_, err = s.db.ExecContext(ctx,
			"UPDATE documents SET fingerprint = ?, last_changed = ? WHERE slug = ?",
			fingerprint, now.UnixMilli(), slug,
		)
		if err != nil {
			return Document{}, false, fmt.Errorf("update document: %w", err)
		}
		return prev, true, nil
	default:
		return prev, false, nil
	}
}

func (s *SQLiteStore) Get(ctx context.Context, slug string) (Document, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(ctx, slug)
}

func (s *SQLiteStore) get(ctx context.Context, slug string) (Document, bool, error) {
	var doc Document
	var firstSeen, lastChanged int64
	err := s.db.QueryRowContext(ctx,
		"SELECT slug, fingerprint, first_seen, last_changed FROM documents WHERE slug = ?", slug,
	).Scan(&doc.Slug, &doc.Fingerprint, &firstSeen, &lastChanged)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, false, nil
	}
	if err != nil {
		return Document{}, false, fmt.Errorf("query document: %w", err)
	}
	doc.FirstSeen = time.UnixMilli(firstSeen)
	doc.LastChanged = time.UnixMilli(lastChanged)
	return doc, true, nil
}

func (s *SQLiteStore) RecordBuild(ctx context.Context, b Build) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO builds (id, started_at, duration_ms, pages, changed, status) VALUES (?, ?, ?, ?, ?, ?)",
		b.ID, b.StartedAt.UnixMilli(), b.Duration.Milliseconds(), b.Pages, b.Changed, b.Status,
	)
	if err != nil {
		return fmt.Errorf("insert build: %w", err)
	}
	return nil
}

// RecentBuilds returns up to limit builds, newest first.
func (s *SQLiteStore) RecentBuilds(ctx context.Context, limit int) ([]Build, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, started_at, duration_ms, pages, changed, status FROM builds ORDER BY started_at DESC, rowid DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	var builds []Build
	for rows.Next() {
		var b Build
		var startedAt, durationMS int64
		if err := rows.Scan(&b.ID, &startedAt, &durationMS, &b.Pages, &b.Changed, &b.Status); err != nil {
			return nil, fmt.Errorf("scan build: %w", err)
		}
		b.StartedAt = time.UnixMilli(startedAt)
		b.Duration = time.Duration(durationMS) * time.Millisecond
		builds = append(builds, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return builds, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
