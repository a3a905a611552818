// Package history persists one summary row per analysis run so trends
// across runs can be inspected without keeping raw edge lists.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

// Run is one analysis run summary.
type Run struct {
	ID            string
	Timestamp     time.Time
	ArchiveCount  int
	ClassCount    int
	EdgesSeen     int
	EdgesAccepted int
	InternalsMode bool
	// InternalFindings counts distinct internal packages referenced,
	// zero outside internals mode.
	InternalFindings int
}

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRun inserts the run, assigning an id and timestamp when unset,
// and prunes rows beyond keep (0 keeps everything).
func (s *Store) SaveRun(run Run, keep int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now().UTC()
	}

	internals := 0
	if run.InternalsMode {
		internals = 1
	}
	_, err := s.db.Exec(`
INSERT INTO runs (run_id, schema_version, ts_utc, archive_count, class_count, edges_seen, edges_accepted, internals_mode, internal_findings)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		SchemaVersion,
		run.Timestamp.UTC().Format(time.RFC3339Nano),
		run.ArchiveCount,
		run.ClassCount,
		run.EdgesSeen,
		run.EdgesAccepted,
		internals,
		run.InternalFindings,
	)
	if err != nil {
		return "", fmt.Errorf("save run: %w", err)
	}

	if keep > 0 {
		_, err = s.db.Exec(`
DELETE FROM runs WHERE run_id NOT IN (
  SELECT run_id FROM runs ORDER BY ts_utc DESC LIMIT ?
)`, keep)
		if err != nil {
			return "", fmt.Errorf("prune runs: %w", err)
		}
	}
	return run.ID, nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(`
SELECT run_id, ts_utc, archive_count, class_count, edges_seen, edges_accepted, internals_mode, internal_findings
FROM runs ORDER BY ts_utc DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("load runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var ts string
		var internals int
		if err := rows.Scan(&r.ID, &ts, &r.ArchiveCount, &r.ClassCount, &r.EdgesSeen, &r.EdgesAccepted, &internals, &r.InternalFindings); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse run timestamp %q: %w", ts, err)
		}
		r.InternalsMode = internals != 0
		out = append(out, r)
	}
	return out, rows.Err()
}
