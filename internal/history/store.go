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

const (
	driverName  = "sqlite"
	maxAttempts = 5
)

// Run is one recorded analysis: statistics only, never the graph itself.
type Run struct {
	ID           string
	Root         string
	MaxDepth     int
	Filter       string
	TestMode     bool
	PackageCount int
	EdgeCount    int
	CycleCount   int
	Duration     time.Duration
	StartedAt    time.Time
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

	// busy_timeout + WAL reduce lock conflicts when watch mode re-runs fast.
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

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// SaveRun records one analysis run. A missing id or timestamp is filled in.
func (s *Store) SaveRun(run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	query := `
INSERT INTO runs (
  run_id, root, max_depth, filter_substring, test_mode,
  package_count, edge_count, cycle_count, duration_ms, started_at_utc
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`
	return s.withRetry("save run", func() error {
		_, err := s.db.Exec(
			query,
			run.ID,
			run.Root,
			run.MaxDepth,
			run.Filter,
			boolToInt(run.TestMode),
			run.PackageCount,
			run.EdgeCount,
			run.CycleCount,
			run.Duration.Milliseconds(),
			run.StartedAt.UTC().Format(time.RFC3339Nano),
		)
		return err
	})
}

// RecentRuns returns the newest runs first, up to limit.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 10
	}

	query := `
SELECT run_id, root, max_depth, filter_substring, test_mode,
       package_count, edge_count, cycle_count, duration_ms, started_at_utc
FROM runs
ORDER BY started_at_utc DESC
LIMIT ?
`
	var rows *sql.Rows
	err := s.withRetry("load runs", func() error {
		var qErr error
		rows, qErr = s.db.Query(query, limit)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]Run, 0, limit)
	for rows.Next() {
		var (
			run        Run
			testMode   int
			durationMS int64
			startedRaw string
		)
		if err := rows.Scan(
			&run.ID,
			&run.Root,
			&run.MaxDepth,
			&run.Filter,
			&testMode,
			&run.PackageCount,
			&run.EdgeCount,
			&run.CycleCount,
			&durationMS,
			&startedRaw,
		); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}

		run.TestMode = testMode != 0
		run.Duration = time.Duration(durationMS) * time.Millisecond

		started, err := time.Parse(time.RFC3339Nano, startedRaw)
		if err != nil {
			return nil, fmt.Errorf("parse run timestamp %q: %w", startedRaw, err)
		}
		run.StartedAt = started.UTC()

		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
