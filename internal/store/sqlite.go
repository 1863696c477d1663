// Package store persists evaluation runs in SQLite and serves the
// leaderboard and per-model history from them.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hydroworks/hydrobench/internal/scorer"
)

const defaultLimit = 50

type Store struct {
	db *sql.DB
}

// RunRecord is one persisted evaluation run.
type RunRecord struct {
	ID        int64             `json:"id"`
	Model     string            `json:"model"`
	Provider  string            `json:"provider,omitempty"`
	Benchmark string            `json:"benchmark"`
	Count     int               `json:"count"`
	Correct   int               `json:"correct"`
	Missing   int               `json:"missing"`
	Accuracy  float64           `json:"accuracy"`
	Stats     scorer.Statistics `json:"stats"`
	CreatedAt time.Time         `json:"created_at"`
}

func Open(dbPath string) (*Store, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, errors.New("store: empty db path")
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("store: create db dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping db: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("store: nil db")
	}

	stmts := []string{
		`PRAGMA foreign_keys = ON`,
		`PRAGMA journal_mode = WAL`,
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			model TEXT NOT NULL,
			provider TEXT NOT NULL DEFAULT '',
			benchmark TEXT NOT NULL,
			question_count INTEGER NOT NULL,
			correct_count INTEGER NOT NULL,
			missing_count INTEGER NOT NULL,
			accuracy REAL NOT NULL,
			stats_json TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_benchmark ON runs(benchmark)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_model_benchmark ON runs(model, benchmark)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("store: init schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveReport records an evaluation report as a run.
func (s *Store) SaveReport(ctx context.Context, model, provider string, rep *scorer.Report) (*RunRecord, error) {
	if rep == nil {
		return nil, errors.New("store: nil report")
	}
	rec := &RunRecord{
		Model:     model,
		Provider:  provider,
		Benchmark: rep.Benchmark,
		Count:     rep.Stats.Overall.Count,
		Correct:   rep.Stats.Overall.Correct,
		Missing:   rep.Stats.Missing,
		Accuracy:  rep.Stats.Overall.Accuracy,
		Stats:     rep.Stats,
	}
	if err := s.SaveRun(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Store) SaveRun(ctx context.Context, rec *RunRecord) error {
	if s == nil || s.db == nil {
		return errors.New("store: nil store")
	}
	if ctx == nil {
		return errors.New("store: nil context")
	}
	if rec == nil {
		return errors.New("store: nil run")
	}

	model := strings.TrimSpace(rec.Model)
	bench := strings.TrimSpace(rec.Benchmark)
	if model == "" || bench == "" {
		return errors.New("store: missing model/benchmark")
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	statsJSON, err := json.Marshal(rec.Stats)
	if err != nil {
		return fmt.Errorf("store: marshal stats: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (
			model, provider, benchmark, question_count, correct_count,
			missing_count, accuracy, stats_json, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, model, strings.TrimSpace(rec.Provider), bench, rec.Count, rec.Correct,
		rec.Missing, rec.Accuracy, string(statsJSON), createdAt.UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("store: insert run: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		rec.ID = id
	}
	rec.Model = model
	rec.Benchmark = bench
	rec.CreatedAt = createdAt
	return nil
}

// Leaderboard returns the best run per model for a benchmark, highest
// accuracy first.
func (s *Store) Leaderboard(ctx context.Context, bench string, limit int) ([]RunRecord, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store: nil store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}
	bench = strings.TrimSpace(bench)
	if bench == "" {
		return nil, errors.New("store: empty benchmark")
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, model, provider, benchmark, question_count, correct_count,
			missing_count, accuracy, stats_json, created_at
		FROM runs
		WHERE benchmark = ? AND id IN (
			SELECT id FROM runs r2
			WHERE r2.benchmark = runs.benchmark AND r2.model = runs.model
			ORDER BY r2.accuracy DESC, r2.created_at DESC LIMIT 1
		)
		ORDER BY accuracy DESC, created_at DESC
		LIMIT ?
	`, bench, limit)
	if err != nil {
		return nil, fmt.Errorf("store: query leaderboard: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// ModelHistory returns every run of one model on a benchmark, newest
// first.
func (s *Store) ModelHistory(ctx context.Context, model, bench string) ([]RunRecord, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store: nil store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}
	model = strings.TrimSpace(model)
	bench = strings.TrimSpace(bench)
	if model == "" || bench == "" {
		return nil, errors.New("store: missing model/benchmark")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, model, provider, benchmark, question_count, correct_count,
			missing_count, accuracy, stats_json, created_at
		FROM runs
		WHERE model = ? AND benchmark = ?
		ORDER BY created_at DESC
	`, model, bench)
	if err != nil {
		return nil, fmt.Errorf("store: query model history: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// ListRuns returns the most recent runs across all benchmarks.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store: nil store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, model, provider, benchmark, question_count, correct_count,
			missing_count, accuracy, stats_json, created_at
		FROM runs
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: query runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]RunRecord, error) {
	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		var statsJSON string
		var createdMS int64
		if err := rows.Scan(
			&rec.ID,
			&rec.Model,
			&rec.Provider,
			&rec.Benchmark,
			&rec.Count,
			&rec.Correct,
			&rec.Missing,
			&rec.Accuracy,
			&statsJSON,
			&createdMS,
		); err != nil {
			return nil, fmt.Errorf("store: scan run: %w", err)
		}
		if statsJSON != "" {
			if err := json.Unmarshal([]byte(statsJSON), &rec.Stats); err != nil {
				return nil, fmt.Errorf("store: parse stats: %w", err)
			}
		}
		rec.CreatedAt = time.UnixMilli(createdMS).UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: scan rows: %w", err)
	}
	return out, nil
}
