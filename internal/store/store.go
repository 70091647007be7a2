// Package store handles SQLite persistence of session reports.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/typist/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for finished session reports.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			source TEXT NOT NULL,
			ended_early INTEGER NOT NULL,
			wpm REAL NOT NULL,
			accuracy REAL NOT NULL,
			duration_ms INTEGER NOT NULL,
			substitutions INTEGER NOT NULL,
			insertions INTEGER NOT NULL,
			omissions INTEGER NOT NULL,
			repeats INTEGER NOT NULL,
			uncorrected INTEGER NOT NULL,
			report_json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertReport stores a finished session report. The full report is kept as
// JSON so the record round-trips losslessly; summary columns serve the
// stats queries.
func (s *Store) InsertReport(ctx context.Context, rep model.SessionReport) (int64, error) {
	data, err := json.Marshal(rep)
	if err != nil {
		return 0, fmt.Errorf("failed to encode report: %w", err)
	}
	endedEarly := 0
	if rep.EndedEarly {
		endedEarly = 1
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (started_at, ended_at, source, ended_early, wpm, accuracy, duration_ms, substitutions, insertions, omissions, repeats, uncorrected, report_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rep.StartedAt.Format(time.RFC3339Nano),
		rep.EndedAt.Format(time.RFC3339Nano),
		rep.Source,
		endedEarly,
		rep.WPM,
		rep.Accuracy,
		rep.DurationMs,
		rep.ErrorCounts.Substitution,
		rep.ErrorCounts.Insertion,
		rep.ErrorCounts.Omission,
		rep.ErrorCounts.Repeat,
		rep.UncorrectedErrors,
		string(data),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetReport loads one stored report by session id.
func (s *Store) GetReport(ctx context.Context, id int64) (model.SessionReport, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT report_json FROM sessions WHERE id = ?`, id).Scan(&data)
	if err != nil {
		return model.SessionReport{}, err
	}
	var rep model.SessionReport
	if err := json.Unmarshal([]byte(data), &rep); err != nil {
		return model.SessionReport{}, fmt.Errorf("failed to decode report: %w", err)
	}
	return rep, nil
}

// ListSessions returns session aggregates filtered by stats config, oldest
// first.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, source, ended_early, wpm, accuracy, duration_ms, substitutions, insertions, omissions, repeats, uncorrected
		FROM sessions
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt string
		var endedEarly int
		if err := rows.Scan(&agg.SessionID, &endedAt, &agg.Source, &endedEarly, &agg.WPM, &agg.Accuracy, &agg.DurationMs,
			&agg.Errors.Substitution, &agg.Errors.Insertion, &agg.Errors.Omission, &agg.Errors.Repeat, &agg.Uncorrected); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		agg.EndedEarly = endedEarly != 0
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}
	return sessions, nil
}
