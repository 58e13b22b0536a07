// Package sqlite keeps assessment results in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // driver: sqlite

	"training-assessment-service/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS assessment_results (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  set_id TEXT NOT NULL,
  score INTEGER NOT NULL,
  total_questions INTEGER NOT NULL,
  answers_json TEXT NOT NULL,
  time_seconds INTEGER NOT NULL,
  completed_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS assessment_results_user_completed_idx
  ON assessment_results (user_id, completed_at DESC);
`

// ResultStore is a database/sql result store over the modernc driver.
type ResultStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at dsn and ensures the schema exists.
func Open(ctx context.Context, dsn string) (*ResultStore, error) {
	if dsn == "" {
		dsn = "file:assessments.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &ResultStore{db: db}, nil
}

func (s *ResultStore) Close() error {
	return s.db.Close()
}

func (s *ResultStore) SaveResult(ctx context.Context, result domain.Result) error {
	answers, err := json.Marshal(result.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO assessment_results (id, user_id, set_id, score, total_questions, answers_json, time_seconds, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		result.ID, result.UserID, result.SetID, result.Score, result.TotalQuestions,
		string(answers), result.TimeSeconds, result.CompletedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

func (s *ResultStore) ListResults(ctx context.Context, userID string) ([]domain.Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, set_id, score, total_questions, answers_json, time_seconds, completed_at
		 FROM assessment_results WHERE user_id = ? ORDER BY completed_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	results := make([]domain.Result, 0)
	for rows.Next() {
		var (
			r           domain.Result
			answers     string
			completedAt int64
		)
		if err := rows.Scan(&r.ID, &r.UserID, &r.SetID, &r.Score, &r.TotalQuestions, &answers, &r.TimeSeconds, &completedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(answers), &r.Answers); err != nil {
			return nil, fmt.Errorf("unmarshal answers for %s: %w", r.ID, err)
		}
		r.CompletedAt = time.UnixMilli(completedAt).UTC()
		results = append(results, r)
	}
	return results, rows.Err()
}
