package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"training-assessment-service/internal/domain"
)

type resultRow struct {
	bun.BaseModel `bun:"table:assessment_results"`

	ID             string          `bun:"id,pk"`
	UserID         string          `bun:"user_id,notnull"`
	SetID          string          `bun:"set_id,notnull"`
	Score          int             `bun:"score,notnull"`
	TotalQuestions int             `bun:"total_questions,notnull"`
	Answers        []domain.Answer `bun:"answers,type:jsonb,notnull"`
	TimeSeconds    int             `bun:"time_seconds,notnull"`
	CompletedAt    time.Time       `bun:"completed_at,notnull"`
}

// ResultStore persists finished sessions in the assessment_results table.
type ResultStore struct {
	db *bun.DB
}

func NewResultStore(db *bun.DB) *ResultStore {
	return &ResultStore{db: db}
}

func (s *ResultStore) SaveResult(ctx context.Context, result domain.Result) error {
	row := resultRow{
		ID:             result.ID,
		UserID:         result.UserID,
		SetID:          result.SetID,
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
		Answers:        result.Answers,
		TimeSeconds:    result.TimeSeconds,
		CompletedAt:    result.CompletedAt,
	}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

func (s *ResultStore) ListResults(ctx context.Context, userID string) ([]domain.Result, error) {
	var rows []resultRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		OrderExpr("completed_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}

	results := make([]domain.Result, 0, len(rows))
	for _, row := range rows {
		results = append(results, domain.Result{
			ID:             row.ID,
			UserID:         row.UserID,
			SetID:          row.SetID,
			Score:          row.Score,
			TotalQuestions: row.TotalQuestions,
			Answers:        row.Answers,
			TimeSeconds:    row.TimeSeconds,
			CompletedAt:    row.CompletedAt,
		})
	}
	return results, nil
}
