package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"training-assessment-service/internal/domain"
)

// QuestionLoader loads question set JSONB from Postgres.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) LoadQuestionSet(ctx context.Context, setID string) (domain.QuestionSet, error) {
	var (
		title string
		raw   []byte
	)
	err := l.pool.QueryRow(ctx, `SELECT title, questions FROM question_sets WHERE id=$1`, setID).Scan(&title, &raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.QuestionSet{}, domain.ErrQuestionSetNotFound
	}
	if err != nil {
		return domain.QuestionSet{}, fmt.Errorf("load question set: %w", err)
	}

	set := domain.QuestionSet{ID: setID, Title: title}
	if err := json.Unmarshal(raw, &set.Questions); err != nil {
		return domain.QuestionSet{}, fmt.Errorf("unmarshal question set: %w", err)
	}
	if err := set.Validate(); err != nil {
		return domain.QuestionSet{}, err
	}
	return set, nil
}

// SeedQuestionSets upserts sets so a fresh database can serve the built-in catalogue.
func SeedQuestionSets(ctx context.Context, pool *pgxpool.Pool, sets map[string]domain.QuestionSet) error {
	for id, set := range sets {
		data, err := json.Marshal(set.Questions)
		if err != nil {
			return fmt.Errorf("marshal question set %s: %w", id, err)
		}
		_, err = pool.Exec(ctx,
			`INSERT INTO question_sets (id, title, questions) VALUES ($1, $2, $3::jsonb)
			 ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, questions=EXCLUDED.questions`,
			id, set.Title, string(data))
		if err != nil {
			return fmt.Errorf("seed question set %s: %w", id, err)
		}
	}
	return nil
}
