package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"training-assessment-service/internal/app"
	"training-assessment-service/internal/catalog"
	"training-assessment-service/internal/config"
	"training-assessment-service/internal/infra/memory"
	pgstore "training-assessment-service/internal/infra/postgres"
	redisstore "training-assessment-service/internal/infra/redis"
	"training-assessment-service/internal/infra/sqlite"
)

// deps holds the repositories selected by config plus whatever must be closed on exit.
type deps struct {
	sessions  app.SessionRepository
	questions app.QuestionRepository
	results   app.ResultRepository
	closers   []io.Closer
}

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		_ = d.closers[i].Close()
	}
}

type closerFunc func()

func (f closerFunc) Close() error {
	f()
	return nil
}

func buildDeps(ctx context.Context, cfg config.Config) (*deps, error) {
	d := &deps{}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		d.closers = append(d.closers, redisClient)
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 30*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		var err error
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			d.Close()
			return nil, err
		}
		d.closers = append(d.closers, closerFunc(pool.Close))
	}

	var loader memory.QuestionLoader = memory.NewStaticQuestionLoader(catalog.Sets())
	if pool != nil {
		loader = pgstore.NewQuestionLoader(pool)
	}

	questionTTL := config.TTLDuration(cfg.Questions.TTL, 10*time.Minute)
	if redisClient != nil {
		d.questions = redisstore.NewQuestionRepository(redisClient, loader, questionTTL)
		d.sessions = redisstore.NewSessionStore(redisClient, redisTTL)
	} else {
		d.questions = memory.NewQuestionRepository(loader, questionTTL)
		d.sessions = memory.NewSessionStore()
	}

	switch driver := cfg.ResultsDriver(); driver {
	case config.ResultsMemory:
		d.results = memory.NewResultStore()
	case config.ResultsSQLite:
		store, err := sqlite.Open(ctx, cfg.Results.SQLitePath)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("open sqlite results: %w", err)
		}
		d.results = store
		d.closers = append(d.closers, store)
	case config.ResultsPostgres:
		if cfg.Postgres.URL == "" {
			d.Close()
			return nil, fmt.Errorf("results driver postgres needs postgres.url")
		}
		db := pgstore.OpenBun(cfg.Postgres.URL)
		d.results = pgstore.NewResultStore(db)
		d.closers = append(d.closers, db)
	default:
		d.Close()
		return nil, fmt.Errorf("unknown results driver %q", driver)
	}
	return d, nil
}
