package redis

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"training-assessment-service/internal/domain"
	"training-assessment-service/internal/infra/memory"
)

// QuestionRepository caches whole question sets in Redis and falls back to a loader on cache miss.
// Sets are stored as JSON: SET assessment:set:{setID} {json} EX ttl
type QuestionRepository struct {
	client *redis.Client
	loader memory.QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group
	rndMu  sync.Mutex
	rnd    *rand.Rand
}

func NewQuestionRepository(client *redis.Client, loader memory.QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) GetQuestionSet(ctx context.Context, setID string) (domain.QuestionSet, error) {
	if set, ok := r.cached(ctx, setID); ok {
		return set, nil
	}

	result, err, _ := r.sf.Do(setID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if set, ok := r.cached(ctx, setID); ok {
			return set, nil
		}

		set, err := r.loader.LoadQuestionSet(ctx, setID)
		if err != nil {
			return domain.QuestionSet{}, err
		}

		data, err := json.Marshal(set)
		if err != nil {
			return domain.QuestionSet{}, err
		}
		if err := r.client.Set(ctx, r.key(setID), data, r.ttlWithJitter()).Err(); err != nil {
			log.Printf("cache question set %s: %v", setID, err)
		}
		return set, nil
	})
	if err != nil {
		return domain.QuestionSet{}, err
	}
	return result.(domain.QuestionSet), nil
}

func (r *QuestionRepository) cached(ctx context.Context, setID string) (domain.QuestionSet, bool) {
	data, err := r.client.Get(ctx, r.key(setID)).Bytes()
	if err != nil {
		return domain.QuestionSet{}, false
	}
	var set domain.QuestionSet
	if err := json.Unmarshal(data, &set); err != nil {
		return domain.QuestionSet{}, false
	}
	return set, true
}

func (r *QuestionRepository) key(setID string) string {
	return "assessment:set:" + setID
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	jitter := r.rnd.Int63n(jitterMax + 1)
	r.rndMu.Unlock()
	return r.ttl + time.Duration(jitter)
}
