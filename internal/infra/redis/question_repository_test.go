package redis

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"training-assessment-service/internal/catalog"
	"training-assessment-service/internal/domain"
	"training-assessment-service/internal/infra/memory"
)

func TestQuestionRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	loader := &countingLoader{QuestionLoader: memory.NewStaticQuestionLoader(catalog.Sets())}
	repo := NewQuestionRepository(client, loader, time.Minute)

	set, err := repo.GetQuestionSet(context.Background(), catalog.MicrointeractionsID)
	if err != nil {
		t.Fatalf("get set: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("assessment:set:" + catalog.MicrointeractionsID) {
		t.Fatalf("expected set cached in redis")
	}

	// Second call should hit cache, loader not incremented.
	cached, err := repo.GetQuestionSet(context.Background(), catalog.MicrointeractionsID)
	if err != nil {
		t.Fatalf("get cached set: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if len(cached.Questions) != len(set.Questions) || cached.Questions[0].Explanation != set.Questions[0].Explanation {
		t.Fatalf("cached set lost content: %+v", cached.Questions[0])
	}

	mr.FastForward(2 * time.Minute)
	if _, err := repo.GetQuestionSet(context.Background(), catalog.MicrointeractionsID); err != nil {
		t.Fatalf("get after expiry: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after expiry, loader calls=%d", loader.calls)
	}
}

func TestQuestionRepositoryConcurrentDistinctSets(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	base := catalog.Microinteractions()
	sets := make(map[string]domain.QuestionSet)
	for i := 0; i < 32; i++ {
		set := base
		set.ID = fmt.Sprintf("set-%d", i)
		sets[set.ID] = set
	}
	repo := NewQuestionRepository(newClient(mr), memory.NewStaticQuestionLoader(sets), time.Minute)

	var wg sync.WaitGroup
	errs := make(chan error, len(sets))
	for id := range sets {
		id := id
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.GetQuestionSet(context.Background(), id); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("get set: %v", err)
	}
	for id := range sets {
		if !mr.Exists("assessment:set:" + id) {
			t.Fatalf("expected %s cached in redis", id)
		}
	}
}

type countingLoader struct {
	memory.QuestionLoader
	calls int
}

func (l *countingLoader) LoadQuestionSet(ctx context.Context, setID string) (domain.QuestionSet, error) {
	l.calls++
	return l.QuestionLoader.LoadQuestionSet(ctx, setID)
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
