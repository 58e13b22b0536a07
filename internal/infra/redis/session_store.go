package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"training-assessment-service/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Engines stay in a local map; they hold a clock and are driven in-process.
//   - Redis holds a liveness marker per session (owner and set) whose TTL is
//     refreshed on every lookup, so operators can see which sessions are live.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Put(session *app.Session) {
	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()

	// best-effort liveness marker
	_ = s.client.HSet(context.Background(), s.key(session.ID()),
		"set", session.SetID(),
		"user", session.UserID(),
	).Err()
	_ = s.client.Expire(context.Background(), s.key(session.ID()), s.ttl).Err()
}

func (s *SessionStore) Get(sessionID string) (*app.Session, bool) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok {
		_ = s.client.Expire(context.Background(), s.key(sessionID), s.ttl).Err()
	}
	return session, ok
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	_ = s.client.Del(context.Background(), s.key(sessionID)).Err()
}

func (s *SessionStore) key(sessionID string) string {
	return "assessment:session:" + sessionID
}
