package app

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"training-assessment-service/internal/assessment"
	"training-assessment-service/internal/domain"
)

// SessionRepository abstracts where live assessment sessions are kept (in-memory, Redis, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// QuestionRepository loads question sets (from cache/backing store).
type QuestionRepository interface {
	GetQuestionSet(ctx context.Context, setID string) (domain.QuestionSet, error)
}

// ResultRepository persists finished sessions and lists a user's history.
type ResultRepository interface {
	SaveResult(ctx context.Context, result domain.Result) error
	ListResults(ctx context.Context, userID string) ([]domain.Result, error)
}

// AssessmentService contains the assessment use cases.
type AssessmentService struct {
	sessions  SessionRepository
	questions QuestionRepository
	results   ResultRepository
	now       func() time.Time
}

func NewAssessmentService(sessions SessionRepository, questions QuestionRepository, results ResultRepository) *AssessmentService {
	return NewAssessmentServiceWithClock(sessions, questions, results, time.Now)
}

// NewAssessmentServiceWithClock is test-only for deterministic timestamps.
func NewAssessmentServiceWithClock(sessions SessionRepository, questions QuestionRepository, results ResultRepository, now func() time.Time) *AssessmentService {
	return &AssessmentService{sessions: sessions, questions: questions, results: results, now: now}
}

// Start loads a question set and begins a fresh session for userID (which may be empty).
func (s *AssessmentService) Start(ctx context.Context, setID, userID string) (string, domain.Snapshot, error) {
	set, err := s.questions.GetQuestionSet(ctx, setID)
	if err != nil {
		return "", domain.Snapshot{}, err
	}
	if err := set.Validate(); err != nil {
		return "", domain.Snapshot{}, err
	}

	session := NewSession(uuid.NewString(), set.ID, userID, assessment.NewEngineWithClock(set.Questions, s.now))
	snap, err := session.engine.Start()
	if err != nil {
		return "", snap, err
	}
	s.sessions.Put(session)
	return session.id, snap, nil
}

// Restart discards the session's progress and begins again from the first question.
func (s *AssessmentService) Restart(_ context.Context, sessionID string) (domain.Snapshot, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Snapshot{}, domain.ErrSessionNotFound
	}
	return session.restart()
}

// Answer commits an option for the session's current question.
func (s *AssessmentService) Answer(_ context.Context, sessionID, optionID string) (domain.Snapshot, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Snapshot{}, domain.ErrSessionNotFound
	}
	return session.engine.Answer(optionID)
}

// Advance moves to the next question or finishes the session.
func (s *AssessmentService) Advance(_ context.Context, sessionID string) (domain.Snapshot, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Snapshot{}, domain.ErrSessionNotFound
	}
	return session.engine.Advance()
}

// Snapshot reads the session without changing it.
func (s *AssessmentService) Snapshot(_ context.Context, sessionID string) (domain.Snapshot, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Snapshot{}, domain.ErrSessionNotFound
	}
	return session.engine.Snapshot(), nil
}

// Summary returns the finished session's summary; it can be fetched again after a failed submit.
func (s *AssessmentService) Summary(_ context.Context, sessionID string) (domain.Summary, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Summary{}, domain.ErrSessionNotFound
	}
	return session.engine.Summary()
}

// Submit forwards a finished session's summary to the result store.
// On store failure the session is kept so the caller can retry.
func (s *AssessmentService) Submit(ctx context.Context, sessionID string) (domain.Result, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Result{}, domain.ErrSessionNotFound
	}
	if session.userID == "" {
		return domain.Result{}, domain.ErrUnauthenticated
	}
	if err := session.beginSubmit(); err != nil {
		return domain.Result{}, err
	}
	summary, err := session.engine.Summary()
	if err != nil {
		session.endSubmit(false)
		return domain.Result{}, err
	}

	result := domain.Result{
		ID:             uuid.NewString(),
		UserID:         session.userID,
		SetID:          session.setID,
		Score:          summary.Score,
		TotalQuestions: summary.TotalQuestions,
		Answers:        summary.Answers,
		TimeSeconds:    summary.ElapsedTotalSeconds,
		CompletedAt:    s.now().UTC(),
	}
	if err := s.results.SaveResult(ctx, result); err != nil {
		session.endSubmit(false)
		log.Printf("save result for session %s failed: %v", sessionID, err)
		return domain.Result{}, fmt.Errorf("%w: %w", domain.ErrSubmissionFailed, err)
	}
	session.endSubmit(true)
	return result, nil
}

// History lists a user's past results, newest first. Anonymous callers have none.
func (s *AssessmentService) History(ctx context.Context, userID string) ([]domain.Result, error) {
	if userID == "" {
		return []domain.Result{}, nil
	}
	return s.results.ListResults(ctx, userID)
}

// QuestionSet exposes the answer-free view of a set.
func (s *AssessmentService) QuestionSet(ctx context.Context, setID string) (domain.PublicQuestionSet, error) {
	set, err := s.questions.GetQuestionSet(ctx, setID)
	if err != nil {
		return domain.PublicQuestionSet{}, err
	}
	return set.Public(), nil
}

// End drops the session from the registry.
func (s *AssessmentService) End(_ context.Context, sessionID string) {
	s.sessions.Delete(sessionID)
}

type submitState int

const (
	submitNone submitState = iota
	submitInFlight
	submitDone
)

// Session binds one engine to its owner and question set.
type Session struct {
	id     string
	setID  string
	userID string
	engine *assessment.Engine

	mu     sync.Mutex
	submit submitState
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(id, setID, userID string, engine *assessment.Engine) *Session {
	return &Session{id: id, setID: setID, userID: userID, engine: engine}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// SetID returns the question set the session runs over.
func (s *Session) SetID() string { return s.setID }

// UserID returns the owner, empty for anonymous sessions.
func (s *Session) UserID() string { return s.userID }

func (s *Session) restart() (domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submit == submitInFlight {
		return s.engine.Snapshot(), fmt.Errorf("%w: restart during submission", domain.ErrInvalidTransition)
	}
	snap, err := s.engine.Start()
	if err == nil {
		s.submit = submitNone
	}
	return snap, err
}

func (s *Session) beginSubmit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.submit {
	case submitDone:
		return domain.ErrAlreadySubmitted
	case submitInFlight:
		return fmt.Errorf("%w: submission in progress", domain.ErrInvalidTransition)
	}
	s.submit = submitInFlight
	return nil
}

func (s *Session) endSubmit(ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ok {
		s.submit = submitDone
		return
	}
	s.submit = submitNone
}
