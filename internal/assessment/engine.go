// Package assessment drives a timed, scored run through a fixed question set.
//
// The engine performs no I/O and runs no timers: elapsed time is always
// derived from the injected clock, so a caller that wants a live counter
// simply polls Snapshot.
package assessment

import (
	"fmt"
	"sync"
	"time"

	"training-assessment-service/internal/domain"
)

// Engine owns one session over an immutable question sequence.
type Engine struct {
	questions []domain.Question
	now       func() time.Time

	mu                sync.RWMutex
	status            domain.Status
	currentIndex      int
	answers           []domain.Answer
	score             int
	startedAt         time.Time
	questionStartedAt time.Time
	elapsedHigh       time.Duration
}

// NewEngine copies questions so later mutation by the source cannot leak in.
func NewEngine(questions []domain.Question) *Engine {
	return NewEngineWithClock(questions, time.Now)
}

// NewEngineWithClock allows deterministic timestamps in tests.
func NewEngineWithClock(questions []domain.Question, now func() time.Time) *Engine {
	qs := make([]domain.Question, len(questions))
	for i, q := range questions {
		qs[i] = cloneQuestion(q)
	}
	return &Engine{
		questions: qs,
		now:       now,
		status:    domain.StatusIdle,
	}
}

// TotalQuestions is the size of the question sequence.
func (e *Engine) TotalQuestions() int {
	return len(e.questions)
}

// Start discards any existing run and begins at the first question.
func (e *Engine) Start() (domain.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.questions) == 0 {
		return e.snapshotLocked(), domain.ErrEmptyQuestionSet
	}

	now := e.now()
	e.status = domain.StatusInProgress
	e.currentIndex = 0
	e.answers = make([]domain.Answer, 0, len(e.questions))
	e.score = 0
	e.startedAt = now
	e.questionStartedAt = now
	e.elapsedHigh = 0
	return e.snapshotLocked(), nil
}

// Answer commits optionID for the current question.
func (e *Engine) Answer(optionID string) (domain.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != domain.StatusInProgress {
		return e.snapshotLocked(), fmt.Errorf("%w: answer while %s", domain.ErrInvalidTransition, e.status)
	}
	q := e.questions[e.currentIndex]
	if !q.HasOption(optionID) {
		return e.snapshotLocked(), fmt.Errorf("%w: %q for question %d", domain.ErrInvalidOption, optionID, q.ID)
	}

	correct := optionID == q.CorrectOptionID
	e.answers = append(e.answers, domain.Answer{
		QuestionID:       q.ID,
		SelectedOptionID: optionID,
		CorrectOptionID:  q.CorrectOptionID,
		IsCorrect:        correct,
		TimeSpentSeconds: wholeSeconds(e.now().Sub(e.questionStartedAt)),
	})
	if correct {
		e.score++
	}
	e.status = domain.StatusAwaitingAdvance
	return e.snapshotLocked(), nil
}

// Advance moves to the next question, or finishes after the last one.
func (e *Engine) Advance() (domain.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != domain.StatusAwaitingAdvance {
		return e.snapshotLocked(), fmt.Errorf("%w: advance while %s", domain.ErrInvalidTransition, e.status)
	}

	now := e.now()
	if e.currentIndex == len(e.questions)-1 {
		e.elapsedHigh = e.elapsedLocked(now)
		e.status = domain.StatusFinished
		return e.snapshotLocked(), nil
	}

	e.currentIndex++
	e.questionStartedAt = now
	e.status = domain.StatusInProgress
	return e.snapshotLocked(), nil
}

// Snapshot always succeeds.
func (e *Engine) Snapshot() domain.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Summary is available once the session is finished and can be read repeatedly.
func (e *Engine) Summary() (domain.Summary, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.status != domain.StatusFinished {
		return domain.Summary{}, fmt.Errorf("%w: summary while %s", domain.ErrInvalidTransition, e.status)
	}
	return domain.Summary{
		Score:               e.score,
		TotalQuestions:      len(e.questions),
		Answers:             e.copyAnswers(),
		ElapsedTotalSeconds: wholeSeconds(e.elapsedHigh),
	}, nil
}

func (e *Engine) snapshotLocked() domain.Snapshot {
	snap := domain.Snapshot{
		Status:         e.status,
		CurrentIndex:   e.currentIndex,
		TotalQuestions: len(e.questions),
		Score:          e.score,
		Answers:        e.copyAnswers(),
		IsFinished:     e.status == domain.StatusFinished,
	}

	switch e.status {
	case domain.StatusInProgress, domain.StatusAwaitingAdvance:
		q := cloneQuestion(e.questions[e.currentIndex])
		snap.CurrentQuestion = &q
		e.elapsedHigh = e.elapsedLocked(e.now())
		snap.ElapsedTotalSeconds = wholeSeconds(e.elapsedHigh)
	case domain.StatusFinished:
		snap.ElapsedTotalSeconds = wholeSeconds(e.elapsedHigh)
	}
	return snap
}

func cloneQuestion(q domain.Question) domain.Question {
	q.Options = append([]domain.Option(nil), q.Options...)
	return q
}

// elapsedLocked never reports less than a previously observed value, even if
// the clock steps backwards.
func (e *Engine) elapsedLocked(now time.Time) time.Duration {
	d := now.Sub(e.startedAt)
	if d < e.elapsedHigh {
		return e.elapsedHigh
	}
	return d
}

func (e *Engine) copyAnswers() []domain.Answer {
	out := make([]domain.Answer, len(e.answers))
	copy(out, e.answers)
	return out
}

func wholeSeconds(d time.Duration) int {
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}
