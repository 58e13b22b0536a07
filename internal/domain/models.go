package domain

import (
	"fmt"
	"time"
)

// Status is the phase of an assessment session.
type Status string

const (
	StatusIdle            Status = "idle"
	StatusInProgress      Status = "in_progress"
	StatusAwaitingAdvance Status = "awaiting_advance"
	StatusFinished        Status = "finished"
)

// Option represents a possible answer for a question.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question models a scenario with exactly one correct option.
type Question struct {
	ID              int      `json:"id"`
	Prompt          string   `json:"prompt"`
	Options         []Option `json:"options"`
	CorrectOptionID string   `json:"correctOptionId,omitempty"`
	Explanation     string   `json:"explanation,omitempty"`
}

// HasOption reports whether optionID belongs to the question.
func (q Question) HasOption(optionID string) bool {
	for _, opt := range q.Options {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}

// QuestionSet is an ordered collection of questions; order is presentation order.
type QuestionSet struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Validate checks id uniqueness and that every correct option exists.
// An empty set is valid here; sessions reject it when started.
func (s QuestionSet) Validate() error {
	seen := make(map[int]struct{}, len(s.Questions))
	for _, q := range s.Questions {
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %d", ErrInvalidQuestionSet, q.ID)
		}
		seen[q.ID] = struct{}{}

		opts := make(map[string]struct{}, len(q.Options))
		for _, opt := range q.Options {
			if _, dup := opts[opt.ID]; dup {
				return fmt.Errorf("%w: question %d repeats option %q", ErrInvalidQuestionSet, q.ID, opt.ID)
			}
			opts[opt.ID] = struct{}{}
		}
		if _, ok := opts[q.CorrectOptionID]; !ok {
			return fmt.Errorf("%w: question %d correct option %q not offered", ErrInvalidQuestionSet, q.ID, q.CorrectOptionID)
		}
	}
	return nil
}

// Public strips answer keys so the set can be shown before answering.
func (s QuestionSet) Public() PublicQuestionSet {
	out := PublicQuestionSet{ID: s.ID, Title: s.Title, Questions: make([]PublicQuestion, 0, len(s.Questions))}
	for _, q := range s.Questions {
		out.Questions = append(out.Questions, PublicQuestion{ID: q.ID, Prompt: q.Prompt, Options: q.Options})
	}
	return out
}

// PublicQuestion is a question without its correct option or explanation.
type PublicQuestion struct {
	ID      int      `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []Option `json:"options"`
}

// PublicQuestionSet is the answer-free view of a QuestionSet.
type PublicQuestionSet struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Questions []PublicQuestion `json:"questions"`
}

// Answer is the immutable resolution of a single question.
type Answer struct {
	QuestionID       int    `json:"questionId"`
	SelectedOptionID string `json:"selectedAnswer"`
	CorrectOptionID  string `json:"correctAnswer"`
	IsCorrect        bool   `json:"isCorrect"`
	TimeSpentSeconds int    `json:"timeSpent"`
}

// Snapshot is a read-only view of a session at one instant.
type Snapshot struct {
	Status              Status    `json:"status"`
	CurrentIndex        int       `json:"currentIndex"`
	CurrentQuestion     *Question `json:"currentQuestion"`
	TotalQuestions      int       `json:"totalQuestions"`
	Score               int       `json:"score"`
	ElapsedTotalSeconds int       `json:"elapsedTotalSeconds"`
	Answers             []Answer  `json:"answers"`
	IsFinished          bool      `json:"isFinished"`
}

// Summary is handed off once a session is finished.
type Summary struct {
	Score               int      `json:"score"`
	TotalQuestions      int      `json:"totalQuestions"`
	Answers             []Answer `json:"answers"`
	ElapsedTotalSeconds int      `json:"elapsedTotalSeconds"`
}

// Percentage returns the score as a share of the total.
func (s Summary) Percentage() float64 {
	return Percentage(s.Score, s.TotalQuestions)
}

// Tier returns the presentation bucket for the summary.
func (s Summary) Tier() Tier {
	return TierFor(s.Score, s.TotalQuestions)
}

// Result is a persisted summary for a user.
type Result struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	SetID          string    `json:"setId"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	Answers        []Answer  `json:"answers"`
	TimeSeconds    int       `json:"timeSeconds"`
	CompletedAt    time.Time `json:"completedAt"`
}
