package assessment_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"training-assessment-service/internal/assessment"
	"training-assessment-service/internal/domain"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func testQuestions(n int) []domain.Question {
	qs := make([]domain.Question, 0, n)
	for i := 1; i <= n; i++ {
		qs = append(qs, domain.Question{
			ID:     i,
			Prompt: "scenario",
			Options: []domain.Option{
				{ID: "a", Text: "first"},
				{ID: "b", Text: "second"},
				{ID: "c", Text: "third"},
			},
			CorrectOptionID: "b",
			Explanation:     "because",
		})
	}
	return qs
}

func TestScenarioFiveQuestionsMixedAnswers(t *testing.T) {
	clock := newClock()
	engine := assessment.NewEngineWithClock(testQuestions(5), clock.Now)

	_, err := engine.Start()
	require.NoError(t, err)

	pattern := []string{"b", "b", "a", "b", "c"}
	for _, choice := range pattern {
		clock.Advance(10 * time.Second)
		_, err := engine.Answer(choice)
		require.NoError(t, err)
		_, err = engine.Advance()
		require.NoError(t, err)
	}

	summary, err := engine.Summary()
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Score)
	assert.Equal(t, 5, summary.TotalQuestions)
	assert.Equal(t, 50, summary.ElapsedTotalSeconds)
	assert.Equal(t, domain.TierGood, summary.Tier())
	for _, a := range summary.Answers {
		assert.Equal(t, 10, a.TimeSpentSeconds)
	}
}

func TestStartWithEmptySetStaysIdle(t *testing.T) {
	engine := assessment.NewEngineWithClock(nil, newClock().Now)

	snap, err := engine.Start()
	require.ErrorIs(t, err, domain.ErrEmptyQuestionSet)
	assert.Equal(t, domain.StatusIdle, snap.Status)
	assert.Equal(t, domain.StatusIdle, engine.Snapshot().Status)
}

func TestAnswerRejectsUnknownOption(t *testing.T) {
	engine := assessment.NewEngineWithClock(testQuestions(2), newClock().Now)
	_, err := engine.Start()
	require.NoError(t, err)

	snap, err := engine.Answer("z")
	require.ErrorIs(t, err, domain.ErrInvalidOption)
	assert.Empty(t, snap.Answers)
	assert.Equal(t, domain.StatusInProgress, engine.Snapshot().Status)
}

func TestSingleQuestionFinishesOnFirstAdvance(t *testing.T) {
	engine := assessment.NewEngineWithClock(testQuestions(1), newClock().Now)
	_, err := engine.Start()
	require.NoError(t, err)

	_, err = engine.Answer("b")
	require.NoError(t, err)
	snap, err := engine.Advance()
	require.NoError(t, err)

	assert.Equal(t, domain.StatusFinished, snap.Status)
	assert.True(t, snap.IsFinished)
	assert.Nil(t, snap.CurrentQuestion)
	assert.Equal(t, 1, snap.Score)
	assert.Equal(t, domain.TierPerfect, domain.TierFor(snap.Score, snap.TotalQuestions))
}

func TestDuplicateAnswerIsRejected(t *testing.T) {
	engine := assessment.NewEngineWithClock(testQuestions(3), newClock().Now)
	_, err := engine.Start()
	require.NoError(t, err)

	_, err = engine.Answer("a")
	require.NoError(t, err)

	snap, err := engine.Answer("b")
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	require.Len(t, snap.Answers, 1)
	assert.Equal(t, "a", snap.Answers[0].SelectedOptionID)
	assert.Equal(t, 0, snap.Score)
	assert.Equal(t, domain.StatusAwaitingAdvance, snap.Status)
}

func TestTransitionsRejectedOutsideTheirState(t *testing.T) {
	engine := assessment.NewEngineWithClock(testQuestions(2), newClock().Now)

	_, err := engine.Answer("a")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = engine.Advance()
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = engine.Start()
	require.NoError(t, err)
	_, err = engine.Advance()
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = engine.Summary()
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestLastAdvanceNeverReentersInProgress(t *testing.T) {
	engine := assessment.NewEngineWithClock(testQuestions(2), newClock().Now)
	_, err := engine.Start()
	require.NoError(t, err)

	_, _ = engine.Answer("a")
	snap, err := engine.Advance()
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, snap.Status)
	assert.Equal(t, 1, snap.CurrentIndex)

	_, _ = engine.Answer("b")
	snap, err = engine.Advance()
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFinished, snap.Status)
	assert.Equal(t, 1, snap.CurrentIndex)

	_, err = engine.Answer("b")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestElapsedIsMonotonicAndFrozenAfterFinish(t *testing.T) {
	clock := newClock()
	engine := assessment.NewEngineWithClock(testQuestions(2), clock.Now)
	_, err := engine.Start()
	require.NoError(t, err)

	last := 0
	read := func() {
		got := engine.Snapshot().ElapsedTotalSeconds
		assert.GreaterOrEqual(t, got, last)
		last = got
	}

	clock.Advance(3 * time.Second)
	read()
	_, _ = engine.Answer("b")
	clock.Advance(4 * time.Second)
	read()
	// A clock stepping backwards must not make elapsed regress.
	clock.Advance(-5 * time.Second)
	read()
	clock.Advance(6 * time.Second)
	_, _ = engine.Advance()
	read()
	clock.Advance(2 * time.Second)
	_, _ = engine.Answer("a")
	_, err = engine.Advance()
	require.NoError(t, err)

	frozen := engine.Snapshot().ElapsedTotalSeconds
	assert.Equal(t, 10, frozen)
	clock.Advance(time.Hour)
	assert.Equal(t, frozen, engine.Snapshot().ElapsedTotalSeconds)

	summary, err := engine.Summary()
	require.NoError(t, err)
	assert.Equal(t, frozen, summary.ElapsedTotalSeconds)
}

func TestElapsedKeepsRunningWhileAwaitingAdvance(t *testing.T) {
	clock := newClock()
	engine := assessment.NewEngineWithClock(testQuestions(2), clock.Now)
	_, _ = engine.Start()

	clock.Advance(2 * time.Second)
	_, _ = engine.Answer("b")
	clock.Advance(30 * time.Second)

	snap := engine.Snapshot()
	assert.Equal(t, domain.StatusAwaitingAdvance, snap.Status)
	assert.Equal(t, 32, snap.ElapsedTotalSeconds)
	assert.Equal(t, 2, snap.Answers[0].TimeSpentSeconds)
}

func TestRestartDiscardsProgress(t *testing.T) {
	clock := newClock()
	engine := assessment.NewEngineWithClock(testQuestions(3), clock.Now)
	_, _ = engine.Start()
	_, _ = engine.Answer("b")
	_, _ = engine.Advance()
	clock.Advance(20 * time.Second)

	snap, err := engine.Start()
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, snap.Status)
	assert.Equal(t, 0, snap.CurrentIndex)
	assert.Equal(t, 0, snap.Score)
	assert.Empty(t, snap.Answers)
	assert.Equal(t, 0, snap.ElapsedTotalSeconds)
}

func TestRestartFromFinished(t *testing.T) {
	engine := assessment.NewEngineWithClock(testQuestions(1), newClock().Now)
	_, _ = engine.Start()
	_, _ = engine.Answer("b")
	_, _ = engine.Advance()

	snap, err := engine.Start()
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, snap.Status)
	assert.NotNil(t, snap.CurrentQuestion)
}

func TestAlternatingAnswersScoreAndOrder(t *testing.T) {
	for n := 1; n <= 7; n++ {
		engine := assessment.NewEngineWithClock(testQuestions(n), newClock().Now)
		_, err := engine.Start()
		require.NoError(t, err)

		want := 0
		for i := 0; i < n; i++ {
			choice := "a"
			if i%2 == 0 {
				choice = "b"
				want++
			}
			_, err := engine.Answer(choice)
			require.NoError(t, err)
			_, err = engine.Advance()
			require.NoError(t, err)
		}

		snap := engine.Snapshot()
		assert.Equal(t, domain.StatusFinished, snap.Status)
		assert.Equal(t, want, snap.Score)

		summary, err := engine.Summary()
		require.NoError(t, err)
		require.Len(t, summary.Answers, n)
		for i, a := range summary.Answers {
			assert.Equal(t, i+1, a.QuestionID)
			assert.Equal(t, a.SelectedOptionID == a.CorrectOptionID, a.IsCorrect)
		}
	}
}

func TestSnapshotAnswersAreCopies(t *testing.T) {
	engine := assessment.NewEngineWithClock(testQuestions(2), newClock().Now)
	_, _ = engine.Start()
	snap, _ := engine.Answer("b")

	snap.Answers[0].IsCorrect = false
	assert.True(t, engine.Snapshot().Answers[0].IsCorrect)
}

func TestQuestionOptionsAreIsolatedFromCallers(t *testing.T) {
	qs := testQuestions(2)
	engine := assessment.NewEngineWithClock(qs, newClock().Now)
	qs[0].Options[1].ID = "z"

	snap, err := engine.Start()
	require.NoError(t, err)
	assert.Equal(t, "b", snap.CurrentQuestion.Options[1].ID)

	snap.CurrentQuestion.Options[1].ID = "y"
	assert.Equal(t, "b", engine.Snapshot().CurrentQuestion.Options[1].ID)

	snap, err = engine.Answer("b")
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Score)
}
