package quiz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestAttempt(t *testing.T) *Attempt {
	t.Helper()
	a, err := NewAttempt(sampleQuestions(), t0, 30*time.Second)
	require.NoError(t, err)
	return a
}

func TestNewAttempt(t *testing.T) {
	a := newTestAttempt(t)

	assert.Equal(t, 0, a.Current())
	assert.Equal(t, 3, a.Total())
	assert.Equal(t, []int{Unanswered, Unanswered, Unanswered}, a.Answers())
	assert.Equal(t, t0.Add(90*time.Second), a.Deadline())
	assert.Equal(t, 90*time.Second, a.TimeLeft(t0))
	assert.False(t, a.Finished())

	_, ok := a.Result()
	assert.False(t, ok)
}

func TestNewAttempt_NoQuestions(t *testing.T) {
	_, err := NewAttempt(nil, t0, 30*time.Second)
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestAttempt_NextRequiresAnswer(t *testing.T) {
	a := newTestAttempt(t)

	_, err := a.Next(t0)
	assert.ErrorIs(t, err, ErrNotAnswered)
	assert.Equal(t, 0, a.Current())
}

func TestAttempt_SelectRejectsBadOption(t *testing.T) {
	a := newTestAttempt(t)

	assert.ErrorIs(t, a.Select(t0, 4), ErrInvalidOption)
	assert.ErrorIs(t, a.Select(t0, -1), ErrInvalidOption)
	assert.Equal(t, Unanswered, a.Answers()[0])
}

func TestAttempt_FullRun(t *testing.T) {
	a := newTestAttempt(t)
	now := t0

	for _, opt := range []int{1, 0, 2} {
		now = now.Add(5 * time.Second)
		require.NoError(t, a.Select(now, opt))
		done, err := a.Next(now)
		require.NoError(t, err)
		if a.Finished() {
			assert.True(t, done)
		}
	}

	require.True(t, a.Finished())
	res, ok := a.Result()
	require.True(t, ok)
	assert.Equal(t, 67, res.Score)
	assert.Equal(t, 2, res.Correct)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, []int{1, 0, 2}, res.Answers)
	assert.False(t, res.TimedOut)
	assert.Equal(t, t0.Add(15*time.Second), res.FinishedAt)
	assert.Equal(t, time.Duration(0), a.TimeLeft(now))
}

func TestAttempt_PreviousClampsAtStart(t *testing.T) {
	a := newTestAttempt(t)

	require.NoError(t, a.Previous(t0))
	assert.Equal(t, 0, a.Current())

	require.NoError(t, a.Select(t0, 1))
	_, err := a.Next(t0)
	require.NoError(t, err)
	assert.Equal(t, 1, a.Current())

	require.NoError(t, a.Previous(t0))
	assert.Equal(t, 0, a.Current())
	assert.Equal(t, 1, a.Answers()[0], "answers survive navigation")
}

func TestAttempt_ChangeAnswer(t *testing.T) {
	a := newTestAttempt(t)

	require.NoError(t, a.Select(t0, 0))
	require.NoError(t, a.Select(t0, 1))
	assert.Equal(t, 1, a.Answers()[0])
}

func TestAttempt_ExpireFinishesWithCurrentAnswers(t *testing.T) {
	a := newTestAttempt(t)
	require.NoError(t, a.Select(t0, 1))

	assert.False(t, a.Expire(t0.Add(89*time.Second)))
	assert.True(t, a.Expire(t0.Add(90*time.Second)))
	assert.False(t, a.Expire(t0.Add(91*time.Second)), "expires only once")

	res, ok := a.Result()
	require.True(t, ok)
	assert.True(t, res.TimedOut)
	assert.Equal(t, 33, res.Score)
	assert.Equal(t, []int{1, Unanswered, Unanswered}, res.Answers)
}

func TestAttempt_OperationsAfterDeadline(t *testing.T) {
	a := newTestAttempt(t)
	late := t0.Add(2 * time.Minute)

	assert.ErrorIs(t, a.Select(late, 1), ErrAttemptFinished)
	assert.True(t, a.Finished())

	res, _ := a.Result()
	assert.True(t, res.TimedOut)
	assert.Equal(t, 0, res.Score)
}

func TestAttempt_FinishedIsFinal(t *testing.T) {
	a := newTestAttempt(t)
	for _, opt := range []int{1, 2, 2} {
		require.NoError(t, a.Select(t0, opt))
		_, err := a.Next(t0)
		require.NoError(t, err)
	}
	first, _ := a.Result()

	assert.ErrorIs(t, a.Select(t0, 0), ErrAttemptFinished)
	_, err := a.Next(t0)
	assert.ErrorIs(t, err, ErrAttemptFinished)
	assert.ErrorIs(t, a.Previous(t0), ErrAttemptFinished)
	assert.False(t, a.Expire(t0.Add(time.Hour)))

	again, _ := a.Result()
	assert.Equal(t, first, again)
	assert.Equal(t, 100, again.Score)
}

func TestAttempt_StateRoundTrip(t *testing.T) {
	a := newTestAttempt(t)
	require.NoError(t, a.Select(t0, 1))
	_, err := a.Next(t0)
	require.NoError(t, err)

	b, err := Restore(sampleQuestions(), a.State())
	require.NoError(t, err)
	assert.Equal(t, 1, b.Current())
	assert.Equal(t, a.Answers(), b.Answers())
	assert.Equal(t, a.Deadline(), b.Deadline())
}

func TestRestore_NormalisesState(t *testing.T) {
	b, err := Restore(sampleQuestions(), State{Current: 9, Answers: []int{2}, Deadline: t0})
	require.NoError(t, err)
	assert.Equal(t, 2, b.Current())
	assert.Equal(t, []int{2, Unanswered, Unanswered}, b.Answers())
}

func TestRestore_Finished(t *testing.T) {
	b, err := Restore(sampleQuestions(), State{Answers: []int{1, 2, 0}, Finished: true, TimedOut: true, FinishedAt: t0})
	require.NoError(t, err)

	res, ok := b.Result()
	require.True(t, ok)
	assert.Equal(t, 67, res.Score)
	assert.True(t, res.TimedOut)
}
