package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTracker(t *testing.T) {
	tr, err := NewTracker(3)
	require.NoError(t, err)
	assert.Equal(t, 1, tr.Page())
	assert.Equal(t, 3, tr.Total())
	assert.False(t, tr.Completed())

	_, err = NewTracker(0)
	assert.ErrorIs(t, err, ErrNoPages)
}

func TestNewTracker_SinglePageIsComplete(t *testing.T) {
	tr, err := NewTracker(1)
	require.NoError(t, err)
	assert.True(t, tr.Completed())
}

func TestTracker_MoveForwardFiresOnLastPage(t *testing.T) {
	tr, _ := NewTracker(3)

	fired, err := tr.Move(1)
	require.NoError(t, err)
	assert.False(t, fired)
	assert.Equal(t, 2, tr.Page())

	fired, err = tr.Move(1)
	require.NoError(t, err)
	assert.True(t, fired)
	assert.Equal(t, 3, tr.Page())
	assert.True(t, tr.Completed())
}

func TestTracker_MovePastEndRejected(t *testing.T) {
	tr, _ := NewTracker(2)
	fired, _ := tr.Move(1)
	require.True(t, fired)

	fired, err := tr.Move(1)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.False(t, fired, "a rejected move never fires")
	assert.Equal(t, 2, tr.Page())
}

func TestTracker_MoveBeforeStartRejected(t *testing.T) {
	tr, _ := NewTracker(4)

	_, err := tr.Move(-1)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, 1, tr.Page())
}

func TestTracker_FiresOncePerForwardTraversal(t *testing.T) {
	tr, _ := NewTracker(3)
	fires := 0
	step := func(offset int) {
		fired, _ := tr.Move(offset)
		if fired {
			fires++
		}
	}

	step(1)
	step(1)
	step(1) // rejected
	assert.Equal(t, 1, fires)

	step(-1)
	assert.True(t, tr.Completed(), "completion is sticky")
	step(1)
	assert.Equal(t, 2, fires)
}

func TestTracker_PageStaysInBounds(t *testing.T) {
	tr, _ := NewTracker(5)
	for _, off := range []int{-3, 2, 7, 1, -10, 1, 1, 4, -1, 3} {
		_, _ = tr.Move(off)
		assert.GreaterOrEqual(t, tr.Page(), 1)
		assert.LessOrEqual(t, tr.Page(), 5)
	}
}

func TestTracker_Goto(t *testing.T) {
	tr, _ := NewTracker(10)

	fired, err := tr.Goto(10)
	require.NoError(t, err)
	assert.True(t, fired)

	fired, err = tr.Goto(10)
	require.NoError(t, err)
	assert.False(t, fired, "staying on the last page is not a forward move")

	_, err = tr.Goto(11)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = tr.Goto(0)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestRestore(t *testing.T) {
	tr, err := Restore(12, 5, false)
	require.NoError(t, err)
	assert.Equal(t, 5, tr.Page())

	tr, err = Restore(0, 5, true)
	require.NoError(t, err)
	assert.Equal(t, 1, tr.Page())
	assert.True(t, tr.Completed())

	_, err = Restore(1, 0, false)
	assert.ErrorIs(t, err, ErrNoPages)
}

func TestTracker_Progress(t *testing.T) {
	tr, _ := NewTracker(4)
	assert.Equal(t, 25, tr.Progress())
	_, _ = tr.Goto(4)
	assert.Equal(t, 100, tr.Progress())
}
