package janitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue()
	require.True(t, q.IsEmpty())

	q.Populate([]string{"a", "b", "c"})
	assert.False(t, q.IsEmpty())
	assert.Equal(t, 3, q.Len())

	for _, want := range []string{"a", "b", "c"} {
		got, err := q.PeekHead()
		require.NoError(t, err)
		assert.Equal(t, want, got)

		// Peeking does not consume.
		again, err := q.PeekHead()
		require.NoError(t, err)
		assert.Equal(t, want, again)

		require.NoError(t, q.PopHead())
	}
	assert.True(t, q.IsEmpty())
}

func TestQueue_EmptyErrors(t *testing.T) {
	q := NewQueue()

	_, err := q.PeekHead()
	assert.ErrorIs(t, err, ErrEmptyQueue)
	assert.ErrorIs(t, q.PopHead(), ErrEmptyQueue)
}

func TestQueue_PopulateReplacesAndCopies(t *testing.T) {
	q := NewQueue()
	q.Populate([]string{"old"})

	input := []string{"a", "b"}
	q.Populate(input)
	input[0] = "mutated"

	assert.Equal(t, []string{"a", "b"}, q.Snapshot())

	snap := q.Snapshot()
	snap[1] = "mutated"
	assert.Equal(t, []string{"a", "b"}, q.Snapshot())
}

func TestQueue_PopulateEmpty(t *testing.T) {
	q := NewQueue()
	q.Populate(nil)
	assert.True(t, q.IsEmpty())
	assert.Empty(t, q.Snapshot())
}
