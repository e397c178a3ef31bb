package workq

import (
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFIFO(t *testing.T) {
	q := New[int]()
	for i := 1; i <= 5; i++ {
		require.NoError(t, q.Push(i))
	}

	for i := 1; i <= 5; i++ {
		v, err := q.Pop()
		require.NoError(t, err)
		assert.Equal(t, i, v, "pop must return the earliest still-queued item")
	}
}

func TestQueueCloseReturnsSnapshot(t *testing.T) {
	q := New[int]()
	for i := 1; i <= 3; i++ {
		require.NoError(t, q.Push(i))
	}

	rest, err := q.Close()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, rest, "close should report what was still queued")
	assert.True(t, q.IsClosed())

	// The queue retains the items: they still drain in order.
	for i := 1; i <= 3; i++ {
		v, popErr := q.Pop()
		require.NoError(t, popErr)
		assert.Equal(t, i, v)
	}
	_, err = q.Pop()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestQueueCloseTwice(t *testing.T) {
	q := New[int]()
	_, err := q.Close()
	require.NoError(t, err)

	rest, err := q.Close()
	assert.ErrorIs(t, err, ErrClosed)
	assert.Nil(t, rest)
	assert.True(t, q.IsClosed(), "is_closed stays true forever after a close")
}

func TestQueuePushAfterClose(t *testing.T) {
	q := New[string]()
	_, err := q.Close()
	require.NoError(t, err)

	err = q.Push("rejected")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrClosed)

	var pe *PushError[string]
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "rejected", pe.Item, "the rejected item comes back to the caller")
}

func TestQueuePopClosedEmptyNeverBlocks(t *testing.T) {
	q := New[int]()
	_, err := q.Close()
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, popErr := q.Pop()
		assert.ErrorIs(t, popErr, ErrClosed)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Pop blocked on a closed-and-empty queue")
	}
}

// Scenario: push five integers, close, then drain lazily from another
// goroutine. The drain must observe exactly [1 2 3 4 5] then end.
func TestQueueDrainAcrossGoroutines(t *testing.T) {
	q := New[int]()
	for i := 1; i <= 5; i++ {
		require.NoError(t, q.Push(i))
	}
	_, err := q.Close()
	require.NoError(t, err)

	got := make(chan []int, 1)
	go func() {
		var out []int
		for v := range q.All() {
			out = append(out, v)
		}
		got <- out
	}()

	select {
	case out := <-got:
		assert.Equal(t, []int{1, 2, 3, 4, 5}, out)
	case <-time.After(time.Second):
		t.Fatal("drain did not terminate after queue closure")
	}
}

// FIFO law: with concurrent poppers, each popper's local observations
// are a subsequence of the push order, and every item is delivered
// exactly once.
func TestQueueConcurrentPopsSubsequence(t *testing.T) {
	const items = 1000
	const poppers = 4

	q := New[int]()

	var wg sync.WaitGroup
	seqs := make([][]int, poppers)
	for i := range poppers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for v := range q.All() {
				seqs[i] = append(seqs[i], v)
			}
		}()
	}

	for i := range items {
		require.NoError(t, q.Push(i))
	}
	_, err := q.Close()
	require.NoError(t, err)
	wg.Wait()

	var all []int
	for _, seq := range seqs {
		assert.True(t, sort.IntsAreSorted(seq),
			"each popper must observe items in push order")
		all = append(all, seq...)
	}
	sort.Ints(all)
	require.Len(t, all, items)
	for i, v := range all {
		require.Equal(t, i, v, "every pushed item delivered exactly once")
	}
}

// Two pops race for a single item: exactly one wins, the other observes
// closure. No duplicate delivery.
func TestQueueSingleItemTwoPops(t *testing.T) {
	q := New[int]()
	require.NoError(t, q.Push(7))

	results := make(chan error, 2)
	for range 2 {
		go func() {
			v, err := q.Pop()
			if err == nil {
				assert.Equal(t, 7, v)
			}
			results <- err
		}()
	}

	// Let one pop win, then release the loser via closure.
	time.Sleep(10 * time.Millisecond)
	_, err := q.Close()
	require.NoError(t, err)

	var wins, closures int
	for range 2 {
		select {
		case err := <-results:
			if err == nil {
				wins++
			} else {
				assert.ErrorIs(t, err, ErrClosed)
				closures++
			}
		case <-time.After(time.Second):
			t.Fatal("a pop is still blocked after closure")
		}
	}
	assert.Equal(t, 1, wins, "exactly one pop may receive the item")
	assert.Equal(t, 1, closures)
}

func TestQueueFromSlice(t *testing.T) {
	src := []string{"a", "b", "c"}
	q := FromSlice(src)
	src[0] = "mutated" // the queue copied the slice

	assert.Equal(t, 3, q.Len())
	v, err := q.Pop()
	require.NoError(t, err)
	assert.Equal(t, "a", v)
}

func TestQueueLen(t *testing.T) {
	q := New[int]()
	assert.Equal(t, 0, q.Len())

	require.NoError(t, q.Push(1))
	require.NoError(t, q.Push(2))
	assert.Equal(t, 2, q.Len())

	_, err := q.Pop()
	require.NoError(t, err)
	assert.Equal(t, 1, q.Len())
}

func TestQueueAllEarlyBreak(t *testing.T) {
	q := FromSlice([]int{1, 2, 3})

	for v := range q.All() {
		assert.Equal(t, 1, v)
		break
	}

	// Breaking the iteration must not consume or corrupt the rest.
	v, err := q.Pop()
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, q.Len())
}

func TestQueueBoundedPushBlocks(t *testing.T) {
	q := NewBounded[int](2)
	require.NoError(t, q.Push(1))
	require.NoError(t, q.Push(2))

	pushed := make(chan error, 1)
	go func() {
		pushed <- q.Push(3)
	}()

	select {
	case <-pushed:
		t.Fatal("push on a full bounded queue must block")
	case <-time.After(20 * time.Millisecond):
	}

	v, err := q.Pop()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	select {
	case err := <-pushed:
		require.NoError(t, err, "push should complete once a slot frees")
	case <-time.After(time.Second):
		t.Fatal("push still blocked after a slot freed")
	}
}

func TestQueueBoundedCloseUnblocksPush(t *testing.T) {
	q := NewBounded[int](1)
	require.NoError(t, q.Push(1))

	pushed := make(chan error, 1)
	go func() {
		pushed <- q.Push(2)
	}()

	time.Sleep(10 * time.Millisecond)
	_, err := q.Close()
	require.NoError(t, err)

	select {
	case err := <-pushed:
		assert.ErrorIs(t, err, ErrClosed, "blocked push must fail once the queue closes")
	case <-time.After(time.Second):
		t.Fatal("blocked push not released by closure")
	}
}

func TestQueueBoundedInvalidCapacity(t *testing.T) {
	assert.Panics(t, func() { NewBounded[int](0) })
	assert.Panics(t, func() { NewBounded[int](-3) })
}

func TestQueuePushWakesBlockedPop(t *testing.T) {
	q := New[int]()

	got := make(chan int, 1)
	go func() {
		v, err := q.Pop()
		if !errors.Is(err, ErrClosed) {
			got <- v
		}
	}()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, q.Push(42))

	select {
	case v := <-got:
		assert.Equal(t, 42, v)
	case <-time.After(time.Second):
		t.Fatal("blocked pop not woken by push")
	}
}
