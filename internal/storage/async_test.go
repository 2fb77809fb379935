package storage_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/dmelnik/taxidriver/internal/game/player"
	"github.com/dmelnik/taxidriver/internal/storage"
)

// fakeStore records writes; an optional gate blocks Save until released.
type fakeStore struct {
	mu     sync.Mutex
	states []player.State
	slots  []string
	err    error
	gate   chan struct{}
}

func (f *fakeStore) Save(_ context.Context, slot string, st player.State) error {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.slots = append(f.slots, slot)
	f.states = append(f.states, st)
	return nil
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.states)
}

func (f *fakeStore) last(t *testing.T) player.State {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.states)
	return f.states[len(f.states)-1]
}

func stateWithDay(day int) player.State {
	st := player.Default("car_1")
	st.Day = day
	return st
}

// TestAsync_WritesEnqueuedState verifies the basic write path and slot.
func TestAsync_WritesEnqueuedState(t *testing.T) {
	store := &fakeStore{}
	a := storage.NewAsync(store, "slot_a", time.Second, zaptest.NewLogger(t))

	a.Enqueue(stateWithDay(3))
	require.Eventually(t, func() bool { return store.count() == 1 },
		2*time.Second, time.Millisecond)

	assert.Equal(t, 3, store.last(t).Day)
	store.mu.Lock()
	assert.Equal(t, []string{"slot_a"}, store.slots)
	store.mu.Unlock()

	a.Close()
}

// TestAsync_CoalescesLatestWins verifies that under backpressure only the
// newest pending state survives and Enqueue never blocks.
func TestAsync_CoalescesLatestWins(t *testing.T) {
	store := &fakeStore{gate: make(chan struct{})}
	a := storage.NewAsync(store, "slot", time.Second, zaptest.NewLogger(t))

	// First write parks inside the gated store; the rest pile up behind it.
	a.Enqueue(stateWithDay(1))

	done := make(chan struct{})
	go func() {
		for day := 2; day <= 50; day++ {
			a.Enqueue(stateWithDay(day))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked under backpressure")
	}

	close(store.gate)
	a.Close()

	assert.Equal(t, 50, store.last(t).Day, "the newest state must win")
	assert.Less(t, store.count(), 50, "intermediate states must have been coalesced away")
}

// TestAsync_CloseFlushesPending verifies Close drains the pending write
// before returning.
func TestAsync_CloseFlushesPending(t *testing.T) {
	store := &fakeStore{}
	a := storage.NewAsync(store, "slot", time.Second, zaptest.NewLogger(t))

	a.Enqueue(stateWithDay(7))
	a.Close()

	require.GreaterOrEqual(t, store.count(), 1, "Close must flush the pending state")
	assert.Equal(t, 7, store.last(t).Day)
}

// TestAsync_EnqueueAfterCloseIsNoop verifies a closed writer drops new
// states silently.
func TestAsync_EnqueueAfterCloseIsNoop(t *testing.T) {
	store := &fakeStore{}
	a := storage.NewAsync(store, "slot", time.Second, zaptest.NewLogger(t))
	a.Close()

	a.Enqueue(stateWithDay(9))
	time.Sleep(20 * time.Millisecond)
	for _, st := range store.states {
		assert.NotEqual(t, 9, st.Day)
	}
}

// TestAsync_SurvivesStoreFailures verifies write errors are logged, not
// fatal: later writes still go through.
func TestAsync_SurvivesStoreFailures(t *testing.T) {
	store := &fakeStore{err: errors.New("connection reset")}
	a := storage.NewAsync(store, "slot", time.Second, zaptest.NewLogger(t))

	a.Enqueue(stateWithDay(1))
	time.Sleep(20 * time.Millisecond)

	store.mu.Lock()
	store.err = nil
	store.mu.Unlock()

	a.Enqueue(stateWithDay(2))
	require.Eventually(t, func() bool { return store.count() == 1 },
		2*time.Second, time.Millisecond)
	assert.Equal(t, 2, store.last(t).Day)

	a.Close()
}
