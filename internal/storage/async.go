// Package storage provides the save-store contract and a non-blocking,
// coalescing writer in front of it.
package storage

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dmelnik/taxidriver/internal/game/player"
)

// Store is the durable save-store contract.
type Store interface {
	Save(ctx context.Context, slot string, st player.State) error
}

// Async writes player states to a Store without ever blocking the caller.
// Writes are coalesced latest-wins: under backpressure only the most recent
// state is kept, which is the only one that matters.
type Async struct {
	store   Store
	slot    string
	timeout time.Duration
	logger  *zap.Logger

	mu     sync.Mutex
	closed bool
	ch     chan player.State
	done   chan struct{}
}

// NewAsync starts the writer goroutine.
//
// Precondition: store and logger must be non-nil; slot must be non-empty;
// timeout > 0.
// Postcondition: Returns a running Async; callers must Close it to flush.
func NewAsync(store Store, slot string, timeout time.Duration, logger *zap.Logger) *Async {
	a := &Async{
		store:   store,
		slot:    slot,
		timeout: timeout,
		logger:  logger,
		ch:      make(chan player.State, 1),
		done:    make(chan struct{}),
	}
	go a.run()
	return a
}

// Enqueue schedules st for writing. Never blocks: if a write is already
// pending, the pending state is replaced.
func (a *Async) Enqueue(st player.State) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	for {
		select {
		case a.ch <- st:
			return
		default:
			select {
			case <-a.ch:
			default:
			}
		}
	}
}

// Close stops accepting states and flushes any pending write.
//
// Postcondition: The most recently enqueued state has been offered to the
// store before Close returns.
func (a *Async) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	close(a.ch)
	a.mu.Unlock()
	<-a.done
}

func (a *Async) run() {
	defer close(a.done)
	for st := range a.ch {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		if err := a.store.Save(ctx, a.slot, st); err != nil {
			a.logger.Warn("save failed, progress may be lost on exit",
				zap.String("slot", a.slot),
				zap.Error(err),
			)
		}
		cancel()
	}
}
