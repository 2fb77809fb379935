package server

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type blockingService struct {
	started atomic.Bool
	stopped atomic.Bool
	release chan struct{}
}

func newBlockingService() *blockingService {
	return &blockingService{release: make(chan struct{})}
}

func (s *blockingService) Start() error {
	s.started.Store(true)
	<-s.release
	return nil
}

func (s *blockingService) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.release)
	}
}

func TestLifecycleRunStopsOnContextCancel(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t))
	svc := newBlockingService()
	lc.Add("api", svc)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- lc.Run(ctx) }()

	require.Eventually(t, svc.started.Load, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	assert.True(t, svc.stopped.Load())
}

func TestLifecycleStopsAllServicesOnFailure(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t))
	healthy := newBlockingService()
	lc.Add("saver", healthy)
	lc.Add("api", &FuncService{
		StartFn: func() error { return errors.New("listen failed") },
		StopFn:  func() {},
	})

	done := make(chan error, 1)
	go func() { done <- lc.Run(context.Background()) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after service failure")
	}
	assert.True(t, healthy.stopped.Load())
}

func TestFuncServiceDelegates(t *testing.T) {
	var started, stopped bool
	svc := &FuncService{
		StartFn: func() error { started = true; return nil },
		StopFn:  func() { stopped = true },
	}
	require.NoError(t, svc.Start())
	svc.Stop()
	assert.True(t, started)
	assert.True(t, stopped)
}
