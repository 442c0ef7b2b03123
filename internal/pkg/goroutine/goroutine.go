// Package goroutine runs fire-and-forget background work with a bounded
// level of concurrency and a graceful drain on shutdown.
package goroutine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/shandysiswandi/otpkeeper/internal/pkg/stacktrace"
	"go.uber.org/atomic"
)

// DefaultPerCPU is multiplied by the CPU count when NewManager receives a
// non-positive limit.
const DefaultPerCPU = 100

// Manager runs tasks in goroutines. Tasks that arrive while every slot is
// busy, or after Wait has been called, are dropped with a warning.
type Manager struct {
	wg     sync.WaitGroup
	slots  chan struct{}
	closed atomic.Bool

	// gate orders Go against Wait so no task is added after Wait starts.
	gate sync.RWMutex

	mu   sync.Mutex
	errs []error
}

// NewManager returns a Manager running at most limit tasks at once.
func NewManager(limit int) *Manager {
	if limit < 1 {
		limit = runtime.NumCPU() * DefaultPerCPU
	}
	return &Manager{slots: make(chan struct{}, limit)}
}

// Go schedules f. The context passed to f is detached from ctx's
// cancellation so work started for a request outlives the response. It
// reports whether f was scheduled.
func (m *Manager) Go(ctx context.Context, name string, f func(ctx context.Context) error) bool {
	if m == nil {
		return false
	}

	m.gate.RLock()
	defer m.gate.RUnlock()

	if m.closed.Load() {
		slog.WarnContext(ctx, "goroutine manager closed, task dropped", "task", name)
		return false
	}

	select {
	case m.slots <- struct{}{}:
	default:
		slog.WarnContext(ctx, "goroutine limit reached, task dropped", "task", name)
		return false
	}

	taskCtx := context.WithoutCancel(ctx)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer func() { <-m.slots }()

		if err := m.run(taskCtx, name, f); err != nil {
			m.mu.Lock()
			m.errs = append(m.errs, err)
			m.mu.Unlock()
		}
	}()

	return true
}

func (m *Manager) run(ctx context.Context, name string, f func(context.Context) error) (err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			slog.ErrorContext(ctx, "panic in background task", "task", name, "panic", rvr, "stack", stacktrace.Internal(3))
			err = fmt.Errorf("goroutine: task %s panicked: %v", name, rvr)
		}
	}()

	if err := f(ctx); err != nil {
		return fmt.Errorf("goroutine: task %s: %w", name, err)
	}
	return nil
}

// Wait stops accepting tasks, waits for running ones and returns their
// joined errors.
func (m *Manager) Wait() error {
	if m == nil {
		return nil
	}

	m.gate.Lock()
	m.closed.Store(true)
	m.gate.Unlock()

	m.wg.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	return errors.Join(m.errs...)
}
