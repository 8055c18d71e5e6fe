// Package goroutine runs background work under a bounded concurrency limit
// with panic recovery. The broker consumers use it so one slow handler cannot
// spawn unbounded goroutines.
package goroutine

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/foliolabs/folio/internal/pkg/stacktrace"
)

// DefaultMaxPerCPU scales the fallback limit when NewManager gets a
// non-positive value.
const DefaultMaxPerCPU = 100

// Manager schedules functions on goroutines up to a fixed concurrency limit,
// collecting returned errors until Wait.
type Manager struct {
	mu     sync.Mutex
	errs   []error
	wg     sync.WaitGroup
	sema   chan struct{}
	closMu sync.RWMutex
	closed bool
}

// NewManager returns a Manager allowing at most maxGoroutine concurrent tasks.
func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = runtime.NumCPU() * DefaultMaxPerCPU
	}

	return &Manager{sema: make(chan struct{}, maxGoroutine)}
}

// Go runs f on a new goroutine when a slot is free. At the limit, or after
// Wait has been called, the task is dropped with a warning.
func (g *Manager) Go(pCtx context.Context, f func(ctx context.Context) error) {
	if g == nil {
		return
	}

	g.closMu.RLock()
	closed := g.closed
	g.closMu.RUnlock()
	if closed {
		slog.WarnContext(pCtx, "goroutine manager is closed, skipping task")
		return
	}

	select {
	case g.sema <- struct{}{}:
	default:
		slog.WarnContext(pCtx, "goroutine limit reached, task dropped")
		return
	}

	g.wg.Go(func() {
		defer func() {
			<-g.sema

			if rvr := recover(); rvr != nil {
				stack := debug.Stack()
				if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
					slog.ErrorContext(pCtx, "panic in goroutine", "recovered", rvr, "stack", paths)
				} else {
					slog.ErrorContext(pCtx, "panic in goroutine", "recovered", rvr, "stack", string(stack))
				}
			}
		}()

		select {
		case <-pCtx.Done():
			slog.WarnContext(pCtx, "goroutine canceled", "because", pCtx.Err())
		default:
			if err := f(pCtx); err != nil {
				g.mu.Lock()
				g.errs = append(g.errs, err)
				g.mu.Unlock()
			}
		}
	})
}

// Wait closes the manager to new work, blocks until running tasks finish,
// and returns the joined task errors.
func (g *Manager) Wait() error {
	if g == nil {
		return nil
	}

	g.closMu.Lock()
	g.closed = true
	g.closMu.Unlock()

	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()

	return errors.Join(g.errs...)
}
