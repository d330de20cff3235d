// Package ui serializes modal interactions so at most one dialog, menu,
// input or picker is ever presented at a time. The gate is a cooperative
// FIFO queue of pending turns, not an OS-level lock: the execution model is
// interleaved async tasks on one logical thread, so there is no real thread
// contention to guard against, only overlapping surfaces to prevent.
package ui

import (
	"context"
	"errors"
	"sync"
)

// ErrCanceled is returned when a caller's context is already canceled before
// its turn begins. It is the defined "canceled" outcome: the task never runs
// and no surface is presented.
var ErrCanceled = errors.New("ui: interaction canceled")

// Gate is a FIFO mutual-exclusion gate over the single modal surface.
// Turn n+1 begins only after turn n's task settles, in submission order.
// The zero value is ready to use.
type Gate struct {
	mu      sync.Mutex
	held    bool
	waiters []chan struct{}
}

// Use runs task while holding the gate. Concurrent callers queue in strict
// submission order. A task's error is returned to its own caller only; the
// gate is released on every exit path, including panics, so queued turns
// always proceed.
//
// Cancellation is cooperative: the context is checked before enqueuing and
// again after the gate is acquired but before the task runs. It is not
// checked while waiting in the queue — an abandoned caller still takes its
// turn and releases immediately without presenting anything.
func (g *Gate) Use(ctx context.Context, task func(context.Context) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if ctx.Err() != nil {
		return ErrCanceled
	}

	g.acquire()
	defer g.release()

	if ctx.Err() != nil {
		return ErrCanceled
	}
	return task(ctx)
}

// Run is Use for tasks that produce a value. On cancellation it returns the
// zero value and ErrCanceled.
func Run[T any](g *Gate, ctx context.Context, task func(context.Context) (T, error)) (T, error) {
	var result T
	err := g.Use(ctx, func(ctx context.Context) error {
		var taskErr error
		result, taskErr = task(ctx)
		return taskErr
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

func (g *Gate) acquire() {
	g.mu.Lock()
	if !g.held {
		g.held = true
		g.mu.Unlock()
		return
	}
	turn := make(chan struct{})
	g.waiters = append(g.waiters, turn)
	g.mu.Unlock()
	<-turn
}

func (g *Gate) release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.waiters) == 0 {
		g.held = false
		return
	}
	// Hand the gate to the oldest waiter; held stays true.
	next := g.waiters[0]
	g.waiters = g.waiters[1:]
	close(next)
}

// Idle reports whether no task holds the gate and nothing is queued.
func (g *Gate) Idle() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.held && len(g.waiters) == 0
}
