package bridge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dshills/hlsync/internal/highlight"
)

// Snapshotter queries the backend's current highlight state.
type Snapshotter interface {
	Snapshot(ctx context.Context, t highlight.Target, region *highlight.Region) ([]highlight.Record, error)
}

// Backend is the full surface the synchronizer drives. *Client satisfies it.
type Backend interface {
	Snapshotter
	highlight.Batcher
}

// SpanSource computes the desired spans for a target. Span computation is a
// caller concern; the synchronizer only pulls from the source when a
// debounced refresh fires.
type SpanSource interface {
	Spans(t highlight.Target) ([]highlight.Item, *highlight.Region, error)
}

// Options configures a Synchronizer.
type Options struct {
	// MarkerCapable selects per-marker deletion over whole-line clears.
	MarkerCapable bool

	// Priority is passed with every set-entries command.
	Priority int

	// Debounce is the quiet period for Refresh requests.
	Debounce time.Duration

	// Source supplies desired spans for debounced refreshes. Optional;
	// Refresh is a no-op without it.
	Source SpanSource

	// Log may be nil.
	Log Logger
}

// Synchronizer reconciles desired highlight state against the backend,
// serializing cycles per target. A diff is only valid against the snapshot
// it was computed from, so two cycles for the same target must never
// interleave; cycles for different targets run independently.
type Synchronizer struct {
	backend Backend
	opts    Options
	log     Logger

	mu      sync.Mutex
	targets map[highlight.Target]*targetState
	closed  bool
}

type targetState struct {
	mu        sync.Mutex // serializes reconcile+apply for this target
	debouncer *Debouncer
}

// NewSynchronizer creates a synchronizer over the backend.
func NewSynchronizer(backend Backend, opts Options) *Synchronizer {
	log := opts.Log
	s := &Synchronizer{
		backend: backend,
		opts:    opts,
		log:     log,
		targets: make(map[highlight.Target]*targetState),
	}
	return s
}

// Sync reconciles desired against the backend's current state and applies
// the diff, waiting for the backend to acknowledge it. Transport and backend
// failures return to the caller; no retry is attempted.
func (s *Synchronizer) Sync(ctx context.Context, t highlight.Target, desired []highlight.Item, region *highlight.Region) error {
	return s.cycle(ctx, t, desired, region, highlight.Immediate)
}

// Queue reconciles like Sync but applies the diff without waiting.
// Backend-side failures in the deferred batch are not observable here.
func (s *Synchronizer) Queue(ctx context.Context, t highlight.Target, desired []highlight.Item, region *highlight.Region) error {
	return s.cycle(ctx, t, desired, region, highlight.Deferred)
}

func (s *Synchronizer) cycle(ctx context.Context, t highlight.Target, desired []highlight.Item, region *highlight.Region, mode highlight.Mode) error {
	st := s.state(t)
	if st == nil {
		return fmt.Errorf("synchronizer closed")
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	current, err := s.backend.Snapshot(ctx, t, region)
	if err != nil {
		return err
	}

	diff := highlight.Reconcile(desired, current, region, s.opts.MarkerCapable)
	if diff.Empty() {
		return nil
	}

	if s.log != nil {
		s.log.Debug("reconciled %s/%s: -%d markers -%d lines +%d items",
			t.Doc, t.Namespace, len(diff.RemoveMarkers), len(diff.RemoveLines), len(diff.Add))
	}
	return highlight.Apply(ctx, s.backend, t, s.opts.Priority, diff, mode)
}

// Refresh requests a debounced reconciliation pass for the target. Bursts
// within the debounce window collapse into one pass, which pulls desired
// spans from the configured source and applies deferred.
func (s *Synchronizer) Refresh(t highlight.Target) {
	if s.opts.Source == nil {
		return
	}
	st := s.state(t)
	if st == nil {
		return
	}
	st.debouncer.Call()
}

// FlushRefresh runs any pending debounced refresh for the target now.
func (s *Synchronizer) FlushRefresh(t highlight.Target) {
	st := s.state(t)
	if st == nil {
		return
	}
	st.debouncer.CallImmediate()
}

// Close cancels pending refreshes. In-flight cycles finish normally.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for _, st := range s.targets {
		st.debouncer.Cancel()
	}
}

func (s *Synchronizer) state(t highlight.Target) *targetState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	st, ok := s.targets[t]
	if !ok {
		st = &targetState{}
		st.debouncer = NewDebouncer(s.opts.Debounce, func() { s.refreshNow(t) })
		s.targets[t] = st
	}
	return st
}

// refreshNow runs one source-driven pass. Failures are logged, not
// surfaced: a debounced refresh has no caller to report to.
func (s *Synchronizer) refreshNow(t highlight.Target) {
	items, region, err := s.opts.Source.Spans(t)
	if err != nil {
		if s.log != nil {
			s.log.Warn("span source failed for %s/%s: %v", t.Doc, t.Namespace, err)
		}
		return
	}
	if err := s.Queue(context.Background(), t, items, region); err != nil {
		if s.log != nil {
			s.log.Error("refresh failed for %s/%s: %v", t.Doc, t.Namespace, err)
		}
	}
}
