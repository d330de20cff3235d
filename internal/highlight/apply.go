package highlight

import "context"

// Target identifies a document/namespace pair on the backend. Namespace
// scopes the highlight entries so independent producers (diagnostics,
// semantic tokens, search) do not clobber each other.
type Target struct {
	Doc       string
	Namespace string
}

// Mode selects how an apply call waits on the backend.
type Mode int

const (
	// Immediate flushes the batch and suspends until the backend
	// acknowledges all of it. Transport and backend errors surface to the
	// caller.
	Immediate Mode = iota

	// Deferred flushes the batch without waiting. Backend-side failures in
	// the batch are not observable to the caller; the batching layer logs
	// them.
	Deferred
)

// Batch queues mutation commands for one atomic flush. Implementations must
// not transmit anything until Flush or FlushNotify is called, and must
// transmit all queued commands as a single outbound unit.
type Batch interface {
	// DeleteMarkers queues deletion of individual entries by marker.
	DeleteMarkers(target Target, markers []uint64)

	// ClearLines queues wholesale clearing of every entry on the lines.
	ClearLines(target Target, lines []uint32)

	// SetEntries queues creation of entries, each encoded as the fixed
	// 7-field wire record.
	SetEntries(target Target, entries [][]any, priority int)

	// Flush transmits the batch and waits for the backend to acknowledge
	// all of it.
	Flush(ctx context.Context) error

	// FlushNotify transmits the batch without waiting for acknowledgment.
	FlushNotify() error
}

// Batcher creates outbound command batches. *bridge.Client satisfies this.
type Batcher interface {
	NewBatch() Batch
}

// Apply translates a diff into backend mutation commands and transmits them
// as one batch. An empty diff is a complete no-op: no batch is created and no
// command is issued.
//
// The command order is fixed: delete-by-marker, then clear-lines, then
// set-entries. Removals must land before insertions so a freshly set line can
// never be destroyed by a stale removal applied out of order.
func Apply(ctx context.Context, b Batcher, target Target, priority int, d Diff, mode Mode) error {
	if d.Empty() {
		return nil
	}

	batch := b.NewBatch()
	if len(d.RemoveMarkers) > 0 {
		batch.DeleteMarkers(target, d.RemoveMarkers)
	}
	if len(d.RemoveLines) > 0 {
		batch.ClearLines(target, d.RemoveLines)
	}
	if len(d.Add) > 0 {
		entries := make([][]any, len(d.Add))
		for i, it := range d.Add {
			entries[i] = it.Encode()
		}
		batch.SetEntries(target, entries, priority)
	}

	if mode == Deferred {
		return batch.FlushNotify()
	}
	return batch.Flush(ctx)
}
