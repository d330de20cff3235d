// Package bridge connects the highlight engine to a concrete rendering
// backend over the rpc command channel.
//
// Client speaks the backend's highlight protocol: it queries current state
// (hl/get) and queues the three mutation commands (hl/deleteMarkers,
// hl/clearLines, hl/setEntries) into atomic batches, satisfying the
// interfaces the highlight applier consumes.
//
// Synchronizer drives reconciliation. It owns the caller-side serialization
// the engine requires: reconcile+apply cycles for the same document and
// namespace never overlap, because a diff is only valid against the snapshot
// it was computed from. Refresh requests are debounced per target so bursts
// of edits collapse into one pass.
package bridge
