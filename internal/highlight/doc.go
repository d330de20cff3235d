// Package highlight implements the highlight reconciliation engine.
//
// The backend (a remote rendering process) holds authoritative, line-indexed
// highlight state for each open document. Callers compute the highlight spans
// they want and hand them to Reconcile together with a snapshot of what the
// backend currently holds. Reconcile produces a Diff: the set of removals and
// insertions that brings the backend to the desired state with as few mutation
// commands as the capability mode allows.
//
// The diff is line-oriented. Within a line, desired items and existing records
// are matched by longest common prefix rather than full sequence alignment.
// This keeps a reconciliation pass linear in the input sizes and captures the
// dominant workload (mostly unchanged, position-stable spans re-sent after an
// edit). It is not a minimal edit-distance diff: an item inserted at the front
// of a line re-sends that line's tail. Callers needing a minimal diff must
// pre-align their desired sequence.
//
// Apply translates a Diff into an ordered batch of backend commands. All
// commands are queued into a single outbound batch before any response is
// awaited; the delete -> clear -> set order is fixed so a set for a line can
// never race a stale removal for the same line.
//
// Reconcile is pure and performs no I/O. A Diff is only valid against the
// snapshot it was computed from; callers must not run overlapping
// reconcile+apply cycles against the same document/namespace pair.
package highlight
