package highlight

// Diff is the computed mutation set that brings backend state to the desired
// state. It is a value created per reconciliation call and consumed once; it
// carries no reference back to the snapshot it was computed from.
type Diff struct {
	// RemoveLines lists lines whose entries must be cleared wholesale.
	// Populated only when the backend is not marker capable.
	RemoveLines []uint32

	// RemoveMarkers lists individual entries to delete by marker.
	// Populated only when the backend is marker capable.
	RemoveMarkers []uint64

	// Add lists the items to create, in the desired sequence's original
	// relative order.
	Add []Item
}

// Empty reports whether the diff contains no mutations at all.
// Applying an empty diff issues zero backend commands.
func (d Diff) Empty() bool {
	return len(d.RemoveLines) == 0 && len(d.RemoveMarkers) == 0 && len(d.Add) == 0
}
