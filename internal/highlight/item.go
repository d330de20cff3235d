package highlight

// Item is one desired highlight span on one line.
type Item struct {
	// Group is the opaque style identifier understood by the backend.
	Group string

	// Line is the 0-indexed line number.
	Line uint32

	// StartCol is the starting column (inclusive).
	StartCol uint32

	// EndCol is the ending column (exclusive).
	EndCol uint32

	// Combine merges this span's attributes with highlights beneath it.
	Combine bool

	// StartIncl extends the span when text is inserted at its start.
	StartIncl bool

	// EndIncl extends the span when text is inserted at its end.
	EndIncl bool
}

// Record is one highlight entry as reported by the backend.
// Marker is the backend-assigned removal token; it carries no other meaning.
type Record struct {
	Group    string
	Line     uint32
	StartCol uint32
	EndCol   uint32
	Marker   uint64
}

// SameSpan reports whether the item and record describe the same span.
// Only group, line and the column bounds participate; the combine and
// inclusivity flags are not compared. A flag-only change therefore looks
// like a no-op to the reconciler on the line-granular path.
func (it Item) SameSpan(r Record) bool {
	return it.Group == r.Group &&
		it.Line == r.Line &&
		it.StartCol == r.StartCol &&
		it.EndCol == r.EndCol
}

// Encode returns the positional wire record for a set-entries command:
// [group, line, startCol, endCol, combine, startIncl, endIncl] with the
// booleans encoded as 0/1. The field order and boolean encoding match the
// backend's parser and must not change.
func (it Item) Encode() []any {
	return []any{
		it.Group,
		it.Line,
		it.StartCol,
		it.EndCol,
		b2i(it.Combine),
		b2i(it.StartIncl),
		b2i(it.EndIncl),
	}
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Region is a half-open line interval [Start, End) limiting the lines a
// reconciliation pass may touch. A nil *Region means no restriction.
type Region struct {
	Start uint32
	End   uint32
}

// NewRegion creates a region covering [start, end).
func NewRegion(start, end uint32) *Region {
	if end < start {
		start, end = end, start
	}
	return &Region{Start: start, End: end}
}

// Contains reports whether the line falls inside the region.
func (r *Region) Contains(line uint32) bool {
	if r == nil {
		return true
	}
	return line >= r.Start && line < r.End
}
