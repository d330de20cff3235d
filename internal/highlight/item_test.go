package highlight

import (
	"reflect"
	"testing"
)

func TestItemEncode(t *testing.T) {
	it := Item{
		Group:     "DiagnosticError",
		Line:      12,
		StartCol:  4,
		EndCol:    19,
		Combine:   true,
		StartIncl: false,
		EndIncl:   true,
	}

	got := it.Encode()
	want := []any{"DiagnosticError", uint32(12), uint32(4), uint32(19), 1, 0, 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Encode() = %v, want %v", got, want)
	}
}

func TestItemSameSpan(t *testing.T) {
	base := item("G", 3, 2, 8)

	tests := []struct {
		name string
		rec  Record
		want bool
	}{
		{"identical", rec("G", 3, 2, 8, 99), true},
		{"different group", rec("H", 3, 2, 8, 99), false},
		{"different line", rec("G", 4, 2, 8, 99), false},
		{"different start", rec("G", 3, 1, 8, 99), false},
		{"different end", rec("G", 3, 2, 9, 99), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.SameSpan(tt.rec); got != tt.want {
				t.Errorf("SameSpan(%+v) = %v, want %v", tt.rec, got, tt.want)
			}
		})
	}
}

func TestItemSameSpanIgnoresFlags(t *testing.T) {
	it := Item{Group: "G", Line: 0, StartCol: 0, EndCol: 1, Combine: true, StartIncl: true, EndIncl: true}
	if !it.SameSpan(rec("G", 0, 0, 1, 5)) {
		t.Error("flags must not participate in span equality")
	}
}

func TestRegion(t *testing.T) {
	r := NewRegion(2, 5)

	if r.Contains(1) {
		t.Error("line 1 should be outside [2,5)")
	}
	if !r.Contains(2) {
		t.Error("line 2 should be inside [2,5)")
	}
	if !r.Contains(4) {
		t.Error("line 4 should be inside [2,5)")
	}
	if r.Contains(5) {
		t.Error("line 5 should be outside [2,5)")
	}

	var none *Region
	if !none.Contains(42) {
		t.Error("nil region contains every line")
	}

	swapped := NewRegion(5, 2)
	if swapped.Start != 2 || swapped.End != 5 {
		t.Errorf("NewRegion(5,2) = [%d,%d), want [2,5)", swapped.Start, swapped.End)
	}
}

func TestDiffEmpty(t *testing.T) {
	if !(Diff{}).Empty() {
		t.Error("zero diff should be empty")
	}
	if (Diff{RemoveLines: []uint32{1}}).Empty() {
		t.Error("diff with line removals is not empty")
	}
	if (Diff{RemoveMarkers: []uint64{1}}).Empty() {
		t.Error("diff with marker removals is not empty")
	}
	if (Diff{Add: []Item{{}}}).Empty() {
		t.Error("diff with additions is not empty")
	}
}
