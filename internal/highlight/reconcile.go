package highlight

import "sort"

// Reconcile compares the desired items against a snapshot of the backend's
// current records and returns the mutation set that brings the backend to the
// desired state.
//
// desired need not be pre-sorted; a copy is stably sorted by line, so the
// relative order of items on the same line is preserved and significant for
// positional matching. current must be the backend-reported records for the
// document (in backend-reported order within each line).
//
// region, when non-nil, restricts the scan window to [region.Start,
// region.End): lines outside it are never placed in RemoveLines or
// RemoveMarkers. Callers are expected to filter desired items to the region
// themselves; out-of-region items are not matched and surface, if at all,
// through the unconsumed tail.
//
// markerCapable selects the removal granularity: per-record marker deletion
// when true, whole-line clears when false. On the line-granular path a line
// is a no-op only when every existing record matches the desired item at the
// same position; any mismatch clears the line and re-adds all of its items,
// since a line clear destroys every entry on it.
func Reconcile(desired []Item, current []Record, region *Region, markerCapable bool) Diff {
	items := make([]Item, len(desired))
	copy(items, desired)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Line < items[j].Line })

	byLine := make(map[uint32][]Record, len(current))
	var maxLine uint32
	for _, r := range current {
		byLine[r.Line] = append(byLine[r.Line], r)
		if r.Line > maxLine {
			maxLine = r.Line
		}
	}

	var d Diff
	cursor := 0

	start, end, scan := scanWindow(region, maxLine, len(current) > 0)
	for i := start; scan; i++ {
		existing := byLine[i]

		// Maximal run of desired items on line i. The cursor only moves
		// forward; the whole pass is linear in |desired| + |current|.
		from := cursor
		for cursor < len(items) && items[cursor].Line == i {
			cursor++
		}
		added := items[from:cursor]

		switch {
		case len(added) == 0 && len(existing) > 0:
			// Stale entries with nothing desired on the line.
			if markerCapable {
				for _, r := range existing {
					d.RemoveMarkers = append(d.RemoveMarkers, r.Marker)
				}
			} else {
				d.RemoveLines = append(d.RemoveLines, i)
			}

		case len(added) > 0 && len(existing) == 0:
			d.Add = append(d.Add, added...)

		case len(added) > 0 && len(existing) > 0:
			k := matchedPrefix(existing, added)
			if markerCapable {
				for _, r := range existing[k:] {
					d.RemoveMarkers = append(d.RemoveMarkers, r.Marker)
				}
				d.Add = append(d.Add, added[k:]...)
			} else if k == len(existing) && k == len(added) {
				// Every position matches: true no-op for this line.
			} else {
				d.RemoveLines = append(d.RemoveLines, i)
				d.Add = append(d.Add, added...)
			}
		}

		if i == end {
			break
		}
	}

	// Whatever the cursor did not consume has no current state to match
	// against; append it in original order.
	d.Add = append(d.Add, items[cursor:]...)
	return d
}

// scanWindow resolves the inclusive line range [start, end] to scan, clamped
// to the region when one is given. scan is false when there is nothing to
// walk: no current records, an empty region, or a region past the last
// reported line.
func scanWindow(region *Region, maxLine uint32, haveCurrent bool) (start, end uint32, scan bool) {
	if !haveCurrent {
		return 0, 0, false
	}
	end = maxLine
	if region != nil {
		if region.End <= region.Start {
			return 0, 0, false
		}
		start = region.Start
		if region.End-1 < end {
			end = region.End - 1
		}
	}
	if start > end {
		return 0, 0, false
	}
	return start, end, true
}

// matchedPrefix returns the length of the longest leading run where the
// existing records and desired items agree under span equality.
func matchedPrefix(existing []Record, added []Item) int {
	k := 0
	for k < len(existing) && k < len(added) && added[k].SameSpan(existing[k]) {
		k++
	}
	return k
}
