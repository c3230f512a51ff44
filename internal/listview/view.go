package listview

// View is the derived, displayable sequence of a screen.
type View[T any] struct {
	Items []T
	// Total is the size of the unfiltered snapshot.
	Total int
}

// Len returns the number of visible records.
func (v View[T]) Len() int { return len(v.Items) }

// Empty reports that nothing passed the filter. There is no loading
// state: data is always local, so an empty view means "no matches".
func (v View[T]) Empty() bool { return len(v.Items) == 0 }

// ComputeView filters snap by filter and sorts the result by sort.
// It is pure: the same inputs always yield the same sequence, and snap
// is never modified.
func ComputeView[T any](schema *Schema[T], snap *Snapshot[T], filter FilterState, sort SortState) View[T] {
	m := newMatcher(schema, filter)
	items := make([]T, 0, snap.Len())
	for _, item := range snap.items {
		if m.match(item) {
			items = append(items, item)
		}
	}
	SortItems(schema, items, sort)
	return View[T]{Items: items, Total: snap.Len()}
}
