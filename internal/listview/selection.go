package listview

import "slices"

// Selection is an immutable set of picked ids, kept in the order they
// were picked.
type Selection struct {
	ids []string
}

// NewSelection builds a selection from ids, dropping duplicates.
func NewSelection(ids ...string) Selection {
	var s Selection
	for _, id := range ids {
		s = s.Select(id)
	}
	return s
}

// Has reports whether id is selected.
func (s Selection) Has(id string) bool {
	return slices.Contains(s.ids, id)
}

// Len returns the number of selected ids.
func (s Selection) Len() int { return len(s.ids) }

// IDs returns the selected ids in pick order.
func (s Selection) IDs() []string { return slices.Clone(s.ids) }

// Select returns a selection that includes id.
func (s Selection) Select(id string) Selection {
	if s.Has(id) {
		return s
	}
	ids := make([]string, 0, len(s.ids)+1)
	ids = append(ids, s.ids...)
	return Selection{ids: append(ids, id)}
}

// Deselect returns a selection without id.
func (s Selection) Deselect(id string) Selection {
	i := slices.Index(s.ids, id)
	if i < 0 {
		return s
	}
	return Selection{ids: slices.Concat(s.ids[:i], s.ids[i+1:])}
}

// Toggle flips the membership of id.
func (s Selection) Toggle(id string) Selection {
	if s.Has(id) {
		return s.Deselect(id)
	}
	return s.Select(id)
}
