package listview

import (
	"cmp"
	"fmt"
	"slices"

	"golang.org/x/text/collate"
)

// Direction is the order of a sorted list.
type Direction int

// Sort directions.
const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// SortState selects the sort field and direction. An empty Field keeps
// store order.
type SortState struct {
	Field     string
	Direction Direction
}

// Toggle returns the state after the user picks field: the same field
// flips direction, a new field starts ascending.
func (s SortState) Toggle(field string) SortState {
	if s.Field == field {
		if s.Direction == Ascending {
			s.Direction = Descending
		} else {
			s.Direction = Ascending
		}
		return s
	}
	return SortState{Field: field, Direction: Ascending}
}

// Compare orders a and b by the field named in state: -1, 0 or 1.
// Unknown fields compare equal.
func Compare[T any](schema *Schema[T], a, b T, state SortState) int {
	c, ok := newComparator(schema, state)
	if !ok {
		return 0
	}
	return c.compare(a, b)
}

// SortItems sorts items in place by state. Equal keys keep their order.
func SortItems[T any](schema *Schema[T], items []T, state SortState) {
	c, ok := newComparator(schema, state)
	if !ok {
		return
	}
	slices.SortStableFunc(items, c.compare)
}

func checkField[T any](schema *Schema[T], field string) error {
	if field == "" {
		return nil
	}
	if _, ok := schema.Fields[field]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// comparator is bound to one sort pass; collators are not safe for
// concurrent use.
type comparator[T any] struct {
	field    Field[T]
	desc     bool
	collator *collate.Collator
}

func newComparator[T any](schema *Schema[T], state SortState) (*comparator[T], bool) {
	field, ok := schema.Fields[state.Field]
	if !ok {
		return nil, false
	}
	return &comparator[T]{
		field:    field,
		desc:     state.Direction == Descending,
		collator: collate.New(schema.locale()),
	}, true
}

func (c *comparator[T]) compare(a, b T) int {
	r := c.compareValues(c.field(a), c.field(b))
	if c.desc {
		return -r
	}
	return r
}

func (c *comparator[T]) compareValues(a, b Value) int {
	if a.kind != b.kind {
		return cmp.Compare(a.kind, b.kind)
	}
	switch a.kind {
	case KindString:
		return c.collator.CompareString(a.str, b.str)
	case KindNumber:
		return cmp.Compare(a.num, b.num)
	case KindTime:
		return a.at.Compare(b.at)
	case KindBool:
		switch {
		case a.flag == b.flag:
			return 0
		case a.flag:
			return 1
		default:
			return -1
		}
	}
	return 0
}
