package listview

import (
	"strings"

	"golang.org/x/text/cases"
)

// All disables the category or status constraint. The comparison is
// case-insensitive, so "all" and "All" are equivalent.
const All = "All"

// TabAll disables the tab constraint.
const TabAll = "all"

// FilterState is the user-controlled filter of a screen.
type FilterState struct {
	Search   string
	Category string
	Status   string
	Tab      string
}

// DefaultFilter returns the filter a screen starts with.
func DefaultFilter() FilterState {
	return FilterState{Category: All, Status: All, Tab: TabAll}
}

// FilterPatch changes selected parts of a FilterState. Nil fields are kept.
type FilterPatch struct {
	Search   *string
	Category *string
	Status   *string
	Tab      *string
}

// Apply returns a copy of f with the patch applied.
func (f FilterState) Apply(p FilterPatch) FilterState {
	if p.Search != nil {
		f.Search = *p.Search
	}
	if p.Category != nil {
		f.Category = *p.Category
	}
	if p.Status != nil {
		f.Status = *p.Status
	}
	if p.Tab != nil {
		f.Tab = *p.Tab
	}
	return f
}

// Matches reports whether item passes every active predicate of state.
func Matches[T any](schema *Schema[T], item T, state FilterState) bool {
	return newMatcher(schema, state).match(item)
}

// matcher holds a FilterState normalized once for a whole pass.
// Not safe for concurrent use.
type matcher[T any] struct {
	schema   *Schema[T]
	caser    cases.Caser
	term     string
	category string
	status   string
	tab      string
}

func newMatcher[T any](schema *Schema[T], state FilterState) *matcher[T] {
	m := &matcher[T]{schema: schema, caser: cases.Fold()}
	m.term = m.fold(strings.TrimSpace(state.Search))
	m.category = m.constraint(state.Category)
	m.status = m.constraint(state.Status)
	m.tab = m.constraint(state.Tab)
	return m
}

func (m *matcher[T]) fold(s string) string {
	return m.caser.String(s)
}

// constraint folds v, mapping "" and "all" to the empty (inactive) constraint.
func (m *matcher[T]) constraint(v string) string {
	v = m.fold(strings.TrimSpace(v))
	if v == m.fold(All) {
		return ""
	}
	return v
}

// match evaluates the O(1) predicates before the substring scan.
func (m *matcher[T]) match(item T) bool {
	return m.matchTab(item) &&
		m.matchCategory(item) &&
		m.matchStatus(item) &&
		m.matchSearch(item)
}

func (m *matcher[T]) matchTab(item T) bool {
	if m.tab == "" {
		return true
	}
	if pred, ok := m.schema.Tabs[m.tab]; ok {
		return pred(item)
	}
	return m.fold(m.schema.status(item)) == m.tab
}

func (m *matcher[T]) matchCategory(item T) bool {
	return m.category == "" || m.fold(m.schema.category(item)) == m.category
}

func (m *matcher[T]) matchStatus(item T) bool {
	return m.status == "" || m.fold(m.schema.status(item)) == m.status
}

func (m *matcher[T]) matchSearch(item T) bool {
	if m.term == "" {
		return true
	}
	for _, field := range m.schema.Search {
		if strings.Contains(m.fold(field(item)), m.term) {
			return true
		}
	}
	return false
}
