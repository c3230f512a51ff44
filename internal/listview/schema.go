// Package listview implements the filterable, sortable list behind every
// dashboard screen: an immutable entity store, a conjunctive filter, a stable
// field comparator and the controller composing them.
package listview

import (
	"time"

	"golang.org/x/text/language"
)

// Kind is the type of a sortable field value.
type Kind int

// Supported value kinds.
const (
	KindString Kind = iota
	KindNumber
	KindTime
	KindBool
)

// Value is a single field value read from an entity.
type Value struct {
	kind Kind
	str  string
	num  float64
	at   time.Time
	flag bool
}

// String wraps a text value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number wraps a numeric value.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Time wraps an instant. Zero times sort first.
func Time(t time.Time) Value { return Value{kind: KindTime, at: t} }

// Bool wraps a flag. false sorts before true.
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// Kind reports the value's kind.
func (v Value) Kind() Kind { return v.kind }

// Field reads one sortable value from an entity.
type Field[T any] func(T) Value

// Schema tells the list how to read a record type T.
type Schema[T any] struct {
	// ID returns the unique, immutable identifier of a record.
	ID func(T) string
	// Status returns the record's status. Optional.
	Status func(T) string
	// Category returns the record's category. Optional.
	Category func(T) string
	// Search lists the fields matched by the search term.
	Search []func(T) string
	// Fields maps sortable field names to their readers.
	Fields map[string]Field[T]
	// Tabs maps lowercase tab names to their predicates. A tab that is not
	// listed here matches records whose status equals the tab name.
	Tabs map[string]func(T) bool
	// Statuses is the status vocabulary accepted by SetStatus.
	Statuses []string
	// WithStatus returns a copy of the record carrying the given status.
	WithStatus func(T, string) T
	// MarkRead returns a copy of the record flagged as read.
	MarkRead func(T) T
	// IsUnread reports whether a record still needs attention.
	IsUnread func(T) bool
	// Locale drives string collation. Defaults to English.
	Locale language.Tag
}

func (s *Schema[T]) status(item T) string {
	if s.Status == nil {
		return ""
	}
	return s.Status(item)
}

func (s *Schema[T]) category(item T) string {
	if s.Category == nil {
		return ""
	}
	return s.Category(item)
}

func (s *Schema[T]) locale() language.Tag {
	if s.Locale == language.Und {
		return language.English
	}
	return s.Locale
}
