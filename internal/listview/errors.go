package listview

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by stores and controllers.
var (
	ErrNotFound     = errors.New("entity not found")
	ErrDuplicateID  = errors.New("entity id already used")
	ErrUnknownField = errors.New("unknown sort field")
	ErrUnsupported  = errors.New("operation not supported by this list")
	ErrIDChanged    = errors.New("collaborator changed the record id")
)

// Problem is one unmet constraint of a validation failure.
type Problem struct {
	Field string
	Rule  string
}

// ValidationError lists every unmet constraint of a rejected input.
type ValidationError struct {
	Problems []Problem
}

// Error implements error.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, fmt.Sprintf("%s: %s", p.Field, p.Rule))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a problem and returns the receiver.
func (e *ValidationError) Add(field, rule string) *ValidationError {
	e.Problems = append(e.Problems, Problem{Field: field, Rule: rule})
	return e
}

// OrNil returns nil when no problems were recorded.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Problems) == 0 {
		return nil
	}
	return e
}
