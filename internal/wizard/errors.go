package wizard

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotApplicable is returned when an action does not apply to the
	// current phase. The state is returned unchanged.
	ErrNotApplicable = errors.New("action not applicable in current phase")
	ErrEmptyCatalog  = errors.New("catalog returned no questions")
	ErrNoOptions     = errors.New("no options available for a choice question")
)

const (
	FieldValue   = "value"
	FieldComment = "comment"
)

// ValidationError carries per-field failure reasons. It blocks step
// advancement only.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func fieldError(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}
