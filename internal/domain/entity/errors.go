package entity

import "fmt"

// NoIndex marks a ValidationError that is not tied to a line item.
const NoIndex = -1

// ValidationError reports a rejected input value.
type ValidationError struct {
	Field  string
	Index  int
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Index == NoIndex {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("validation failed for items[%d].%s: %s", e.Index, e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for a field that is not part
// of a line item.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Index: NoIndex, Reason: reason}
}
