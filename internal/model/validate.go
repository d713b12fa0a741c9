package model

import (
	"fmt"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ValidateLevel checks a Level for suspicious content and returns a
// *ValidationError listing every finding, or nil. Findings are advisory:
// the loader still plays such levels and "ltr levels validate" reports them.
//
// A missing expected command is not a finding here: such a level can be
// shown but never solved.
func ValidateLevel(l *Level) error {
	var ve ValidationError

	if l.Number < 0 {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "number",
			Message: fmt.Sprintf("must not be negative, got %d", l.Number),
		})
	}

	if len([]rune(l.Title)) > 200 {
		ve.Errors = append(ve.Errors, FieldError{Field: "title", Message: "must be 200 characters or fewer"})
	}

	// An expected command made only of whitespace would never match anything
	// and almost certainly is a typo in the level file.
	if l.ExpectedCommand != nil && *l.ExpectedCommand != "" && strings.TrimSpace(*l.ExpectedCommand) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "expected_command", Message: "is blank"})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
