package model

import "fmt"

// ShapeError reports that an expression exists but does not match the
// structure an accessor expects (e.g. Params is not a slice literal).
// It is always surfaced to the caller, never silently coerced: a file
// outside the supported dialect must not be edited.
type ShapeError struct {
	Field string // field name, empty when the whole expression is at fault
	Want  string
	Got   string
}

func (e *ShapeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("unexpected shape: want %s, got %s", e.Want, e.Got)
	}
	return fmt.Sprintf("field %s: want %s, got %s", e.Field, e.Want, e.Got)
}

// NewShapeError builds a ShapeError for the given field.
func NewShapeError(field, want, got string) *ShapeError {
	return &ShapeError{Field: field, Want: want, Got: got}
}

// ParseError reports that a file's contents failed to parse, either on
// initial load or after an edit. A post-edit parse failure is fatal for
// the file: partial output is never written.
type ParseError struct {
	Path Path
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
