package wire

import "fmt"

// ParseError reports a wire payload field that could not be converted to its
// domain representation. It is distinct from a field being legitimately absent.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
