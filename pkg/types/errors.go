package types

import (
	"errors"
	"fmt"
)

// ErrFormat matches every *FormatError via errors.Is.
var ErrFormat = errors.New("invalid shop map format")

// FormatError reports malformed or structurally invalid exchange data.
type FormatError struct {
	Reason string // What was wrong, e.g. "expected 60 slots, got 59".
	Err    error  // Underlying decode error, if any.
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrFormat, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrFormat, e.Reason)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrFormat) true for any FormatError.
func (e *FormatError) Is(target error) bool { return target == ErrFormat }
