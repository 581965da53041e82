package lcov

import "fmt"

// FormatError represents a structural problem in the LCOV input: a record
// marker out of place or a numeric field that does not parse. A parse that
// hits a FormatError returns no model at all.
type FormatError struct {
	Message string
	Line    int // 1-indexed line number in the input, 0 if unknown
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("lcov: line %d: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("lcov: %s", e.Message)
}

// NotFoundError is returned when the input file does not exist or cannot
// be read.
type NotFoundError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("lcov: cannot read %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying I/O error.
func (e *NotFoundError) Unwrap() error {
	return e.Err
}
