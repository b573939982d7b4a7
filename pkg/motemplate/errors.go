package motemplate

import (
	"errors"
	"fmt"
)

// ParseError is the error returned when template source cannot be compiled.
// Compilation stops at the first malformed construct; there is no recovery.
type ParseError struct {
	Message string
	Line    int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s (line %d)", e.Message, e.Line)
}

// NewParseError creates a parse error at the given 1-based source line.
func NewParseError(message string, line int) error {
	return &ParseError{
		Message: message,
		Line:    line,
	}
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
