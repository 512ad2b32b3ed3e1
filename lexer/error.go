package lexer

import (
	"errors"
	"fmt"
)

// Error is raised for any unrecoverable lexical problem: bad indentation, an
// unterminated string/comment, or a stray character. The lexer never panics
// for these — it raises and halts, per spec.md §4.1.
type Error struct {
	Message  string
	Location SourceLocation
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Location.Line, e.Location.Column, e.Message)
}

// Is allows errors.Is to match two lexer errors with the same message and
// location, mirroring the vendored PGNError.Is pattern.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Message == t.Message && e.Location == t.Location
}

func newError(loc SourceLocation, format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Location: loc}
}
