package compiler

import "fmt"

// Error reports a semantic failure discovered after parsing: an unresolved
// `extends`, a dangling named-pattern reference, a malformed setup
// placement (spec.md §4.3).
type Error struct {
	Message string
}

func (e *Error) Error() string { return "compile: " + e.Message }

func errf(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}
