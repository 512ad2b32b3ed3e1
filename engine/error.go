package engine

import "fmt"

// Error is an EngineError (spec.md §7): an illegal move, an invalid undo,
// or an unknown optional-trigger id. It never mutates engine state —
// callers see `{ success: false, reason }` and the board is untouched.
type Error struct {
	Message string
}

func (e *Error) Error() string { return "engine: " + e.Message }

func errf(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}
