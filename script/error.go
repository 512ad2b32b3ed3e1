package script

import "fmt"

// Error is a ScriptError (spec.md §7): a parse failure caught at compile
// time, or a runtime failure inside a script body. Runtime errors are
// caught at the handler boundary by the engine, logged, and swallowed —
// they never corrupt engine state beyond whatever mutation the script
// already performed before failing (spec.md §7: "script effects that had
// begun are not transactional").
type Error struct {
	Message string
}

func (e *Error) Error() string { return "script: " + e.Message }

func errf(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}
