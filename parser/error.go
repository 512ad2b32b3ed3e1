package parser

import (
	"errors"
	"fmt"

	"github.com/walterschell/chesslang/lexer"
)

// Error reports a structural parse failure. The parser is single-pass and
// fails on the first one — it does not attempt recovery (spec.md §4.2).
type Error struct {
	Message  string
	Location lexer.SourceLocation
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Location.Line, e.Location.Column, e.Message)
}

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Message == t.Message && e.Location == t.Location
}
