package parser

import (
	"errors"
	"fmt"
)

// ErrSyntax is the kind shared by every lexer and parser failure.
var ErrSyntax = errors.New("syntax error")

// Error represents a parser error with optional metadata.
type Error struct {
	Pos        Position
	Msg        string
	Incomplete bool
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s at %d:%d: %s", ErrSyntax, e.Pos.Line, e.Pos.Column, e.Msg)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return ErrSyntax
}

func newError(pos Position, format string, args ...interface{}) error {
	return &Error{
		Pos: pos,
		Msg: fmt.Sprintf(format, args...),
	}
}

func newIncompleteError(pos Position, format string, args ...interface{}) error {
	return &Error{
		Pos:        pos,
		Msg:        fmt.Sprintf(format, args...),
		Incomplete: true,
	}
}

// IsIncomplete reports whether the supplied error represents incomplete input.
func IsIncomplete(err error) bool {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Incomplete
	}
	return false
}
