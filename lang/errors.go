package lang

import (
	"errors"
	"fmt"

	"github.com/sergev/minilisp/parser"
)

// Runtime failure kinds. Match them with errors.Is.
var (
	ErrUndefinedName     = errors.New("undefined name")
	ErrUndefinedFunction = errors.New("undefined function")
	ErrArity             = errors.New("arity mismatch")
	ErrType              = errors.New("type error")
	ErrArithmetic        = errors.New("arithmetic error")
	ErrRecursionLimit    = errors.New("recursion limit exceeded")
)

// Error is a runtime failure located at the node that raised it.
type Error struct {
	Kind error
	Pos  parser.Position
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%d:%d: %s: %s", e.Pos.Line, e.Pos.Column, e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Kind
}

func errorf(kind error, node parser.Node, format string, args ...interface{}) error {
	return &Error{
		Kind: kind,
		Pos:  node.Pos(),
		Msg:  fmt.Sprintf(format, args...),
	}
}
