package lang

import (
	"strconv"

	"github.com/sergev/minilisp/parser"
)

// ValueType enumerates the different runtime value categories.
type ValueType int

const (
	TypeInt ValueType = iota
	TypeBool
	TypeFunction
)

func (t ValueType) String() string {
	switch t {
	case TypeInt:
		return "integer"
	case TypeBool:
		return "boolean"
	case TypeFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Value represents any runtime object in the interpreter.
type Value struct {
	Type    ValueType
	payload interface{}
}

// Function is the value of a fun literal: its parameters and unevaluated body.
type Function struct {
	Params []string
	Body   parser.Expr
}

// IntValue constructs an integer Value.
func IntValue(i int64) Value {
	return Value{Type: TypeInt, payload: i}
}

// BoolValue returns the boolean Value equivalent.
func BoolValue(b bool) Value {
	return Value{Type: TypeBool, payload: b}
}

// FunctionValue wraps a function literal.
func FunctionValue(params []string, body parser.Expr) Value {
	return Value{
		Type:    TypeFunction,
		payload: &Function{Params: params, Body: body},
	}
}

func (v Value) Int() int64 {
	if i, ok := v.payload.(int64); ok {
		return i
	}
	return 0
}

func (v Value) Bool() bool {
	if b, ok := v.payload.(bool); ok {
		return b
	}
	return false
}

func (v Value) Function() *Function {
	if f, ok := v.payload.(*Function); ok {
		return f
	}
	return nil
}

func (v Value) String() string {
	switch v.Type {
	case TypeInt:
		return strconv.FormatInt(v.Int(), 10)
	case TypeBool:
		if v.Bool() {
			return "#t"
		}
		return "#f"
	case TypeFunction:
		return "#<function>"
	default:
		return "<unknown>"
	}
}
