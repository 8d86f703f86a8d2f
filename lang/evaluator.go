package lang

import (
	"fmt"
	"io"
	"os"

	"github.com/sergev/minilisp/parser"
)

// DefaultMaxDepth bounds nested evaluation unless overridden with WithMaxDepth.
const DefaultMaxDepth = 10000

// Evaluator executes minilisp programs. It owns the environment for the
// whole run and is not safe for concurrent use.
type Evaluator struct {
	Env *Env

	out      io.Writer
	maxDepth int
	depth    int
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithOutput directs print-num and print-bool output to w.
func WithOutput(w io.Writer) Option {
	return func(ev *Evaluator) {
		ev.out = w
	}
}

// WithMaxDepth sets the evaluation depth limit; 0 disables the check.
func WithMaxDepth(n int) Option {
	return func(ev *Evaluator) {
		ev.maxDepth = n
	}
}

// NewEvaluator constructs an evaluator with an empty environment.
func NewEvaluator(opts ...Option) *Evaluator {
	ev := &Evaluator{
		Env:      NewEnv(),
		out:      os.Stdout,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(ev)
	}
	return ev
}

// Run executes every statement of the program in order.
func (ev *Evaluator) Run(prog *parser.Program) error {
	return ev.ExecAll(prog.Stmts)
}

// ExecAll executes statements in order and stops at the first failure.
func (ev *Evaluator) ExecAll(stmts []parser.Stmt) error {
	for _, stmt := range stmts {
		if _, err := ev.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Exec executes a single top-level statement and returns the value it computed.
func (ev *Evaluator) Exec(stmt parser.Stmt) (Value, error) {
	ev.depth = 0
	switch s := stmt.(type) {
	case *parser.DefineStmt:
		val, err := ev.eval(s.Value)
		if err != nil {
			return Value{}, err
		}
		ev.Env.Define(s.Name.Name, val)
		return val, nil
	case *parser.PrintStmt:
		return ev.execPrint(s)
	case *parser.ExprStmt:
		return ev.eval(s.Expr)
	default:
		return Value{}, fmt.Errorf("unsupported statement %T", stmt)
	}
}

// Eval evaluates an expression against the current environment.
func (ev *Evaluator) Eval(expr parser.Expr) (Value, error) {
	ev.depth = 0
	return ev.eval(expr)
}

func (ev *Evaluator) execPrint(s *parser.PrintStmt) (Value, error) {
	val, err := ev.eval(s.Value)
	if err != nil {
		return Value{}, err
	}
	want := TypeInt
	if s.Kind == parser.PrintBool {
		want = TypeBool
	}
	if val.Type != want {
		return Value{}, errorf(ErrType, s, "%s expects %s, got %s", s.Kind, want, val.Type)
	}
	if _, err := fmt.Fprintln(ev.out, val.String()); err != nil {
		return Value{}, fmt.Errorf("%s: %w", s.Kind, err)
	}
	return val, nil
}

func (ev *Evaluator) eval(expr parser.Expr) (Value, error) {
	ev.depth++
	defer func() { ev.depth-- }()
	if ev.maxDepth > 0 && ev.depth > ev.maxDepth {
		return Value{}, errorf(ErrRecursionLimit, expr, "evaluation nested deeper than %d", ev.maxDepth)
	}

	switch e := expr.(type) {
	case *parser.NumberExpr:
		return IntValue(e.Value), nil
	case *parser.BoolExpr:
		return BoolValue(e.Value), nil
	case *parser.IdentifierExpr:
		val, ok := ev.Env.Get(e.Name)
		if !ok {
			return Value{}, errorf(ErrUndefinedName, e, "%s", e.Name)
		}
		return val, nil
	case *parser.BinaryExpr:
		return ev.evalBinary(e)
	case *parser.LogicalExpr:
		return ev.evalLogical(e)
	case *parser.IfExpr:
		return ev.evalIf(e)
	case *parser.FunExpr:
		return FunctionValue(e.Params, e.Body), nil
	case *parser.CallExpr:
		return ev.evalCall(e)
	default:
		return Value{}, fmt.Errorf("unsupported expression %T", expr)
	}
}

// evalList evaluates expressions left to right.
func (ev *Evaluator) evalList(exprs []parser.Expr) ([]Value, error) {
	vals := make([]Value, len(exprs))
	for i, expr := range exprs {
		val, err := ev.eval(expr)
		if err != nil {
			return nil, err
		}
		vals[i] = val
	}
	return vals, nil
}

func (ev *Evaluator) evalBinary(e *parser.BinaryExpr) (Value, error) {
	left, err := ev.eval(e.Left)
	if err != nil {
		return Value{}, err
	}
	right, err := ev.evalList(e.Right)
	if err != nil {
		return Value{}, err
	}
	nums, err := expectInts(e, append([]Value{left}, right...))
	if err != nil {
		return Value{}, err
	}
	a, rest := nums[0], nums[1:]

	switch e.Op {
	case parser.TokenPlus:
		var sum int64
		for _, n := range rest {
			sum += n
		}
		return IntValue(a + sum), nil
	case parser.TokenStar:
		product := int64(1)
		for _, n := range rest {
			product *= n
		}
		return IntValue(a * product), nil
	case parser.TokenEqual:
		for _, n := range rest {
			if n != a {
				return BoolValue(false), nil
			}
		}
		return BoolValue(true), nil
	}

	b := rest[0]
	switch e.Op {
	case parser.TokenMinus:
		return IntValue(a - b), nil
	case parser.TokenSlash:
		if b == 0 {
			return Value{}, errorf(ErrArithmetic, e, "division by zero")
		}
		return IntValue(floorDiv(a, b)), nil
	case parser.TokenMod:
		if b == 0 {
			return Value{}, errorf(ErrArithmetic, e, "modulo by zero")
		}
		return IntValue(floorMod(a, b)), nil
	case parser.TokenGreater:
		return BoolValue(a > b), nil
	case parser.TokenLess:
		return BoolValue(a < b), nil
	default:
		return Value{}, fmt.Errorf("unsupported operator %s", e.Op)
	}
}

func expectInts(e *parser.BinaryExpr, vals []Value) ([]int64, error) {
	nums := make([]int64, len(vals))
	for i, val := range vals {
		if val.Type != TypeInt {
			return nil, errorf(ErrType, e, "%s expects integers, operand %d is %s", e.Op, i+1, val.Type)
		}
		nums[i] = val.Int()
	}
	return nums, nil
}

// floorDiv rounds the quotient toward negative infinity.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// floorMod returns a result with the sign of the divisor.
func floorMod(a, b int64) int64 {
	r := a % b
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r
}

// evalLogical evaluates every operand before reducing; and/or never short-circuit.
func (ev *Evaluator) evalLogical(e *parser.LogicalExpr) (Value, error) {
	vals, err := ev.evalList(e.Operands)
	if err != nil {
		return Value{}, err
	}
	bools := make([]bool, len(vals))
	for i, val := range vals {
		if val.Type != TypeBool {
			return Value{}, errorf(ErrType, e, "%s expects booleans, operand %d is %s", e.Op, i+1, val.Type)
		}
		bools[i] = val.Bool()
	}

	switch e.Op {
	case parser.TokenAnd:
		result := true
		for _, b := range bools {
			result = result && b
		}
		return BoolValue(result), nil
	case parser.TokenOr:
		result := false
		for _, b := range bools {
			result = result || b
		}
		return BoolValue(result), nil
	case parser.TokenNot:
		return BoolValue(!bools[0]), nil
	default:
		return Value{}, fmt.Errorf("unsupported operator %s", e.Op)
	}
}

// evalIf evaluates the condition and both branches, then selects one.
func (ev *Evaluator) evalIf(e *parser.IfExpr) (Value, error) {
	vals, err := ev.evalList([]parser.Expr{e.Cond, e.Then, e.Else})
	if err != nil {
		return Value{}, err
	}
	cond := vals[0]
	if cond.Type != TypeBool {
		return Value{}, errorf(ErrType, e.Cond, "if condition must be boolean, got %s", cond.Type)
	}
	if cond.Bool() {
		return vals[1], nil
	}
	return vals[2], nil
}

func (ev *Evaluator) evalCall(e *parser.CallExpr) (Value, error) {
	args, err := ev.evalList(e.Args)
	if err != nil {
		return Value{}, err
	}

	var fn *Function
	switch callee := e.Callee.(type) {
	case *parser.FunExpr:
		fn = &Function{Params: callee.Params, Body: callee.Body}
	case *parser.IdentifierExpr:
		val, ok := ev.Env.Get(callee.Name)
		if !ok {
			return Value{}, errorf(ErrUndefinedFunction, callee, "%s", callee.Name)
		}
		if val.Type != TypeFunction {
			return Value{}, errorf(ErrUndefinedFunction, callee, "%s is %s, not a function", callee.Name, val.Type)
		}
		fn = val.Function()
	default:
		return Value{}, fmt.Errorf("unsupported callee %T", e.Callee)
	}

	if len(args) != len(fn.Params) {
		return Value{}, errorf(ErrArity, e, "function expects %d arguments, got %d", len(fn.Params), len(args))
	}

	return ev.apply(fn, args)
}

// apply evaluates the body against a table holding only the parameters,
// then reinstates the caller's table.
func (ev *Evaluator) apply(fn *Function, args []Value) (Value, error) {
	frame := make(Bindings, len(fn.Params))
	for i, name := range fn.Params {
		frame[name] = args[i]
	}
	saved := ev.Env.Install(frame)
	defer ev.Env.Restore(saved)
	return ev.eval(fn.Body)
}
