package lang

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sergev/minilisp/parser"
)

func runProgram(t *testing.T, src string, opts ...Option) (string, error) {
	t.Helper()
	prog, err := parser.Parse(src)
	require.NoError(t, err, "parse %q", src)
	var out bytes.Buffer
	ev := NewEvaluator(append([]Option{WithOutput(&out)}, opts...)...)
	err = ev.Run(prog)
	return out.String(), err
}

func evalString(t *testing.T, ev *Evaluator, src string) (Value, error) {
	t.Helper()
	toks, err := parser.Tokenize(src)
	require.NoError(t, err)
	stmt, err := parser.ParseStatement(toks)
	require.NoError(t, err)
	return ev.Exec(stmt)
}

func TestEndToEndPrograms(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"(print-num (+ 1 2 3))", "6\n"},
		{"(print-bool (> 3 2))", "#t\n"},
		{"(define x 10)\n(print-num (* x 2))", "20\n"},
		{"(print-num ((fun (a b) (+ a b)) 3 4))", "7\n"},
		{"(print-bool (and #t #t #f))", "#f\n"},
	}
	for _, tt := range tests {
		out, err := runProgram(t, tt.src)
		require.NoError(t, err, tt.src)
		assert.Equal(t, tt.want, out, tt.src)
	}
}

func TestArityMismatchProducesNoOutput(t *testing.T) {
	out, err := runProgram(t, "((fun (a) a) 1 2)")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrArity), "got %v", err)
	assert.Empty(t, out)

	_, err = runProgram(t, "(define f (fun (a b) a)) (f 1)")
	assert.True(t, errors.Is(err, ErrArity), "got %v", err)
}

func TestArithmeticProperties(t *testing.T) {
	samples := []int64{-17, -7, -3, -1, 0, 1, 2, 5, 9, 100}
	ev := NewEvaluator()
	for _, a := range samples {
		for _, b := range samples {
			check := func(op string, want int64) {
				val, err := evalString(t, ev, fmt.Sprintf("(%s %d %d)", op, a, b))
				require.NoError(t, err)
				assert.Equal(t, want, val.Int(), "(%s %d %d)", op, a, b)
			}
			check("+", a+b)
			check("*", a*b)
			check("-", a-b)
			if b == 0 {
				continue
			}
			q := int64(math.Floor(float64(a) / float64(b)))
			check("/", q)
			m := a - b*q
			check("mod", m)
			if m != 0 {
				assert.Equal(t, b < 0, m < 0, "(mod %d %d) = %d must take the divisor's sign", a, b, m)
			}
		}
	}
}

func TestDivisionByZero(t *testing.T) {
	for _, src := range []string{"(/ 1 0)", "(mod 5 0)"} {
		_, err := runProgram(t, src)
		assert.True(t, errors.Is(err, ErrArithmetic), "%s: got %v", src, err)
	}
}

func TestVariadicOperators(t *testing.T) {
	ev := NewEvaluator()
	tests := []struct {
		src  string
		want string
	}{
		{"(+ 1 2 3 4)", "10"},
		{"(* 1 2 3 4)", "24"},
		{"(= 3 3 3)", "#t"},
		{"(= 3 3 4)", "#f"},
		{"(= 3 4 3)", "#f"},
		{"(= 3 3)", "#t"},
		{"(and #t #t)", "#t"},
		{"(and #t #f #t)", "#f"},
		{"(or #f #f)", "#f"},
		{"(or #f #f #t)", "#t"},
		{"(not #t)", "#f"},
		{"(> 2 3)", "#f"},
		{"(< 2 3)", "#t"},
	}
	for _, tt := range tests {
		val, err := evalString(t, ev, tt.src)
		require.NoError(t, err, tt.src)
		assert.Equal(t, tt.want, val.String(), tt.src)
	}
}

func TestLogicalOperandsAreAllEvaluated(t *testing.T) {
	// A later operand that fails proves it was evaluated even though the
	// result was already decided.
	for _, src := range []string{
		"(and #f undefined-later)",
		"(or #t undefined-later)",
	} {
		_, err := runProgram(t, src)
		assert.True(t, errors.Is(err, ErrUndefinedName), "%s: got %v", src, err)
	}
	_, err := runProgram(t, "(and #f (+ #t 1))")
	assert.True(t, errors.Is(err, ErrType), "got %v", err)
}

func TestIfEvaluatesBothBranches(t *testing.T) {
	_, err := runProgram(t, "(if #t 1 missing)")
	assert.True(t, errors.Is(err, ErrUndefinedName), "got %v", err)

	_, err = runProgram(t, "(if #f (/ 1 0) 2)")
	assert.True(t, errors.Is(err, ErrArithmetic), "got %v", err)

	out, err := runProgram(t, "(print-num (if (> 1 2) 10 20))")
	require.NoError(t, err)
	assert.Equal(t, "20\n", out)
}

func TestTypeErrors(t *testing.T) {
	for _, src := range []string{
		"(+ 1 #t)",
		"(- #f 1)",
		"(> 1 (fun () 1))",
		"(= #t #t)",
		"(and 1 #t)",
		"(not 0)",
		"(if 1 2 3)",
		"(print-num #t)",
		"(print-bool 1)",
	} {
		_, err := runProgram(t, src)
		assert.True(t, errors.Is(err, ErrType), "%s: got %v", src, err)
	}
}

func TestFunctionBodyDoesNotSeeDefiningScope(t *testing.T) {
	out, err := runProgram(t, `
(define y 5)
(define add-y (fun (x) (+ x y)))
(print-num 1)
(print-num (add-y 1))
`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUndefinedName), "got %v", err)
	assert.Equal(t, "1\n", out)

	out, err = runProgram(t, `
(define y 5)
(define add (fun (x y) (+ x y)))
(print-num (add 1 y))
`)
	require.NoError(t, err)
	assert.Equal(t, "6\n", out)
}

func TestNestedCallsLoseOuterParameters(t *testing.T) {
	// inner is looked up from the parameter table of outer, where it is absent.
	_, err := runProgram(t, `
(define inner (fun (n) (+ n 1)))
(define outer (fun (n) (inner n)))
(outer 1)
`)
	assert.True(t, errors.Is(err, ErrUndefinedFunction), "got %v", err)

	// Passing the function in as a parameter makes it reachable.
	out, err := runProgram(t, `
(define inner (fun (n) (+ n 1)))
(define outer (fun (g n) (* 2 (g n))))
(print-num (outer inner 4))
`)
	require.NoError(t, err)
	assert.Equal(t, "10\n", out)
}

func TestCallRestoresCallerEnvironment(t *testing.T) {
	ev := NewEvaluator(WithOutput(&bytes.Buffer{}))
	_, err := evalString(t, ev, "(define x 1)")
	require.NoError(t, err)
	_, err = evalString(t, ev, "((fun (x) (+ x 100)) 7)")
	require.NoError(t, err)
	val, err := evalString(t, ev, "x")
	require.NoError(t, err)
	assert.Equal(t, int64(1), val.Int())

	// Restored after a failing body as well.
	_, err = evalString(t, ev, "((fun (z) (+ z nope)) 7)")
	require.Error(t, err)
	val, err = evalString(t, ev, "x")
	require.NoError(t, err)
	assert.Equal(t, int64(1), val.Int())
	assert.Equal(t, 1, ev.Env.Len())
}

func TestUndefinedFunction(t *testing.T) {
	_, err := runProgram(t, "(nosuch 1)")
	assert.True(t, errors.Is(err, ErrUndefinedFunction), "got %v", err)

	_, err = runProgram(t, "(define five 5) (five)")
	assert.True(t, errors.Is(err, ErrUndefinedFunction), "got %v", err)

	_, err = runProgram(t, "(print-num nosuch)")
	assert.True(t, errors.Is(err, ErrUndefinedName), "got %v", err)
}

func TestArgumentsEvaluatedBeforeCalleeLookup(t *testing.T) {
	_, err := runProgram(t, "(nosuch missing-arg)")
	assert.True(t, errors.Is(err, ErrUndefinedName), "got %v", err)
}

func TestFunLiteralIsAValue(t *testing.T) {
	ev := NewEvaluator()
	val, err := evalString(t, ev, "(fun (a) (+ a undefined-in-body))")
	require.NoError(t, err)
	assert.Equal(t, TypeFunction, val.Type)
	assert.Equal(t, []string{"a"}, val.Function().Params)
	assert.Equal(t, "#<function>", val.String())
}

func TestRedefineOverwrites(t *testing.T) {
	out, err := runProgram(t, `
(define f (fun (x) x))
(print-num (f 3))
(define f (fun (x) (* x x)))
(print-num (f 3))
`)
	require.NoError(t, err)
	assert.Equal(t, "3\n9\n", out)
}

func TestRecursionLimit(t *testing.T) {
	out, err := runProgram(t, "(print-num 1)\n((fun (f) (f f)) (fun (f) (f f)))\n(print-num 2)")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRecursionLimit), "got %v", err)
	assert.Equal(t, "1\n", out)

	_, err = runProgram(t, "(+ 1 (+ 1 (+ 1 (+ 1 1))))", WithMaxDepth(3))
	assert.True(t, errors.Is(err, ErrRecursionLimit), "got %v", err)

	_, err = runProgram(t, "(+ 1 (+ 1 (+ 1 (+ 1 1))))", WithMaxDepth(0))
	assert.NoError(t, err)
}

func TestRuntimeErrorCarriesPosition(t *testing.T) {
	_, err := runProgram(t, "(define a 1)\n  (print-num (+ a #t))")
	var rerr *Error
	require.True(t, errors.As(err, &rerr), "got %v", err)
	assert.Equal(t, 2, rerr.Pos.Line)
	assert.Equal(t, 14, rerr.Pos.Column)
	assert.Contains(t, err.Error(), "2:14: type error")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestPrintWriteFailure(t *testing.T) {
	_, err := runProgram(t, "(print-num 1)", WithOutput(failingWriter{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "print-num: disk full")
}
