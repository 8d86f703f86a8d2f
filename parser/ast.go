package parser

import (
	"strconv"
	"strings"
)

// Position tracks a source location within a minilisp source file.
type Position struct {
	Offset int // zero-based byte offset
	Line   int // one-based line number
	Column int // one-based column number (rune count)
}

// Node represents any AST node with a source position.
type Node interface {
	Pos() Position
	String() string
}

// Program is the root of a parsed source file.
type Program struct {
	Stmts []Stmt
}

func (p *Program) String() string {
	parts := make([]string, len(p.Stmts))
	for i, stmt := range p.Stmts {
		parts[i] = stmt.String()
	}
	return strings.Join(parts, "\n")
}

// Stmt represents a top-level form.
type Stmt interface {
	Node
	stmtNode()
}

// Expr represents an expression.
type Expr interface {
	Node
	exprNode()
}

// PrintKind selects the output form of a print statement.
type PrintKind int

const (
	PrintNum PrintKind = iota
	PrintBool
)

func (k PrintKind) String() string {
	if k == PrintBool {
		return "print-bool"
	}
	return "print-num"
}

// DefineStmt binds a global name: (define name expr).
type DefineStmt struct {
	Name  *IdentifierExpr
	Value Expr
	Posn  Position
}

func (s *DefineStmt) Pos() Position { return s.Posn }
func (*DefineStmt) stmtNode()       {}

func (s *DefineStmt) String() string {
	return "(define " + s.Name.String() + " " + s.Value.String() + ")"
}

// PrintStmt writes the value of an expression: (print-num expr) or (print-bool expr).
type PrintStmt struct {
	Kind  PrintKind
	Value Expr
	Posn  Position
}

func (s *PrintStmt) Pos() Position { return s.Posn }
func (*PrintStmt) stmtNode()       {}

func (s *PrintStmt) String() string {
	return "(" + s.Kind.String() + " " + s.Value.String() + ")"
}

// ExprStmt is an expression evaluated for effect at the top level.
type ExprStmt struct {
	Expr Expr
	Posn Position
}

func (s *ExprStmt) Pos() Position { return s.Posn }
func (*ExprStmt) stmtNode()       {}

func (s *ExprStmt) String() string { return s.Expr.String() }

// NumberExpr is an integer literal.
type NumberExpr struct {
	Value int64
	Posn  Position
}

func (e *NumberExpr) Pos() Position { return e.Posn }
func (*NumberExpr) exprNode()       {}

func (e *NumberExpr) String() string { return strconv.FormatInt(e.Value, 10) }

// BoolExpr is a boolean literal.
type BoolExpr struct {
	Value bool
	Posn  Position
}

func (e *BoolExpr) Pos() Position { return e.Posn }
func (*BoolExpr) exprNode()       {}

func (e *BoolExpr) String() string {
	if e.Value {
		return "#t"
	}
	return "#f"
}

// IdentifierExpr refers to a variable or function name.
type IdentifierExpr struct {
	Name string
	Posn Position
}

func (e *IdentifierExpr) Pos() Position { return e.Posn }
func (*IdentifierExpr) exprNode()       {}

func (e *IdentifierExpr) String() string { return e.Name }

// BinaryExpr applies an arithmetic or comparison operator.
// Right holds exactly one operand for - / mod > < and one or more for + * =.
type BinaryExpr struct {
	Op    TokenType
	Left  Expr
	Right []Expr
	Posn  Position
}

func (e *BinaryExpr) Pos() Position { return e.Posn }
func (*BinaryExpr) exprNode()       {}

func (e *BinaryExpr) String() string {
	return form(e.Op.String(), append([]Expr{e.Left}, e.Right...))
}

// LogicalExpr applies and, or (one or more operands) or not (exactly one).
type LogicalExpr struct {
	Op       TokenType
	Operands []Expr
	Posn     Position
}

func (e *LogicalExpr) Pos() Position { return e.Posn }
func (*LogicalExpr) exprNode()       {}

func (e *LogicalExpr) String() string { return form(e.Op.String(), e.Operands) }

// IfExpr is (if cond then else).
type IfExpr struct {
	Cond Expr
	Then Expr
	Else Expr
	Posn Position
}

func (e *IfExpr) Pos() Position { return e.Posn }
func (*IfExpr) exprNode()       {}

func (e *IfExpr) String() string {
	return form("if", []Expr{e.Cond, e.Then, e.Else})
}

// FunExpr is a function literal: (fun (params...) body).
type FunExpr struct {
	Params []string
	Body   Expr
	Posn   Position
}

func (e *FunExpr) Pos() Position { return e.Posn }
func (*FunExpr) exprNode()       {}

func (e *FunExpr) String() string {
	return "(fun (" + strings.Join(e.Params, " ") + ") " + e.Body.String() + ")"
}

// CallExpr invokes a function literal or a named function.
// Callee is either *FunExpr or *IdentifierExpr.
type CallExpr struct {
	Callee Expr
	Args   []Expr
	Posn   Position
}

func (e *CallExpr) Pos() Position { return e.Posn }
func (*CallExpr) exprNode()       {}

func (e *CallExpr) String() string { return form(e.Callee.String(), e.Args) }

func form(head string, operands []Expr) string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(head)
	for _, operand := range operands {
		sb.WriteString(" ")
		sb.WriteString(operand.String())
	}
	sb.WriteString(")")
	return sb.String()
}
