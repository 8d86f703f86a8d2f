package parser

// TokenType enumerates lexical categories recognised by the minilisp lexer.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIllegal

	TokenLParen // (
	TokenRParen // )
	TokenNumber
	TokenBool
	TokenIdentifier

	// Keywords
	TokenPrintNum  // print-num
	TokenPrintBool // print-bool
	TokenDefine    // define
	TokenIf        // if
	TokenFun       // fun
	TokenAnd       // and
	TokenOr        // or
	TokenNot       // not
	TokenMod       // mod

	// Operators
	TokenPlus    // +
	TokenMinus   // -
	TokenStar    // *
	TokenSlash   // /
	TokenGreater // >
	TokenLess    // <
	TokenEqual   // =
)

var keywords = map[string]TokenType{
	"print-num":  TokenPrintNum,
	"print-bool": TokenPrintBool,
	"define":     TokenDefine,
	"if":         TokenIf,
	"fun":        TokenFun,
	"and":        TokenAnd,
	"or":         TokenOr,
	"not":        TokenNot,
	"mod":        TokenMod,
}

func (tt TokenType) String() string {
	switch tt {
	case TokenEOF:
		return "EOF"
	case TokenIllegal:
		return "illegal"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenNumber:
		return "number"
	case TokenBool:
		return "boolean"
	case TokenIdentifier:
		return "identifier"
	case TokenPrintNum:
		return "print-num"
	case TokenPrintBool:
		return "print-bool"
	case TokenDefine:
		return "define"
	case TokenIf:
		return "if"
	case TokenFun:
		return "fun"
	case TokenAnd:
		return "and"
	case TokenOr:
		return "or"
	case TokenNot:
		return "not"
	case TokenMod:
		return "mod"
	case TokenPlus:
		return "+"
	case TokenMinus:
		return "-"
	case TokenStar:
		return "*"
	case TokenSlash:
		return "/"
	case TokenGreater:
		return ">"
	case TokenLess:
		return "<"
	case TokenEqual:
		return "="
	default:
		return "unknown"
	}
}

// IsVariadic reports whether the operator accepts two or more operands.
func (tt TokenType) IsVariadic() bool {
	switch tt {
	case TokenPlus, TokenStar, TokenEqual, TokenAnd, TokenOr:
		return true
	}
	return false
}

// Token is a single lexical unit produced by the lexer.
type Token struct {
	Type   TokenType
	Lexeme string      // raw lexeme (identifiers, numbers, booleans)
	Value  interface{} // decoded literal: int64 for numbers, bool for booleans
	Pos    Position
}
