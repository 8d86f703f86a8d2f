package parser

import (
	"io"
	"strconv"
	"unicode"
	"unicode/utf8"
)

type lexer struct {
	src    string
	pos    int
	line   int
	column int
}

func newLexer(src string) *lexer {
	return &lexer{
		src:    src,
		line:   1,
		column: 1,
	}
}

type runeState struct {
	pos    int
	line   int
	column int
}

func (lx *lexer) mark() runeState {
	return runeState{
		pos:    lx.pos,
		line:   lx.line,
		column: lx.column,
	}
}

func (lx *lexer) restore(state runeState) {
	lx.pos = state.pos
	lx.line = state.line
	lx.column = state.column
}

func (lx *lexer) readRune() (rune, runeState, error) {
	state := lx.mark()
	if lx.pos >= len(lx.src) {
		return 0, state, io.EOF
	}
	r, w := utf8.DecodeRuneInString(lx.src[lx.pos:])
	if r == utf8.RuneError && w == 1 {
		return 0, state, newError(positionFromState(state), "invalid UTF-8 encoding at byte %d", lx.pos)
	}
	lx.pos += w
	if r == '\n' {
		lx.line++
		lx.column = 1
	} else {
		lx.column++
	}
	return r, state, nil
}

func (lx *lexer) peekRune() rune {
	if lx.pos >= len(lx.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(lx.src[lx.pos:])
	return r
}

func (lx *lexer) skipWhitespace() error {
	for {
		r, state, err := lx.readRune()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch {
		case unicode.IsSpace(r):
			continue
		case r == ';':
			lx.skipLine()
		default:
			lx.restore(state)
			return nil
		}
	}
}

func (lx *lexer) skipLine() {
	for {
		r, _, err := lx.readRune()
		if err != nil || r == '\n' {
			return
		}
	}
}

func (lx *lexer) nextToken() (Token, error) {
	if err := lx.skipWhitespace(); err != nil {
		return Token{}, err
	}

	start := lx.mark()
	r, _, err := lx.readRune()
	if err == io.EOF {
		return Token{Type: TokenEOF, Pos: positionFromState(start)}, nil
	}
	if err != nil {
		return Token{}, err
	}

	switch {
	case isIdentifierStart(r):
		lexeme := lx.scanIdentifier(start)
		if tt, ok := keywords[lexeme]; ok {
			return Token{Type: tt, Lexeme: lexeme, Pos: positionFromState(start)}, nil
		}
		return Token{Type: TokenIdentifier, Lexeme: lexeme, Pos: positionFromState(start)}, nil
	case isDigit(r), r == '-' && isDigit(lx.peekRune()):
		return lx.scanNumber(start)
	case r == '#':
		return lx.scanBool(start)
	}

	var tt TokenType
	switch r {
	case '(':
		tt = TokenLParen
	case ')':
		tt = TokenRParen
	case '+':
		tt = TokenPlus
	case '-':
		tt = TokenMinus
	case '*':
		tt = TokenStar
	case '/':
		tt = TokenSlash
	case '>':
		tt = TokenGreater
	case '<':
		tt = TokenLess
	case '=':
		tt = TokenEqual
	default:
		return Token{Type: TokenIllegal, Pos: positionFromState(start)},
			newError(positionFromState(start), "unexpected character %q", r)
	}
	return Token{Type: tt, Lexeme: string(r), Pos: positionFromState(start)}, nil
}

func (lx *lexer) scanIdentifier(start runeState) string {
	for isIdentifierPart(lx.peekRune()) {
		lx.readRune()
	}
	return lx.src[start.pos:lx.pos]
}

func (lx *lexer) scanNumber(start runeState) (Token, error) {
	for isDigit(lx.peekRune()) {
		lx.readRune()
	}
	lexeme := lx.src[start.pos:lx.pos]
	pos := positionFromState(start)
	n, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		return Token{Type: TokenIllegal, Lexeme: lexeme, Pos: pos},
			newError(pos, "integer literal %s out of range", lexeme)
	}
	return Token{Type: TokenNumber, Lexeme: lexeme, Value: n, Pos: pos}, nil
}

func (lx *lexer) scanBool(start runeState) (Token, error) {
	pos := positionFromState(start)
	r, _, err := lx.readRune()
	if err == io.EOF {
		return Token{Type: TokenIllegal, Pos: pos}, newIncompleteError(pos, "unterminated boolean literal")
	}
	if err != nil {
		return Token{}, err
	}
	switch r {
	case 't':
		return Token{Type: TokenBool, Lexeme: "#t", Value: true, Pos: pos}, nil
	case 'f':
		return Token{Type: TokenBool, Lexeme: "#f", Value: false, Pos: pos}, nil
	}
	return Token{Type: TokenIllegal, Pos: pos}, newError(pos, "expected #t or #f, found #%c", r)
}

// Tokenize splits source text into a token sequence terminated by TokenEOF.
func Tokenize(src string) ([]Token, error) {
	lx := newLexer(src)
	var tokens []Token
	for {
		tok, err := lx.nextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

func isIdentifierStart(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

func isIdentifierPart(r rune) bool {
	return isIdentifierStart(r) || isDigit(r) || r == '-'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func positionFromState(state runeState) Position {
	return Position{
		Offset: state.pos,
		Line:   state.line,
		Column: state.column,
	}
}
