package parser

// ParseTokens builds a Program from a token sequence, one statement per
// top-level form. Parsing stops at the first error.
func ParseTokens(toks []Token) (*Program, error) {
	p := newParser(toks)
	return p.parseProgram()
}

// ParseStatement parses exactly one top-level form.
func ParseStatement(toks []Token) (Stmt, error) {
	p := newParser(toks)
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if p.curr().Type != TokenEOF {
		return nil, p.unexpected("end of input")
	}
	return stmt, nil
}

type parser struct {
	toks []Token
	pos  int
}

func newParser(toks []Token) *parser {
	return &parser{toks: toks}
}

func (p *parser) curr() Token {
	return p.at(p.pos)
}

func (p *parser) peek() Token {
	return p.at(p.pos + 1)
}

func (p *parser) at(i int) Token {
	if i < len(p.toks) {
		return p.toks[i]
	}
	// Sequences not terminated by TokenEOF behave as if they were.
	eof := Token{Type: TokenEOF}
	if n := len(p.toks); n > 0 {
		eof.Pos = p.toks[n-1].Pos
	}
	return eof
}

func (p *parser) advance() {
	if p.pos < len(p.toks) {
		p.pos++
	}
}

func (p *parser) expect(tt TokenType) (Token, error) {
	tok := p.curr()
	if tok.Type != tt {
		return Token{}, p.unexpected(tt.String())
	}
	p.advance()
	return tok, nil
}

func (p *parser) unexpected(want string) error {
	tok := p.curr()
	if tok.Type == TokenEOF {
		return newIncompleteError(tok.Pos, "unterminated form: expected %s, found EOF", want)
	}
	return newError(tok.Pos, "expected %s, found %s", want, describe(tok))
}

func describe(tok Token) string {
	switch tok.Type {
	case TokenNumber, TokenBool, TokenIdentifier:
		return tok.Type.String() + " " + tok.Lexeme
	}
	return "'" + tok.Type.String() + "'"
}

func (p *parser) parseProgram() (*Program, error) {
	var stmts []Stmt
	for p.curr().Type != TokenEOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return &Program{Stmts: stmts}, nil
}

func (p *parser) parseStatement() (Stmt, error) {
	if p.curr().Type == TokenLParen {
		switch p.peek().Type {
		case TokenDefine:
			return p.parseDefine()
		case TokenPrintNum, TokenPrintBool:
			return p.parsePrint()
		}
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ExprStmt{Expr: expr, Posn: expr.Pos()}, nil
}

func (p *parser) parseDefine() (Stmt, error) {
	open, err := p.expect(TokenLParen)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenDefine); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(TokenIdentifier)
	if err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	return &DefineStmt{
		Name:  &IdentifierExpr{Name: nameTok.Lexeme, Posn: nameTok.Pos},
		Value: value,
		Posn:  open.Pos,
	}, nil
}

func (p *parser) parsePrint() (Stmt, error) {
	open, err := p.expect(TokenLParen)
	if err != nil {
		return nil, err
	}
	kind := PrintNum
	if p.curr().Type == TokenPrintBool {
		kind = PrintBool
	}
	p.advance()
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	return &PrintStmt{Kind: kind, Value: value, Posn: open.Pos}, nil
}

func (p *parser) parseExpr() (Expr, error) {
	tok := p.curr()
	switch tok.Type {
	case TokenNumber:
		p.advance()
		return &NumberExpr{Value: tok.Value.(int64), Posn: tok.Pos}, nil
	case TokenBool:
		p.advance()
		return &BoolExpr{Value: tok.Value.(bool), Posn: tok.Pos}, nil
	case TokenIdentifier:
		p.advance()
		return &IdentifierExpr{Name: tok.Lexeme, Posn: tok.Pos}, nil
	case TokenLParen:
		return p.parseForm()
	default:
		return nil, p.unexpected("expression")
	}
}

// parseForm dispatches on the token following "(".
func (p *parser) parseForm() (Expr, error) {
	open := p.curr()
	head := p.peek()
	switch head.Type {
	case TokenPlus, TokenStar, TokenEqual, TokenMinus, TokenSlash, TokenMod, TokenGreater, TokenLess:
		return p.parseBinary(open)
	case TokenAnd, TokenOr, TokenNot:
		return p.parseLogical(open)
	case TokenIf:
		return p.parseIf(open)
	case TokenFun:
		fn, err := p.parseFun()
		if err != nil {
			return nil, err
		}
		return fn, nil
	case TokenLParen:
		p.advance()
		if p.peek().Type != TokenFun {
			p.advance()
			return nil, p.unexpected("'fun'")
		}
		callee, err := p.parseFun()
		if err != nil {
			return nil, err
		}
		return p.finishCall(open, callee)
	case TokenIdentifier:
		p.advance()
		p.advance()
		callee := &IdentifierExpr{Name: head.Lexeme, Posn: head.Pos}
		return p.finishCall(open, callee)
	case TokenDefine, TokenPrintNum, TokenPrintBool:
		return nil, newError(head.Pos, "%s is only allowed at the top level", head.Type)
	default:
		p.advance()
		return nil, p.unexpected("operator or function")
	}
}

func (p *parser) parseBinary(open Token) (Expr, error) {
	p.advance()
	op := p.curr().Type
	p.advance()
	left, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	n := 1
	if op.IsVariadic() {
		n = -1
	}
	right, err := p.parseOperands(n)
	if err != nil {
		return nil, err
	}
	if len(right) == 0 {
		return nil, p.unexpected("expression")
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	return &BinaryExpr{Op: op, Left: left, Right: right, Posn: open.Pos}, nil
}

func (p *parser) parseLogical(open Token) (Expr, error) {
	p.advance()
	op := p.curr().Type
	p.advance()
	n := 1
	if op.IsVariadic() {
		n = -1
	}
	operands, err := p.parseOperands(n)
	if err != nil {
		return nil, err
	}
	if op.IsVariadic() && len(operands) < 2 {
		return nil, p.unexpected("expression")
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	return &LogicalExpr{Op: op, Operands: operands, Posn: open.Pos}, nil
}

func (p *parser) parseIf(open Token) (Expr, error) {
	p.advance()
	p.advance()
	parts, err := p.parseOperands(3)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	return &IfExpr{Cond: parts[0], Then: parts[1], Else: parts[2], Posn: open.Pos}, nil
}

func (p *parser) parseFun() (*FunExpr, error) {
	open, err := p.expect(TokenLParen)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenFun); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}
	params := []string{}
	for p.curr().Type == TokenIdentifier {
		params = append(params, p.curr().Lexeme)
		p.advance()
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	return &FunExpr{Params: params, Body: body, Posn: open.Pos}, nil
}

func (p *parser) finishCall(open Token, callee Expr) (Expr, error) {
	args, err := p.parseOperands(-1)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	return &CallExpr{Callee: callee, Args: args, Posn: open.Pos}, nil
}

// parseOperands reads exactly n expressions, or every expression up to the
// closing parenthesis when n is negative. The closing token is left unread.
func (p *parser) parseOperands(n int) ([]Expr, error) {
	exprs := []Expr{}
	for n < 0 || len(exprs) < n {
		if n < 0 && (p.curr().Type == TokenRParen || p.curr().Type == TokenEOF) {
			if p.curr().Type == TokenEOF {
				return nil, p.unexpected("')'")
			}
			break
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}
