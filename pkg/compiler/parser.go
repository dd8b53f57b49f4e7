package compiler

// Parser consumes the flat token slice produced by the Lexer and builds an AST.
//
// Grammar:
//
//	expression     = additive EOF
//	additive       = multiplicative (("+" | "-") multiplicative)*
//	multiplicative = primary (("*" | "/") primary)*
//	primary        = INTEGER
type Parser struct {
	tokens []Token
	pos    int
}

func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// peek returns the current token without consuming it. Reads past the end of
// the slice yield an EOF token positioned after the last real token.
func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		end := 0
		if n := len(p.tokens); n > 0 {
			last := p.tokens[n-1]
			end = last.Pos + len(last.Lexeme)
		}
		return Token{Type: EOF, Pos: end}
	}
	return p.tokens[p.pos]
}

// advance consumes and returns the current token.
func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) errorf(tok Token, msg string) error {
	return &ParseError{Tok: tok, Msg: msg}
}

// parseExpression is the entry point for expression parsing.
func (p *Parser) parseExpression() (Expr, error) {
	return p.parseAdditive()
}

// parseAdditive handles + and -
func (p *Parser) parseAdditive() (Expr, error) {
	expr, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		if tok.Type != PLUS && tok.Type != MINUS {
			break
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: tok.Type, Left: expr, Right: right, Pos: tok.Pos}
	}

	return expr, nil
}

// parseMultiplicative handles * and /
func (p *Parser) parseMultiplicative() (Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		if tok.Type != STAR && tok.Type != SLASH {
			break
		}
		p.advance()
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: tok.Type, Left: expr, Right: right, Pos: tok.Pos}
	}

	return expr, nil
}

func (p *Parser) parsePrimary() (Expr, error) {
	tok := p.advance()
	if tok.Type != INTEGER {
		return nil, p.errorf(tok, "expected number, got "+tok.describe())
	}
	return &Literal{Value: tok.Value, Pos: tok.Pos}, nil
}

// Parse builds the AST for a whole token sequence. Every token before EOF
// must be consumed.
func Parse(tokens []Token) (Expr, error) {
	p := NewParser(tokens)
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Type != EOF {
		return nil, p.errorf(tok, "unexpected trailing token "+tok.describe())
	}
	return expr, nil
}
