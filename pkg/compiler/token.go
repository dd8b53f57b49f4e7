package compiler

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: end of input

	INTEGER // decimal integer literal

	// Arithmetic operators
	PLUS  // +
	MINUS // -
	STAR  // *
	SLASH // /
)

var tokenNames = [...]string{
	EOF:     "EOF",
	INTEGER: "INTEGER",
	PLUS:    "PLUS",
	MINUS:   "MINUS",
	STAR:    "STAR",
	SLASH:   "SLASH",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// operators maps each single-character operator to its TokenType.
var operators = map[rune]TokenType{
	'+': PLUS,
	'-': MINUS,
	'*': STAR,
	'/': SLASH,
}

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Type   TokenType
	Lexeme string // the exact source text that was matched
	Value  int64  // only meaningful for INTEGER
	Pos    int    // 0-based byte offset into the source
}

// IsOperator reports whether the token is one of + - * /.
func (t Token) IsOperator() bool {
	switch t.Type {
	case PLUS, MINUS, STAR, SLASH:
		return true
	}
	return false
}

func (t Token) String() string {
	return fmt.Sprintf("%-8s %-8q  offset %d", t.Type, t.Lexeme, t.Pos)
}

// describe renders a token for "expected X, got Y" messages.
func (t Token) describe() string {
	if t.Type == EOF {
		return "end of input"
	}
	return fmt.Sprintf("%s (%q)", t.Type, t.Lexeme)
}
