package compiler

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// Lexer holds all mutable state for a single scanning pass over src.
type Lexer struct {
	src string
	pos int // byte offset of the next rune to consume
}

func newLexer(src string) *Lexer {
	return &Lexer{src: src}
}

// peek returns the rune at the current position without advancing.
func (l *Lexer) peek() (rune, int) {
	if l.pos >= len(l.src) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(l.src[l.pos:])
}

// skipWhitespace skips the ASCII blanks C's isspace accepts. Other Unicode
// spaces are not whitespace here and lex as unexpected characters.
func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
		l.pos++
	}
}

// scanInt collects a run of decimal digits. The first digit must be at l.pos.
func (l *Lexer) scanInt() (Token, error) {
	start := l.pos
	var value int64
	overflow := false
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		d := int64(l.src[l.pos] - '0')
		if value > (math.MaxInt64-d)/10 {
			overflow = true
		}
		value = value*10 + d
		l.pos++
	}
	lexeme := l.src[start:l.pos]
	if overflow {
		return Token{}, &LexError{
			Pos:  start,
			Char: rune(l.src[start]),
			Msg:  "integer literal " + lexeme + " too large",
		}
	}
	return Token{Type: INTEGER, Lexeme: lexeme, Value: value, Pos: start}, nil
}

// nextToken skips whitespace and returns the next Token.
func (l *Lexer) nextToken() (Token, error) {
	l.skipWhitespace()
	if l.pos >= len(l.src) {
		return Token{Type: EOF, Pos: l.pos}, nil
	}

	if isDigit(l.src[l.pos]) {
		return l.scanInt()
	}

	ch, size := l.peek()
	if tt, ok := operators[ch]; ok {
		tok := Token{Type: tt, Lexeme: string(ch), Pos: l.pos}
		l.pos += size
		return tok, nil
	}

	return Token{}, &LexError{Pos: l.pos, Char: ch, Msg: fmt.Sprintf("unexpected character %q", ch)}
}

// Lex tokenises src and returns all tokens including the final EOF token.
// On the first illegal character or oversized literal it returns a *LexError
// and no tokens.
func Lex(src string) ([]Token, error) {
	l := newLexer(src)
	var tokens []Token
	for {
		tok, err := l.nextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}

func isSpace(b byte) bool {
	return strings.IndexByte(" \t\n\v\f\r", b) >= 0
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
