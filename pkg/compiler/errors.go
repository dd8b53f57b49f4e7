package compiler

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// LexError reports a character the lexer cannot turn into a token.
type LexError struct {
	Pos  int
	Char rune
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at offset %d: %s", e.Pos, e.Msg)
}

func (e *LexError) position() (int, string) {
	return e.Pos, e.Msg
}

// ParseError reports a token sequence that does not match the grammar.
type ParseError struct {
	Tok Token
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Tok.Pos, e.Msg)
}

func (e *ParseError) position() (int, string) {
	return e.Tok.Pos, e.Msg
}

// DivZeroError reports a division whose right operand is the literal 0.
// It is only produced when the optional check is enabled.
type DivZeroError struct {
	Pos int // offset of the '/' operator
}

func (e *DivZeroError) Error() string {
	return fmt.Sprintf("check error at offset %d: division by literal zero", e.Pos)
}

func (e *DivZeroError) position() (int, string) {
	return e.Pos, "division by literal zero"
}

type positioned interface {
	position() (int, string)
}

// Diagnose renders err against the source it came from. Positional errors get
// the source line and a caret under the offending offset:
//
//	1&2
//	 ^ unexpected character '&'
//
// Anything else renders as its message.
func Diagnose(src string, err error) string {
	return diagnose(src, err, false)
}

// DiagnoseColor is Diagnose with the caret line in ANSI red.
func DiagnoseColor(src string, err error) string {
	return diagnose(src, err, true)
}

func diagnose(src string, err error, color bool) string {
	var p positioned
	if !errors.As(err, &p) {
		return err.Error()
	}
	pos, msg := p.position()
	if pos > len(src) {
		pos = len(src)
	}

	var b strings.Builder
	b.WriteString(src)
	b.WriteByte('\n')
	caret := caretPadding(src[:pos]) + "^ " + msg
	if color {
		caret = "\x1b[31m" + caret + "\x1b[0m"
	}
	b.WriteString(caret)
	return b.String()
}

// caretPadding blanks out prefix one column per rune, keeping tabs so the
// caret lines up with the source line above it.
func caretPadding(prefix string) string {
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
