// Package asm reads the Intel-syntax x86-64 text produced by the compiler
// back into a list of instructions that pkg/cpu can execute.
package asm

import (
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// Instruction is one decoded instruction line.
type Instruction struct {
	Line     int // 1-based source line
	Mnemonic string
	Operands []string
}

func (in Instruction) String() string {
	if len(in.Operands) == 0 {
		return in.Mnemonic
	}
	return in.Mnemonic + " " + strings.Join(in.Operands, ", ")
}

// Program is the decoded form of an assembly file.
type Program struct {
	Syntax       string // operand of .intel_syntax
	Instructions []Instruction

	labels  map[string]int // label -> index into Instructions
	globals map[string]bool
}

type parsedLine struct {
	lineNo   int
	labels   []string
	mnemonic string
	operands []string
}

// Parse decodes an assembly listing.
func Parse(code string) (*Program, error) {
	prog := &Program{
		labels:  make(map[string]int),
		globals: make(map[string]bool),
	}

	for i, raw := range strings.Split(code, "\n") {
		lineNo := i + 1
		p, err := parseLine(raw, lineNo)
		if err != nil {
			return nil, err
		}

		for _, lbl := range p.labels {
			if _, exists := prog.labels[lbl]; exists {
				return nil, errors.Errorf("duplicate label '%s' on line %d", lbl, lineNo)
			}
			prog.labels[lbl] = len(prog.Instructions)
		}

		if p.mnemonic == "" {
			continue
		}

		switch p.mnemonic {
		case ".intel_syntax":
			if len(p.operands) != 1 || p.operands[0] != "noprefix" {
				return nil, errors.Errorf(".intel_syntax expects noprefix on line %d", lineNo)
			}
			prog.Syntax = p.operands[0]
		case ".globl", ".global":
			if len(p.operands) != 1 || !isIdentifier(p.operands[0]) {
				return nil, errors.Errorf("%s expects exactly one symbol on line %d", p.mnemonic, lineNo)
			}
			prog.globals[p.operands[0]] = true
		default:
			if strings.HasPrefix(p.mnemonic, ".") {
				return nil, errors.Errorf("unknown directive on line %d: %s", lineNo, p.mnemonic)
			}
			prog.Instructions = append(prog.Instructions, Instruction{
				Line:     lineNo,
				Mnemonic: p.mnemonic,
				Operands: p.operands,
			})
		}
	}

	if prog.Syntax == "" {
		return nil, errors.New("missing .intel_syntax directive")
	}
	return prog, nil
}

// Entry returns the instruction index of a global symbol.
func (p *Program) Entry(name string) (int, error) {
	idx, ok := p.labels[name]
	if !ok {
		return 0, errors.Errorf("undefined label '%s'", name)
	}
	if !p.globals[name] {
		return 0, errors.Errorf("label '%s' is not declared .globl", name)
	}
	return idx, nil
}

func parseLine(raw string, lineNo int) (parsedLine, error) {
	p := parsedLine{lineNo: lineNo}

	line := strings.TrimSpace(stripComments(raw))
	if line == "" {
		return p, nil
	}

	for {
		colon := strings.IndexByte(line, ':')
		if colon <= 0 {
			break
		}

		beforeColon := strings.TrimSpace(line[:colon])
		if strings.ContainsAny(beforeColon, " \t") {
			break
		}

		if !isIdentifier(beforeColon) {
			return p, errors.Errorf("invalid label '%s' on line %d", beforeColon, lineNo)
		}

		p.labels = append(p.labels, beforeColon)
		line = strings.TrimSpace(line[colon+1:])
		if line == "" {
			return p, nil
		}
	}

	mnemonic, rest, _ := strings.Cut(line, " ")
	if tab := strings.IndexByte(mnemonic, '\t'); tab >= 0 {
		rest = mnemonic[tab+1:] + " " + rest
		mnemonic = mnemonic[:tab]
	}
	p.mnemonic = strings.ToLower(mnemonic)

	rest = strings.TrimSpace(rest)
	if rest == "" {
		return p, nil
	}
	for _, op := range strings.Split(rest, ",") {
		op = strings.TrimSpace(op)
		if op == "" {
			return p, errors.Errorf("empty operand on line %d", lineNo)
		}
		p.operands = append(p.operands, op)
	}
	return p, nil
}

// stripComments drops everything from the first '#', ';' or "//".
func stripComments(line string) string {
	cut := -1
	for _, marker := range []string{"#", ";", "//"} {
		if i := strings.Index(line, marker); i >= 0 && (cut == -1 || i < cut) {
			cut = i
		}
	}
	if cut >= 0 {
		return line[:cut]
	}
	return line
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' && r != '.' {
				return false
			}
			continue
		}

		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '.' && r != '$' {
			return false
		}
	}

	return true
}
