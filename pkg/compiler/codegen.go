package compiler

import (
	"fmt"
	"io"
	"strings"
)

// CodeGen walks an AST and emits x86-64 instructions in Intel syntax.
//
// Every expression leaves exactly one value pushed on the machine stack.
// A binary operator pops its right operand into RDI and its left operand
// into RAX, so RAX is always the first operand of the combining instruction.
type CodeGen struct {
	out []string
}

func newCodeGen() *CodeGen {
	return &CodeGen{}
}

func (cg *CodeGen) line(format string, args ...any) {
	cg.out = append(cg.out, fmt.Sprintf(format, args...))
}

func (cg *CodeGen) genExpr(e Expr) error {
	switch n := e.(type) {

	case *Literal:
		// push only takes a sign-extended 32-bit immediate
		cg.line("mov rax, %d", n.Value)
		cg.line("push rax")
		return nil

	case *BinaryExpr:
		if n.Left == nil || n.Right == nil {
			return fmt.Errorf("codegen: %s node at offset %d is missing an operand", n.Op, n.Pos)
		}
		if err := cg.genExpr(n.Left); err != nil {
			return err
		}
		if err := cg.genExpr(n.Right); err != nil {
			return err
		}
		cg.line("pop rdi")
		cg.line("pop rax")

		switch n.Op {
		case PLUS:
			cg.line("add rax, rdi")
		case MINUS:
			cg.line("sub rax, rdi")
		case STAR:
			cg.line("imul rax, rdi")
		case SLASH:
			// sign-extend RAX into RDX:RAX for the 128-by-64 divide
			cg.line("cqo")
			cg.line("idiv rdi")
		default:
			return fmt.Errorf("codegen: unknown binary operator %s", n.Op)
		}
		cg.line("push rax")
		return nil

	case nil:
		return fmt.Errorf("codegen: nil expression")
	}

	return fmt.Errorf("codegen: unsupported expression %T", e)
}

// Generate returns the instruction stream for e. The stream ends with the
// result in RAX and the stack back at its starting depth.
func Generate(e Expr) ([]string, error) {
	cg := newCodeGen()
	if err := cg.genExpr(e); err != nil {
		return nil, err
	}
	cg.line("pop rax")
	return cg.out, nil
}

// Emit writes the complete assembly program around instrs to w.
func Emit(w io.Writer, entry string, instrs []string) error {
	var b strings.Builder
	b.WriteString(".intel_syntax noprefix\n")
	fmt.Fprintf(&b, ".globl %s\n", entry)
	fmt.Fprintf(&b, "%s:\n", entry)
	for _, in := range instrs {
		b.WriteString("  ")
		b.WriteString(in)
		b.WriteByte('\n')
	}
	b.WriteString("  ret\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// Program is Emit into a string.
func Program(entry string, instrs []string) string {
	var b strings.Builder
	_ = Emit(&b, entry, instrs)
	return b.String()
}
