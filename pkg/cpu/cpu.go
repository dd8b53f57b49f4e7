// Package cpu executes the x86-64 instruction subset the compiler emits,
// so the value a generated program returns can be observed without an
// assembler or linker.
package cpu

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"exprcc/pkg/asm"
)

// Register indices.
const (
	RAX = iota
	RDX
	RDI
	numRegs
)

var registerNames = map[string]int{
	"rax": RAX,
	"rdx": RDX,
	"rdi": RDI,
}

// DefaultStepLimit bounds Run so a malformed listing cannot spin forever.
const DefaultStepLimit = 1 << 20

// Fault is raised where the real processor would trap or the program would
// crash: division errors, stack underflow, unknown instructions.
type Fault struct {
	Line  int // 1-based assembly line, 0 if not tied to an instruction
	Instr string
	Msg   string
}

func (f *Fault) Error() string {
	if f.Line == 0 {
		return "fault: " + f.Msg
	}
	return fmt.Sprintf("fault at line %d (%s): %s", f.Line, f.Instr, f.Msg)
}

type CPU struct {
	Regs  [numRegs]int64
	Stack []int64 // grows upward; the last element is the top

	PC     int
	Halted bool
	Steps  int

	// StepLimit caps the number of executed instructions. Zero means
	// DefaultStepLimit.
	StepLimit int

	prog *asm.Program
}

func New(prog *asm.Program) *CPU {
	return &CPU{prog: prog}
}

// Load parses an assembly listing and returns a CPU ready to run it.
func Load(code string) (*CPU, error) {
	prog, err := asm.Parse(code)
	if err != nil {
		return nil, errors.Wrap(err, "load")
	}
	return New(prog), nil
}

// Run calls the function at entry and returns RAX once it returns to the
// caller. The stack must be back at its starting depth on return.
func (c *CPU) Run(entry string) (int64, error) {
	pc, err := c.prog.Entry(entry)
	if err != nil {
		return 0, errors.Wrap(err, "run")
	}
	c.PC = pc
	c.Halted = false
	c.Steps = 0
	c.Stack = c.Stack[:0]

	limit := c.StepLimit
	if limit <= 0 {
		limit = DefaultStepLimit
	}

	for !c.Halted {
		if c.Steps >= limit {
			return 0, &Fault{Msg: fmt.Sprintf("step limit %d exceeded", limit)}
		}
		if err := c.Step(); err != nil {
			return 0, err
		}
	}
	return c.Regs[RAX], nil
}

// Step executes one instruction.
func (c *CPU) Step() error {
	if c.Halted {
		return nil
	}
	if c.PC < 0 || c.PC >= len(c.prog.Instructions) {
		return &Fault{Msg: fmt.Sprintf("execution ran off the program at index %d", c.PC)}
	}

	in := c.prog.Instructions[c.PC]
	c.PC++
	c.Steps++

	fault := func(format string, args ...any) error {
		return &Fault{Line: in.Line, Instr: in.String(), Msg: fmt.Sprintf(format, args...)}
	}

	switch in.Mnemonic {
	case "mov":
		if len(in.Operands) != 2 {
			return fault("mov expects 2 operands")
		}
		dst, ok := registerNames[in.Operands[0]]
		if !ok {
			return fault("invalid register '%s'", in.Operands[0])
		}
		v, err := c.operand(in.Operands[1])
		if err != nil {
			return fault("%v", err)
		}
		c.Regs[dst] = v

	case "push":
		if len(in.Operands) != 1 {
			return fault("push expects 1 operand")
		}
		v, err := c.operand(in.Operands[0])
		if err != nil {
			return fault("%v", err)
		}
		c.Stack = append(c.Stack, v)

	case "pop":
		if len(in.Operands) != 1 {
			return fault("pop expects 1 operand")
		}
		dst, ok := registerNames[in.Operands[0]]
		if !ok {
			return fault("invalid register '%s'", in.Operands[0])
		}
		if len(c.Stack) == 0 {
			return fault("stack underflow")
		}
		c.Regs[dst] = c.Stack[len(c.Stack)-1]
		c.Stack = c.Stack[:len(c.Stack)-1]

	case "add", "sub", "imul":
		if len(in.Operands) != 2 {
			return fault("%s expects 2 operands", in.Mnemonic)
		}
		dst, ok := registerNames[in.Operands[0]]
		if !ok {
			return fault("invalid register '%s'", in.Operands[0])
		}
		v, err := c.operand(in.Operands[1])
		if err != nil {
			return fault("%v", err)
		}
		// Go integer arithmetic wraps like the hardware does.
		switch in.Mnemonic {
		case "add":
			c.Regs[dst] += v
		case "sub":
			c.Regs[dst] -= v
		case "imul":
			c.Regs[dst] *= v
		}

	case "cqo":
		if c.Regs[RAX] < 0 {
			c.Regs[RDX] = -1
		} else {
			c.Regs[RDX] = 0
		}

	case "idiv":
		if len(in.Operands) != 1 {
			return fault("idiv expects 1 operand")
		}
		divisor, err := c.operand(in.Operands[0])
		if err != nil {
			return fault("%v", err)
		}
		if divisor == 0 {
			return fault("integer division by zero")
		}
		if !c.dividendFits() {
			return fault("dividend RDX:RAX is not a sign-extended RAX")
		}
		if c.Regs[RAX] == math.MinInt64 && divisor == -1 {
			return fault("integer division overflow")
		}
		c.Regs[RAX], c.Regs[RDX] = c.Regs[RAX]/divisor, c.Regs[RAX]%divisor

	case "ret":
		if len(c.Stack) != 0 {
			return fault("return with %d values left on the stack", len(c.Stack))
		}
		c.Halted = true

	case "nop":

	default:
		return fault("unknown instruction '%s'", in.Mnemonic)
	}

	return nil
}

// dividendFits reports whether RDX:RAX holds a value the machine can divide
// with 64-bit semantics, i.e. RDX is the sign extension of RAX.
func (c *CPU) dividendFits() bool {
	if c.Regs[RAX] < 0 {
		return c.Regs[RDX] == -1
	}
	return c.Regs[RDX] == 0
}

// operand evaluates a register name or an immediate.
func (c *CPU) operand(tok string) (int64, error) {
	if r, ok := registerNames[tok]; ok {
		return c.Regs[r], nil
	}
	v, err := strconv.ParseInt(tok, 0, 64)
	if err != nil {
		if strings.ContainsAny(tok, "[]") {
			return 0, errors.Errorf("memory operand '%s' is not supported", tok)
		}
		return 0, errors.Errorf("invalid operand '%s'", tok)
	}
	return v, nil
}

// ExitStatus is the process exit status a shell observes when main returns v.
func ExitStatus(v int64) int {
	return int(uint8(v))
}
