package cpu

import (
	"errors"
	"math"
	"strings"
	"testing"
)

// program wraps body lines in the directives the compiler emits.
func program(body ...string) string {
	var b strings.Builder
	b.WriteString(".intel_syntax noprefix\n.globl main\nmain:\n")
	for _, line := range body {
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

func runProgram(t *testing.T, code string) (int64, error) {
	t.Helper()
	c, err := Load(code)
	if err != nil {
		t.Fatalf("Load failed: %v\n%s", err, code)
	}
	return c.Run("main")
}

func TestALU(t *testing.T) {
	tests := []struct {
		name string
		body []string
		want int64
	}{
		{"MOV", []string{"mov rax, 42", "ret"}, 42},
		{"ADD", []string{"mov rax, 10", "mov rdi, 20", "add rax, rdi", "ret"}, 30},
		{"SUB", []string{"mov rax, 10", "mov rdi, 3", "sub rax, rdi", "ret"}, 7},
		{"SUB Negative", []string{"mov rax, 3", "mov rdi, 10", "sub rax, rdi", "ret"}, -7},
		{"IMUL", []string{"mov rax, 6", "mov rdi, 7", "imul rax, rdi", "ret"}, 42},
		{"IDIV", []string{"mov rax, 8", "mov rdi, 3", "cqo", "idiv rdi", "ret"}, 2},
		{"IDIV Negative", []string{"mov rax, -7", "mov rdi, 2", "cqo", "idiv rdi", "ret"}, -3},
		{"ADD Wraps", []string{"mov rax, 9223372036854775807", "mov rdi, 1", "add rax, rdi", "ret"}, math.MinInt64},
		{"Immediate Operand", []string{"mov rax, 5", "add rax, 0x10", "ret"}, 21},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runProgram(t, program(tt.body...))
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestStack(t *testing.T) {
	code := program(
		"mov rax, 1",
		"push rax",
		"mov rax, 2",
		"push rax",
		"pop rdi",
		"pop rax",
		"sub rax, rdi",
		"push rax",
		"pop rax",
		"ret",
	)
	c, err := Load(code)
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.Run("main")
	if err != nil {
		t.Fatal(err)
	}
	if got != -1 {
		t.Errorf("1-2: expected -1, got %d", got)
	}
	if len(c.Stack) != 0 {
		t.Errorf("stack not empty after return: %v", c.Stack)
	}
	if c.Steps != 10 {
		t.Errorf("executed %d steps; want 10", c.Steps)
	}
}

func TestCQO(t *testing.T) {
	c, err := Load(program("mov rax, -5", "cqo", "ret"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Run("main"); err != nil {
		t.Fatal(err)
	}
	if c.Regs[RDX] != -1 {
		t.Errorf("cqo on negative RAX: RDX = %d; want -1", c.Regs[RDX])
	}
}

func TestFaults(t *testing.T) {
	tests := []struct {
		name    string
		body    []string
		wantMsg string
	}{
		{"Division By Zero", []string{"mov rax, 1", "mov rdi, 0", "cqo", "idiv rdi", "ret"}, "integer division by zero"},
		{"Division Overflow", []string{"mov rax, -9223372036854775808", "mov rdi, -1", "cqo", "idiv rdi", "ret"}, "integer division overflow"},
		{"Missing CQO", []string{"mov rax, 1", "mov rdx, 5", "mov rdi, 1", "idiv rdi", "ret"}, "not a sign-extended RAX"},
		{"Stack Underflow", []string{"pop rax", "ret"}, "stack underflow"},
		{"Unbalanced Return", []string{"push rax", "ret"}, "1 values left on the stack"},
		{"Unknown Instruction", []string{"xor rax, rax", "ret"}, "unknown instruction 'xor'"},
		{"Bad Register", []string{"mov rbx, 1", "ret"}, "invalid register 'rbx'"},
		{"Memory Operand", []string{"mov rax, [rdi]", "ret"}, "memory operand '[rdi]' is not supported"},
		{"Runs Off The End", []string{"mov rax, 1"}, "ran off the program"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runProgram(t, program(tt.body...))
			var fault *Fault
			if !errors.As(err, &fault) {
				t.Fatalf("expected *Fault, got %v", err)
			}
			if !strings.Contains(fault.Error(), tt.wantMsg) {
				t.Errorf("fault %q does not mention %q", fault.Error(), tt.wantMsg)
			}
		})
	}
}

func TestStepLimit(t *testing.T) {
	c, err := Load(program("nop", "nop", "nop", "ret"))
	if err != nil {
		t.Fatal(err)
	}
	c.StepLimit = 2
	_, err = c.Run("main")
	var fault *Fault
	if !errors.As(err, &fault) || !strings.Contains(fault.Msg, "step limit 2 exceeded") {
		t.Errorf("expected step limit fault, got %v", err)
	}
}

func TestRunUnknownEntry(t *testing.T) {
	c, err := Load(program("ret"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Run("_main"); err == nil {
		t.Error("expected error for missing entry symbol")
	}
}

func TestExitStatus(t *testing.T) {
	tests := []struct {
		v    int64
		want int
	}{
		{0, 0},
		{11, 11},
		{255, 255},
		{256, 0},
		{300, 44},
		{-1, 255},
	}
	for _, tt := range tests {
		if got := ExitStatus(tt.v); got != tt.want {
			t.Errorf("ExitStatus(%d) = %d; want %d", tt.v, got, tt.want)
		}
	}
}
