package cpu

import (
	"strings"
	"testing"

	"exprcc/pkg/asm"
)

// BenchmarkCPU_Arithmetic measures the Step loop over a long chain of
// push/pop/add sequences shaped like compiler output.
func BenchmarkCPU_Arithmetic(b *testing.B) {
	body := []string{"mov rax, 1", "push rax"}
	for i := 0; i < 1000; i++ {
		body = append(body, "mov rax, 3", "push rax", "pop rdi", "pop rax", "add rax, rdi", "push rax")
	}
	body = append(body, "pop rax", "ret")

	prog, err := asm.Parse(program(body...))
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c := New(prog)
		v, err := c.Run("main")
		if err != nil {
			b.Fatal(err)
		}
		if v != 3001 {
			b.Fatalf("expected 3001, got %d", v)
		}
	}
}

// BenchmarkCPU_Load measures parsing plus setup for a small program.
func BenchmarkCPU_Load(b *testing.B) {
	code := program(strings.Split("mov rax, 8|push rax|mov rax, 3|push rax|pop rdi|pop rax|cqo|idiv rdi|push rax|pop rax|ret", "|")...)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Load(code); err != nil {
			b.Fatal(err)
		}
	}
}
