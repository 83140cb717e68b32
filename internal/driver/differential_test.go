package driver

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

// runBackend lexes, parses, and executes src on the given backend, returning
// the trimmed stdout on success.
func runBackend(t *testing.T, src string, backend Backend) (string, bool) {
	t.Helper()
	path := writeSource(t, src)
	cfg := Config{
		Input:          path,
		Backend:        backend,
		TypeChecking:   true,
		BorrowChecking: true,
	}
	var stdout, stderr bytes.Buffer
	ok := Run(cfg, &stdout, &stderr)
	return strings.TrimSpace(stdout.String()), ok
}

// agrees checks the §8 property that the interpreter and the x86/JIT backend
// return the same integer for the same program.
func agrees(t *testing.T, src string) {
	t.Helper()
	want, ok := runBackend(t, src, BackendInterp)
	if !ok {
		t.Fatalf("interpreter backend failed on %q", src)
	}
	got, ok := runBackend(t, src, BackendX86)
	if !ok {
		t.Fatalf("x86 backend failed on %q", src)
	}
	if got != want {
		t.Fatalf("backends disagree on %q: interp=%s x86=%s", src, want, got)
	}
}

// TestInterpAndX86AgreeOnWorkedScenarios seeds the §8 table of concrete
// end-to-end scenarios in both the tail-expression form §8 itself uses (a
// function body's last statement is its value, no `return` needed) and an
// explicit-`return` rendering of the same program, per DESIGN.md's "Block
// value vs. explicit return" entry.
func TestInterpAndX86AgreeOnWorkedScenarios(t *testing.T) {
	scenarios := []string{
		// scenario 1
		`fn main() -> i32 { 7 + 2 * 3 }`,
		`fn main() -> i32 { return 7 + 2 * 3; }`,
		// scenario 2
		`fn main() -> i32 { let x: i32 = 10; let y: i32 = 4; x - y }`,
		`fn main() -> i32 { let x: i32 = 10; let y: i32 = 4; return x - y; }`,
		// scenario 3 — an if/else used for its value, both as a tail
		// expression and as an explicit return of a value-position if.
		`fn main() -> i32 { if 3 < 5 { 1 } else { 0 } }`,
		`fn main() -> i32 { return if 3 < 5 { 1 } else { 9 }; }`,
		`fn main() -> i32 { if 3 < 5 { return 1; } return 0; }`,
		// scenario 4
		`fn fib(n: i32) -> i32 { if n < 2 { n } else { fib(n-1) + fib(n-2) } }
		 fn main() -> i32 { fib(10) }`,
		`fn fib(n: i32) -> i32 { if n < 2 { return n; } return fib(n-1) + fib(n-2); }
		 fn main() -> i32 { return fib(10); }`,
		// scenario 5
		`fn main() -> i32 {
			let mut i: i32 = 0;
			let mut s: i32 = 0;
			while i < 5 { s = s + i; i = i + 1; }
			s
		 }`,
		`fn main() -> i32 {
			let mut i: i32 = 0;
			let mut s: i32 = 0;
			while i < 5 { s = s + i; i = i + 1; }
			return s;
		 }`,
		// a let initializer taking its value from an if/else, exercising the
		// same tailTarget machinery from a nested (non-function-body) position.
		`fn main() -> i32 { let x: i32 = if 1 == 1 { 4 } else { 5 }; x + 1 }`,
	}
	for _, src := range scenarios {
		t.Run(src, func(t *testing.T) { agrees(t, src) })
	}
}

// TestInterpAndX86AgreeOnDivisionByZero exercises §8 scenario 6, whose table
// records the JIT's expected exit code as "N/A (code gen also traps)": the
// interpreter refuses with InvalidExpression, and the x86 backend's
// SIGTRAP (see funcbuilder.go's Div/Mod zero check) halts the process
// before idiv rather than returning any comparable value, so only the
// interpreter side of the disagreement is actually observable from Go —
// invoking the x86/JIT path here would trap this very test binary.
func TestInterpAndX86AgreeOnDivisionByZero(t *testing.T) {
	src := `fn main() -> i32 { return 10 / 0; }`
	if _, ok := runBackend(t, src, BackendInterp); ok {
		t.Fatalf("expected the interpreter to trap on division by zero")
	}
}

// FuzzInterpAndX86Agree generates small well-typed arithmetic programs from a
// fixed grammar of operators and operands and checks that the interpreter and
// the x86/JIT backend compute the same result, per §8 property 2. Mutating
// any of the integer bytes below biases the generated constants/operators;
// a crash or a reported mismatch is the signal this test is built to catch.
func FuzzInterpAndX86Agree(f *testing.F) {
	f.Add(int8(7), int8(2), int8(3), uint8(0))
	f.Add(int8(10), int8(4), int8(0), uint8(1))
	f.Add(int8(-5), int8(3), int8(2), uint8(2))
	f.Add(int8(0), int8(0), int8(0), uint8(3))
	f.Add(int8(100), int8(-7), int8(5), uint8(4))

	ops := []string{"+", "-", "*", "<", ">", "<=", ">="}

	f.Fuzz(func(t *testing.T, a, b, c int8, opSel uint8) {
		op1 := ops[int(opSel)%len(ops)]
		op2 := ops[int(opSel/uint8(len(ops)))%len(ops)]
		src := fmt.Sprintf(
			`fn main() -> i32 { let x: i32 = %d; let y: i32 = %d; let z: i32 = %d; return (x %s y) %s z; }`,
			a, b, c, op1, op2,
		)

		want, ok := runBackend(t, src, BackendInterp)
		if !ok {
			// A well-typed arithmetic program with no division never traps
			// in the interpreter; a failure here means the grammar produced
			// something the type checker rejects, which this fuzz target
			// isn't meant to explore.
			t.Skip("program failed to type-check or interpret")
		}
		got, ok := runBackend(t, src, BackendX86)
		if !ok {
			t.Fatalf("x86 backend failed on %q where the interpreter succeeded", src)
		}
		if got != want {
			t.Fatalf("backends disagree on %q: interp=%s x86=%s", src, want, got)
		}
	})
}
