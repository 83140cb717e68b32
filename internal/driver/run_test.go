package driver

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSource(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.fc")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func TestRunInterpBackend(t *testing.T) {
	path := writeSource(t, `
fn fib(n: i32) -> i32 {
	if n < 2 { return n; }
	return fib(n - 1) + fib(n - 2);
}
fn main() -> i32 { return fib(10); }
`)

	cfg := Config{
		Input:          path,
		Backend:        BackendInterp,
		TypeChecking:   true,
		BorrowChecking: true,
	}
	var stdout, stderr bytes.Buffer
	if ok := Run(cfg, &stdout, &stderr); !ok {
		t.Fatalf("Run failed: %s", stderr.String())
	}
	if got := strings.TrimSpace(stdout.String()); got != "55" {
		t.Fatalf("got %q, want 55", got)
	}
}

func TestRunRejectsTypeErrors(t *testing.T) {
	path := writeSource(t, `fn main() -> i32 { return true; }`)
	cfg := Config{Input: path, Backend: BackendInterp, TypeChecking: true, BorrowChecking: true}
	var stdout, stderr bytes.Buffer
	if ok := Run(cfg, &stdout, &stderr); ok {
		t.Fatalf("expected Run to fail on a type error")
	}
	if stderr.Len() == 0 {
		t.Fatalf("expected a diagnostic on stderr")
	}
}

func TestRunRequiresMain(t *testing.T) {
	path := writeSource(t, `fn helper() -> i32 { return 1; }`)
	cfg := Config{Input: path, Backend: BackendInterp, TypeChecking: true, BorrowChecking: true}
	var stdout, stderr bytes.Buffer
	if ok := Run(cfg, &stdout, &stderr); ok {
		t.Fatalf("expected Run to fail without a main function")
	}
}

func TestRunSnippetConcatenatesWithFile(t *testing.T) {
	path := writeSource(t, `fn main() -> i32 { return helper(); }`)
	cfg := Config{
		Input:          path,
		Run:            `fn helper() -> i32 { return 7; }`,
		Backend:        BackendInterp,
		TypeChecking:   true,
		BorrowChecking: true,
	}
	var stdout, stderr bytes.Buffer
	if ok := Run(cfg, &stdout, &stderr); !ok {
		t.Fatalf("Run failed: %s", stderr.String())
	}
	if got := strings.TrimSpace(stdout.String()); got != "7" {
		t.Fatalf("got %q, want 7", got)
	}
}

func TestCompileTestOnlySkipsExecution(t *testing.T) {
	path := writeSource(t, `fn main() -> i32 { return 1 / 0; }`)
	cfg := Config{
		Input:           path,
		Backend:         BackendInterp,
		TypeChecking:    true,
		BorrowChecking:  true,
		CompileTestOnly: true,
	}
	var stdout, stderr bytes.Buffer
	if ok := Run(cfg, &stdout, &stderr); !ok {
		t.Fatalf("expected --Zcompiletest to stop after the gates without executing: %s", stderr.String())
	}
}
