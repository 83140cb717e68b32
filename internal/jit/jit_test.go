//go:build !windows

package jit

import "testing"

// handAssembled is `mov eax, 42; ret` — the smallest possible niladic
// function returning a constant, used to exercise the allocate/finalize/
// execute/release cycle without depending on internal/x86.
var handAssembled = []byte{0xb8, 0x2a, 0x00, 0x00, 0x00, 0xc3}

func TestAllocateFinalizeExecuteRelease(t *testing.T) {
	code, err := Allocate(handAssembled)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if err := code.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	got, err := code.Execute()
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
	if err := code.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
}

func TestExecuteBeforeFinalizeErrors(t *testing.T) {
	code, err := Allocate(handAssembled)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	defer code.Release()
	if _, err := code.Execute(); err == nil {
		t.Fatalf("expected Execute before Finalize to error")
	}
}

func TestAllocateRejectsEmptyCode(t *testing.T) {
	if _, err := Allocate(nil); err == nil {
		t.Fatalf("expected Allocate(nil) to error")
	}
}
