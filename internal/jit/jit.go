// Package jit allocates an executable memory region, copies an encoded
// function into it, and invokes it as a native x86-64 entry point. The
// mmap-then-mprotect shape (allocate writable, flip to executable, never
// both at once) is grounded on
// other_examples/33950481_launix-de-memcp__scm-jit.go.go's allocExec /
// execBuf.makeRX pair; this package replaces its raw syscall calls with
// golang.org/x/sys so the same code compiles on every platform the loader
// needs to target.
package jit

import "fmt"

// Code is a loaded, page-aligned executable region. The zero value is not
// usable; construct one with Allocate.
type Code struct {
	mem       []byte
	size      int
	finalized bool
}

// Allocate reserves a writable memory region at least len(code) bytes long
// and copies code into it. The region is not yet executable; call Finalize
// before Execute.
func Allocate(code []byte) (*Code, error) {
	if len(code) == 0 {
		return nil, fmt.Errorf("jit: cannot allocate zero-length code")
	}
	mem, err := allocate(len(code))
	if err != nil {
		return nil, fmt.Errorf("jit: allocate: %w", err)
	}
	copy(mem, code)
	return &Code{mem: mem, size: len(code)}, nil
}

// Finalize transitions the region from writable to executable, enforcing
// W^X: the page is never both writable and executable at once. No explicit
// instruction-cache flush is issued; only the page protection changes.
func (c *Code) Finalize() error {
	if c.finalized {
		return nil
	}
	if err := protectExecutable(c.mem); err != nil {
		return fmt.Errorf("jit: finalize: %w", err)
	}
	c.finalized = true
	return nil
}

// Execute calls the loaded code as a niladic function returning a 32-bit
// signed integer, the source language's only native ABI shape.
func (c *Code) Execute() (int32, error) {
	if !c.finalized {
		return 0, fmt.Errorf("jit: Execute called before Finalize")
	}
	return callEntryPoint(c.mem), nil
}

// Release returns the region to the OS. Code must not be used afterward.
func (c *Code) Release() error {
	if err := release(c.mem); err != nil {
		return fmt.Errorf("jit: release: %w", err)
	}
	c.mem = nil
	return nil
}
