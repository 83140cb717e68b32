//go:build !windows

package jit

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

func pageRoundUp(size int) int {
	page := unix.Getpagesize()
	return (size + page - 1) &^ (page - 1)
}

func allocate(size int) ([]byte, error) {
	n := pageRoundUp(size)
	mem, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, err
	}
	return mem, nil
}

func protectExecutable(mem []byte) error {
	return unix.Mprotect(mem, unix.PROT_READ|unix.PROT_EXEC)
}

func release(mem []byte) error {
	return unix.Munmap(mem)
}

// callEntryPoint treats the first byte of mem as a niladic C-calling-
// convention function returning a 32-bit signed integer and invokes it.
func callEntryPoint(mem []byte) int32 {
	type entryFn func() int32
	fnPtr := unsafe.Pointer(&mem[0])
	fn := *(*entryFn)(unsafe.Pointer(&fnPtr))
	return fn()
}
