//go:build windows

package jit

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

func allocate(size int) ([]byte, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size), nil
}

func protectExecutable(mem []byte) error {
	var old uint32
	return windows.VirtualProtect(uintptr(unsafe.Pointer(&mem[0])), uintptr(len(mem)), windows.PAGE_EXECUTE_READ, &old)
}

func release(mem []byte) error {
	addr := uintptr(unsafe.Pointer(&mem[0]))
	return windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
}

// callEntryPoint treats the first byte of mem as a niladic function
// returning a 32-bit signed integer and invokes it.
func callEntryPoint(mem []byte) int32 {
	type entryFn func() int32
	fnPtr := unsafe.Pointer(&mem[0])
	fn := *(*entryFn)(unsafe.Pointer(&fnPtr))
	return fn()
}
