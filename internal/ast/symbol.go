package ast

import "sync"

// Symbol is an opaque handle into the process-wide string interner. Two
// symbols compare equal if and only if the strings that produced them are
// equal; the underlying integer carries no other meaning.
type Symbol int

var interner = struct {
	mu      sync.Mutex
	strings []string
	lookup  map[string]Symbol
}{lookup: make(map[string]Symbol)}

// Intern returns the Symbol for s, interning it if this is the first time s
// has been seen. The interner has process lifetime: entries are never
// reclaimed. Compilation is single-threaded, but the interner guards its
// storage with a mutex so it stays safe if a future caller parses
// concurrently.
func Intern(s string) Symbol {
	interner.mu.Lock()
	defer interner.mu.Unlock()

	if sym, ok := interner.lookup[s]; ok {
		return sym
	}
	sym := Symbol(len(interner.strings))
	interner.strings = append(interner.strings, s)
	interner.lookup[s] = sym
	return sym
}

// String returns the source text that produced sym.
func (sym Symbol) String() string {
	interner.mu.Lock()
	defer interner.mu.Unlock()
	if int(sym) < 0 || int(sym) >= len(interner.strings) {
		return "<invalid symbol>"
	}
	return interner.strings[sym]
}
