package ast

// File is the top-level parse result: an ordered sequence of Items. The
// driver appends intrinsic items (internal/intrinsics) to this slice before
// the type/borrow gates run.
type File struct {
	Items []Item
}

// Item is a top-level declaration. Fn is the only variant the core language
// grammar produces; intrinsic items injected by the driver are also Fn
// values with IsForeign set.
type Item interface {
	itemNode()
}

// Param is a single function parameter: a name, its declared type, and
// whether it may be reassigned inside the body.
type Param struct {
	Name    Symbol
	Type    Type
	Mutable bool
}

// Fn is a function declaration: identifier, ordered parameters, declared
// return type, and body. IsForeign marks an intrinsic whose body is not
// present in source; ForeignPtr then carries the resolved native address
// (or is left zero when the intrinsic is handled structurally by the
// encoder, as with debug_break).
type Fn struct {
	Ident      Symbol
	Params     []Param
	ReturnType Type
	Body       Block
	IsForeign  bool
	ForeignPtr uintptr
	Span       Span
}

func (Fn) itemNode() {}
