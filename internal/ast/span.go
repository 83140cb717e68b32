package ast

import "fmt"

// Span identifies a region of source text for diagnostics. It never affects
// semantics — two otherwise-identical nodes with different spans behave
// identically.
type Span struct {
	File   string
	Offset int
	Length int
	Line   int32
	Column int
}

// String renders a Span as "file:line:column" for error messages.
func (s Span) String() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}
