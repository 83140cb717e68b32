package parser

import (
	"fmt"

	"firstc/internal/ast"
)

// SyntaxError reports a single parse failure at a source Span. Parsing
// continues after most errors so a single invocation can surface several at
// once, matching the teacher's accumulate-then-abort discipline (spec.md §7).
type SyntaxError struct {
	Span    ast.Span
	Message string
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("💥 syntax error: %s at %s", e.Message, e.Span)
}
