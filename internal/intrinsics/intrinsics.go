// Package intrinsics supplies the fixed list of foreign functions the driver
// injects into every compilation unit (spec.md §1, §4.D). The core does not
// specify how intrinsics other than debug_break resolve; this package keeps
// the list short and documents each entry's resolution strategy.
package intrinsics

import "firstc/internal/ast"

// DebugBreakName is the well-known symbol the x86 encoder special-cases:
// a call to this function lowers to a bare INT3 rather than a CALL,
// matching spec.md §4.D and GLOSSARY.
const DebugBreakName = "debug_break"

// Items returns the intrinsic Fn declarations appended to every parsed File
// before the type/borrow gates run, mirroring
// original_source/src/main.rs's get_intrinsic_ast_items() call site.
func Items() []ast.Item {
	return []ast.Item{
		ast.Fn{
			Ident:      ast.Intern(DebugBreakName),
			ReturnType: ast.TypeI32,
			IsForeign:  true,
		},
	}
}
