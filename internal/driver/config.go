// Package driver sequences the whole pipeline — parse, typeck, borrowck,
// lower, encode, JIT or interpret — the way
// original_source/src/main.rs's run_compiler/run_parsed_code do, adapted
// into the subcommand shape cmd/firstc exposes.
package driver

// Backend selects which execution strategy runs the checked AST.
type Backend int

const (
	BackendInterp Backend = iota
	BackendX86
)

func (b Backend) String() string {
	if b == BackendX86 {
		return "x86"
	}
	return "interp"
}

// ParseBackend parses the --backend flag value.
func ParseBackend(s string) (Backend, bool) {
	switch s {
	case "interp", "":
		return BackendInterp, true
	case "x86":
		return BackendX86, true
	default:
		return 0, false
	}
}

// Print selects what diagnostic artifact to print before execution.
type Print int

const (
	PrintNone Print = iota
	PrintAST
	PrintIR
	PrintAssembly
	PrintMachineCode
)

// ParsePrint parses the --print flag value.
func ParsePrint(s string) (Print, bool) {
	switch s {
	case "none", "":
		return PrintNone, true
	case "ast":
		return PrintAST, true
	case "ir":
		return PrintIR, true
	case "asm":
		return PrintAssembly, true
	case "machinecode":
		return PrintMachineCode, true
	default:
		return 0, false
	}
}

// ColorChoice mirrors main.rs's ColorChoice: whether diagnostics rendered
// against source spans get ANSI color codes.
type ColorChoice int

const (
	ColorAuto ColorChoice = iota
	ColorAlways
	ColorAlwaysAnsi
	ColorNever
)

// ParseColor parses the --color flag value.
func ParseColor(s string) (ColorChoice, bool) {
	switch s {
	case "auto", "":
		return ColorAuto, true
	case "always":
		return ColorAlways, true
	case "always-ansi":
		return ColorAlwaysAnsi, true
	case "never":
		return ColorNever, true
	default:
		return 0, false
	}
}

// Config carries every flag-derived setting a single compilation needs,
// mirroring original_source/src/main.rs's Config struct.
type Config struct {
	Input          string
	Run            string
	Backend        Backend
	Print          Print
	Color          ColorChoice
	Profile        bool
	TypeChecking   bool
	BorrowChecking bool
	// CompileTestOnly stops the pipeline after the type/borrow gates pass,
	// without lowering or executing anything — --Zcompiletest in main.rs,
	// used to assert a program merely compiles.
	CompileTestOnly bool
}
