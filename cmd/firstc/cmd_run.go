package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"firstc/internal/driver"
)

// runCmd interprets or JITs a source file, the generalized form of
// informatter-nilan's runCmd/runCompiledCmd pair: one subcommand, backend
// chosen by flag instead of by which command you typed.
type runCmd struct {
	backend        string
	print          string
	color          string
	runSnippet     string
	profile        bool
	noTypeCheck    bool
	noBorrowCheck  bool
	compileTest    bool
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "interpret or JIT-compile a source file" }
func (*runCmd) Usage() string {
	return `run [flags] <file>:
  Execute source code, either with the tree-walking interpreter or the
  x86-64 JIT backend.
`
}

func (r *runCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.backend, "backend", "interp", "execution backend: interp or x86")
	f.StringVar(&r.print, "print", "none", "print an artifact before executing: none, ast, ir, asm, machinecode")
	f.StringVar(&r.color, "color", "auto", "diagnostic color: auto, always, always-ansi, never")
	f.StringVar(&r.runSnippet, "r", "", "inline source appended before the input file")
	f.BoolVar(&r.profile, "profile", false, "report wall-clock execution time on stderr")
	f.BoolVar(&r.noTypeCheck, "Znotypecheck", false, "skip the type-checking gate")
	f.BoolVar(&r.noBorrowCheck, "Znoborrowcheck", false, "skip the borrow-checking gate")
	f.BoolVar(&r.compileTest, "Zcompiletest", false, "stop after the gates pass without executing")
}

func (r *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 && r.runSnippet == "" {
		fmt.Fprintf(os.Stderr, "💥 no input file or -r snippet provided\n")
		return subcommands.ExitUsageError
	}

	backend, ok := driver.ParseBackend(r.backend)
	if !ok {
		fmt.Fprintf(os.Stderr, "💥 unknown backend %q\n", r.backend)
		return subcommands.ExitUsageError
	}
	print, ok := driver.ParsePrint(r.print)
	if !ok {
		fmt.Fprintf(os.Stderr, "💥 unknown --print value %q\n", r.print)
		return subcommands.ExitUsageError
	}
	color, ok := driver.ParseColor(r.color)
	if !ok {
		fmt.Fprintf(os.Stderr, "💥 unknown --color value %q\n", r.color)
		return subcommands.ExitUsageError
	}

	var input string
	if len(args) > 0 {
		input = args[0]
	}

	cfg := driver.Config{
		Input:           input,
		Run:             r.runSnippet,
		Backend:         backend,
		Print:           print,
		Color:           color,
		Profile:         r.profile,
		TypeChecking:    !r.noTypeCheck,
		BorrowChecking:  !r.noBorrowCheck,
		CompileTestOnly: r.compileTest,
	}

	if !driver.Run(cfg, os.Stdout, os.Stderr) {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
