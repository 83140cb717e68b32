package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"firstc/internal/borrowck"
	"firstc/internal/driver"
	"firstc/internal/intrinsics"
	"firstc/internal/ir"
	"firstc/internal/lexer"
	"firstc/internal/parser"
	"firstc/internal/typeck"
	"firstc/internal/x86"
)

// emitCmd lowers a source file to IR and machine code and writes both to
// stdout without executing anything, the ahead-of-time inspection path
// informatter-nilan's emitBytecodeCmd covers for its own bytecode format.
type emitCmd struct {
	what string
}

func (*emitCmd) Name() string     { return "emit" }
func (*emitCmd) Synopsis() string { return "print the IR and machine code for a source file" }
func (*emitCmd) Usage() string {
	return `emit [-what=ir|asm|both] <file>:
  Compile a file through the x86 backend and print the requested artifact
  without running it.
`
}

func (cmd *emitCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&cmd.what, "what", "both", "artifact to print: ir, asm, or both")
}

func (cmd *emitCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 no input file provided\n")
		return subcommands.ExitUsageError
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to read file: %v\n", err)
		return subcommands.ExitFailure
	}

	lex := lexer.New(string(data))
	tokens, err := lex.Scan()
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 lexing error: %v\n", err)
		return subcommands.ExitFailure
	}
	p := parser.Make(tokens, args[0])
	file, errs := p.Parse()
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e)
		}
		return subcommands.ExitFailure
	}
	file.Items = append(file.Items, intrinsics.Items()...)

	tctx := typeck.NewContext()
	if errs := typeck.CheckFileErrors(tctx, file); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e)
		}
		return subcommands.ExitFailure
	}
	if errs := borrowck.CheckFileErrors(file); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e)
		}
		return subcommands.ExitFailure
	}

	prog := ir.Build(file)
	if cmd.what == "ir" || cmd.what == "both" {
		fmt.Fprintln(os.Stdout, driver.DumpIR(prog))
	}

	if cmd.what == "asm" || cmd.what == "both" {
		asm, err := x86.Encode(prog)
		if err != nil {
			fmt.Fprintf(os.Stderr, "💥 encode error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintln(os.Stdout, driver.DumpMachineCode(asm.Code))
	}

	return subcommands.ExitSuccess
}
