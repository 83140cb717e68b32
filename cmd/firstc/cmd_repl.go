package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"firstc/internal/ast"
	"firstc/internal/borrowck"
	"firstc/internal/interp"
	"firstc/internal/intrinsics"
	"firstc/internal/lexer"
	"firstc/internal/parser"
	"firstc/internal/typeck"
)

// replCmd is an interactive session: every line is parsed as a standalone
// unit of source, gated the same way a file is, then interpreted. Line
// editing and history come from readline.Instance, replacing the teacher's
// bufio.Scanner loop in main.go/cmd_repl.go now that the module actually
// uses its already-declared readline dependency.
type replCmd struct{}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "start an interactive session" }
func (*replCmd) Usage() string {
	return `repl:
  Start an interactive read-eval-print loop. Type "exit" to quit.
`
}
func (*replCmd) SetFlags(f *flag.FlagSet) {}

func (*replCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rl, err := readline.New(">>> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to start readline: %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	fmt.Fprintln(os.Stdout, "\nfirstc repl — type \"exit\" to quit")
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF || line == "exit" {
			return subcommands.ExitSuccess
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "💥 %v\n", err)
			return subcommands.ExitFailure
		}
		if line == "" {
			continue
		}
		evalLine(line)
	}
}

func evalLine(line string) {
	lex := lexer.New(line)
	tokens, err := lex.Scan()
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 %v\n", err)
		return
	}
	p := parser.Make(tokens, "<repl>")
	file, errs := p.Parse()
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e)
		}
		return
	}
	file.Items = append(file.Items, intrinsics.Items()...)

	ctx := typeck.NewContext()
	if errs := typeck.CheckFileErrors(ctx, file); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e)
		}
		return
	}
	if errs := borrowck.CheckFileErrors(file); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e)
		}
		return
	}

	if !hasMain(file) {
		fmt.Fprintln(os.Stdout, "(no main function on this line; nothing to run)")
		return
	}

	val, err := interp.New(file).Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 %v\n", err)
		return
	}
	fmt.Fprintln(os.Stdout, val)
}

func hasMain(file ast.File) bool {
	for _, item := range file.Items {
		if fn, ok := item.(ast.Fn); ok && fn.Ident.String() == "main" {
			return true
		}
	}
	return false
}
