package driver

import (
	"fmt"
	"io"
	"os"
	"time"

	"firstc/internal/ast"
	"firstc/internal/borrowck"
	"firstc/internal/interp"
	"firstc/internal/intrinsics"
	"firstc/internal/ir"
	"firstc/internal/jit"
	"firstc/internal/lexer"
	"firstc/internal/parser"
	"firstc/internal/typeck"
	"firstc/internal/x86"
)

// Run drives one compilation unit end to end: lex, parse, gate, lower, and
// either interpret or JIT, per the sequence original_source/src/main.rs's
// run_compiler/run_parsed_code follows. Diagnostics go to stderr; any
// --print artifact goes to stdout. The returned bool is false if any stage
// failed, in which case the caller should exit non-zero.
func Run(cfg Config, stdout, stderr io.Writer) bool {
	file, ok := buildFile(cfg, stderr)
	if !ok {
		return false
	}

	file.Items = append(file.Items, intrinsics.Items()...)

	if cfg.TypeChecking {
		ctx := typeck.NewContext()
		if errs := typeck.CheckFileErrors(ctx, file); len(errs) > 0 {
			reportErrors(stderr, cfg.Color, errs)
			return false
		}
	}

	if cfg.BorrowChecking {
		if errs := borrowck.CheckFileErrors(file); len(errs) > 0 {
			reportErrors(stderr, cfg.Color, errs)
			return false
		}
	}

	if !hasMain(file) {
		fmt.Fprintf(stderr, "💥 no main function declared\n")
		return false
	}

	if cfg.CompileTestOnly {
		return true
	}

	if cfg.Print == PrintAST {
		out, err := parser.PrintJSON(file)
		if err != nil {
			fmt.Fprintf(stderr, "💥 %v\n", err)
			return false
		}
		fmt.Fprintln(stdout, out)
	}

	start := time.Now()
	result, err := execute(cfg, file, stdout, stderr)
	if cfg.Profile {
		fmt.Fprintf(stderr, "⏱ elapsed: %s\n", time.Since(start))
	}
	if err != nil {
		fmt.Fprintf(stderr, "💥 %v\n", err)
		return false
	}
	fmt.Fprintln(stdout, result)
	return true
}

// buildFile concatenates the -r inline snippet (if any) with the parsed
// input file, exactly as main.rs's dual entry paths do.
func buildFile(cfg Config, stderr io.Writer) (ast.File, bool) {
	var file ast.File
	var allErrs []error

	if cfg.Run != "" {
		snippet, errs := parseSource(cfg.Run, "<run>")
		allErrs = append(allErrs, errs...)
		file.Items = append(file.Items, snippet.Items...)
	}

	if cfg.Input != "" {
		data, err := os.ReadFile(cfg.Input)
		if err != nil {
			fmt.Fprintf(stderr, "💥 failed to read file: %v\n", err)
			return file, false
		}
		parsed, errs := parseSource(string(data), cfg.Input)
		allErrs = append(allErrs, errs...)
		file.Items = append(file.Items, parsed.Items...)
	}

	if len(allErrs) > 0 {
		reportErrors(stderr, cfg.Color, allErrs)
		return file, false
	}
	return file, true
}

func parseSource(src, filename string) (ast.File, []error) {
	lex := lexer.New(src)
	tokens, err := lex.Scan()
	if err != nil {
		return ast.File{}, []error{fmt.Errorf("lexing %s: %w", filename, err)}
	}
	p := parser.Make(tokens, filename)
	return p.Parse()
}

func hasMain(file ast.File) bool {
	for _, item := range file.Items {
		if fn, ok := item.(ast.Fn); ok && fn.Ident.String() == "main" {
			return true
		}
	}
	return false
}

// reportErrors prints one diagnostic per line, wrapping each in red when
// color forces it on (never auto-detects a terminal, matching the
// teacher's plain-stderr diagnostics — only an explicit --color=always/
// always-ansi opts in).
func reportErrors(stderr io.Writer, color ColorChoice, errs []error) {
	const red, reset = "\x1b[31m", "\x1b[0m"
	for _, e := range errs {
		if color == ColorAlways || color == ColorAlwaysAnsi {
			fmt.Fprintf(stderr, "%s%s%s\n", red, e, reset)
		} else {
			fmt.Fprintln(stderr, e)
		}
	}
}

// execute dispatches to the selected Backend and returns the program's exit
// value as a string, matching the source language's sole i32 ABI shape.
func execute(cfg Config, file ast.File, stdout, stderr io.Writer) (string, error) {
	switch cfg.Backend {
	case BackendX86:
		return executeX86(cfg, file, stdout, stderr)
	default:
		it := interp.New(file)
		val, err := it.Run()
		if err != nil {
			return "", err
		}
		return val.String(), nil
	}
}

func executeX86(cfg Config, file ast.File, stdout, stderr io.Writer) (string, error) {
	prog := ir.Build(file)

	if cfg.Print == PrintIR {
		fmt.Fprintln(stdout, DumpIR(prog))
	}

	asm, err := x86.Encode(prog)
	if err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}

	if cfg.Print == PrintAssembly || cfg.Print == PrintMachineCode {
		fmt.Fprintln(stdout, DumpMachineCode(asm.Code))
	}

	code, err := jit.Allocate(asm.Code)
	if err != nil {
		return "", fmt.Errorf("jit allocate: %w", err)
	}
	defer code.Release()

	if err := code.Finalize(); err != nil {
		return "", fmt.Errorf("jit finalize: %w", err)
	}

	ret, err := code.Execute()
	if err != nil {
		return "", fmt.Errorf("jit execute: %w", err)
	}
	return fmt.Sprintf("%d", ret), nil
}
