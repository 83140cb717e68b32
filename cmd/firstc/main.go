// Command firstc is the compiler/interpreter entry point: a small
// subcommand-based CLI wrapping internal/driver, in the shape
// informatter-nilan's cmd_run.go/cmd_repl.go/cmd_emit_bytecode.go lay out,
// generalized from one hardcoded interpreter to the full interp/x86-JIT
// backend choice spec.md §6 describes.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&runCmd{}, "")
	subcommands.Register(&replCmd{}, "")
	subcommands.Register(&emitCmd{}, "")
	subcommands.Register(&versionCmd{}, "")

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}
