package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// version is set at build time via -ldflags "-X main.version=...";
// main.rs's -V/--version prints a static string the same way.
var version = "dev"

type versionCmd struct{}

func (*versionCmd) Name() string     { return "version" }
func (*versionCmd) Synopsis() string { return "print the firstc version" }
func (*versionCmd) Usage() string    { return "version:\n  Print the firstc version.\n" }
func (*versionCmd) SetFlags(f *flag.FlagSet) {}

func (*versionCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	fmt.Fprintf(os.Stdout, "firstc %s\n", version)
	return subcommands.ExitSuccess
}
