package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/mvarga/glox/pkg/batch"
	"github.com/mvarga/glox/pkg/vm"
)

type batchCommand struct{}

func (*batchCommand) Name() string { return "batch" }
func (*batchCommand) Synopsis() string {
	return "run several glox files concurrently, one VM per file"
}
func (*batchCommand) Usage() string {
	return `batch <file>...:
  Compile and run each file concurrently on its own VM, then print
  each file's stdout/stderr in file order.
`
}

func (*batchCommand) SetFlags(*flag.FlagSet) {}

func (*batchCommand) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: glox batch <file>...")
		os.Exit(exitUsageError)
	}

	sources := make([]string, f.NArg())
	for i, name := range f.Args() {
		contents, err := os.ReadFile(name)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitIOFailure)
		}
		sources[i] = string(contents)
	}

	results, err := batch.Run(ctx, sources)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitRuntimeError)
	}

	for i, r := range results {
		fmt.Printf("== %s (%s) ==\n", f.Args()[i], r.Status)
		os.Stdout.WriteString(r.Stdout)
		os.Stderr.WriteString(r.Stderr)
	}

	switch batch.WorstStatus(results) {
	case vm.CompileError:
		os.Exit(exitCompileError)
	case vm.RuntimeErrorResult:
		os.Exit(exitRuntimeError)
	default:
		os.Exit(exitOK)
	}

	return subcommands.ExitSuccess // unreachable
}
