package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/mvarga/glox/pkg/chunk"
	"github.com/mvarga/glox/pkg/vm"
)

// Exit codes, per spec.md §6's process exit conventions.
const (
	exitOK           = 0
	exitUsageError   = 64
	exitCompileError = 65
	exitRuntimeError = 70
	exitIOFailure    = 74
)

type runCommand struct {
	trace  bool
	disasm bool
}

func (*runCommand) Name() string     { return "run" }
func (*runCommand) Synopsis() string { return "compile and run a glox source file" }
func (*runCommand) Usage() string {
	return `run [-trace] [-disasm] <file>:
  Run a single glox source file to completion.
`
}

func (c *runCommand) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.trace, "trace", false, "print each instruction as it executes")
	f.BoolVar(&c.disasm, "disasm", false, "print the disassembled chunk before running it")
}

func (c *runCommand) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: glox run [-trace] [-disasm] <file>")
		os.Exit(exitUsageError)
	}

	source, err := os.ReadFile(f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitIOFailure)
	}

	machine := vm.New()
	machine.TraceExecution = c.trace

	compiled, ok := machine.Compile(string(source))
	if !ok {
		os.Exit(exitCompileError)
	}

	if c.disasm {
		chunk.Disassemble(compiled, f.Arg(0), os.Stdout)
	}

	switch machine.InterpretChunk(compiled) {
	case vm.RuntimeErrorResult:
		os.Exit(exitRuntimeError)
	default:
		os.Exit(exitOK)
	}

	return subcommands.ExitSuccess // unreachable
}
