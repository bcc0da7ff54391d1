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

type disasmCommand struct{}

func (*disasmCommand) Name() string     { return "disasm" }
func (*disasmCommand) Synopsis() string { return "compile a file and print its bytecode, without running it" }
func (*disasmCommand) Usage() string {
	return `disasm <file>:
  Compile a glox source file and print its disassembled bytecode. The
  file is never executed (spec.md treats disassembly as diagnostic
  tooling external to the VM core).
`
}

func (*disasmCommand) SetFlags(*flag.FlagSet) {}

func (*disasmCommand) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: glox disasm <file>")
		os.Exit(exitUsageError)
	}

	source, err := os.ReadFile(f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitIOFailure)
	}

	machine := vm.New()
	compiled, ok := machine.Compile(string(source))
	if !ok {
		os.Exit(exitCompileError)
	}

	chunk.Disassemble(compiled, f.Arg(0), os.Stdout)
	os.Exit(exitOK)
	return subcommands.ExitSuccess // unreachable
}
