package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"github.com/mvarga/glox/pkg/chunk"
	"github.com/mvarga/glox/pkg/vm"
)

type replCommand struct {
	trace  bool
	disasm bool
}

func (*replCommand) Name() string     { return "repl" }
func (*replCommand) Synopsis() string { return "start an interactive glox session" }
func (*replCommand) Usage() string {
	return `repl [-trace] [-disasm]:
  Read expressions from stdin one at a time, compile and run each on a
  persistent VM, and print its result. A compile or runtime error is
  reported to stderr and the REPL continues with the next line.
`
}

func (c *replCommand) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.trace, "trace", false, "print each instruction as it executes")
	f.BoolVar(&c.disasm, "disasm", false, "print the disassembled chunk before running it")
}

func (c *replCommand) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rl, err := readline.New("glox> ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	machine := vm.New()
	machine.TraceExecution = c.trace

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return subcommands.ExitSuccess
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}

		if line == "" {
			continue
		}

		if c.disasm {
			compiled, ok := machine.Compile(line)
			if !ok {
				continue
			}
			chunk.Disassemble(compiled, "repl", os.Stdout)
			machine.InterpretChunk(compiled)
			continue
		}

		machine.Interpret(line)
	}
}
