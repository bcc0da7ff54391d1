// Command glox is the reference CLI wrapping the glox core: a REPL, a
// file runner, a disassembler, and a concurrent batch runner. None of
// this is part of the core under test (spec.md §1 explicitly treats
// CLI dispatch, the REPL loop, file reading, and disassembly output as
// external collaborators) — it exists to exercise the three embedding
// entry points spec.md §6 documents and to preserve the process exit
// conventions listed there.
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
	subcommands.Register(&replCommand{}, "")
	subcommands.Register(&runCommand{}, "")
	subcommands.Register(&disasmCommand{}, "")
	subcommands.Register(&batchCommand{}, "")

	if len(os.Args) == 1 {
		// No subcommand given: behave like the teacher's CLI and drop
		// straight into the REPL.
		os.Args = append(os.Args, "repl")
	}

	flag.Parse()
	ctx := context.Background()

	// The run/disasm/batch commands call os.Exit themselves with the
	// spec's exact convention codes (65/70/0/74) rather than letting
	// subcommands translate its own ExitStatus enum, which has no
	// slot for those values. The repl command never exits from here.
	os.Exit(int(subcommands.Execute(ctx)))
}
