package vm

import (
	"fmt"

	"github.com/mvarga/glox/pkg/chunk"
)

// traceStep prints the current stack and the instruction about to be
// executed, when TraceExecution is enabled. This is the surviving half
// of the teacher's injectable debugger (pkg/vm/debugger.go in
// kristofer-smog): that debugger's breakpoint/step/watch machinery has
// no referent here since glox has no statement boundaries or call
// frames to pause between — only "show me what's about to run" still
// applies.
func (vm *VM) traceStep() {
	fmt.Fprint(vm.Stderr, "          ")
	for i := 0; i < vm.sp; i++ {
		fmt.Fprintf(vm.Stderr, "[ %s ]", vm.stack[i].String())
	}
	fmt.Fprintln(vm.Stderr)

	chunk.DisassembleInstruction(vm.chunk, vm.ip, vm.Stderr)
}
