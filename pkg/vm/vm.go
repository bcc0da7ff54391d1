package vm

import (
	"fmt"
	"io"
	"os"

	"github.com/mvarga/glox/pkg/chunk"
	"github.com/mvarga/glox/pkg/compiler"
	"github.com/mvarga/glox/pkg/value"
)

// stackMax is the fixed capacity of the VM's value stack. Expressions
// the compiler accepts from the grammar in spec.md never need more
// than this; overflow past it is an accepted hazard this
// implementation does not guard against (see spec.md §5 and §9).
const stackMax = 256

// Result is the three-valued terminal status of an interpretation.
type Result int

const (
	OK Result = iota
	CompileError
	RuntimeErrorResult
)

func (r Result) String() string {
	switch r {
	case OK:
		return "OK"
	case CompileError:
		return "COMPILE_ERROR"
	case RuntimeErrorResult:
		return "RUNTIME_ERROR"
	default:
		return "UNKNOWN"
	}
}

// VM is a stack-based bytecode interpreter. It owns the currently
// executing chunk, an instruction pointer into it, a fixed-capacity
// value stack, and the intrusive list of every heap object it has
// allocated (directly, via string concatenation, or indirectly, via
// the compiler's string constants). A VM is reusable across multiple
// Interpret calls — each call resets the stack — but never safe for
// concurrent or reentrant use from more than one goroutine at a time
// (spec.md §5): give every concurrent tenant its own VM.
type VM struct {
	chunk *chunk.Chunk
	ip    int

	stack [stackMax]value.Value
	sp    int

	objects value.Objects

	// TraceExecution, when true, prints the disassembled instruction
	// and the stack contents before each opcode the run loop executes.
	// Resolves spec.md §9's debug-trace open question as a field
	// instead of a compile-time toggle.
	TraceExecution bool

	Stdout io.Writer
	Stderr io.Writer

	// LastError records the most recent RuntimeError reported, for
	// callers (such as tests) that want the structured diagnostic
	// rather than just its printed form.
	LastError *RuntimeError
}

// New constructs a VM with stdout/stderr wired to os.Stdout/os.Stderr.
// Use the Stdout/Stderr fields directly to redirect output (tests and
// pkg/batch both do this to capture a tenant's output in memory).
func New() *VM {
	return &VM{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Interpret compiles source into a fresh chunk and, on success, runs
// it. The VM's object list is installed before compiling so that any
// string constants the compiler allocates are linked into it; they
// stay there until Close frees the whole list.
func (vm *VM) Interpret(source string) Result {
	vm.resetStack()
	c := chunk.New()

	if !compiler.Compile(source, c, &vm.objects, vm.Stderr) {
		return CompileError
	}

	return vm.InterpretChunk(c)
}

// Compile compiles source into a fresh chunk without running it,
// linking any string constants into this VM's object list exactly as
// Interpret does. Used by callers (the run/repl/disasm CLI commands)
// that want to inspect or disassemble a chunk before — or instead of —
// executing it.
func (vm *VM) Compile(source string) (*chunk.Chunk, bool) {
	c := chunk.New()
	ok := compiler.Compile(source, c, &vm.objects, vm.Stderr)
	return c, ok
}

// InterpretChunk runs an already-compiled chunk directly, without
// invoking the compiler. Used for direct bytecode testing; it can
// never return CompileError.
func (vm *VM) InterpretChunk(c *chunk.Chunk) Result {
	vm.chunk = c
	vm.ip = 0
	vm.resetStack()
	return vm.run()
}

// Close frees every object this VM has ever allocated. Safe to call
// more than once; a VM with Close called on it may still be reused —
// the emptied object list keeps accepting new objects.
func (vm *VM) Close() {
	vm.objects.FreeAll()
}

func (vm *VM) resetStack() {
	vm.sp = 0
}

func (vm *VM) push(v value.Value) {
	vm.stack[vm.sp] = v
	vm.sp++
}

func (vm *VM) pop() value.Value {
	vm.sp--
	return vm.stack[vm.sp]
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[vm.sp-1-distance]
}

// StackSize reports the number of values currently on the stack. Used
// by tests asserting spec.md §8's "stack size is 0 after any terminal
// interpret call" invariant.
func (vm *VM) StackSize() int {
	return vm.sp
}

func (vm *VM) run() Result {
	for {
		if vm.TraceExecution {
			vm.traceStep()
		}

		instruction := chunk.Op(vm.readByte())
		switch instruction {
		case chunk.OpConstant:
			constant := vm.readConstant()
			vm.push(constant)

		case chunk.OpNil:
			vm.push(value.Nil)
		case chunk.OpTrue:
			vm.push(value.Bool(true))
		case chunk.OpFalse:
			vm.push(value.Bool(false))

		case chunk.OpEqual:
			b := vm.pop()
			a := vm.pop()
			vm.push(value.Bool(value.Equal(a, b)))

		case chunk.OpGreater:
			if res, ok := vm.numericCompare(func(a, b float64) bool { return a > b }); ok {
				vm.push(res)
			} else {
				return RuntimeErrorResult
			}

		case chunk.OpLess:
			if res, ok := vm.numericCompare(func(a, b float64) bool { return a < b }); ok {
				vm.push(res)
			} else {
				return RuntimeErrorResult
			}

		case chunk.OpAdd:
			if !vm.add() {
				return RuntimeErrorResult
			}

		case chunk.OpSubtract:
			if !vm.numericBinary(func(a, b float64) float64 { return a - b }) {
				return RuntimeErrorResult
			}

		case chunk.OpMultiply:
			if !vm.numericBinary(func(a, b float64) float64 { return a * b }) {
				return RuntimeErrorResult
			}

		case chunk.OpDivide:
			if !vm.numericBinary(func(a, b float64) float64 { return a / b }) {
				return RuntimeErrorResult
			}

		case chunk.OpNot:
			vm.push(value.Bool(vm.pop().IsFalsey()))

		case chunk.OpNegate:
			if !vm.peek(0).IsNumber() {
				vm.reportRuntimeError("Operand must be a number.")
				return RuntimeErrorResult
			}
			vm.push(value.Number(-vm.pop().AsNumber()))

		case chunk.OpReturn:
			fmt.Fprintf(vm.Stdout, "%s\n", vm.pop().String())
			return OK
		}
	}
}

func (vm *VM) readByte() byte {
	b := vm.chunk.Code[vm.ip]
	vm.ip++
	return b
}

func (vm *VM) readConstant() value.Value {
	return vm.chunk.Constants[vm.readByte()]
}

// numericBinary implements the SUBTRACT/MULTIPLY/DIVIDE family: peek
// both operands, type-check, and only then pop and apply op. The
// operands are popped right-then-left (b then a) since they were
// pushed left-then-right, matching first-push-is-left stack order.
func (vm *VM) numericBinary(op func(a, b float64) float64) bool {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		vm.reportRuntimeError("Operands must be numbers.")
		return false
	}
	b := vm.pop().AsNumber()
	a := vm.pop().AsNumber()
	vm.push(value.Number(op(a, b)))
	return true
}

func (vm *VM) numericCompare(cmp func(a, b float64) bool) (value.Value, bool) {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		vm.reportRuntimeError("Operands must be numbers.")
		return value.Nil, false
	}
	b := vm.pop().AsNumber()
	a := vm.pop().AsNumber()
	return value.Bool(cmp(a, b)), true
}

// add implements OP_ADD's dual dispatch: string concatenation when
// both operands are strings, numeric addition when both are numbers,
// a runtime error otherwise.
func (vm *VM) add() bool {
	switch {
	case vm.peek(0).IsString() && vm.peek(1).IsString():
		b := vm.pop().AsString()
		a := vm.pop().AsString()
		obj := vm.objects.TakeString(a + b)
		vm.push(value.Obj(obj))
		return true
	case vm.peek(0).IsNumber() && vm.peek(1).IsNumber():
		b := vm.pop().AsNumber()
		a := vm.pop().AsNumber()
		vm.push(value.Number(a + b))
		return true
	default:
		vm.reportRuntimeError("Operands must be two numbers or two strings.")
		return false
	}
}

// reportRuntimeError writes the message and source-line diagnostic in
// the shape spec.md §6 specifies, then resets the stack so the VM is
// reusable for the next Interpret call.
func (vm *VM) reportRuntimeError(message string) {
	line := vm.chunk.Lines[vm.ip-1]
	if vm.Stderr != nil {
		fmt.Fprintf(vm.Stderr, "%s\n[line %d] in script\n", message, line)
	}
	vm.LastError = newRuntimeError(message, line)
	vm.resetStack()
}
