package vm_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvarga/glox/pkg/vm"
)

func run(t *testing.T, source string) (string, string, vm.Result, *vm.VM) {
	t.Helper()
	machine := vm.New()
	var out, errs bytes.Buffer
	machine.Stdout = &out
	machine.Stderr = &errs
	result := machine.Interpret(source)
	return out.String(), errs.String(), result, machine
}

func TestSimpleAddition(t *testing.T) {
	out, _, result, machine := run(t, "1 + 2")
	assert.Equal(t, vm.OK, result)
	assert.Equal(t, "3\n", out)
	assert.Equal(t, 0, machine.StackSize())
}

func TestGroupingNegateAndSubtract(t *testing.T) {
	out, _, result, machine := run(t, "(-1 + 2) * 3 - -4")
	assert.Equal(t, vm.OK, result)
	assert.Equal(t, "7\n", out)
	assert.Equal(t, 0, machine.StackSize())
}

func TestComparisonAndLogicCompose(t *testing.T) {
	out, _, result, _ := run(t, "!(5 - 4 > 3 * 2 == !nil)")
	assert.Equal(t, vm.OK, result)
	assert.Equal(t, "true\n", out)
}

func TestStringConcatenation(t *testing.T) {
	out, _, result, _ := run(t, `"foo" + "bar"`)
	assert.Equal(t, vm.OK, result)
	assert.Equal(t, "foobar\n", out)
}

func TestStringEquality(t *testing.T) {
	out, _, result, _ := run(t, `"abc" == "abc"`)
	assert.Equal(t, vm.OK, result)
	assert.Equal(t, "true\n", out)
}

func TestCrossKindEqualityIsAlwaysFalse(t *testing.T) {
	out, _, result, _ := run(t, `"1" == 1`)
	assert.Equal(t, vm.OK, result)
	assert.Equal(t, "false\n", out)
}

func TestNegateNonNumberIsARuntimeError(t *testing.T) {
	_, errs, result, machine := run(t, "-true")
	assert.Equal(t, vm.RuntimeErrorResult, result)
	assert.Contains(t, errs, "Operand must be a number.")
	require.NotNil(t, machine.LastError)
	assert.Equal(t, "Operand must be a number.", machine.LastError.Message)
	assert.Equal(t, 0, machine.StackSize(), "a runtime error resets the stack")
}

func TestAddingBooleansIsARuntimeError(t *testing.T) {
	_, errs, result, _ := run(t, "true + false")
	assert.Equal(t, vm.RuntimeErrorResult, result)
	assert.Contains(t, errs, "Operands must be two numbers or two strings.")
}

func TestSubtractingBooleansIsARuntimeError(t *testing.T) {
	_, errs, result, _ := run(t, "true - false")
	assert.Equal(t, vm.RuntimeErrorResult, result)
	assert.Contains(t, errs, "Operands must be numbers.")
}

func TestEmptySourceIsACompileError(t *testing.T) {
	_, _, result, machine := run(t, "")
	assert.Equal(t, vm.CompileError, result)
	assert.Equal(t, 0, machine.StackSize())
}

func TestUnclosedParenIsACompileError(t *testing.T) {
	_, _, result, _ := run(t, "(1 + 2")
	assert.Equal(t, vm.CompileError, result)
}

func TestUnexpectedCharacterIsACompileError(t *testing.T) {
	_, _, result, _ := run(t, "@")
	assert.Equal(t, vm.CompileError, result)
}

func TestUnterminatedStringIsACompileError(t *testing.T) {
	_, _, result, _ := run(t, `"oops`)
	assert.Equal(t, vm.CompileError, result)
}

func TestResultStringNames(t *testing.T) {
	assert.Equal(t, "OK", vm.OK.String())
	assert.Equal(t, "COMPILE_ERROR", vm.CompileError.String())
	assert.Equal(t, "RUNTIME_ERROR", vm.RuntimeErrorResult.String())
}

func TestVMIsReusableAcrossInterpretCalls(t *testing.T) {
	machine := vm.New()
	var out bytes.Buffer
	machine.Stdout = &out
	machine.Stderr = &bytes.Buffer{}

	require.Equal(t, vm.OK, machine.Interpret("1 + 1"))
	require.Equal(t, vm.OK, machine.Interpret("2 + 2"))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "2", lines[0])
	assert.Equal(t, "4", lines[1])
	assert.Equal(t, 0, machine.StackSize())
}

func TestTraceExecutionWritesToStderr(t *testing.T) {
	machine := vm.New()
	var out, errs bytes.Buffer
	machine.Stdout = &out
	machine.Stderr = &errs
	machine.TraceExecution = true

	result := machine.Interpret("1 + 2")
	assert.Equal(t, vm.OK, result)
	assert.NotEmpty(t, errs.String(), "trace output should land on stderr")
}

func TestCloseFreesObjectsAndVMStaysUsable(t *testing.T) {
	machine := vm.New()
	var out bytes.Buffer
	machine.Stdout = &out
	machine.Stderr = &bytes.Buffer{}

	require.Equal(t, vm.OK, machine.Interpret(`"a" + "b"`))
	machine.Close()

	require.Equal(t, vm.OK, machine.Interpret(`"c" + "d"`))
}
