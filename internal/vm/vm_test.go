package vm

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/ccl/internal/cell"
	"github.com/jcorbin/ccl/internal/lang"
	"github.com/jcorbin/ccl/internal/parser"
)

// runSource parses and runs a CCL program, returning the VM for inspection.
// Mirrors the teacher's vmTestCase builder in spirit: a small harness
// wrapped around table-driven scenarios, rather than a literal port of its
// stack/memory-specific helpers (FIRST/THIRD has no notion of named
// variables or procedures for %v-style assertions to target).
func runSource(t *testing.T, src, stdin string) (*VM, string, error) {
	t.Helper()
	prog, err := parser.Parse(src)
	require.NoError(t, err)

	var out bytes.Buffer
	vmachine := New(prog, WithOutput(&out), WithInput(strings.NewReader(stdin)))
	err = vmachine.Run(context.Background())
	return vmachine, out.String(), err
}

func TestScenarioSubtraction(t *testing.T) {
	vmachine, _, err := runSource(t, "^+++ ^++ ~", "")
	require.NoError(t, err)
	assert.Equal(t, []cell.Cell{cell.Of(1)}, vmachine.Stack.Snapshot())
}

func TestScenarioCountedRepeat(t *testing.T) {
	vmachine, _, err := runSource(t, "^ +++ =n ^ n[+]", "")
	require.NoError(t, err)
	assert.Equal(t, []cell.Cell{cell.Of(3)}, vmachine.Stack.Snapshot())
}

func TestScenarioWhileAndExit(t *testing.T) {
	vmachine, _, err := runSource(t, "^ ( + # )", "")
	require.NoError(t, err)
	assert.Equal(t, []cell.Cell{cell.Of(1)}, vmachine.Stack.Snapshot())
}

func TestScenarioCompareTaken(t *testing.T) {
	vmachine, _, err := runSource(t, "^ =a ^ ?a + ;", "")
	require.NoError(t, err)
	assert.Equal(t, []cell.Cell{cell.Of(1)}, vmachine.Stack.Snapshot())
}

func TestScenarioProcedureWithLocals(t *testing.T) {
	vmachine, _, err := runSource(t, "F{ &x $x =y } ^ =y @F", "")
	require.NoError(t, err)
	v, ok := vmachine.Globals["y"]
	require.True(t, ok)
	assert.Equal(t, cell.Of(0), v)
}

func TestScenarioRecursionPreservesOuterLocals(t *testing.T) {
	src := "^ =z ^ ++ =d F{ &n $n + =n $d - =d $d ?z # ; @F $n =o } @F"
	vmachine, _, err := runSource(t, src, "")
	require.NoError(t, err)
	v, ok := vmachine.Globals["o"]
	require.True(t, ok)
	assert.Equal(t, cell.Of(1), v, "the outer frame's local n must survive the same-name recursive call unchanged")
}

func TestIncWrapsAtRangeBoundary(t *testing.T) {
	var src strings.Builder
	src.WriteString("^")
	for i := 0; i < 32768; i++ {
		src.WriteString("+")
	}
	vmachine, _, err := runSource(t, src.String(), "")
	require.NoError(t, err)
	assert.Equal(t, cell.Min, vmachine.Stack.Snapshot()[0])
}

func TestStackUnderflowIsRuntimeError(t *testing.T) {
	_, _, err := runSource(t, "+", "")
	require.Error(t, err)
	var rerr *RuntimeError
	assert.ErrorAs(t, err, &rerr)
}

func TestUndefinedVariableIsRuntimeError(t *testing.T) {
	_, _, err := runSource(t, "$x", "")
	require.Error(t, err)
	var rerr *RuntimeError
	assert.ErrorAs(t, err, &rerr)
}

func TestUndefinedProcedureIsRuntimeError(t *testing.T) {
	_, _, err := runSource(t, "@x", "")
	require.Error(t, err)
}

func TestCreateLocalOutsideProcedureFails(t *testing.T) {
	_, _, err := runSource(t, "&x", "")
	require.Error(t, err)
}

func TestCreateLocalBlankNameFails(t *testing.T) {
	_, _, err := runSource(t, "F{&_} @F", "")
	require.Error(t, err)
	var rerr *RuntimeError
	assert.ErrorAs(t, err, &rerr)
}

func TestContinueOutsideLoopFails(t *testing.T) {
	_, _, err := runSource(t, ":", "")
	require.Error(t, err)
}

func TestReverseTopOutOfRangeFails(t *testing.T) {
	_, _, err := runSource(t, "^ =n $n %n", "")
	require.Error(t, err)
}

func TestReverseWholeStack(t *testing.T) {
	vmachine, _, err := runSource(t, "^ + ^ ++ ^ +++ %_", "")
	require.NoError(t, err)
	assert.Equal(t, []cell.Cell{cell.Of(3), cell.Of(2), cell.Of(1)}, vmachine.Stack.Snapshot())
}

func TestOutputPrintableAndNewline(t *testing.T) {
	// push 13 ('\r'), assign to c, output it (folds to newline); push 65
	// ('A'), assign to c, output it.
	src := "^" + strings.Repeat("+", 13) + " =c <c ^" + strings.Repeat("+", 65) + " =c <c"
	_, out, err := runSource(t, src, "")
	require.NoError(t, err)
	assert.Equal(t, "\nA", out)
}

func TestInputEchoesAndStores(t *testing.T) {
	vmachine, out, err := runSource(t, "^ =k >k", "A")
	require.NoError(t, err)
	assert.Equal(t, "A", out)
	v, ok := vmachine.Globals["k"]
	require.True(t, ok)
	assert.Equal(t, cell.Of('A'), v)
}

func TestInputFoldsETXAndCRToNewline(t *testing.T) {
	vmachine, out, err := runSource(t, "^ =k >k", "\x03")
	require.NoError(t, err)
	assert.Equal(t, "\n", out)
	v, ok := vmachine.Globals["k"]
	require.True(t, ok)
	assert.Equal(t, cell.Of(10), v)

	vmachine, out, err = runSource(t, "^ =k >k", "\r")
	require.NoError(t, err)
	assert.Equal(t, "\n", out)
	v, ok = vmachine.Globals["k"]
	require.True(t, ok)
	assert.Equal(t, cell.Of(10), v)
}

func TestInputRequiresExistingVariable(t *testing.T) {
	_, _, err := runSource(t, ">k", "A")
	require.Error(t, err)
}

func TestRepeatCounterKeyRemovedOnCompletion(t *testing.T) {
	vmachine, _, err := runSource(t, "^ ++ =n ^ n[+]", "")
	require.NoError(t, err)
	for k := range vmachine.Globals {
		assert.NotContains(t, k, "__repeat", "no repeat counter should survive program end")
	}
}

func TestRepeatExitRemovesCounter(t *testing.T) {
	vmachine, _, err := runSource(t, "^ +++ =n n[#+]", "")
	require.NoError(t, err)
	for k := range vmachine.Globals {
		assert.NotContains(t, k, "__repeat")
	}
	assert.Empty(t, vmachine.Stack.Snapshot(), "exit fires before the body's '+' ever runs, and '=n' already emptied the stack")
}

func TestDefineProcedureHasNoRuntimeEffectAtSite(t *testing.T) {
	vmachine, _, err := runSource(t, "F{+} ^", "")
	require.NoError(t, err)
	assert.Equal(t, []cell.Cell{cell.Of(0)}, vmachine.Stack.Snapshot())
	_, ok := vmachine.Procs[lang.NoName]
	assert.False(t, ok)
	_, ok = vmachine.Procs['F']
	assert.True(t, ok)
}
