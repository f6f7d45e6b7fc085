package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/ccl/internal/cell"
	"github.com/jcorbin/ccl/internal/lang"
	"github.com/jcorbin/ccl/internal/logio"
	"github.com/jcorbin/ccl/internal/parser"
	"github.com/jcorbin/ccl/internal/vm"
)

type nopWriteCloser struct{ *bytes.Buffer }

func (nopWriteCloser) Close() error { return nil }

// runEndToEnd drives src through the whole pipeline -- parse, construct,
// run -- the way the teacher's third_test.go drives THIRD source through
// the full FIRST-built VM.
func runEndToEnd(t *testing.T, src string) *vm.VM {
	t.Helper()
	prog, err := parser.Parse(src)
	require.NoError(t, err)
	machine := vm.New(prog, vm.WithOutput(&bytes.Buffer{}))
	require.NoError(t, machine.Run(context.Background()))
	return machine
}

func TestEndToEndScenarios(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []cell.Cell
	}{
		{"subtraction", "^+++ ^++ ~", []cell.Cell{cell.Of(1)}},
		{"counted repeat", "^ +++ =n ^ n[+]", []cell.Cell{cell.Of(3)}},
		{"while and exit", "^ ( + # )", []cell.Cell{cell.Of(1)}},
		{"compare taken", "^ =a ^ ?a + ;", []cell.Cell{cell.Of(1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			machine := runEndToEnd(t, tc.src)
			assert.Equal(t, tc.want, machine.Stack.Snapshot())
		})
	}
}

func TestDumpProgramListsInstructions(t *testing.T) {
	prog, err := parser.Parse("^+=n")
	require.NoError(t, err)
	var buf bytes.Buffer
	dumpProgram(&buf, prog)
	out := buf.String()
	assert.Contains(t, out, "PushZero")
	assert.Contains(t, out, "Inc")
	assert.Contains(t, out, "Assign n")
	assert.Contains(t, out, "EndProcedure")
}

func TestDumpProgramDescendsIntoProcedureBody(t *testing.T) {
	prog, err := parser.Parse("F{+}")
	require.NoError(t, err)
	var buf bytes.Buffer
	dumpProgram(&buf, prog)
	assert.Contains(t, buf.String(), "DefineProcedure F")
	assert.Contains(t, buf.String(), "      0: Inc", "the body's instruction is listed, indented under its definition")
}

func TestReportErrorFormatsPositionAndCaret(t *testing.T) {
	var buf bytes.Buffer
	log := logio.Logger{}
	log.SetOutput(nopWriteCloser{&buf})

	err := &parser.ParseError{Pos: lang.Pos{Line: 1, Col: 1, Text: "^."}, Msg: "unknown symbol '.'"}
	reportError(&log, err)

	out := buf.String()
	assert.Contains(t, out, "unknown symbol")
	assert.Contains(t, out, "^.")
	assert.Equal(t, 1, log.ExitCode())
}

func TestReportErrorWithoutPositionStillLogs(t *testing.T) {
	var buf bytes.Buffer
	log := logio.Logger{}
	log.SetOutput(nopWriteCloser{&buf})

	reportError(&log, context.Canceled)

	assert.Contains(t, buf.String(), "context canceled")
	assert.Equal(t, 1, log.ExitCode())
}
