package main

import (
	"fmt"
	"io"

	"github.com/jcorbin/ccl/internal/lang"
)

// dumpProgram implements -showstack: a flat listing of the parsed
// instruction list, including resolved jump targets and nested procedure
// bodies, grounded on the teacher's vmDumper in shape (a writer-backed
// walker over the compiled form) though not in content -- CCL's compiled
// form is a resolved instruction slice, not an addressable memory image.
func dumpProgram(out io.Writer, prog *lang.Program) {
	fmt.Fprintf(out, "# CCL Program Dump\n")
	dumpInstrs(out, "", prog.Root)
}

func dumpInstrs(out io.Writer, indent string, instrs []lang.Instr) {
	for i, instr := range instrs {
		dumpInstr(out, indent, i, instr)
	}
}

func dumpInstr(out io.Writer, indent string, i int, instr lang.Instr) {
	fmt.Fprintf(out, "%s%3d: %s", indent, i, instr.Op)
	if instr.Name != lang.NoName {
		fmt.Fprintf(out, " %c", instr.Name)
	}
	switch instr.Op {
	case lang.OpStartRepeat, lang.OpEndRepeat:
		fmt.Fprintf(out, " -> %d (uid %d)", instr.Jump, instr.RepeatUID)
	case lang.OpEndWhile, lang.OpStartCompare:
		fmt.Fprintf(out, " -> %d", instr.Jump)
	case lang.OpExitBlock, lang.OpContinueBlock:
		fmt.Fprintf(out, " [%s] -> %d", instr.Block, instr.Jump)
	}
	if instr.Pos.Line != 0 {
		fmt.Fprintf(out, "  ; %s", instr.Pos)
	}
	fmt.Fprintln(out)
	if instr.Op == lang.OpDefineProcedure {
		dumpInstrs(out, indent+"    ", instr.Body)
	}
}
