package vm

import (
	"github.com/jcorbin/ccl/internal/cell"
	"github.com/jcorbin/ccl/internal/lang"
)

// Frame is an entry on the call stack: an active procedure with its own
// instruction pointer and locals map. Unlike the original interpreter,
// which clones a Procedure's instruction list and rebinds a shared
// namespace pointer on every call (see DESIGN.md, "Deep-copy on call"),
// a Frame here just holds a reference to the defined Procedure's shared,
// immutable instruction slice plus its own independent state.
type Frame struct {
	Name   byte // 0 for the root frame, which is not a procedure
	Instrs []lang.Instr
	IP     int
	Locals map[string]cell.Cell
}

func (f *Frame) IsRoot() bool { return f.Name == 0 }

func newFrame(name byte, instrs []lang.Instr) *Frame {
	return &Frame{Name: name, Instrs: instrs, Locals: map[string]cell.Cell{}}
}
