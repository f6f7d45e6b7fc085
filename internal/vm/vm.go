// Package vm is the CCL executor: a fetch-execute loop over a call stack of
// Frames, grounded on MainProcedure/Procedure.next_instruction in the
// original interpreter's ccl_internals.py, generalized to Go's explicit
// frame-per-call model per spec.md Design Note 9.
package vm

import (
	"fmt"

	"github.com/jcorbin/ccl/internal/cell"
	"github.com/jcorbin/ccl/internal/flushio"
	"github.com/jcorbin/ccl/internal/lang"
	"github.com/jcorbin/ccl/internal/runeio"
)

// VM holds all state a running Program touches: the shared evaluation
// stack, the global variable map, the defined-procedures table, the call
// stack of Frames, and the host I/O streams.
type VM struct {
	Stack   Stack
	Globals map[string]cell.Cell
	Procs   lang.ProcTable

	root   *Frame
	frames []*Frame

	in  runeio.Reader
	out flushio.WriteFlusher

	logf func(mess string, args ...interface{})

	steps     int
	stepLimit int
}

// New builds a VM ready to run prog's root instructions.
func New(prog *lang.Program, opts ...Option) *VM {
	vm := &VM{
		Globals: make(map[string]cell.Cell),
		Procs:   make(lang.ProcTable),
		root:    newFrame(0, prog.Root),
	}
	Options(defaultOptions, Options(opts...)).apply(vm)
	return vm
}

func (vm *VM) active() *Frame {
	if n := len(vm.frames); n > 0 {
		return vm.frames[n-1]
	}
	return vm.root
}

func (vm *VM) tracef(format string, args ...interface{}) {
	if vm.logf != nil {
		vm.logf(format, args...)
	}
}

// Flush pushes any buffered output to the host stream. The executor calls
// this on block exit back to a procedure's caller, on a blocking read, and
// whenever a frame ends, per spec.md §4.5 "Output buffering"; it does not
// attempt the original interpreter's terminal-clearing redraw, which is
// explicitly out of scope (see SPEC_FULL.md §4.5.1).
func (vm *VM) Flush() error {
	if vm.out == nil {
		return nil
	}
	return vm.out.Flush()
}

// writeRune emits one ASCII code point to stdout, buffered until the next
// Flush.
func (vm *VM) writeRune(code cell.Cell) error {
	_, err := runeio.WriteANSIRune(vm.out, rune(code.Int()))
	return err
}

// lookup resolves a variable for read, locals-first when inside a
// procedure, per spec.md §3 "Variable map".
func (vm *VM) lookup(frame *Frame, name byte) (cell.Cell, bool) {
	if !frame.IsRoot() {
		if v, ok := frame.Locals[string(name)]; ok {
			return v, true
		}
	}
	v, ok := vm.Globals[string(name)]
	return v, ok
}

// assign resolves a variable for write: locals-first if it already exists
// there, else globals, else it is created as a new global. This is the
// `=X` rule; `>X` uses assignExisting instead, which never creates.
func (vm *VM) assign(frame *Frame, name byte, v cell.Cell) {
	key := string(name)
	if !frame.IsRoot() {
		if _, ok := frame.Locals[key]; ok {
			frame.Locals[key] = v
			return
		}
	}
	vm.Globals[key] = v
}

// assignExisting implements `>X`'s stricter rule: X must already exist in
// some scope.
func (vm *VM) assignExisting(frame *Frame, name byte, v cell.Cell, pos lang.Pos) error {
	key := string(name)
	if !frame.IsRoot() {
		if _, ok := frame.Locals[key]; ok {
			frame.Locals[key] = v
			return nil
		}
	}
	if _, ok := vm.Globals[key]; ok {
		vm.Globals[key] = v
		return nil
	}
	return errf(pos, "undefined variable '%c'", name)
}

func (vm *VM) delete(frame *Frame, name byte) bool {
	key := string(name)
	if !frame.IsRoot() {
		if _, ok := frame.Locals[key]; ok {
			delete(frame.Locals, key)
			return true
		}
	}
	if _, ok := vm.Globals[key]; ok {
		delete(vm.Globals, key)
		return true
	}
	return false
}

// repeatKey names a repeat counter's slot in the globals map. It is
// deliberately outside the single-ASCII-letter alphabet a program can
// itself assign to, exactly as the original interpreter's
// f'__repeat{uid}__' string key is (the globals dict there is not
// restricted to single-character keys; see spec.md §3 "Repeat counter").
func repeatKey(uid int) string {
	return fmt.Sprintf("__repeat%d__", uid)
}
