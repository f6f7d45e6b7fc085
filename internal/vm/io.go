package vm

import (
	"github.com/jcorbin/ccl/internal/cell"
	"github.com/jcorbin/ccl/internal/lang"
)

// isPrintableOrControl reports whether v is a code `<X`/`>X` may touch:
// printable ASCII (32-126), tab (9), LF (10), or the two codes the
// original interpreter folds onto newline, ETX (3) and CR (13).
func isPrintableOrControl(v int) bool {
	if v >= 32 && v <= 126 {
		return true
	}
	switch v {
	case 3, 9, 10, 13:
		return true
	}
	return false
}

func (vm *VM) execOut(frame *Frame, instr *lang.Instr) error {
	v, ok := vm.lookup(frame, instr.Name)
	if !ok {
		return errf(instr.Pos, "undefined variable '%c'", instr.Name)
	}
	code := v.Int()
	if !isPrintableOrControl(code) {
		return errf(instr.Pos, "non-printable output code %d", code)
	}
	if code == 3 || code == 13 {
		code = 10
	}
	return vm.writeRune(cell.Of(code))
}

func (vm *VM) execIn(frame *Frame, instr *lang.Instr) error {
	if err := vm.Flush(); err != nil {
		return err
	}
	r, _, err := vm.in.ReadRune()
	if err != nil {
		return errf(instr.Pos, "input read failed: %v", err)
	}
	code := int(r)
	if !isPrintableOrControl(code) {
		return errf(instr.Pos, "non-printable input code %d", code)
	}
	if code == 3 || code == 13 {
		code = 10
	}
	if err := vm.assignExisting(frame, instr.Name, cell.Of(code), instr.Pos); err != nil {
		return err
	}
	return vm.writeRune(cell.Of(code))
}
