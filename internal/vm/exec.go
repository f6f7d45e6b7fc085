package vm

import (
	"context"

	"github.com/jcorbin/ccl/internal/cell"
	"github.com/jcorbin/ccl/internal/lang"
)

// Run drives the fetch-execute loop until the program ends (root frame
// returns) or ctx is cancelled. It returns a *RuntimeError, a context
// error, an error from writing or flushing output, or nil.
func (vm *VM) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		vm.steps++
		if vm.stepLimit > 0 && vm.steps > vm.stepLimit {
			return errf(vm.active().pos(), "step limit exceeded")
		}

		frame := vm.active()
		if frame.IP >= len(frame.Instrs) {
			// Every instruction list ends in an OpEndProcedure sentinel;
			// reaching past it would be a parser bug, not a user error.
			return errf(lang.Pos{}, "instruction pointer ran off the end of %q", frameLabel(frame))
		}
		instr := &frame.Instrs[frame.IP]
		vm.tracef("%s %s %s", frameLabel(frame), instr.Op, instr.Pos)

		sig, err := vm.step(frame, instr)
		if err != nil {
			return err
		}

		switch sig {
		case sigNone:
			frame.IP++

		case sigCall:
			// the callee frame is already pushed; the caller's IP stays
			// put, to be advanced past the call site on return.

		case sigReturn:
			if len(vm.frames) == 0 {
				return vm.Flush()
			}
			vm.frames = vm.frames[:len(vm.frames)-1]
			if err := vm.Flush(); err != nil {
				return err
			}
			vm.active().IP++
		}
	}
}

func frameLabel(f *Frame) string {
	if f.IsRoot() {
		return "root"
	}
	return string(f.Name)
}

func (f *Frame) pos() lang.Pos {
	if f.IP < len(f.Instrs) {
		return f.Instrs[f.IP].Pos
	}
	return lang.Pos{}
}

// step executes one instruction against frame, mutating vm and frame as
// needed, and reports what the executor should do with frame.IP next.
func (vm *VM) step(frame *Frame, instr *lang.Instr) (signal, error) {
	switch instr.Op {
	case lang.OpPushZero:
		vm.Stack.Push(cell.Zero)
		return sigNone, nil

	case lang.OpInc:
		top, ok := vm.Stack.Pop()
		if !ok {
			return sigNone, errf(instr.Pos, "stack underflow")
		}
		vm.Stack.Push(top.Inc())
		return sigNone, nil

	case lang.OpDec:
		top, ok := vm.Stack.Pop()
		if !ok {
			return sigNone, errf(instr.Pos, "stack underflow")
		}
		vm.Stack.Push(top.Dec())
		return sigNone, nil

	case lang.OpPopAdd:
		a, top, ok := vm.popTwo()
		if !ok {
			return sigNone, errf(instr.Pos, "stack underflow: need 2 cells")
		}
		vm.Stack.Push(top.Add(a))
		return sigNone, nil

	case lang.OpPopSub:
		a, top, ok := vm.popTwo()
		if !ok {
			return sigNone, errf(instr.Pos, "stack underflow: need 2 cells")
		}
		vm.Stack.Push(top.Sub(a))
		return sigNone, nil

	case lang.OpAssign:
		v, ok := vm.Stack.Pop()
		if !ok {
			return sigNone, errf(instr.Pos, "stack underflow")
		}
		if instr.Name != lang.NoName {
			vm.assign(frame, instr.Name, v)
		}
		return sigNone, nil

	case lang.OpCreateLocal:
		if instr.Name == lang.NoName {
			return sigNone, errf(instr.Pos, "'&_' has no name to create")
		}
		if frame.IsRoot() {
			return sigNone, errf(instr.Pos, "'&%c' used outside a procedure", instr.Name)
		}
		frame.Locals[string(instr.Name)] = cell.Zero
		return sigNone, nil

	case lang.OpDelete:
		if !vm.delete(frame, instr.Name) {
			return sigNone, errf(instr.Pos, "undefined variable '%c'", instr.Name)
		}
		return sigNone, nil

	case lang.OpPushVar:
		v, ok := vm.lookup(frame, instr.Name)
		if !ok {
			return sigNone, errf(instr.Pos, "undefined variable '%c'", instr.Name)
		}
		vm.Stack.Push(v)
		return sigNone, nil

	case lang.OpReverse:
		if instr.Name == lang.NoName {
			vm.Stack.ReverseAll()
			return sigNone, nil
		}
		v, ok := vm.lookup(frame, instr.Name)
		if !ok {
			return sigNone, errf(instr.Pos, "undefined variable '%c'", instr.Name)
		}
		if !vm.Stack.ReverseTop(v.Int()) {
			return sigNone, errf(instr.Pos, "reverse count %d out of range for a stack of %d", v.Int(), vm.Stack.Len())
		}
		return sigNone, nil

	case lang.OpOut:
		return sigNone, vm.execOut(frame, instr)

	case lang.OpIn:
		return sigNone, vm.execIn(frame, instr)

	case lang.OpCall:
		proc, ok := vm.Procs[instr.Name]
		if !ok {
			return sigNone, errf(instr.Pos, "undefined procedure '%c'", instr.Name)
		}
		vm.frames = append(vm.frames, newFrame(instr.Name, proc.Instrs))
		return sigCall, nil

	case lang.OpDefineProcedure:
		vm.Procs[instr.Name] = &lang.Procedure{Name: instr.Name, Instrs: instr.Body}
		return sigNone, nil

	case lang.OpStartRepeat:
		return vm.execStartRepeat(frame, instr)

	case lang.OpEndRepeat:
		return vm.execEndRepeat(frame, instr)

	case lang.OpStartWhile:
		return sigNone, nil

	case lang.OpEndWhile:
		frame.IP = instr.Jump
		return sigNone, nil

	case lang.OpStartCompare:
		top, ok := vm.Stack.Top()
		if !ok {
			return sigNone, errf(instr.Pos, "stack underflow")
		}
		v, ok := vm.lookup(frame, instr.Name)
		if !ok {
			return sigNone, errf(instr.Pos, "undefined variable '%c'", instr.Name)
		}
		if !top.Eq(v) {
			frame.IP = instr.Jump
		}
		return sigNone, nil

	case lang.OpEndCompare:
		return sigNone, nil

	case lang.OpExitBlock:
		return vm.execExitBlock(frame, instr)

	case lang.OpContinueBlock:
		return vm.execContinueBlock(frame, instr)

	case lang.OpEndProcedure:
		return sigReturn, nil
	}
	return sigNone, errf(instr.Pos, "unhandled opcode %s", instr.Op)
}

func (vm *VM) popTwo() (a, top cell.Cell, ok bool) {
	a, ok = vm.Stack.Pop()
	if !ok {
		return
	}
	top, ok = vm.Stack.Pop()
	if !ok {
		vm.Stack.Push(a)
		return cell.Zero, cell.Zero, false
	}
	return a, top, true
}

func (vm *VM) execStartRepeat(frame *Frame, instr *lang.Instr) (signal, error) {
	v, ok := vm.lookup(frame, instr.Name)
	if !ok {
		return sigNone, errf(instr.Pos, "undefined variable '%c'", instr.Name)
	}
	n := v.Int()
	if n < 0 {
		return sigNone, errf(instr.Pos, "repeat count %d is negative", n)
	}
	if n == 0 {
		frame.IP = instr.Jump
		return sigNone, nil
	}
	vm.Globals[repeatKey(instr.RepeatUID)] = cell.Of(n)
	frame.IP = instr.Jump - 1
	return sigNone, nil
}

func (vm *VM) execEndRepeat(frame *Frame, instr *lang.Instr) (signal, error) {
	key := repeatKey(instr.RepeatUID)
	counter, ok := vm.Globals[key]
	if !ok || counter.Int() == 0 {
		delete(vm.Globals, key)
		return sigNone, nil
	}
	vm.Globals[key] = counter.Dec()
	frame.IP = instr.Jump
	return sigNone, nil
}

func (vm *VM) execExitBlock(frame *Frame, instr *lang.Instr) (signal, error) {
	switch instr.Block {
	case lang.BlockProcedure:
		return sigReturn, nil
	case lang.BlockRepeat:
		delete(vm.Globals, repeatKey(instr.RepeatUID))
		frame.IP = instr.Jump
		return sigNone, nil
	case lang.BlockWhile:
		frame.IP = instr.Jump
		return sigNone, nil
	}
	return sigNone, errf(instr.Pos, "exit with no enclosing block")
}

func (vm *VM) execContinueBlock(frame *Frame, instr *lang.Instr) (signal, error) {
	switch instr.Block {
	case lang.BlockWhile:
		frame.IP = instr.Jump
		return sigNone, nil
	case lang.BlockRepeat:
		frame.IP = instr.Jump - 1
		return sigNone, nil
	}
	return sigNone, errf(instr.Pos, "':' used outside of REPEAT or WHILE")
}
