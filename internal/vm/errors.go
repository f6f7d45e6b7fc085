package vm

import (
	"fmt"

	"github.com/jcorbin/ccl/internal/lang"
)

// RuntimeError reports a problem raised while executing a Program, carrying
// the position of the offending instruction, mirroring CCLRuntimeError in
// the original interpreter's ccl_exceptions.py.
type RuntimeError struct {
	Pos lang.Pos
	Msg string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("RuntimeError: %s at %s", e.Msg, e.Pos)
}

func errf(pos lang.Pos, format string, args ...interface{}) error {
	return &RuntimeError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// signal is the executor's internal, non-error indication of what a step
// just did to control flow. It replaces the original interpreter's
// CCLExit-as-exception: frame completion is an ordinary return value, not a panic or Go error.
type signal int

const (
	// sigNone covers both an ordinary step and one that set the active
	// frame's IP itself (a jump): either way the executor advances the
	// active frame's IP by 1 afterward, exactly as every instruction in
	// the original interpreter's fetch-execute loop does unconditionally.
	// Jump-setting steps pre-bias IP by -1 from their true target so this
	// uniform +1 lands them where they mean to go.
	sigNone signal = iota
	sigCall           // a new frame was pushed; leave the caller's IP untouched
	sigReturn         // the active frame is finished: pop it (or end the run if it was root)
)
