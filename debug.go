package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jcorbin/ccl/internal/lang"
)

// newDebugTracer builds a vm.WithLogf callback implementing -debug: after
// every fetch-execute tick it prints the current source line with a
// plain-text caret under the offending column, then blocks on stdin for
// Enter before letting the VM continue. Grounded on interpreter/main.py's
// try_debug, de-colorized per SPEC_FULL.md §1 (no ANSI escapes).
//
// It relies on internal/vm.Run's trace call shape, "%s %s %s" with
// (frame label, instr.Op, instr.Pos), to recover the position without the vm
// package exposing a dedicated debug hook.
func newDebugTracer(out io.Writer) func(mess string, args ...interface{}) {
	stdin := bufio.NewReader(os.Stdin)
	return func(mess string, args ...interface{}) {
		var label, op string
		var pos lang.Pos
		if len(args) >= 3 {
			label, _ = args[0].(string)
			if s, ok := args[1].(fmt.Stringer); ok {
				op = s.String()
			}
			pos, _ = args[2].(lang.Pos)
		}
		fmt.Fprintf(out, "%s: %s %s\n", label, op, pos)
		if pos.Text != "" {
			fmt.Fprintf(out, "%s\n%s^\n", pos.Text, strings.Repeat(" ", pos.Col))
		}
		stdin.ReadString('\n')
	}
}
