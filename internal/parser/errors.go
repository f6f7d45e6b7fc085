package parser

import (
	"fmt"

	"github.com/jcorbin/ccl/internal/lang"
)

// ParseError reports a problem found during the single-pass scan, carrying
// the exact position (and source line) of the offending symbol, mirroring
// CCLParseError in the original interpreter's ccl_exceptions.py.
type ParseError struct {
	Pos lang.Pos
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ParseError: %s at %s", e.Msg, e.Pos)
}

func errf(pos lang.Pos, format string, args ...interface{}) error {
	return &ParseError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
