// Package cell implements the 16-bit wrapping integer that CCL programs
// push, increment, decrement, and combine on the evaluation stack.
package cell

import "fmt"

// Cell is a signed integer in [Min, Max]. Go defines arithmetic overflow on
// fixed-width signed integers to wrap via two's complement rather than
// trapping or invoking undefined behaviour, so a single Inc/Dec/Add/Sub by an
// in-range delta already produces exactly the "jump to the opposite end"
// behaviour the language specifies: 32767+1 wraps to -32768 natively.
type Cell int16

// Min and Max bound every Cell value.
const (
	Min Cell = -32768
	Max Cell = 32767
)

// Zero is the value pushed by the `^` instruction.
const Zero Cell = 0

// Of converts an int to a Cell, wrapping as if by repeated Inc/Dec.
func Of(v int) Cell { return Cell(int16(v)) }

// Int returns the Cell's value as a plain int.
func (c Cell) Int() int { return int(c) }

// Inc returns c+1, wrapping at Max to Min.
func (c Cell) Inc() Cell { return c + 1 }

// Dec returns c-1, wrapping at Min to Max.
func (c Cell) Dec() Cell { return c - 1 }

// Add returns c+other, wrapping on overflow.
func (c Cell) Add(other Cell) Cell { return c + other }

// Sub returns c-other, wrapping on overflow.
func (c Cell) Sub(other Cell) Cell { return c - other }

// Eq reports whether c equals other.
func (c Cell) Eq(other Cell) bool { return c == other }

// Less reports whether c is less than other.
func (c Cell) Less(other Cell) bool { return c < other }

// Greater reports whether c is greater than other.
func (c Cell) Greater(other Cell) bool { return c > other }

// InRange reports whether c lies within [Min, Max]. Since Cell is an int16,
// this always holds; it states the range invariant rather than testing for
// a non-negative amount.
func (c Cell) InRange() bool { return c >= Min && c <= Max }

func (c Cell) String() string { return fmt.Sprintf("[ %d ]", int16(c)) }
