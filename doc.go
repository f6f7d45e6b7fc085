/*
Command ccl interprets CCL, a tiny esoteric stack-oriented programming
language.

Each source symbol is a single-character opcode, optionally followed by a
one-character name parameter. Programs push signed 16-bit cells onto a
shared evaluation stack, name variables with single ASCII letters, define
recursive procedures, and loop with counted repeats or open-ended whiles.
There is no addressable memory and no floating point; the entire runtime
state is the stack, the variable map, the procedure table, and the call
stack of frames.

	ccl <source-path> [flags]

See internal/lang for the instruction and procedure model shared by the
parser and the executor, internal/parser for the single-pass compiler, and
internal/vm for the fetch-execute loop itself.
*/
package main
