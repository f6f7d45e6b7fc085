package lang

// Procedure is a parse-time artifact: a name and its flat, jump-resolved
// instruction list (always ending in an OpEndProcedure sentinel). It is
// registered into the VM's ProcTable only when the executor reaches its
// OpDefineProcedure instruction, not at parse time; see Program below.
type Procedure struct {
	Name   byte
	Instrs []Instr
}

// ProcTable is the dictionary of defined procedures, keyed by their single
// ASCII letter name.
type ProcTable map[byte]*Procedure

// Program is the Parser's output: the root instruction list, with every
// nested procedure body already parsed and jump-resolved into each
// OpDefineProcedure instruction's Body field. The root list always ends in
// an OpEndProcedure sentinel, per Design Note "'#' at top level" in
// DESIGN.md.
//
// Program does NOT carry a populated ProcTable: per spec.md §3, a procedure
// definition "contributes no runtime instructions at its site other than
// registering itself" — registration happens when the executor reaches the
// OpDefineProcedure instruction, so the dictionary of defined procedures is
// executor (internal/vm) state, not parser output.
type Program struct {
	Root []Instr
}
