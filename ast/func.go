package ast

import (
	"nestml/symtab"
	"nestml/units"
)

// FuncDef is a `function` definition inside a neuron: either a top-level
// named function callable from `update`, or a `function`-tagged alias
// declared inside `initial_values`/`equations` (recomputed on each
// reference, never stored — spec §3).
type FuncDef struct {
	ASTBase

	Name       string
	Params     []Param
	ReturnUnit string // raw return unit text; empty for void
	Body       *Block // nil for a simple-expression alias
	Expr       Expr   // non-nil for a single-expression alias body

	ReturnType *units.PhysicalType
	Symbol     *symtab.Symbol
}

// Param is one formal parameter of a FuncDef.
type Param struct {
	Name     string
	UnitExpr string
	Type     *units.PhysicalType
}
