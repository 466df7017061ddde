package ast

import (
	"nestml/symtab"
	"nestml/units"
)

// Enumeration of declaration flags, per spec §3.
const (
	FlagRecordable = 1 << iota
	FlagFunctionAlias
)

// Declaration maps a variable name to (physical type, initializer
// expression?, declaration flags), per spec §3. The same node type serves
// state, initial_values, parameters, and internals entries; Origin on the
// resolved Symbol records which.
type Declaration struct {
	ASTBase

	Name        string
	UnitExpr    string // raw unit text as written, e.g. "mV", "nS/ms"
	Initializer Expr   // nil if no initializer was written
	Flags       int

	// Type is filled in by C5; nil beforehand.
	Type *units.PhysicalType

	// Symbol is filled in by C4.
	Symbol *symtab.Symbol
}

func (d *Declaration) IsRecordable() bool    { return d.Flags&FlagRecordable != 0 }
func (d *Declaration) IsFunctionAlias() bool { return d.Flags&FlagFunctionAlias != 0 }
