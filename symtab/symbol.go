// Package symtab defines the symbol, scope, and universe types used by
// the C4 symbol table builder: a tree of scopes built in two passes
// (declare, then resolve) over a neuron's blocks, per spec §4.3.
package symtab

import (
	"nestml/report"
	"nestml/units"
)

// Enumeration of symbol kinds, per spec §4.3's table.
const (
	KindVariable = iota
	KindFunction
	KindShape
	KindInputPort
	KindNeuron
	KindUnit
)

func KindName(k int) string {
	switch k {
	case KindVariable:
		return "variable"
	case KindFunction:
		return "function"
	case KindShape:
		return "shape"
	case KindInputPort:
		return "input port"
	case KindNeuron:
		return "neuron"
	case KindUnit:
		return "unit"
	default:
		return "symbol"
	}
}

// Symbol is an entry in a scope: a name bound to a kind, a physical type,
// its declaration site, and whether it has been referenced.
type Symbol struct {
	Name    string
	Kind    int
	Type    *units.PhysicalType
	DefSpan *report.TextSpan

	// Used is set the first time a reference to this symbol is resolved.
	// Parameters and internals that are never used trigger a warning, not
	// an error (spec §3: "Symbol table").
	Used bool

	// Origin names which block this symbol was declared in
	// ("state", "parameters", "internals", "initial_values", "input",
	// "function", "shape"), used by CoCos that care about block kind.
	Origin string
}
