package ast

import (
	"nestml/symtab"
	"nestml/units"
)

// Enumeration of input port kinds.
const (
	PortSpike = iota
	PortCurrent
)

// Enumeration of spike input sign; PortSignNone applies to current ports
// and to spike ports that declare neither sign.
const (
	PortSignNone = iota
	PortSignExcitatory
	PortSignInhibitory
)

// InputPort is one entry of a neuron's `input:` block, written in arrow
// form: `name unit <- inhibitory spike`, `name unit <- excitatory spike`,
// or `name unit <- current`. UnitExpr may be empty for a spike port; the
// checker then infers it from use sites (spec §4.1).
type InputPort struct {
	ASTBase

	Name     string
	UnitExpr string
	Kind     int
	Sign     int

	Type   *units.PhysicalType
	Symbol *symtab.Symbol
}

// OutputPort is the neuron's single `output:` declaration; NESTML only
// has the `spike` output kind.
type OutputPort struct {
	ASTBase

	Kind int // always PortSpike today, kept as a field for forward compat
}
