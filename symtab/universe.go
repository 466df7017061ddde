package symtab

import (
	"nestml/units"
)

// BuiltinFunctions lists the names of C5's closed enumeration of built-in
// function signatures (spec §4.4). The checker switches on these names to
// apply its per-function unit rule; the symbol table only needs to know
// that the name resolves and is callable.
var BuiltinFunctions = []string{
	"exp", "ln", "log10", "sin", "cos", "tan", "sqrt", "abs",
	"min", "max",
	"steps", "resolution",
	"random_normal", "random_uniform",
	"emit_spike", "integrate_odes",
}

// Universe is the process-wide read-only set of symbols visible in every
// neuron without declaration: built-in functions and built-in unit names,
// per spec §9's "process-wide read-only singletons" note.
type Universe struct {
	root *Scope
}

// NewUniverse builds the universe once, to be reused as the root ancestor
// of every neuron's scope tree.
func NewUniverse() *Universe {
	root := NewScope(nil)

	for _, name := range BuiltinFunctions {
		root.Declare(&Symbol{Name: name, Kind: KindFunction, Origin: "builtin"})
	}

	for name := range unitSymbolNames() {
		root.Declare(&Symbol{Name: name, Kind: KindUnit, Origin: "builtin"})
	}

	return &Universe{root: root}
}

func unitSymbolNames() map[string]struct{} {
	names := make(map[string]struct{})
	for _, n := range units.AllSymbols() {
		names[n] = struct{}{}
	}
	return names
}

// Root returns the universe's scope, to be used as the parent of each
// neuron's top-level scope.
func (u *Universe) Root() *Scope {
	return u.root
}

// IsBuiltinFunction reports whether name is one of C5's built-in
// functions.
func IsBuiltinFunction(name string) bool {
	for _, n := range BuiltinFunctions {
		if n == name {
			return true
		}
	}
	return false
}
