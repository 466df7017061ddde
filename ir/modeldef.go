package ir

import "nestml/ast"

// StateVar is one row of a ModelDef's state variable list: either an
// original `state`/`initial_values` declaration, or one generated by C8
// when a shape is replaced by its solved-for update, per spec §4.12.
type StateVar struct {
	Name      string
	Order     int
	Generated bool
}

// InternalConst is a named constant the solver derived alongside a
// propagator -- typically decay factors or other per-step coefficients
// that the update body references by name.
type InternalConst struct {
	Name       string
	Expression string
}

// ModelDef is the transformed IR for one neuron: its state variable list
// (original plus any C8 generated the solver), the canonicalized update
// body (handed through unchanged -- C13 does no lowering of its own), the
// propagator/internal constants C8 produced, and solver metadata.
type ModelDef struct {
	Name string

	StateVariables []StateVar
	UpdateBody     *ast.Block

	UpdateExpressions map[string]string
	InitialValues     map[string]float64
	InternalConstants []InternalConst
	Propagator        map[string][]float64

	// Analytic is true when C8's solver produced a closed-form propagator
	// for every dynamic; false means the numeric-integration fallback was
	// used for at least one, per spec §4.7.
	Analytic bool

	// Stiff mirrors the solver's informational stiffness flag (spec
	// §4.7); it never demotes Analytic on its own.
	Stiff bool
}
