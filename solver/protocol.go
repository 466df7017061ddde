// Package solver implements the ODE analysis driver's (C8) transport
// layer: the JSON request/reply protocol exchanged with the external
// symbolic solver, and the SolverClient sum-typed transport per spec §9
// ("model as a sum-typed transport: Available(proc) | Unavailable").
package solver

// Dynamic is one row of the solver request's `dynamics` list: a shape or
// state-ODE row whose number literals are written without their unit
// suffix. Unit scales are not folded into those numbers: `2 ms` and
// `2 s` both render as `2`.
type Dynamic struct {
	Name         string  `json:"name"`
	Expression   string  `json:"expression"`
	InitialValue float64 `json:"initial_value"`
	Order        int     `json:"order"`
}

// Parameter is a named constant passed alongside the dynamics so the
// solver can substitute it symbolically.
type Parameter struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Options carries simulation parameters the solver needs to decide
// between analytic and numeric treatment.
type Options struct {
	SimTimeResolution float64 `json:"sim_time_resolution"`
}

// Request is the wire shape sent to the solver, per spec §6.
type Request struct {
	Dynamics   []Dynamic   `json:"dynamics"`
	Parameters []Parameter `json:"parameters"`
	Options    Options     `json:"options"`
}

// Status enumerates the solver's top-level reply status.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusFailure = "failure"
)

// SolverKind enumerates the reply's `solver` field.
const (
	SolverAnalytical = "analytical"
	SolverNumeric    = "numeric"
)

// Reply is the wire shape received from the solver, per spec §6.
type Reply struct {
	Status            string               `json:"status"`
	Solver            string               `json:"solver,omitempty"`
	Propagator        map[string][]float64 `json:"propagator,omitempty"`
	UpdateExpressions map[string]string    `json:"update_expressions,omitempty"`
	InitialValues     map[string]float64   `json:"initial_values,omitempty"`
	StateVariables    []string             `json:"state_variables,omitempty"`
	Stiff             bool                 `json:"stiff,omitempty"`
	Message           string               `json:"message,omitempty"`
}
