package ir

import (
	"nestml/ast"
	"nestml/equations"
	"nestml/solver"
)

// BuildModelDef assembles one neuron's transformed IR from the artifacts
// C4-C8 produced for it: the original state declarations, the
// canonicalized shape/ODE rows, and the solver's result.
func BuildModelDef(n *ast.Neuron, set *equations.ShapeSet, result *solver.Result) *ModelDef {
	m := &ModelDef{
		Name:       n.Name,
		UpdateBody: n.Update,
		Analytic:   result.Analytic,
		Stiff:      result.Stiff,
	}

	for _, d := range n.State {
		m.StateVariables = append(m.StateVariables, StateVar{Name: d.Name, Order: 0})
	}
	for _, d := range n.InitialValues {
		m.StateVariables = append(m.StateVariables, StateVar{Name: d.Name, Order: highestOrderFor(d.Name, set)})
	}

	generated := make(map[string]bool)
	for _, name := range result.GeneratedState {
		generated[name] = true
	}
	for i, sv := range m.StateVariables {
		if generated[sv.Name] {
			m.StateVariables[i].Generated = true
		}
	}
	for name := range generated {
		if _, ok := m.stateVar(name); !ok {
			m.StateVariables = append(m.StateVariables, StateVar{Name: name, Generated: true})
		}
	}

	m.UpdateExpressions = result.UpdateExpressions
	m.InitialValues = result.InitialValues
	m.Propagator = result.Propagator

	for name, expr := range result.UpdateExpressions {
		if _, isState := m.stateVar(name); !isState {
			m.InternalConstants = append(m.InternalConstants, InternalConst{Name: name, Expression: expr})
		}
	}

	return m
}

func (m *ModelDef) stateVar(name string) (StateVar, bool) {
	for _, sv := range m.StateVariables {
		if sv.Name == name {
			return sv, true
		}
	}
	return StateVar{}, false
}

// highestOrderFor looks up the derivative order the equations analyzer
// assigned to the state ODE rooted at name, or 0 if name has no
// associated ODE row (a plain algebraic initial value).
func highestOrderFor(name string, set *equations.ShapeSet) int {
	order := 0
	for _, row := range set.Rows {
		if row.Kind == equations.KindStateOde && row.Name == name && row.Order > order {
			order = row.Order
		}
	}
	return order
}
