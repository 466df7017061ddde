package ir

import (
	"testing"

	"nestml/ast"
	"nestml/equations"
	"nestml/report"
	"nestml/solver"
)

func span() *report.TextSpan { return &report.TextSpan{} }

func TestBuildModelDefMarksGeneratedStateVariables(t *testing.T) {
	n := &ast.Neuron{
		ASTBase: ast.NewASTBaseOn(span()),
		Name:    "iaf_psc_alpha",
		State: []*ast.Declaration{
			{ASTBase: ast.NewASTBaseOn(span()), Name: "V_m"},
		},
	}
	set := &equations.ShapeSet{Rows: []*equations.Row{
		{Kind: equations.KindDirectShape, Name: "g_ex"},
	}}
	result := &solver.Result{
		Analytic:          true,
		GeneratedState:    []string{"g_ex"},
		UpdateExpressions: map[string]string{"g_ex": "g_ex * P_g"},
		Propagator:        map[string][]float64{"g_ex": {0.9}},
	}

	m := BuildModelDef(n, set, result)

	if len(m.StateVariables) != 2 {
		t.Fatalf("expected V_m and g_ex, got %v", m.StateVariables)
	}
	sv, ok := m.stateVar("g_ex")
	if !ok || !sv.Generated {
		t.Fatalf("expected g_ex to be marked generated, got %v ok=%v", sv, ok)
	}
	orig, ok := m.stateVar("V_m")
	if !ok || orig.Generated {
		t.Fatalf("expected V_m to remain non-generated, got %v ok=%v", orig, ok)
	}
}

func TestBuildModelDefCollectsInternalConstants(t *testing.T) {
	n := &ast.Neuron{ASTBase: ast.NewASTBaseOn(span()), Name: "n"}
	set := &equations.ShapeSet{}
	result := &solver.Result{
		Analytic:          true,
		UpdateExpressions: map[string]string{"P_g": "exp(-h/tau)"},
	}

	m := BuildModelDef(n, set, result)

	if len(m.InternalConstants) != 1 || m.InternalConstants[0].Name != "P_g" {
		t.Fatalf("expected P_g as an internal constant, got %v", m.InternalConstants)
	}
}

func TestBuildModelDefNumericFallbackHasNoPropagator(t *testing.T) {
	n := &ast.Neuron{
		ASTBase: ast.NewASTBaseOn(span()),
		Name:    "n",
		State:   []*ast.Declaration{{ASTBase: ast.NewASTBaseOn(span()), Name: "V_m"}},
	}
	set := &equations.ShapeSet{Rows: []*equations.Row{{Kind: equations.KindStateOde, Name: "V_m", Order: 1}}}
	result := &solver.Result{Analytic: false, GeneratedState: []string{"V_m"}}

	m := BuildModelDef(n, set, result)

	if m.Analytic {
		t.Fatal("expected numeric result")
	}
	if m.Propagator != nil {
		t.Fatalf("expected no propagator on numeric fallback, got %v", m.Propagator)
	}
}
