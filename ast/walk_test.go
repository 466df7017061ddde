package ast

import (
	"testing"

	"nestml/report"
)

func walkSpan() *report.TextSpan { return &report.TextSpan{} }

func exprBase() ExprBase { return NewExprBase(NewASTBaseOn(walkSpan())) }

func TestWalkExprVisitsEveryNestedNode(t *testing.T) {
	// (a + b) * convolve(shape, port)
	a := &VarRef{ExprBase: exprBase(), Name: "a"}
	b := &VarRef{ExprBase: exprBase(), Name: "b"}
	sum := &BinaryOp{ExprBase: exprBase(), Op: OpAdd, Lhs: a, Rhs: b}
	conv := &Convolve{ExprBase: exprBase(), ShapeName: "shape", PortName: "port"}
	mul := &BinaryOp{ExprBase: exprBase(), Op: OpMul, Lhs: sum, Rhs: conv}

	var seen []Expr
	WalkExpr(mul, func(e Expr) { seen = append(seen, e) })

	if len(seen) != 5 {
		t.Fatalf("expected 5 visited nodes (mul, sum, a, b, conv), got %d", len(seen))
	}
	if seen[0] != Expr(mul) {
		t.Fatalf("expected pre-order visit to start at the root, got %v", seen[0])
	}
}

func TestWalkNeuronReachesUpdateBodyAssignment(t *testing.T) {
	rhs := &VarRef{ExprBase: exprBase(), Name: "V_m"}
	assign := &Assignment{ASTBase: NewASTBaseOn(walkSpan()), RHS: rhs}
	n := &Neuron{
		ASTBase: NewASTBaseOn(walkSpan()),
		Name:    "n",
		Update:  &Block{ASTBase: NewASTBaseOn(walkSpan()), Stmts: []Stmt{assign}},
	}

	found := false
	WalkNeuron(n, func(e Expr) {
		if e == Expr(rhs) {
			found = true
		}
	})
	if !found {
		t.Fatal("expected WalkNeuron to reach the update body's assignment RHS")
	}
}

func TestWalkNeuronReachesShapeAndOdeRHS(t *testing.T) {
	shapeRHS := &Literal{ExprBase: exprBase(), Value: "0"}
	odeRHS := &VarRef{ExprBase: exprBase(), Name: "V_m"}
	n := &Neuron{
		ASTBase: NewASTBaseOn(walkSpan()),
		Name:    "n",
		Equations: &EquationsBlock{
			ASTBase: NewASTBaseOn(walkSpan()),
			Shapes:  []*Shape{{ASTBase: NewASTBaseOn(walkSpan()), Name: "g_ex", Kind: ShapeDirect, RHS: shapeRHS}},
			Odes:    []*OdeEquation{{ASTBase: NewASTBaseOn(walkSpan()), LHSName: "V_m", Order: 1, RHS: odeRHS}},
		},
	}

	var seen []Expr
	WalkNeuron(n, func(e Expr) { seen = append(seen, e) })

	wantShape, wantOde := false, false
	for _, e := range seen {
		if e == Expr(shapeRHS) {
			wantShape = true
		}
		if e == Expr(odeRHS) {
			wantOde = true
		}
	}
	if !wantShape || !wantOde {
		t.Fatalf("expected to see both the shape RHS and the ODE RHS, got shape=%v ode=%v", wantShape, wantOde)
	}
}
