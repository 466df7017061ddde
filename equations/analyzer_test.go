package equations

import (
	"testing"

	"nestml/ast"
	"nestml/report"
)

func span() *report.TextSpan { return &report.TextSpan{} }

func varRef(name string) *ast.VarRef {
	return &ast.VarRef{ExprBase: ast.NewExprBase(ast.NewASTBaseOn(span())), Name: name}
}

func TestAnalyzeClassifiesDirectAndOdeShapes(t *testing.T) {
	a := NewAnalyzer(&report.CompilationContext{}, report.NewCollector(report.LogLevelSilent))

	neuron := &ast.Neuron{
		ASTBase: ast.NewASTBaseOn(span()),
		Name:    "n",
		Equations: &ast.EquationsBlock{
			ASTBase: ast.NewASTBaseOn(span()),
			Shapes: []*ast.Shape{
				{ASTBase: ast.NewASTBaseOn(span()), Name: "g_ex", Kind: ast.ShapeDirect, RHS: varRef("t")},
				{ASTBase: ast.NewASTBaseOn(span()), Name: "g_in", Kind: ast.ShapeOde, Order: 1, RHS: varRef("g_in")},
			},
		},
	}

	set := a.Analyze(neuron)
	if len(set.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(set.Rows))
	}
	if set.Rows[0].Kind != KindDirectShape {
		t.Fatalf("expected first row to be a direct shape, got %d", set.Rows[0].Kind)
	}
	if set.Rows[1].Kind != KindOdeShape {
		t.Fatalf("expected second row to be an ode shape, got %d", set.Rows[1].Kind)
	}
}

func TestAnalyzeInlinesFunctionAliasWithoutMutatingDeclaration(t *testing.T) {
	a := NewAnalyzer(&report.CompilationContext{}, report.NewCollector(report.LogLevelSilent))

	aliasRHS := varRef("tau_syn")
	neuron := &ast.Neuron{
		ASTBase: ast.NewASTBaseOn(span()),
		Name:    "n",
		InitialValues: []*ast.Declaration{
			{ASTBase: ast.NewASTBaseOn(span()), Name: "decay", Flags: ast.FlagFunctionAlias, Initializer: aliasRHS},
		},
		Equations: &ast.EquationsBlock{
			ASTBase: ast.NewASTBaseOn(span()),
			Odes: []*ast.OdeEquation{
				{ASTBase: ast.NewASTBaseOn(span()), LHSName: "V_m", Order: 1, RHS: varRef("decay")},
			},
		},
	}

	set := a.Analyze(neuron)
	inlined := set.Rows[0].RHS.(*ast.VarRef)
	if inlined.Name != "tau_syn" {
		t.Fatalf("expected the alias to be inlined to tau_syn, got %s", inlined.Name)
	}
	if neuron.InitialValues[0].Initializer != aliasRHS {
		t.Fatal("inlining must not mutate the original alias declaration")
	}
}

func TestAnalyzeIndexesConvolveOccurrences(t *testing.T) {
	a := NewAnalyzer(&report.CompilationContext{}, report.NewCollector(report.LogLevelSilent))

	conv := &ast.Convolve{ExprBase: ast.NewExprBase(ast.NewASTBaseOn(span())), ShapeName: "g_ex", PortName: "spikeExc"}
	neuron := &ast.Neuron{
		ASTBase: ast.NewASTBaseOn(span()),
		Name:    "n",
		Equations: &ast.EquationsBlock{
			ASTBase: ast.NewASTBaseOn(span()),
			Odes: []*ast.OdeEquation{
				{ASTBase: ast.NewASTBaseOn(span()), LHSName: "V_m", Order: 1, RHS: conv},
			},
		},
	}

	set := a.Analyze(neuron)
	if len(set.Convolve) != 1 {
		t.Fatalf("expected 1 indexed convolve occurrence, got %d", len(set.Convolve))
	}
	if set.Convolve[0].ShapeName != "g_ex" || set.Convolve[0].PortName != "spikeExc" {
		t.Fatalf("unexpected convolve occurrence: %+v", set.Convolve[0])
	}
}

func TestIsAffineRejectsSelfMultiplication(t *testing.T) {
	x := varRef("g")
	square := &ast.BinaryOp{ExprBase: ast.NewExprBase(ast.NewASTBaseOn(span())), Op: ast.OpMul, Lhs: x, Rhs: x}

	if isAffine(square, "g") {
		t.Fatal("g*g must not be classified as affine in g")
	}
}

func TestIsAffineAcceptsLinearCombination(t *testing.T) {
	g := varRef("g")
	tau := varRef("tau")
	expr := &ast.BinaryOp{
		ExprBase: ast.NewExprBase(ast.NewASTBaseOn(span())), Op: ast.OpDiv,
		Lhs: &ast.UnaryOp{ExprBase: ast.NewExprBase(ast.NewASTBaseOn(span())), Op: ast.UnaryNeg, Operand: g},
		Rhs: tau,
	}

	if !isAffine(expr, "g") {
		t.Fatal("-g/tau should be classified as affine in g")
	}
}
