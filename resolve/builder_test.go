package resolve

import (
	"testing"

	"nestml/ast"
	"nestml/report"
	"nestml/symtab"
)

func testCtx() *report.CompilationContext {
	return &report.CompilationContext{ReprPath: "test.nestml"}
}

func span() *report.TextSpan {
	return &report.TextSpan{}
}

func varRef(name string) *ast.VarRef {
	return &ast.VarRef{ExprBase: ast.NewExprBase(ast.NewASTBaseOn(span())), Name: name}
}

func TestBuilderResolvesInitializerAgainstEarlierDeclaration(t *testing.T) {
	diag := report.NewCollector(report.LogLevelSilent)
	b := NewBuilder(testCtx(), diag, symtab.NewUniverse())

	neuron := &ast.Neuron{
		ASTBase: ast.NewASTBaseOn(span()),
		Name:    "iaf_psc_alpha",
		Parameters: []*ast.Declaration{
			{ASTBase: ast.NewASTBaseOn(span()), Name: "tau_m"},
		},
		State: []*ast.Declaration{
			{ASTBase: ast.NewASTBaseOn(span()), Name: "V_m", Initializer: varRef("tau_m")},
		},
	}
	unit := &ast.CompilationUnit{Neurons: []*ast.Neuron{neuron}}

	b.Build(unit)

	ref := neuron.State[0].Initializer.(*ast.VarRef)
	if ref.Symbol == nil || ref.Symbol.Name != "tau_m" {
		t.Fatalf("expected tau_m reference to resolve, got %v", ref.Symbol)
	}
	if diag.AnyErrors() {
		t.Fatalf("unexpected diagnostics: %v", diag.Summarize())
	}
}

func TestBuilderReportsUndefinedSymbol(t *testing.T) {
	diag := report.NewCollector(report.LogLevelSilent)
	b := NewBuilder(testCtx(), diag, symtab.NewUniverse())

	neuron := &ast.Neuron{
		ASTBase: ast.NewASTBaseOn(span()),
		Name:    "broken",
		State: []*ast.Declaration{
			{ASTBase: ast.NewASTBaseOn(span()), Name: "V_m", Initializer: varRef("does_not_exist")},
		},
	}
	unit := &ast.CompilationUnit{Neurons: []*ast.Neuron{neuron}}

	b.Build(unit)

	if !diag.AnyErrors() {
		t.Fatal("expected an UndefinedSymbol error")
	}
}

func TestBuilderReportsDuplicateDeclaration(t *testing.T) {
	diag := report.NewCollector(report.LogLevelSilent)
	b := NewBuilder(testCtx(), diag, symtab.NewUniverse())

	neuron := &ast.Neuron{
		ASTBase: ast.NewASTBaseOn(span()),
		Name:    "dup",
		State: []*ast.Declaration{
			{ASTBase: ast.NewASTBaseOn(span()), Name: "x"},
			{ASTBase: ast.NewASTBaseOn(span()), Name: "x"},
		},
	}
	unit := &ast.CompilationUnit{Neurons: []*ast.Neuron{neuron}}

	b.Build(unit)

	if !diag.AnyErrors() {
		t.Fatal("expected a DuplicateDeclaration error")
	}
}

func TestBuilderResolvesConvolve(t *testing.T) {
	diag := report.NewCollector(report.LogLevelSilent)
	b := NewBuilder(testCtx(), diag, symtab.NewUniverse())

	conv := &ast.Convolve{
		ExprBase:  ast.NewExprBase(ast.NewASTBaseOn(span())),
		ShapeName: "g_ex", PortName: "spikeExc",
	}
	neuron := &ast.Neuron{
		ASTBase: ast.NewASTBaseOn(span()),
		Name:    "psc",
		Equations: &ast.EquationsBlock{
			ASTBase: ast.NewASTBaseOn(span()),
			Shapes: []*ast.Shape{
				{ASTBase: ast.NewASTBaseOn(span()), Name: "g_ex", Kind: ast.ShapeDirect, RHS: nil},
			},
			Odes: []*ast.OdeEquation{
				{ASTBase: ast.NewASTBaseOn(span()), LHSName: "V_m", Order: 1, RHS: conv},
			},
		},
		Input: []*ast.InputPort{
			{ASTBase: ast.NewASTBaseOn(span()), Name: "spikeExc", Kind: ast.PortSpike},
		},
	}
	unit := &ast.CompilationUnit{Neurons: []*ast.Neuron{neuron}}

	b.Build(unit)

	if conv.ShapeSymbol == nil || conv.ShapeSymbol.Kind != symtab.KindShape {
		t.Fatalf("expected shape symbol resolved, got %v", conv.ShapeSymbol)
	}
	if conv.PortSymbol == nil || conv.PortSymbol.Kind != symtab.KindInputPort {
		t.Fatalf("expected port symbol resolved, got %v", conv.PortSymbol)
	}
}

func TestReportUnusedWarnsOnUnreferencedParameter(t *testing.T) {
	diag := report.NewCollector(report.LogLevelSilent)
	b := NewBuilder(testCtx(), diag, symtab.NewUniverse())

	neuron := &ast.Neuron{
		ASTBase: ast.NewASTBaseOn(span()),
		Name:    "n",
		Parameters: []*ast.Declaration{
			{ASTBase: ast.NewASTBaseOn(span()), Name: "unused_param"},
		},
	}
	unit := &ast.CompilationUnit{Neurons: []*ast.Neuron{neuron}}

	scopes := b.Build(unit)
	ReportUnused(diag, testCtx(), scopes["n"])

	found := false
	for _, d := range diag.Diagnostics() {
		if d.Code == "UnusedDeclaration" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected an UnusedDeclaration warning")
	}
}
