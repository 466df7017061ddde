package cocos

import (
	"testing"

	"nestml/ast"
	"nestml/report"
	"nestml/symtab"
)

func testCtx() *report.CompilationContext {
	return &report.CompilationContext{ReprPath: "test.nestml"}
}

func span() *report.TextSpan { return &report.TextSpan{} }

func varRef(name string, sym *symtab.Symbol) *ast.VarRef {
	return &ast.VarRef{ExprBase: ast.NewExprBase(ast.NewASTBaseOn(span())), Name: name, Symbol: sym}
}

func TestConvolveAgainstNonShapeIsRejected(t *testing.T) {
	diag := report.NewCollector(report.LogLevelSilent)
	c := NewChecker(testCtx(), diag, false)

	stateSym := &symtab.Symbol{Name: "test", Kind: symtab.KindVariable}
	portSym := &symtab.Symbol{Name: "g_ex", Kind: symtab.KindInputPort}

	conv := &ast.Convolve{
		ExprBase:    ast.NewExprBase(ast.NewASTBaseOn(span())),
		ShapeName:   "test", PortName: "g_ex",
		ShapeSymbol: stateSym, PortSymbol: portSym,
	}

	neuron := &ast.Neuron{
		ASTBase: ast.NewASTBaseOn(span()),
		Name:    "n",
		Update: &ast.Block{
			ASTBase: ast.NewASTBaseOn(span()),
			Stmts:   []ast.Stmt{&ast.ExprStmt{ASTBase: ast.NewASTBaseOn(span()), Expr: conv}},
		},
	}

	c.CheckNeuron(neuron)

	found := false
	for _, d := range diag.Diagnostics() {
		if d.Code == "CoCoConvolveNotCorrectlyProvided" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected CoCoConvolveNotCorrectlyProvided")
	}
}

func TestDerivativeOfUndeclaredVariableIsRejected(t *testing.T) {
	diag := report.NewCollector(report.LogLevelSilent)
	c := NewChecker(testCtx(), diag, false)

	neuron := &ast.Neuron{
		ASTBase: ast.NewASTBaseOn(span()),
		Name:    "n",
		Equations: &ast.EquationsBlock{
			ASTBase: ast.NewASTBaseOn(span()),
			Odes: []*ast.OdeEquation{
				{ASTBase: ast.NewASTBaseOn(span()), LHSName: "f", Order: 1,
					RHS: &ast.Literal{ExprBase: ast.NewExprBase(ast.NewASTBaseOn(span())), Kind: ast.LitNumber, Value: "0"}},
			},
		},
	}

	c.CheckNeuron(neuron)

	found := false
	for _, d := range diag.Diagnostics() {
		if d.Code == "CoCoUndeclaredDerivativeLHS" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected CoCoUndeclaredDerivativeLHS")
	}
}

func TestParameterInitReferencingNonParameterIsRejected(t *testing.T) {
	diag := report.NewCollector(report.LogLevelSilent)
	c := NewChecker(testCtx(), diag, false)

	stateSym := &symtab.Symbol{Name: "V_m", Kind: symtab.KindVariable}

	neuron := &ast.Neuron{
		ASTBase: ast.NewASTBaseOn(span()),
		Name:    "n",
		Parameters: []*ast.Declaration{
			{ASTBase: ast.NewASTBaseOn(span()), Name: "scale", Initializer: varRef("V_m", stateSym)},
		},
	}

	c.CheckNeuron(neuron)

	found := false
	for _, d := range diag.Diagnostics() {
		if d.Code == "CoCoNonConstantParameterInit" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected CoCoNonConstantParameterInit")
	}
}

func TestReservedNameRedeclarationIsRejected(t *testing.T) {
	diag := report.NewCollector(report.LogLevelSilent)
	c := NewChecker(testCtx(), diag, false)

	neuron := &ast.Neuron{
		ASTBase: ast.NewASTBaseOn(span()),
		Name:    "n",
		Parameters: []*ast.Declaration{
			{ASTBase: ast.NewASTBaseOn(span()), Name: "exp"},
		},
	}

	c.CheckNeuron(neuron)

	found := false
	for _, d := range diag.Diagnostics() {
		if d.Code == "CoCoReservedNameRedeclared" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected CoCoReservedNameRedeclared")
	}
}

func TestReservedUnitSymbolRedeclarationIsRejected(t *testing.T) {
	diag := report.NewCollector(report.LogLevelSilent)
	c := NewChecker(testCtx(), diag, false)

	neuron := &ast.Neuron{
		ASTBase: ast.NewASTBaseOn(span()),
		Name:    "n",
		Parameters: []*ast.Declaration{
			{ASTBase: ast.NewASTBaseOn(span()), Name: "mV"},
		},
	}

	c.CheckNeuron(neuron)

	found := false
	for _, d := range diag.Diagnostics() {
		if d.Code == "CoCoReservedNameRedeclared" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected CoCoReservedNameRedeclared for a redeclared unit symbol")
	}
}

func TestForwardReferenceWithinStateIsRejected(t *testing.T) {
	diag := report.NewCollector(report.LogLevelSilent)
	c := NewChecker(testCtx(), diag, false)

	neuron := &ast.Neuron{
		ASTBase: ast.NewASTBaseOn(span()),
		Name:    "n",
		State: []*ast.Declaration{
			{ASTBase: ast.NewASTBaseOn(span()), Name: "a", Initializer: varRef("b", nil)},
			{ASTBase: ast.NewASTBaseOn(span()), Name: "b"},
		},
	}

	c.CheckNeuron(neuron)

	found := false
	for _, d := range diag.Diagnostics() {
		if d.Code == "CoCoForwardReferenceNotAllowed" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected CoCoForwardReferenceNotAllowed")
	}
}

func TestForwardReferenceWithinParametersIsPermitted(t *testing.T) {
	diag := report.NewCollector(report.LogLevelSilent)
	c := NewChecker(testCtx(), diag, false)

	neuron := &ast.Neuron{
		ASTBase: ast.NewASTBaseOn(span()),
		Name:    "n",
		Parameters: []*ast.Declaration{
			{ASTBase: ast.NewASTBaseOn(span()), Name: "a", Initializer: varRef("b", &symtab.Symbol{Name: "b", Kind: symtab.KindVariable})},
			{ASTBase: ast.NewASTBaseOn(span()), Name: "b"},
		},
	}

	c.CheckNeuron(neuron)

	for _, d := range diag.Diagnostics() {
		if d.Code == "CoCoForwardReferenceNotAllowed" {
			t.Fatalf("unexpected CoCoForwardReferenceNotAllowed for a parameters forward reference: %v", d)
		}
	}
}
