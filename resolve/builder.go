// Package resolve implements the symbol table builder (C4): it walks a
// parsed compilation unit and builds the scope tree defined by symtab,
// attaching a resolved symbol to every reference in the AST.
package resolve

import (
	"nestml/ast"
	"nestml/report"
	"nestml/symtab"
)

// Builder walks a neuron's AST once, installing symbols in two passes:
// declare (pass 1) then resolve references (pass 2), per spec §4.3. This
// supports forward references inside `parameters` and `initial_values`.
type Builder struct {
	ctx  *report.CompilationContext
	diag *report.Collector
	univ *symtab.Universe
}

func NewBuilder(ctx *report.CompilationContext, diag *report.Collector, univ *symtab.Universe) *Builder {
	return &Builder{ctx: ctx, diag: diag, univ: univ}
}

// Build installs symbols for every neuron in the compilation unit and
// resolves variable/function/shape references in-place on the AST,
// attaching the resolved *symtab.Symbol to each VarRef/DerivRef/Call/
// Convolve node. It returns the top-level scope for each neuron, keyed by
// name. Each neuron is independent: a DuplicateDeclaration or
// UndefinedSymbol error raised while building one neuron's scope has no
// bearing on any other neuron in the unit, so callers that want to gate
// downstream phases per neuron (as the pipeline orchestrator does) should
// call BuildNeuron directly instead of batching through Build.
func (b *Builder) Build(unit *ast.CompilationUnit) map[string]*symtab.Scope {
	scopes := make(map[string]*symtab.Scope, len(unit.Neurons))

	for _, neuron := range unit.Neurons {
		scopes[neuron.Name] = b.BuildNeuron(neuron)
	}

	return scopes
}

// BuildNeuron installs symbols and resolves references for a single
// neuron, returning its top-level scope. It is the per-neuron primitive
// Build loops over.
func (b *Builder) BuildNeuron(n *ast.Neuron) *symtab.Scope {
	scope := symtab.NewScope(b.univ.Root())
	n.Symbol = &symtab.Symbol{Name: n.Name, Kind: symtab.KindNeuron, DefSpan: n.Span(), Origin: "top-level"}

	b.declarePass(n, scope)
	b.resolvePass(n, scope)

	return scope
}

// declarePass installs every declaration, shape, input port, and function
// name into the neuron's top-level scope before any reference is
// resolved.
func (b *Builder) declarePass(n *ast.Neuron, scope *symtab.Scope) {
	declareAll := func(decls []*ast.Declaration, origin string) {
		for _, d := range decls {
			b.declareOne(scope, d.Name, symtab.KindVariable, d.Span(), origin, &d.Symbol)
		}
	}

	declareAll(n.State, "state")
	declareAll(n.InitialValues, "initial_values")
	declareAll(n.Parameters, "parameters")
	declareAll(n.Internals, "internals")

	for _, p := range n.Input {
		b.declareOne(scope, p.Name, symtab.KindInputPort, p.Span(), "input", &p.Symbol)
	}

	for _, f := range n.Functions {
		b.declareOne(scope, f.Name, symtab.KindFunction, f.Span(), "function", &f.Symbol)
	}

	if n.Equations != nil {
		for _, s := range n.Equations.Shapes {
			sym := &symtab.Symbol{Name: s.Name, Kind: symtab.KindShape, DefSpan: s.Span(), Origin: "shape"}
			if !scope.Declare(sym) {
				b.duplicateError(s.Name, s.Span())
			}
		}
	}
}

func (b *Builder) declareOne(scope *symtab.Scope, name string, kind int, span *report.TextSpan, origin string, out **symtab.Symbol) {
	sym := &symtab.Symbol{Name: name, Kind: kind, DefSpan: span, Origin: origin}

	if scope.ShadowsAncestor(name) {
		b.diag.Warnf(b.ctx, span, "ShadowedName", "declaration of `%s` shadows a name from an enclosing scope", name)
	}

	if !scope.Declare(sym) {
		b.duplicateError(name, span)
		return
	}

	*out = sym
}

func (b *Builder) duplicateError(name string, span *report.TextSpan) {
	b.diag.Errorf(b.ctx, span, "DuplicateDeclaration", "`%s` is already declared in this scope", name)
}

// resolvePass walks every expression reachable from the neuron and
// resolves VarRef/DerivRef/Call/Convolve nodes against scope, reporting
// unknown identifiers.
func (b *Builder) resolvePass(n *ast.Neuron, scope *symtab.Scope) {
	resolveDecls := func(decls []*ast.Declaration) {
		for _, d := range decls {
			if d.Initializer != nil {
				b.resolveExpr(d.Initializer, scope)
			}
		}
	}

	resolveDecls(n.State)
	resolveDecls(n.InitialValues)
	resolveDecls(n.Parameters)
	resolveDecls(n.Internals)

	if n.Equations != nil {
		for _, s := range n.Equations.Shapes {
			if s.RHS != nil {
				b.resolveExpr(s.RHS, scope)
			}
		}
		for _, o := range n.Equations.Odes {
			b.resolveExpr(o.RHS, scope)
		}
	}

	for _, f := range n.Functions {
		fscope := symtab.NewScope(scope)
		for _, p := range f.Params {
			fscope.Declare(&symtab.Symbol{Name: p.Name, Kind: symtab.KindVariable, Origin: "parameter"})
		}
		if f.Expr != nil {
			b.resolveExpr(f.Expr, fscope)
		}
		if f.Body != nil {
			b.resolveBlock(f.Body, fscope)
		}
	}

	if n.Update != nil {
		b.resolveBlock(n.Update, scope)
	}
}

func (b *Builder) resolveBlock(block *ast.Block, scope *symtab.Scope) {
	for _, stmt := range block.Stmts {
		switch s := stmt.(type) {
		case *ast.Assignment:
			if sym, ok := scope.Lookup(s.LHSName); ok {
				sym.Used = true
				s.LHSSymbol = sym
			} else {
				b.undefined(s.LHSName, s.Span())
			}
			b.resolveExpr(s.RHS, scope)
		case *ast.ExprStmt:
			b.resolveExpr(s.Expr, scope)
		case *ast.IfTree:
			for _, br := range s.Branches {
				b.resolveExpr(br.Condition, scope)
				b.resolveBlock(br.Body, scope)
			}
			if s.ElseBranch != nil {
				b.resolveBlock(s.ElseBranch, scope)
			}
		case *ast.ForLoop:
			inner := symtab.NewScope(scope)
			sym := &symtab.Symbol{Name: s.VarName, Kind: symtab.KindVariable, Origin: "loop"}
			inner.Declare(sym)
			s.Symbol = sym
			b.resolveExpr(s.From, scope)
			b.resolveExpr(s.To, scope)
			if s.Step != nil {
				b.resolveExpr(s.Step, scope)
			}
			b.resolveBlock(s.Body, inner)
		case *ast.ReturnStmt:
			if s.Value != nil {
				b.resolveExpr(s.Value, scope)
			}
		}
	}
}

func (b *Builder) resolveExpr(e ast.Expr, scope *symtab.Scope) {
	switch x := e.(type) {
	case *ast.VarRef:
		if sym, ok := scope.Lookup(x.Name); ok {
			sym.Used = true
			x.Symbol = sym
		} else {
			b.undefined(x.Name, x.Span())
		}
	case *ast.DerivRef:
		if sym, ok := scope.Lookup(x.Name); ok {
			sym.Used = true
			x.Symbol = sym
		} else {
			b.undefined(x.Name, x.Span())
		}
	case *ast.Call:
		if sym, ok := scope.Lookup(x.FuncName); ok {
			sym.Used = true
			x.Symbol = sym
		} else {
			b.undefined(x.FuncName, x.Span())
		}
		for _, arg := range x.Args {
			b.resolveExpr(arg, scope)
		}
	case *ast.Convolve:
		if sym, ok := scope.Lookup(x.ShapeName); ok {
			sym.Used = true
			x.ShapeSymbol = sym
		} else {
			b.undefined(x.ShapeName, x.Span())
		}
		if sym, ok := scope.Lookup(x.PortName); ok {
			sym.Used = true
			x.PortSymbol = sym
		} else {
			b.undefined(x.PortName, x.Span())
		}
	case *ast.BinaryOp:
		b.resolveExpr(x.Lhs, scope)
		b.resolveExpr(x.Rhs, scope)
	case *ast.UnaryOp:
		b.resolveExpr(x.Operand, scope)
	case *ast.Comparison:
		for _, sub := range x.Exprs {
			b.resolveExpr(sub, scope)
		}
	case *ast.LogicalOp:
		b.resolveExpr(x.Lhs, scope)
		b.resolveExpr(x.Rhs, scope)
	case *ast.Conditional:
		b.resolveExpr(x.Cond, scope)
		b.resolveExpr(x.Then, scope)
		b.resolveExpr(x.Else, scope)
	case *ast.Literal:
		// no references
	}
}

func (b *Builder) undefined(name string, span *report.TextSpan) {
	b.diag.Errorf(b.ctx, span, "UndefinedSymbol", "undefined symbol: `%s`", name)
}

// ReportUnused emits warnings for every declared parameter/internal never
// referenced, per spec §3's "unused internals and parameters trigger
// warnings, not errors".
func ReportUnused(diag *report.Collector, ctx *report.CompilationContext, scope *symtab.Scope) {
	for _, sym := range scope.All() {
		if sym.Used || sym.Kind != symtab.KindVariable {
			continue
		}
		if sym.Origin != "parameters" && sym.Origin != "internals" {
			continue
		}
		diag.Warnf(ctx, sym.DefSpan, "UnusedDeclaration", "`%s` is declared but never used", sym.Name)
	}
}
