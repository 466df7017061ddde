// Package cocos implements the context-condition checker (C6): a fixed
// list of whole-program well-formedness rules applied after C5, each
// independent and reporting diagnostics without rewriting the AST, per
// spec §4.5.
package cocos

import (
	"nestml/ast"
	"nestml/report"
	"nestml/symtab"
	"nestml/units"
)

// Checker runs every context condition against one neuron.
type Checker struct {
	ctx  *report.CompilationContext
	diag *report.Collector
	dev  bool // set from the `dev` config option; no rule reads it, so every rule runs the same with or without it
}

func NewChecker(ctx *report.CompilationContext, diag *report.Collector, dev bool) *Checker {
	return &Checker{ctx: ctx, diag: diag, dev: dev}
}

// CheckNeuron runs every rule against n. Rules are independent: a
// violation of one never suppresses another (spec §8's "CoCo
// independence" testable property).
func (c *Checker) CheckNeuron(n *ast.Neuron) {
	c.checkDerivativeLHSDeclared(n)
	c.checkConvolveArguments(n)
	c.checkInitialValueAliasReferences(n)
	c.checkBlockCardinality(n)
	c.checkBuiltinCallSites(n)
	c.checkParameterConstantInit(n)
	c.checkInputPortSignUnitAgreement(n)
	c.checkNoAliasCycles(n)
	c.checkNoReservedNameRedeclaration(n)
	c.checkNoForwardReferenceInStateOrInternals(n)
}

// checkDerivativeLHSDeclared enforces that every variable on the LHS of a
// state ODE in equations is declared in state or initial_values. It checks
// the name only: the declared unit is not compared against the ODE's
// derivative order, and ODE-defined shapes are not checked.
func (c *Checker) checkDerivativeLHSDeclared(n *ast.Neuron) {
	if n.Equations == nil {
		return
	}

	declared := make(map[string]bool)
	for _, d := range n.State {
		declared[d.Name] = true
	}
	for _, d := range n.InitialValues {
		declared[d.Name] = true
	}

	for _, o := range n.Equations.Odes {
		if !declared[o.LHSName] {
			c.diag.Errorf(c.ctx, o.Span(), "CoCoUndeclaredDerivativeLHS",
				"`%s'` has no corresponding declaration in `state` or `initial_values`", o.LHSName)
		}
	}
}

// checkConvolveArguments enforces "every shape name used by convolve must
// be declared in the same equations block; the second argument must
// resolve to an INPUT_PORT of kind spike."
func (c *Checker) checkConvolveArguments(n *ast.Neuron) {
	ast.WalkNeuron(n, func(e ast.Expr) {
		conv, ok := e.(*ast.Convolve)
		if !ok {
			return
		}

		if conv.ShapeSymbol == nil || conv.ShapeSymbol.Kind != symtab.KindShape {
			c.diag.Errorf(c.ctx, conv.Span(), "CoCoConvolveNotCorrectlyProvided",
				"`%s` is not a declared shape", conv.ShapeName)
		}
		if conv.PortSymbol == nil || conv.PortSymbol.Kind != symtab.KindInputPort {
			c.diag.Errorf(c.ctx, conv.Span(), "CoCoConvolveNotCorrectlyProvided",
				"`%s` is not a declared input port", conv.PortName)
			return
		}
		if port := findInputPort(n, conv.PortName); port != nil && port.Kind != ast.PortSpike {
			c.diag.Errorf(c.ctx, conv.Span(), "CoCoConvolveNotCorrectlyProvided",
				"`%s` is a current port; convolve's second argument must be a spike port", conv.PortName)
		}
	})
}

func findInputPort(n *ast.Neuron, name string) *ast.InputPort {
	for _, p := range n.Input {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// checkInitialValueAliasReferences enforces "alias RHS may reference
// parameters and other initial values but not state or itself."
func (c *Checker) checkInitialValueAliasReferences(n *ast.Neuron) {
	state := make(map[string]bool)
	for _, d := range n.State {
		state[d.Name] = true
	}

	for _, d := range n.InitialValues {
		if !d.IsFunctionAlias() || d.Initializer == nil {
			continue
		}
		ast.WalkExpr(d.Initializer, func(e ast.Expr) {
			ref, ok := e.(*ast.VarRef)
			if !ok {
				return
			}
			if ref.Name == d.Name {
				c.diag.Errorf(c.ctx, ref.Span(), "CoCoSelfReferentialAlias",
					"alias `%s` may not reference itself", d.Name)
			} else if state[ref.Name] {
				c.diag.Errorf(c.ctx, ref.Span(), "CoCoAliasReferencesState",
					"alias `%s` may not reference state variable `%s`", d.Name, ref.Name)
			}
		})
	}
}

// checkBlockCardinality enforces "a neuron declares at most one of each
// block kind; output: declares exactly one port kind (spike)." The
// parser already forbids more than one instance of each keyworded block
// syntactically, so this rule only needs to check output's kind.
func (c *Checker) checkBlockCardinality(n *ast.Neuron) {
	if n.Output != nil && n.Output.Kind != ast.PortSpike {
		c.diag.Errorf(c.ctx, n.Span(), "CoCoInvalidOutputKind", "`output:` must declare `spike`")
	}
}

// checkBuiltinCallSites enforces "integrate_odes() is callable only
// inside update; emit_spike() likewise."
func (c *Checker) checkBuiltinCallSites(n *ast.Neuron) {
	restricted := map[string]bool{"integrate_odes": true, "emit_spike": true}

	checkOutsideUpdate := func(e ast.Expr) {
		if call, ok := e.(*ast.Call); ok && restricted[call.FuncName] {
			c.diag.Errorf(c.ctx, call.Span(), "CoCoBuiltinOutsideUpdate",
				"`%s()` may only be called inside `update`", call.FuncName)
		}
	}

	for _, d := range n.State {
		if d.Initializer != nil {
			ast.WalkExpr(d.Initializer, checkOutsideUpdate)
		}
	}
	for _, d := range n.InitialValues {
		if d.Initializer != nil {
			ast.WalkExpr(d.Initializer, checkOutsideUpdate)
		}
	}
	for _, d := range n.Parameters {
		if d.Initializer != nil {
			ast.WalkExpr(d.Initializer, checkOutsideUpdate)
		}
	}
	for _, d := range n.Internals {
		if d.Initializer != nil {
			ast.WalkExpr(d.Initializer, checkOutsideUpdate)
		}
	}
	if n.Equations != nil {
		for _, s := range n.Equations.Shapes {
			if s.RHS != nil {
				ast.WalkExpr(s.RHS, checkOutsideUpdate)
			}
		}
		for _, o := range n.Equations.Odes {
			ast.WalkExpr(o.RHS, checkOutsideUpdate)
		}
	}
	ast.WalkNeuron(&ast.Neuron{Functions: n.Functions}, checkOutsideUpdate)
}

// checkParameterConstantInit enforces "all parameters are initialized
// with a constant expression (no references to non-parameter
// variables)."
func (c *Checker) checkParameterConstantInit(n *ast.Neuron) {
	paramNames := make(map[string]bool)
	for _, d := range n.Parameters {
		paramNames[d.Name] = true
	}

	for _, d := range n.Parameters {
		if d.Initializer == nil {
			continue
		}
		ast.WalkExpr(d.Initializer, func(e ast.Expr) {
			ref, ok := e.(*ast.VarRef)
			if !ok {
				return
			}
			if ref.Symbol != nil && ref.Symbol.Kind == symtab.KindVariable && !paramNames[ref.Name] {
				c.diag.Errorf(c.ctx, ref.Span(), "CoCoNonConstantParameterInit",
					"parameter `%s` must be initialized with a constant expression; `%s` is not a parameter",
					d.Name, ref.Name)
			}
		})
	}
}

// checkInputPortSignUnitAgreement enforces "input port declarations with
// <- inhibitory spike and <- excitatory spike must use the same unit if
// both are present."
func (c *Checker) checkInputPortSignUnitAgreement(n *ast.Neuron) {
	var inhibitory, excitatory *ast.InputPort
	for _, p := range n.Input {
		switch p.Sign {
		case ast.PortSignInhibitory:
			inhibitory = p
		case ast.PortSignExcitatory:
			excitatory = p
		}
	}

	if inhibitory == nil || excitatory == nil {
		return
	}
	if inhibitory.UnitExpr != "" && excitatory.UnitExpr != "" && inhibitory.UnitExpr != excitatory.UnitExpr {
		c.diag.Errorf(c.ctx, excitatory.Span(), "CoCoPortSignUnitMismatch",
			"excitatory port `%s` (%s) and inhibitory port `%s` (%s) must declare the same unit",
			excitatory.Name, excitatory.UnitExpr, inhibitory.Name, inhibitory.UnitExpr)
	}
}

// checkNoAliasCycles enforces "no cyclic dependency among function-aliases
// in initial_values/equations" via iterative depth-first marking, per
// spec §9's note on representing the equations dependency graph without
// cyclic ownership.
func (c *Checker) checkNoAliasCycles(n *ast.Neuron) {
	aliasRHS := make(map[string]ast.Expr)
	for _, d := range n.InitialValues {
		if d.IsFunctionAlias() {
			aliasRHS[d.Name] = d.Initializer
		}
	}

	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int)

	var visit func(name string) bool
	visit = func(name string) bool {
		rhs, isAlias := aliasRHS[name]
		if !isAlias {
			return true
		}
		switch state[name] {
		case visiting:
			c.diag.Errorf(c.ctx, n.Span(), "CoCoCyclicAlias", "cyclic dependency among function-aliases involving `%s`", name)
			return false
		case done:
			return true
		}

		state[name] = visiting
		ok := true
		if rhs != nil {
			ast.WalkExpr(rhs, func(e ast.Expr) {
				if ref, isRef := e.(*ast.VarRef); isRef {
					if !visit(ref.Name) {
						ok = false
					}
				}
			})
		}
		state[name] = done
		return ok
	}

	for name := range aliasRHS {
		visit(name)
	}
}

// checkNoReservedNameRedeclaration enforces "reserved names (unit
// symbols, built-ins) may not be redeclared."
func (c *Checker) checkNoReservedNameRedeclaration(n *ast.Neuron) {
	check := func(name string, span *report.TextSpan) {
		switch {
		case symtab.IsBuiltinFunction(name):
			c.diag.Errorf(c.ctx, span, "CoCoReservedNameRedeclared", "`%s` is a built-in function and may not be redeclared", name)
		case units.IsReservedName(name):
			c.diag.Errorf(c.ctx, span, "CoCoReservedNameRedeclared", "`%s` is a reserved unit symbol and may not be redeclared", name)
		}
	}

	for _, blockDecls := range [][]*ast.Declaration{n.State, n.InitialValues, n.Parameters, n.Internals} {
		for _, d := range blockDecls {
			check(d.Name, d.Span())
		}
	}
	for _, f := range n.Functions {
		check(f.Name, f.Span())
	}
}

// checkNoForwardReferenceInStateOrInternals enforces spec §3's "forward
// references within the same block are permitted only for parameters and
// initial_values": a state or internals member's initializer may not name
// a sibling declared later in that same block. parameters and
// initial_values are left unrestricted.
func (c *Checker) checkNoForwardReferenceInStateOrInternals(n *ast.Neuron) {
	c.checkBlockForwardReferences(n.State, "state")
	c.checkBlockForwardReferences(n.Internals, "internals")
}

func (c *Checker) checkBlockForwardReferences(decls []*ast.Declaration, origin string) {
	index := make(map[string]int, len(decls))
	for i, d := range decls {
		index[d.Name] = i
	}

	for i, d := range decls {
		if d.Initializer == nil {
			continue
		}
		ast.WalkExpr(d.Initializer, func(e ast.Expr) {
			ref, ok := e.(*ast.VarRef)
			if !ok {
				return
			}
			if j, sameBlock := index[ref.Name]; sameBlock && j > i {
				c.diag.Errorf(c.ctx, ref.Span(), "CoCoForwardReferenceNotAllowed",
					"`%s` in `%s` may not forward-reference `%s`, declared later in the same block; only `parameters` and `initial_values` permit forward references",
					d.Name, origin, ref.Name)
			}
		})
	}
}
