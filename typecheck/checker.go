// Package typecheck implements the type/unit checker (C5): a bottom-up
// decoration pass that assigns a *units.PhysicalType to every expression
// node, inserting scale-conversion factors where dimensions match but
// scales differ, per spec §4.4.
package typecheck

import (
	"nestml/ast"
	"nestml/report"
	"nestml/symtab"
	"nestml/units"
)

// Checker decorates one neuron's expression tree with physical types.
// It never fails outright: on a mismatch it reports an error and types
// the offending node `error`, so sibling expressions keep decorating
// instead of cascading failures (spec §4.4, §7).
type Checker struct {
	ctx  *report.CompilationContext
	diag *report.Collector
}

func NewChecker(ctx *report.CompilationContext, diag *report.Collector) *Checker {
	return &Checker{ctx: ctx, diag: diag}
}

// CheckNeuron decorates every declaration initializer, shape/ODE
// right-hand side, function body, and update-body expression in n.
func (c *Checker) CheckNeuron(n *ast.Neuron) {
	for _, blockDecls := range [][]*ast.Declaration{n.State, n.InitialValues, n.Parameters, n.Internals} {
		for _, d := range blockDecls {
			c.checkDeclaration(d)
		}
	}

	if n.Equations != nil {
		for _, s := range n.Equations.Shapes {
			if s.RHS != nil {
				s.Type = c.checkExpr(s.RHS)
			}
		}
		for _, o := range n.Equations.Odes {
			c.checkExpr(o.RHS)
		}
	}

	for _, f := range n.Functions {
		for _, p := range f.Params {
			p.Type = c.resolveDeclaredUnit(p.UnitExpr, nil)
		}
		if f.Expr != nil {
			c.checkExpr(f.Expr)
		}
		if f.Body != nil {
			c.checkBlock(f.Body)
		}
		if f.ReturnUnit != "" {
			f.ReturnType = c.resolveDeclaredUnit(f.ReturnUnit, nil)
			if f.Symbol != nil {
				f.Symbol.Type = f.ReturnType
			}
		}
	}

	for _, p := range n.Input {
		if p.UnitExpr != "" {
			p.Type = c.resolveDeclaredUnit(p.UnitExpr, p.Span())
		}
	}

	if n.Update != nil {
		c.checkBlock(n.Update)
	}
}

func (c *Checker) checkDeclaration(d *ast.Declaration) {
	declared := c.resolveDeclaredUnit(d.UnitExpr, d.Span())
	d.Type = declared
	if d.Symbol != nil {
		d.Symbol.Type = declared
	}

	if d.Initializer == nil {
		return
	}

	initType := c.checkExpr(d.Initializer)
	if declared.IsError() || initType.IsError() {
		return
	}

	if !units.SameDimension(declared, initType) {
		c.diag.Errorf(c.ctx, d.Span(), "UnitMismatch",
			"cannot initialize `%s` declared as %s with a value of type %s",
			d.Name, declared.Repr(), initType.Repr())
		d.Type = units.ErrorType
		return
	}

	if factor, ok := units.ConversionFactor(initType, declared); ok && factor != 1 {
		if bin, isBin := d.Initializer.(*ast.BinaryOp); isBin {
			bin.ConvertLhs = factor
		}
	}
}

// resolveDeclaredUnit parses a raw unit-expression string captured by the
// parser; an empty string is dimensionless real. span is used for the
// diagnostic location on a malformed expression; nil is acceptable for
// call sites that have no better span (e.g. a function's return unit).
func (c *Checker) resolveDeclaredUnit(unitExpr string, span *report.TextSpan) *units.PhysicalType {
	if unitExpr == "" {
		return units.Dimensionless(units.BaseReal)
	}

	t, err := units.ParseUnitExpr(unitExpr)
	if err != nil {
		c.diag.Errorf(c.ctx, span, "BadUnitExpr", "invalid unit expression %q: %s", unitExpr, err)
		return units.ErrorType
	}
	return t
}

func (c *Checker) checkBlock(block *ast.Block) {
	for _, stmt := range block.Stmts {
		c.checkStmt(stmt)
	}
}

func (c *Checker) checkStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Assignment:
		rhsType := c.checkExpr(s.RHS)
		if s.LHSSymbol == nil || s.LHSSymbol.Type == nil || rhsType.IsError() || s.LHSSymbol.Type.IsError() {
			return
		}
		if !units.SameDimension(s.LHSSymbol.Type, rhsType) {
			c.diag.Errorf(c.ctx, s.Span(), "UnitMismatch",
				"cannot assign a value of type %s into `%s` declared as %s",
				rhsType.Repr(), s.LHSName, s.LHSSymbol.Type.Repr())
			return
		}
		if factor, ok := units.ConversionFactor(rhsType, s.LHSSymbol.Type); ok {
			s.ConvertScale = factor
		}
	case *ast.ExprStmt:
		c.checkExpr(s.Expr)
	case *ast.IfTree:
		for _, br := range s.Branches {
			c.checkExpr(br.Condition)
			c.checkBlock(br.Body)
		}
		if s.ElseBranch != nil {
			c.checkBlock(s.ElseBranch)
		}
	case *ast.ForLoop:
		c.checkExpr(s.From)
		c.checkExpr(s.To)
		if s.Step != nil {
			c.checkExpr(s.Step)
		}
		if s.Symbol != nil {
			s.Symbol.Type = units.Dimensionless(units.BaseInteger)
		}
		c.checkBlock(s.Body)
	case *ast.ReturnStmt:
		if s.Value != nil {
			c.checkExpr(s.Value)
		}
	}
}

// checkExpr decorates e and returns its resolved type, per spec's
// "bottom-up decoration" rule: every call returns the type it also
// stashed on the node via Expr.SetType.
func (c *Checker) checkExpr(e ast.Expr) *units.PhysicalType {
	t := c.inferExpr(e)
	e.SetType(t)
	return t
}

func (c *Checker) inferExpr(e ast.Expr) *units.PhysicalType {
	switch x := e.(type) {
	case *ast.Literal:
		return c.checkLiteral(x)
	case *ast.VarRef:
		return c.symbolType(x.Symbol)
	case *ast.DerivRef:
		base := c.symbolType(x.Symbol)
		if base.IsError() {
			return base
		}
		// A derivative of order k divides the base unit by time^k.
		return units.Div(base, timeUnitPow(x.Order))
	case *ast.Call:
		return c.checkCall(x)
	case *ast.Convolve:
		return c.checkConvolve(x)
	case *ast.BinaryOp:
		return c.checkBinaryOp(x)
	case *ast.UnaryOp:
		if x.Op == ast.UnaryNot {
			c.checkExpr(x.Operand)
			return units.Boolean
		}
		return c.checkExpr(x.Operand)
	case *ast.Comparison:
		return c.checkComparison(x)
	case *ast.LogicalOp:
		c.checkExpr(x.Lhs)
		c.checkExpr(x.Rhs)
		return units.Boolean
	case *ast.Conditional:
		c.checkExpr(x.Cond)
		thenType := c.checkExpr(x.Then)
		elseType := c.checkExpr(x.Else)
		if thenType.IsError() || elseType.IsError() {
			return units.ErrorType
		}
		if !units.SameDimension(thenType, elseType) {
			c.diag.Errorf(c.ctx, x.Span(), "UnitMismatch",
				"conditional branches have incompatible types %s and %s", thenType.Repr(), elseType.Repr())
			return units.ErrorType
		}
		return thenType
	default:
		return units.ErrorType
	}
}

func (c *Checker) symbolType(sym *symtab.Symbol) *units.PhysicalType {
	if sym == nil || sym.Type == nil {
		return units.ErrorType
	}
	return sym.Type
}

func (c *Checker) checkLiteral(lit *ast.Literal) *units.PhysicalType {
	switch lit.Kind {
	case ast.LitString:
		return units.String
	case ast.LitBool:
		return units.Boolean
	default:
		if lit.UnitExpr == "" {
			return units.Dimensionless(units.BaseReal)
		}
		t, err := units.ParseUnitExpr(lit.UnitExpr)
		if err != nil {
			c.diag.Errorf(c.ctx, lit.Span(), "BadUnitExpr", "invalid unit suffix %q: %s", lit.UnitExpr, err)
			return units.ErrorType
		}
		return t
	}
}

func (c *Checker) checkComparison(cmp *ast.Comparison) *units.PhysicalType {
	var prev *units.PhysicalType
	for i, sub := range cmp.Exprs {
		t := c.checkExpr(sub)
		if i > 0 && !t.IsError() && !prev.IsError() && !units.SameDimension(prev, t) {
			c.diag.Errorf(c.ctx, sub.Span(), "UnitMismatch",
				"comparison operands have incompatible types %s and %s", prev.Repr(), t.Repr())
		}
		prev = t
	}
	return units.Boolean
}

// timeUnitPow returns the unit time^order, used to divide out a
// derivative's order from its base variable's unit.
func timeUnitPow(order int) *units.PhysicalType {
	t := units.Dimensionless(units.BaseReal)
	seconds, _ := units.ParseUnitExpr("s")
	for i := 0; i < order; i++ {
		t = units.Mul(t, seconds)
	}
	return t
}
