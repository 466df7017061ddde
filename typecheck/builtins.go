package typecheck

import (
	"nestml/ast"
	"nestml/symtab"
	"nestml/units"
)

// checkBinaryOp applies the unit laws of spec §4.2 to a single `+ - * / **
// %` application, inserting conversion factors on `+`/`-` when dimensions
// match but scales differ.
func (c *Checker) checkBinaryOp(b *ast.BinaryOp) *units.PhysicalType {
	lhs := c.checkExpr(b.Lhs)
	rhs := c.checkExpr(b.Rhs)
	if lhs.IsError() || rhs.IsError() {
		return units.ErrorType
	}

	switch b.Op {
	case ast.OpAdd, ast.OpSub:
		result, ok := units.Add(lhs, rhs)
		if !ok {
			c.diag.Errorf(c.ctx, b.Span(), "UnitMismatch",
				"`%s` requires matching dimensions, got %s and %s", binOpSymbol(b.Op), lhs.Repr(), rhs.Repr())
			return units.ErrorType
		}
		b.ConvertLhs, b.ConvertRhs = result.ConvertLeft, result.ConvertRight
		return result.Type
	case ast.OpMul:
		return units.Mul(lhs, rhs)
	case ast.OpDiv:
		return units.Div(lhs, rhs)
	case ast.OpMod:
		if !units.SameDimension(lhs, rhs) {
			c.diag.Errorf(c.ctx, b.Span(), "UnitMismatch",
				"`%%` requires matching dimensions, got %s and %s", lhs.Repr(), rhs.Repr())
			return units.ErrorType
		}
		return lhs
	case ast.OpPow:
		lit, isIntLit := integerLiteralValue(b.Rhs)
		if !isIntLit {
			if !lhs.IsDimensionless() {
				c.diag.Errorf(c.ctx, b.Span(), "BadExponent",
					"`**` with a non-integer exponent requires a dimensionless base, got %s", lhs.Repr())
				return units.ErrorType
			}
			return lhs
		}
		return units.Pow(lhs, lit)
	default:
		return units.ErrorType
	}
}

func binOpSymbol(op int) string {
	switch op {
	case ast.OpAdd:
		return "+"
	case ast.OpSub:
		return "-"
	default:
		return "?"
	}
}

// integerLiteralValue reports whether e is a bare dimensionless integer
// literal and, if so, its value -- used to distinguish `x**2` (legal on a
// dimensioned base) from `x**y` (legal only on a dimensionless base).
func integerLiteralValue(e ast.Expr) (int64, bool) {
	lit, ok := e.(*ast.Literal)
	if !ok || lit.Kind != ast.LitNumber || lit.UnitExpr != "" {
		return 0, false
	}
	var n int64
	var frac bool
	for _, ch := range lit.Value {
		switch {
		case ch >= '0' && ch <= '9':
			n = n*10 + int64(ch-'0')
		case ch == '.':
			frac = true
		default:
			return 0, false
		}
	}
	if frac {
		return 0, false
	}
	return n, true
}

// builtinSignatures enumerates C5's closed set of built-in function
// signatures (spec §4.4). An argCount of -1 accepts any number of
// arguments. Argument units are not checked against the signature, except
// that dependentArg functions (random_normal, random_uniform) require their
// two arguments to share a dimension and return the first one's type.
type builtinSig struct {
	argCount     int // -1 means variadic/any
	dependentArg bool
	returnUnit   func(args []*units.PhysicalType) *units.PhysicalType
}

var builtinSigs = map[string]builtinSig{
	"exp":    {argCount: 1, returnUnit: dimensionlessReal},
	"ln":     {argCount: 1, returnUnit: dimensionlessReal},
	"log10":  {argCount: 1, returnUnit: dimensionlessReal},
	"sin":    {argCount: 1, returnUnit: dimensionlessReal},
	"cos":    {argCount: 1, returnUnit: dimensionlessReal},
	"tan":    {argCount: 1, returnUnit: dimensionlessReal},
	"sqrt":   {argCount: 1, returnUnit: dimensionlessReal},
	"abs":    {argCount: 1, returnUnit: passThroughFirst},
	"min":    {argCount: 2, returnUnit: passThroughFirst},
	"max":    {argCount: 2, returnUnit: passThroughFirst},
	"steps":  {argCount: 1, returnUnit: dimensionlessInteger},
	"resolution":     {argCount: 0, returnUnit: millisecondsUnit},
	"random_normal":  {argCount: 2, dependentArg: true, returnUnit: passThroughFirst},
	"random_uniform": {argCount: 2, dependentArg: true, returnUnit: passThroughFirst},
	"emit_spike":     {argCount: 0, returnUnit: voidType},
	"integrate_odes": {argCount: 0, returnUnit: voidType},
}

func dimensionlessReal(_ []*units.PhysicalType) *units.PhysicalType    { return units.Dimensionless(units.BaseReal) }
func dimensionlessInteger(_ []*units.PhysicalType) *units.PhysicalType { return units.Dimensionless(units.BaseInteger) }
func voidType(_ []*units.PhysicalType) *units.PhysicalType             { return units.Void }

func millisecondsUnit(_ []*units.PhysicalType) *units.PhysicalType {
	t, _ := units.ParseUnitExpr("ms")
	return t
}

func passThroughFirst(args []*units.PhysicalType) *units.PhysicalType {
	if len(args) == 0 {
		return units.ErrorType
	}
	return args[0]
}

// checkCall resolves a call against the built-in signature table, or
// against a user function's declared parameter/return units when the
// symbol names a `function` definition.
func (c *Checker) checkCall(call *ast.Call) *units.PhysicalType {
	argTypes := make([]*units.PhysicalType, len(call.Args))
	for i, arg := range call.Args {
		argTypes[i] = c.checkExpr(arg)
	}

	if call.Symbol == nil {
		return units.ErrorType
	}

	sig, isBuiltin := builtinSigs[call.FuncName]
	if !isBuiltin {
		// A user-defined function: CheckNeuron copies its declared return
		// unit onto the function's symbol when it checks the function, so
		// calls checked before that (in declarations or equations) and
		// calls to a function with no return unit are typed error.
		return c.symbolType(call.Symbol)
	}

	if sig.argCount >= 0 && len(argTypes) != sig.argCount {
		c.diag.Errorf(c.ctx, call.Span(), "BadArgCount",
			"`%s` expects %d argument(s), got %d", call.FuncName, sig.argCount, len(argTypes))
		return units.ErrorType
	}

	for _, t := range argTypes {
		if t.IsError() {
			return units.ErrorType
		}
	}

	if sig.dependentArg && !units.SameDimension(argTypes[0], argTypes[1]) {
		c.diag.Errorf(c.ctx, call.Span(), "UnitMismatch",
			"`%s` requires arguments of a common dimension, got %s and %s",
			call.FuncName, argTypes[0].Repr(), argTypes[1].Repr())
		return units.ErrorType
	}

	return sig.returnUnit(argTypes)
}

// checkConvolve treats `convolve(shape, port)` as opaque but
// unit-annotated: its declared output unit is the product of the shape's
// and port's units, per spec §4.4's note that the checker does not
// attempt to model the later analytic rewrite's unit algebra.
func (c *Checker) checkConvolve(conv *ast.Convolve) *units.PhysicalType {
	shapeType := c.shapeSymbolType(conv.ShapeSymbol)
	portType := c.symbolType(conv.PortSymbol)

	if shapeType.IsError() || portType.IsError() {
		return units.ErrorType
	}
	return units.Mul(shapeType, portType)
}

func (c *Checker) shapeSymbolType(sym *symtab.Symbol) *units.PhysicalType {
	if sym == nil || sym.Type == nil {
		return units.ErrorType
	}
	return sym.Type
}
