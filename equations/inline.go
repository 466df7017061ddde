package equations

import "nestml/ast"

// inlineAliases returns e with every VarRef naming a function-alias
// replaced by that alias's right-hand side, applied recursively. Operator,
// call, and conditional nodes are rebuilt as new nodes; leaf nodes
// (literals, non-alias references, convolve) are shared with the original
// trees, not copied. This serves analysis only -- the original
// declarations are never mutated, per spec §4.6 step 4.
func inlineAliases(e ast.Expr, aliases map[string]ast.Expr) ast.Expr {
	if e == nil || len(aliases) == 0 {
		return e
	}
	return inlineOne(e, aliases, make(map[string]bool))
}

// inlineOne walks e, substituting alias references. inlining tracks the
// names currently being substituted to break a cycle defensively (CoCo
// C6 already rejects cyclic aliases outright; this guard only prevents
// infinite recursion if that check is ever bypassed).
func inlineOne(e ast.Expr, aliases map[string]ast.Expr, inlining map[string]bool) ast.Expr {
	switch x := e.(type) {
	case *ast.VarRef:
		rhs, isAlias := aliases[x.Name]
		if !isAlias || inlining[x.Name] {
			return x
		}
		inlining[x.Name] = true
		result := inlineOne(rhs, aliases, inlining)
		delete(inlining, x.Name)
		return result
	case *ast.BinaryOp:
		return &ast.BinaryOp{
			ExprBase: x.ExprBase, Op: x.Op,
			Lhs: inlineOne(x.Lhs, aliases, inlining), Rhs: inlineOne(x.Rhs, aliases, inlining),
			ConvertLhs: x.ConvertLhs, ConvertRhs: x.ConvertRhs,
		}
	case *ast.UnaryOp:
		return &ast.UnaryOp{ExprBase: x.ExprBase, Op: x.Op, Operand: inlineOne(x.Operand, aliases, inlining)}
	case *ast.Comparison:
		exprs := make([]ast.Expr, len(x.Exprs))
		for i, sub := range x.Exprs {
			exprs[i] = inlineOne(sub, aliases, inlining)
		}
		return &ast.Comparison{ExprBase: x.ExprBase, Exprs: exprs, Ops: x.Ops}
	case *ast.LogicalOp:
		return &ast.LogicalOp{ExprBase: x.ExprBase, Op: x.Op, Lhs: inlineOne(x.Lhs, aliases, inlining), Rhs: inlineOne(x.Rhs, aliases, inlining)}
	case *ast.Conditional:
		return &ast.Conditional{
			ExprBase: x.ExprBase,
			Cond:     inlineOne(x.Cond, aliases, inlining),
			Then:     inlineOne(x.Then, aliases, inlining),
			Else:     inlineOne(x.Else, aliases, inlining),
		}
	case *ast.Call:
		args := make([]ast.Expr, len(x.Args))
		for i, arg := range x.Args {
			args[i] = inlineOne(arg, aliases, inlining)
		}
		return &ast.Call{ExprBase: x.ExprBase, FuncName: x.FuncName, Args: args, Symbol: x.Symbol}
	default:
		return e
	}
}

// isAffine reports whether e, after alias inlining, is an affine form
// over name and its derivatives: every appearance of name is either
// absent, added/subtracted, or multiplied/divided by a sub-expression
// that itself does not reference name (so the coefficient is constant
// with respect to name). Nonlinear forms (name appearing inside a
// function call, raised to a power, or multiplied by itself) return
// false, per spec §4.6's linearity-detection rule.
func isAffine(e ast.Expr, name string) bool {
	if e == nil {
		return true
	}

	switch x := e.(type) {
	case *ast.Literal:
		return true
	case *ast.VarRef:
		return true
	case *ast.DerivRef:
		return true
	case *ast.UnaryOp:
		return isAffine(x.Operand, name)
	case *ast.BinaryOp:
		switch x.Op {
		case ast.OpAdd, ast.OpSub:
			return isAffine(x.Lhs, name) && isAffine(x.Rhs, name)
		case ast.OpMul:
			return !(references(x.Lhs, name) && references(x.Rhs, name)) &&
				isAffine(x.Lhs, name) && isAffine(x.Rhs, name)
		case ast.OpDiv:
			return !references(x.Rhs, name) && isAffine(x.Lhs, name)
		default:
			return !references(x, name)
		}
	case *ast.Call:
		for _, arg := range x.Args {
			if references(arg, name) {
				return false
			}
		}
		return true
	case *ast.Convolve:
		return true
	default:
		return !references(e, name)
	}
}

// references reports whether e contains any reference (var or
// derivative) to name.
func references(e ast.Expr, name string) bool {
	found := false
	ast.WalkExpr(e, func(x ast.Expr) {
		switch v := x.(type) {
		case *ast.VarRef:
			if v.Name == name {
				found = true
			}
		case *ast.DerivRef:
			if v.Name == name {
				found = true
			}
		}
	})
	return found
}
