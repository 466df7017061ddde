package syntax

import (
	"nestml/ast"
	"nestml/report"
)

// expr = logical_or
func (p *Parser) parseExpr() (ast.Expr, bool) {
	return p.parseLogicalOr()
}

// logical_or = logical_and ('or' logical_and)*
func (p *Parser) parseLogicalOr() (ast.Expr, bool) {
	startSpan := p.tok.Span
	lhs, ok := p.parseLogicalAnd()
	if !ok {
		return nil, false
	}

	for p.got(TOK_OR) {
		if !p.next() {
			return nil, false
		}
		rhs, ok := p.parseLogicalAnd()
		if !ok {
			return nil, false
		}
		lhs = &ast.LogicalOp{
			ExprBase: ast.NewExprBase(ast.NewASTBaseOn(report.NewSpanOver(startSpan, p.lastSpan()))),
			Op:       ast.LogicalOr, Lhs: lhs, Rhs: rhs,
		}
	}
	return lhs, true
}

// logical_and = comparison ('and' comparison)*
func (p *Parser) parseLogicalAnd() (ast.Expr, bool) {
	startSpan := p.tok.Span
	lhs, ok := p.parseComparison()
	if !ok {
		return nil, false
	}

	for p.got(TOK_AND) {
		if !p.next() {
			return nil, false
		}
		rhs, ok := p.parseComparison()
		if !ok {
			return nil, false
		}
		lhs = &ast.LogicalOp{
			ExprBase: ast.NewExprBase(ast.NewASTBaseOn(report.NewSpanOver(startSpan, p.lastSpan()))),
			Op:       ast.LogicalAnd, Lhs: lhs, Rhs: rhs,
		}
	}
	return lhs, true
}

var cmpOpKinds = map[int]int{
	TOK_EQ: ast.CmpEq, TOK_NEQ: ast.CmpNeq,
	TOK_LT: ast.CmpLt, TOK_LTEQ: ast.CmpLte,
	TOK_GT: ast.CmpGt, TOK_GTEQ: ast.CmpGte,
}

// comparison = additive (cmp_op additive)*
// One or more comparison operators build a single ast.Comparison node; a
// chain (`a < b < c`) stays one node, per spec §3's "comparison"
// expression variant.
func (p *Parser) parseComparison() (ast.Expr, bool) {
	startSpan := p.tok.Span
	first, ok := p.parseAdditive()
	if !ok {
		return nil, false
	}

	exprs := []ast.Expr{first}
	var ops []int

	for {
		opKind, isCmp := cmpOpKinds[p.tok.Kind]
		if !isCmp {
			break
		}
		if !p.next() {
			return nil, false
		}
		next, ok := p.parseAdditive()
		if !ok {
			return nil, false
		}
		ops = append(ops, opKind)
		exprs = append(exprs, next)
	}

	if len(ops) == 0 {
		return first, true
	}

	return &ast.Comparison{
		ExprBase: ast.NewExprBase(ast.NewASTBaseOn(report.NewSpanOver(startSpan, p.lastSpan()))),
		Exprs:    exprs, Ops: ops,
	}, true
}

// additive = term (('+' | '-') term)*
func (p *Parser) parseAdditive() (ast.Expr, bool) {
	startSpan := p.tok.Span
	lhs, ok := p.parseTerm()
	if !ok {
		return nil, false
	}

	for p.gotOneOf(TOK_PLUS, TOK_MINUS) {
		op := ast.OpAdd
		if p.got(TOK_MINUS) {
			op = ast.OpSub
		}
		if !p.next() {
			return nil, false
		}
		rhs, ok := p.parseTerm()
		if !ok {
			return nil, false
		}
		lhs = &ast.BinaryOp{
			ExprBase:   ast.NewExprBase(ast.NewASTBaseOn(report.NewSpanOver(startSpan, p.lastSpan()))),
			Op:         op,
			Lhs:        lhs,
			Rhs:        rhs,
			ConvertLhs: 1, ConvertRhs: 1,
		}
	}
	return lhs, true
}

// term = power (('*' | '/' | '%') power)*
func (p *Parser) parseTerm() (ast.Expr, bool) {
	startSpan := p.tok.Span
	lhs, ok := p.parsePower()
	if !ok {
		return nil, false
	}

	for p.gotOneOf(TOK_STAR, TOK_DIV, TOK_MOD) {
		var op int
		switch p.tok.Kind {
		case TOK_STAR:
			op = ast.OpMul
		case TOK_DIV:
			op = ast.OpDiv
		default:
			op = ast.OpMod
		}
		if !p.next() {
			return nil, false
		}
		rhs, ok := p.parsePower()
		if !ok {
			return nil, false
		}
		lhs = &ast.BinaryOp{
			ExprBase:   ast.NewExprBase(ast.NewASTBaseOn(report.NewSpanOver(startSpan, p.lastSpan()))),
			Op:         op,
			Lhs:        lhs,
			Rhs:        rhs,
			ConvertLhs: 1, ConvertRhs: 1,
		}
	}
	return lhs, true
}

// power = unary ['**' power]
// Right-associative, per the usual convention for exponentiation.
func (p *Parser) parsePower() (ast.Expr, bool) {
	startSpan := p.tok.Span
	base, ok := p.parseUnary()
	if !ok {
		return nil, false
	}

	if p.got(TOK_POW) {
		if !p.next() {
			return nil, false
		}
		exp, ok := p.parsePower()
		if !ok {
			return nil, false
		}
		return &ast.BinaryOp{
			ExprBase:   ast.NewExprBase(ast.NewASTBaseOn(report.NewSpanOver(startSpan, p.lastSpan()))),
			Op:         ast.OpPow,
			Lhs:        base,
			Rhs:        exp,
			ConvertLhs: 1, ConvertRhs: 1,
		}, true
	}

	return base, true
}

// unary = ('-' | 'not')? postfix
func (p *Parser) parseUnary() (ast.Expr, bool) {
	startSpan := p.tok.Span

	if p.got(TOK_MINUS) {
		if !p.next() {
			return nil, false
		}
		operand, ok := p.parseUnary()
		if !ok {
			return nil, false
		}
		return &ast.UnaryOp{
			ExprBase: ast.NewExprBase(ast.NewASTBaseOn(report.NewSpanOver(startSpan, p.lastSpan()))),
			Op:       ast.UnaryNeg, Operand: operand,
		}, true
	}

	if p.got(TOK_NOT) {
		if !p.next() {
			return nil, false
		}
		operand, ok := p.parseUnary()
		if !ok {
			return nil, false
		}
		return &ast.UnaryOp{
			ExprBase: ast.NewExprBase(ast.NewASTBaseOn(report.NewSpanOver(startSpan, p.lastSpan()))),
			Op:       ast.UnaryNot, Operand: operand,
		}, true
	}

	return p.parsePostfix()
}

// postfix = primary prime*
// A trailing run of `'` on an identifier yields a DerivRef rather than a
// VarRef, naming the derivative order (spec §3).
func (p *Parser) parsePostfix() (ast.Expr, bool) {
	startSpan := p.tok.Span

	if p.got(TOK_IDENT) {
		name := p.tok.Value
		if !p.next() {
			return nil, false
		}

		if p.got(TOK_LPAREN) {
			return p.parseCallTail(startSpan, name)
		}

		if p.got(TOK_PRIME) {
			order := p.consumePrimes()
			return &ast.DerivRef{
				ExprBase: ast.NewExprBase(ast.NewASTBaseOn(report.NewSpanOver(startSpan, p.lastSpan()))),
				Name:     name, Order: order,
			}, true
		}

		return &ast.VarRef{
			ExprBase: ast.NewExprBase(ast.NewASTBaseOn(report.NewSpanOver(startSpan, startSpan))),
			Name:     name,
		}, true
	}

	return p.parsePrimary()
}

// call_tail = '(' [expr (',' expr)*] ')'
// convolve(shape, port) is recognized structurally here rather than as a
// separate grammar production, since it is lexically just a call.
func (p *Parser) parseCallTail(startSpan *report.TextSpan, name string) (ast.Expr, bool) {
	if !p.next() {
		return nil, false
	}

	var args []ast.Expr
	for !p.got(TOK_RPAREN) {
		arg, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		args = append(args, arg)

		if p.got(TOK_COMMA) {
			if !p.next() {
				return nil, false
			}
		} else {
			break
		}
	}

	if !p.assertAndNext(TOK_RPAREN) {
		return nil, false
	}

	span := ast.NewASTBaseOn(report.NewSpanOver(startSpan, p.lastSpan()))

	if name == "convolve" {
		conv := &ast.Convolve{ExprBase: ast.NewExprBase(span)}
		if len(args) == 2 {
			if shapeRef, ok := args[0].(*ast.VarRef); ok {
				conv.ShapeName = shapeRef.Name
			}
			if portRef, ok := args[1].(*ast.VarRef); ok {
				conv.PortName = portRef.Name
			}
		} else {
			p.rejectWithMsg("convolve expects exactly two arguments: a shape and an input port")
		}
		return conv, true
	}

	return &ast.Call{ExprBase: ast.NewExprBase(span), FuncName: name, Args: args}, true
}

// primary = NUMLIT [unit_expr] | STRINGLIT | 'true' | 'false' | '(' expr ')'
func (p *Parser) parsePrimary() (ast.Expr, bool) {
	startSpan := p.tok.Span

	switch p.tok.Kind {
	case TOK_NUMLIT:
		value := p.tok.Value
		if !p.next() {
			return nil, false
		}
		unitExpr := ""
		if p.got(TOK_IDENT) {
			var ok bool
			unitExpr, ok = p.parseUnitExprText()
			if !ok {
				return nil, false
			}
		}
		return &ast.Literal{
			ExprBase: ast.NewExprBase(ast.NewASTBaseOn(report.NewSpanOver(startSpan, p.lastSpan()))),
			Kind:     ast.LitNumber, Value: value, UnitExpr: unitExpr,
		}, true

	case TOK_STRINGLIT:
		lit := &ast.Literal{
			ExprBase: ast.NewExprBase(ast.NewASTBaseOn(startSpan)),
			Kind:     ast.LitString, Value: p.tok.Value,
		}
		return lit, p.next()

	case TOK_TRUE, TOK_FALSE:
		value := "false"
		if p.tok.Kind == TOK_TRUE {
			value = "true"
		}
		lit := &ast.Literal{
			ExprBase: ast.NewExprBase(ast.NewASTBaseOn(startSpan)),
			Kind:     ast.LitBool, Value: value,
		}
		return lit, p.next()

	case TOK_LPAREN:
		if !p.next() {
			return nil, false
		}
		inner, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		return inner, p.assertAndNext(TOK_RPAREN)

	default:
		p.reject()
		return nil, false
	}
}
