package syntax

import (
	"nestml/ast"
	"nestml/report"
)

// equations_block = 'equations' ':' (shape_line | ode_line)* 'end'
func (p *Parser) parseEquationsBlock() (*ast.EquationsBlock, bool) {
	startSpan := p.tok.Span
	if !p.next() || !p.assertAndNext(TOK_COLON) {
		return nil, false
	}

	block := &ast.EquationsBlock{}
	for !p.gotOneOf(TOK_END, TOK_EOF) {
		if p.got(TOK_SHAPE) {
			s, ok := p.parseShapeLine()
			if !ok {
				return nil, false
			}
			block.Shapes = append(block.Shapes, s)
		} else {
			o, ok := p.parseOdeLine()
			if !ok {
				return nil, false
			}
			block.Odes = append(block.Odes, o)
		}
	}

	block.ASTBase = ast.NewASTBaseOn(report.NewSpanOver(startSpan, p.tok.Span))
	return block, p.assertAndNext(TOK_END)
}

// shape_line = 'shape' IDENT prime* '=' expr
func (p *Parser) parseShapeLine() (*ast.Shape, bool) {
	startSpan := p.tok.Span
	if !p.next() || !p.assert(TOK_IDENT) {
		return nil, false
	}
	name := p.tok.Value
	if !p.next() {
		return nil, false
	}

	order := p.consumePrimes()

	if !p.assertAndNext(TOK_ASSIGN) {
		return nil, false
	}
	rhs, ok := p.parseExpr()
	if !ok {
		return nil, false
	}

	kind := ast.ShapeDirect
	if order > 0 {
		kind = ast.ShapeOde
	}

	return &ast.Shape{
		ASTBase: ast.NewASTBaseOn(report.NewSpanOver(startSpan, p.lastSpan())),
		Name:    name, Kind: kind, Order: order, RHS: rhs,
	}, true
}

// ode_line = IDENT prime+ '=' expr
func (p *Parser) parseOdeLine() (*ast.OdeEquation, bool) {
	startSpan := p.tok.Span
	if !p.assert(TOK_IDENT) {
		return nil, false
	}
	name := p.tok.Value
	if !p.next() {
		return nil, false
	}

	order := p.consumePrimes()
	if order == 0 {
		p.rejectWithMsg("expected a derivative (`'`) on a state equation's left-hand side")
		return nil, false
	}

	if !p.assertAndNext(TOK_ASSIGN) {
		return nil, false
	}
	rhs, ok := p.parseExpr()
	if !ok {
		return nil, false
	}

	return &ast.OdeEquation{
		ASTBase: ast.NewASTBaseOn(report.NewSpanOver(startSpan, p.lastSpan())),
		LHSName: name, Order: order, RHS: rhs,
	}, true
}

func (p *Parser) consumePrimes() int {
	order := 0
	for p.got(TOK_PRIME) {
		order++
		if !p.next() {
			return order
		}
	}
	return order
}
