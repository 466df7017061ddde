package syntax

import (
	"nestml/ast"
	"nestml/report"
)

// input_block = 'input' ':' port_line* 'end'
func (p *Parser) parseInputBlock() ([]*ast.InputPort, bool) {
	if !p.next() || !p.assertAndNext(TOK_COLON) {
		return nil, false
	}

	var ports []*ast.InputPort
	for !p.gotOneOf(TOK_END, TOK_EOF) {
		port, ok := p.parsePortLine()
		if !ok {
			return nil, false
		}
		ports = append(ports, port)
	}

	return ports, p.assertAndNext(TOK_END)
}

// port_line = IDENT [unit_expr] '<-' [('inhibitory' | 'excitatory')] ('spike' | 'current')
func (p *Parser) parsePortLine() (*ast.InputPort, bool) {
	startSpan := p.tok.Span
	if !p.assert(TOK_IDENT) {
		return nil, false
	}
	name := p.tok.Value
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

	if !p.assertAndNext(TOK_ARROW) {
		return nil, false
	}

	sign := ast.PortSignNone
	if p.got(TOK_INHIBITORY) {
		sign = ast.PortSignInhibitory
		if !p.next() {
			return nil, false
		}
	} else if p.got(TOK_EXCITATORY) {
		sign = ast.PortSignExcitatory
		if !p.next() {
			return nil, false
		}
	}

	var kind int
	switch {
	case p.got(TOK_SPIKE):
		kind = ast.PortSpike
	case p.got(TOK_CURRENT):
		kind = ast.PortCurrent
	default:
		p.reject()
		return nil, false
	}

	port := &ast.InputPort{
		ASTBase:  ast.NewASTBaseOn(report.NewSpanOver(startSpan, p.tok.Span)),
		Name:     name,
		UnitExpr: unitExpr,
		Kind:     kind,
		Sign:     sign,
	}
	return port, p.next()
}

// output_block = 'output' ':' 'spike' 'end'
func (p *Parser) parseOutputBlock() (*ast.OutputPort, bool) {
	if !p.next() || !p.assertAndNext(TOK_COLON) || !p.assertAndNext(TOK_SPIKE) {
		return nil, false
	}
	return &ast.OutputPort{Kind: ast.PortSpike}, p.assertAndNext(TOK_END)
}
