package syntax

import (
	"nestml/ast"
	"nestml/report"
)

// funcdef = 'function' IDENT '(' [param (',' param)*] ')' [unit_expr] ':' stmt* 'end'
// param    = IDENT unit_expr
func (p *Parser) parseFuncDef() (*ast.FuncDef, bool) {
	startSpan := p.tok.Span
	if !p.next() || !p.assert(TOK_IDENT) {
		return nil, false
	}
	name := p.tok.Value

	if !p.want(TOK_LPAREN) || !p.next() {
		return nil, false
	}

	var params []ast.Param
	for !p.got(TOK_RPAREN) {
		if !p.assert(TOK_IDENT) {
			return nil, false
		}
		pname := p.tok.Value
		if !p.next() {
			return nil, false
		}
		unitExpr, ok := p.parseUnitExprText()
		if !ok {
			return nil, false
		}
		params = append(params, ast.Param{Name: pname, UnitExpr: unitExpr})

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

	returnUnit := ""
	if p.got(TOK_IDENT) {
		var ok bool
		returnUnit, ok = p.parseUnitExprText()
		if !ok {
			return nil, false
		}
	}

	if !p.assertAndNext(TOK_COLON) {
		return nil, false
	}

	body, ok := p.parseStmtsUntil(TOK_END)
	if !ok {
		return nil, false
	}

	fn := &ast.FuncDef{
		ASTBase:    ast.NewASTBaseOn(report.NewSpanOver(startSpan, p.tok.Span)),
		Name:       name,
		Params:     params,
		ReturnUnit: returnUnit,
		Body:       body,
	}
	return fn, p.assertAndNext(TOK_END)
}
