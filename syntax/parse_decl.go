package syntax

import (
	"nestml/ast"
	"nestml/report"
)

// decl_block = block_kw ':' decl_line* 'end'
func (p *Parser) parseDeclBlock(openKind int) ([]*ast.Declaration, bool) {
	if !p.next() || !p.assertAndNext(TOK_COLON) {
		return nil, false
	}

	var decls []*ast.Declaration
	for !p.gotOneOf(TOK_END, TOK_EOF) {
		d, ok := p.parseDeclLine()
		if !ok {
			return nil, false
		}
		decls = append(decls, d)
	}

	return decls, p.assertAndNext(TOK_END)
}

// decl_line = ['recordable'] ['function'] IDENT unit_expr ['=' expr]
func (p *Parser) parseDeclLine() (*ast.Declaration, bool) {
	startSpan := p.tok.Span

	flags := 0
	if p.got(TOK_RECORDABLE) {
		flags |= ast.FlagRecordable
		if !p.next() {
			return nil, false
		}
	}
	if p.got(TOK_FUNCTION) {
		flags |= ast.FlagFunctionAlias
		if !p.next() {
			return nil, false
		}
	}

	if !p.assert(TOK_IDENT) {
		return nil, false
	}
	name := p.tok.Value
	if !p.next() {
		return nil, false
	}

	unitExpr, ok := p.parseUnitExprText()
	if !ok {
		return nil, false
	}

	d := &ast.Declaration{Name: name, UnitExpr: unitExpr, Flags: flags}

	if p.got(TOK_ASSIGN) {
		if !p.next() {
			return nil, false
		}
		init, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		d.Initializer = init
	}

	d.ASTBase = ast.NewASTBaseOn(report.NewSpanOver(startSpan, p.lastSpan()))
	return d, true
}

// lastSpan returns the span of the token just consumed -- approximated
// here by the current token's span, since the parser does not retain the
// previous token. Good enough for diagnostic ranges, which are dominated
// by the start position.
func (p *Parser) lastSpan() *report.TextSpan {
	return p.tok.Span
}

// unit_expr_text greedily consumes a sequence of tokens that make up a
// unit expression (IDENT (('*' | '/') IDENT)* ['**' ['-'] NUMLIT]) and
// returns its literal source text, to be parsed later by
// units.ParseUnitExpr once C5 runs. A `1` token is consumed as the
// dimensionless unit. Returns "" if no unit expression is present (the
// current token is neither `1` nor an identifier).
func (p *Parser) parseUnitExprText() (string, bool) {
	if p.got(TOK_NUMLIT) && p.tok.Value == "1" {
		text := p.tok.Value
		if !p.next() {
			return "", false
		}
		return text + p.consumeUnitTail(), true
	}

	if !p.got(TOK_IDENT) {
		// No unit written (bare spike-port declaration, etc.)
		return "", true
	}

	text := p.tok.Value
	if !p.next() {
		return "", false
	}
	return text + p.consumeUnitTail(), true
}

// consumeUnitTail consumes zero or more (('*'|'/') IDENT) | ('**' ['-'] NUMLIT)
// suffixes following a unit atom.
func (p *Parser) consumeUnitTail() string {
	var tail string
	for {
		switch {
		case p.got(TOK_STAR) || p.got(TOK_DIV):
			op := p.tok.Value
			if !p.next() || !p.got(TOK_IDENT) {
				return tail
			}
			tail += op + p.tok.Value
			if !p.next() {
				return tail
			}
		case p.got(TOK_POW):
			opText := "**"
			if !p.next() {
				return tail
			}
			neg := ""
			if p.got(TOK_MINUS) {
				neg = "-"
				if !p.next() {
					return tail
				}
			}
			if !p.got(TOK_NUMLIT) {
				return tail
			}
			tail += opText + neg + p.tok.Value
			if !p.next() {
				return tail
			}
		default:
			return tail
		}
	}
}
