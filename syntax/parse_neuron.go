package syntax

import (
	"nestml/ast"
	"nestml/report"
)

// neuron = ('neuron' | 'synapse') IDENT ':' block* 'end'
func (p *Parser) parseNeuron() (*ast.Neuron, bool) {
	kind := ast.KindNeuron
	if p.got(TOK_SYNAPSE) {
		kind = ast.KindSynapse
	}
	startSpan := p.tok.Span

	if !p.next() || !p.assert(TOK_IDENT) {
		return nil, false
	}
	name := p.tok.Value

	if !p.wantAndNext(TOK_COLON) {
		return nil, false
	}

	n := &ast.Neuron{Name: name, Kind: kind}

	seen := make(map[int]bool)
	for !p.gotOneOf(TOK_END, TOK_EOF) {
		if p.tok.Kind != TOK_FUNCTION && seen[p.tok.Kind] {
			p.rejectWithMsg("a neuron may declare at most one `%s` block", p.tok.Value)
			p.recoverToEnd()
			return n, false
		}
		seen[p.tok.Kind] = true

		var ok bool
		switch p.tok.Kind {
		case TOK_STATE:
			n.State, ok = p.parseDeclBlock(TOK_STATE)
		case TOK_INITIAL_VALUES:
			n.InitialValues, ok = p.parseDeclBlock(TOK_INITIAL_VALUES)
		case TOK_PARAMETERS:
			n.Parameters, ok = p.parseDeclBlock(TOK_PARAMETERS)
		case TOK_INTERNALS:
			n.Internals, ok = p.parseDeclBlock(TOK_INTERNALS)
		case TOK_EQUATIONS:
			n.Equations, ok = p.parseEquationsBlock()
		case TOK_INPUT:
			n.Input, ok = p.parseInputBlock()
		case TOK_OUTPUT:
			n.Output, ok = p.parseOutputBlock()
		case TOK_UPDATE:
			n.Update, ok = p.parseUpdateBlock()
		case TOK_FUNCTION:
			var fn *ast.FuncDef
			fn, ok = p.parseFuncDef()
			if ok {
				n.Functions = append(n.Functions, fn)
			}
		default:
			p.reject()
			ok = false
		}

		if !ok {
			p.recoverToEnd()
			return n, false
		}
	}

	endSpan := p.tok.Span
	n.ASTBase = ast.NewASTBaseOn(report.NewSpanOver(startSpan, endSpan))
	return n, p.assertAndNext(TOK_END)
}
