// Package syntax implements the lexer (C1) and recursive-descent parser
// (C2): bytes to tokens to a compilation-unit AST, per spec §4.1.
package syntax

import (
	"bufio"
	"fmt"

	"nestml/ast"
	"nestml/report"
)

// Parser is a recursive-descent parser for one NESTML source file. All
// parsing methods assume the parser is positioned on the first token of
// their production and leave it positioned on the token after their
// production, mirroring chai's parser discipline.
type Parser struct {
	ctx  *report.CompilationContext
	diag *report.Collector

	lexer *Lexer
	tok   *Token

	// failed records whether lexing produced an error on this file. The
	// lexer has already skipped the offending input, and parsing goes on
	// through the same recovery as for syntax errors; nothing reads this
	// flag.
	failed bool
}

func NewParser(ctx *report.CompilationContext, diag *report.Collector, r *bufio.Reader) *Parser {
	return &Parser{ctx: ctx, diag: diag, lexer: NewLexer(r)}
}

// ParseFile parses a whole source file into a CompilationUnit. It always
// returns a non-nil unit, even on error: error recovery is best-effort,
// skipping to the next `end` or next `neuron`/`synapse` keyword, so later
// neurons in the same file still get a chance to parse (spec §4.1,
// §8 scenario 5).
func (p *Parser) ParseFile() *ast.CompilationUnit {
	unit := &ast.CompilationUnit{PackageName: p.ctx.PackageName, ArtifactName: p.ctx.ArtifactName, FilePath: p.ctx.FilePath}

	if !p.next() {
		return unit
	}

	for !p.got(TOK_EOF) {
		if !p.gotOneOf(TOK_NEURON, TOK_SYNAPSE) {
			p.reject()
			p.recoverToNeuron()
			continue
		}

		if n, ok := p.parseNeuron(); ok {
			unit.Neurons = append(unit.Neurons, n)
		} else {
			p.recoverToNeuron()
		}
	}

	return unit
}

// recoverToNeuron skips tokens until the start of the next top-level
// neuron/synapse declaration or EOF.
func (p *Parser) recoverToNeuron() {
	for !p.gotOneOf(TOK_NEURON, TOK_SYNAPSE, TOK_EOF) {
		if !p.next() {
			return
		}
	}
}

// recoverToEnd skips tokens until (and past) the next `end`, for recovery
// within a neuron body.
func (p *Parser) recoverToEnd() {
	for !p.got(TOK_END) {
		if p.gotOneOf(TOK_NEURON, TOK_SYNAPSE, TOK_EOF) {
			return
		}
		if !p.next() {
			return
		}
	}
	p.next()
}

// -----------------------------------------------------------------------------

func (p *Parser) next() bool {
	tok, err := p.lexer.NextToken()
	if err != nil {
		if le, ok := err.(*report.LocalError); ok {
			p.diag.Errorf(p.ctx, le.Span, le.Code, le.Message)
		} else {
			p.diag.Errorf(p.ctx, nil, "LexError", "%s", err.Error())
		}
		p.failed = true
		return false
	}
	p.tok = tok
	return true
}

func (p *Parser) got(kind int) bool {
	return p.tok.Kind == kind
}

func (p *Parser) gotOneOf(kinds ...int) bool {
	for _, k := range kinds {
		if p.tok.Kind == k {
			return true
		}
	}
	return false
}

func (p *Parser) assert(kind int) bool {
	if p.got(kind) {
		return true
	}
	p.reject()
	return false
}

func (p *Parser) assertAndNext(kind int) bool {
	return p.assert(kind) && p.next()
}

func (p *Parser) want(kind int) bool {
	return p.next() && p.assert(kind)
}

func (p *Parser) wantAndNext(kind int) bool {
	return p.want(kind) && p.next()
}

func (p *Parser) reject() {
	var msg string
	switch p.tok.Kind {
	case TOK_EOF:
		msg = "unexpected end of file"
	default:
		msg = fmt.Sprintf("unexpected token: `%s`", p.tok.Value)
	}
	p.diag.Errorf(p.ctx, p.tok.Span, "UnexpectedToken", msg)
}

func (p *Parser) rejectWithMsg(msg string, a ...interface{}) {
	p.diag.Errorf(p.ctx, p.tok.Span, "SyntaxError", msg, a...)
}

func (p *Parser) errorOn(tok *Token, msg string, a ...interface{}) {
	p.diag.Errorf(p.ctx, tok.Span, "SyntaxError", msg, a...)
}
