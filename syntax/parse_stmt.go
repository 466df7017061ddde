package syntax

import (
	"nestml/ast"
	"nestml/report"
)

// update_block = 'update' ':' stmt* 'end'
func (p *Parser) parseUpdateBlock() (*ast.Block, bool) {
	startSpan := p.tok.Span
	if !p.next() || !p.assertAndNext(TOK_COLON) {
		return nil, false
	}

	block, ok := p.parseStmtsUntil(TOK_END)
	if !ok {
		return nil, false
	}
	block.ASTBase = ast.NewASTBaseOn(report.NewSpanOver(startSpan, p.tok.Span))

	return block, p.assertAndNext(TOK_END)
}

// parseStmtsUntil parses statements until the parser reaches a token of
// one of the given stop kinds, without consuming it.
func (p *Parser) parseStmtsUntil(stopKinds ...int) (*ast.Block, bool) {
	block := &ast.Block{}
	for !p.gotOneOf(append(stopKinds, TOK_EOF)...) {
		stmt, ok := p.parseStmt()
		if !ok {
			return nil, false
		}
		block.Stmts = append(block.Stmts, stmt)
	}
	return block, true
}

// stmt = assignment | expr_stmt | if_tree | for_loop | return_stmt
func (p *Parser) parseStmt() (ast.Stmt, bool) {
	switch p.tok.Kind {
	case TOK_IF:
		return p.parseIfTree()
	case TOK_FOR:
		return p.parseForLoop()
	case TOK_RETURN:
		return p.parseReturnStmt()
	default:
		return p.parseAssignOrExprStmt()
	}
}

// assignment = IDENT '=' expr ; expr_stmt = expr
func (p *Parser) parseAssignOrExprStmt() (ast.Stmt, bool) {
	startSpan := p.tok.Span
	expr, ok := p.parseExpr()
	if !ok {
		return nil, false
	}

	if ref, isRef := expr.(*ast.VarRef); isRef && p.got(TOK_ASSIGN) {
		if !p.next() {
			return nil, false
		}
		rhs, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		return &ast.Assignment{
			ASTBase: ast.NewASTBaseOn(report.NewSpanOver(startSpan, p.lastSpan())),
			LHSName: ref.Name, RHS: rhs,
		}, true
	}

	return &ast.ExprStmt{ASTBase: ast.NewASTBaseOn(report.NewSpanOver(startSpan, p.lastSpan())), Expr: expr}, true
}

// if_tree = 'if' expr ':' block ('elif' expr ':' block)* ['else' ':' block] 'end'
func (p *Parser) parseIfTree() (*ast.IfTree, bool) {
	startSpan := p.tok.Span
	tree := &ast.IfTree{}

	for p.gotOneOf(TOK_IF, TOK_ELIF) {
		if !p.next() {
			return nil, false
		}
		cond, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		if !p.assertAndNext(TOK_COLON) {
			return nil, false
		}
		body, ok := p.parseStmtsUntil(TOK_ELIF, TOK_ELSE, TOK_END)
		if !ok {
			return nil, false
		}
		tree.Branches = append(tree.Branches, ast.CondBranch{Condition: cond, Body: body})
	}

	if p.got(TOK_ELSE) {
		if !p.next() || !p.assertAndNext(TOK_COLON) {
			return nil, false
		}
		body, ok := p.parseStmtsUntil(TOK_END)
		if !ok {
			return nil, false
		}
		tree.ElseBranch = body
	}

	tree.ASTBase = ast.NewASTBaseOn(report.NewSpanOver(startSpan, p.tok.Span))
	return tree, p.assertAndNext(TOK_END)
}

// for_loop = 'for' IDENT '=' expr 'to' expr ['step' expr] ':' block 'end'
func (p *Parser) parseForLoop() (*ast.ForLoop, bool) {
	startSpan := p.tok.Span
	if !p.next() || !p.assert(TOK_IDENT) {
		return nil, false
	}
	varName := p.tok.Value

	if !p.want(TOK_ASSIGN) || !p.next() {
		return nil, false
	}
	from, ok := p.parseExpr()
	if !ok {
		return nil, false
	}

	if !p.assertAndNext(TOK_TO) {
		return nil, false
	}
	to, ok := p.parseExpr()
	if !ok {
		return nil, false
	}

	var step ast.Expr
	if p.got(TOK_STEP) {
		if !p.next() {
			return nil, false
		}
		step, ok = p.parseExpr()
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

	loop := &ast.ForLoop{
		ASTBase: ast.NewASTBaseOn(report.NewSpanOver(startSpan, p.tok.Span)),
		VarName: varName, From: from, To: to, Step: step, Body: body,
	}
	return loop, p.assertAndNext(TOK_END)
}

// return_stmt = 'return' [expr]
func (p *Parser) parseReturnStmt() (*ast.ReturnStmt, bool) {
	startSpan := p.tok.Span
	if !p.next() {
		return nil, false
	}

	stmt := &ast.ReturnStmt{}
	if !p.gotOneOf(TOK_END, TOK_ELIF, TOK_ELSE, TOK_EOF) {
		expr, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		stmt.Value = expr
	}

	stmt.ASTBase = ast.NewASTBaseOn(report.NewSpanOver(startSpan, p.lastSpan()))
	return stmt, true
}
