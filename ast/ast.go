// Package ast defines the abstract syntax tree produced by the parser (C2)
// and progressively decorated by the symbol table builder (C4), the
// type/unit checker (C5), the equations analyzer (C7), and the ODE
// analysis driver (C8).
package ast

import "nestml/report"

// ASTNode is the common interface implemented by every tree node.
type ASTNode interface {
	Span() *report.TextSpan
}

// ASTBase is embedded by every concrete node to supply Span().
type ASTBase struct {
	span *report.TextSpan
}

func NewASTBaseOn(span *report.TextSpan) ASTBase {
	return ASTBase{span: span}
}

func NewASTBaseOver(start, end ASTNode) ASTBase {
	return ASTBase{span: report.NewSpanOver(start.Span(), end.Span())}
}

func (ab ASTBase) Span() *report.TextSpan {
	return ab.span
}
