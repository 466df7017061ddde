package ast

import (
	"fmt"
	"strings"
)

// Print renders a CompilationUnit back into NESTML source text. It exists
// to drive the round-trip pretty-print/re-parse property (spec §8): Print
// followed by a fresh parse should reproduce an AST structurally equal to
// the original, ignoring spans and the symbol/type decorations later
// phases attach.
func Print(u *CompilationUnit) string {
	var b strings.Builder
	for i, n := range u.Neurons {
		if i > 0 {
			b.WriteString("\n")
		}
		printNeuron(&b, n)
	}
	return b.String()
}

func printNeuron(b *strings.Builder, n *Neuron) {
	kw := "neuron"
	if n.Kind == KindSynapse {
		kw = "synapse"
	}
	fmt.Fprintf(b, "%s %s:\n", kw, n.Name)

	printDeclBlock(b, "state", n.State)
	printDeclBlock(b, "initial_values", n.InitialValues)
	printDeclBlock(b, "parameters", n.Parameters)
	printDeclBlock(b, "internals", n.Internals)

	if n.Equations != nil {
		printEquationsBlock(b, n.Equations)
	}
	if len(n.Input) > 0 {
		printInputBlock(b, n.Input)
	}
	if n.Output != nil {
		b.WriteString("  output:\n    spike\n  end\n")
	}
	if n.Update != nil {
		b.WriteString("  update:\n")
		printStmts(b, n.Update.Stmts, "    ")
		b.WriteString("  end\n")
	}
	for _, fn := range n.Functions {
		printFuncDef(b, fn)
	}

	b.WriteString("end\n")
}

func printDeclBlock(b *strings.Builder, kw string, decls []*Declaration) {
	if len(decls) == 0 {
		return
	}
	fmt.Fprintf(b, "  %s:\n", kw)
	for _, d := range decls {
		b.WriteString("    ")
		if d.IsRecordable() {
			b.WriteString("recordable ")
		}
		if d.IsFunctionAlias() {
			b.WriteString("function ")
		}
		b.WriteString(d.Name)
		if d.UnitExpr != "" {
			b.WriteString(" ")
			b.WriteString(d.UnitExpr)
		}
		if d.Initializer != nil {
			b.WriteString(" = ")
			printExpr(b, d.Initializer)
		}
		b.WriteString("\n")
	}
	b.WriteString("  end\n")
}

func printEquationsBlock(b *strings.Builder, eq *EquationsBlock) {
	b.WriteString("  equations:\n")
	for _, s := range eq.Shapes {
		b.WriteString("    shape ")
		b.WriteString(s.Name)
		b.WriteString(strings.Repeat("'", s.Order))
		b.WriteString(" = ")
		printExpr(b, s.RHS)
		b.WriteString("\n")
	}
	for _, o := range eq.Odes {
		b.WriteString("    ")
		b.WriteString(o.LHSName)
		b.WriteString(strings.Repeat("'", o.Order))
		b.WriteString(" = ")
		printExpr(b, o.RHS)
		b.WriteString("\n")
	}
	b.WriteString("  end\n")
}

func printInputBlock(b *strings.Builder, ports []*InputPort) {
	b.WriteString("  input:\n")
	for _, p := range ports {
		b.WriteString("    ")
		b.WriteString(p.Name)
		if p.UnitExpr != "" {
			b.WriteString(" ")
			b.WriteString(p.UnitExpr)
		}
		b.WriteString(" <- ")
		switch p.Sign {
		case PortSignInhibitory:
			b.WriteString("inhibitory ")
		case PortSignExcitatory:
			b.WriteString("excitatory ")
		}
		if p.Kind == PortCurrent {
			b.WriteString("current")
		} else {
			b.WriteString("spike")
		}
		b.WriteString("\n")
	}
	b.WriteString("  end\n")
}

func printFuncDef(b *strings.Builder, fn *FuncDef) {
	b.WriteString("  function ")
	b.WriteString(fn.Name)
	b.WriteString("(")
	for i, p := range fn.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
		if p.UnitExpr != "" {
			b.WriteString(" ")
			b.WriteString(p.UnitExpr)
		}
	}
	b.WriteString(")")
	if fn.ReturnUnit != "" {
		b.WriteString(" ")
		b.WriteString(fn.ReturnUnit)
	}
	b.WriteString(":\n")
	if fn.Body != nil {
		printStmts(b, fn.Body.Stmts, "    ")
	} else if fn.Expr != nil {
		b.WriteString("    return ")
		printExpr(b, fn.Expr)
		b.WriteString("\n")
	}
	b.WriteString("  end\n")
}

func printStmts(b *strings.Builder, stmts []Stmt, indent string) {
	for _, s := range stmts {
		printStmt(b, s, indent)
	}
}

func printStmt(b *strings.Builder, s Stmt, indent string) {
	switch s := s.(type) {
	case *Assignment:
		b.WriteString(indent)
		b.WriteString(s.LHSName)
		b.WriteString(" = ")
		printExpr(b, s.RHS)
		b.WriteString("\n")
	case *ExprStmt:
		b.WriteString(indent)
		printExpr(b, s.Expr)
		b.WriteString("\n")
	case *IfTree:
		for i, branch := range s.Branches {
			b.WriteString(indent)
			if i == 0 {
				b.WriteString("if ")
			} else {
				b.WriteString("elif ")
			}
			printExpr(b, branch.Condition)
			b.WriteString(":\n")
			printStmts(b, branch.Body.Stmts, indent+"  ")
		}
		if s.ElseBranch != nil {
			b.WriteString(indent)
			b.WriteString("else:\n")
			printStmts(b, s.ElseBranch.Stmts, indent+"  ")
		}
		b.WriteString(indent)
		b.WriteString("end\n")
	case *ForLoop:
		b.WriteString(indent)
		fmt.Fprintf(b, "for %s = ", s.VarName)
		printExpr(b, s.From)
		b.WriteString(" to ")
		printExpr(b, s.To)
		if s.Step != nil {
			b.WriteString(" step ")
			printExpr(b, s.Step)
		}
		b.WriteString(":\n")
		printStmts(b, s.Body.Stmts, indent+"  ")
		b.WriteString(indent)
		b.WriteString("end\n")
	case *ReturnStmt:
		b.WriteString(indent)
		b.WriteString("return")
		if s.Value != nil {
			b.WriteString(" ")
			printExpr(b, s.Value)
		}
		b.WriteString("\n")
	default:
		panic(fmt.Sprintf("ast.Print: unhandled statement type %T", s))
	}
}

var binOpSymbols = map[int]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpPow: "**", OpMod: "%",
}

var cmpOpSymbols = map[int]string{
	CmpEq: "==", CmpNeq: "!=", CmpLt: "<", CmpLte: "<=", CmpGt: ">", CmpGte: ">=",
}

func printExpr(b *strings.Builder, e Expr) {
	switch e := e.(type) {
	case *Literal:
		switch e.Kind {
		case LitString:
			fmt.Fprintf(b, "%q", e.Value)
		default:
			b.WriteString(e.Value)
			if e.UnitExpr != "" {
				b.WriteString(" ")
				b.WriteString(e.UnitExpr)
			}
		}
	case *VarRef:
		b.WriteString(e.Name)
	case *DerivRef:
		b.WriteString(e.Name)
		b.WriteString(strings.Repeat("'", e.Order))
	case *Call:
		b.WriteString(e.FuncName)
		b.WriteString("(")
		for i, arg := range e.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			printExpr(b, arg)
		}
		b.WriteString(")")
	case *Convolve:
		fmt.Fprintf(b, "convolve(%s, %s)", e.ShapeName, e.PortName)
	case *BinaryOp:
		b.WriteString("(")
		printExpr(b, e.Lhs)
		fmt.Fprintf(b, " %s ", binOpSymbols[e.Op])
		printExpr(b, e.Rhs)
		b.WriteString(")")
	case *UnaryOp:
		if e.Op == UnaryNot {
			b.WriteString("not ")
		} else {
			b.WriteString("-")
		}
		printExpr(b, e.Operand)
	case *Comparison:
		b.WriteString("(")
		for i, sub := range e.Exprs {
			if i > 0 {
				fmt.Fprintf(b, " %s ", cmpOpSymbols[e.Ops[i-1]])
			}
			printExpr(b, sub)
		}
		b.WriteString(")")
	case *LogicalOp:
		op := "and"
		if e.Op == LogicalOr {
			op = "or"
		}
		b.WriteString("(")
		printExpr(b, e.Lhs)
		fmt.Fprintf(b, " %s ", op)
		printExpr(b, e.Rhs)
		b.WriteString(")")
	case *Conditional:
		b.WriteString("(")
		printExpr(b, e.Cond)
		b.WriteString(" if ")
		printExpr(b, e.Then)
		b.WriteString(" else ")
		printExpr(b, e.Else)
		b.WriteString(")")
	default:
		panic(fmt.Sprintf("ast.Print: unhandled expression type %T", e))
	}
}
