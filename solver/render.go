package solver

import (
	"fmt"
	"strings"

	"nestml/ast"
)

// renderExpr renders e into NESTML-like infix text for the solver's
// request payload. It is not the canonical pretty-printer (ast.Print, which
// the round-trip tests use): literals lose their unit suffix, so its
// output does not re-parse to the same tree.
func renderExpr(e ast.Expr) string {
	if e == nil {
		return ""
	}

	switch x := e.(type) {
	case *ast.Literal:
		return x.Value
	case *ast.VarRef:
		return x.Name
	case *ast.DerivRef:
		return x.Name + strings.Repeat("'", x.Order)
	case *ast.Call:
		args := make([]string, len(x.Args))
		for i, a := range x.Args {
			args[i] = renderExpr(a)
		}
		return fmt.Sprintf("%s(%s)", x.FuncName, strings.Join(args, ", "))
	case *ast.Convolve:
		return fmt.Sprintf("convolve(%s, %s)", x.ShapeName, x.PortName)
	case *ast.BinaryOp:
		return fmt.Sprintf("(%s %s %s)", renderExpr(x.Lhs), binSymbol(x.Op), renderExpr(x.Rhs))
	case *ast.UnaryOp:
		if x.Op == ast.UnaryNot {
			return "not " + renderExpr(x.Operand)
		}
		return "-" + renderExpr(x.Operand)
	case *ast.Comparison:
		var b strings.Builder
		for i, sub := range x.Exprs {
			if i > 0 {
				fmt.Fprintf(&b, " %s ", cmpSymbol(x.Ops[i-1]))
			}
			b.WriteString(renderExpr(sub))
		}
		return "(" + b.String() + ")"
	case *ast.LogicalOp:
		op := "and"
		if x.Op == ast.LogicalOr {
			op = "or"
		}
		return fmt.Sprintf("(%s %s %s)", renderExpr(x.Lhs), op, renderExpr(x.Rhs))
	case *ast.Conditional:
		return fmt.Sprintf("(%s if %s else %s)", renderExpr(x.Then), renderExpr(x.Cond), renderExpr(x.Else))
	default:
		return ""
	}
}

func binSymbol(op int) string {
	switch op {
	case ast.OpAdd:
		return "+"
	case ast.OpSub:
		return "-"
	case ast.OpMul:
		return "*"
	case ast.OpDiv:
		return "/"
	case ast.OpPow:
		return "**"
	case ast.OpMod:
		return "%"
	default:
		return "?"
	}
}

func cmpSymbol(op int) string {
	switch op {
	case ast.CmpEq:
		return "=="
	case ast.CmpNeq:
		return "!="
	case ast.CmpLt:
		return "<"
	case ast.CmpLte:
		return "<="
	case ast.CmpGt:
		return ">"
	case ast.CmpGte:
		return ">="
	default:
		return "?"
	}
}
