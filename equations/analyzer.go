// Package equations implements the equations & shape analyzer (C7): it
// canonicalizes a neuron's `equations` block into the form consumed by
// the ODE analysis driver (C8), per spec §4.6.
package equations

import (
	"nestml/ast"
	"nestml/report"
)

// CanonicalKind labels a canonicalized equation row.
const (
	KindDirectShape = iota
	KindOdeShape
	KindStateOde
)

// Row is one canonicalized equation: a direct shape, an ODE-defined
// shape rewritten into an explicit row, or a state ODE.
type Row struct {
	Kind     int
	Name     string
	Order    int // 0 for a direct shape
	RHS      ast.Expr
	DependsOn []string
	Linear   bool
}

// ConvolveOccurrence indexes one `convolve(shape, port)` site, per spec
// §4.6 step 5: (shape_id, port_id, containing_expr_id).
type ConvolveOccurrence struct {
	ShapeName  string
	PortName   string
	Containing ast.Expr
}

// ShapeSet is C7's canonical output: the rewritten equation rows plus
// every indexed convolve occurrence, ready for C8's solver request.
type ShapeSet struct {
	Rows     []*Row
	Convolve []ConvolveOccurrence
}

// Analyzer canonicalizes one neuron's equations block.
type Analyzer struct {
	ctx  *report.CompilationContext
	diag *report.Collector
}

func NewAnalyzer(ctx *report.CompilationContext, diag *report.Collector) *Analyzer {
	return &Analyzer{ctx: ctx, diag: diag}
}

// Analyze canonicalizes n.Equations, inlining function-alias references
// at use sites for analysis purposes only -- the original `function` alias
// declarations in initial_values are left untouched in the AST for code
// generation, per
// spec §4.6 step 4.
func (a *Analyzer) Analyze(n *ast.Neuron) *ShapeSet {
	if n.Equations == nil {
		return &ShapeSet{}
	}

	aliases := collectFunctionAliases(n)
	set := &ShapeSet{}

	for _, s := range n.Equations.Shapes {
		switch s.Kind {
		case ast.ShapeDirect:
			inlined := inlineAliases(s.RHS, aliases)
			set.Rows = append(set.Rows, &Row{
				Kind: KindDirectShape, Name: s.Name, RHS: inlined,
				DependsOn: freeVariables(inlined),
				Linear:    isAffine(inlined, s.Name),
			})
		case ast.ShapeDelta:
			set.Rows = append(set.Rows, &Row{Kind: KindDirectShape, Name: s.Name, Linear: true})
		case ast.ShapeOde:
			inlined := inlineAliases(s.RHS, aliases)
			set.Rows = append(set.Rows, &Row{
				Kind: KindOdeShape, Name: s.Name, Order: s.Order, RHS: inlined,
				DependsOn: freeVariables(inlined),
				Linear:    isAffine(inlined, s.Name),
			})
		}
	}

	for _, o := range n.Equations.Odes {
		inlined := inlineAliases(o.RHS, aliases)
		set.Rows = append(set.Rows, &Row{
			Kind: KindStateOde, Name: o.LHSName, Order: o.Order, RHS: inlined,
			DependsOn: freeVariables(inlined),
			Linear:    isAffine(inlined, o.LHSName),
		})
	}

	for _, row := range set.Rows {
		if row.RHS == nil {
			continue
		}
		ast.WalkExpr(row.RHS, func(e ast.Expr) {
			if conv, ok := e.(*ast.Convolve); ok {
				set.Convolve = append(set.Convolve, ConvolveOccurrence{
					ShapeName: conv.ShapeName, PortName: conv.PortName, Containing: row.RHS,
				})
			}
		})
	}

	return set
}

func collectFunctionAliases(n *ast.Neuron) map[string]ast.Expr {
	aliases := make(map[string]ast.Expr)
	for _, d := range n.InitialValues {
		if d.IsFunctionAlias() && d.Initializer != nil {
			aliases[d.Name] = d.Initializer
		}
	}
	return aliases
}

// freeVariables returns the set of variable/derivative names referenced
// anywhere inside e, used to build the ODE system's dependency graph
// handed to C8.
func freeVariables(e ast.Expr) []string {
	if e == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	ast.WalkExpr(e, func(x ast.Expr) {
		var name string
		switch v := x.(type) {
		case *ast.VarRef:
			name = v.Name
		case *ast.DerivRef:
			name = v.Name
		default:
			return
		}
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	})
	return out
}
