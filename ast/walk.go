package ast

// WalkExpr calls visit on e and on every expression reachable from e,
// pre-order. It is the shared traversal used by C6's context conditions
// to scan for a particular node shape (e.g. a Convolve or a restricted
// Call) anywhere inside an expression tree.
func WalkExpr(e Expr, visit func(Expr)) {
	if e == nil {
		return
	}
	visit(e)

	switch x := e.(type) {
	case *Call:
		for _, arg := range x.Args {
			WalkExpr(arg, visit)
		}
	case *BinaryOp:
		WalkExpr(x.Lhs, visit)
		WalkExpr(x.Rhs, visit)
	case *UnaryOp:
		WalkExpr(x.Operand, visit)
	case *Comparison:
		for _, sub := range x.Exprs {
			WalkExpr(sub, visit)
		}
	case *LogicalOp:
		WalkExpr(x.Lhs, visit)
		WalkExpr(x.Rhs, visit)
	case *Conditional:
		WalkExpr(x.Cond, visit)
		WalkExpr(x.Then, visit)
		WalkExpr(x.Else, visit)
	}
}

// WalkNeuron calls visit on every expression reachable from n: every
// declaration initializer, every shape/ODE right-hand side, and every
// expression inside every function body and the update body.
func WalkNeuron(n *Neuron, visit func(Expr)) {
	for _, blockDecls := range [][]*Declaration{n.State, n.InitialValues, n.Parameters, n.Internals} {
		for _, d := range blockDecls {
			if d.Initializer != nil {
				WalkExpr(d.Initializer, visit)
			}
		}
	}

	if n.Equations != nil {
		for _, s := range n.Equations.Shapes {
			if s.RHS != nil {
				WalkExpr(s.RHS, visit)
			}
		}
		for _, o := range n.Equations.Odes {
			WalkExpr(o.RHS, visit)
		}
	}

	for _, f := range n.Functions {
		if f.Expr != nil {
			WalkExpr(f.Expr, visit)
		}
		if f.Body != nil {
			walkBlock(f.Body, visit)
		}
	}

	if n.Update != nil {
		walkBlock(n.Update, visit)
	}
}

func walkBlock(block *Block, visit func(Expr)) {
	for _, stmt := range block.Stmts {
		switch s := stmt.(type) {
		case *Assignment:
			WalkExpr(s.RHS, visit)
		case *ExprStmt:
			WalkExpr(s.Expr, visit)
		case *IfTree:
			for _, br := range s.Branches {
				WalkExpr(br.Condition, visit)
				walkBlock(br.Body, visit)
			}
			if s.ElseBranch != nil {
				walkBlock(s.ElseBranch, visit)
			}
		case *ForLoop:
			WalkExpr(s.From, visit)
			WalkExpr(s.To, visit)
			if s.Step != nil {
				WalkExpr(s.Step, visit)
			}
			walkBlock(s.Body, visit)
		case *ReturnStmt:
			if s.Value != nil {
				WalkExpr(s.Value, visit)
			}
		}
	}
}
