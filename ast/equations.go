package ast

import "nestml/units"

// EquationsBlock holds the raw shape and ODE forms as written; it is
// normalized into a ShapeSet by the equations & shape analyzer (C7).
type EquationsBlock struct {
	ASTBase

	Shapes []*Shape
	Odes   []*OdeEquation
}

// Enumeration of shape kinds, per spec §3's "Shape" variants.
const (
	ShapeDirect = iota
	ShapeOde
	ShapeDelta
)

// Shape is a named symbolic function of time, as originally written.
// RHS is nil for ShapeDelta.
type Shape struct {
	ASTBase

	Name  string
	Kind  int
	Order int // derivative order of the LHS; 0 for ShapeDirect/ShapeDelta
	RHS   Expr

	// Type is the unit of the shape's value, filled in by C5.
	Type *units.PhysicalType
}

// OdeEquation is a `lhs' = rhs` or `lhs'' = rhs` row naming a state
// variable declared in `state` or `initial_values` (CoCo-enforced).
type OdeEquation struct {
	ASTBase

	LHSName string
	Order   int
	RHS     Expr
}
