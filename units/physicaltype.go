package units

import "fmt"

// Enumeration of numeric bases, per the data model's "(numeric base, unit
// vector)" pair.
const (
	BaseVoid = iota
	BaseBoolean
	BaseString
	BaseInteger
	BaseReal
	BaseError // sentinel assigned to erroneous expressions to suppress cascades.
)

func BaseName(b int) string {
	switch b {
	case BaseVoid:
		return "void"
	case BaseBoolean:
		return "boolean"
	case BaseString:
		return "string"
	case BaseInteger:
		return "integer"
	case BaseReal:
		return "real"
	default:
		return "error"
	}
}

// PhysicalType is a pair (numeric base, unit vector). The unit vector is a
// rational-exponent map over the seven SI base dimensions plus a scale
// factor relative to the coherent SI combination of those dimensions.
type PhysicalType struct {
	Base  int
	Dim   Dim
	Scale float64
}

// ErrorType is the sentinel type attached to an expression once a mismatch
// has already been diagnosed on it, so downstream checks do not cascade.
var ErrorType = &PhysicalType{Base: BaseError}

// Dimensionless constructs a dimensionless physical type of the given base
// (real or integer) with scale 1.
func Dimensionless(base int) *PhysicalType {
	return &PhysicalType{Base: base, Dim: DimensionlessDim, Scale: 1}
}

// Boolean, String, and Void are the non-numeric base types; they never
// carry a unit.
var (
	Boolean = &PhysicalType{Base: BaseBoolean, Dim: DimensionlessDim, Scale: 1}
	String  = &PhysicalType{Base: BaseString, Dim: DimensionlessDim, Scale: 1}
	Void    = &PhysicalType{Base: BaseVoid, Dim: DimensionlessDim, Scale: 1}
)

// IsError reports whether t is the error sentinel.
func (t *PhysicalType) IsError() bool {
	return t == nil || t.Base == BaseError
}

// IsNumeric reports whether t is real- or integer-based.
func (t *PhysicalType) IsNumeric() bool {
	return t.Base == BaseReal || t.Base == BaseInteger
}

// IsDimensionless reports whether t carries no physical unit.
func (t *PhysicalType) IsDimensionless() bool {
	return t.Dim.IsDimensionless()
}

// Repr renders a canonical unit string for diagnostics, e.g. "mV" when t
// matches a named unit exactly, otherwise the dimension string followed by
// the scale, such as "m*s^-1 (scale 1)". A dimensionless number with no
// named unit renders as its base name ("real" or "integer").
func (t *PhysicalType) Repr() string {
	if t.IsError() {
		return "<error>"
	}

	if !t.IsNumeric() {
		return BaseName(t.Base)
	}

	if sym := namedUnitFor(t.Dim, t.Scale); sym != "" {
		return sym
	}

	if t.Dim.IsDimensionless() {
		return BaseName(t.Base)
	}

	return fmt.Sprintf("%s (scale %g)", t.Dim.String(), t.Scale)
}

// namedUnitFor finds a base unit table entry matching the given dimension
// and scale exactly, for nicer diagnostic rendering.
func namedUnitFor(d Dim, scale float64) string {
	for name, def := range baseUnits {
		if def.Dim.Equal(d) && def.Scale == scale {
			return name
		}
	}
	return ""
}

// SameDimension reports whether a and b share a dimension vector,
// irrespective of scale or base.
func SameDimension(a, b *PhysicalType) bool {
	return a.Dim.Equal(b.Dim)
}

// Equal reports whether a and b are identical physical types: same base,
// same dimension, same scale.
func Equal(a, b *PhysicalType) bool {
	if a.IsError() || b.IsError() {
		return true // avoid cascading on already-erroneous operands
	}
	return a.Base == b.Base && a.Dim.Equal(b.Dim) && a.Scale == b.Scale
}

// ConversionFactor returns the multiplier k such that a quantity's numeric
// value in `from` units, multiplied by k, gives its numeric value in `to`
// units (from mV to V, k is 0.001), provided the two share a dimension. This realizes assignment's "mismatching
// scales are silently converted" rule (spec §4.2).
func ConversionFactor(from, to *PhysicalType) (float64, bool) {
	if !SameDimension(from, to) {
		return 0, false
	}
	return from.Scale / to.Scale, true
}

// -----------------------------------------------------------------------------
// Arithmetic, per spec §4.2's unit laws.

// promoteBase implements "integer -> real when combined with real or with
// any non-dimensionless unit".
func promoteBase(a, b *PhysicalType) int {
	if a.Base == BaseError || b.Base == BaseError {
		return BaseError
	}
	if a.Base == BaseReal || b.Base == BaseReal {
		return BaseReal
	}
	if !a.Dim.IsDimensionless() || !b.Dim.IsDimensionless() {
		return BaseReal
	}
	return BaseInteger
}

// AddResult is the outcome of unifying the two operand types of a `+`/`-`.
// ConvertLeft/ConvertRight name the scale factor (if any) that must be
// inserted on the smaller-scale side and annotated on that expression node.
type AddResult struct {
	Type         *PhysicalType
	ConvertLeft  float64 // 1 if no conversion needed
	ConvertRight float64
}

// Add unifies the types of the two operands of a `+` or `-`. Their
// dimensions must match; scales are unified by converting the smaller-scale
// operand up to the larger scale (spec §4.2: "inserting a scaling factor on
// the smaller side").
func Add(a, b *PhysicalType) (AddResult, bool) {
	if a.IsError() || b.IsError() {
		return AddResult{Type: ErrorType, ConvertLeft: 1, ConvertRight: 1}, true
	}

	if !SameDimension(a, b) {
		return AddResult{}, false
	}

	result := AddResult{ConvertLeft: 1, ConvertRight: 1}
	if a.Scale == b.Scale {
		result.Type = &PhysicalType{Base: promoteBase(a, b), Dim: a.Dim, Scale: a.Scale}
		return result, true
	}

	// Unify onto whichever side has the larger scale.
	if a.Scale > b.Scale {
		result.ConvertRight = b.Scale / a.Scale
		result.Type = &PhysicalType{Base: promoteBase(a, b), Dim: a.Dim, Scale: a.Scale}
	} else {
		result.ConvertLeft = a.Scale / b.Scale
		result.Type = &PhysicalType{Base: promoteBase(a, b), Dim: a.Dim, Scale: b.Scale}
	}

	return result, true
}

// Mul computes the unit-law result of `*`: dimensions add, scales multiply.
func Mul(a, b *PhysicalType) *PhysicalType {
	if a.IsError() || b.IsError() {
		return ErrorType
	}
	return &PhysicalType{Base: promoteBase(a, b), Dim: a.Dim.Add(b.Dim), Scale: a.Scale * b.Scale}
}

// Div computes the unit-law result of `/`: dimensions subtract, scales
// divide.
func Div(a, b *PhysicalType) *PhysicalType {
	if a.IsError() || b.IsError() {
		return ErrorType
	}
	return &PhysicalType{Base: promoteBase(a, b), Dim: a.Dim.Sub(b.Dim), Scale: a.Scale / b.Scale}
}

// Pow computes the unit-law result of `**n` for an integer exponent n:
// multiply the dimension vector by n, scale by scale**n.
func Pow(a *PhysicalType, n int64) *PhysicalType {
	if a.IsError() {
		return ErrorType
	}

	scale := 1.0
	exp := n
	base := a.Scale
	if exp < 0 {
		base = 1 / a.Scale
		exp = -exp
	}
	for i := int64(0); i < exp; i++ {
		scale *= base
	}

	return &PhysicalType{Base: a.Base, Dim: a.Dim.ScaleExp(n), Scale: scale}
}

// Neg computes the unit-law result of unary `-`: identical type.
func Neg(a *PhysicalType) *PhysicalType {
	return a
}
