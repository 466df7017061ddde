package units

import "testing"

func mustUnit(t *testing.T, src string) *PhysicalType {
	t.Helper()
	pt, err := ParseUnitExpr(src)
	if err != nil {
		t.Fatalf("ParseUnitExpr(%q): %v", src, err)
	}
	return pt
}

func TestDivThenMulIsIdentity(t *testing.T) {
	a := mustUnit(t, "mV")
	b := mustUnit(t, "ms")

	got := Mul(Div(a, b), b)
	if !SameDimension(got, a) {
		t.Fatalf("(a/b)*b dimension = %s, want %s", got.Dim, a.Dim)
	}
	if got.Scale != a.Scale {
		t.Fatalf("(a/b)*b scale = %g, want %g", got.Scale, a.Scale)
	}
}

func TestPowComposes(t *testing.T) {
	a := mustUnit(t, "ms")

	lhs := Pow(Pow(a, 2), 3)
	rhs := Pow(a, 6)
	if !lhs.Dim.Equal(rhs.Dim) {
		t.Fatalf("(a**2)**3 dim = %s, want %s", lhs.Dim, rhs.Dim)
	}
	if lhs.Scale != rhs.Scale {
		t.Fatalf("(a**2)**3 scale = %g, want %g", lhs.Scale, rhs.Scale)
	}
}

func TestAddRequiresMatchingDimension(t *testing.T) {
	mv := mustUnit(t, "mV")
	ms := mustUnit(t, "ms")

	if _, ok := Add(mv, ms); ok {
		t.Fatalf("Add(mV, ms) should fail: mismatched dimensions")
	}
}

func TestAddUnifiesScale(t *testing.T) {
	v := mustUnit(t, "V")
	mv := mustUnit(t, "mV")

	res, ok := Add(v, mv)
	if !ok {
		t.Fatalf("Add(V, mV) should succeed: same dimension")
	}
	if res.Type.Scale != v.Scale {
		t.Fatalf("Add(V, mV) should unify onto the larger scale (V), got scale %g", res.Type.Scale)
	}
	if res.ConvertLeft != 1 {
		t.Fatalf("Add(V, mV) should not convert the V operand")
	}
	if res.ConvertRight != mv.Scale/v.Scale {
		t.Fatalf("Add(V, mV) conversion factor = %g, want %g", res.ConvertRight, mv.Scale/v.Scale)
	}
}

func TestParseCompoundUnitExpr(t *testing.T) {
	got := mustUnit(t, "nS/ms")
	nS := mustUnit(t, "nS")
	ms := mustUnit(t, "ms")
	want := Div(nS, ms)

	if !got.Dim.Equal(want.Dim) || got.Scale != want.Scale {
		t.Fatalf("ParseUnitExpr(nS/ms) = %+v, want %+v", got, want)
	}
}

func TestParseDimensionlessOne(t *testing.T) {
	got := mustUnit(t, "1/ms")
	ms := mustUnit(t, "ms")
	want := Div(Dimensionless(BaseReal), ms)

	if !got.Dim.Equal(want.Dim) || got.Scale != want.Scale {
		t.Fatalf("ParseUnitExpr(1/ms) = %+v, want %+v", got, want)
	}
}

func TestReservedNames(t *testing.T) {
	if !IsReservedName("mV") {
		t.Fatalf("mV should be a reserved base unit name")
	}
	if IsReservedName("V_m") {
		t.Fatalf("V_m should not be a reserved base unit name")
	}
}
