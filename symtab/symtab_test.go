package symtab

import "testing"

func TestScopeDeclareRejectsDuplicate(t *testing.T) {
	s := NewScope(nil)
	if !s.Declare(&Symbol{Name: "tau", Kind: KindVariable}) {
		t.Fatal("first declare should succeed")
	}
	if s.Declare(&Symbol{Name: "tau", Kind: KindVariable}) {
		t.Fatal("duplicate declare should fail")
	}
}

func TestScopeLookupWalksAncestors(t *testing.T) {
	root := NewScope(nil)
	root.Declare(&Symbol{Name: "V_th", Kind: KindVariable})
	child := NewScope(root)

	sym, ok := child.Lookup("V_th")
	if !ok || sym.Name != "V_th" {
		t.Fatalf("expected to find V_th via ancestor, got %v %v", sym, ok)
	}

	if _, ok := child.LookupLocal("V_th"); ok {
		t.Fatal("LookupLocal must not see ancestor symbols")
	}
}

func TestScopeShadowsAncestor(t *testing.T) {
	root := NewScope(nil)
	root.Declare(&Symbol{Name: "x", Kind: KindVariable})
	child := NewScope(root)

	if !child.ShadowsAncestor("x") {
		t.Fatal("expected x to shadow the ancestor declaration")
	}
	if child.ShadowsAncestor("y") {
		t.Fatal("y was never declared anywhere")
	}
}

func TestUniverseInstallsBuiltinsAndUnits(t *testing.T) {
	u := NewUniverse()

	sym, ok := u.Root().LookupLocal("exp")
	if !ok || sym.Kind != KindFunction {
		t.Fatalf("expected exp to resolve as a builtin function, got %v %v", sym, ok)
	}

	if _, ok := u.Root().LookupLocal("mV"); !ok {
		t.Fatal("expected mV to be installed as a unit symbol")
	}

	if !IsBuiltinFunction("integrate_odes") {
		t.Fatal("integrate_odes should be a recognized builtin")
	}
	if IsBuiltinFunction("not_a_builtin") {
		t.Fatal("unexpected builtin match")
	}
}
