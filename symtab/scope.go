package symtab

// Scope is one node in the tree of scopes built by C4: one per block and
// per compound statement (spec §4.3). Lookup walks upward through
// Parent.
type Scope struct {
	Parent *Scope
	table  map[string]*Symbol
}

func NewScope(parent *Scope) *Scope {
	return &Scope{Parent: parent, table: make(map[string]*Symbol)}
}

// Declare installs sym in this scope. It returns false if a symbol of the
// same name is already declared directly in this scope (duplicate
// declaration within a scope is an error per spec §4.3); shadowing a name
// visible only through an ancestor scope is permitted (a warning, not an
// error, is raised by the caller).
func (s *Scope) Declare(sym *Symbol) bool {
	if _, exists := s.table[sym.Name]; exists {
		return false
	}
	s.table[sym.Name] = sym
	return true
}

// LookupLocal looks up name in this scope only, without walking to
// ancestors. Used to detect shadowing.
func (s *Scope) LookupLocal(name string) (*Symbol, bool) {
	sym, ok := s.table[name]
	return sym, ok
}

// Lookup walks this scope and its ancestors, returning the first match.
func (s *Scope) Lookup(name string) (*Symbol, bool) {
	for scope := s; scope != nil; scope = scope.Parent {
		if sym, ok := scope.table[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// ShadowsAncestor reports whether name is already visible in an ancestor
// scope (not this one) -- used to raise the shadowing warning.
func (s *Scope) ShadowsAncestor(name string) bool {
	for scope := s.Parent; scope != nil; scope = scope.Parent {
		if _, ok := scope.table[name]; ok {
			return true
		}
	}
	return false
}

// All returns every symbol declared directly in this scope, for CoCos
// that iterate a whole block (e.g. "unused parameter" warnings).
func (s *Scope) All() []*Symbol {
	out := make([]*Symbol, 0, len(s.table))
	for _, sym := range s.table {
		out = append(out, sym)
	}
	return out
}
