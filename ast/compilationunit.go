package ast

import "nestml/symtab"

// CompilationUnit is one source file parsed into one AST, per spec §3: a
// package qualifier derived from the file path relative to the model root,
// an artifact name (the file stem), and the neuron/synapse declarations it
// contains.
type CompilationUnit struct {
	ASTBase

	PackageName  string
	ArtifactName string
	FilePath     string

	Neurons []*Neuron
}

// Kind distinguishes a `neuron` declaration from a `synapse` declaration;
// both share the same nine-block structure.
const (
	KindNeuron = iota
	KindSynapse
)

// Neuron is a named bundle of up to nine optional blocks plus function
// definitions, per spec §3.
type Neuron struct {
	ASTBase

	Name string
	Kind int

	State         []*Declaration
	InitialValues []*Declaration
	Parameters    []*Declaration
	Internals     []*Declaration
	Equations     *EquationsBlock
	Input         []*InputPort
	Output        *OutputPort
	Update        *Block
	Functions     []*FuncDef

	// Symbol is filled in by the symbol table builder (C4).
	Symbol *symtab.Symbol
}

// HasBlock reports whether any declaration of the named block kind is
// present, used by CoCo C6's "at most one of each block kind" rule (the
// parser itself never allows more than one of each keyworded block, but
// this accessor keeps that check declarative).
func (n *Neuron) HasBlock(blockName string) bool {
	switch blockName {
	case "state":
		return len(n.State) > 0
	case "initial_values":
		return len(n.InitialValues) > 0
	case "parameters":
		return len(n.Parameters) > 0
	case "internals":
		return len(n.Internals) > 0
	case "equations":
		return n.Equations != nil
	case "input":
		return len(n.Input) > 0
	case "output":
		return n.Output != nil
	case "update":
		return n.Update != nil
	default:
		return false
	}
}
