// Package pipeline implements the pipeline orchestrator (C9): it runs
// C1-C8 in order for each compilation unit, gates each neuron's C7/C8
// independently by that neuron's own error count, and carries diagnostics
// and the transformed IR between phases, per spec §2, §4.8, and §5.
package pipeline

import (
	"bufio"
	"context"
	"os"
	"sync"

	"go.uber.org/multierr"

	"nestml/ast"
	"nestml/cocos"
	"nestml/equations"
	"nestml/ir"
	"nestml/report"
	"nestml/resolve"
	"nestml/solver"
	"nestml/symtab"
	"nestml/syntax"
	"nestml/typecheck"
)

// Unit is one source file queued for compilation.
type Unit struct {
	FilePath string
	Context  *report.CompilationContext
}

// Options configures a Pipeline run.
type Options struct {
	// Concurrency bounds how many units are processed at once. Zero selects
	// defaultConcurrency. Each unit runs in its own goroutine, mirroring
	// build.Compiler.createResolutionBatches' goroutine-per-module batches.
	Concurrency int

	// SolverClient is the transport used by C8 for every unit in the run.
	SolverClient solver.Client

	// SimTimeResolution is passed through to C8's solver request.
	SimTimeResolution float64

	// Dev enables developer-facing CoCo diagnostics (spec §4.5's dev-mode
	// note), forwarded to cocos.NewChecker.
	Dev bool

	// SkipSolver runs C1-C6 only and never invokes C7 (equations analysis)
	// or C8 (solver), per spec §4.10's `check` subcommand contract. Unlike
	// swapping in solver.UnavailableClient, this leaves no trace in the
	// diagnostics stream: UnavailableClient still answers C8's request with
	// StatusPartial, which the driver reports as a WARN.
	SkipSolver bool
}

// Pipeline runs C1-C8 over a batch of compilation units.
type Pipeline struct {
	diag *report.Collector
	univ *symtab.Universe
	opts Options
}

// New creates a Pipeline sharing one diagnostics Collector and one symbol
// Universe across every unit in the run.
func New(diag *report.Collector, opts Options) *Pipeline {
	return &Pipeline{diag: diag, univ: symtab.NewUniverse(), opts: opts}
}

// Run processes every unit concurrently, bounded by Options.Concurrency,
// and returns one Bundle per unit that reached C4 (nil entries mark units
// that failed to parse or never resolved a symbol table at all). A
// returned Bundle's Models holds only the neurons that individually
// survived through C6 (or C8, unless Options.SkipSolver) -- a sibling
// neuron's error never drops another neuron's model from the same
// Bundle. It aggregates any internal per-unit errors with multierr, per spec §5's
// note on cross-unit diagnostic aggregation -- grounded on
// build.Compiler's batched-goroutine pattern, but flattened to a single
// batch since NESTML compilation units have no cross-unit dependency
// graph to order into resolution batches.
func (p *Pipeline) Run(ctx context.Context, units []Unit) ([]*ir.Bundle, error) {
	sem := make(chan struct{}, p.concurrency())

	results := make([]*ir.Bundle, len(units))
	errs := make([]error, len(units))

	var wg sync.WaitGroup
	for i, u := range units {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, u Unit) {
			defer wg.Done()
			defer func() { <-sem }()

			bundle, err := p.runUnit(ctx, u)
			results[i] = bundle
			errs[i] = err
		}(i, u)
	}
	wg.Wait()

	var agg error
	for _, err := range errs {
		agg = multierr.Append(agg, err)
	}
	return results, agg
}

// defaultConcurrency is used when Options.Concurrency is left at zero.
const defaultConcurrency = 8

func (p *Pipeline) concurrency() int {
	if p.opts.Concurrency > 0 {
		return p.opts.Concurrency
	}
	return defaultConcurrency
}

// runUnit runs C1-C8 for a single compilation unit. A panic escaping any
// phase is recovered and demoted to a FATAL diagnostic for this unit only,
// per spec §7's "internal error" propagation policy -- the rest of the
// batch continues.
func (p *Pipeline) runUnit(ctx context.Context, u Unit) (bundle *ir.Bundle, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.diag.Fatalf(u.Context, nil, "internal error in %s: %v", u.Context.ReprPath, r)
			bundle, err = nil, nil
		}
	}()

	p.diag.BeginPhase("parse " + u.Context.ReprPath)
	unit := p.parse(u)
	p.diag.EndPhase(!p.diag.HasErrors(u.Context.ReprPath))
	if unit == nil || p.diag.HasErrors(u.Context.ReprPath) {
		return nil, nil
	}

	builder := resolve.NewBuilder(u.Context, p.diag, p.univ)
	checker := typecheck.NewChecker(u.Context, p.diag)
	cocoChecker := cocos.NewChecker(u.Context, p.diag, p.opts.Dev)
	eqAnalyzer := equations.NewAnalyzer(u.Context, p.diag)
	driver := solver.NewDriver(u.Context, p.diag, p.solverClient(), p.opts.SimTimeResolution)

	// Each neuron is gated independently: an error counted against one
	// neuron must never short-circuit a sibling neuron in the same file
	// (spec §8 scenario 5), and C1-C6 always run for a given neuron even if
	// an earlier of those phases already flagged it, so every available
	// diagnostic surfaces from a single invocation (spec §4.8). before/after
	// deltas against the collector's per-file count substitute for a
	// per-neuron count the collector doesn't track.
	models := make([]*ir.ModelDef, 0, len(unit.Neurons))
	for _, n := range unit.Neurons {
		before := p.diag.ErrorCount(u.Context.ReprPath)

		scope := builder.BuildNeuron(n)
		checker.CheckNeuron(n)
		cocoChecker.CheckNeuron(n)

		if p.diag.ErrorCount(u.Context.ReprPath) > before {
			continue
		}

		if p.opts.SkipSolver {
			resolve.ReportUnused(p.diag, u.Context, scope)
			continue
		}

		set := eqAnalyzer.Analyze(n)
		if p.diag.ErrorCount(u.Context.ReprPath) > before {
			continue
		}

		result := driver.Run(ctx, n, set)
		if p.diag.ErrorCount(u.Context.ReprPath) > before {
			continue
		}

		resolve.ReportUnused(p.diag, u.Context, scope)
		models = append(models, ir.BuildModelDef(n, set, result))
	}

	return &ir.Bundle{
		PackageName:  unit.PackageName,
		ArtifactName: unit.ArtifactName,
		Models:       models,
	}, nil
}

func (p *Pipeline) solverClient() solver.Client {
	if p.opts.SolverClient != nil {
		return p.opts.SolverClient
	}
	return solver.UnavailableClient{}
}

func (p *Pipeline) parse(u Unit) *ast.CompilationUnit {
	f, err := os.Open(u.FilePath)
	if err != nil {
		p.diag.Errorf(u.Context, nil, "FileNotFound", "cannot open %s: %s", u.FilePath, err)
		return nil
	}
	defer f.Close()

	parser := syntax.NewParser(u.Context, p.diag, bufio.NewReader(f))
	return parser.ParseFile()
}
