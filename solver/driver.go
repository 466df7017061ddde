package solver

import (
	"context"
	"errors"

	"nestml/ast"
	"nestml/equations"
	"nestml/report"
)

// Driver runs C8: it serializes a neuron's canonicalized equation set
// into a Request, invokes a Client, and folds the reply back into the
// IR, per spec §4.7.
type Driver struct {
	ctx     *report.CompilationContext
	diag    *report.Collector
	client  Client
	simStep float64
}

func NewDriver(ctx *report.CompilationContext, diag *report.Collector, client Client, simStep float64) *Driver {
	return &Driver{ctx: ctx, diag: diag, client: client, simStep: simStep}
}

// Result carries what C8 produced for one neuron, consumed by C13 to
// build the transformed IR.
type Result struct {
	Analytic          bool
	GeneratedState    []string
	UpdateExpressions map[string]string
	InitialValues     map[string]float64
	Propagator        map[string][]float64
	Stiff             bool
}

// Run serializes set into a solver Request, invokes the client, and
// interprets the reply. It reports diagnostics rather than returning an
// error: a timeout or a declined/partial reply WARNs and answers with a
// numeric-mode Result, per spec §4.7's fallback policy, but a reply that
// is structurally broken -- undecodable on the wire (client.Solve wraps
// ErrMalformedReply) or carrying an unrecognized in-band status -- is an
// ERROR with no fallback Result, per spec §4.7/§7's "non-zero ERROR
// count prevents emission of downstream artifacts for that unit." Callers
// must check the diagnostics collector, not just the returned Result, to
// tell these cases apart.
func (d *Driver) Run(ctx context.Context, n *ast.Neuron, set *equations.ShapeSet) *Result {
	req := buildRequest(set, d.simStep)

	reply, err := d.client.Solve(ctx, req)
	if err != nil {
		if errors.Is(err, ErrMalformedReply) {
			d.diag.Errorf(d.ctx, n.Span(), "SolverMalformedReply", "solver transport returned a malformed reply: %s", err)
			return nil
		}
		d.diag.Warnf(d.ctx, n.Span(), "SolverTimeout", "solver request failed, falling back to numeric mode: %s", err)
		return numericFallback(set)
	}

	switch reply.Status {
	case StatusFailure:
		d.diag.Warnf(d.ctx, n.Span(), "SolverDeclined", "solver declined an analytic solution, falling back to numeric mode")
		return numericFallback(set)
	case StatusPartial:
		d.diag.Warnf(d.ctx, n.Span(), "SolverPartial", "solver returned a partial reply, falling back to numeric mode")
		return numericFallback(set)
	case StatusSuccess:
		// fall through
	default:
		d.diag.Errorf(d.ctx, n.Span(), "SolverMalformedReply", "solver reply has unrecognized status %q", reply.Status)
		return nil
	}

	if reply.Stiff {
		d.diag.Infof(d.ctx, n.Span(), "SolverStiffnessObserved", "solver reported a stiff subsystem (informational only)")
	}

	if reply.Solver != SolverAnalytical {
		return numericFallback(set)
	}

	return &Result{
		Analytic:          true,
		GeneratedState:    reply.StateVariables,
		UpdateExpressions: reply.UpdateExpressions,
		InitialValues:     reply.InitialValues,
		Propagator:        reply.Propagator,
		Stiff:             reply.Stiff,
	}
}

func numericFallback(set *equations.ShapeSet) *Result {
	names := make([]string, 0, len(set.Rows))
	for _, row := range set.Rows {
		names = append(names, row.Name)
	}
	return &Result{Analytic: false, GeneratedState: names}
}

// buildRequest serializes each row's RHS with renderExpr, which writes
// number literals without their unit suffix; literal values are not
// rescaled and the request's Parameters and InitialValue fields are left
// empty. The full pretty-printer is ast.Print, but C8 only needs a stable
// textual form the solver can re-parse, so a minimal inline renderer
// suffices here.
func buildRequest(set *equations.ShapeSet, simStep float64) *Request {
	req := &Request{Options: Options{SimTimeResolution: simStep}}
	for _, row := range set.Rows {
		req.Dynamics = append(req.Dynamics, Dynamic{
			Name:       row.Name,
			Expression: renderExpr(row.RHS),
			Order:      row.Order,
		})
	}
	return req
}
