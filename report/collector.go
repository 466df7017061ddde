package report

import (
	"fmt"
	"sort"
	"sync"
)

// Enumeration of log levels controlling how much of the collected
// diagnostic stream is displayed (independent of what is recorded).
const (
	LogLevelSilent = iota
	LogLevelError
	LogLevelWarn
	LogLevelVerbose
)

// Collector accumulates diagnostics for a whole invocation (possibly many
// compilation units processed concurrently). It is safe for concurrent use:
// each compilation unit's pipeline goroutine reports through the same
// Collector, guarded by a mutex, mirroring chai's Reporter/Logger pair.
type Collector struct {
	m *sync.Mutex

	logLevel int

	diags []*Diagnostic

	// errorCounts tracks ERROR-or-worse diagnostics per unit (keyed by
	// ReprPath) so the orchestrator can gate downstream phases per unit
	// without one unit's errors blocking another's.
	errorCounts map[string]int
}

// NewCollector creates a new diagnostics collector at the given log level.
func NewCollector(logLevel int) *Collector {
	return &Collector{
		m:           &sync.Mutex{},
		logLevel:    logLevel,
		errorCounts: make(map[string]int),
	}
}

// Report records a diagnostic and immediately renders it if the collector's
// log level permits (see display.go).
func (c *Collector) Report(d *Diagnostic) {
	c.m.Lock()
	defer c.m.Unlock()

	c.diags = append(c.diags, d)

	if d.Severity >= SeverityError {
		c.errorCounts[d.Context.ReprPath]++
	}

	c.maybeDisplay(d)
}

// Errorf reports an ERROR-severity diagnostic.
func (c *Collector) Errorf(ctx *CompilationContext, span *TextSpan, code, msg string, args ...interface{}) {
	c.Report(&Diagnostic{Severity: SeverityError, Code: code, Context: ctx, Span: span, Message: fmt.Sprintf(msg, args...)})
}

// Warnf reports a WARN-severity diagnostic.
func (c *Collector) Warnf(ctx *CompilationContext, span *TextSpan, code, msg string, args ...interface{}) {
	c.Report(&Diagnostic{Severity: SeverityWarn, Code: code, Context: ctx, Span: span, Message: fmt.Sprintf(msg, args...)})
}

// Infof reports an INFO-severity diagnostic.
func (c *Collector) Infof(ctx *CompilationContext, span *TextSpan, code, msg string, args ...interface{}) {
	c.Report(&Diagnostic{Severity: SeverityInfo, Code: code, Context: ctx, Span: span, Message: fmt.Sprintf(msg, args...)})
}

// Fatalf reports a FATAL-severity diagnostic: an internal invariant was
// violated. Unlike chai's ReportICE this does not os.Exit -- it only halts
// the affected compilation unit, per spec §7's propagation policy.
func (c *Collector) Fatalf(ctx *CompilationContext, span *TextSpan, msg string, args ...interface{}) {
	c.Report(&Diagnostic{Severity: SeverityFatal, Code: "InternalError", Context: ctx, Span: span, Message: fmt.Sprintf(msg, args...)})
}

// HasErrors returns whether the given unit (by ReprPath) has accumulated any
// ERROR-or-worse diagnostic. The pipeline orchestrator (C9) calls this after
// parsing to decide whether to short-circuit the unit; later phases gate per
// neuron through ErrorCount.
func (c *Collector) HasErrors(reprPath string) bool {
	c.m.Lock()
	defer c.m.Unlock()

	return c.errorCounts[reprPath] > 0
}

// ErrorCount returns the number of ERROR-or-worse diagnostics accumulated so
// far for the given unit (by ReprPath). Callers that need finer-than-unit
// granularity -- such as the pipeline orchestrator gating per neuron within
// a multi-neuron file -- snapshot this before a neuron's phase work and
// compare against it after, since the collector itself has no notion of
// neurons.
func (c *Collector) ErrorCount(reprPath string) int {
	c.m.Lock()
	defer c.m.Unlock()

	return c.errorCounts[reprPath]
}

// AnyErrors returns whether any unit has accumulated an ERROR-or-worse
// diagnostic across the whole invocation.
func (c *Collector) AnyErrors() bool {
	c.m.Lock()
	defer c.m.Unlock()

	for _, n := range c.errorCounts {
		if n > 0 {
			return true
		}
	}
	return false
}

// Diagnostics returns a snapshot of every diagnostic recorded so far,
// ordered by file then by span start (line, then column). Phase is not a
// sort key: a later phase's diagnostic on an earlier line sorts before an
// earlier phase's diagnostic on a later line. Diagnostics at the same
// position keep their recording order.
func (c *Collector) Diagnostics() []*Diagnostic {
	c.m.Lock()
	defer c.m.Unlock()

	out := make([]*Diagnostic, len(c.diags))
	copy(out, c.diags)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Context.ReprPath != b.Context.ReprPath {
			return a.Context.ReprPath < b.Context.ReprPath
		}
		if a.Span == nil || b.Span == nil {
			return false
		}
		return a.Span.StartLine < b.Span.StartLine ||
			(a.Span.StartLine == b.Span.StartLine && a.Span.StartCol < b.Span.StartCol)
	})

	return out
}

// Summary tallies diagnostics by severity across the whole invocation.
type Summary struct {
	Info, Warn, Error, Fatal int
}

// ExitCode implements spec §6's exit code table: 0 on success, 1 on any
// ERROR, 2 on FATAL/internal error.
func (s Summary) ExitCode() int {
	if s.Fatal > 0 {
		return 2
	}
	if s.Error > 0 {
		return 1
	}
	return 0
}

// Summarize computes the severity tally over all recorded diagnostics.
func (c *Collector) Summarize() Summary {
	c.m.Lock()
	defer c.m.Unlock()

	var s Summary
	for _, d := range c.diags {
		switch d.Severity {
		case SeverityInfo:
			s.Info++
		case SeverityWarn:
			s.Warn++
		case SeverityError:
			s.Error++
		case SeverityFatal:
			s.Fatal++
		}
	}
	return s
}
