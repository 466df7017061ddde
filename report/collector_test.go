package report

import "testing"

func ctxFor(reprPath string) *CompilationContext {
	return &CompilationContext{ReprPath: reprPath, FilePath: reprPath}
}

func TestHasErrorsIsScopedPerUnit(t *testing.T) {
	c := NewCollector(LogLevelSilent)

	c.Errorf(ctxFor("a.nestml"), nil, "SomeError", "boom")
	c.Warnf(ctxFor("b.nestml"), nil, "SomeWarning", "careful")

	if !c.HasErrors("a.nestml") {
		t.Fatal("expected a.nestml to have an error")
	}
	if c.HasErrors("b.nestml") {
		t.Fatal("expected b.nestml to have no errors, only a warning")
	}
	if !c.AnyErrors() {
		t.Fatal("expected AnyErrors to be true across the run")
	}
}

func TestErrorCountTracksDeltasWithinAUnit(t *testing.T) {
	c := NewCollector(LogLevelSilent)

	if n := c.ErrorCount("a.nestml"); n != 0 {
		t.Fatalf("expected 0 errors before any are reported, got %d", n)
	}

	before := c.ErrorCount("a.nestml")
	c.Errorf(ctxFor("a.nestml"), nil, "FirstNeuronError", "boom")
	if after := c.ErrorCount("a.nestml"); after <= before {
		t.Fatalf("expected ErrorCount to increase after an error, got %d -> %d", before, after)
	}

	before = c.ErrorCount("a.nestml")
	c.Warnf(ctxFor("a.nestml"), nil, "SecondNeuronWarning", "careful")
	if after := c.ErrorCount("a.nestml"); after != before {
		t.Fatalf("expected a WARN not to move ErrorCount, got %d -> %d", before, after)
	}
}

func TestSummarizeTalliesBySeverity(t *testing.T) {
	c := NewCollector(LogLevelSilent)
	c.Infof(ctxFor("a.nestml"), nil, "Info1", "fyi")
	c.Warnf(ctxFor("a.nestml"), nil, "Warn1", "careful")
	c.Errorf(ctxFor("a.nestml"), nil, "Err1", "boom")
	c.Errorf(ctxFor("a.nestml"), nil, "Err2", "boom again")

	s := c.Summarize()
	if s.Info != 1 || s.Warn != 1 || s.Error != 2 || s.Fatal != 0 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if s.ExitCode() != 1 {
		t.Fatalf("expected exit code 1 for an ERROR-bearing run, got %d", s.ExitCode())
	}
}

func TestExitCodePrefersFatalOverError(t *testing.T) {
	c := NewCollector(LogLevelSilent)
	c.Errorf(ctxFor("a.nestml"), nil, "Err1", "boom")
	c.Fatalf(ctxFor("a.nestml"), nil, "internal error: %s", "panic recovered")

	if code := c.Summarize().ExitCode(); code != 2 {
		t.Fatalf("expected exit code 2 when a FATAL is present, got %d", code)
	}
}

func TestDiagnosticsAreOrderedByFileThenSpan(t *testing.T) {
	c := NewCollector(LogLevelSilent)
	c.Errorf(ctxFor("b.nestml"), &TextSpan{StartLine: 1}, "E", "second file")
	c.Errorf(ctxFor("a.nestml"), &TextSpan{StartLine: 5}, "E", "first file, later line")
	c.Errorf(ctxFor("a.nestml"), &TextSpan{StartLine: 1}, "E", "first file, earlier line")

	diags := c.Diagnostics()
	if len(diags) != 3 {
		t.Fatalf("expected 3 diagnostics, got %d", len(diags))
	}
	if diags[0].Context.ReprPath != "a.nestml" || diags[0].Span.StartLine != 1 {
		t.Fatalf("expected a.nestml line 1 first, got %v", diags[0])
	}
	if diags[1].Context.ReprPath != "a.nestml" || diags[1].Span.StartLine != 5 {
		t.Fatalf("expected a.nestml line 5 second, got %v", diags[1])
	}
	if diags[2].Context.ReprPath != "b.nestml" {
		t.Fatalf("expected b.nestml last, got %v", diags[2])
	}
}
