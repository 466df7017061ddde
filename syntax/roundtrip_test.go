package syntax

import (
	"bufio"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"nestml/ast"
	"nestml/report"
)

// astEqual compares two parsed CompilationUnits structurally, ignoring
// spans and the (always-nil, at this stage) type/symbol decorations that
// later compiler phases attach. ASTBase and ExprBase both carry unexported
// fields (span, typ); registering a Comparer for each sidesteps cmp's
// unexported-field panic instead of trying to export them.
func astEqual(t *testing.T, got, want *ast.CompilationUnit) {
	t.Helper()
	opts := cmp.Options{
		cmp.Comparer(func(a, b ast.ASTBase) bool { return true }),
		cmp.Comparer(func(a, b ast.ExprBase) bool { return true }),
	}
	if diff := cmp.Diff(want, got, opts); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func parseUnit(t *testing.T, src string) *ast.CompilationUnit {
	t.Helper()
	diag := report.NewCollector(report.LogLevelSilent)
	ctx := &report.CompilationContext{FilePath: "roundtrip.nestml", ReprPath: "roundtrip.nestml"}
	unit := NewParser(ctx, diag, bufio.NewReader(strings.NewReader(src))).ParseFile()
	if diag.AnyErrors() {
		t.Fatalf("unexpected parse errors for input:\n%s\ngot: %v", src, diag.Diagnostics())
	}
	return unit
}

func TestRoundTripPrettyPrintReparseIsStructurallyEqual(t *testing.T) {
	sources := []string{
		`
neuron iaf_psc_delta:
  state:
    V_m mV = -70 mV
  end
  parameters:
    tau_m ms = 10 ms
    recordable C_m pF = 250 pF
  end
  internals:
    RefractoryCounts integer = 0
  end
  equations:
    shape g_ex = 0 nS
    V_m' = (-V_m) / tau_m + convolve(g_ex, spikes) / C_m
  end
  input:
    spikes nS <- excitatory spike
    I_stim pA <- current
  end
  output:
    spike
  end
  update:
    integrate_odes()
    if V_m > -55 mV:
      V_m = -70 mV
      emit_spike()
    elif V_m < -80 mV:
      V_m = -80 mV
    else:
      V_m = V_m
    end
    for i = 0 to RefractoryCounts step 1:
      V_m = V_m
    end
  end
  function double_it(x mV) mV:
    return x * 2
  end
end
`,
		`
neuron no_blocks:
end
`,
	}

	for _, src := range sources {
		original := parseUnit(t, src)
		printed := ast.Print(original)
		reparsed := parseUnit(t, printed)
		astEqual(t, reparsed, original)
	}
}
