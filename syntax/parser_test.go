package syntax

import (
	"bufio"
	"strings"
	"testing"

	"nestml/report"
)

func parseSource(t *testing.T, src string) (*report.Collector, *Parser) {
	t.Helper()
	diag := report.NewCollector(report.LogLevelSilent)
	ctx := &report.CompilationContext{FilePath: "test.nestml", ReprPath: "test.nestml"}
	p := NewParser(ctx, diag, bufio.NewReader(strings.NewReader(src)))
	return diag, p
}

func TestParseFileAcceptsAMinimalNeuron(t *testing.T) {
	src := `
neuron test_neuron:
  state:
    V_m mV = -70 mV
  end
  parameters:
    tau_m ms = 10 ms
  end
  update:
    V_m = V_m + 1 mV
  end
end
`
	diag, p := parseSource(t, src)
	unit := p.ParseFile()

	if diag.AnyErrors() {
		t.Fatalf("unexpected parse errors: %v", diag.Diagnostics())
	}
	if len(unit.Neurons) != 1 {
		t.Fatalf("expected one neuron, got %d", len(unit.Neurons))
	}
	n := unit.Neurons[0]
	if n.Name != "test_neuron" {
		t.Fatalf("expected name test_neuron, got %q", n.Name)
	}
	if len(n.State) != 1 || n.State[0].Name != "V_m" {
		t.Fatalf("expected one state declaration V_m, got %v", n.State)
	}
	if len(n.Parameters) != 1 || n.Parameters[0].Name != "tau_m" {
		t.Fatalf("expected one parameter tau_m, got %v", n.Parameters)
	}
}

func TestParseFileRecoversToNextNeuronOnError(t *testing.T) {
	src := `
neuron broken:
  state:
    @@@
  end
end

neuron ok_one:
  state:
    V_m mV = 0 mV
  end
end
`
	diag, p := parseSource(t, src)
	unit := p.ParseFile()

	if !diag.AnyErrors() {
		t.Fatal("expected a syntax error in the first neuron")
	}

	found := false
	for _, n := range unit.Neurons {
		if n.Name == "ok_one" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected recovery to still parse ok_one, got %v", unit.Neurons)
	}
}

func TestParseFileParsesEmptyFileAsZeroNeurons(t *testing.T) {
	diag, p := parseSource(t, "")
	unit := p.ParseFile()

	if diag.AnyErrors() {
		t.Fatalf("unexpected errors on an empty file: %v", diag.Diagnostics())
	}
	if len(unit.Neurons) != 0 {
		t.Fatalf("expected zero neurons, got %d", len(unit.Neurons))
	}
}
