package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nestml.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaultsForOmittedFields(t *testing.T) {
	path := writeTemp(t, `
[project]
module_name = "my-models"
input_path = "models/"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LoggingLevel != "WARN" {
		t.Fatalf("expected default logging level WARN, got %q", cfg.LoggingLevel)
	}
	if cfg.SolverEndpoint != EndpointStub {
		t.Fatalf("expected default solver endpoint stub, got %q", cfg.SolverEndpoint)
	}
	if cfg.SolverTimeout != 60*time.Second {
		t.Fatalf("expected default timeout 60s, got %v", cfg.SolverTimeout)
	}
}

func TestLoadRejectsMissingModuleName(t *testing.T) {
	path := writeTemp(t, `
[project]
input_path = "models/"
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for a missing module_name")
	}
}

func TestOverridesApplyTakesPrecedenceOverFile(t *testing.T) {
	path := writeTemp(t, `
[project]
module_name = "my-models"
input_path = "models/"
logging_level = "INFO"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	dev := true
	Overrides{LogLevel: "ERROR", Dev: &dev, Timeout: 5 * time.Second}.Apply(cfg)

	if cfg.LoggingLevel != "ERROR" {
		t.Fatalf("expected CLI override to win, got %q", cfg.LoggingLevel)
	}
	if !cfg.Dev {
		t.Fatal("expected dev override to win")
	}
	if cfg.SolverTimeout != 5*time.Second {
		t.Fatalf("expected timeout override to win, got %v", cfg.SolverTimeout)
	}
}

func TestResolveInputPathJoinsAgainstConfigDir(t *testing.T) {
	path := writeTemp(t, `
[project]
module_name = "my-models"
input_path = "models"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	resolved := ResolveInputPath(path, cfg)
	want := filepath.Join(filepath.Dir(path), "models")
	if resolved != want {
		t.Fatalf("expected %q, got %q", want, resolved)
	}
}
