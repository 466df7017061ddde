// Package config loads nestml.toml and merges it with CLI flag
// overrides into a plain Go configuration struct, per spec §4.9. The
// TOML-shaped intermediate struct mirrors chai's
// mods.tomlModuleFile/mods.LoadModule split: decode, validate, convert --
// so the rest of the pipeline never touches TOML tags directly.
package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml"
)

// tomlConfigFile is nestml.toml as it is encoded on disk.
type tomlConfigFile struct {
	Project *tomlProject `toml:"project"`
	Solver  *tomlSolver  `toml:"solver"`
}

type tomlProject struct {
	ModuleName   string `toml:"module_name"`
	InputPath    string `toml:"input_path"`
	TargetPath   string `toml:"target_path"`
	LoggingLevel string `toml:"logging_level"`
	Dev          bool   `toml:"dev"`
	StoreLog     string `toml:"store_log,omitempty"`
}

type tomlSolver struct {
	Endpoint       string `toml:"endpoint"`
	Command        string `toml:"command"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Endpoint enumerates the `solver.endpoint` values spec §4.9 allows.
const (
	EndpointPipe = "pipe"
	EndpointHTTP = "http"
	EndpointStub = "stub"
)

// Config is the validated, TOML-agnostic configuration the rest of the
// pipeline consumes.
type Config struct {
	ModuleName   string
	InputPath    string
	TargetPath   string
	LoggingLevel string
	Dev          bool
	StoreLog     string

	SolverEndpoint string
	SolverCommand  string
	SolverTimeout  time.Duration
}

// defaults mirrors the fields `nestml.toml` may omit.
func defaults() *Config {
	return &Config{
		LoggingLevel:   "WARN",
		SolverEndpoint: EndpointStub,
		SolverTimeout:  60 * time.Second,
	}
}

// Load reads and validates path (an `nestml.toml` file), returning a
// Config populated with its own defaults for anything the file omits.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, err
	}

	tcf := &tomlConfigFile{}
	if err := toml.Unmarshal(buf, tcf); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}

	cfg := defaults()
	if err := mergeProject(cfg, tcf.Project); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	mergeSolver(cfg, tcf.Solver)

	return cfg, nil
}

func mergeProject(cfg *Config, p *tomlProject) error {
	if p == nil {
		return fmt.Errorf("missing [project] section")
	}
	if p.ModuleName == "" {
		return fmt.Errorf("[project] missing module_name")
	}
	if p.InputPath == "" {
		return fmt.Errorf("[project] missing input_path")
	}

	cfg.ModuleName = p.ModuleName
	cfg.InputPath = p.InputPath
	cfg.TargetPath = p.TargetPath
	if p.LoggingLevel != "" {
		cfg.LoggingLevel = p.LoggingLevel
	}
	cfg.Dev = p.Dev
	cfg.StoreLog = p.StoreLog
	return nil
}

func mergeSolver(cfg *Config, s *tomlSolver) {
	if s == nil {
		return
	}
	if s.Endpoint != "" {
		cfg.SolverEndpoint = s.Endpoint
	}
	if s.Command != "" {
		cfg.SolverCommand = s.Command
	}
	if s.TimeoutSeconds > 0 {
		cfg.SolverTimeout = time.Duration(s.TimeoutSeconds) * time.Second
	}
}

// Overrides carries the subset of CLI flags that can override
// `nestml.toml`, per spec §4.9/§4.10 ("merged with CLI flags, CLI wins").
// An empty/zero field leaves the corresponding Config field untouched.
type Overrides struct {
	Root     string
	Target   string
	LogLevel string
	Dev      *bool
	Timeout  time.Duration
}

// Apply overlays non-empty/non-nil Overrides fields onto cfg, in place.
func (o Overrides) Apply(cfg *Config) {
	if o.Root != "" {
		cfg.InputPath = o.Root
	}
	if o.Target != "" {
		cfg.TargetPath = o.Target
	}
	if o.LogLevel != "" {
		cfg.LoggingLevel = o.LogLevel
	}
	if o.Dev != nil {
		cfg.Dev = *o.Dev
	}
	if o.Timeout > 0 {
		cfg.SolverTimeout = o.Timeout
	}
}

// ResolveInputPath joins cfg's input_path against the directory
// containing the loaded nestml.toml, so relative paths in the config
// resolve the same way regardless of the caller's working directory.
func ResolveInputPath(configPath string, cfg *Config) string {
	if filepath.IsAbs(cfg.InputPath) {
		return cfg.InputPath
	}
	return filepath.Join(filepath.Dir(configPath), cfg.InputPath)
}
