// Package cmd is the CLI driver: flag parsing, subcommand dispatch, and
// the glue between nestml.toml (config), the pipeline orchestrator, and
// the diagnostics display, per spec §4.10.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ComedicChimera/olive"

	"nestml/config"
	"nestml/pipeline"
	"nestml/report"
	"nestml/solver"
)

// Version is the CLI's reported version string.
const Version = "0.1.0"

// Execute is the main entry point for the `nestml` CLI utility.
func Execute() {
	cli := olive.NewCLI("nestml", "nestml is the NESTML model compiler front-end", true)

	cli.AddStringArg("config", "c", "path to nestml.toml", false)
	cli.AddStringArg("root", "r", "override the project's input_path", false)
	cli.AddStringArg("target", "t", "override the project's target_path", false)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the compiler log level", false, []string{"silent", "error", "warn", "verbose"})
	logLvlArg.SetDefaultValue("warn")
	cli.AddFlag("dev", "", "enable developer-facing diagnostics")
	cli.AddStringArg("timeout", "", "override the solver timeout, e.g. \"30s\"", false)

	checkCmd := cli.AddSubcommand("check", "run the front-end through context conditions, no solver invocation", true)
	checkCmd.AddPrimaryArg("path", "the model root directory or a single .nestml file", true)

	compileCmd := cli.AddSubcommand("compile", "run the full pipeline, including ODE analysis", true)
	compileCmd.AddPrimaryArg("path", "the model root directory or a single .nestml file", true)

	cli.AddSubcommand("version", "print the nestml compiler version", false)

	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "check":
		os.Exit(runPipeline(result, subResult, false))
	case "compile":
		os.Exit(runPipeline(result, subResult, true))
	case "version":
		fmt.Println("nestml", Version)
	default:
		fmt.Fprintln(os.Stderr, "expected a subcommand: check, compile, or version")
		os.Exit(2)
	}
}

// runPipeline loads config, merges CLI overrides, discovers compilation
// units under the resolved input path, and runs them through the
// pipeline orchestrator. withSolver selects between `check` (C1-C6 only)
// and `compile` (the full C1-C9 pipeline), per spec §4.10.
func runPipeline(result, subResult *olive.ArgParseResult, withSolver bool) int {
	cfg := loadAndMergeConfig(result)

	logLevel := parseLogLevel(cfg.LoggingLevel)
	diag := report.NewCollector(logLevel)

	inputRoot, _ := subResult.PrimaryArg()
	if inputRoot == "" {
		inputRoot = cfg.InputPath
	}

	units, err := discoverUnits(inputRoot, cfg.ModuleName)
	if err != nil {
		fmt.Fprintln(os.Stderr, "discovery error:", err)
		return 2
	}
	if len(units) == 0 {
		fmt.Fprintln(os.Stderr, "no .nestml files found under", inputRoot)
		return 2
	}

	client := solver.Client(solver.UnavailableClient{})
	if withSolver {
		client = resolveSolverClient(cfg)
	}

	p := pipeline.New(diag, pipeline.Options{
		SolverClient:      client,
		SimTimeResolution: 0.1,
		Dev:               cfg.Dev,
		SkipSolver:        !withSolver,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.SolverTimeout+30*time.Second)
	defer cancel()

	if _, err := p.Run(ctx, units); err != nil {
		fmt.Fprintln(os.Stderr, "internal error:", err)
	}

	diag.DisplaySummary()
	return diag.Summarize().ExitCode()
}

func resolveSolverClient(cfg *config.Config) solver.Client {
	switch cfg.SolverEndpoint {
	case config.EndpointPipe:
		return solver.NewPipeClient(cfg.SolverCommand, cfg.SolverTimeout)
	case config.EndpointStub:
		return solver.UnavailableClient{}
	default:
		return solver.UnavailableClient{}
	}
}

func loadAndMergeConfig(result *olive.ArgParseResult) *config.Config {
	var cfg *config.Config
	if configPath, ok := result.Arguments["config"]; ok && configPath.(string) != "" {
		loaded, err := config.Load(configPath.(string))
		if err != nil {
			fmt.Fprintln(os.Stderr, "config error:", err)
			os.Exit(2)
		}
		loaded.InputPath = config.ResolveInputPath(configPath.(string), loaded)
		cfg = loaded
	} else {
		cfg = &config.Config{LoggingLevel: "warn", SolverEndpoint: config.EndpointStub, SolverTimeout: 60 * time.Second}
	}

	overrides := config.Overrides{}
	if v, ok := result.Arguments["root"]; ok {
		overrides.Root = v.(string)
	}
	if v, ok := result.Arguments["target"]; ok {
		overrides.Target = v.(string)
	}
	if v, ok := result.Arguments["loglevel"]; ok {
		overrides.LogLevel = v.(string)
	}
	if dev, ok := result.Arguments["dev"]; ok {
		b := dev.(bool)
		overrides.Dev = &b
	}
	if v, ok := result.Arguments["timeout"]; ok {
		if d, err := time.ParseDuration(v.(string)); err == nil {
			overrides.Timeout = d
		}
	}
	overrides.Apply(cfg)

	return cfg
}

func parseLogLevel(name string) int {
	switch name {
	case "silent", "SILENT":
		return report.LogLevelSilent
	case "error", "ERROR":
		return report.LogLevelError
	case "warn", "WARN":
		return report.LogLevelWarn
	case "verbose", "VERBOSE":
		return report.LogLevelVerbose
	default:
		return report.LogLevelWarn
	}
}
