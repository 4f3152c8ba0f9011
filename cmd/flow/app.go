package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"flow/internal/config"
	"flow/internal/driver"
	"flow/internal/prof"
	"flow/internal/trace"
)

// app is the per-invocation state shared by all commands.
type app struct {
	cfg     config.Config
	log     zerolog.Logger
	tracer  trace.Tracer
	root    *trace.Span
	prof    *prof.Session
	runID   string
	color   bool
	quiet   bool
	timings bool
}

// setup loads flow.toml, applies flag overrides and creates the logger and tracer.
func (a *app) setup(cmd *cobra.Command) error {
	flags := cmd.Flags()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if flags.Changed("max-diagnostics") {
		cfg.Diagnostics.Max, _ = flags.GetInt("max-diagnostics")
	}
	if flags.Changed("color") {
		cfg.Diagnostics.Color, _ = flags.GetString("color")
	}
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.quiet, _ = flags.GetBool("quiet")
	a.timings, _ = flags.GetBool("timings")
	a.runID = driver.NewRunID()

	a.color = useColor(cfg.Diagnostics.Color, cmd.OutOrStdout())
	color.NoColor = !a.color

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Log.Level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}
	if a.quiet && level < zerolog.ErrorLevel {
		level = zerolog.ErrorLevel
	}
	a.log = zerolog.New(zerolog.ConsoleWriter{
		Out:        cmd.ErrOrStderr(),
		TimeFormat: time.TimeOnly,
		NoColor:    !a.color,
	}).Level(level).With().Timestamp().Str("run_id", a.runID).Logger()

	if err := a.setupTracing(cmd); err != nil {
		return err
	}
	if err := a.setupProfiling(cmd); err != nil {
		return err
	}
	a.log.Debug().Str("config", valueOr(cfg.Path, "<defaults>")).Str("command", cmd.Name()).Msg("starting")
	return nil
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return config.Load(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return config.Default(), nil
	}
	return config.Discover(wd)
}

// setupTracing reads --trace and --trace-level and opens the root driver span.
func (a *app) setupTracing(cmd *cobra.Command) error {
	output, err := cmd.Flags().GetString("trace")
	if err != nil {
		return fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := cmd.Flags().GetString("trace-level")
	if err != nil {
		return fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return err
	}
	// --trace без уровня включает фазы
	if level == trace.LevelOff && output != "" {
		level = trace.LevelPhase
	}

	cfg := trace.Config{Level: level, OutputPath: output, RunID: a.runID}
	if output == "" || output == "-" {
		cfg.Output = cmd.ErrOrStderr()
	}
	tracer, err := trace.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}
	a.tracer = tracer
	a.root = trace.Begin(tracer, trace.ScopeDriver, "flow "+cmd.Name(), 0)

	ctx := trace.WithTracer(cmd.Context(), tracer)
	ctx = trace.WithParent(ctx, a.root)
	cmd.SetContext(ctx)
	return nil
}

// setupProfiling starts the profilers requested by --cpu-profile, --mem-profile and --runtime-trace.
func (a *app) setupProfiling(cmd *cobra.Command) error {
	var cfg prof.Config
	cfg.CPUProfile, _ = cmd.Flags().GetString("cpu-profile")
	cfg.MemProfile, _ = cmd.Flags().GetString("mem-profile")
	cfg.RuntimeTrace, _ = cmd.Flags().GetString("runtime-trace")
	if !cfg.Enabled() {
		return nil
	}
	session, err := prof.Start(cfg)
	if err != nil {
		return err
	}
	a.prof = session
	return nil
}

// close stops the profilers, ends the root span and releases the trace output.
func (a *app) close() {
	if err := a.prof.Stop(); err != nil {
		a.log.Warn().Err(err).Msg("profiling")
	}
	if a.tracer == nil {
		return
	}
	a.root.End("")
	if err := a.tracer.Flush(); err != nil {
		a.log.Warn().Err(err).Msg("trace flush")
	}
	if err := a.tracer.Close(); err != nil {
		a.log.Warn().Err(err).Msg("trace close")
	}
}

// driverOptions maps CLI settings to driver options.
func (a *app) driverOptions(cmd *cobra.Command) driver.Options {
	ctx := cmd.Context()
	return driver.Options{
		MaxDiagnostics: a.cfg.Diagnostics.Max,
		EnableTimings:  a.timings,
		Tracer:         trace.FromContext(ctx),
		TraceParent:    trace.ParentFrom(ctx),
		RunID:          a.runID,
	}
}

func useColor(mode string, out io.Writer) bool {
	switch mode {
	case "on":
		return true
	case "off":
		return false
	}
	f, ok := out.(*os.File)
	return ok && isTerminal(f)
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
