// Package commands implements the prerender CLI subcommands.
package commands

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/resumeanalyzerai/prerender/internal/config"
	"github.com/resumeanalyzerai/prerender/internal/logfields"
	"github.com/resumeanalyzerai/prerender/internal/metrics"
	"github.com/resumeanalyzerai/prerender/internal/notify"
	"github.com/resumeanalyzerai/prerender/internal/pipeline"
	"github.com/resumeanalyzerai/prerender/internal/state"
)

// LogLevelEnv overrides the log level when -v is not given.
const LogLevelEnv = "PRERENDER_LOG_LEVEL"

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"prerender.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" default:"1" help:"Generate pages, sitemap and manifest"`
	Init    InitCmd    `cmd:"" help:"Write an example configuration and sample content"`
	Verify  VerifyCmd  `cmd:"" help:"Check an existing output tree"`
	Preview PreviewCmd `cmd:"" help:"Serve the output tree and rebuild on content changes"`
	Daemon  DaemonCmd  `cmd:"" help:"Rebuild periodically"`
	History HistoryCmd `cmd:"" help:"List recorded builds"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(c.Verbose)}))
	slog.SetDefault(logger)
	if g != nil {
		g.Logger = logger
	}
	return nil
}

// parseLogLevel maps -v and PRERENDER_LOG_LEVEL to a slog level. -v wins.
func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv(LogLevelEnv))) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// runtimeDeps are the optional collaborators a builder is wired with.
type runtimeDeps struct {
	recorder  *metrics.PrometheusRecorder
	history   state.Store
	publisher *notify.Publisher
}

func (d *runtimeDeps) close() {
	if d.history != nil {
		if err := d.history.Close(); err != nil {
			slog.Warn("Failed to close build history", logfields.Error(err))
		}
	}
	if d.publisher != nil {
		d.publisher.Close()
	}
}

// newBuilder wires metrics, history and events from cfg into a builder. The
// history store and event connection are optional; failing to open either is
// logged and the build proceeds without it.
func newBuilder(cfg *config.Config) (*pipeline.Builder, *runtimeDeps) {
	deps := &runtimeDeps{recorder: metrics.NewPrometheusRecorder(nil)}
	b := pipeline.NewBuilder(cfg).WithRecorder(deps.recorder)

	if cfg.State.Path != "" {
		store, err := state.NewSQLiteStore(cfg.ResolvePath(cfg.State.Path))
		if err != nil {
			slog.Warn("Build history disabled", logfields.Error(err))
		} else {
			deps.history = store
			b.WithHistory(store)
		}
	}
	if cfg.Notify.NATSURL != "" {
		pub, err := notify.Connect(cfg.Notify.NATSURL, cfg.Notify.Subject, cfg.NotifyTimeout())
		if err != nil {
			slog.Warn("Build events disabled", logfields.Error(err))
		} else {
			deps.publisher = pub
			b.WithPublisher(pub)
		}
	}
	return b, deps
}

// writeTextfile exports metrics for a node-exporter textfile collector.
func writeTextfile(cfg *config.Config, deps *runtimeDeps) {
	if cfg.Metrics.Textfile == "" {
		return
	}
	path := cfg.ResolvePath(cfg.Metrics.Textfile)
	if err := deps.recorder.WriteTextfile(path); err != nil {
		slog.Warn("Failed to write metrics textfile", logfields.Path(path), logfields.Error(err))
	}
}

// runBuild runs one build with the wired collaborators.
func runBuild(ctx context.Context, cfg *config.Config, workers int) (*pipeline.BuildReport, error) {
	b, deps := newBuilder(cfg)
	defer deps.close()
	if workers > 0 {
		b.WithWorkers(workers)
	}
	report, err := b.Build(ctx)
	writeTextfile(cfg, deps)
	return report, err
}
