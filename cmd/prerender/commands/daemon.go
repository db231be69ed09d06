package commands

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/resumeanalyzerai/prerender/internal/config"
	"github.com/resumeanalyzerai/prerender/internal/logfields"
	"github.com/resumeanalyzerai/prerender/internal/pipeline"
	"github.com/resumeanalyzerai/prerender/internal/schedule"
)

// DaemonCmd implements the 'daemon' command: rebuild on an interval until
// interrupted.
type DaemonCmd struct {
	Interval    time.Duration `short:"i" help:"Time between builds" default:"1h"`
	MetricsAddr string        `name:"metrics-addr" help:"Serve Prometheus metrics on this address (e.g. :9102)"`
}

func (d *DaemonCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	b, deps := newBuilder(cfg)
	defer deps.close()

	s, err := schedule.New(textfileBuilder{b: b, cfg: cfg, deps: deps})
	if err != nil {
		return err
	}
	if err := s.Every(ctx, d.Interval, true); err != nil {
		return err
	}

	var srv *http.Server
	if d.MetricsAddr != "" {
		srv = &http.Server{Addr: d.MetricsAddr, Handler: deps.recorder.HTTPHandler(), ReadHeaderTimeout: 10 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
				slog.Error("Metrics server stopped", logfields.Error(err))
			}
		}()
	}

	s.Start()
	slog.Info("Daemon started", slog.Duration("interval", d.Interval))
	<-ctx.Done()
	slog.Info("Shutdown signal received, stopping daemon")

	if srv != nil {
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		_ = srv.Shutdown(shutdownCtx)
	}
	return s.Stop()
}

// textfileBuilder refreshes the metrics textfile after every scheduled build.
type textfileBuilder struct {
	b    *pipeline.Builder
	cfg  *config.Config
	deps *runtimeDeps
}

func (t textfileBuilder) Build(ctx context.Context) (*pipeline.BuildReport, error) {
	report, err := t.b.Build(ctx)
	writeTextfile(t.cfg, t.deps)
	return report, err
}
