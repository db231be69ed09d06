package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/resumeanalyzerai/prerender/internal/config"
	"github.com/resumeanalyzerai/prerender/internal/preview"
)

// PreviewCmd implements the 'preview' command.
type PreviewCmd struct {
	Port   int    `short:"p" help:"Port to listen on (overrides preview.port)"`
	Output string `short:"o" type:"path" help:"Override output.directory (relative to the working directory)"`
}

func (p *PreviewCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if p.Output != "" {
		cfg.Output.Directory = p.Output
	}
	port := cfg.Preview.Port
	if p.Port > 0 {
		port = p.Port
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	b, deps := newBuilder(cfg)
	defer deps.close()
	return preview.New(cfg, b, deps.recorder.HTTPHandler()).Run(ctx, port)
}
