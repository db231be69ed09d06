package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/resumeanalyzerai/prerender/internal/config"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output   string `short:"o" type:"path" help:"Override output.directory (relative to the working directory)"`
	Verify   *bool  `help:"Verify the output tree after writing (overrides build.verify)" negatable:""`
	Clean    bool   `help:"Remove pages from the previous build before writing"`
	MetaOnly bool   `name:"meta-only" help:"Write head metadata with an empty mount point only"`
	Workers  int    `short:"w" help:"Render concurrency (default: GOMAXPROCS)"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	b.apply(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	report, err := runBuild(ctx, cfg, b.Workers)
	if report != nil {
		fmt.Println(report.Summary())
	}
	return err
}

// apply layers command-line overrides over the loaded configuration.
func (b *BuildCmd) apply(cfg *config.Config) {
	if b.Output != "" {
		cfg.Output.Directory = b.Output
	}
	if b.Verify != nil {
		cfg.Build.Verify = *b.Verify
	}
	if b.Clean {
		cfg.Output.Clean = true
	}
	if b.MetaOnly {
		cfg.Build.MetaOnly = true
	}
}
