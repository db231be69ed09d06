package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/resumeanalyzerai/prerender/internal/config"
	"github.com/resumeanalyzerai/prerender/internal/foundation/errors"
	"github.com/resumeanalyzerai/prerender/internal/state"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int `short:"n" help:"Number of builds to show (0 for all)" default:"10"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if cfg.State.Path == "" {
		return errors.ConfigError("build history is disabled; set state.path").Build()
	}
	store, err := state.NewSQLiteStore(cfg.ResolvePath(cfg.State.Path))
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	builds, err := store.List(context.Background(), h.Limit)
	if err != nil {
		return err
	}
	return printHistory(os.Stdout, builds)
}

func printHistory(out io.Writer, builds []state.Build) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tSTARTED\tOUTCOME\tWRITTEN\tSKIPPED\tISSUES\tDURATION")
	for _, b := range builds {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			b.ID, b.StartedAt.UTC().Format(time.RFC3339), b.Outcome,
			b.Written, b.Skipped, b.Issues, b.Duration().Round(time.Millisecond))
	}
	return tw.Flush()
}
