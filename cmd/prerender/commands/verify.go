package commands

import (
	"context"
	"fmt"

	"github.com/resumeanalyzerai/prerender/internal/config"
	"github.com/resumeanalyzerai/prerender/internal/foundation/errors"
	"github.com/resumeanalyzerai/prerender/internal/output"
	"github.com/resumeanalyzerai/prerender/internal/verify"
)

// VerifyCmd implements the 'verify' command. It checks the pages listed in
// the manifest of a previous build.
type VerifyCmd struct {
	Output string `short:"o" type:"path" help:"Override output.directory (relative to the working directory)"`
}

func (v *VerifyCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if v.Output != "" {
		cfg.Output.Directory = v.Output
	}
	report, err := RunVerify(context.Background(), cfg)
	if report != nil {
		for _, i := range report.Issues {
			fmt.Println(i.String())
		}
		fmt.Printf("pages=%d links=%d errors=%d warnings=%d\n", report.Pages, report.Links, report.Errors(), report.Warnings())
	}
	return err
}

// RunVerify verifies the output tree of cfg against its manifest.
func RunVerify(ctx context.Context, cfg *config.Config) (*verify.Report, error) {
	dir := cfg.OutputDir()
	m, err := output.ReadManifest(dir)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.NewError(errors.CategoryNotFound, "no manifest found; run build first").
			WithContext("dir", dir).Build()
	}
	var routes []string
	for _, e := range m.Pages {
		if !e.Skipped {
			routes = append(routes, e.Route)
		}
	}
	v, err := verify.New(dir, routes, verify.Options{BaseURL: cfg.Site.BaseURL, SPARoutes: cfg.Verify.SPARoutes})
	if err != nil {
		return nil, err
	}
	report, err := v.Run(ctx, routes)
	if err != nil {
		return report, err
	}
	return report, report.Err()
}
