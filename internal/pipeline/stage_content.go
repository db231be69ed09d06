package pipeline

import (
	"context"
	"log/slog"

	"github.com/resumeanalyzerai/prerender/internal/content"
	"github.com/resumeanalyzerai/prerender/internal/gitinfo"
	"github.com/resumeanalyzerai/prerender/internal/logfields"
	"github.com/resumeanalyzerai/prerender/internal/render"
)

func stageLoadContent(_ context.Context, bs *BuildState) error {
	cfg := bs.Config
	src := content.Sources{
		Roles:    cfg.ResolvePath(cfg.Content.Roles),
		Posts:    cfg.ResolvePath(cfg.Content.Posts),
		Pages:    cfg.ResolvePath(cfg.Content.Pages),
		PostsDir: cfg.ResolvePath(cfg.Content.PostsDir),
	}
	c, issues, err := content.Load(src)
	if err != nil {
		return NewFatalStageError(StageLoadContent, err)
	}
	for _, i := range issues {
		bs.Report.AddIssue(StageLoadContent, SeverityWarning, i.String())
	}
	bs.Content = c
	return nil
}

func stagePlanRoutes(_ context.Context, bs *BuildState) error {
	targets, issues := render.Plan(bs.Content)
	for _, i := range issues {
		bs.Report.AddIssue(StagePlanRoutes, SeverityWarning, i.String())
	}
	bs.Targets = targets
	bs.Dates = render.Dates{}

	if !bs.Config.Build.GitLastmod {
		return nil
	}
	anchor := bs.Config.BaseDir()
	if anchor == "" {
		anchor = "."
	}
	history, err := gitinfo.Open(anchor)
	if err != nil {
		// Dates are optional; a broken repository should not fail the build.
		bs.Report.AddIssue(StagePlanRoutes, SeverityWarning, "git lastmod unavailable: "+err.Error())
		return nil
	}
	if history == nil {
		slog.Debug("Content is not in a git repository; lastmod disabled", logfields.Path(anchor))
		return nil
	}
	seen := map[string]bool{}
	var paths []string
	for _, p := range append(bs.Content.Sources.Files(), sources(targets)...) {
		if p != "" && !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	for k, v := range history.Dates(paths) {
		bs.Dates[k] = v
	}
	slog.Debug("Resolved git lastmod dates", logfields.Count(len(bs.Dates)))
	return nil
}

func sources(targets []render.Target) []string {
	out := make([]string, 0, len(targets))
	for _, t := range targets {
		out = append(out, t.Source)
	}
	return out
}
