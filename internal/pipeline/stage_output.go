package pipeline

import (
	"context"
	"log/slog"

	"github.com/resumeanalyzerai/prerender/internal/logfields"
	"github.com/resumeanalyzerai/prerender/internal/output"
	"github.com/resumeanalyzerai/prerender/internal/sitemap"
	"github.com/resumeanalyzerai/prerender/internal/verify"
)

func stageWritePages(ctx context.Context, bs *BuildState) error {
	dir := bs.Config.OutputDir()
	w, err := output.Open(dir)
	if err != nil {
		return NewFatalStageError(StageWritePages, err)
	}
	bs.writer = w

	prev, err := output.ReadManifest(dir)
	if err != nil {
		bs.Report.AddIssue(StageWritePages, SeverityWarning, "ignoring previous manifest: "+err.Error())
		prev = nil
	}
	bs.previous = prev

	if bs.Config.Output.Clean {
		n, err := w.Clean(prev)
		if err != nil {
			return NewFatalStageError(StageWritePages, err)
		}
		slog.Info("Cleaned previous pages", logfields.Count(n))
	}

	written := make(map[string]int)
	skipped := make(map[string]int)
	current := make(map[string]bool, len(bs.Pages))
	for _, p := range bs.Pages {
		if err := ctx.Err(); err != nil {
			return NewCanceledStageError(StageWritePages, err)
		}
		res, err := w.Write(p.Route, p.HTML)
		if err != nil {
			// Pages written so far stay on disk.
			return NewFatalStageError(StageWritePages, err)
		}
		entry := output.NewEntry(p.Route, string(p.Kind), res.File, p.HTML)
		bs.entries = append(bs.entries, entry)
		current[p.Route] = true

		if res.Skipped {
			skipped[string(p.Kind)]++
			bs.Report.Skipped++
			continue
		}
		written[string(p.Kind)]++
		bs.Report.Written++
		if prevEntry, ok := lookup(prev, p.Route); !ok || prevEntry.Fingerprint != entry.Fingerprint {
			bs.Report.Changed = append(bs.Report.Changed, p.Route)
		}
		slog.Debug("Wrote page", logfields.Route(p.Route), logfields.Kind(string(p.Kind)), logfields.File(res.File))
	}
	if prev != nil {
		for _, r := range prev.Routes() {
			if !current[r] {
				bs.Report.Removed = append(bs.Report.Removed, r)
			}
		}
	}
	for kind := range bs.Report.Pages {
		bs.recorder.AddPages(kind, written[kind], skipped[kind])
	}
	return nil
}

func lookup(m *output.Manifest, route string) (output.ManifestEntry, bool) {
	if m == nil {
		return output.ManifestEntry{}, false
	}
	return m.Lookup(route)
}

func stageWriteSitemap(_ context.Context, bs *BuildState) error {
	entries := make([]sitemap.Entry, 0, len(bs.Targets))
	for _, t := range bs.Targets {
		e := sitemap.Entry{Route: t.Route}
		if d := bs.Dates[t.Source]; len(d) >= 10 {
			e.LastMod = d[:10]
		}
		entries = append(entries, e)
	}
	if err := sitemap.Write(bs.writer.Dir(), bs.Config.Site.BaseURL, entries, false); err != nil {
		return NewFatalStageError(StageWriteSitemap, err)
	}
	return nil
}

func stageVerifyOutput(ctx context.Context, bs *BuildState) error {
	routes := make([]string, 0, len(bs.entries))
	for _, e := range bs.entries {
		if !e.Skipped {
			routes = append(routes, e.Route)
		}
	}
	v, err := verify.New(bs.writer.Dir(), routes, verify.Options{
		BaseURL:   bs.Config.Site.BaseURL,
		SPARoutes: bs.Config.Verify.SPARoutes,
	})
	if err != nil {
		return NewFatalStageError(StageVerifyOutput, err)
	}
	report, err := v.Run(ctx, routes)
	if err != nil {
		return NewCanceledStageError(StageVerifyOutput, err)
	}
	bs.Report.VerifyErrors = report.Errors()
	bs.Report.VerifyWarnings = report.Warnings()
	for _, i := range report.Issues {
		if i.Severity == verify.SeverityWarning {
			bs.Report.AddIssue(StageVerifyOutput, SeverityWarning, i.String())
		}
	}
	if err := report.Err(); err != nil {
		for _, i := range report.Issues {
			if i.Severity == verify.SeverityError {
				slog.Error("Verification failed", logfields.Route(i.Route), slog.String("issue", i.Message))
			}
		}
		return NewFatalStageError(StageVerifyOutput, err)
	}
	return nil
}

func stageWriteManifest(_ context.Context, bs *BuildState) error {
	if _, err := output.WriteManifest(bs.writer.Dir(), bs.entries); err != nil {
		return NewFatalStageError(StageWriteManifest, err)
	}
	return nil
}
