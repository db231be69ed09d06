package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/resumeanalyzerai/prerender/internal/render"
)

// stageRenderPages renders every target. Pages land at their target's index so
// the result order never depends on scheduling.
func (b *Builder) stageRenderPages(ctx context.Context, bs *BuildState) error {
	cfg := bs.Config
	r, err := render.New(render.Options{
		Site:         cfg.Site,
		MetaOnly:     cfg.Build.MetaOnly,
		RelatedPosts: cfg.Build.RelatedPosts,
		RelatedRoles: cfg.Build.RelatedRoles,
	})
	if err != nil {
		return NewFatalStageError(StageRenderPages, err)
	}

	pages := make([]render.Page, len(bs.Targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i := range bs.Targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := r.Render(bs.Targets[i], bs.Content, bs.Dates)
			if err != nil {
				return err
			}
			pages[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return NewCanceledStageError(StageRenderPages, ctx.Err())
		}
		return NewFatalStageError(StageRenderPages, err)
	}

	bs.Pages = pages
	for _, p := range pages {
		bs.Report.Pages[string(p.Kind)]++
	}
	return nil
}
