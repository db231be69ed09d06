package pipeline

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/resumeanalyzerai/prerender/internal/config"
	"github.com/resumeanalyzerai/prerender/internal/content"
	"github.com/resumeanalyzerai/prerender/internal/logfields"
	"github.com/resumeanalyzerai/prerender/internal/metrics"
	"github.com/resumeanalyzerai/prerender/internal/notify"
	"github.com/resumeanalyzerai/prerender/internal/output"
	"github.com/resumeanalyzerai/prerender/internal/render"
	"github.com/resumeanalyzerai/prerender/internal/state"
)

// EventPublisher receives a build-completed event after every build.
type EventPublisher interface {
	PublishBuild(ctx context.Context, ev notify.BuildCompletedEvent) error
}

// BuildState is the mutable state threaded through the stages of one build.
type BuildState struct {
	Config *config.Config
	Report *BuildReport

	Content *content.Content
	Dates   render.Dates
	Targets []render.Target
	Pages   []render.Page

	writer   *output.Writer
	previous *output.Manifest
	entries  []output.ManifestEntry
	recorder metrics.Recorder
}

// Builder runs builds for one configuration.
type Builder struct {
	cfg       *config.Config
	recorder  metrics.Recorder
	history   state.Store
	publisher EventPublisher
	workers   int
	now       func() time.Time
}

// NewBuilder returns a builder with no metrics, history or events.
func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{
		cfg:      cfg,
		recorder: metrics.NoopRecorder{},
		workers:  runtime.GOMAXPROCS(0),
		now:      time.Now,
	}
}

// WithRecorder sets the metrics recorder.
func (b *Builder) WithRecorder(r metrics.Recorder) *Builder {
	if r != nil {
		b.recorder = r
	}
	return b
}

// WithHistory records every finished build in s.
func (b *Builder) WithHistory(s state.Store) *Builder {
	b.history = s
	return b
}

// WithPublisher publishes a build-completed event through p.
func (b *Builder) WithPublisher(p EventPublisher) *Builder {
	b.publisher = p
	return b
}

// WithWorkers bounds render concurrency. Values below 1 mean one worker.
func (b *Builder) WithWorkers(n int) *Builder {
	if n < 1 {
		n = 1
	}
	b.workers = n
	return b
}

// Stages returns the stage list for the builder's configuration.
func (b *Builder) Stages() []StageDef {
	return NewStages().
		Add(StageLoadContent, stageLoadContent).
		Add(StagePlanRoutes, stagePlanRoutes).
		Add(StageRenderPages, b.stageRenderPages).
		Add(StageWritePages, stageWritePages).
		Add(StageWriteSitemap, stageWriteSitemap).
		AddIf(b.cfg.Build.Verify, StageVerifyOutput, stageVerifyOutput).
		Add(StageWriteManifest, stageWriteManifest).
		Build()
}

// Build runs every stage and returns the report. The report is returned even
// when the build fails; err is the first fatal or canceled StageError.
func (b *Builder) Build(ctx context.Context) (*BuildReport, error) {
	bs := &BuildState{
		Config:   b.cfg,
		Report:   newBuildReport(uuid.NewString(), b.now()),
		recorder: b.recorder,
	}
	slog.Info("Build started", logfields.BuildID(bs.Report.BuildID), logfields.Path(b.cfg.OutputDir()))

	err := RunStages(ctx, bs, b.Stages())
	if bs.writer != nil {
		if cerr := bs.writer.Close(); cerr != nil {
			slog.Warn("Failed to release output lock", logfields.Error(cerr))
		}
	}

	report := bs.Report
	report.finish(b.now())
	b.afterBuild(ctx, report)
	return report, err
}

// afterBuild records metrics, history and events. Failures here are logged and
// never change the build outcome.
func (b *Builder) afterBuild(ctx context.Context, r *BuildReport) {
	b.recorder.ObserveBuildDuration(r.Duration())
	b.recorder.IncBuildOutcome(string(r.Outcome))
	b.recorder.SetLastBuild(r.End)
	b.recorder.SetVerifyIssues(r.VerifyErrors, r.VerifyWarnings)

	attrs := []any{
		logfields.BuildID(r.BuildID),
		logfields.Outcome(string(r.Outcome)),
		logfields.Count(r.TotalPages()),
		slog.Int("written", r.Written),
		slog.Int("skipped", r.Skipped),
		slog.Int("issues", len(r.Issues)),
		logfields.DurationMS(float64(r.Duration().Microseconds()) / 1000),
	}
	for _, k := range render.Kinds {
		attrs = append(attrs, slog.Int(string(k), r.Pages[string(k)]))
	}
	slog.Info("Build finished", attrs...)

	// Post-build bookkeeping runs even when the build itself was canceled.
	bg := context.WithoutCancel(ctx)

	if b.history != nil {
		rec := state.Build{
			ID:         r.BuildID,
			StartedAt:  r.Start,
			FinishedAt: r.End,
			Outcome:    string(r.Outcome),
			Written:    r.Written,
			Skipped:    r.Skipped,
			Issues:     len(r.Issues),
			Pages:      r.Pages,
		}
		if len(r.Errors) > 0 {
			rec.Error = r.Errors[0].Error()
		}
		if err := b.history.Append(bg, rec); err != nil {
			slog.Warn("Failed to record build history", logfields.Error(err))
		}
	}

	if b.publisher != nil {
		ev := notify.BuildCompletedEvent{
			BuildID:    r.BuildID,
			Outcome:    string(r.Outcome),
			BaseURL:    b.cfg.Site.BaseURL,
			OutputDir:  b.cfg.OutputDir(),
			Written:    r.Written,
			Skipped:    r.Skipped,
			Pages:      r.Pages,
			Changed:    r.Changed,
			Removed:    r.Removed,
			FinishedAt: r.End,
			DurationMS: r.Duration().Milliseconds(),
		}
		if len(r.Errors) > 0 {
			ev.Error = r.Errors[0].Error()
		}
		if err := b.publisher.PublishBuild(bg, ev); err != nil {
			slog.Warn("Failed to publish build event", logfields.Error(err))
		}
	}
}
