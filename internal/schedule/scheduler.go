// Package schedule runs builds periodically.
package schedule

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/resumeanalyzerai/prerender/internal/foundation/errors"
	"github.com/resumeanalyzerai/prerender/internal/logfields"
	"github.com/resumeanalyzerai/prerender/internal/pipeline"
)

// Builder runs one build.
type Builder interface {
	Build(ctx context.Context) (*pipeline.BuildReport, error)
}

// Scheduler wraps a gocron scheduler with a single rebuild job.
type Scheduler struct {
	scheduler gocron.Scheduler
	builder   Builder
	jobID     string
}

// New creates a scheduler that runs b.
func New(b Builder) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "failed to create scheduler").Build()
	}
	return &Scheduler{scheduler: s, builder: b}, nil
}

// Every schedules a rebuild at interval. Runs never overlap; a tick that
// arrives while a build is running is dropped.
func (s *Scheduler) Every(ctx context.Context, interval time.Duration, immediately bool) error {
	if interval <= 0 {
		return errors.ValidationError("interval must be > 0").WithContext("interval", interval.String()).Build()
	}
	opts := []gocron.JobOption{
		gocron.WithName("prerender-build"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithContext(ctx),
	}
	if immediately {
		opts = append(opts, gocron.WithStartAt(gocron.WithStartImmediately()))
	}
	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.run),
		opts...,
	)
	if err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "failed to create periodic build job").Build()
	}
	s.jobID = job.ID().String()
	return nil
}

// JobID returns the id of the scheduled job, empty before Every.
func (s *Scheduler) JobID() string { return s.jobID }

// Start begins running jobs.
func (s *Scheduler) Start() {
	slog.Info("Starting scheduler")
	s.scheduler.Start()
}

// Stop waits for a running build and shuts the scheduler down.
func (s *Scheduler) Stop() error {
	slog.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}

// run is invoked by gocron. The job context is injected as the first argument.
func (s *Scheduler) run(ctx context.Context) {
	slog.Info("Executing scheduled build")
	report, err := s.builder.Build(ctx)
	if err != nil {
		slog.Error("Scheduled build failed", logfields.Error(err))
		return
	}
	slog.Info("Scheduled build complete",
		logfields.BuildID(report.BuildID),
		logfields.Outcome(string(report.Outcome)))
}
