package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/resumeanalyzerai/prerender/internal/logfields"
	"github.com/resumeanalyzerai/prerender/internal/metrics"
)

// RunStages executes stages in order, recording timing and stopping on the
// first fatal or canceled stage.
func RunStages(ctx context.Context, bs *BuildState, stages []StageDef) error {
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			se := NewCanceledStageError(st.Name, err)
			bs.Report.recordStage(st.Name, 0, se, bs.recorder)
			return se
		}

		t0 := time.Now()
		err := st.Fn(ctx, bs)
		dur := time.Since(t0)

		se := classify(ctx, st.Name, err)
		bs.Report.recordStage(st.Name, dur, se, bs.recorder)

		slog.Debug("Stage complete",
			logfields.BuildID(bs.Report.BuildID),
			logfields.Stage(string(st.Name)),
			logfields.DurationMS(float64(dur.Microseconds())/1000),
			logfields.Outcome(string(resultOf(se))))

		if se != nil && se.Kind != StageErrorWarning {
			return se
		}
	}
	return nil
}

// classify normalizes a stage's return value. Plain errors are fatal unless the
// context was canceled underneath the stage.
func classify(ctx context.Context, stage StageName, err error) *StageError {
	if err == nil {
		return nil
	}
	var se *StageError
	if errors.As(err, &se) {
		return se
	}
	if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return NewCanceledStageError(stage, err)
	}
	return NewFatalStageError(stage, err)
}

func resultOf(se *StageError) StageResult {
	if se == nil {
		return StageResultSuccess
	}
	switch se.Kind {
	case StageErrorWarning:
		return StageResultWarning
	case StageErrorCanceled:
		return StageResultCanceled
	default:
		return StageResultFatal
	}
}

func metricLabel(r StageResult) metrics.ResultLabel {
	switch r {
	case StageResultWarning:
		return metrics.ResultWarning
	case StageResultCanceled:
		return metrics.ResultCanceled
	case StageResultFatal:
		return metrics.ResultFatal
	default:
		return metrics.ResultSuccess
	}
}
