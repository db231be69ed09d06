package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/resumeanalyzerai/prerender/internal/metrics"
)

// BuildOutcome is the typed enumeration of final build result states.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeWarning  BuildOutcome = "warning"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// IssueSeverity represents normalized severity levels.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// ReportIssue is one problem recorded during a build.
type ReportIssue struct {
	Stage    StageName     `json:"stage"`
	Severity IssueSeverity `json:"severity"`
	Message  string        `json:"message"`
}

// BuildReport captures what one build did.
type BuildReport struct {
	BuildID string
	Start   time.Time
	End     time.Time
	Outcome BuildOutcome

	StageDurations map[StageName]time.Duration
	StageResults   map[StageName]StageResult
	Issues         []ReportIssue
	Errors         []error // fatal errors causing build abortion (at most one)

	// Pages counts rendered pages per kind.
	Pages   map[string]int
	Written int
	Skipped int
	// Changed lists written routes whose fingerprint differs from the previous build.
	Changed []string
	// Removed lists routes present in the previous build but not in this one.
	Removed []string

	VerifyErrors   int
	VerifyWarnings int
}

func newBuildReport(id string, start time.Time) *BuildReport {
	return &BuildReport{
		BuildID:        id,
		Start:          start,
		StageDurations: make(map[StageName]time.Duration),
		StageResults:   make(map[StageName]StageResult),
		Pages:          make(map[string]int),
	}
}

// AddIssue appends a structured issue.
func (r *BuildReport) AddIssue(stage StageName, severity IssueSeverity, msg string) {
	r.Issues = append(r.Issues, ReportIssue{Stage: stage, Severity: severity, Message: msg})
}

func (r *BuildReport) recordStage(name StageName, d time.Duration, se *StageError, rec metrics.Recorder) {
	result := resultOf(se)
	r.StageDurations[name] = d
	r.StageResults[name] = result
	if se != nil {
		sev := SeverityError
		if se.Kind == StageErrorWarning {
			sev = SeverityWarning
		} else {
			r.Errors = append(r.Errors, se)
		}
		r.AddIssue(name, sev, se.Err.Error())
	}
	rec.ObserveStageDuration(string(name), d)
	rec.IncStageResult(string(name), metricLabel(result))
}

// TotalPages returns the number of rendered pages.
func (r *BuildReport) TotalPages() int {
	n := 0
	for _, c := range r.Pages {
		n += c
	}
	return n
}

// Warnings counts warning-severity issues.
func (r *BuildReport) Warnings() int {
	n := 0
	for _, i := range r.Issues {
		if i.Severity == SeverityWarning {
			n++
		}
	}
	return n
}

// Duration returns the wall time of the build.
func (r *BuildReport) Duration() time.Duration { return r.End.Sub(r.Start) }

func (r *BuildReport) finish(end time.Time) {
	r.End = end
	r.Outcome = r.deriveOutcome()
}

func (r *BuildReport) deriveOutcome() BuildOutcome {
	for _, res := range r.StageResults {
		if res == StageResultCanceled {
			return OutcomeCanceled
		}
	}
	if len(r.Errors) > 0 {
		return OutcomeFailed
	}
	if r.Warnings() > 0 {
		return OutcomeWarning
	}
	return OutcomeSuccess
}

// Summary renders a one-line human summary, kinds in sorted order.
func (r *BuildReport) Summary() string {
	kinds := make([]string, 0, len(r.Pages))
	for k := range r.Pages {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%s=%d", k, r.Pages[k]))
	}
	return fmt.Sprintf("outcome=%s pages=%d [%s] written=%d skipped=%d changed=%d removed=%d issues=%d duration=%s",
		r.Outcome, r.TotalPages(), strings.Join(parts, " "), r.Written, r.Skipped,
		len(r.Changed), len(r.Removed), len(r.Issues), r.Duration().Round(time.Millisecond))
}
