package state

import (
	"context"
	"time"
)

// Build is one recorded pipeline run.
type Build struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Outcome    string
	Written    int
	Skipped    int
	Issues     int
	Error      string
	// Pages counts rendered pages per kind.
	Pages map[string]int
}

// Duration returns how long the build ran.
func (b Build) Duration() time.Duration { return b.FinishedAt.Sub(b.StartedAt) }

// Store persists builds.
type Store interface {
	Append(ctx context.Context, b Build) error
	List(ctx context.Context, limit int) ([]Build, error)
	Last(ctx context.Context) (*Build, error)
	Close() error
}
