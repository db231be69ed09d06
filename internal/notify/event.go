// Package notify publishes build-completed events so that downstream systems
// (CDN purges, search-console pings) can react to new pages.
package notify

import "time"

// BuildCompletedEvent is published after every build, successful or not.
type BuildCompletedEvent struct {
	BuildID    string         `json:"build_id"`
	Outcome    string         `json:"outcome"`
	BaseURL    string         `json:"base_url"`
	OutputDir  string         `json:"output_dir"`
	Written    int            `json:"written"`
	Skipped    int            `json:"skipped"`
	Pages      map[string]int `json:"pages"`
	Changed    []string       `json:"changed_routes"`
	Removed    []string       `json:"removed_routes,omitempty"`
	Error      string         `json:"error,omitempty"`
	FinishedAt time.Time      `json:"finished_at"`
	DurationMS int64          `json:"duration_ms"`
}
