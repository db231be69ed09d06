package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyRoute      = "route"
	KeyKind       = "kind"
	KeySlug       = "slug"
	KeyFile       = "file"
	KeyPath       = "path"
	KeyCount      = "count"
	KeyOutcome    = "outcome"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr       { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr       { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr   { return slog.Float64(KeyDurationMS, ms) }
func Route(r string) slog.Attr          { return slog.String(KeyRoute, r) }
func Kind(k string) slog.Attr           { return slog.String(KeyKind, k) }
func Slug(s string) slog.Attr           { return slog.String(KeySlug, s) }
func File(f string) slog.Attr           { return slog.String(KeyFile, f) }
func Path(p string) slog.Attr           { return slog.String(KeyPath, p) }
func Count(n int) slog.Attr             { return slog.Int(KeyCount, n) }
func Outcome(o string) slog.Attr        { return slog.String(KeyOutcome, o) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
