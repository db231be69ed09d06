package errors

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation", err: ValidationError("bad flag").Build(), expected: 2},
		{name: "config", err: ConfigError("bad config").Build(), expected: 7},
		{name: "notify", err: NotifyError("nats down").Build(), expected: 8},
		{name: "filesystem", err: FileSystemError("disk full").Build(), expected: 11},
		{name: "render", err: RenderError("template").Build(), expected: 11},
		{name: "state", err: StateError("sqlite").Build(), expected: 12},
		{name: "internal", err: InternalError("bug").Build(), expected: 10},
		{name: "wrapped classified", err: fmt.Errorf("outer: %w", ConfigError("x").Build()), expected: 7},
		{name: "unclassified error", err: errors.New("unknown error"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, slog.Default())
	verbose := NewCLIErrorAdapter(true, slog.Default())

	internal := InternalError("nil renderer").Build()
	if got := quiet.FormatError(internal); !strings.Contains(got, "use -v") {
		t.Errorf("expected masked internal error, got %q", got)
	}
	if got := verbose.FormatError(internal); !strings.Contains(got, "nil renderer") {
		t.Errorf("expected verbose internal error, got %q", got)
	}

	cfg := ConfigError("site.base_url is required").Build()
	if got := quiet.FormatError(cfg); !strings.Contains(got, "site.base_url is required") {
		t.Errorf("expected config message to be shown, got %q", got)
	}
	if got := quiet.FormatError(nil); got != "" {
		t.Errorf("expected empty string for nil, got %q", got)
	}
}

func TestCLIErrorAdapter_LogsCategory(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	adapter := NewCLIErrorAdapter(true, logger)

	adapter.logError(FileSystemError("write page").WithContext("route", "/blog").Build())

	out := buf.String()
	if !strings.Contains(out, "category=filesystem") {
		t.Errorf("expected category attribute, got %q", out)
	}
	if !strings.Contains(out, "route=/blog") {
		t.Errorf("expected context attribute in verbose mode, got %q", out)
	}
}
