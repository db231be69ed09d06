package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"BuildID", KeyBuildID, "b1", BuildID("b1")},
		{"Stage", KeyStage, "render_pages", Stage("render_pages")},
		{"Route", KeyRoute, "/blog", Route("/blog")},
		{"Kind", KeyKind, "hub", Kind("hub")},
		{"Slug", KeySlug, "chef", Slug("chef")},
		{"File", KeyFile, "roles.yaml", File("roles.yaml")},
		{"Path", KeyPath, "/tmp/build", Path("/tmp/build")},
		{"Outcome", KeyOutcome, "success", Outcome("success")},
	}
	for _, c := range cases {
		if c.attr.Key != c.attrKey {
			t.Errorf("%s: key=%s want %s", c.name, c.attr.Key, c.attrKey)
		}
		if c.attr.Value.String() != c.attrVal {
			t.Errorf("%s: value=%s want %s", c.name, c.attr.Value.String(), c.attrVal)
		}
	}
}

func TestNumericAndErrorHelpers(t *testing.T) {
	if a := Count(12); a.Key != KeyCount || a.Value.Int64() != 12 {
		t.Errorf("Count attr = %v", a)
	}
	if a := DurationMS(1.5); a.Key != KeyDurationMS || a.Value.Float64() != 1.5 {
		t.Errorf("DurationMS attr = %v", a)
	}
	if a := Error(nil); a.Value.String() != "" {
		t.Errorf("nil error should produce empty value, got %q", a.Value.String())
	}
	if a := Error(errors.New("boom")); a.Value.String() != "boom" {
		t.Errorf("Error attr = %q", a.Value.String())
	}
}
