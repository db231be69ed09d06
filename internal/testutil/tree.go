// Package testutil holds helpers shared by package tests that build a site.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/resumeanalyzerai/prerender/internal/output"
)

// TreeAssertions checks a generated output tree.
type TreeAssertions struct {
	t   *testing.T
	dir string
}

// NewTreeAssertions returns assertions rooted at the output directory dir.
func NewTreeAssertions(t *testing.T, dir string) *TreeAssertions {
	return &TreeAssertions{t: t, dir: dir}
}

// ReadPage returns the document written for route, failing the test when it is missing.
func (ta *TreeAssertions) ReadPage(route string) string {
	ta.t.Helper()
	rel, err := output.RouteFile(route)
	if err != nil {
		ta.t.Fatalf("invalid route %q: %v", route, err)
	}
	// #nosec G304 - test helper, paths are controlled by test code
	data, err := os.ReadFile(filepath.Join(ta.dir, rel))
	if err != nil {
		ta.t.Fatalf("expected page for %s: %v", route, err)
	}
	return string(data)
}

// AssertPage validates that route was written.
func (ta *TreeAssertions) AssertPage(route string) *TreeAssertions {
	ta.t.Helper()
	ta.ReadPage(route)
	return ta
}

// AssertNoPage validates that route has no document in the tree.
func (ta *TreeAssertions) AssertNoPage(route string) *TreeAssertions {
	ta.t.Helper()
	rel, err := output.RouteFile(route)
	if err != nil {
		ta.t.Fatalf("invalid route %q: %v", route, err)
	}
	if _, err := os.Stat(filepath.Join(ta.dir, rel)); err == nil {
		ta.t.Errorf("expected no page for %s", route)
	}
	return ta
}

// AssertPageContains validates that the page for route contains want.
func (ta *TreeAssertions) AssertPageContains(route, want string) *TreeAssertions {
	ta.t.Helper()
	if body := ta.ReadPage(route); !strings.Contains(body, want) {
		ta.t.Errorf("expected %s to contain %q\nActual content:\n%s", route, want, body)
	}
	return ta
}

// AssertFileExists validates that a file exists relative to the tree root.
func (ta *TreeAssertions) AssertFileExists(rel string) *TreeAssertions {
	ta.t.Helper()
	if _, err := os.Stat(filepath.Join(ta.dir, rel)); os.IsNotExist(err) {
		ta.t.Errorf("expected file to exist: %s", rel)
	}
	return ta
}

// Snapshot reads every regular file under the tree, keyed by slash path.
// The build lock file is ignored.
func (ta *TreeAssertions) Snapshot() map[string]string {
	ta.t.Helper()
	out := map[string]string{}
	err := filepath.WalkDir(ta.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || d.Name() == output.LockFile {
			return err
		}
		data, err := os.ReadFile(path) // #nosec G304 - walking a test temp dir
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(ta.dir, path)
		out[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		ta.t.Fatalf("snapshot %s: %v", ta.dir, err)
	}
	return out
}
