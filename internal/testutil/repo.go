package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// InitRepo initializes a git repository in dir and commits everything in it
// with the given author time.
func InitRepo(t *testing.T, dir string, when time.Time) *git.Repository {
	t.Helper()

	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("failed to initialize git repo: %v", err)
	}
	CommitAll(t, repo, "initial content", when)
	return repo
}

// CommitAll stages every file in the work tree and commits it.
func CommitAll(t *testing.T, repo *git.Repository, msg string, when time.Time) {
	t.Helper()

	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("failed to get worktree: %v", err)
	}
	if err := w.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		t.Fatalf("failed to stage files: %v", err)
	}
	_, err = w.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "Content Bot", Email: "content@example.com", When: when},
	})
	if err != nil {
		t.Fatalf("failed to commit: %v", err)
	}
}

// WriteFile writes body to dir/rel, creating parent directories.
func WriteFile(t *testing.T, dir, rel, body string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
