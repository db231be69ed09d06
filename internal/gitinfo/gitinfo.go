// Package gitinfo reads last-modified dates for content files from git history.
package gitinfo

import (
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	ggit "github.com/go-git/go-git/v5"

	"github.com/resumeanalyzerai/prerender/internal/foundation/errors"
	"github.com/resumeanalyzerai/prerender/internal/logfields"
)

// History answers "when was this path last committed".
type History struct {
	repo *ggit.Repository
	root string
}

// Open finds the repository containing path. It returns (nil, nil) when path is
// not inside a git work tree.
func Open(path string) (*History, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryGit, "failed to resolve path").WithContext("path", path).Build()
	}
	repo, err := ggit.PlainOpenWithOptions(abs, &ggit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if stderrors.Is(err, ggit.ErrRepositoryNotExists) {
			return nil, nil //nolint:nilnil // not a repository
		}
		return nil, errors.WrapError(err, errors.CategoryGit, "failed to open repository").WithContext("path", abs).Build()
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryGit, "repository has no work tree").WithContext("path", abs).Build()
	}
	root := wt.Filesystem.Root()
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	return &History{repo: repo, root: root}, nil
}

// Root returns the work tree root.
func (h *History) Root() string { return h.root }

// LastModified returns the committer time of the newest commit touching path.
// A directory matches commits touching any file below it. ok is false when the
// path is outside the work tree or has never been committed.
func (h *History) LastModified(path string) (t time.Time, ok bool, err error) {
	rel, ok := h.relative(path)
	if !ok {
		return time.Time{}, false, nil
	}

	opts := &ggit.LogOptions{Order: ggit.LogOrderCommitterTime}
	if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
		prefix := rel + "/"
		opts.PathFilter = func(p string) bool { return strings.HasPrefix(p, prefix) }
	} else {
		opts.FileName = &rel
	}

	iter, err := h.repo.Log(opts)
	if err != nil {
		// An empty repository has no HEAD yet.
		slog.Debug("No git history", logfields.Path(rel), logfields.Error(err))
		return time.Time{}, false, nil
	}
	defer iter.Close()

	c, err := iter.Next()
	if err != nil {
		return time.Time{}, false, nil
	}
	return c.Committer.When.UTC(), true, nil
}

// Dates resolves the last-modified date of each path, formatted as RFC 3339 in
// UTC. Paths without history are absent from the result.
func (h *History) Dates(paths []string) map[string]string {
	out := make(map[string]string, len(paths))
	if h == nil {
		return out
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		t, ok, err := h.LastModified(p)
		if err != nil || !ok {
			continue
		}
		out[p] = t.Format(time.RFC3339)
	}
	return out
}

func (h *History) relative(path string) (string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	rel, err := filepath.Rel(h.root, abs)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
