// Package output writes rendered pages into the build tree.
//
// Each route becomes <dir>/<route>/index.html. The root route belongs to the SPA
// bundle and is never overwritten. A build holds an exclusive file lock on the
// output directory for as long as its Writer is open.
package output

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"github.com/resumeanalyzerai/prerender/internal/foundation/errors"
	"github.com/resumeanalyzerai/prerender/internal/logfields"
)

const (
	// IndexFile is the document written for each route.
	IndexFile = "index.html"
	// LockFile guards the output tree against concurrent builds.
	LockFile = ".prerender.lock"
)

// Result reports what happened to one page.
type Result struct {
	Route   string
	File    string // path relative to the output dir; empty when skipped
	Skipped bool
}

// Writer writes pages under one output directory.
type Writer struct {
	dir  string
	lock *flock.Flock
}

// Open creates dir if needed and takes the build lock. It fails immediately
// when another build holds the lock.
func Open(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to create output directory").
			Fatal().WithContext("path", dir).Build()
	}
	lock := flock.New(filepath.Join(dir, LockFile))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to lock output directory").
			Fatal().WithContext("path", dir).Build()
	}
	if !ok {
		return nil, errors.FileSystemError("output directory is locked by another build").
			WithRetry(errors.RetryBackoff).WithContext("path", dir).Build()
	}
	return &Writer{dir: dir, lock: lock}, nil
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

// Close releases the build lock. The lock file is left in place; removing it
// lets two builds lock different inodes of the same path.
func (w *Writer) Close() error {
	if err := w.lock.Unlock(); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to unlock output directory").Build()
	}
	return nil
}

// Write stores html as the index document of route.
func (w *Writer) Write(route string, html []byte) (Result, error) {
	if route == "/" || route == "" {
		slog.Debug("Skipping root route", logfields.Route("/"))
		return Result{Route: "/", Skipped: true}, nil
	}
	rel, err := RouteFile(route)
	if err != nil {
		return Result{}, err
	}
	path := filepath.Join(w.dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Result{}, errors.WrapError(err, errors.CategoryFileSystem, "failed to create route directory").
			Fatal().WithContext("route", route).WithContext("path", filepath.Dir(path)).Build()
	}
	if err := writeAtomic(path, html); err != nil {
		return Result{}, errors.WrapError(err, errors.CategoryFileSystem, "failed to write page").
			Fatal().WithContext("route", route).WithContext("path", path).Build()
	}
	return Result{Route: route, File: filepath.ToSlash(rel)}, nil
}

// RouteFile maps a route to its index file relative to the output dir.
func RouteFile(route string) (string, error) {
	trimmed := strings.Trim(route, "/")
	for _, seg := range strings.Split(trimmed, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return "", errors.ValidationError("invalid route").WithContext("route", route).Build()
		}
	}
	return filepath.Join(filepath.FromSlash(trimmed), IndexFile), nil
}

// writeAtomic writes through a temp file in the same directory and renames it
// into place, so readers never observe a partial page.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
