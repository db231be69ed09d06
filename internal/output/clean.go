package output

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/resumeanalyzerai/prerender/internal/foundation/errors"
	"github.com/resumeanalyzerai/prerender/internal/logfields"
)

// Clean removes the pages listed in the previous manifest. Only index files and
// directories left empty are removed, so SPA assets sharing the tree survive.
// It returns the number of pages removed.
func (w *Writer) Clean(prev *Manifest) (int, error) {
	if prev == nil {
		return 0, nil
	}
	removed := 0
	for _, route := range prev.Routes() {
		rel, err := RouteFile(route)
		if err != nil {
			slog.Warn("Ignoring invalid manifest route", logfields.Route(route))
			continue
		}
		path := filepath.Join(w.dir, rel)
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, errors.WrapError(err, errors.CategoryFileSystem, "failed to remove stale page").
				Fatal().WithContext("route", route).Build()
		}
		removed++
		pruneEmptyDirs(w.dir, filepath.Dir(path))
	}
	slog.Debug("Removed previous pages", logfields.Count(removed))
	return removed, nil
}

// pruneEmptyDirs removes dir and its parents up to (not including) root while
// they are empty.
func pruneEmptyDirs(root, dir string) {
	for dir != root && len(dir) > len(root) {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		if err := os.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}
