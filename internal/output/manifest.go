package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/inful/mdfp"

	"github.com/resumeanalyzerai/prerender/internal/foundation/errors"
)

// ManifestFile lists the pages written by the last build.
const ManifestFile = "prerender-manifest.json"

// manifestVersion is bumped when the manifest layout changes.
const manifestVersion = 1

// Manifest records every generated route. It carries no timestamps so that
// identical input yields an identical file.
type Manifest struct {
	Version int             `json:"version"`
	Pages   []ManifestEntry `json:"pages"`
}

// ManifestEntry describes one generated page.
type ManifestEntry struct {
	Route       string `json:"route"`
	Kind        string `json:"kind"`
	File        string `json:"file,omitempty"`
	Skipped     bool   `json:"skipped,omitempty"`
	Fingerprint string `json:"fingerprint"`
}

// NewEntry fingerprints a page from its route, kind and document.
func NewEntry(route, kind, file string, html []byte) ManifestEntry {
	meta := "route: " + route + "\nkind: " + kind + "\n"
	return ManifestEntry{
		Route:       route,
		Kind:        kind,
		File:        file,
		Skipped:     file == "",
		Fingerprint: mdfp.CalculateFingerprintFromParts(meta, string(html)),
	}
}

// Routes returns the routes of pages that were written to disk.
func (m *Manifest) Routes() []string {
	out := make([]string, 0, len(m.Pages))
	for _, p := range m.Pages {
		if !p.Skipped {
			out = append(out, p.Route)
		}
	}
	return out
}

// Lookup returns the entry for route.
func (m *Manifest) Lookup(route string) (ManifestEntry, bool) {
	for _, p := range m.Pages {
		if p.Route == route {
			return p, true
		}
	}
	return ManifestEntry{}, false
}

// WriteManifest sorts entries by route and writes the manifest atomically.
func WriteManifest(dir string, entries []ManifestEntry) (*Manifest, error) {
	pages := append([]ManifestEntry(nil), entries...)
	sort.Slice(pages, func(i, j int) bool { return pages[i].Route < pages[j].Route })
	if pages == nil {
		pages = []ManifestEntry{}
	}
	m := &Manifest{Version: manifestVersion, Pages: pages}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "failed to marshal manifest").Build()
	}
	path := filepath.Join(dir, ManifestFile)
	if err := writeAtomic(path, append(data, '\n')); err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to write manifest").
			Fatal().WithContext("path", path).Build()
	}
	return m, nil
}

// ReadManifest loads the manifest in dir. A missing manifest returns (nil, nil).
func ReadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil //nolint:nilnil // no previous build
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read manifest").
			WithContext("path", path).Build()
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to parse manifest").
			WithContext("path", path).Build()
	}
	return &m, nil
}
