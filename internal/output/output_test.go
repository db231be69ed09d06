package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumeanalyzerai/prerender/internal/foundation/errors"
)

func TestWriteCreatesRouteIndex(t *testing.T) {
	dir := t.TempDir()
	w, err := Open(dir)
	require.NoError(t, err)
	defer func() { require.NoError(t, w.Close()) }()

	res, err := w.Write("/resume-for/chef", []byte("<html>chef</html>"))
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Equal(t, "resume-for/chef/index.html", res.File)

	data, err := os.ReadFile(filepath.Join(dir, "resume-for", "chef", "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "<html>chef</html>", string(data))

	// Overwrite in place.
	_, err = w.Write("/resume-for/chef", []byte("v2"))
	require.NoError(t, err)
	data, err = os.ReadFile(filepath.Join(dir, "resume-for", "chef", "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))

	leftovers, err := filepath.Glob(filepath.Join(dir, "resume-for", "chef", "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestWriteSkipsRoot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("spa"), 0o644))

	w, err := Open(dir)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	res, err := w.Write("/", []byte("prerendered"))
	require.NoError(t, err)
	assert.True(t, res.Skipped)

	data, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "spa", string(data))
}

func TestWriteRejectsTraversal(t *testing.T) {
	w, err := Open(t.TempDir())
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	_, err = w.Write("/../etc", []byte("x"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestOpenFailsWhenLocked(t *testing.T) {
	dir := t.TempDir()
	first, err := Open(dir)
	require.NoError(t, err)

	_, err = Open(dir)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryFileSystem))

	require.NoError(t, first.Close())
	assert.FileExists(t, filepath.Join(dir, LockFile), "lock file outlives the build")

	second, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestOpenRespectsLockOnPersistedFile(t *testing.T) {
	dir := t.TempDir()
	w, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	// Another holder of the file left behind by the previous build.
	other := flock.New(filepath.Join(dir, LockFile))
	ok, err := other.TryLock()
	require.NoError(t, err)
	require.True(t, ok)

	_, err = Open(dir)
	require.Error(t, err)

	require.NoError(t, other.Unlock())
	w, err = Open(dir)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func TestManifestSortedAndStable(t *testing.T) {
	dir := t.TempDir()
	entries := []ManifestEntry{
		NewEntry("/resume-for/chef", "job-role", "resume-for/chef/index.html", []byte("a")),
		NewEntry("/blog", "blog-index", "blog/index.html", []byte("b")),
		NewEntry("/", "static", "", []byte("c")),
	}
	m, err := WriteManifest(dir, entries)
	require.NoError(t, err)
	require.Len(t, m.Pages, 3)
	assert.Equal(t, "/", m.Pages[0].Route)
	assert.True(t, m.Pages[0].Skipped)
	assert.Equal(t, "/blog", m.Pages[1].Route)
	assert.Equal(t, []string{"/blog", "/resume-for/chef"}, m.Routes())

	first, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	require.NoError(t, err)
	_, err = WriteManifest(dir, []ManifestEntry{entries[2], entries[0], entries[1]})
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	read, err := ReadManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, m, read)
	e, ok := read.Lookup("/resume-for/chef")
	require.True(t, ok)
	assert.Equal(t, entries[0].Fingerprint, e.Fingerprint)
}

func TestFingerprintDependsOnContent(t *testing.T) {
	a := NewEntry("/blog", "blog-index", "blog/index.html", []byte("one"))
	b := NewEntry("/blog", "blog-index", "blog/index.html", []byte("two"))
	c := NewEntry("/blog", "blog-index", "blog/index.html", []byte("one"))
	assert.NotEqual(t, a.Fingerprint, b.Fingerprint)
	assert.Equal(t, a.Fingerprint, c.Fingerprint)
	assert.NotEmpty(t, a.Fingerprint)
}

func TestReadManifestMissing(t *testing.T) {
	m, err := ReadManifest(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestCleanRemovesOnlyPreviousPages(t *testing.T) {
	dir := t.TempDir()
	w, err := Open(dir)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	_, err = w.Write("/resume-for/chef", []byte("x"))
	require.NoError(t, err)
	_, err = w.Write("/blog/old-post", []byte("x"))
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "static", "js"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "static", "js", "main.js"), []byte("spa"), 0o644))
	// An asset sharing a route directory keeps that directory alive.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "resume-for", "chef", "photo.png"), []byte("img"), 0o644))

	prev := &Manifest{Version: 1, Pages: []ManifestEntry{
		{Route: "/resume-for/chef"},
		{Route: "/blog/old-post"},
		{Route: "/", Skipped: true},
	}}
	n, err := w.Clean(prev)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.NoDirExists(t, filepath.Join(dir, "blog"))
	assert.NoFileExists(t, filepath.Join(dir, "resume-for", "chef", "index.html"))
	assert.FileExists(t, filepath.Join(dir, "resume-for", "chef", "photo.png"))
	assert.FileExists(t, filepath.Join(dir, "static", "js", "main.js"))

	n, err = w.Clean(nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}
