package preview

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumeanalyzerai/prerender/internal/config"
	"github.com/resumeanalyzerai/prerender/internal/pipeline"
	"github.com/resumeanalyzerai/prerender/internal/testutil"
)

type stubBuilder struct {
	err   error
	calls int
}

func (s *stubBuilder) Build(context.Context) (*pipeline.BuildReport, error) {
	s.calls++
	return &pipeline.BuildReport{BuildID: "b1", Outcome: pipeline.OutcomeSuccess}, s.err
}

func testConfig(t *testing.T) (*config.Config, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.SetBaseDir(dir)
	cfg.Content.PostsDir = "data/posts"
	return cfg, dir
}

func get(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return rec.Code, string(body)
}

func TestServesPagesAfterGoodBuild(t *testing.T) {
	cfg, dir := testConfig(t)
	testutil.WriteFile(t, dir, "build/index.html", "<div id=\"root\"></div>")
	testutil.WriteFile(t, dir, "build/resume-for/chef/index.html", "chef page")

	s := New(cfg, &stubBuilder{}, nil)
	require.NoError(t, s.Rebuild(context.Background()))
	h := s.Handler()

	code, body := get(t, h, "/resume-for/chef/")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "chef page", body)

	code, body = get(t, h, "/dashboard")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `id="root"`)
}

func TestUnavailableBeforeGoodBuild(t *testing.T) {
	cfg, _ := testConfig(t)
	s := New(cfg, &stubBuilder{err: assert.AnError}, nil)
	require.Error(t, s.Rebuild(context.Background()))

	code, _ := get(t, s.Handler(), "/")
	assert.Equal(t, http.StatusServiceUnavailable, code)

	code, body := get(t, s.Handler(), "/_prerender/status")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	var st Status
	require.NoError(t, json.Unmarshal([]byte(body), &st))
	assert.Equal(t, "b1", st.BuildID)
	assert.Equal(t, assert.AnError.Error(), st.Error)
}

func TestMetricsEndpoint(t *testing.T) {
	cfg, _ := testConfig(t)
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "prerender_builds_total 1") })
	s := New(cfg, &stubBuilder{}, metrics)

	code, body := get(t, s.Handler(), "/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "prerender_builds_total")
}

func TestRelevant(t *testing.T) {
	cfg, dir := testConfig(t)
	s := New(cfg, &stubBuilder{}, nil)

	assert.True(t, s.relevant(filepath.Join(dir, "data", "roles.yaml")))
	assert.True(t, s.relevant(filepath.Join(dir, "data", "posts", "ats-resume-guide.md")))
	assert.False(t, s.relevant(filepath.Join(dir, "data", "notes.txt")))
	assert.False(t, s.relevant(filepath.Join(dir, "data", ".roles.yaml.swp")))
	assert.ElementsMatch(t, []string{filepath.Join(dir, "data"), filepath.Join(dir, "data", "posts")}, s.watchDirs())
}

func TestShouldIgnoreEvent(t *testing.T) {
	assert.True(t, shouldIgnoreEvent("/tmp/.hidden.yaml"))
	assert.True(t, shouldIgnoreEvent("/tmp/#roles.yaml#"))
	assert.True(t, shouldIgnoreEvent("/tmp/roles.yaml.swp"))
	assert.True(t, shouldIgnoreEvent("/tmp/roles.yaml~"))
	assert.False(t, shouldIgnoreEvent("/tmp/roles.yaml"))
}

func TestDebouncerCoalescesBursts(t *testing.T) {
	req, trigger := newDebouncer(20 * time.Millisecond)
	for range 5 {
		trigger()
	}

	select {
	case <-req:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a rebuild request")
	}
	select {
	case <-req:
		t.Fatal("burst produced more than one request")
	case <-time.After(100 * time.Millisecond):
	}
}
