package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumeanalyzerai/prerender/internal/foundation/errors"
)

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("site:\n  name: Test Site\n"))
	require.NoError(t, err)

	assert.Equal(t, "Test Site", cfg.Site.Name)
	assert.Equal(t, DefaultBaseURL, cfg.Site.BaseURL)
	assert.Equal(t, DefaultOutputDir, cfg.Output.Directory)
	assert.Equal(t, DefaultRelatedPosts, cfg.Build.RelatedPosts)
	assert.Equal(t, DefaultRelatedRoles, cfg.Build.RelatedRoles)
	assert.Equal(t, "data/roles.yaml", cfg.Content.Roles)
	assert.Contains(t, cfg.Verify.SPARoutes, "/login")
	assert.Equal(t, DefaultBaseURL+"/og-image.png", cfg.Site.DefaultImage)
}

func TestParseTrimsBaseURLSlash(t *testing.T) {
	cfg, err := Parse([]byte("site:\n  base_url: https://example.com/\n"))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", cfg.Site.BaseURL)
}

func TestParseExpandsEnv(t *testing.T) {
	t.Setenv("PRERENDER_TEST_BASE", "https://staging.example.com")
	cfg, err := Parse([]byte("site:\n  base_url: ${PRERENDER_TEST_BASE}\n"))
	require.NoError(t, err)
	assert.Equal(t, "https://staging.example.com", cfg.Site.BaseURL)
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"relative base url": "site:\n  base_url: /relative\n",
		"base url path":     "site:\n  base_url: https://example.com/app\n",
		"ftp scheme":        "site:\n  base_url: ftp://example.com\n",
		"twitter handle":    "site:\n  twitter: resumeanalyzer\n",
		"spa route":         "verify:\n  spa_routes: [login]\n",
		"notify timeout":    "notify:\n  timeout: soon\n",
		"unknown field":     "sitee:\n  name: typo\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(body))
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, errors.CategoryConfig), "got %v", err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestLoadResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prerender.yaml")
	require.NoError(t, os.WriteFile(path, []byte("content:\n  roles: data/r.yaml\noutput:\n  directory: out\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	abs, _ := filepath.Abs(dir)
	assert.Equal(t, filepath.Join(abs, "data/r.yaml"), cfg.ResolvePath(cfg.Content.Roles))
	assert.Equal(t, filepath.Join(abs, "out"), cfg.OutputDir())
	assert.Equal(t, "", cfg.ResolvePath(""))
	assert.Equal(t, "/abs/x.yaml", cfg.ResolvePath("/abs/x.yaml"))
}

func TestInitWritesLoadableConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prerender.yaml")

	require.NoError(t, Init(path, false))
	assert.FileExists(t, filepath.Join(dir, "data", "roles.yaml"))
	assert.FileExists(t, filepath.Join(dir, "data", "posts.yaml"))
	assert.FileExists(t, filepath.Join(dir, "data", "pages.yaml"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "@resumeanalyzerai", cfg.Site.Twitter)
	assert.True(t, cfg.Build.Verify)

	err = Init(path, false)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))

	require.NoError(t, Init(path, true))
}

func TestDurations(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "5s", cfg.NotifyTimeout().String())
	assert.Equal(t, "300ms", cfg.PreviewDebounce().String())
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultSiteName, cfg.Site.Name)
}
