package commands

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumeanalyzerai/prerender/internal/config"
	"github.com/resumeanalyzerai/prerender/internal/foundation/errors"
	"github.com/resumeanalyzerai/prerender/internal/state"
)

func initProject(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.DefaultPath)
	require.NoError(t, RunInit(path, false))
	return path
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel(true))

	t.Setenv(LogLevelEnv, "warn")
	assert.Equal(t, slog.LevelWarn, parseLogLevel(false))
	t.Setenv(LogLevelEnv, "DEBUG")
	assert.Equal(t, slog.LevelDebug, parseLogLevel(false))
	t.Setenv(LogLevelEnv, "bogus")
	assert.Equal(t, slog.LevelInfo, parseLogLevel(false))
}

func TestInitRefusesOverwrite(t *testing.T) {
	path := initProject(t)
	err := RunInit(path, false)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
	require.NoError(t, RunInit(path, true))
}

func TestBuildThenVerify(t *testing.T) {
	path := initProject(t)
	root := &CLI{Config: path}

	require.NoError(t, (&BuildCmd{Workers: 2}).Run(&Global{}, root))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	report, err := RunVerify(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 10, report.Pages)
	assert.Zero(t, report.Errors())
}

func TestVerifyWithoutManifest(t *testing.T) {
	path := initProject(t)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	_, err = RunVerify(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestBuildOverrides(t *testing.T) {
	cfg := config.Default()
	verify := false
	(&BuildCmd{Output: "out", Verify: &verify, Clean: true, MetaOnly: true}).apply(cfg)

	assert.Equal(t, "out", cfg.Output.Directory)
	assert.False(t, cfg.Build.Verify)
	assert.True(t, cfg.Output.Clean)
	assert.True(t, cfg.Build.MetaOnly)
}

func TestOutputFlagResolvesAgainstWorkingDir(t *testing.T) {
	want, err := filepath.Abs("out")
	require.NoError(t, err)

	for _, args := range [][]string{
		{"build", "-o", "out"},
		{"verify", "-o", "out"},
		{"preview", "-o", "out"},
	} {
		cli := &CLI{}
		parser, err := kong.New(cli, kong.Bind(&Global{}), kong.Vars{"version": "test"})
		require.NoError(t, err)
		_, err = parser.Parse(append([]string{"-c", "site/prerender.yaml"}, args...))
		require.NoError(t, err, args)

		switch args[0] {
		case "build":
			assert.Equal(t, want, cli.Build.Output)
		case "verify":
			assert.Equal(t, want, cli.Verify.Output)
		case "preview":
			assert.Equal(t, want, cli.Preview.Output)
		}
	}

	cfg, err := config.Load(initProject(t))
	require.NoError(t, err)
	(&BuildCmd{Output: want}).apply(cfg)
	assert.Equal(t, want, cfg.OutputDir(), "absolute overrides bypass the config directory")
}

func TestBuildRecordsHistoryAndTextfile(t *testing.T) {
	path := initProject(t)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	cfg.State.Path = "state/builds.db"
	cfg.Metrics.Textfile = "metrics/prerender.prom"

	report, err := runBuild(context.Background(), cfg, 1)
	require.NoError(t, err)

	store, err := state.NewSQLiteStore(cfg.ResolvePath(cfg.State.Path))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	last, err := store.Last(context.Background())
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, report.BuildID, last.ID)

	assert.FileExists(t, cfg.ResolvePath(cfg.Metrics.Textfile))
}

func TestPrintHistory(t *testing.T) {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	require.NoError(t, printHistory(&buf, []state.Build{{
		ID: "b-1", StartedAt: start, FinishedAt: start.Add(1500 * time.Millisecond),
		Outcome: "success", Written: 10, Skipped: 1,
	}}))
	out := buf.String()
	assert.Contains(t, out, "OUTCOME")
	assert.Contains(t, out, "b-1")
	assert.Contains(t, out, "2024-05-01T10:00:00Z")
	assert.Contains(t, out, "1.5s")
}
