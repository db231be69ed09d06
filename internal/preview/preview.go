// Package preview serves the output tree locally and rebuilds it when content
// files change.
package preview

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/resumeanalyzerai/prerender/internal/config"
	"github.com/resumeanalyzerai/prerender/internal/foundation/errors"
	"github.com/resumeanalyzerai/prerender/internal/logfields"
	"github.com/resumeanalyzerai/prerender/internal/pipeline"
)

// Builder runs one build.
type Builder interface {
	Build(ctx context.Context) (*pipeline.BuildReport, error)
}

// buildStatus tracks the latest build for the status endpoint.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	lastReport   *pipeline.BuildReport
	hasGoodBuild bool
}

func (bs *buildStatus) record(r *pipeline.BuildReport, err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
	bs.lastReport = r
	if err == nil {
		bs.hasGoodBuild = true
	}
}

// Status is the JSON body of the status endpoint.
type Status struct {
	BuildID string `json:"build_id,omitempty"`
	Outcome string `json:"outcome,omitempty"`
	Pages   int    `json:"pages"`
	Issues  int    `json:"issues"`
	Error   string `json:"error,omitempty"`
}

func (bs *buildStatus) snapshot() (Status, bool) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	var st Status
	if r := bs.lastReport; r != nil {
		st.BuildID = r.BuildID
		st.Outcome = string(r.Outcome)
		st.Pages = r.TotalPages()
		st.Issues = len(r.Issues)
	}
	if bs.lastError != nil {
		st.Error = bs.lastError.Error()
	}
	return st, bs.hasGoodBuild
}

// Server serves one output directory.
type Server struct {
	cfg      *config.Config
	builder  Builder
	metrics  http.Handler
	debounce time.Duration
	status   buildStatus
}

// New returns a preview server. metrics may be nil.
func New(cfg *config.Config, b Builder, metrics http.Handler) *Server {
	return &Server{cfg: cfg, builder: b, metrics: metrics, debounce: cfg.PreviewDebounce()}
}

// Handler routes the status and metrics endpoints and serves the tree.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/_prerender/status", s.handleStatus)
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics)
	}
	mux.Handle("/", s.siteHandler())
	return mux
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	st, _ := s.status.snapshot()
	w.Header().Set("Content-Type", "application/json")
	if st.Error != "" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(st)
}

// siteHandler serves generated pages. Routes without a file fall back to the
// root document the way the production host serves the client bundle.
func (s *Server) siteHandler() http.Handler {
	root := s.cfg.OutputDir()
	files := http.FileServer(http.Dir(root))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, good := s.status.snapshot(); !good {
			http.Error(w, "no successful build yet; see /_prerender/status", http.StatusServiceUnavailable)
			return
		}
		clean := filepath.FromSlash(filepath.Clean("/" + r.URL.Path))
		if _, err := os.Stat(filepath.Join(root, clean)); err != nil && stderrors.Is(err, os.ErrNotExist) {
			index := filepath.Join(root, "index.html")
			if _, err := os.Stat(index); err == nil {
				http.ServeFile(w, r, index)
				return
			}
		}
		files.ServeHTTP(w, r)
	})
}

// Rebuild runs one build and records its outcome.
func (s *Server) Rebuild(ctx context.Context) error {
	report, err := s.builder.Build(ctx)
	s.status.record(report, err)
	if err != nil {
		slog.Warn("Preview build failed", logfields.Error(err))
		return err
	}
	slog.Info("Preview build complete", slog.String("summary", report.Summary()))
	return nil
}

// Run builds once, serves on port and rebuilds on content changes until ctx
// is canceled.
func (s *Server) Run(ctx context.Context, port int) error {
	_ = s.Rebuild(ctx)

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "failed to listen").
			WithContext("port", port).Build()
	}
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			slog.Error("Preview server stopped", logfields.Error(err))
		}
	}()
	slog.Info("Preview server listening", slog.Int("port", port), slog.String("url", fmt.Sprintf("http://localhost:%d", port)))

	watcher, err := s.watch()
	if err != nil {
		_ = srv.Close()
		return err
	}
	defer func() { _ = watcher.Close() }()

	rebuildReq, trigger := newDebouncer(s.debounce)
	go s.rebuildWorker(ctx, rebuildReq)

	for {
		select {
		case <-ctx.Done():
			return shutdown(srv)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if s.relevant(ev.Name) {
				slog.Debug("Content change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
				trigger()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func shutdown(srv *http.Server) error {
	slog.Info("Shutting down preview server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func (s *Server) rebuildWorker(ctx context.Context, req <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-req:
			slog.Info("Change detected; rebuilding pages")
			_ = s.Rebuild(ctx)
		}
	}
}

// watch registers the directories holding content sources. Directories are
// watched rather than files so editors that replace files on save still fire.
func (s *Server) watch() (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to create watcher").Build()
	}
	for _, dir := range s.watchDirs() {
		if err := w.Add(dir); err != nil {
			slog.Warn("Watch add failed", logfields.Path(dir), logfields.Error(err))
		}
	}
	return w, nil
}

func (s *Server) sources() []string {
	c := s.cfg.Content
	var out []string
	for _, p := range []string{c.Roles, c.Posts, c.Pages} {
		if p != "" {
			out = append(out, s.cfg.ResolvePath(p))
		}
	}
	return out
}

func (s *Server) watchDirs() []string {
	seen := map[string]bool{}
	var dirs []string
	add := func(d string) {
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}
	for _, p := range s.sources() {
		add(filepath.Dir(p))
	}
	if s.cfg.Content.PostsDir != "" {
		add(s.cfg.ResolvePath(s.cfg.Content.PostsDir))
	}
	return dirs
}

// relevant reports whether a change to path affects the build.
func (s *Server) relevant(path string) bool {
	if shouldIgnoreEvent(path) {
		return false
	}
	for _, p := range s.sources() {
		if filepath.Clean(path) == p {
			return true
		}
	}
	if s.cfg.Content.PostsDir != "" && strings.HasSuffix(path, ".md") {
		return filepath.Dir(path) == s.cfg.ResolvePath(s.cfg.Content.PostsDir)
	}
	return false
}

// newDebouncer returns a channel that receives once per burst of trigger calls.
func newDebouncer(quiet time.Duration) (<-chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	req := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(quiet, func() {
			select {
			case req <- struct{}{}:
			default:
			}
		})
	}
	return req, trigger
}

// shouldIgnoreEvent returns true for hidden, swap and lock files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db"
}
