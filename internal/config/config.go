package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/resumeanalyzerai/prerender/internal/foundation/errors"
)

// DefaultPath is the configuration file looked up when --config is not given.
const DefaultPath = "prerender.yaml"

// Config represents the prerender configuration file.
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Content ContentConfig `yaml:"content"`
	Output  OutputConfig  `yaml:"output"`
	Build   BuildConfig   `yaml:"build"`
	Verify  VerifyConfig  `yaml:"verify,omitempty"`
	State   StateConfig   `yaml:"state,omitempty"`
	Notify  NotifyConfig  `yaml:"notify,omitempty"`
	Metrics MetricsConfig `yaml:"metrics,omitempty"`
	Preview PreviewConfig `yaml:"preview,omitempty"`

	// baseDir anchors relative content/output paths (directory of the config file).
	baseDir string
}

// SiteConfig describes the public site the pages are generated for.
type SiteConfig struct {
	Name         string   `yaml:"name"`
	BaseURL      string   `yaml:"base_url"`
	Twitter      string   `yaml:"twitter,omitempty"`
	Logo         string   `yaml:"logo,omitempty"`
	DefaultImage string   `yaml:"default_image,omitempty"`
	Locale       string   `yaml:"locale,omitempty"`
	SameAs       []string `yaml:"organization_same_as,omitempty"`
}

// ContentConfig points at the record files. Structured files (.yaml/.yml/.json) are
// decoded directly; JavaScript modules (.js/.mjs/.ts) go through the legacy extractor.
type ContentConfig struct {
	Roles    string `yaml:"roles"`
	Posts    string `yaml:"posts"`
	Pages    string `yaml:"pages,omitempty"`
	PostsDir string `yaml:"posts_dir,omitempty"` // optional <slug>.md bodies with frontmatter
}

// OutputConfig represents output configuration.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"` // remove routes from the previous manifest before writing
}

// BuildConfig tunes page generation.
type BuildConfig struct {
	GitLastmod   bool `yaml:"git_lastmod"`
	Verify       bool `yaml:"verify"`
	MetaOnly     bool `yaml:"meta_only"` // head + empty mount point, no prerendered body
	RelatedPosts int  `yaml:"related_posts"`
	RelatedRoles int  `yaml:"related_roles"`
}

// VerifyConfig lists routes served by the SPA that internal links may target.
type VerifyConfig struct {
	SPARoutes []string `yaml:"spa_routes,omitempty"`
}

// StateConfig configures the sqlite build history. Empty path disables it.
type StateConfig struct {
	Path string `yaml:"path,omitempty"`
}

// NotifyConfig configures build-completed events. Empty URL disables them.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
	Timeout string `yaml:"timeout,omitempty"`
}

// MetricsConfig configures the Prometheus textfile written after each build.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// PreviewConfig configures the local preview server.
type PreviewConfig struct {
	Port     int    `yaml:"port,omitempty"`
	Debounce string `yaml:"debounce,omitempty"`
}

// Load loads configuration from the specified file, applies defaults and validates it.
func Load(configPath string) (*Config, error) {
	// Load .env/.env.local; a missing file is not an error.
	_ = loadEnvFile()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").
				WithContext("path", configPath).Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			WithContext("path", configPath).Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(filepath.Dir(configPath))
	if err == nil {
		cfg.baseDir = abs
	}
	return cfg, nil
}

// Parse decodes YAML config bytes, expanding ${ENV} references first.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").Fatal().Build()
	}

	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration populated only with defaults.
func Default() *Config {
	var cfg Config
	_ = applyDefaults(&cfg)
	return &cfg
}

// BaseDir returns the directory relative paths resolve against.
func (c *Config) BaseDir() string { return c.baseDir }

// SetBaseDir overrides the directory relative paths resolve against.
func (c *Config) SetBaseDir(dir string) { c.baseDir = dir }

// ResolvePath anchors a relative path at the config directory. Empty stays empty.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) || c.baseDir == "" {
		return p
	}
	return filepath.Join(c.baseDir, p)
}

// OutputDir returns the resolved output directory.
func (c *Config) OutputDir() string { return c.ResolvePath(c.Output.Directory) }
