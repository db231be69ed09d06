package config

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// Default values.
const (
	DefaultSiteName     = "Resume Analyzer AI"
	DefaultBaseURL      = "https://www.resumeanalyzerai.com"
	DefaultOutputDir    = "build"
	DefaultRelatedPosts = 3
	DefaultRelatedRoles = 4
	DefaultNotifySubj   = "prerender.build.completed"
	DefaultNotifyTO     = "5s"
	DefaultPreviewPort  = 4173
	DefaultDebounce     = "300ms"
)

// defaultSPARoutes are client-side routes that exist without a prerendered file.
var defaultSPARoutes = []string{"/", "/login", "/signup", "/dashboard", "/upload", "/pricing"}

type siteDefaultApplier struct{}

func (siteDefaultApplier) Domain() string { return "site" }

func (siteDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Site.Name == "" {
		cfg.Site.Name = DefaultSiteName
	}
	if cfg.Site.BaseURL == "" {
		cfg.Site.BaseURL = DefaultBaseURL
	}
	cfg.Site.BaseURL = trimTrailingSlash(cfg.Site.BaseURL)
	if cfg.Site.Locale == "" {
		cfg.Site.Locale = "en_US"
	}
	if cfg.Site.Logo == "" {
		cfg.Site.Logo = cfg.Site.BaseURL + "/logo512.png"
	}
	if cfg.Site.DefaultImage == "" {
		cfg.Site.DefaultImage = cfg.Site.BaseURL + "/og-image.png"
	}
	return nil
}

type contentDefaultApplier struct{}

func (contentDefaultApplier) Domain() string { return "content" }

func (contentDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Content.Roles == "" {
		cfg.Content.Roles = "data/roles.yaml"
	}
	if cfg.Content.Posts == "" {
		cfg.Content.Posts = "data/posts.yaml"
	}
	return nil
}

type outputDefaultApplier struct{}

func (outputDefaultApplier) Domain() string { return "output" }

func (outputDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = DefaultOutputDir
	}
	return nil
}

type buildDefaultApplier struct{}

func (buildDefaultApplier) Domain() string { return "build" }

func (buildDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Build.RelatedPosts <= 0 {
		cfg.Build.RelatedPosts = DefaultRelatedPosts
	}
	if cfg.Build.RelatedRoles <= 0 {
		cfg.Build.RelatedRoles = DefaultRelatedRoles
	}
	if len(cfg.Verify.SPARoutes) == 0 {
		cfg.Verify.SPARoutes = append([]string(nil), defaultSPARoutes...)
	}
	return nil
}

type runtimeDefaultApplier struct{}

func (runtimeDefaultApplier) Domain() string { return "runtime" }

func (runtimeDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Notify.Subject == "" {
		cfg.Notify.Subject = DefaultNotifySubj
	}
	if cfg.Notify.Timeout == "" {
		cfg.Notify.Timeout = DefaultNotifyTO
	}
	if cfg.Preview.Port == 0 {
		cfg.Preview.Port = DefaultPreviewPort
	}
	if cfg.Preview.Debounce == "" {
		cfg.Preview.Debounce = DefaultDebounce
	}
	return nil
}

var appliers = []DefaultApplier{
	siteDefaultApplier{},
	contentDefaultApplier{},
	outputDefaultApplier{},
	buildDefaultApplier{},
	runtimeDefaultApplier{},
}

func applyDefaults(cfg *Config) error {
	for _, a := range appliers {
		if err := a.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}

func trimTrailingSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
