package config

import (
	"net/url"
	"strings"
	"time"

	"github.com/resumeanalyzerai/prerender/internal/foundation/errors"
)

// Validate checks a defaulted configuration and returns a classified config error.
func Validate(cfg *Config) error {
	u, err := url.Parse(cfg.Site.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.ConfigError("site.base_url must be an absolute URL").
			WithContext("base_url", cfg.Site.BaseURL).Build()
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.ConfigError("site.base_url must use http or https").
			WithContext("base_url", cfg.Site.BaseURL).Build()
	}
	if u.Path != "" || u.RawQuery != "" {
		return errors.ConfigError("site.base_url must not contain a path or query").
			WithContext("base_url", cfg.Site.BaseURL).Build()
	}
	if strings.TrimSpace(cfg.Output.Directory) == "" {
		return errors.ConfigError("output.directory must not be empty").Build()
	}
	if cfg.Site.Twitter != "" && !strings.HasPrefix(cfg.Site.Twitter, "@") {
		return errors.ConfigError("site.twitter must start with @").
			WithContext("twitter", cfg.Site.Twitter).Build()
	}
	for _, r := range cfg.Verify.SPARoutes {
		if !strings.HasPrefix(r, "/") {
			return errors.ConfigError("verify.spa_routes entries must start with /").
				WithContext("route", r).Build()
		}
	}
	if _, err := time.ParseDuration(cfg.Notify.Timeout); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "notify.timeout is not a duration").
			Fatal().WithContext("timeout", cfg.Notify.Timeout).Build()
	}
	if _, err := time.ParseDuration(cfg.Preview.Debounce); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "preview.debounce is not a duration").
			Fatal().WithContext("debounce", cfg.Preview.Debounce).Build()
	}
	if cfg.Preview.Port < 0 || cfg.Preview.Port > 65535 {
		return errors.ConfigError("preview.port out of range").WithContext("port", cfg.Preview.Port).Build()
	}
	return nil
}

// NotifyTimeout returns the parsed notify timeout.
func (c *Config) NotifyTimeout() time.Duration {
	d, err := time.ParseDuration(c.Notify.Timeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// PreviewDebounce returns the parsed rebuild debounce for preview mode.
func (c *Config) PreviewDebounce() time.Duration {
	d, err := time.ParseDuration(c.Preview.Debounce)
	if err != nil {
		return 300 * time.Millisecond
	}
	return d
}
