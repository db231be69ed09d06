package content

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/resumeanalyzerai/prerender/internal/foundation/errors"
	"github.com/resumeanalyzerai/prerender/internal/logfields"
)

// Format is the on-disk encoding of a record file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatJS   Format = "js" // legacy: regex extraction from a JavaScript module
)

// DetectFormat picks the decoder from the file extension.
func DetectFormat(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".json":
		return FormatJSON, true
	case ".js", ".mjs", ".cjs", ".ts":
		return FormatJS, true
	default:
		return "", false
	}
}

// Load reads every configured source. Missing files count as zero records and
// are reported as issues; malformed structured files are fatal content errors.
func Load(src Sources) (*Content, []Issue, error) {
	var issues []Issue
	c := &Content{Sources: src}

	roles, iss, err := LoadRoles(src.Roles)
	if err != nil {
		return nil, nil, err
	}
	issues = append(issues, iss...)
	c.Roles = roles

	posts, iss, err := LoadPosts(src.Posts)
	if err != nil {
		return nil, nil, err
	}
	issues = append(issues, iss...)

	if src.PostsDir != "" {
		posts, iss, err = MergePostBodies(src.PostsDir, posts)
		if err != nil {
			return nil, nil, err
		}
		issues = append(issues, iss...)
	}
	c.Posts = posts

	pages, iss, err := LoadPages(src.Pages)
	if err != nil {
		return nil, nil, err
	}
	issues = append(issues, iss...)
	c.Pages = pages

	slog.Info("Content loaded",
		slog.Int("roles", len(c.Roles)),
		slog.Int("posts", len(c.Posts)),
		slog.Int("pages", len(c.Pages)),
		slog.Int("issues", len(issues)))
	return c, issues, nil
}

// LoadRoles loads and normalizes job-role records from path.
func LoadRoles(path string) ([]JobRole, []Issue, error) {
	if path == "" {
		return []JobRole{}, nil, nil
	}
	data, format, issue, err := readSource(path)
	if err != nil || issue != nil {
		return []JobRole{}, issuesOf(issue), err
	}

	var roles []JobRole
	switch format {
	case FormatJS:
		roles = ExtractJobRoles(string(data))
	default:
		if err := decode(data, format, &roles); err != nil {
			return nil, nil, decodeError(err, path)
		}
	}
	slog.Info("Loaded job roles", logfields.File(path), logfields.Count(len(roles)), slog.String("format", string(format)))

	out, issues := NormalizeRoles(path, roles)
	return out, issues, nil
}

// LoadPosts loads and normalizes blog-post records from path.
func LoadPosts(path string) ([]BlogPost, []Issue, error) {
	if path == "" {
		return []BlogPost{}, nil, nil
	}
	data, format, issue, err := readSource(path)
	if err != nil || issue != nil {
		return []BlogPost{}, issuesOf(issue), err
	}

	var posts []BlogPost
	switch format {
	case FormatJS:
		posts = ExtractBlogPosts(string(data))
	default:
		if err := decode(data, format, &posts); err != nil {
			return nil, nil, decodeError(err, path)
		}
	}
	slog.Info("Loaded blog posts", logfields.File(path), logfields.Count(len(posts)), slog.String("format", string(format)))

	out, issues := NormalizePosts(path, posts)
	return out, issues, nil
}

// LoadPages loads static page definitions. JS modules are not supported for pages.
func LoadPages(path string) ([]Page, []Issue, error) {
	if path == "" {
		return []Page{}, nil, nil
	}
	data, format, issue, err := readSource(path)
	if err != nil || issue != nil {
		return []Page{}, issuesOf(issue), err
	}
	if format == FormatJS {
		return nil, nil, errors.ContentError("static pages must be YAML or JSON").
			Fatal().WithContext("file", path).Build()
	}

	var pages []Page
	if err := decode(data, format, &pages); err != nil {
		return nil, nil, decodeError(err, path)
	}
	slog.Info("Loaded static pages", logfields.File(path), logfields.Count(len(pages)))

	out, issues := NormalizePages(path, pages)
	return out, issues, nil
}

// readSource reads path; a missing file is an issue, not an error.
func readSource(path string) ([]byte, Format, *Issue, error) {
	format, ok := DetectFormat(path)
	if !ok {
		return nil, "", nil, errors.ContentError("unsupported content file extension").
			Fatal().WithContext("file", path).Build()
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("Content file not found; continuing with zero records", logfields.File(path))
			return nil, format, &Issue{File: path, Message: "file not found; treated as zero records"}, nil
		}
		return nil, format, nil, errors.WrapError(err, errors.CategoryContent, "failed to read content file").
			Fatal().WithContext("file", path).Build()
	}
	return data, format, nil, nil
}

func decode(data []byte, format Format, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if format == FormatJSON {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(v)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(v)
}

func decodeError(err error, path string) error {
	return errors.WrapError(err, errors.CategoryContent, "failed to decode content file").
		Fatal().WithContext("file", path).Build()
}

func issuesOf(i *Issue) []Issue {
	if i == nil {
		return nil
	}
	return []Issue{*i}
}
