// Package verify checks a generated output tree: every page must parse, carry
// valid structured data and a canonical link, and only link to routes that exist.
package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/resumeanalyzerai/prerender/internal/foundation/errors"
	"github.com/resumeanalyzerai/prerender/internal/logfields"
	"github.com/resumeanalyzerai/prerender/internal/output"
	"github.com/resumeanalyzerai/prerender/internal/schema"
)

// Severity of a verification issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one failed check.
type Issue struct {
	Route    string   `json:"route"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	return string(i.Severity) + ": " + i.Route + ": " + i.Message
}

// Report summarizes a verification run.
type Report struct {
	Pages  int     `json:"pages"`
	Links  int     `json:"links"`
	Issues []Issue `json:"issues"`
}

// Errors counts error-severity issues.
func (r *Report) Errors() int { return r.count(SeverityError) }

// Warnings counts warning-severity issues.
func (r *Report) Warnings() int { return r.count(SeverityWarning) }

func (r *Report) count(s Severity) int {
	n := 0
	for _, i := range r.Issues {
		if i.Severity == s {
			n++
		}
	}
	return n
}

// Err returns a validation error when the report has error-severity issues.
func (r *Report) Err() error {
	if n := r.Errors(); n > 0 {
		return errors.ValidationError("output verification failed").
			WithContext("errors", n).WithContext("first", r.firstError()).Build()
	}
	return nil
}

func (r *Report) firstError() string {
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			return i.String()
		}
	}
	return ""
}

// Options configures which links count as resolvable.
type Options struct {
	BaseURL string
	// SPARoutes are served by the client bundle and are valid link targets.
	SPARoutes []string
}

// Verifier checks pages under one output directory.
type Verifier struct {
	dir   string
	opts  Options
	base  *url.URL
	known map[string]bool
}

// New returns a verifier for dir. routes are the generated pages; together with
// the root and SPA routes they form the set of valid internal link targets.
func New(dir string, routes []string, opts Options) (*Verifier, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid base URL").
			WithContext("base_url", opts.BaseURL).Build()
	}
	known := map[string]bool{"/": true}
	for _, r := range routes {
		known[r] = true
	}
	for _, r := range opts.SPARoutes {
		known[linkPath(r)] = true
	}
	return &Verifier{dir: dir, opts: opts, base: base, known: known}, nil
}

// Run checks every route and returns the collected report.
func (v *Verifier) Run(ctx context.Context, routes []string) (*Report, error) {
	report := &Report{Issues: []Issue{}}
	for _, route := range routes {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		rel, err := output.RouteFile(route)
		if err != nil {
			report.Issues = append(report.Issues, Issue{Route: route, Severity: SeverityError, Message: "invalid route"})
			continue
		}
		data, err := os.ReadFile(filepath.Join(v.dir, rel))
		if err != nil {
			report.Issues = append(report.Issues, Issue{Route: route, Severity: SeverityError, Message: "page file missing: " + filepath.ToSlash(rel)})
			continue
		}
		issues, links := v.CheckPage(route, data)
		report.Pages++
		report.Links += links
		report.Issues = append(report.Issues, issues...)
	}
	slog.Debug("Verified output",
		logfields.Count(report.Pages),
		slog.Int("links", report.Links),
		slog.Int("errors", report.Errors()),
		slog.Int("warnings", report.Warnings()))
	return report, nil
}

// CheckPage runs all document checks on one page and returns its issues and the
// number of internal links it checked.
func (v *Verifier) CheckPage(route string, data []byte) ([]Issue, int) {
	var issues []Issue
	add := func(s Severity, msg string) {
		issues = append(issues, Issue{Route: route, Severity: s, Message: msg})
	}

	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		add(SeverityError, "document does not parse as HTML: "+err.Error())
		return issues, 0
	}
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("<!DOCTYPE html>")) {
		add(SeverityError, "missing HTML5 doctype")
	}
	doc := goquery.NewDocumentFromNode(root)

	if strings.TrimSpace(doc.Find("head title").Text()) == "" {
		add(SeverityError, "missing or empty <title>")
	}
	if desc, _ := doc.Find(`meta[name="description"]`).Attr("content"); strings.TrimSpace(desc) == "" {
		add(SeverityWarning, "missing meta description")
	}

	want := schema.PageURL(v.opts.BaseURL, route)
	canonical, ok := doc.Find(`link[rel="canonical"]`).Attr("href")
	switch {
	case !ok:
		add(SeverityError, "missing canonical link")
	case canonical != want:
		add(SeverityError, "canonical link is "+canonical+", want "+want)
	}

	blocks := doc.Find(`script[type="application/ld+json"]`)
	if blocks.Length() == 0 {
		add(SeverityError, "no application/ld+json block")
	}
	blocks.Each(func(_ int, s *goquery.Selection) {
		var doc any
		if err := json.Unmarshal([]byte(s.Text()), &doc); err != nil {
			add(SeverityError, "invalid JSON-LD block: "+err.Error())
		}
	})

	if n := doc.Find("div#root").Length(); n != 1 {
		add(SeverityError, "expected exactly one #root mount point")
	}

	checked := 0
	for _, l := range ExtractLinks(root, v.base) {
		if !l.IsInternal || l.Tag == "link" {
			continue
		}
		checked++
		p := linkPath(l.URL)
		if v.known[p] {
			continue
		}
		if path.Ext(p) != "" {
			if _, err := os.Stat(filepath.Join(v.dir, filepath.FromSlash(p))); err != nil {
				add(SeverityWarning, "asset not found in output: "+p)
			}
			continue
		}
		add(SeverityError, "broken internal link: "+l.URL)
	}
	return issues, checked
}
