// Package sitemap writes sitemap.xml and robots.txt for the generated routes.
package sitemap

import (
	"bytes"
	"encoding/xml"
	"os"
	"path/filepath"
	"sort"

	"github.com/resumeanalyzerai/prerender/internal/foundation/errors"
	"github.com/resumeanalyzerai/prerender/internal/schema"
)

const (
	SitemapFile = "sitemap.xml"
	RobotsFile  = "robots.txt"
	xmlns       = "http://www.sitemaps.org/schemas/sitemap/0.9"
)

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// Entry is one sitemap URL before it is made absolute.
type Entry struct {
	Route   string
	LastMod string // YYYY-MM-DD, optional
}

// Build renders the sitemap document. The root is always listed first, the
// remaining routes follow sorted, each exactly once.
func Build(baseURL string, entries []Entry) ([]byte, error) {
	seen := map[string]bool{"/": true}
	root := Entry{Route: "/"}
	rest := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Route == "/" {
			root = e
			continue
		}
		if seen[e.Route] {
			continue
		}
		seen[e.Route] = true
		rest = append(rest, e)
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].Route < rest[j].Route })

	set := urlSet{XMLNS: xmlns, URLs: make([]sitemapURL, 0, len(rest)+1)}
	set.URLs = append(set.URLs, sitemapURL{Loc: schema.PageURL(baseURL, "/"), LastMod: root.LastMod, ChangeFreq: "weekly", Priority: "1.0"})
	for _, e := range rest {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        schema.PageURL(baseURL, e.Route),
			LastMod:    e.LastMod,
			ChangeFreq: "monthly",
			Priority:   priority(e.Route),
		})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "failed to encode sitemap").Build()
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// priority ranks hub pages above leaf pages.
func priority(route string) string {
	if depth(route) <= 1 {
		return "0.8"
	}
	return "0.6"
}

func depth(route string) int {
	n := 0
	for _, r := range route {
		if r == '/' {
			n++
		}
	}
	return n
}

// Robots renders a robots.txt that allows everything and points at the sitemap.
func Robots(baseURL string) []byte {
	return []byte("User-agent: *\nAllow: /\n\nSitemap: " + schema.PageURL(baseURL, "/"+SitemapFile) + "\n")
}

// Write stores sitemap.xml and robots.txt in dir. An existing robots.txt is
// left alone unless overwrite is set.
func Write(dir, baseURL string, entries []Entry, overwriteRobots bool) error {
	doc, err := Build(baseURL, entries)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, SitemapFile), doc, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write sitemap").
			Fatal().WithContext("path", filepath.Join(dir, SitemapFile)).Build()
	}
	robotsPath := filepath.Join(dir, RobotsFile)
	if !overwriteRobots {
		if _, err := os.Stat(robotsPath); err == nil {
			return nil
		}
	}
	if err := os.WriteFile(robotsPath, Robots(baseURL), 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write robots.txt").
			Fatal().WithContext("path", robotsPath).Build()
	}
	return nil
}
