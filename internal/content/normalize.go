package content

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/resumeanalyzerai/prerender/internal/logfields"
)

// NormalizeRoles trims fields, canonicalizes slugs and drops records without a
// usable slug or with a duplicate one (first occurrence wins). Nil slices become
// empty slices so downstream JSON renders [] rather than null.
func NormalizeRoles(file string, in []JobRole) ([]JobRole, []Issue) {
	var issues []Issue
	seen := make(map[string]bool, len(in))
	out := make([]JobRole, 0, len(in))
	for i, r := range in {
		slug := Slugify(r.Slug)
		if slug == "" {
			issues = append(issues, Issue{File: file, Message: "role " + strconv.Itoa(i) + " has no usable slug; skipped"})
			continue
		}
		if seen[slug] {
			issues = append(issues, Issue{File: file, Slug: slug, Message: "duplicate slug; skipped"})
			continue
		}
		seen[slug] = true
		if issue := slugRewritten(file, r.Slug, slug); issue != nil {
			issues = append(issues, *issue)
		}

		r.Slug = slug
		r.Name = strings.TrimSpace(r.Name)
		if r.Name == "" {
			r.Name = TitleCase(strings.ReplaceAll(slug, "-", " "))
		}
		r.Industry = strings.TrimSpace(r.Industry)
		r.Description = strings.TrimSpace(r.Description)
		r.Keywords = cleanList(r.Keywords)
		r.Skills = cleanList(r.Skills)
		r.Tips = cleanList(r.Tips)
		r.CommonMistakes = cleanList(r.CommonMistakes)
		out = append(out, r)
	}
	return out, issues
}

// NormalizePosts applies the same slug rules to blog posts.
func NormalizePosts(file string, in []BlogPost) ([]BlogPost, []Issue) {
	var issues []Issue
	seen := make(map[string]bool, len(in))
	out := make([]BlogPost, 0, len(in))
	for i, p := range in {
		slug := Slugify(p.Slug)
		if slug == "" {
			issues = append(issues, Issue{File: file, Message: "post " + strconv.Itoa(i) + " has no usable slug; skipped"})
			continue
		}
		if seen[slug] {
			issues = append(issues, Issue{File: file, Slug: slug, Message: "duplicate slug; skipped"})
			continue
		}
		seen[slug] = true
		if issue := slugRewritten(file, p.Slug, slug); issue != nil {
			issues = append(issues, *issue)
		}

		p.Slug = slug
		p.Title = strings.TrimSpace(p.Title)
		if p.Title == "" {
			p.Title = TitleCase(strings.ReplaceAll(slug, "-", " "))
		}
		p.Description = strings.TrimSpace(p.Description)
		p.Keywords = strings.TrimSpace(p.Keywords)
		p.Category = strings.TrimSpace(p.Category)
		p.ReadTime = strings.TrimSpace(p.ReadTime)
		p.Excerpt = strings.TrimSpace(p.Excerpt)
		p.Date = strings.TrimSpace(p.Date)
		p.Author = strings.TrimSpace(p.Author)
		out = append(out, p)
	}
	return out, issues
}

// NormalizePages canonicalizes page paths ("/about/" -> "/about") and drops
// pages whose path is empty or repeated.
func NormalizePages(file string, in []Page) ([]Page, []Issue) {
	var issues []Issue
	seen := make(map[string]bool, len(in))
	out := make([]Page, 0, len(in))
	for i, p := range in {
		path, ok := CleanRoute(p.Path)
		if !ok {
			issues = append(issues, Issue{File: file, Message: "page " + strconv.Itoa(i) + " has an invalid path " + strings.TrimSpace(p.Path) + "; skipped"})
			continue
		}
		if seen[path] {
			issues = append(issues, Issue{File: file, Slug: path, Message: "duplicate path; skipped"})
			continue
		}
		seen[path] = true
		p.Path = path
		p.Title = strings.TrimSpace(p.Title)
		p.Description = strings.TrimSpace(p.Description)
		p.Keywords = strings.TrimSpace(p.Keywords)
		p.Heading = strings.TrimSpace(p.Heading)
		p.CTA = strings.TrimSpace(p.CTA)
		out = append(out, p)
	}
	return out, issues
}

// slugRewritten reports a slug that normalization changed, since the page is
// then written under a different route than the record names.
func slugRewritten(file, original, slug string) *Issue {
	if slug == original {
		return nil
	}
	slog.Debug("Normalized slug", logfields.File(file), logfields.Slug(slug), slog.String("original", original))
	return &Issue{File: file, Slug: slug, Message: "slug " + strconv.Quote(original) + " normalized to " + strconv.Quote(slug)}
}

// CleanRoute canonicalizes a site route: leading slash, no trailing slash, each
// segment a slug. "/" is valid and returned as is.
func CleanRoute(p string) (string, bool) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", false
	}
	if p == "/" {
		return "/", true
	}
	segs := strings.Split(strings.Trim(p, "/"), "/")
	for _, s := range segs {
		if !IsSlug(s) {
			return "", false
		}
	}
	return "/" + strings.Join(segs, "/"), true
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
