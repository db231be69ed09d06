package render

import (
	"path/filepath"

	"github.com/resumeanalyzerai/prerender/internal/content"
)

// Target is one route to render and the record behind it.
type Target struct {
	Route string
	Kind  Kind
	// Source is the file the record came from; used for lastmod lookups.
	Source string

	Role *content.JobRole
	Post *content.BlogPost
	Page *content.Page
}

// Plan lists every route the content set produces: role pages, the role hub,
// blog posts, the blog index, then static pages. A static page whose path is
// already taken by a generated route is dropped with an issue.
func Plan(c *content.Content) ([]Target, []content.Issue) {
	targets := make([]Target, 0, len(c.Roles)+len(c.Posts)+len(c.Pages)+2)
	taken := make(map[string]bool)
	add := func(t Target) {
		taken[t.Route] = true
		targets = append(targets, t)
	}

	for i := range c.Roles {
		add(Target{Route: content.RoleRoute(c.Roles[i].Slug), Kind: KindJobRole, Source: c.Sources.Roles, Role: &c.Roles[i]})
	}
	add(Target{Route: content.RoleHubRoute, Kind: KindHub, Source: c.Sources.Roles})

	for i := range c.Posts {
		add(Target{Route: content.PostRoute(c.Posts[i].Slug), Kind: KindBlogPost, Source: postSource(c, c.Posts[i]), Post: &c.Posts[i]})
	}
	add(Target{Route: content.BlogIndexRoute, Kind: KindBlogIndex, Source: c.Sources.Posts})

	var issues []content.Issue
	for i := range c.Pages {
		p := &c.Pages[i]
		if taken[p.Path] {
			issues = append(issues, content.Issue{File: c.Sources.Pages, Slug: p.Path, Message: "path collides with a generated page; skipped"})
			continue
		}
		add(Target{Route: p.Path, Kind: KindStatic, Source: c.Sources.Pages, Page: p})
	}
	return targets, issues
}

// postSource prefers the markdown body file when the post has one.
func postSource(c *content.Content, p content.BlogPost) string {
	if p.Body != "" && c.Sources.PostsDir != "" {
		return filepath.Join(c.Sources.PostsDir, p.Slug+".md")
	}
	return c.Sources.Posts
}
