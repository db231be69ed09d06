// Package render turns content records into complete HTML documents for crawlers.
//
// All record fields pass through html/template, so they are escaped for the
// context they land in. JSON-LD blocks are produced by the schema package and
// inserted as trusted script content.
package render

import (
	"bytes"
	"embed"
	"html/template"
	"strings"

	"github.com/resumeanalyzerai/prerender/internal/config"
	"github.com/resumeanalyzerai/prerender/internal/content"
	"github.com/resumeanalyzerai/prerender/internal/foundation/errors"
	"github.com/resumeanalyzerai/prerender/internal/markdown"
	"github.com/resumeanalyzerai/prerender/internal/schema"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

// Options configures a Renderer.
type Options struct {
	Site         config.SiteConfig
	MetaOnly     bool
	RelatedPosts int
	RelatedRoles int
}

// Page is one rendered document.
type Page struct {
	Route string
	Kind  Kind
	HTML  []byte
}

// Renderer renders targets with a template set per page kind.
type Renderer struct {
	opts Options
	sets map[Kind]*template.Template
	md   *markdown.Renderer
}

type crumb struct {
	Name  string
	Route string
}

type head struct {
	Title       string
	Description string
	Keywords    string
	Canonical   string
	OGType      string
	JSONLD      []template.JS
}

type view struct {
	Site     config.SiteConfig
	Lang     string
	Head     head
	MetaOnly bool
	Crumbs   []crumb
	Body     template.HTML
	TOC      []markdown.Heading

	Role         *content.JobRole
	RelatedRoles []content.JobRole
	Roles        []content.JobRole
	Groups       []content.IndustryGroup

	Post         *content.BlogPost
	RelatedPosts []content.BlogPost
	Posts        []content.BlogPost
	Categories   []string

	Page *content.Page
}

var funcs = template.FuncMap{
	"roleRoute": content.RoleRoute,
	"postRoute": content.PostRoute,
}

// New parses the embedded templates.
func New(opts Options) (*Renderer, error) {
	base, err := template.New("base").Funcs(funcs).ParseFS(templateFS, "templates/layout.gohtml", "templates/partials.gohtml")
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "failed to parse layout templates").Fatal().Build()
	}
	r := &Renderer{opts: opts, sets: make(map[Kind]*template.Template, len(Kinds)), md: markdown.New()}
	for _, k := range Kinds {
		set, err := base.Clone()
		if err == nil {
			set, err = set.ParseFS(templateFS, "templates/"+k.template())
		}
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryInternal, "failed to parse page template").
				Fatal().WithContext("kind", string(k)).Build()
		}
		r.sets[k] = set
	}
	return r, nil
}

// Dates maps a content source file to its last modification date (RFC 3339).
type Dates map[string]string

// Render produces the document for t. c is the full content set, used for
// cross links.
func (r *Renderer) Render(t Target, c *content.Content, dates Dates) (Page, error) {
	var (
		v   view
		err error
	)
	switch t.Kind {
	case KindJobRole:
		v, err = r.roleView(*t.Role, c.Roles)
	case KindBlogPost:
		v, err = r.postView(*t.Post, c.Posts, firstNonEmpty(dates[t.Source], dates[c.Sources.Posts]))
	case KindHub:
		v, err = r.hubView(c.Roles)
	case KindBlogIndex:
		v, err = r.blogIndexView(c.Posts)
	case KindStatic:
		v, err = r.staticView(*t.Page)
	default:
		return Page{}, errors.RenderError("unknown page kind").WithContext("kind", string(t.Kind)).Build()
	}
	if err != nil {
		return Page{}, err
	}

	v.Site = r.opts.Site
	v.Lang = lang(r.opts.Site.Locale)
	v.MetaOnly = r.opts.MetaOnly
	v.Head.Canonical = schema.PageURL(r.opts.Site.BaseURL, t.Route)

	var buf bytes.Buffer
	if err := r.sets[t.Kind].ExecuteTemplate(&buf, "layout", v); err != nil {
		return Page{}, errors.WrapError(err, errors.CategoryRender, "failed to execute template").
			Fatal().WithContext("route", t.Route).Build()
	}
	return Page{Route: t.Route, Kind: t.Kind, HTML: buf.Bytes()}, nil
}

func (r *Renderer) roleView(role content.JobRole, all []content.JobRole) (view, error) {
	site := r.opts.Site
	desc := role.Description
	if desc == "" {
		desc = "Learn how to write a " + role.Name + " resume that passes applicant tracking systems, with key skills, keywords and expert tips."
	}
	ld, err := jsonLD(schema.RoleBreadcrumbs(site, role), faqOrNil(role), howToOrNil(role))
	if err != nil {
		return view{}, err
	}
	return view{
		Head: head{
			Title:       role.Name + " Resume Guide: Skills, Tips & Examples | " + site.Name,
			Description: desc,
			Keywords:    strings.Join(append([]string{strings.ToLower(role.Name) + " resume"}, role.Keywords...), ", "),
			OGType:      "article",
			JSONLD:      ld,
		},
		Crumbs: []crumb{
			{Name: "Home", Route: content.RootRoute},
			{Name: "Resume Guides", Route: content.RoleHubRoute},
			{Name: role.Name + " Resume"},
		},
		Role:         &role,
		RelatedRoles: content.RelatedRoles(role, all, r.opts.RelatedRoles),
	}, nil
}

func (r *Renderer) postView(post content.BlogPost, all []content.BlogPost, modified string) (view, error) {
	site := r.opts.Site
	var (
		body  template.HTML
		words int
		toc   []markdown.Heading
	)
	if post.Body != "" {
		doc, err := r.md.Render(post.Body)
		if err != nil {
			return view{}, errors.WrapError(err, errors.CategoryRender, "failed to render post body").
				Fatal().WithContext("slug", post.Slug).Build()
		}
		// goldmark drops raw HTML from the source, so its output is trusted.
		body = template.HTML(doc.HTML) //nolint:gosec // sanitized by markdown renderer
		words = doc.WordCount
		toc = tableOfContents(doc.Headings)
	}
	ld, err := jsonLD(
		schema.PostArticle(site, post, schema.ArticleMeta{Modified: modified, WordCount: words}),
		schema.PostBreadcrumbs(site, post),
	)
	if err != nil {
		return view{}, err
	}
	return view{
		Head: head{
			Title:       post.Title + " | " + site.Name + " Blog",
			Description: firstNonEmpty(post.Description, post.Excerpt),
			Keywords:    post.Keywords,
			OGType:      "article",
			JSONLD:      ld,
		},
		Crumbs: []crumb{
			{Name: "Home", Route: content.RootRoute},
			{Name: "Blog", Route: content.BlogIndexRoute},
			{Name: post.Title},
		},
		Body:         body,
		TOC:          toc,
		Post:         &post,
		RelatedPosts: content.RelatedPosts(post, all, r.opts.RelatedPosts),
	}, nil
}

func (r *Renderer) hubView(roles []content.JobRole) (view, error) {
	site := r.opts.Site
	ld, err := jsonLD(
		schema.RoleHubList(site, roles),
		schema.Breadcrumbs(site, schema.Crumb{Name: "Resume Guides", Route: content.RoleHubRoute}),
	)
	if err != nil {
		return view{}, err
	}
	return view{
		Head: head{
			Title:       "Resume Guides by Job Role: Skills, Tips & Examples | " + site.Name,
			Description: "Free resume guides for every job role: the skills, ATS keywords and tips recruiters look for, plus the mistakes to avoid.",
			Keywords:    "resume guides, resume examples, resume tips, ats keywords",
			OGType:      "website",
			JSONLD:      ld,
		},
		Crumbs: []crumb{{Name: "Home", Route: content.RootRoute}, {Name: "Resume Guides"}},
		Roles:  roles,
		Groups: content.GroupByIndustry(roles),
	}, nil
}

func (r *Renderer) blogIndexView(posts []content.BlogPost) (view, error) {
	site := r.opts.Site
	ld, err := jsonLD(
		schema.BlogList(site, posts),
		schema.Breadcrumbs(site, schema.Crumb{Name: "Blog", Route: content.BlogIndexRoute}),
	)
	if err != nil {
		return view{}, err
	}
	if posts == nil {
		posts = []content.BlogPost{}
	}
	return view{
		Head: head{
			Title:       "Resume Tips & Career Advice Blog | " + site.Name,
			Description: "Expert guides on writing resumes that pass applicant tracking systems and land interviews.",
			Keywords:    "resume tips, career advice, ats resume, job search",
			OGType:      "website",
			JSONLD:      ld,
		},
		Crumbs:     []crumb{{Name: "Home", Route: content.RootRoute}, {Name: "Blog"}},
		Posts:      posts,
		Categories: content.Categories(posts),
	}, nil
}

func (r *Renderer) staticView(page content.Page) (view, error) {
	site := r.opts.Site
	var body template.HTML
	if page.Content != "" {
		doc, err := r.md.Render(page.Content)
		if err != nil {
			return view{}, errors.WrapError(err, errors.CategoryRender, "failed to render page content").
				Fatal().WithContext("route", page.Path).Build()
		}
		body = template.HTML(doc.HTML) //nolint:gosec // sanitized by markdown renderer
	}
	if page.Heading == "" {
		page.Heading = page.Title
	}

	var (
		values []any
		crumbs []crumb
	)
	if page.Path == content.RootRoute {
		values = []any{schema.NewOrganization(site), schema.NewWebSite(site)}
	} else {
		values = []any{
			schema.StaticPage(site, page),
			schema.Breadcrumbs(site, schema.Crumb{Name: page.Heading, Route: page.Path}),
		}
		crumbs = []crumb{{Name: "Home", Route: content.RootRoute}, {Name: page.Heading}}
	}
	ld, err := jsonLD(values...)
	if err != nil {
		return view{}, err
	}
	return view{
		Head: head{
			Title:       firstNonEmpty(page.Title, site.Name),
			Description: page.Description,
			Keywords:    page.Keywords,
			OGType:      "website",
			JSONLD:      ld,
		},
		Crumbs: crumbs,
		Body:   body,
		Page:   &page,
	}, nil
}

// jsonLD marshals the non-nil values into script-safe JSON blocks.
func jsonLD(values ...any) ([]template.JS, error) {
	docs, err := schema.MarshalAll(values...)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "failed to marshal structured data").Fatal().Build()
	}
	out := make([]template.JS, len(docs))
	for i, d := range docs {
		out[i] = template.JS(d) //nolint:gosec // encoding/json escapes <, > and &
	}
	return out, nil
}

// tableOfContents lists the h2/h3 sections of a post body. Posts with fewer
// than two sections get none.
func tableOfContents(headings []markdown.Heading) []markdown.Heading {
	var toc []markdown.Heading
	for _, h := range headings {
		if (h.Level == 2 || h.Level == 3) && h.ID != "" {
			toc = append(toc, h)
		}
	}
	if len(toc) < 2 {
		return nil
	}
	return toc
}

func faqOrNil(role content.JobRole) any {
	faq := schema.RoleFAQ(role)
	if len(faq.MainEntity) == 0 {
		return nil
	}
	return faq
}

func howToOrNil(role content.JobRole) any {
	h := schema.RoleHowTo(role)
	if len(h.Step) == 0 {
		return nil
	}
	return h
}

// lang maps a locale such as en_US to the html lang attribute value ("en").
func lang(locale string) string {
	if i := strings.IndexAny(locale, "_-"); i > 0 {
		return strings.ToLower(locale[:i])
	}
	if locale == "" {
		return "en"
	}
	return strings.ToLower(locale)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
