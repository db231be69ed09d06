package schema

import (
	"github.com/resumeanalyzerai/prerender/internal/config"
	"github.com/resumeanalyzerai/prerender/internal/content"
)

// Article is a blog article.
type Article struct {
	Context          string        `json:"@context"`
	Type             string        `json:"@type"`
	Headline         string        `json:"headline"`
	Description      string        `json:"description"`
	Keywords         string        `json:"keywords,omitempty"`
	ArticleSection   string        `json:"articleSection,omitempty"`
	URL              string        `json:"url"`
	Image            string        `json:"image,omitempty"`
	Author           any           `json:"author"`
	Publisher        *Organization `json:"publisher"`
	MainEntityOfPage *WebPageRef   `json:"mainEntityOfPage"`
	DatePublished    string        `json:"datePublished,omitempty"`
	DateModified     string        `json:"dateModified,omitempty"`
	TimeRequired     string        `json:"timeRequired,omitempty"`
	WordCount        int           `json:"wordCount,omitempty"`
}

// WebPageRef points at the page an entity is the main subject of.
type WebPageRef struct {
	Type string `json:"@type"`
	ID   string `json:"@id"`
}

// WebPage describes a static page.
type WebPage struct {
	Context     string   `json:"@context"`
	Type        string   `json:"@type"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	IsPartOf    *SiteRef `json:"isPartOf,omitempty"`
}

// SiteRef links a page to its WebSite.
type SiteRef struct {
	Type string `json:"@type"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ArticleMeta carries values not stored on the post record.
type ArticleMeta struct {
	Modified  string // RFC 3339 date of the last content change, if known
	WordCount int
}

// PostArticle builds the Article for a blog post. The author falls back to the
// publishing organization when the post names none.
func PostArticle(site config.SiteConfig, post content.BlogPost, meta ArticleMeta) Article {
	url := PageURL(site.BaseURL, content.PostRoute(post.Slug))
	org := publisher(site)
	var author any = &org
	if post.Author != "" {
		author = &Person{Type: "Person", Name: post.Author}
	}
	return Article{
		Context:          Context,
		Type:             "Article",
		Headline:         post.Title,
		Description:      post.Description,
		Keywords:         post.Keywords,
		ArticleSection:   post.Category,
		URL:              url,
		Image:            site.DefaultImage,
		Author:           author,
		Publisher:        &org,
		MainEntityOfPage: &WebPageRef{Type: "WebPage", ID: url},
		DatePublished:    post.Date,
		DateModified:     meta.Modified,
		TimeRequired:     ISODuration(post.ReadTime),
		WordCount:        meta.WordCount,
	}
}

// PostBreadcrumbs is Home > Blog > <Title>.
func PostBreadcrumbs(site config.SiteConfig, post content.BlogPost) BreadcrumbList {
	return Breadcrumbs(site,
		Crumb{Name: "Blog", Route: content.BlogIndexRoute},
		Crumb{Name: post.Title, Route: content.PostRoute(post.Slug)},
	)
}

// BlogList lists every post in source order.
func BlogList(site config.SiteConfig, posts []content.BlogPost) ItemList {
	links := make([]Link, 0, len(posts))
	for _, p := range posts {
		links = append(links, Link{Name: p.Title, Route: content.PostRoute(p.Slug)})
	}
	return NewItemList(site, site.Name+" Blog", links)
}

// StaticPage builds the WebPage entity for a hand-authored route.
func StaticPage(site config.SiteConfig, page content.Page) WebPage {
	return WebPage{
		Context:     Context,
		Type:        "WebPage",
		Name:        page.Title,
		Description: page.Description,
		URL:         PageURL(site.BaseURL, page.Path),
		IsPartOf:    &SiteRef{Type: "WebSite", Name: site.Name, URL: PageURL(site.BaseURL, "/")},
	}
}
