// Package schema builds schema.org JSON-LD values for generated pages.
//
// Every builder is a pure function of the site settings and a content record.
// Slice fields are always non-nil so they marshal as [] rather than null.
package schema

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/resumeanalyzerai/prerender/internal/config"
)

// Context is the JSON-LD @context used by every top-level value.
const Context = "https://schema.org"

// PageURL joins the site base URL and a route. The root keeps its trailing slash.
func PageURL(baseURL, route string) string {
	base := strings.TrimRight(baseURL, "/")
	if route == "" || route == "/" {
		return base + "/"
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return base + route
}

// Organization describes the publisher of the site.
type Organization struct {
	Context string       `json:"@context,omitempty"`
	Type    string       `json:"@type"`
	Name    string       `json:"name"`
	URL     string       `json:"url"`
	Logo    *ImageObject `json:"logo,omitempty"`
	SameAs  []string     `json:"sameAs,omitempty"`
}

// ImageObject is a schema.org image reference.
type ImageObject struct {
	Type string `json:"@type"`
	URL  string `json:"url"`
}

// Person is an article author.
type Person struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// WebSite is the site-level entity.
type WebSite struct {
	Context   string        `json:"@context"`
	Type      string        `json:"@type"`
	Name      string        `json:"name"`
	URL       string        `json:"url"`
	Publisher *Organization `json:"publisher,omitempty"`
}

// ListItem is one entry of a BreadcrumbList or ItemList.
type ListItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item,omitempty"`
	URL      string `json:"url,omitempty"`
}

// BreadcrumbList is the navigation trail of a page.
type BreadcrumbList struct {
	Context         string     `json:"@context"`
	Type            string     `json:"@type"`
	ItemListElement []ListItem `json:"itemListElement"`
}

// ItemList is an ordered collection of links, used by hub and index pages.
type ItemList struct {
	Context         string     `json:"@context"`
	Type            string     `json:"@type"`
	Name            string     `json:"name"`
	NumberOfItems   int        `json:"numberOfItems"`
	ItemListElement []ListItem `json:"itemListElement"`
}

// Crumb is one breadcrumb: a display name and a site route.
type Crumb struct {
	Name  string
	Route string
}

// Link is an ItemList entry: a display name and a site route.
type Link struct {
	Name  string
	Route string
}

// NewOrganization returns the site publisher with @context set.
func NewOrganization(site config.SiteConfig) Organization {
	org := publisher(site)
	org.Context = Context
	return org
}

func publisher(site config.SiteConfig) Organization {
	org := Organization{
		Type: "Organization",
		Name: site.Name,
		URL:  PageURL(site.BaseURL, "/"),
	}
	if site.Logo != "" {
		org.Logo = &ImageObject{Type: "ImageObject", URL: site.Logo}
	}
	if len(site.SameAs) > 0 {
		org.SameAs = append([]string(nil), site.SameAs...)
	}
	return org
}

// NewWebSite returns the WebSite entity for the home of the site.
func NewWebSite(site config.SiteConfig) WebSite {
	org := publisher(site)
	return WebSite{
		Context:   Context,
		Type:      "WebSite",
		Name:      site.Name,
		URL:       PageURL(site.BaseURL, "/"),
		Publisher: &org,
	}
}

// Breadcrumbs returns a BreadcrumbList starting at the site root.
func Breadcrumbs(site config.SiteConfig, crumbs ...Crumb) BreadcrumbList {
	items := make([]ListItem, 0, len(crumbs)+1)
	items = append(items, ListItem{Type: "ListItem", Position: 1, Name: "Home", Item: PageURL(site.BaseURL, "/")})
	for i, c := range crumbs {
		items = append(items, ListItem{
			Type:     "ListItem",
			Position: i + 2,
			Name:     c.Name,
			Item:     PageURL(site.BaseURL, c.Route),
		})
	}
	return BreadcrumbList{Context: Context, Type: "BreadcrumbList", ItemListElement: items}
}

// NewItemList returns an ItemList of absolute page URLs in the given order.
func NewItemList(site config.SiteConfig, name string, links []Link) ItemList {
	items := make([]ListItem, 0, len(links))
	for i, l := range links {
		items = append(items, ListItem{
			Type:     "ListItem",
			Position: i + 1,
			Name:     l.Name,
			URL:      PageURL(site.BaseURL, l.Route),
		})
	}
	return ItemList{
		Context:         Context,
		Type:            "ItemList",
		Name:            name,
		NumberOfItems:   len(items),
		ItemListElement: items,
	}
}

// Marshal encodes v as indented JSON. encoding/json escapes <, > and & so the
// result is safe inside a script element.
func Marshal(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// MarshalAll encodes each value as its own JSON document. Nil values are
// skipped so optional blocks can be passed unconditionally.
func MarshalAll(values ...any) ([]string, error) {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == nil {
			continue
		}
		s, err := Marshal(v)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// ISODuration converts a read time such as "8 min read" to an ISO 8601 duration
// ("PT8M"). It returns "" when no leading number is found.
func ISODuration(readTime string) string {
	fields := strings.Fields(readTime)
	if len(fields) == 0 {
		return ""
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n <= 0 {
		return ""
	}
	return "PT" + strconv.Itoa(n) + "M"
}
