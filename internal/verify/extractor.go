package verify

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Link is a reference found in a generated page.
type Link struct {
	URL        string
	Tag        string
	Attribute  string
	IsInternal bool
}

// ExtractLinks walks the parsed document and collects a/link/img/script references.
func ExtractLinks(doc *html.Node, base *url.URL) []Link {
	var links []Link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if attr := linkAttribute(n.Data); attr != "" {
				if v := getAttr(n, attr); v != "" {
					links = append(links, Link{URL: v, Tag: n.Data, Attribute: attr, IsInternal: isInternalLink(v, base)})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links
}

func linkAttribute(tag string) string {
	switch tag {
	case "a", "link":
		return "href"
	case "img", "script", "source", "video", "audio":
		return "src"
	}
	return ""
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// isInternalLink reports whether linkURL points into the site. Anchors and
// special schemes are not links to verify and report false.
func isInternalLink(linkURL string, base *url.URL) bool {
	if shouldSkip(linkURL) {
		return false
	}
	u, err := url.Parse(linkURL)
	if err != nil {
		return false
	}
	if u.Scheme == "" && u.Host == "" {
		return strings.HasPrefix(u.Path, "/")
	}
	return base != nil && strings.EqualFold(u.Host, base.Host)
}

func shouldSkip(linkURL string) bool {
	for _, p := range []string{"#", "mailto:", "tel:", "javascript:", "data:"} {
		if strings.HasPrefix(linkURL, p) {
			return true
		}
	}
	return linkURL == ""
}

// linkPath returns the cleaned path of an internal link: no query, no fragment,
// no trailing slash except for the root.
func linkPath(linkURL string) string {
	u, err := url.Parse(linkURL)
	if err != nil {
		return ""
	}
	p := u.Path
	if p == "" {
		p = "/"
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return p
}
