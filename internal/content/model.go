// Package content loads the records the generator turns into pages: job roles,
// blog posts and hand-authored static pages.
//
// Records are loaded once per build and passed explicitly to every later stage;
// nothing in this package keeps package-level record state.
package content

// JobRole is a programmatic-SEO landing page subject ("<name> resume").
type JobRole struct {
	Slug           string   `yaml:"slug" json:"slug"`
	Name           string   `yaml:"name" json:"name"`
	Industry       string   `yaml:"industry" json:"industry"`
	Keywords       []string `yaml:"keywords" json:"keywords"`
	Skills         []string `yaml:"skills" json:"skills"`
	Description    string   `yaml:"description" json:"description"`
	Tips           []string `yaml:"tips" json:"tips"`
	CommonMistakes []string `yaml:"commonMistakes" json:"commonMistakes"`
}

// BlogPost is a blog article record. Body is optional markdown.
type BlogPost struct {
	Slug        string `yaml:"slug" json:"slug"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Keywords    string `yaml:"keywords" json:"keywords"`
	Category    string `yaml:"category" json:"category"`
	ReadTime    string `yaml:"readTime" json:"readTime"`
	Excerpt     string `yaml:"excerpt" json:"excerpt"`
	Date        string `yaml:"date,omitempty" json:"date,omitempty"`
	Author      string `yaml:"author,omitempty" json:"author,omitempty"`
	Body        string `yaml:"body,omitempty" json:"body,omitempty"`
}

// Page is a hand-authored static route. Content is optional markdown.
type Page struct {
	Path        string `yaml:"path" json:"path"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Keywords    string `yaml:"keywords" json:"keywords"`
	Heading     string `yaml:"heading" json:"heading"`
	CTA         string `yaml:"cta,omitempty" json:"cta,omitempty"`
	Content     string `yaml:"content,omitempty" json:"content,omitempty"`
}

// Sources names the files a Content set is loaded from. Empty entries are skipped.
type Sources struct {
	Roles    string
	Posts    string
	Pages    string
	PostsDir string
}

// Files returns the non-empty source paths in a stable order.
func (s Sources) Files() []string {
	out := make([]string, 0, 4)
	for _, p := range []string{s.Roles, s.Posts, s.Pages, s.PostsDir} {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Content is the full record set for one build.
type Content struct {
	Roles   []JobRole
	Posts   []BlogPost
	Pages   []Page
	Sources Sources
}

// Issue is a non-fatal problem found while loading records.
type Issue struct {
	File    string
	Slug    string
	Message string
}

func (i Issue) String() string {
	if i.Slug != "" {
		return i.File + ": " + i.Slug + ": " + i.Message
	}
	return i.File + ": " + i.Message
}
