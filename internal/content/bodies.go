package content

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/resumeanalyzerai/prerender/internal/foundation/errors"
	"github.com/resumeanalyzerai/prerender/internal/logfields"
)

// postFrontmatter lists the fields a <slug>.md file may set; non-empty values
// override the record loaded from the posts file.
type postFrontmatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Keywords    string `yaml:"keywords"`
	Category    string `yaml:"category"`
	ReadTime    string `yaml:"readTime"`
	Excerpt     string `yaml:"excerpt"`
	Date        string `yaml:"date"`
	Author      string `yaml:"author"`
}

// MergePostBodies attaches markdown bodies from dir to posts by slug. A file whose
// slug has no record becomes a new post when its frontmatter carries a title.
// Files are visited in name order so the result is deterministic.
func MergePostBodies(dir string, posts []BlogPost) ([]BlogPost, []Issue, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("Posts directory not found; no article bodies", logfields.Path(dir))
			return posts, []Issue{{File: dir, Message: "posts directory not found"}}, nil
		}
		return nil, nil, errors.WrapError(err, errors.CategoryContent, "failed to read posts directory").
			Fatal().WithContext("dir", dir).Build()
	}

	index := make(map[string]int, len(posts))
	for i, p := range posts {
		index[p.Slug] = i
	}

	var issues []Issue
	attached := 0
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".md") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		slug := Slugify(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
		if slug == "" {
			issues = append(issues, Issue{File: path, Message: "file name does not yield a slug; skipped"})
			continue
		}

		raw, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, nil, errors.WrapError(err, errors.CategoryContent, "failed to read post body").
				Fatal().WithContext("file", path).Build()
		}
		fmRaw, body, had, err := splitFrontmatter(raw)
		if err != nil {
			issues = append(issues, Issue{File: path, Slug: slug, Message: err.Error()})
			continue
		}
		var fm postFrontmatter
		if had && len(fmRaw) > 0 {
			if err := yaml.Unmarshal(fmRaw, &fm); err != nil {
				issues = append(issues, Issue{File: path, Slug: slug, Message: "invalid frontmatter: " + err.Error()})
				continue
			}
		}

		i, ok := index[slug]
		if !ok {
			if strings.TrimSpace(fm.Title) == "" {
				issues = append(issues, Issue{File: path, Slug: slug, Message: "no matching post and no title in frontmatter; skipped"})
				continue
			}
			posts = append(posts, BlogPost{Slug: slug})
			i = len(posts) - 1
			index[slug] = i
		}
		posts[i] = applyFrontmatter(posts[i], fm)
		posts[i].Body = strings.TrimSpace(string(body))
		attached++
	}

	slog.Info("Attached post bodies", logfields.Path(dir), logfields.Count(attached))
	normalized, more := NormalizePosts(dir, posts)
	return normalized, append(issues, more...), nil
}

func applyFrontmatter(p BlogPost, fm postFrontmatter) BlogPost {
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&p.Title, fm.Title)
	set(&p.Description, fm.Description)
	set(&p.Keywords, fm.Keywords)
	set(&p.Category, fm.Category)
	set(&p.ReadTime, fm.ReadTime)
	set(&p.Excerpt, fm.Excerpt)
	set(&p.Date, fm.Date)
	set(&p.Author, fm.Author)
	return p
}
