package content

import (
	"regexp"
	"strings"
)

// The extractor below reads record literals out of JavaScript data modules
// without evaluating them. It only understands `key: 'string'` and
// `key: ['a', 'b']` shapes; anything else is silently skipped, so a
// reformatted source file yields fewer records rather than an error.

const jsString = `'((?:[^'\\]|\\.)*)'|"((?:[^"\\]|\\.)*)"|` + "`([^`]*)`"

var (
	slugPattern    = regexp.MustCompile(`(?:^|[\s{,])slug\s*:\s*(?:` + jsString + `)`)
	literalPattern = regexp.MustCompile(`^(?:` + jsString + `)`)
	fieldCache     = map[string]*regexp.Regexp{}
	arrayCache     = map[string]*regexp.Regexp{}
)

func init() {
	for _, f := range []string{"name", "industry", "description", "title", "keywords", "category", "readTime", "excerpt", "date", "author"} {
		fieldCache[f] = regexp.MustCompile(`(?:^|[\s{,])` + f + `\s*:\s*(?:` + jsString + `)`)
	}
	for _, f := range []string{"keywords", "skills", "tips", "commonMistakes"} {
		arrayCache[f] = regexp.MustCompile(`(?:^|[\s{,])` + f + `\s*:\s*\[`)
	}
}

// ExtractJobRoles scrapes job-role records from the text of a JS module.
func ExtractJobRoles(src string) []JobRole {
	blocks := recordBlocks(src)
	roles := make([]JobRole, 0, len(blocks))
	for _, b := range blocks {
		roles = append(roles, JobRole{
			Slug:           b.slug,
			Name:           stringField(b.text, "name"),
			Industry:       stringField(b.text, "industry"),
			Keywords:       arrayField(b.text, "keywords"),
			Skills:         arrayField(b.text, "skills"),
			Description:    stringField(b.text, "description"),
			Tips:           arrayField(b.text, "tips"),
			CommonMistakes: arrayField(b.text, "commonMistakes"),
		})
	}
	return roles
}

// ExtractBlogPosts scrapes blog-post records from the text of a JS module.
// keywords may be written as a string or an array; arrays are joined with ", ".
func ExtractBlogPosts(src string) []BlogPost {
	blocks := recordBlocks(src)
	posts := make([]BlogPost, 0, len(blocks))
	for _, b := range blocks {
		keywords := stringField(b.text, "keywords")
		if keywords == "" {
			keywords = strings.Join(arrayField(b.text, "keywords"), ", ")
		}
		posts = append(posts, BlogPost{
			Slug:        b.slug,
			Title:       stringField(b.text, "title"),
			Description: stringField(b.text, "description"),
			Keywords:    keywords,
			Category:    stringField(b.text, "category"),
			ReadTime:    stringField(b.text, "readTime"),
			Excerpt:     stringField(b.text, "excerpt"),
			Date:        stringField(b.text, "date"),
			Author:      stringField(b.text, "author"),
		})
	}
	return posts
}

type block struct {
	slug string
	text string
}

// recordBlocks cuts src at every `slug:` occurrence; each block runs to the next one.
// The text before a slug that belongs to the same object literal (fields listed
// before slug) is attributed by scanning back to the nearest opening brace.
func recordBlocks(src string) []block {
	locs := slugPattern.FindAllStringSubmatchIndex(src, -1)
	if len(locs) == 0 {
		return nil
	}
	starts := make([]int, len(locs))
	for i, loc := range locs {
		start := strings.LastIndex(src[:loc[0]+1], "{")
		if i > 0 && start < locs[i-1][1] {
			start = loc[0]
		}
		if start < 0 {
			start = loc[0]
		}
		starts[i] = start
	}

	out := make([]block, 0, len(locs))
	for i, loc := range locs {
		end := len(src)
		if i+1 < len(locs) {
			end = starts[i+1]
		}
		out = append(out, block{
			slug: unescapeJS(firstGroup(src, loc)),
			text: src[starts[i]:end],
		})
	}
	return out
}

func stringField(text, name string) string {
	re, ok := fieldCache[name]
	if !ok {
		return ""
	}
	loc := re.FindStringSubmatchIndex(text)
	if loc == nil {
		return ""
	}
	return unescapeJS(firstGroup(text, loc))
}

// arrayField collects the string literals of `name: [...]`. The array ends at
// the first `]` outside a literal; an unterminated literal ends it too.
func arrayField(text, name string) []string {
	out := []string{}
	re, ok := arrayCache[name]
	if !ok {
		return out
	}
	loc := re.FindStringIndex(text)
	if loc == nil {
		return out
	}
	body := text[loc[1]:]
	for i := 0; i < len(body); {
		switch body[i] {
		case ']':
			return out
		case '\'', '"', '`':
			m := literalPattern.FindStringSubmatchIndex(body[i:])
			if m == nil {
				return out
			}
			out = append(out, unescapeJS(firstGroup(body[i:], m)))
			i += m[1]
		default:
			i++
		}
	}
	return out
}

// firstGroup returns the first participating capture group after the whole match.
func firstGroup(s string, loc []int) string {
	return firstGroupFrom(s, loc, 2)
}

func firstGroupFrom(s string, loc []int, from int) string {
	for i := from; i+1 < len(loc); i += 2 {
		if loc[i] >= 0 {
			return s[loc[i]:loc[i+1]]
		}
	}
	return ""
}

var jsEscapes = strings.NewReplacer(`\'`, `'`, `\"`, `"`, `\n`, "\n", `\t`, "\t", `\\`, `\`, "\\`", "`")

func unescapeJS(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	return jsEscapes.Replace(s)
}
