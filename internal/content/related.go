package content

import "strings"

// RelatedPosts returns up to n posts related to post: same category first, then
// the remaining posts, both in source order. The post itself is never included.
func RelatedPosts(post BlogPost, all []BlogPost, n int) []BlogPost {
	if n <= 0 {
		return []BlogPost{}
	}
	out := make([]BlogPost, 0, n)
	pick := func(match bool) {
		for _, p := range all {
			if len(out) == n {
				return
			}
			if p.Slug == post.Slug || contains(out, p.Slug) {
				continue
			}
			if sameFold(p.Category, post.Category) == match {
				out = append(out, p)
			}
		}
	}
	pick(true)
	pick(false)
	return out
}

// RelatedRoles returns up to n roles in the same industry first, then others.
// The role itself is never included.
func RelatedRoles(role JobRole, all []JobRole, n int) []JobRole {
	if n <= 0 {
		return []JobRole{}
	}
	out := make([]JobRole, 0, n)
	seen := map[string]bool{role.Slug: true}
	pick := func(match bool) {
		for _, r := range all {
			if len(out) == n {
				return
			}
			if seen[r.Slug] {
				continue
			}
			if sameFold(r.Industry, role.Industry) == match {
				seen[r.Slug] = true
				out = append(out, r)
			}
		}
	}
	pick(true)
	pick(false)
	return out
}

// IndustryGroup is a set of roles sharing an industry, used by the hub page.
type IndustryGroup struct {
	Label string
	Slug  string
	Roles []JobRole
}

// GroupByIndustry groups roles by industry in first-seen order. Roles with no
// industry land in an "Other" group at the end.
func GroupByIndustry(roles []JobRole) []IndustryGroup {
	var groups []IndustryGroup
	idx := map[string]int{}
	var other []JobRole
	for _, r := range roles {
		key := strings.ToLower(strings.TrimSpace(r.Industry))
		if key == "" {
			other = append(other, r)
			continue
		}
		i, ok := idx[key]
		if !ok {
			groups = append(groups, IndustryGroup{Label: TitleCase(r.Industry), Slug: Slugify(r.Industry)})
			i = len(groups) - 1
			idx[key] = i
		}
		groups[i].Roles = append(groups[i].Roles, r)
	}
	if len(other) > 0 {
		groups = append(groups, IndustryGroup{Label: "Other", Slug: "other", Roles: other})
	}
	return groups
}

// Categories returns distinct post categories in first-seen order.
func Categories(posts []BlogPost) []string {
	var out []string
	seen := map[string]bool{}
	for _, p := range posts {
		k := strings.ToLower(p.Category)
		if p.Category == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p.Category)
	}
	return out
}

func sameFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func contains(posts []BlogPost, slug string) bool {
	for _, p := range posts {
		if p.Slug == slug {
			return true
		}
	}
	return false
}
