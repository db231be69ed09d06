package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelatedPostsNeverIncludesSelf(t *testing.T) {
	posts := []BlogPost{
		{Slug: "a", Category: "Tips"},
		{Slug: "b", Category: "Advice"},
		{Slug: "c", Category: "tips"},
		{Slug: "d", Category: "Tips"},
		{Slug: "e", Category: "Other"},
	}
	for _, p := range posts {
		for _, n := range []int{0, 1, 3, 10} {
			for _, r := range RelatedPosts(p, posts, n) {
				assert.NotEqual(t, p.Slug, r.Slug)
			}
		}
	}

	got := RelatedPosts(posts[0], posts, 3)
	assert.Equal(t, []string{"c", "d", "b"}, slugsOf(got), "same category first, then source order")
	assert.Len(t, RelatedPosts(posts[0], posts, 10), 4)
	assert.Empty(t, RelatedPosts(posts[0], posts[:1], 3))
}

func TestRelatedRoles(t *testing.T) {
	roles := []JobRole{
		{Slug: "chef", Industry: "Hospitality"},
		{Slug: "nurse", Industry: "Healthcare"},
		{Slug: "sous-chef", Industry: "hospitality"},
		{Slug: "baker", Industry: "Hospitality"},
	}
	got := RelatedRoles(roles[0], roles, 2)
	assert.Len(t, got, 2)
	assert.Equal(t, "sous-chef", got[0].Slug)
	assert.Equal(t, "baker", got[1].Slug)

	got = RelatedRoles(roles[1], roles, 4)
	assert.Len(t, got, 3)
	for _, r := range got {
		assert.NotEqual(t, "nurse", r.Slug)
	}
}

func TestGroupByIndustry(t *testing.T) {
	groups := GroupByIndustry([]JobRole{
		{Slug: "chef", Industry: "hospitality"},
		{Slug: "dev", Industry: "Technology"},
		{Slug: "x"},
		{Slug: "baker", Industry: "Hospitality"},
	})
	assert.Len(t, groups, 3)
	assert.Equal(t, "Hospitality", groups[0].Label)
	assert.Len(t, groups[0].Roles, 2)
	assert.Equal(t, "Other", groups[2].Label)
}

func TestCategories(t *testing.T) {
	cats := Categories([]BlogPost{{Category: "Tips"}, {Category: "tips"}, {}, {Category: "Advice"}})
	assert.Equal(t, []string{"Tips", "Advice"}, cats)
}

func slugsOf(posts []BlogPost) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Slug
	}
	return out
}
