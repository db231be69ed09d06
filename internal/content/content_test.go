package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumeanalyzerai/prerender/internal/foundation/errors"
)

func TestExtractJobRolesFromJS(t *testing.T) {
	src, err := os.ReadFile("testdata/jobRoles.js")
	require.NoError(t, err)

	roles := ExtractJobRoles(string(src))
	require.Len(t, roles, 3)

	chef := roles[0]
	assert.Equal(t, "chef", chef.Slug)
	assert.Equal(t, "Chef", chef.Name)
	assert.Equal(t, "Hospitality", chef.Industry)
	assert.Equal(t, []string{"Culinary Arts", "Food Safety"}, chef.Keywords)
	assert.Equal(t, []string{"Menu Development"}, chef.Skills)
	assert.Equal(t, "Chefs run the kitchen and don't compromise on quality.", chef.Description)
	assert.Equal(t, []string{"Highlight culinary education"}, chef.Tips)
	assert.Equal(t, []string{"Not highlighting culinary education"}, chef.CommonMistakes)

	analyst := roles[1]
	assert.Equal(t, "data-analyst", analyst.Slug)
	assert.Equal(t, "Data Analyst", analyst.Name, "fields before slug belong to the same record")
	assert.Equal(t, []string{"SQL", "Dashboards"}, analyst.Keywords)
	assert.Equal(t, "Turns raw data into decisions.", analyst.Description)
	assert.Empty(t, analyst.Tips)
	assert.NotNil(t, analyst.CommonMistakes)

	nurse := roles[2]
	assert.Equal(t, "Registered Nurse", nurse.Name)
	assert.Empty(t, nurse.Skills)
}

func TestExtractBlogPostsFromJS(t *testing.T) {
	src, err := os.ReadFile("testdata/blogPosts.js")
	require.NoError(t, err)

	posts := ExtractBlogPosts(string(src))
	require.Len(t, posts, 2)
	assert.Equal(t, "ATS, resume format", posts[0].Keywords)
	assert.Equal(t, "keywords, job description", posts[1].Keywords)
	assert.Equal(t, "6 min read", posts[1].ReadTime)
}

func TestExtractArrayWithBracketsInStrings(t *testing.T) {
	src := `export const JOB_ROLES = [{
  slug: 'chef', name: 'Chef',
  tips: ['Replace [Company] with the employer name', "Quantify covers served"],
  keywords: ['Culinary Arts', 'Menu [Seasonal] Planning'],
  skills: ['Knife Work'],
}];`
	roles := ExtractJobRoles(src)
	require.Len(t, roles, 1)
	assert.Equal(t, []string{"Replace [Company] with the employer name", "Quantify covers served"}, roles[0].Tips)
	assert.Equal(t, []string{"Culinary Arts", "Menu [Seasonal] Planning"}, roles[0].Keywords)
	assert.Equal(t, []string{"Knife Work"}, roles[0].Skills)
	assert.Equal(t, []string{}, roles[0].CommonMistakes)
}

func TestExtractArrayStopsAtUnterminatedString(t *testing.T) {
	roles := ExtractJobRoles(`[{ slug: 'chef', tips: ['Lead the line', 'broken ] }]`)
	require.Len(t, roles, 1)
	assert.Equal(t, []string{"Lead the line"}, roles[0].Tips)
}

func TestExtractNoMatches(t *testing.T) {
	assert.Empty(t, ExtractJobRoles("export const JOB_ROLES = [];"))
	assert.Empty(t, ExtractBlogPosts(""))
}

func TestLoadRolesYAMLNormalizes(t *testing.T) {
	roles, issues, err := LoadRoles("testdata/roles.yaml")
	require.NoError(t, err)

	require.Len(t, roles, 2)
	assert.Equal(t, "chef", roles[0].Slug)
	assert.Equal(t, "software-engineer", roles[1].Slug)
	assert.NotNil(t, roles[1].Tips)
	assert.NotNil(t, roles[1].Keywords)
	require.Len(t, issues, 4, "rewritten slug, duplicate, unusable slug and missing slug")
	assert.Equal(t, "software-engineer", issues[0].Slug)
	assert.Contains(t, issues[0].Message, `" Software Engineer " normalized to "software-engineer"`)
}

func TestNormalizeReportsRewrittenSlugs(t *testing.T) {
	roles, issues := NormalizeRoles("roles.js", []JobRole{{Slug: "Sous Chef"}, {Slug: "chef"}})
	require.Len(t, roles, 2)
	assert.Equal(t, "sous-chef", roles[0].Slug)
	require.Len(t, issues, 1)
	assert.Equal(t, "sous-chef", issues[0].Slug)
	assert.Equal(t, "roles.js", issues[0].File)

	posts, issues := NormalizePosts("posts.js", []BlogPost{{Slug: "ATS-Guide"}})
	require.Len(t, posts, 1)
	assert.Equal(t, "ats-guide", posts[0].Slug)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, `"ATS-Guide"`)
}

func TestLoadPostsJSON(t *testing.T) {
	posts, issues, err := LoadPosts("testdata/posts.json")
	require.NoError(t, err)
	assert.Empty(t, issues)
	require.Len(t, posts, 2)
	assert.Equal(t, "Career Change Resumes", posts[1].Title)
}

func TestLoadPostsFromJS(t *testing.T) {
	posts, _, err := LoadPosts("testdata/blogPosts.js")
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestLoadMissingFileIsZeroRecords(t *testing.T) {
	roles, issues, err := LoadRoles(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Empty(t, roles)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "not found")
}

func TestLoadMalformedIsContentError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- slug: [unterminated"), 0o600))

	_, _, err := LoadRoles(path)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryContent))
}

func TestLoadUnsupportedExtension(t *testing.T) {
	_, _, err := LoadRoles("roles.csv")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryContent))
}

func TestLoadPages(t *testing.T) {
	pages, issues, err := LoadPages("testdata/pages.yaml")
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "/", pages[0].Path)
	assert.Equal(t, "/features", pages[1].Path)
	assert.Len(t, issues, 2)

	_, _, err = LoadPages("testdata/jobRoles.js")
	require.Error(t, err)
}

func TestMergePostBodies(t *testing.T) {
	posts, _, err := LoadPosts("testdata/posts.json")
	require.NoError(t, err)

	merged, issues, err := MergePostBodies("testdata/posts", posts)
	require.NoError(t, err)
	require.Len(t, merged, 3)

	assert.Equal(t, "How Applicant Tracking Systems Read Your Resume", merged[0].Title)
	assert.Equal(t, "Jane Recruiter", merged[0].Author)
	assert.Contains(t, merged[0].Body, "ATS software extracts **sections** first.")
	assert.Equal(t, "Resume Tips", merged[0].Category, "fields absent from frontmatter are kept")

	assert.Equal(t, "new-post", merged[2].Slug)
	assert.Equal(t, "Body text.", merged[2].Body)

	require.Len(t, issues, 1)
	assert.Equal(t, "orphan", issues[0].Slug)
}

func TestLoadAll(t *testing.T) {
	c, issues, err := Load(Sources{
		Roles:    "testdata/jobRoles.js",
		Posts:    "testdata/posts.json",
		Pages:    "testdata/pages.yaml",
		PostsDir: "testdata/posts",
	})
	require.NoError(t, err)
	assert.Len(t, c.Roles, 3)
	assert.Len(t, c.Posts, 3)
	assert.Len(t, c.Pages, 2)
	assert.NotEmpty(t, issues)
	assert.Equal(t, []string{"testdata/jobRoles.js", "testdata/posts.json", "testdata/pages.yaml", "testdata/posts"}, c.Sources.Files())
}

func TestSplitFrontmatter(t *testing.T) {
	fm, body, had, err := splitFrontmatter([]byte("---\ntitle: x\n---\nbody\n"))
	require.NoError(t, err)
	assert.True(t, had)
	assert.Equal(t, "title: x\n", string(fm))
	assert.Equal(t, "body\n", string(body))

	_, body, had, err = splitFrontmatter([]byte("plain"))
	require.NoError(t, err)
	assert.False(t, had)
	assert.Equal(t, "plain", string(body))

	fm, body, had, err = splitFrontmatter([]byte("---\ntitle: x\n---"))
	require.NoError(t, err)
	assert.True(t, had)
	assert.Equal(t, "title: x\n", string(fm))
	assert.Empty(t, body)

	_, _, _, err = splitFrontmatter([]byte("---\ntitle: x\nbody"))
	assert.ErrorIs(t, err, ErrMissingClosingDelimiter)
}
