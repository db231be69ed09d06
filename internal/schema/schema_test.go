package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumeanalyzerai/prerender/internal/config"
	"github.com/resumeanalyzerai/prerender/internal/content"
)

func testSite() config.SiteConfig {
	return config.SiteConfig{
		Name:         "Resume Analyzer AI",
		BaseURL:      "https://www.resumeanalyzerai.com",
		Logo:         "https://www.resumeanalyzerai.com/logo512.png",
		DefaultImage: "https://www.resumeanalyzerai.com/og-image.png",
	}
}

func chef() content.JobRole {
	return content.JobRole{
		Slug:           "chef",
		Name:           "Chef",
		Industry:       "Hospitality",
		Keywords:       []string{"Culinary Arts", "Food Safety"},
		Skills:         []string{"Menu Development"},
		Description:    "Create a chef resume.",
		Tips:           []string{"Highlight culinary education"},
		CommonMistakes: []string{"Not highlighting culinary education"},
	}
}

func decodeMap(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	return m
}

func TestPageURL(t *testing.T) {
	assert.Equal(t, "https://x.test/", PageURL("https://x.test", "/"))
	assert.Equal(t, "https://x.test/", PageURL("https://x.test/", ""))
	assert.Equal(t, "https://x.test/resume-for/chef", PageURL("https://x.test/", "/resume-for/chef"))
	assert.Equal(t, "https://x.test/blog", PageURL("https://x.test", "blog"))
}

func TestRoleFAQ(t *testing.T) {
	faq := RoleFAQ(chef())
	require.Len(t, faq.MainEntity, 4)
	assert.Equal(t, "What skills should I put on a Chef resume?", faq.MainEntity[0].Name)
	assert.Equal(t, "Applicant tracking systems look for keywords such as Culinary Arts and Food Safety.", faq.MainEntity[1].AcceptedAnswer.Text)
	assert.Equal(t, "Highlight culinary education.", faq.MainEntity[2].AcceptedAnswer.Text)
}

func TestRoleFAQEmptyListsMarshalAsArray(t *testing.T) {
	s, err := Marshal(RoleFAQ(content.JobRole{Slug: "x", Name: "X"}))
	require.NoError(t, err)
	m := decodeMap(t, s)
	assert.Equal(t, []any{}, m["mainEntity"])

	s, err = Marshal(RoleHowTo(content.JobRole{Slug: "x", Name: "X"}))
	require.NoError(t, err)
	assert.Equal(t, []any{}, decodeMap(t, s)["step"])
}

func TestRoleHowToSteps(t *testing.T) {
	h := RoleHowTo(chef())
	require.Len(t, h.Step, 2)
	assert.Equal(t, 1, h.Step[0].Position)
	assert.Equal(t, "Avoid: Not highlighting culinary education", h.Step[1].Name)
	assert.Equal(t, 2, h.Step[1].Position)
}

func TestBreadcrumbs(t *testing.T) {
	b := RoleBreadcrumbs(testSite(), chef())
	require.Len(t, b.ItemListElement, 3)
	assert.Equal(t, "Home", b.ItemListElement[0].Name)
	assert.Equal(t, "https://www.resumeanalyzerai.com/resume-for", b.ItemListElement[1].Item)
	assert.Equal(t, 3, b.ItemListElement[2].Position)
	assert.Equal(t, "https://www.resumeanalyzerai.com/resume-for/chef", b.ItemListElement[2].Item)
}

func TestPostArticle(t *testing.T) {
	post := content.BlogPost{
		Slug: "ats-guide", Title: "ATS Guide", Description: "d", Keywords: "ats, resume",
		Category: "Guides", ReadTime: "8 min read", Date: "2024-01-05",
	}
	a := PostArticle(testSite(), post, ArticleMeta{Modified: "2024-02-01T10:00:00Z", WordCount: 120})
	assert.Equal(t, "PT8M", a.TimeRequired)
	assert.Equal(t, "https://www.resumeanalyzerai.com/blog/ats-guide", a.MainEntityOfPage.ID)

	s, err := Marshal(a)
	require.NoError(t, err)
	m := decodeMap(t, s)
	assert.Equal(t, "Organization", m["author"].(map[string]any)["@type"])
	assert.Equal(t, "2024-02-01T10:00:00Z", m["dateModified"])

	post.Author = "Jane Doe"
	a = PostArticle(testSite(), post, ArticleMeta{})
	assert.Equal(t, &Person{Type: "Person", Name: "Jane Doe"}, a.Author)
	assert.Empty(t, a.DateModified)
}

func TestItemListEmpty(t *testing.T) {
	s, err := Marshal(BlogList(testSite(), nil))
	require.NoError(t, err)
	m := decodeMap(t, s)
	assert.Equal(t, []any{}, m["itemListElement"])
	assert.Equal(t, float64(0), m["numberOfItems"])
}

func TestMarshalEscapesScriptClose(t *testing.T) {
	role := chef()
	role.Description = "</script><script>alert(1)</script>"
	s, err := Marshal(RoleHowTo(role))
	require.NoError(t, err)
	assert.NotContains(t, s, "</script>")
	assert.Contains(t, s, `\u003c/script\u003e`)
}

func TestOrganizationAndWebSite(t *testing.T) {
	site := testSite()
	site.SameAs = []string{"https://twitter.com/resumeanalyzer"}
	org := NewOrganization(site)
	assert.Equal(t, Context, org.Context)
	assert.Equal(t, "https://www.resumeanalyzerai.com/", org.URL)
	require.NotNil(t, org.Logo)

	ws := NewWebSite(site)
	require.NotNil(t, ws.Publisher)
	assert.Empty(t, ws.Publisher.Context)
}

func TestISODuration(t *testing.T) {
	assert.Equal(t, "PT5M", ISODuration("5 min read"))
	assert.Empty(t, ISODuration("quick read"))
	assert.Empty(t, ISODuration(""))
}

func TestMarshalAllProducesValidJSON(t *testing.T) {
	site := testSite()
	docs, err := MarshalAll(NewOrganization(site), StaticPage(site, content.Page{Path: "/about", Title: "About"}))
	require.NoError(t, err)
	require.Len(t, docs, 2)
	for _, d := range docs {
		assert.True(t, json.Valid([]byte(d)))
	}
}

func TestMarshalAllSkipsNil(t *testing.T) {
	site := testSite()
	docs, err := MarshalAll(nil, NewOrganization(site), nil)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Contains(t, docs[0], `"@type": "Organization"`)

	_, err = MarshalAll(func() {})
	require.Error(t, err)
}
