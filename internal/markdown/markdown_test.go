package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderBasic(t *testing.T) {
	doc, err := New().Render("# Parsing\n\nATS software extracts **sections** first.\n\n## Keywords\n\nMatch the posting.\n")
	require.NoError(t, err)

	assert.Contains(t, doc.HTML, `<h1 id="parsing">Parsing</h1>`)
	assert.Contains(t, doc.HTML, "<strong>sections</strong>")
	require.Len(t, doc.Headings, 2)
	assert.Equal(t, Heading{Level: 2, Text: "Keywords", ID: "keywords"}, doc.Headings[1])
	assert.Equal(t, 10, doc.WordCount)
}

func TestRenderDropsRawHTML(t *testing.T) {
	doc, err := New().Render("hello <script>alert(1)</script>\n\n<div onclick=\"x\">block</div>\n")
	require.NoError(t, err)
	assert.NotContains(t, doc.HTML, "<script>")
	assert.NotContains(t, doc.HTML, "onclick")
}

func TestRenderGFMTable(t *testing.T) {
	doc, err := New().Render("| a | b |\n|---|---|\n| 1 | 2 |\n")
	require.NoError(t, err)
	assert.Contains(t, doc.HTML, "<table>")
}

func TestRenderEmpty(t *testing.T) {
	doc, err := New().Render("")
	require.NoError(t, err)
	assert.Empty(t, doc.HTML)
	assert.Zero(t, doc.WordCount)
	assert.Empty(t, doc.Headings)
}
