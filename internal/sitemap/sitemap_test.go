package sitemap

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = "https://www.resumeanalyzerai.com"

func TestBuildOrdersAndDeduplicates(t *testing.T) {
	doc, err := Build(base, []Entry{
		{Route: "/resume-for/chef", LastMod: "2024-05-01"},
		{Route: "/blog"},
		{Route: "/resume-for"},
		{Route: "/blog"},
	})
	require.NoError(t, err)

	var set urlSet
	require.NoError(t, xml.Unmarshal(doc, &set))
	locs := make([]string, 0, len(set.URLs))
	for _, u := range set.URLs {
		locs = append(locs, u.Loc)
	}
	assert.Equal(t, []string{
		base + "/",
		base + "/blog",
		base + "/resume-for",
		base + "/resume-for/chef",
	}, locs)
	assert.Equal(t, "2024-05-01", set.URLs[3].LastMod)
	assert.Equal(t, "0.6", set.URLs[3].Priority)
	assert.Equal(t, "0.8", set.URLs[1].Priority)
	assert.Contains(t, string(doc), `xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`)
}

func TestBuildEmpty(t *testing.T) {
	doc, err := Build(base, nil)
	require.NoError(t, err)
	var set urlSet
	require.NoError(t, xml.Unmarshal(doc, &set))
	require.Len(t, set.URLs, 1)
	assert.Equal(t, base+"/", set.URLs[0].Loc)
}

func TestWriteKeepsExistingRobots(t *testing.T) {
	dir := t.TempDir()
	robots := filepath.Join(dir, RobotsFile)
	require.NoError(t, os.WriteFile(robots, []byte("User-agent: *\nDisallow: /admin\n"), 0o644))

	require.NoError(t, Write(dir, base, []Entry{{Route: "/blog"}}, false))
	data, err := os.ReadFile(robots)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Disallow: /admin")
	assert.FileExists(t, filepath.Join(dir, SitemapFile))

	require.NoError(t, Write(dir, base, nil, true))
	data, err = os.ReadFile(robots)
	require.NoError(t, err)
	assert.Equal(t, "User-agent: *\nAllow: /\n\nSitemap: "+base+"/sitemap.xml\n", string(data))
}
