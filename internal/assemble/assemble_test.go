// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/zinepress/pkg/types"
)

func sampleAnthology() types.Anthology {
	return types.Anthology{
		Title:   "Pinboard Unread",
		UID:     "cafebabe12345678",
		Created: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
		Articles: []types.Article{
			{
				Title:     "First Article",
				Author:    "Ana Author",
				Excerpt:   "the first one",
				Domain:    "alpha.example",
				SourceURL: "https://alpha.example/one",
				Body:      "<p>Alpha body.</p>",
			},
			{
				Title:     "Second Article",
				Domain:    "beta.example",
				SourceURL: "https://beta.example/two",
				Body:      "<p>Beta body.</p>",
				Images: []types.ImageRef{
					{Filename: "https-beta-example-pic-jpeg.jpeg", MediaType: "image/jpeg"},
				},
			},
			{
				Title:     "Third Article",
				Domain:    "gamma.example",
				SourceURL: "https://gamma.example/three",
				Body:      "<p>Gamma body.</p>",
				Stub:      true,
			},
		},
	}
}

// Parse-back structs keyed on local element names only.
type parsedOPF struct {
	Manifest struct {
		Items []struct {
			Href      string `xml:"href,attr"`
			ID        string `xml:"id,attr"`
			MediaType string `xml:"media-type,attr"`
		} `xml:"item"`
	} `xml:"manifest"`
	Spine struct {
		Toc  string `xml:"toc,attr"`
		Refs []struct {
			IDRef string `xml:"idref,attr"`
		} `xml:"itemref"`
	} `xml:"spine"`
	Guide struct {
		Refs []struct {
			Title string `xml:"title,attr"`
			Type  string `xml:"type,attr"`
			Href  string `xml:"href,attr"`
		} `xml:"reference"`
	} `xml:"guide"`
}

func TestWriteBundleThreeArticlesInOrder(t *testing.T) {
	anth := sampleAnthology()
	dir := t.TempDir()

	bundle, err := Write(anth, dir)
	require.NoError(t, err)
	assert.Equal(t, dir, bundle.Dir)
	assert.Equal(t, filepath.Join(dir, OPFName), bundle.OPFPath)

	// Every article file exists and carries its source URL tag.
	for _, art := range anth.Articles {
		data, err := os.ReadFile(filepath.Join(dir, ArticleFilename(art)))
		require.NoError(t, err)
		content := string(data)
		assert.Contains(t, content, `href="`+art.SourceURL+`"`)
		assert.Contains(t, content, art.Body)
		assert.Contains(t, content, `<h3 id="top">`+art.Title+`</h3>`)
	}

	// The spine lists exactly 3 articles in input order.
	opfData, err := os.ReadFile(bundle.OPFPath)
	require.NoError(t, err)
	var opf parsedOPF
	require.NoError(t, xml.Unmarshal(opfData, &opf))

	require.Len(t, opf.Spine.Refs, 3)
	for i, art := range anth.Articles {
		assert.Equal(t, ArticleFilename(art), opf.Spine.Refs[i].IDRef)
	}
	assert.Equal(t, "ncx", opf.Spine.Toc)
}

func TestWriteBundleManifest(t *testing.T) {
	anth := sampleAnthology()
	dir := t.TempDir()

	bundle, err := Write(anth, dir)
	require.NoError(t, err)

	opfData, err := os.ReadFile(bundle.OPFPath)
	require.NoError(t, err)
	var opf parsedOPF
	require.NoError(t, xml.Unmarshal(opfData, &opf))

	// ncx + toc + 3 articles + 1 image.
	require.Len(t, opf.Manifest.Items, 6)
	assert.Equal(t, NCXName, opf.Manifest.Items[0].Href)
	assert.Equal(t, TOCName, opf.Manifest.Items[1].Href)

	var imageItems int
	for _, item := range opf.Manifest.Items {
		if item.MediaType == "image/jpeg" {
			imageItems++
		}
	}
	assert.Equal(t, 1, imageItems)

	// Guide: start reference plus one text reference per article.
	require.Len(t, opf.Guide.Refs, 4)
	assert.Equal(t, "start", opf.Guide.Refs[0].Type)
	assert.Equal(t, TOCName, opf.Guide.Refs[0].Href)
	assert.Equal(t, "First Article", opf.Guide.Refs[1].Title)
}

func TestWriteBundleDeduplicatesSharedImages(t *testing.T) {
	// Two articles from the same site embedding the same image must yield
	// one manifest item, not two.
	shared := types.ImageRef{Filename: "shared-logo.png", MediaType: "image/png"}
	anth := types.Anthology{
		Title:   "Shared Images",
		UID:     "uid1",
		Created: time.Now(),
		Articles: []types.Article{
			{Title: "A", SourceURL: "https://site.example/a", Body: "<p>a</p>", Images: []types.ImageRef{shared}},
			{Title: "B", SourceURL: "https://site.example/b", Body: "<p>b</p>", Images: []types.ImageRef{shared}},
		},
	}

	bundle, err := Write(anth, t.TempDir())
	require.NoError(t, err)

	opfData, err := os.ReadFile(bundle.OPFPath)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(opfData), `href="shared-logo.png"`))
}

func TestWriteBundleNCX(t *testing.T) {
	anth := sampleAnthology()
	dir := t.TempDir()

	_, err := Write(anth, dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, NCXName))
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, `content="cafebabe12345678"`)
	assert.Contains(t, content, "<text>Pinboard Unread</text>")
	assert.Contains(t, content, `class="periodical"`)
	assert.Contains(t, content, `class="section"`)

	// Articles appear in anthology order; the first carries the #top anchor.
	first := strings.Index(content, "First Article")
	second := strings.Index(content, "Second Article")
	third := strings.Index(content, "Third Article")
	require.True(t, first >= 0 && second >= 0 && third >= 0)
	assert.Less(t, first, second)
	assert.Less(t, second, third)
	assert.Contains(t, content, ArticleFilename(anth.Articles[0])+"#top")

	// Author and description ride along as mbp metadata.
	assert.Contains(t, content, "Ana Author")
	assert.Contains(t, content, "the first one")
}

func TestWriteBundleTOC(t *testing.T) {
	anth := sampleAnthology()
	dir := t.TempDir()

	_, err := Write(anth, dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, TOCName))
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "<h1>Table of Contents</h1>")
	for _, art := range anth.Articles {
		assert.Contains(t, content, `href="`+ArticleFilename(art)+`"`)
		assert.Contains(t, content, art.Title)
	}
}

func TestWriteBundleEmptyAnthology(t *testing.T) {
	anth := types.Anthology{Title: "Nothing Unread", UID: "uid0", Created: time.Now()}
	dir := t.TempDir()

	bundle, err := Write(anth, dir)
	require.NoError(t, err)

	opfData, err := os.ReadFile(bundle.OPFPath)
	require.NoError(t, err)
	var opf parsedOPF
	require.NoError(t, xml.Unmarshal(opfData, &opf))

	// Only the navigation items remain; no articles, no spine entries.
	assert.Len(t, opf.Manifest.Items, 2)
	assert.Empty(t, opf.Spine.Refs)
}

func TestArticleFilename(t *testing.T) {
	art := types.Article{SourceURL: "https://example.com/a_b/c?d=1"}
	got := ArticleFilename(art)
	assert.Equal(t, "https-example-com-a-b-c-d-1.html", got)
}

func TestWriteBundleUnwritableDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Chmod(dir, 0o555))
	t.Cleanup(func() { os.Chmod(dir, 0o755) })

	_, err := Write(sampleAnthology(), dir)
	require.Error(t, err)
}
