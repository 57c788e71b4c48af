// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package simplify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/zinepress/pkg/types"
)

// newImageServer serves a PNG at /logo.png and 404s everything else.
func newImageServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/logo.png" {
			w.Header().Set("Content-Type", "image/png")
			w.Write([]byte("png-bytes"))
			return
		}
		http.NotFound(w, r)
	}))
}

func TestLocalizeImages(t *testing.T) {
	ts := newImageServer(t)
	defer ts.Close()

	dir := t.TempDir()
	art := &types.Article{
		SourceURL: ts.URL + "/post",
		Body:      `<p>Look:</p><img src="/logo.png"/>`,
	}

	err := LocalizeImages(context.Background(), ts.Client(), art, dir, "zinepress-test/0")
	require.NoError(t, err)

	require.Len(t, art.Images, 1)
	img := art.Images[0]
	assert.Equal(t, "image/png", img.MediaType)
	assert.True(t, strings.HasSuffix(img.Filename, ".png"))

	// File landed in the bundle dir with the fetched bytes.
	data, err := os.ReadFile(filepath.Join(dir, img.Filename))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	// src was rewritten to the local filename.
	assert.Contains(t, art.Body, `src="`+img.Filename+`"`)
	assert.NotContains(t, art.Body, `src="/logo.png"`)
}

func TestLocalizeImagesDeduplicatesWithinArticle(t *testing.T) {
	ts := newImageServer(t)
	defer ts.Close()

	dir := t.TempDir()
	art := &types.Article{
		SourceURL: ts.URL + "/post",
		Body:      `<img src="/logo.png"/><img src="/logo.png"/>`,
	}

	err := LocalizeImages(context.Background(), ts.Client(), art, dir, "zinepress-test/0")
	require.NoError(t, err)

	// One download, one manifest entry, both tags rewritten.
	require.Len(t, art.Images, 1)
	assert.Equal(t, 2, strings.Count(art.Body, `src="`+art.Images[0].Filename+`"`))
}

func TestLocalizeImagesLeavesFailedDownloads(t *testing.T) {
	ts := newImageServer(t)
	defer ts.Close()

	dir := t.TempDir()
	art := &types.Article{
		SourceURL: ts.URL + "/post",
		Body:      `<img src="/missing.png"/><img src="/logo.png"/>`,
	}

	err := LocalizeImages(context.Background(), ts.Client(), art, dir, "zinepress-test/0")
	require.NoError(t, err)

	// The missing image keeps its original src; the good one is localized.
	assert.Contains(t, art.Body, `src="/missing.png"`)
	require.Len(t, art.Images, 1)
}

func TestLocalizeImagesNoImagesIsNoop(t *testing.T) {
	art := &types.Article{
		SourceURL: "https://example.com/post",
		Body:      `<p>Plain text only.</p>`,
	}

	err := LocalizeImages(context.Background(), http.DefaultClient, art, t.TempDir(), "ua")
	require.NoError(t, err)
	assert.Equal(t, `<p>Plain text only.</p>`, art.Body)
	assert.Empty(t, art.Images)
}
