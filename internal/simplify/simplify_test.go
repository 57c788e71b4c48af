// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package simplify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/zinepress/pkg/types"
)

func TestNewBackendSelection(t *testing.T) {
	client := http.DefaultClient

	tests := []struct {
		name     string
		cfg      types.SimplifyConfig
		wantName string
		wantErr  bool
	}{
		{
			name:     "explicit parser-api with token",
			cfg:      types.SimplifyConfig{Backend: types.BackendParserAPI, ParserToken: "tok"},
			wantName: "parser-api",
		},
		{
			name:    "explicit parser-api without token fails",
			cfg:     types.SimplifyConfig{Backend: types.BackendParserAPI},
			wantErr: true,
		},
		{
			name:     "explicit readability",
			cfg:      types.SimplifyConfig{Backend: types.BackendReadability},
			wantName: "readability",
		},
		{
			name:     "default picks parser-api when token present",
			cfg:      types.SimplifyConfig{ParserToken: "tok"},
			wantName: "parser-api",
		},
		{
			name:     "default falls back to readability without token",
			cfg:      types.SimplifyConfig{},
			wantName: "readability",
		},
		{
			name:    "unknown backend fails",
			cfg:     types.SimplifyConfig{Backend: "mercury"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(client, tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, s.Name())
		})
	}
}

func TestStubArticleDeterministic(t *testing.T) {
	bm := types.Bookmark{
		URL:         "https://example.com/gone",
		Title:       "Vanished Page",
		Description: "worth a read",
	}

	first := StubArticle(bm)
	second := StubArticle(bm)
	assert.Equal(t, first, second, "stub must be deterministic for the same bookmark")

	assert.Equal(t, "Vanished Page", first.Title)
	assert.Equal(t, "worth a read", first.Excerpt)
	assert.Equal(t, "example.com", first.Domain)
	assert.True(t, first.Stub)
	assert.Contains(t, first.Body, `href="https://example.com/gone"`)
}

func TestStubArticleFallsBackToURLTitle(t *testing.T) {
	art := StubArticle(types.Bookmark{URL: "https://example.com/untitled"})
	assert.Equal(t, "https://example.com/untitled", art.Title)
}

func TestSanitizeBody(t *testing.T) {
	in := `<p onclick="evil()">Hello</p><script>alert(1)</script>` +
		`<img src="pic.jpeg" width="10" height="20"/>`

	out := SanitizeBody(in)

	assert.Contains(t, out, "<p>Hello</p>")
	assert.NotContains(t, out, "script")
	assert.NotContains(t, out, "onclick")
	assert.Contains(t, out, `src="pic.jpeg"`)
	assert.Contains(t, out, `width="10"`)
}

func TestReadabilitySimplify(t *testing.T) {
	const page = `<!DOCTYPE html><html><head><title>Local Extraction Works</title></head><body>
	<nav><a href="/">home</a> <a href="/about">about</a></nav>
	<article>
	<h1>Local Extraction Works</h1>
	<p>This is the first paragraph of a reasonably long article body that the
	extractor should keep. It talks about nothing in particular at length so
	that the readability heuristics treat it as real content.</p>
	<p>The second paragraph continues in the same spirit, adding more prose so
	the scoring pass has enough text to work with across multiple nodes.</p>
	<p>A third paragraph closes out the piece with yet more filler prose to be
	safely above any minimum content thresholds.</p>
	</article>
	</body></html>`

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	}))
	defer ts.Close()

	r := &Readability{Client: ts.Client(), UserAgent: "zinepress-test/0"}
	bm := types.Bookmark{URL: ts.URL + "/post", Title: "Saved Title"}

	art, err := r.Simplify(context.Background(), bm)
	require.NoError(t, err)

	assert.Equal(t, bm.URL, art.SourceURL)
	assert.Contains(t, art.Body, "first paragraph")
	assert.NotEmpty(t, art.Title)
	assert.False(t, art.Stub)
}

func TestReadabilitySimplifyHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	r := &Readability{Client: ts.Client(), UserAgent: "zinepress-test/0"}
	_, err := r.Simplify(context.Background(), types.Bookmark{URL: ts.URL + "/gone"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "404"))
}
