// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package simplify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	readability "github.com/go-shiori/go-readability"

	"github.com/pdiddy/zinepress/pkg/types"
)

// Readability simplifies pages locally with go-readability, for runs
// without a parser API token. The page itself is still fetched over the
// network; only the extraction happens locally.
type Readability struct {
	Client    *http.Client
	UserAgent string
}

// Name returns the backend identifier.
func (r *Readability) Name() string { return "readability" }

// Simplify fetches the bookmarked page and extracts its readable content.
func (r *Readability) Simplify(ctx context.Context, bm types.Bookmark) (*types.Article, error) {
	pageURL, err := url.Parse(bm.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing bookmark URL %q: %w", bm.URL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, bm.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", r.UserAgent)

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", bm.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: HTTP %d", bm.URL, resp.StatusCode)
	}

	page, err := readability.FromReader(resp.Body, pageURL)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", bm.URL, err)
	}
	if page.Content == "" {
		return nil, fmt.Errorf("extraction produced no content for %s", bm.URL)
	}

	domain := page.SiteName
	if domain == "" {
		domain = pageURL.Host
	}

	title := page.Title
	if title == "" {
		title = bm.Title
	}
	if title == "" {
		title = fmt.Sprintf("%s article", domain)
	}

	excerpt := bm.Description
	if excerpt == "" {
		excerpt = page.Excerpt
	}

	return &types.Article{
		Title:     title,
		Author:    page.Byline,
		Excerpt:   excerpt,
		Domain:    domain,
		SourceURL: bm.URL,
		Body:      page.Content,
	}, nil
}
