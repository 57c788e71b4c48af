// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package simplify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/zinepress/internal/httputil"
	"github.com/pdiddy/zinepress/pkg/types"
)

// ParserAPI simplifies pages through a remote readability-parser HTTP API.
// Rate-limit responses are retried with backoff; a rejected token is fatal
// for the whole run.
type ParserAPI struct {
	Client *http.Client
	Cfg    types.SimplifyConfig
}

// NewParserAPI returns a ParserAPI backend, defaulting the API root when
// cfg leaves it empty.
func NewParserAPI(client *http.Client, cfg types.SimplifyConfig) *ParserAPI {
	if cfg.ParserBase == "" {
		cfg.ParserBase = "https://readability.com/api/content/v1"
	}
	return &ParserAPI{Client: client, Cfg: cfg}
}

// Name returns the backend identifier.
func (p *ParserAPI) Name() string { return "parser-api" }

// parserResponse is the parser API's article payload.
type parserResponse struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`
	Domain  string `json:"domain"`
	Dek     string `json:"dek"`
	Excerpt string `json:"excerpt"`
}

// Simplify requests a simplified rendering of the bookmarked page.
func (p *ParserAPI) Simplify(ctx context.Context, bm types.Bookmark) (*types.Article, error) {
	params := url.Values{
		"url":   {bm.URL},
		"token": {p.Cfg.ParserToken},
	}
	reqURL := p.Cfg.ParserBase + "/parser?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", p.Cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, p.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("parser API request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrAuth
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("parser API still rate limited after retries")
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("parser API returned HTTP %d for %s", resp.StatusCode, bm.URL)
	}

	var pr parserResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("parsing parser API response: %w", err)
	}
	if pr.Content == "" {
		return nil, fmt.Errorf("parser API returned no content for %s", bm.URL)
	}

	return articleFromParser(bm, pr), nil
}

// articleFromParser merges the parser payload with bookmark metadata,
// preferring what the user saved over what the parser guessed.
func articleFromParser(bm types.Bookmark, pr parserResponse) *types.Article {
	domain := pr.Domain
	if domain == "" {
		domain = domainOf(bm.URL)
	}

	title := pr.Title
	if title == "" {
		title = bm.Title
	}
	if title == "" {
		title = fmt.Sprintf("%s article", domain)
	}

	excerpt := bm.Description
	if excerpt == "" {
		excerpt = pr.Dek
	}
	if excerpt == "" {
		excerpt = pr.Excerpt
	}

	return &types.Article{
		Title:     title,
		Author:    pr.Author,
		Excerpt:   excerpt,
		Domain:    domain,
		SourceURL: bm.URL,
		Body:      pr.Content,
	}
}
