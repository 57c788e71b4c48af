// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package simplify turns a bookmarked page into readable article HTML.
// Two backends implement the Simplifier interface: a remote
// readability-parser API and a local go-readability extractor.
package simplify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/zinepress/pkg/types"
)

// ErrAuth indicates the parser API token was rejected. No further calls
// can succeed, so the run must abort immediately.
var ErrAuth = errors.New("content parser rejected token")

// Simplifier extracts readable article content from one bookmarked page.
// Any error other than ErrAuth is a per-item extraction failure: the
// caller substitutes a stub article and continues.
type Simplifier interface {
	Name() string
	Simplify(ctx context.Context, bm types.Bookmark) (*types.Article, error)
}

// New selects a backend from cfg. An explicit parser-api backend requires
// a token; with no explicit backend the parser API is used when a token
// is configured and local extraction otherwise.
func New(client *http.Client, cfg types.SimplifyConfig) (Simplifier, error) {
	switch cfg.Backend {
	case types.BackendParserAPI:
		if cfg.ParserToken == "" {
			return nil, fmt.Errorf("parser-api backend requires a parser token")
		}
		return NewParserAPI(client, cfg), nil
	case types.BackendReadability:
		return &Readability{Client: client, UserAgent: cfg.UserAgent}, nil
	case "":
		if cfg.ParserToken != "" {
			return NewParserAPI(client, cfg), nil
		}
		return &Readability{Client: client, UserAgent: cfg.UserAgent}, nil
	default:
		return nil, fmt.Errorf("unknown simplify backend %q", cfg.Backend)
	}
}

// StubArticle builds the deterministic fallback article used when a page
// cannot be simplified: the bookmark title plus a link to the source.
func StubArticle(bm types.Bookmark) *types.Article {
	title := bm.Title
	if title == "" {
		title = bm.URL
	}
	return &types.Article{
		Title:     title,
		Excerpt:   bm.Description,
		Domain:    domainOf(bm.URL),
		SourceURL: bm.URL,
		Body: fmt.Sprintf(
			`<p>This page could not be simplified. Read it online: <a href=%q>%s</a></p>`,
			bm.URL, bm.URL),
		Stub: true,
	}
}

// domainOf returns the host part of rawURL, or "" if it does not parse.
func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
