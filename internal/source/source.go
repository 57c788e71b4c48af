// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source retrieves a user's unread bookmarks from a Pinboard-style
// bookmarking service. Authentication is a two-step handshake: the account
// password proves identity against the API root, which returns the user's
// feed secret; the unread feed is then read with that secret.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/zinepress/pkg/types"
)

// ErrAuth indicates the account credentials were rejected. The run cannot
// proceed until the user fixes them.
var ErrAuth = errors.New("bookmark service rejected credentials")

// ErrTransient indicates a network or server-side failure. The caller may
// retry the fetch once before treating it as fatal.
var ErrTransient = errors.New("transient bookmark service failure")

// Client talks to the bookmarking service.
type Client struct {
	HTTP *http.Client
	Cfg  types.SourceConfig
}

// NewClient returns a Client using cfg, filling in service defaults for
// any base URL or count left empty.
func NewClient(httpClient *http.Client, cfg types.SourceConfig) *Client {
	if cfg.APIBase == "" {
		cfg.APIBase = "https://api.pinboard.in/v1"
	}
	if cfg.FeedBase == "" {
		cfg.FeedBase = "https://feeds.pinboard.in"
	}
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = 20
	}
	if cfg.FeedCount <= 0 {
		cfg.FeedCount = 400
	}
	return &Client{HTTP: httpClient, Cfg: cfg}
}

// secretResponse is the user/secret API payload.
type secretResponse struct {
	Result string `json:"result"`
}

// Secret exchanges the account password for the user's feed secret.
// A 401 maps to ErrAuth; network errors and 5xx responses map to ErrTransient.
func (c *Client) Secret(ctx context.Context, username, password string) (string, error) {
	reqURL := c.Cfg.APIBase + "/user/secret?format=json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(username, password)
	req.Header.Set("User-Agent", c.Cfg.UserAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("requesting feed secret: %v: %w", err, ErrTransient)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", fmt.Errorf("checking password for %s: %w", username, ErrAuth)
	case resp.StatusCode >= 500:
		return "", fmt.Errorf("feed secret endpoint returned HTTP %d: %w", resp.StatusCode, ErrTransient)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("feed secret endpoint returned HTTP %d", resp.StatusCode)
	}

	var sr secretResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", fmt.Errorf("parsing feed secret response: %w", err)
	}
	if sr.Result == "" {
		return "", fmt.Errorf("feed secret response was empty")
	}
	return sr.Result, nil
}

// feedEntry is one item of the service's JSON feed schema.
type feedEntry struct {
	URL     string   `json:"u"`
	Title   string   `json:"d"`
	Note    string   `json:"n"`
	SavedAt string   `json:"dt"`
	Tags    []string `json:"t"`
}

// Unread fetches the user's unread bookmarks using the feed secret and
// returns the oldest MaxItems of them, oldest first. An empty feed is a
// normal empty slice, not an error.
func (c *Client) Unread(ctx context.Context, username, secret string) ([]types.Bookmark, error) {
	feedURL := fmt.Sprintf("%s/json/secret:%s/u:%s/toread/?count=%d",
		c.Cfg.FeedBase, secret, username, c.Cfg.FeedCount)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.Cfg.UserAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting unread feed: %v: %w", err, ErrTransient)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("unread feed rejected secret: %w", ErrAuth)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("unread feed returned HTTP %d: %w", resp.StatusCode, ErrTransient)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unread feed returned HTTP %d", resp.StatusCode)
	}

	var entries []feedEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("parsing unread feed: %w", err)
	}

	logrus.Debugf("unread feed returned %d entries, keeping oldest %d",
		len(entries), c.Cfg.MaxItems)

	// The feed is newest-first. Keep the tail (the oldest entries) and
	// reverse it so the anthology reads oldest first.
	if len(entries) > c.Cfg.MaxItems {
		entries = entries[len(entries)-c.Cfg.MaxItems:]
	}

	bookmarks := make([]types.Bookmark, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		bookmarks = append(bookmarks, toBookmark(entries[i]))
	}
	return bookmarks, nil
}

// FetchUnread performs the full handshake-then-feed sequence.
func (c *Client) FetchUnread(ctx context.Context, username, password string) ([]types.Bookmark, error) {
	secret, err := c.Secret(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return c.Unread(ctx, username, secret)
}

func toBookmark(e feedEntry) types.Bookmark {
	bm := types.Bookmark{
		URL:         e.URL,
		Title:       e.Title,
		Description: e.Note,
		Tags:        e.Tags,
		ToRead:      true,
	}
	if t, err := time.Parse(time.RFC3339, e.SavedAt); err == nil {
		bm.Saved = t
	}
	return bm
}
