// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package simplify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/zinepress/pkg/types"
)

// imageSlugRE collapses everything outside [a-zA-Z0-9] so an image URL
// becomes a safe bundle filename.
var imageSlugRE = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// LocalizeImages downloads the images referenced by the article body into
// dir, rewrites their src attributes to the local filenames, and records
// them in art.Images for the bundle manifest. A failed image download
// leaves that src untouched; only an unparseable body is an error.
func LocalizeImages(ctx context.Context, client *http.Client, art *types.Article, dir, userAgent string) error {
	if !strings.Contains(art.Body, "<img") {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(art.Body))
	if err != nil {
		return fmt.Errorf("parsing article body for %s: %w", art.SourceURL, err)
	}

	base, err := url.Parse(art.SourceURL)
	if err != nil {
		return fmt.Errorf("parsing source URL %q: %w", art.SourceURL, err)
	}

	// One download per distinct image URL within the article.
	fetched := make(map[string]string) // absolute URL → local filename

	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src, ok := sel.Attr("src")
		if !ok || src == "" {
			return
		}

		ref, parseErr := url.Parse(src)
		if parseErr != nil {
			logrus.Debugf("leaving unparseable img src %q in %s", src, art.SourceURL)
			return
		}
		absURL := base.ResolveReference(ref).String()

		if name, done := fetched[absURL]; done {
			if name != "" {
				sel.SetAttr("src", name)
			}
			return
		}

		name, mediaType, fetchErr := fetchImage(ctx, client, absURL, dir, userAgent)
		if fetchErr != nil {
			logrus.Debugf("not rewriting img %s: %v", absURL, fetchErr)
			fetched[absURL] = ""
			return
		}

		fetched[absURL] = name
		art.Images = append(art.Images, types.ImageRef{Filename: name, MediaType: mediaType})
		sel.SetAttr("src", name)
	})

	body, err := doc.Find("body").Html()
	if err != nil {
		return fmt.Errorf("serializing article body for %s: %w", art.SourceURL, err)
	}
	art.Body = body
	return nil
}

// fetchImage downloads one image and writes it into dir, returning the
// local filename and media type.
func fetchImage(ctx context.Context, client *http.Client, imgURL, dir, userAgent string) (name, mediaType string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imgURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	mediaType = strings.TrimSpace(strings.SplitN(resp.Header.Get("Content-Type"), ";", 2)[0])
	ext := imageExt(mediaType)
	if !strings.HasPrefix(mediaType, "image/") {
		return "", "", fmt.Errorf("unexpected content type %q", mediaType)
	}

	name = imageSlugRE.ReplaceAllString(imgURL, "-") + ext
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", "", fmt.Errorf("creating image file: %w", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", "", fmt.Errorf("writing image file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", "", fmt.Errorf("closing image file: %w", err)
	}
	return name, mediaType, nil
}

// imageExt maps a media type to a filename extension. Unknown image
// types keep the bare slug, which the compiler accepts.
func imageExt(mediaType string) string {
	switch mediaType {
	case "image/jpg", "image/jpeg":
		return ".jpeg"
	case "image/gif":
		return ".gif"
	case "image/png":
		return ".png"
	default:
		return ""
	}
}
