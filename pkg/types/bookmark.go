// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Bookmark is one saved link from the bookmarking service. Bookmarks are
// read-only for the duration of a run and keep the order the service
// returned them in.
type Bookmark struct {
	// URL is the bookmarked page address.
	URL string `json:"url" yaml:"url"`

	// Title is the title the user saved the bookmark under.
	Title string `json:"title" yaml:"title"`

	// Description is the user's note on the bookmark, if any.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Saved is when the bookmark was added.
	Saved time.Time `json:"saved" yaml:"saved"`

	// Tags lists the user's tags in source order.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// ToRead reports whether the bookmark is still marked unread.
	ToRead bool `json:"to_read" yaml:"to_read"`
}

// ImageRef names one image file stored alongside an article in the bundle.
type ImageRef struct {
	// Filename is the image file name relative to the bundle directory.
	Filename string `json:"filename" yaml:"filename"`

	// MediaType is the image MIME type (e.g. "image/jpeg").
	MediaType string `json:"media_type" yaml:"media_type"`
}

// Article is the simplified rendering of one bookmarked page. It is derived
// 1:1 from a Bookmark and held only in memory during assembly.
type Article struct {
	// Title is the extracted article title, falling back to the bookmark title.
	Title string `json:"title" yaml:"title"`

	// Author is the extracted byline, if the extractor found one.
	Author string `json:"author,omitempty" yaml:"author,omitempty"`

	// Excerpt is a short description used in the table of contents.
	Excerpt string `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`

	// Domain is the host the article was published on.
	Domain string `json:"domain,omitempty" yaml:"domain,omitempty"`

	// SourceURL is the bookmarked URL the article was simplified from.
	SourceURL string `json:"source_url" yaml:"source_url"`

	// Body is the simplified article body HTML.
	Body string `json:"body" yaml:"body"`

	// Stub reports whether the body is a fallback stub because the page
	// could not be simplified.
	Stub bool `json:"stub,omitempty" yaml:"stub,omitempty"`

	// Images lists image files referenced by the body, already rewritten
	// to local bundle filenames.
	Images []ImageRef `json:"images,omitempty" yaml:"images,omitempty"`
}

// Anthology is the ordered collection of simplified articles destined for
// one output e-book. Article order equals the bookmark fetch order.
type Anthology struct {
	// Title is the collection title shown on the device.
	Title string `json:"title" yaml:"title"`

	// UID uniquely identifies this build of the anthology.
	UID string `json:"uid" yaml:"uid"`

	// Language is the dc:language value for the bundle manifest.
	// Empty means "en".
	Language string `json:"language,omitempty" yaml:"language,omitempty"`

	// Created is when the anthology was assembled.
	Created time.Time `json:"created" yaml:"created"`

	// Articles holds the simplified articles in bookmark order.
	Articles []Article `json:"articles" yaml:"articles"`
}
