// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package simplify

import "github.com/microcosm-cc/bluemonday"

// bodyPolicy keeps user-generated article markup and image tags, and
// strips scripts, event handlers, and other markup the e-book compiler
// has no use for.
var bodyPolicy = newBodyPolicy()

func newBodyPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("width", "height").OnElements("img")
	return p
}

// SanitizeBody returns article body HTML reduced to the allowed markup.
func SanitizeBody(html string) string {
	return bodyPolicy.Sanitize(html)
}
