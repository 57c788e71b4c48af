// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble serializes an anthology into the OPF/NCX bundle the
// e-book compiler consumes: one XHTML file per article, a table of
// contents, an NCX navigation map, and the OPF manifest. Output is
// deterministic given its input; only disk writes can fail.
package assemble

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pdiddy/zinepress/pkg/types"
)

const (
	// OPFName is the manifest filename the compiler is pointed at.
	OPFName = "content.opf"
	// NCXName is the navigation map filename.
	NCXName = "contents.ncx"
	// TOCName is the table-of-contents page filename.
	TOCName = "contents.html"
)

// articleSlugRE collapses everything outside [a-zA-Z0-9] so a source URL
// becomes a safe article filename.
var articleSlugRE = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Bundle locates a written e-book source bundle.
type Bundle struct {
	// Dir is the bundle directory.
	Dir string

	// OPFPath is the path of the manifest file inside Dir.
	OPFPath string
}

// ArticleFilename returns the bundle filename for an article, derived
// from its source URL.
func ArticleFilename(art types.Article) string {
	return articleSlugRE.ReplaceAllString(art.SourceURL, "-") + ".html"
}

var articleTmpl = template.Must(template.New("article").Parse(`<?xml version="1.0" encoding="utf-8"?>
<html><head>
<meta charset="utf-8"/>
<title>{{.Title}}</title>
{{if .Author}}<meta name="author" content="{{.Author}}"/>
{{end}}{{if .Excerpt}}<meta name="description" content="{{.Excerpt}}"/>
{{end}}</head><body>
<h3 id="top">{{.Title}}</h3>
<h4><a href="{{.SourceURL}}">{{.Domain}}</a>{{if .Author}} by {{.Author}}{{end}}</h4>
<hr/>
{{.BodyHTML}}
</body></html>
`))

var tocTmpl = template.Must(template.New("toc").Parse(`<html><head>
<meta charset="utf-8"/>
<title>{{.Title}}</title>
</head><body>
<h1>Table of Contents</h1>
<ul>
{{range .Entries}}<li><a href="{{.Filename}}">{{.Title}}</a> {{.Excerpt}}</li>
{{end}}</ul>
</body></html>
`))

// Write serializes the anthology into dir and returns the bundle. The
// directory is created if needed. Image files referenced by articles are
// expected to already be present in dir (the simplify stage puts them
// there); Write only records them in the manifest.
func Write(anth types.Anthology, dir string) (*Bundle, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating bundle directory %s: %w", dir, err)
	}

	filenames := make([]string, len(anth.Articles))
	for i, art := range anth.Articles {
		filenames[i] = ArticleFilename(art)
		if err := writeArticle(art, filepath.Join(dir, filenames[i])); err != nil {
			return nil, err
		}
	}

	if err := writeTOC(anth, filenames, filepath.Join(dir, TOCName)); err != nil {
		return nil, err
	}

	ncxXML, err := renderNCX(anth, filenames)
	if err != nil {
		return nil, err
	}
	if err := writeFile(filepath.Join(dir, NCXName), ncxXML); err != nil {
		return nil, err
	}

	opfXML, err := renderOPF(anth, filenames)
	if err != nil {
		return nil, err
	}
	opfPath := filepath.Join(dir, OPFName)
	if err := writeFile(opfPath, opfXML); err != nil {
		return nil, err
	}

	return &Bundle{Dir: dir, OPFPath: opfPath}, nil
}

// articleData feeds articleTmpl; BodyHTML is already-sanitized markup and
// is inserted verbatim.
type articleData struct {
	types.Article
	BodyHTML template.HTML
}

func writeArticle(art types.Article, path string) error {
	var b strings.Builder
	data := articleData{Article: art, BodyHTML: template.HTML(art.Body)}
	if err := articleTmpl.Execute(&b, data); err != nil {
		return fmt.Errorf("rendering article %s: %w", art.SourceURL, err)
	}
	return writeFile(path, b.String())
}

type tocEntry struct {
	Filename string
	Title    string
	Excerpt  string
}

func writeTOC(anth types.Anthology, filenames []string, path string) error {
	entries := make([]tocEntry, len(anth.Articles))
	for i, art := range anth.Articles {
		entries[i] = tocEntry{Filename: filenames[i], Title: art.Title, Excerpt: art.Excerpt}
	}

	var b strings.Builder
	data := struct {
		Title   string
		Entries []tocEntry
	}{Title: anth.Title, Entries: entries}
	if err := tocTmpl.Execute(&b, data); err != nil {
		return fmt.Errorf("rendering table of contents: %w", err)
	}
	return writeFile(path, b.String())
}

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing bundle file %s: %w", filepath.Base(path), err)
	}
	return nil
}
