// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"encoding/xml"
	"fmt"

	"github.com/pdiddy/zinepress/pkg/types"
)

// NCX navigation map XML structures. The schema is dictated by the
// e-book compiler, not invented here.

type ncxRoot struct {
	XMLName  xml.Name    `xml:"ncx"`
	Xmlns    string      `xml:"xmlns,attr"`
	XmlnsMbp string      `xml:"xmlns:mbp,attr"`
	Version  string      `xml:"version,attr"`
	Lang     string      `xml:"xml:lang,attr"`
	Head     ncxHead     `xml:"head"`
	DocTitle ncxDocTitle `xml:"docTitle"`
	NavMap   ncxNavMap   `xml:"navMap"`
}

type ncxHead struct {
	Meta []ncxMeta `xml:"meta"`
}

type ncxMeta struct {
	Name    string `xml:"name,attr"`
	Content string `xml:"content,attr"`
}

type ncxDocTitle struct {
	Text string `xml:"text"`
}

type ncxNavMap struct {
	Points []navPoint `xml:"navPoint"`
}

type navPoint struct {
	ID        string     `xml:"id,attr"`
	PlayOrder int        `xml:"playOrder,attr"`
	Class     string     `xml:"class,attr"`
	Label     ncxLabel   `xml:"navLabel"`
	Content   ncxContent `xml:"content"`
	Meta      []mbpMeta  `xml:"mbp:meta,omitempty"`
	Children  []navPoint `xml:"navPoint,omitempty"`
}

type ncxLabel struct {
	Text string `xml:"text"`
}

type ncxContent struct {
	Src string `xml:"src,attr"`
}

type mbpMeta struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

// renderNCX builds the periodical navigation map: a periodical nav point
// wrapping one section ("Unread") wrapping one nav point per article, in
// anthology order. The first article's src carries a #top fragment so the
// device lands at the article heading.
func renderNCX(anth types.Anthology, filenames []string) (string, error) {
	articles := make([]navPoint, len(anth.Articles))
	for i, art := range anth.Articles {
		src := filenames[i]
		if i == 0 {
			src += "#top"
		}
		p := navPoint{
			ID:        fmt.Sprintf("nav-%d", i+3),
			PlayOrder: i + 3,
			Class:     "article",
			Label:     ncxLabel{Text: art.Title},
			Content:   ncxContent{Src: src},
		}
		if art.Excerpt != "" {
			p.Meta = append(p.Meta, mbpMeta{Name: "description", Value: art.Excerpt})
		}
		if art.Author != "" {
			p.Meta = append(p.Meta, mbpMeta{Name: "author", Value: art.Author})
		}
		articles[i] = p
	}

	section := navPoint{
		ID:        "nav-2",
		PlayOrder: 2,
		Class:     "section",
		Label:     ncxLabel{Text: "Unread"},
		Content:   ncxContent{Src: TOCName},
		Children:  articles,
	}

	periodical := navPoint{
		ID:        "nav-1",
		PlayOrder: 1,
		Class:     "periodical",
		Label:     ncxLabel{Text: "Table of Contents"},
		Content:   ncxContent{Src: TOCName},
		Children:  []navPoint{section},
	}

	root := ncxRoot{
		Xmlns:    "http://www.daisy.org/z3986/2005/ncx/",
		XmlnsMbp: "http://mobipocket.com/ns/mbp",
		Version:  "2005-1",
		Lang:     "en",
		Head: ncxHead{Meta: []ncxMeta{
			{Name: "dtb:uid", Content: anth.UID},
			{Name: "dtb:depth", Content: "3"},
			{Name: "dtb:totalPageCount", Content: "0"},
			{Name: "dtb:maxPageNumber", Content: "0"},
		}},
		DocTitle: ncxDocTitle{Text: anth.Title},
		NavMap:   ncxNavMap{Points: []navPoint{periodical}},
	}

	out, err := xml.MarshalIndent(root, "", "  ")
	if err != nil {
		return "", fmt.Errorf("rendering navigation map: %w", err)
	}
	return xml.Header + string(out) + "\n", nil
}
