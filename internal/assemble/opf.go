// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/pdiddy/zinepress/pkg/types"
)

// OPF manifest XML structures, matching what the e-book compiler expects
// for a periodical package.

type opfPackage struct {
	XMLName          xml.Name    `xml:"package"`
	Xmlns            string      `xml:"xmlns,attr"`
	Version          string      `xml:"version,attr"`
	UniqueIdentifier string      `xml:"unique-identifier,attr"`
	Metadata         opfMetadata `xml:"metadata"`
	Manifest         opfManifest `xml:"manifest"`
	Spine            opfSpine    `xml:"spine"`
	Tours            struct{}    `xml:"tours"`
	Guide            opfGuide    `xml:"guide"`
}

type opfMetadata struct {
	XmlnsDC  string     `xml:"xmlns:dc,attr"`
	XmlnsOPF string     `xml:"xmlns:opf,attr"`
	DC       dcMetadata `xml:"dc-metadata"`
	X        xMetadata  `xml:"x-metadata"`
}

type dcMetadata struct {
	Title      string       `xml:"dc:title"`
	Language   string       `xml:"dc:language"`
	Identifier dcIdentifier `xml:"dc:identifier"`
	Creator    string       `xml:"dc:creator"`
	Source     string       `xml:"dc:source"`
	Date       dcDate       `xml:"dc:date"`
}

type dcIdentifier struct {
	ID    string `xml:"id,attr"`
	Value string `xml:",chardata"`
}

type dcDate struct {
	Event string `xml:"opf:event,attr"`
	Value string `xml:",chardata"`
}

type xMetadata struct {
	Output opfOutput `xml:"output"`
}

type opfOutput struct {
	ContentType string `xml:"content-type,attr"`
	Encoding    string `xml:"encoding,attr"`
}

type opfManifest struct {
	Items []opfItem `xml:"item"`
}

type opfItem struct {
	Href      string `xml:"href,attr"`
	ID        string `xml:"id,attr"`
	MediaType string `xml:"media-type,attr"`
}

type opfSpine struct {
	Toc  string       `xml:"toc,attr"`
	Refs []opfItemRef `xml:"itemref"`
}

type opfItemRef struct {
	IDRef string `xml:"idref,attr"`
}

type opfGuide struct {
	Refs []opfReference `xml:"reference"`
}

type opfReference struct {
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
	Href  string `xml:"href,attr"`
}

// renderOPF builds the package manifest: navigation and TOC items, one
// item plus spine entry per article in anthology order, and each
// article's images. Image items are deduplicated across articles;
// duplicate manifest IDs are fatal to the compiler.
func renderOPF(anth types.Anthology, filenames []string) (string, error) {
	language := anth.Language
	if language == "" {
		language = "en"
	}

	pkg := opfPackage{
		Xmlns:            "http://www.idpf.org/2007/opf",
		Version:          "2.0",
		UniqueIdentifier: "uid",
		Metadata: opfMetadata{
			XmlnsDC:  "http://purl.org/dc/elements/1.1/",
			XmlnsOPF: "http://www.idpf.org/2007/opf",
			DC: dcMetadata{
				Title:      anth.Title,
				Language:   language,
				Identifier: dcIdentifier{ID: "uid", Value: anth.UID},
				Creator:    "zinepress",
				Source:     "zinepress",
				Date:       dcDate{Event: "publication", Value: anth.Created.UTC().Format(time.RFC3339)},
			},
			X: xMetadata{Output: opfOutput{
				ContentType: "application/x-mobipocket-subscription-magazine",
				Encoding:    "utf-8",
			}},
		},
		Spine: opfSpine{Toc: "ncx"},
		Guide: opfGuide{Refs: []opfReference{
			{Title: "Beginning", Type: "start", Href: TOCName},
		}},
	}

	pkg.Manifest.Items = []opfItem{
		{Href: NCXName, ID: "ncx", MediaType: "application/x-dtbncx+xml"},
		{Href: TOCName, ID: "contents", MediaType: "application/xhtml+xml"},
	}

	seenImages := make(map[string]bool)
	for i, art := range anth.Articles {
		filename := filenames[i]
		pkg.Guide.Refs = append(pkg.Guide.Refs, opfReference{
			Title: art.Title,
			Type:  "text",
			Href:  filename,
		})
		// The filename doubles as the manifest ID.
		pkg.Manifest.Items = append(pkg.Manifest.Items, opfItem{
			Href:      filename,
			ID:        filename,
			MediaType: "application/xhtml+xml",
		})
		pkg.Spine.Refs = append(pkg.Spine.Refs, opfItemRef{IDRef: filename})

		for _, img := range art.Images {
			if seenImages[img.Filename] {
				continue
			}
			seenImages[img.Filename] = true
			pkg.Manifest.Items = append(pkg.Manifest.Items, opfItem{
				Href:      img.Filename,
				ID:        img.Filename,
				MediaType: img.MediaType,
			})
		}
	}

	out, err := xml.MarshalIndent(pkg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("rendering package manifest: %w", err)
	}
	return xml.Header + string(out) + "\n", nil
}
