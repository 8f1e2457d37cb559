// Package comparison holds the value types produced by a single comparison
// run. Every value is created per run and is never mutated after the stage
// that produced it returns.
package comparison

import "strings"

// Page is one page of extracted text, numbered from 1.
type Page struct {
	PageNumber int    `json:"pageNumber"`
	Text       string `json:"text"`
}

// DocumentMetadata carries the descriptive fields reported by the extractor.
type DocumentMetadata struct {
	NumPages int    `json:"numPages"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Subject  string `json:"subject"`
}

// DocumentText is the output of the extraction boundary.
type DocumentText struct {
	FullText string           `json:"fullText"`
	Pages    []Page           `json:"pages"`
	Metadata DocumentMetadata `json:"metadata"`
}

// NewDocumentText assembles a DocumentText from page texts. FullText is the
// pages joined by a newline and NumPages is set from the page count.
func NewDocumentText(pages []string, meta DocumentMetadata) *DocumentText {
	doc := &DocumentText{Pages: make([]Page, 0, len(pages)), Metadata: meta}
	texts := make([]string, 0, len(pages))
	for i, p := range pages {
		doc.Pages = append(doc.Pages, Page{PageNumber: i + 1, Text: p})
		texts = append(texts, p)
	}
	doc.FullText = strings.Join(texts, "\n")
	doc.Metadata.NumPages = len(doc.Pages)
	return doc
}

// IsBlank reports whether the document has no non-whitespace text.
func (d *DocumentText) IsBlank() bool {
	return d == nil || strings.TrimSpace(d.FullText) == ""
}
