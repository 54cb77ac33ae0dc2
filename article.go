package briefly

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Direction is the declared text direction of a document.
type Direction string

// Text directions. DirectionNone means the document declared none.
const (
	DirectionNone Direction = ""
	DirectionLTR  Direction = "ltr"
	DirectionRTL  Direction = "rtl"
)

// Article is the structured result of extracting the main content of a page.
// Empty strings stand for absent values.
type Article struct {
	Title     string
	Byline    string
	Direction Direction

	// Content is a standalone <div> container holding the selected content.
	// It has no parent and shares no nodes with the source document.
	Content     *html.Node
	ContentHTML string

	// TextContent is the normalized plain text of Content.
	TextContent string
	Length      int

	Excerpt  string
	SiteName string
	URL      string
}

// WordCount returns the number of whitespace-separated words in the
// article text.
func (a *Article) WordCount() int {
	return len(strings.Fields(a.TextContent))
}

// CheckLength returns EINSUFFICIENT when the article text falls under
// minWords words or minChars characters. A zero threshold is not checked.
func (a *Article) CheckLength(minWords, minChars int) error {
	chars := utf8.RuneCountInString(strings.TrimSpace(a.TextContent))
	if minChars > 0 && chars < minChars {
		return Errorf(EINSUFFICIENT, "not enough content to summarize (%d characters, need %d)", chars, minChars)
	}
	if words := a.WordCount(); minWords > 0 && words < minWords {
		return Errorf(EINSUFFICIENT, "not enough content to summarize (%d words, need %d)", words, minWords)
	}
	return nil
}

// Extractor extracts the main article from a raw HTML page.
type Extractor interface {
	// Extract parses rawHTML and returns the article found in it.
	// pageURL is used to resolve relative links and derive the site name.
	Extract(rawHTML, pageURL string) (*Article, error)
}
