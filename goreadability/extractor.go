// Package goreadability adapts go-shiori/go-readability, a port of
// Mozilla Readability, as a briefly.Extractor.
package goreadability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/briefly"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ensure Extractor implements briefly.Extractor at compile time.
var _ briefly.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract the main article from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main article.
func (e *Extractor) Extract(rawHTML, pageURL string) (*briefly.Article, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, briefly.Errorf(briefly.EINVALID, "empty HTML input")
	}
	page, err := url.Parse(pageURL)
	if err != nil {
		return nil, briefly.Errorf(briefly.EINVALID, "invalid page URL %q", pageURL)
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), page)
	if err != nil {
		return nil, err
	}

	content, err := container(article.Content)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(article.TextContent)

	siteName := strings.TrimSpace(article.SiteName)
	if siteName == "" {
		siteName = briefly.SiteName(page.Hostname())
	}

	return &briefly.Article{
		Title:       strings.TrimSpace(article.Title),
		Byline:      strings.TrimSpace(article.Byline),
		Content:     content,
		ContentHTML: article.Content,
		TextContent: text,
		Length:      len([]rune(text)),
		Excerpt:     strings.TrimSpace(article.Excerpt),
		SiteName:    siteName,
		URL:         pageURL,
	}, nil
}

// container parses the serialized article into a detached <div>.
func container(contentHTML string) (*html.Node, error) {
	div := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(contentHTML), div)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		div.AppendChild(n)
	}
	return div, nil
}
