package trafilatura

import (
	"net/url"
	"strings"

	"github.com/fwojciec/briefly"
	"github.com/fwojciec/briefly/readability"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ensure Extractor implements briefly.Extractor at compile time.
var _ briefly.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
// It is an alternative to the readability engine for pages where the
// scoring heuristic picks the wrong block.
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
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, briefly.Errorf(briefly.EINVALID, "invalid page URL %q", pageURL)
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}
	if base.Host != "" {
		opts.OriginalURL = base
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	content := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	if result.ContentNode != nil {
		for c := result.ContentNode.FirstChild; c != nil; {
			next := c.NextSibling
			result.ContentNode.RemoveChild(c)
			content.AppendChild(c)
			c = next
		}
	}
	readability.FixRelativeURIs(content, base)

	contentHTML, err := readability.InnerHTML(content)
	if err != nil {
		return nil, err
	}
	text := readability.PlainText(content)

	siteName := result.Metadata.Sitename
	if siteName == "" {
		siteName = briefly.SiteName(base.Hostname())
	}
	excerpt := readability.Excerpt(content)
	if excerpt == "" {
		excerpt = strings.TrimSpace(result.Metadata.Description)
	}

	return &briefly.Article{
		Title:       strings.TrimSpace(result.Metadata.Title),
		Byline:      strings.TrimSpace(result.Metadata.Author),
		Content:     content,
		ContentHTML: contentHTML,
		TextContent: text,
		Length:      len([]rune(text)),
		Excerpt:     excerpt,
		SiteName:    siteName,
		URL:         pageURL,
	}, nil
}
