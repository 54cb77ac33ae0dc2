package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/briefly"
)

// Ensure Converter implements briefly.Converter at compile time.
var _ briefly.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert HTML to Markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", briefly.Errorf(briefly.EINVALID, "empty HTML input")
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", err
	}

	return result, nil
}

// ConvertArticle renders an article as a Markdown document with the title
// as a heading, followed by the byline and source link when known.
func (c *Converter) ConvertArticle(a *briefly.Article) (string, error) {
	if a.Content == nil {
		return "", briefly.Errorf(briefly.EINVALID, "article has no content")
	}
	body, err := c.conv.ConvertNode(a.Content)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if a.Title != "" {
		b.WriteString("# ")
		b.WriteString(a.Title)
		b.WriteString("\n\n")
	}
	if a.Byline != "" {
		b.WriteString("*")
		b.WriteString(a.Byline)
		b.WriteString("*\n\n")
	}
	if a.URL != "" {
		b.WriteString("Source: <")
		b.WriteString(a.URL)
		b.WriteString(">\n\n")
	}
	b.WriteString(strings.TrimSpace(string(body)))
	b.WriteString("\n")
	return b.String(), nil
}
