package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fwojciec/briefly"
	"github.com/fwojciec/briefly/fs"
)

// articleJSON is the --format json output of extract.
type articleJSON struct {
	Title       string `json:"title"`
	Byline      string `json:"byline"`
	Dir         string `json:"dir"`
	Content     string `json:"content"`
	TextContent string `json:"textContent"`
	Length      int    `json:"length"`
	WordCount   int    `json:"wordCount"`
	Excerpt     string `json:"excerpt"`
	SiteName    string `json:"siteName"`
	URL         string `json:"url"`
}

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	article, err := deps.Pipeline.Extract(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", briefly.ErrorMessage(err))
		return err
	}

	if c.Out != "" {
		if err := c.writeFile(deps, article); err != nil {
			fmt.Fprintf(deps.Stderr, "error writing %s: %v\n", c.Out, err)
			return err
		}
		fmt.Fprintf(deps.Stdout, "Saved %q to %s\n", article.Title, c.Out)
		return nil
	}

	switch c.Format {
	case "html":
		fmt.Fprintln(deps.Stdout, article.ContentHTML)
	case "markdown":
		md, err := deps.Converter.ConvertArticle(article)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", briefly.ErrorMessage(err))
			return err
		}
		fmt.Fprint(deps.Stdout, md)
	case "json":
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(articleJSON{
			Title:       article.Title,
			Byline:      article.Byline,
			Dir:         string(article.Direction),
			Content:     article.ContentHTML,
			TextContent: article.TextContent,
			Length:      article.Length,
			WordCount:   article.WordCount(),
			Excerpt:     article.Excerpt,
			SiteName:    article.SiteName,
			URL:         article.URL,
		})
	default:
		if article.Title != "" {
			fmt.Fprintf(deps.Stdout, "%s\n\n", article.Title)
		}
		fmt.Fprintln(deps.Stdout, article.TextContent)
	}
	return nil
}

func (c *ExtractCmd) writeFile(deps *Dependencies, article *briefly.Article) error {
	md, err := deps.Converter.Convert(article.ContentHTML)
	if err != nil {
		return err
	}
	content, err := fs.FormatPage(&briefly.Page{
		URL:      c.URL,
		Title:    article.Title,
		SiteName: article.SiteName,
		Byline:   article.Byline,
		Content:  md,
	}, time.Now())
	if err != nil {
		return err
	}
	return os.WriteFile(c.Out, []byte(content), 0644)
}
