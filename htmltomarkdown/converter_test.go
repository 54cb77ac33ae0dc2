package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/briefly"
	"github.com/fwojciec/briefly/htmltomarkdown"
	"github.com/fwojciec/briefly/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Converter implements briefly.Converter at compile time.
var _ briefly.Converter = (*htmltomarkdown.Converter)(nil)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts headings and paragraphs", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<h2>Section</h2><p>Hello, world!</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "## Section")
		assert.Contains(t, md, "Hello, world!")
	})

	t.Run("converts links", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<p>Read <a href="https://example.com/more">more</a>.</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "[more](https://example.com/more)")
	})

	t.Run("converts lists and emphasis", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<ul><li>First</li><li>Second</li></ul><p><strong>Bold</strong> and <em>italic</em>.</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "- First")
		assert.Contains(t, md, "- Second")
		assert.Contains(t, md, "**Bold**")
		assert.Contains(t, md, "*italic*")
	})

	t.Run("converts tables", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<table><thead><tr><th>Name</th></tr></thead><tbody><tr><td>Alice</td></tr></tbody></table>`)

		require.NoError(t, err)
		assert.Contains(t, md, "Name")
		assert.Contains(t, md, "Alice")
		assert.Contains(t, md, "|")
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := htmltomarkdown.NewConverter().Convert(" ")

		require.Error(t, err)
		assert.Equal(t, briefly.EINVALID, briefly.ErrorCode(err))
	})
}

func TestConverter_ConvertArticle(t *testing.T) {
	t.Parallel()

	t.Run("renders header and content", func(t *testing.T) {
		t.Parallel()

		ext := readability.NewExtractor(briefly.DefaultExtractOptions())
		article, err := ext.Extract(`<html><head><title>Post</title><meta name="author" content="Ann"></head>
<body><article><p>The first paragraph of the post, with <a href="/x">a link</a>.</p></article></body></html>`, "https://example.com/post")
		require.NoError(t, err)

		md, err := htmltomarkdown.NewConverter().ConvertArticle(article)

		require.NoError(t, err)
		assert.Contains(t, md, "# Post\n\n*Ann*\n\nSource: <https://example.com/post>")
		assert.Contains(t, md, "[a link](https://example.com/x)")
	})

	t.Run("rejects article without content", func(t *testing.T) {
		t.Parallel()

		_, err := htmltomarkdown.NewConverter().ConvertArticle(&briefly.Article{Title: "x"})

		assert.Equal(t, briefly.EINVALID, briefly.ErrorCode(err))
	})
}
