package readability_test

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/briefly"
	"github.com/fwojciec/briefly/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestRemoveNodes(t *testing.T) {
	t.Parallel()

	t.Run("rejects live list without removing anything", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<html><body><p>a</p><p>b</p><p>c</p></body></html>`)
		live := readability.NewElementsByTagName(doc, "p")
		require.Equal(t, 3, live.Len())

		err := readability.RemoveNodes(live, nil)

		require.Error(t, err)
		assert.Equal(t, briefly.ELIVECOLLECTION, briefly.ErrorCode(err))
		assert.Equal(t, 3, live.Len())
	})

	t.Run("removes every node of a snapshot", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<html><body><p>a</p><div><p>b</p></div><p>c</p></body></html>`)
		list := readability.Snapshot(readability.NewElementsByTagName(doc, "p"))

		require.NoError(t, readability.RemoveNodes(list, nil))

		assert.Empty(t, goquery.NewDocumentFromNode(doc).Find("p").Nodes)
	})

	t.Run("walks the snapshot backward", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<html><body><p>a</p><p>b</p><p>c</p></body></html>`)
		list := readability.Snapshot(readability.NewElementsByTagName(doc, "p"))
		var visited []int

		err := readability.RemoveNodes(list, func(n *html.Node, i int) bool {
			visited = append(visited, i)
			return i != 1
		})

		require.NoError(t, err)
		assert.Equal(t, []int{2, 1, 0}, visited)
		assert.Equal(t, []string{"b"}, paragraphs(doc))
	})

	t.Run("skips detached nodes", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<html><body><div><p>a</p></div></body></html>`)
		sel := goquery.NewDocumentFromNode(doc)
		div := sel.Find("div").Nodes[0]
		p := sel.Find("p").Nodes[0]
		div.Parent.RemoveChild(div)
		div.RemoveChild(p)
		calls := 0

		err := readability.RemoveNodes(readability.StaticNodeList{p}, func(*html.Node, int) bool {
			calls++
			return true
		})

		require.NoError(t, err)
		assert.Zero(t, calls)
	})
}

func TestStaticNodeList_RemoveIf(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<html><body><p>keep</p><p></p><p>also</p><p> </p></body></html>`)
	list := readability.Snapshot(readability.NewElementsByTagName(doc, "p"))

	list.RemoveIf(func(n *html.Node, _ int) bool {
		return strings.TrimSpace(goquery.NewDocumentFromNode(n).Text()) == ""
	})

	assert.Equal(t, []string{"keep", "also"}, paragraphs(doc))
}

func TestElementsByTagName_IsLive(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<html><body><p>a</p></body></html>`)
	live := readability.NewElementsByTagName(doc, "p")
	body := goquery.NewDocumentFromNode(doc).Find("body").Nodes[0]

	body.AppendChild(&html.Node{Type: html.ElementNode, Data: "p"})

	assert.True(t, live.Live())
	assert.Equal(t, 2, live.Len())
	assert.Nil(t, live.Item(5))
}
