package readability

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// mainSelectors name the elements sites commonly wrap their article in.
const mainSelectors = `main, article, .article, .content, .post, #content, #main, [role="main"]`

// minSelectedLength is the shortest match worth keeping over the body.
const minSelectedLength = 50

// grabSelectors copies the matching element with the longest text into a
// fresh container. When no match reaches minSelectedLength runes the whole
// body is copied instead.
func grabSelectors(body *html.Node) *html.Node {
	var best *html.Node
	bestLength := 0
	query(body, mainSelectors).Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		if length := runeLen(innerText(n)); length > bestLength {
			best, bestLength = n, length
		}
	})

	container := newElement("div")
	if best == nil || bestLength < minSelectedLength {
		appendClonedChildren(container, body)
		return container
	}
	container.AppendChild(cloneNode(best))
	return container
}
