package readability

import (
	"golang.org/x/net/html"
)

// RemoveScripts removes every script element under doc.
func RemoveScripts(doc *html.Node) error {
	return RemoveNodes(StaticNodeList(getElementsByTagName(doc, "script")), nil)
}

// RemoveComments removes every comment node under doc.
func RemoveComments(doc *html.Node) error {
	comments := findAll(doc, func(n *html.Node) bool {
		return n.Type == html.CommentNode
	})
	return RemoveNodes(StaticNodeList(comments), nil)
}

// Sanitize removes scripts and comments from doc in place.
func Sanitize(doc *html.Node) error {
	if err := RemoveScripts(doc); err != nil {
		return err
	}
	return RemoveComments(doc)
}

var phrasingTags = map[string]bool{
	"abbr": true, "audio": true, "b": true, "bdo": true, "br": true,
	"button": true, "cite": true, "code": true, "data": true,
	"datalist": true, "dfn": true, "em": true, "embed": true, "i": true,
	"img": true, "input": true, "kbd": true, "label": true, "mark": true,
	"math": true, "meter": true, "noscript": true, "object": true,
	"output": true, "progress": true, "q": true, "ruby": true, "samp": true,
	"script": true, "select": true, "small": true, "span": true,
	"strong": true, "sub": true, "sup": true, "textarea": true,
	"time": true, "var": true, "wbr": true,
}

func isPhrasingContent(n *html.Node) bool {
	if n.Type == html.TextNode {
		return true
	}
	if n.Type != html.ElementNode {
		return false
	}
	if phrasingTags[n.Data] {
		return true
	}
	if isElement(n, "a", "del", "ins") {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !isPhrasingContent(c) {
				return false
			}
		}
		return true
	}
	return false
}

// prepareDocument readies a sanitized document for scoring: style
// elements go, font becomes span and runs of two or more <br> are turned
// into paragraphs.
func prepareDocument(doc *html.Node) error {
	if err := RemoveNodes(StaticNodeList(getElementsByTagName(doc, "style")), nil); err != nil {
		return err
	}
	for _, font := range getElementsByTagName(doc, "font") {
		setTag(font, "span")
	}
	replaceBrs(doc)
	return nil
}

// skipWhitespace returns n or the first following sibling that is not
// whitespace-only text.
func skipWhitespace(n *html.Node) *html.Node {
	for n != nil && n.Type != html.ElementNode && isWhitespace(n) {
		n = n.NextSibling
	}
	return n
}

func replaceBrs(doc *html.Node) {
	for _, br := range getElementsByTagName(doc, "br") {
		if br.Parent == nil {
			continue
		}

		// Drop every <br> that directly follows this one.
		replaced := false
		next := skipWhitespace(br.NextSibling)
		for next != nil && isElement(next, "br") {
			replaced = true
			sibling := next.NextSibling
			detach(next)
			next = skipWhitespace(sibling)
		}
		if !replaced {
			continue
		}

		// Collect the phrasing content after the chain into a paragraph.
		p := newElement("p")
		replaceNode(br, p)
		for next = p.NextSibling; next != nil; {
			if isElement(next, "br") {
				if after := skipWhitespace(next.NextSibling); after != nil && isElement(after, "br") {
					break
				}
			}
			if !isPhrasingContent(next) {
				break
			}
			sibling := next.NextSibling
			detach(next)
			p.AppendChild(next)
			next = sibling
		}
		for p.LastChild != nil && isWhitespace(p.LastChild) {
			p.RemoveChild(p.LastChild)
		}
		if isElement(p.Parent, "p") {
			setTag(p.Parent, "div")
		}
	}
}
