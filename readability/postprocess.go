package readability

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// FixRelativeURIs rewrites relative links and media sources under content
// to absolute URLs resolved against base. Links to javascript: are
// replaced by their text. Links that are already absolute, or that do not
// parse, are left as they are. Running it twice changes nothing.
func FixRelativeURIs(content *html.Node, base *url.URL) {
	if base == nil || base.Scheme == "" || base.Host == "" {
		return
	}

	for _, a := range getElementsByTagName(content, "a") {
		if !hasAttr(a, "href") {
			continue
		}
		href := getAttr(a, "href")
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(href)), "javascript:") {
			unwrapLink(a)
			continue
		}
		if abs, ok := resolveURL(base, href); ok {
			setAttr(a, "href", abs)
		}
	}

	for _, media := range getElementsByTagName(content, "img", "picture", "figure", "video", "audio", "source") {
		for _, key := range []string{"src", "poster"} {
			if !hasAttr(media, key) {
				continue
			}
			if abs, ok := resolveURL(base, getAttr(media, key)); ok {
				setAttr(media, key, abs)
			}
		}
	}
}

func resolveURL(base *url.URL, ref string) (string, bool) {
	if strings.TrimSpace(ref) == "" || strings.Contains(ref, "://") {
		return "", false
	}
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", false
	}
	return base.ResolveReference(u).String(), true
}

// unwrapLink replaces a with its content. A single text child replaces the
// link directly; anything else is kept inside a span.
func unwrapLink(a *html.Node) {
	if a.Parent == nil {
		return
	}
	if a.FirstChild != nil && a.FirstChild == a.LastChild && a.FirstChild.Type == html.TextNode {
		replaceNode(a, &html.Node{Type: html.TextNode, Data: a.FirstChild.Data})
		return
	}
	span := newElement("span")
	for c := a.FirstChild; c != nil; {
		next := c.NextSibling
		a.RemoveChild(c)
		span.AppendChild(c)
		c = next
	}
	replaceNode(a, span)
}

// SimplifyNestedElements collapses redundant div and section wrappers
// under content until nothing changes. A wrapper holding a single div or
// section and no text is replaced by that child, which takes over the
// wrapper's attributes. Empty wrappers are removed. content itself is
// never touched.
func SimplifyNestedElements(content *html.Node) {
	for changed := true; changed; {
		changed = false
		wrappers := findAll(content, func(n *html.Node) bool {
			return isElement(n, "div", "section")
		})
		for _, n := range wrappers {
			if !contains(content, n) || n == content {
				continue
			}
			if isElementWithoutContent(n) && firstElementChild(n) == nil {
				detach(n)
				changed = true
				continue
			}
			if hasSingleTagInsideElement(n, "div") || hasSingleTagInsideElement(n, "section") {
				child := firstElementChild(n)
				for _, a := range n.Attr {
					setAttr(child, a.Key, a.Val)
				}
				replaceNode(n, child)
				changed = true
			}
		}
	}
}

// cleanClasses removes class names not listed in preserve from every
// element under n. Elements left without classes lose the attribute.
func cleanClasses(n *html.Node, preserve map[string]bool) {
	for _, el := range findAll(n, func(el *html.Node) bool { return el.Type == html.ElementNode }) {
		if !hasAttr(el, "class") {
			continue
		}
		var kept []string
		for _, name := range strings.Fields(getAttr(el, "class")) {
			if preserve[name] {
				kept = append(kept, name)
			}
		}
		if len(kept) == 0 {
			removeAttr(el, "class")
		} else {
			setAttr(el, "class", strings.Join(kept, " "))
		}
	}
}
