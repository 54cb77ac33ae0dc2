package readability

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/briefly"
	"golang.org/x/net/html"
)

const maxBylineLength = 100

// Title returns the trimmed text of the document's <title>.
func Title(doc *html.Node) string {
	head := findFirst(doc, "head")
	if head == nil {
		head = doc
	}
	title := findFirst(head, "title")
	if title == nil {
		return ""
	}
	return strings.TrimSpace(textContent(title))
}

// Direction returns the text direction declared on the <html> element.
func Direction(doc *html.Node) briefly.Direction {
	root := findFirst(doc, "html")
	if root == nil {
		return briefly.DirectionNone
	}
	switch strings.ToLower(strings.TrimSpace(getAttr(root, "dir"))) {
	case "ltr":
		return briefly.DirectionLTR
	case "rtl":
		return briefly.DirectionRTL
	}
	return briefly.DirectionNone
}

// Excerpt returns the trimmed text of the first paragraph in content.
func Excerpt(content *html.Node) string {
	p := findFirst(content, "p")
	if p == nil {
		return ""
	}
	return innerText(p)
}

// Byline looks for the author of the document, first in metadata and then
// in elements marked up as a byline.
func Byline(doc *html.Node) string {
	if byline := metaByline(doc); byline != "" {
		return byline
	}
	if byline := jsonLDByline(doc); byline != "" {
		return byline
	}
	return elementByline(doc)
}

func cleanByline(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" || runeLen(s) > maxBylineLength {
		return ""
	}
	return s
}

func metaByline(doc *html.Node) string {
	var byline string
	query(doc, "meta").EachWithBreak(func(_ int, m *goquery.Selection) bool {
		key := strings.ToLower(m.AttrOr("name", m.AttrOr("property", "")))
		switch key {
		case "author", "article:author", "dc.creator", "byl":
		default:
			return true
		}
		content := strings.TrimSpace(m.AttrOr("content", ""))
		if strings.Contains(content, "://") {
			return true
		}
		byline = cleanByline(content)
		return byline == ""
	})
	return byline
}

// jsonLDByline reads the author name from schema.org JSON-LD blocks.
// It must run before scripts are removed.
func jsonLDByline(doc *html.Node) string {
	var byline string
	query(doc, `script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data any
		if err := json.Unmarshal([]byte(strings.TrimSpace(s.Text())), &data); err != nil {
			return true
		}
		byline = cleanByline(findAuthor(data))
		return byline == ""
	})
	return byline
}

func findAuthor(v any) string {
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if name := findAuthor(item); name != "" {
				return name
			}
		}
	case map[string]any:
		if author, ok := t["author"]; ok {
			if name := authorName(author); name != "" {
				return name
			}
		}
		if graph, ok := t["@graph"]; ok {
			return findAuthor(graph)
		}
	}
	return ""
}

func authorName(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		name, _ := t["name"].(string)
		return name
	case []any:
		var names []string
		for _, item := range t {
			if name := authorName(item); name != "" {
				names = append(names, name)
			}
		}
		return strings.Join(names, ", ")
	}
	return ""
}

func elementByline(doc *html.Node) string {
	body := findFirst(doc, "body")
	if body == nil {
		return ""
	}
	for _, el := range findAll(body, func(n *html.Node) bool { return n.Type == html.ElementNode }) {
		match := getAttr(el, "class") + " " + getAttr(el, "id")
		if getAttr(el, "rel") != "author" &&
			!strings.Contains(getAttr(el, "itemprop"), "author") &&
			!rxByline.MatchString(match) {
			continue
		}
		if byline := cleanByline(textContent(el)); byline != "" {
			return byline
		}
	}
	return ""
}
