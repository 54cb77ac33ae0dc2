package readability

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/fwojciec/briefly"
	"golang.org/x/net/html"
)

var presentationalAttributes = []string{
	"align", "background", "bgcolor", "border", "cellpadding", "cellspacing",
	"frame", "hspace", "rules", "style", "valign", "vspace",
}

var sizedTags = map[string]bool{
	"table": true, "th": true, "td": true, "hr": true, "pre": true,
}

var rxShareElements = regexp.MustCompile(`(?i)(\b|_)(share|sharedaddy)(\b|_)`)

const maxShareElementLength = 500

// prepArticle removes the remaining clutter from an assembled container.
func (s *scorer) prepArticle(content *html.Node) {
	cleanStyles(content)
	s.markDataTables(content)

	s.cleanConditionally(content, "form")
	s.cleanConditionally(content, "fieldset")
	s.clean(content, "object")
	s.clean(content, "embed")
	s.clean(content, "footer")
	s.clean(content, "link")
	s.clean(content, "aside")
	s.clean(content, "style")

	for _, child := range elementChildren(content) {
		s.removeShareElements(child)
	}

	s.clean(content, "iframe")
	s.clean(content, "input")
	s.clean(content, "textarea")
	s.clean(content, "select")
	s.clean(content, "button")
	s.cleanHeaders(content)

	s.cleanConditionally(content, "table")
	s.cleanConditionally(content, "ul")
	s.cleanConditionally(content, "div")

	for _, h1 := range getElementsByTagName(content, "h1") {
		setTag(h1, "h2")
	}

	StaticNodeList(getElementsByTagName(content, "p")).RemoveIf(func(p *html.Node, _ int) bool {
		media := len(getElementsByTagName(p, "img", "embed", "object", "iframe"))
		return media == 0 && strings.TrimSpace(textContent(p)) == ""
	})

	StaticNodeList(getElementsByTagName(content, "br")).RemoveIf(func(br *html.Node, _ int) bool {
		next := skipWhitespace(br.NextSibling)
		return next != nil && isElement(next, "p")
	})
}

// cleanStyles strips presentational attributes below n. SVG is left alone.
func cleanStyles(n *html.Node) {
	if n.Type != html.ElementNode || n.Data == "svg" {
		return
	}
	for _, attr := range presentationalAttributes {
		removeAttr(n, attr)
	}
	if sizedTags[n.Data] {
		removeAttr(n, "width")
		removeAttr(n, "height")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		cleanStyles(c)
	}
}

// clean removes every tag element under n. Embeds pointing at an allowed
// video host are kept.
func (s *scorer) clean(n *html.Node, tag string) {
	isEmbed := tag == "object" || tag == "embed" || tag == "iframe"
	StaticNodeList(getElementsByTagName(n, tag)).RemoveIf(func(el *html.Node, _ int) bool {
		return !(isEmbed && s.isAllowedVideo(el))
	})
}

func (s *scorer) isAllowedVideo(el *html.Node) bool {
	videos := s.opts.AllowedVideoRegex
	if videos == nil {
		videos = briefly.DefaultVideoRegex
	}
	for _, a := range el.Attr {
		if videos.MatchString(a.Val) {
			return true
		}
	}
	if isElement(el, "object") {
		if inner, err := InnerHTML(el); err == nil && videos.MatchString(inner) {
			return true
		}
	}
	return false
}

func (s *scorer) removeShareElements(n *html.Node) {
	elements := findAll(n, func(el *html.Node) bool { return el.Type == html.ElementNode })
	StaticNodeList(elements).RemoveIf(func(el *html.Node, _ int) bool {
		match := getAttr(el, "class") + " " + getAttr(el, "id")
		return rxShareElements.MatchString(match) && runeLen(textContent(el)) < maxShareElementLength
	})
}

// cleanHeaders drops h1 and h2 elements whose class or id looks like
// boilerplate.
func (s *scorer) cleanHeaders(n *html.Node) {
	StaticNodeList(getElementsByTagName(n, "h1", "h2")).RemoveIf(func(h *html.Node, _ int) bool {
		return s.classWeight(h) < 0
	})
}

// markDataTables records which tables hold data rather than layout.
func (s *scorer) markDataTables(root *html.Node) {
	for _, table := range getElementsByTagName(root, "table") {
		if getAttr(table, "role") == "presentation" || getAttr(table, "datatable") == "0" {
			continue
		}
		if hasAttr(table, "summary") {
			s.dataTables[table] = true
			continue
		}
		if captions := getElementsByTagName(table, "caption"); len(captions) > 0 && captions[0].FirstChild != nil {
			s.dataTables[table] = true
			continue
		}
		if query(table, "col, colgroup, tfoot, thead, th").Length() > 0 {
			s.dataTables[table] = true
			continue
		}
		if len(getElementsByTagName(table, "table")) > 0 {
			continue
		}
		rows, columns := rowAndColumnCount(table)
		if rows == 1 || columns == 1 {
			continue
		}
		if rows >= 10 || columns > 4 || rows*columns > 10 {
			s.dataTables[table] = true
		}
	}
}

func rowAndColumnCount(table *html.Node) (rows, columns int) {
	for _, tr := range getElementsByTagName(table, "tr") {
		rowspan, err := strconv.Atoi(getAttr(tr, "rowspan"))
		if err != nil || rowspan < 1 {
			rowspan = 1
		}
		rows += rowspan

		cols := 0
		for _, cell := range getElementsByTagName(tr, "td") {
			colspan, err := strconv.Atoi(getAttr(cell, "colspan"))
			if err != nil || colspan < 1 {
				colspan = 1
			}
			cols += colspan
		}
		columns = max(columns, cols)
	}
	return rows, columns
}

func (s *scorer) insideDataTable(n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if isElement(p, "table") && s.dataTables[p] {
			return true
		}
	}
	return false
}

// cleanConditionally removes tag elements under n that look like
// navigation, ads or link lists rather than content.
func (s *scorer) cleanConditionally(n *html.Node, tag string) {
	if !s.flags.Has(briefly.FlagCleanConditionally) {
		return
	}
	isList := tag == "ul" || tag == "ol"

	StaticNodeList(getElementsByTagName(n, tag)).RemoveIf(func(node *html.Node, _ int) bool {
		if tag == "table" && s.dataTables[node] {
			return false
		}
		if s.insideDataTable(node) || hasAncestorTag(node, "code") {
			return false
		}
		for _, table := range getElementsByTagName(node, "table") {
			if s.dataTables[table] {
				return false
			}
		}

		weight := s.classWeight(node)
		if weight < 0 {
			return true
		}
		text := innerText(node)
		if commaCount(text) >= 10 {
			return false
		}

		sel := query(node, "*")
		paragraphs := float64(sel.Filter("p").Length())
		images := float64(sel.Filter("img").Length())
		listItems := float64(sel.Filter("li").Length()) - 100
		inputs := float64(sel.Filter("input").Length())
		headingDensity := textDensity(node, "h1", "h2", "h3", "h4", "h5", "h6")

		embeds := 0
		for _, embed := range getElementsByTagName(node, "object", "embed", "iframe") {
			if s.isAllowedVideo(embed) {
				return false
			}
			embeds++
		}

		density := linkDensity(node)
		contentLength := runeLen(text)
		inFigure := hasAncestorTag(node, "figure")

		remove := (images > 1 && paragraphs/images < 0.5 && !inFigure) ||
			(!isList && listItems > paragraphs) ||
			(inputs > math.Floor(paragraphs/3)) ||
			(!isList && headingDensity < 0.9 && contentLength < 25 && (images == 0 || images > 2) && !inFigure) ||
			(!isList && weight < 25 && density > 0.2) ||
			(weight >= 25 && density > 0.5) ||
			((embeds == 1 && contentLength < 75) || embeds > 1)

		// Image galleries are lists of single images; keep them.
		if isList && remove {
			items := elementChildren(node)
			gallery := len(items) > 0
			for _, li := range items {
				kids := elementChildren(li)
				if len(kids) != 1 || !isElement(kids[0], "img") {
					gallery = false
					break
				}
			}
			if gallery {
				return false
			}
		}
		return remove
	})
}
