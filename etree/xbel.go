// Package etree reads and writes bookmarks in the XBEL exchange format
// understood by most browsers and bookmark managers.
package etree

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/fwojciec/briefly"
)

// Folder titles used for each bookmark kind on export.
var folderTitles = map[briefly.BookmarkKind]string{
	briefly.KindPinned:  "Pinned sites",
	briefly.KindReading: "Reading list",
}

// ExportXBEL writes bookmarks as an XBEL document with one folder per kind.
// Folders keep the order of bookmarks as given.
func ExportXBEL(w io.Writer, bookmarks []*briefly.Bookmark) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("xbel")
	root.CreateAttr("version", "1.0")

	folders := make(map[briefly.BookmarkKind]*etree.Element)
	for _, kind := range []briefly.BookmarkKind{briefly.KindPinned, briefly.KindReading} {
		folder := root.CreateElement("folder")
		folder.CreateAttr("id", string(kind))
		folder.CreateElement("title").SetText(folderTitles[kind])
		folders[kind] = folder
	}

	for _, b := range bookmarks {
		folder, ok := folders[b.Kind]
		if !ok {
			return briefly.Errorf(briefly.EINVALID, "unknown bookmark kind %q", b.Kind)
		}
		el := folder.CreateElement("bookmark")
		el.CreateAttr("href", b.URL)
		if b.ID != "" {
			el.CreateAttr("id", b.ID)
		}
		if !b.AddedAt.IsZero() {
			el.CreateAttr("added", b.AddedAt.UTC().Format(time.RFC3339))
		}
		if b.Title != "" {
			el.CreateElement("title").SetText(b.Title)
		}
	}

	doc.Indent(2)
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("writing XBEL: %w", err)
	}
	return nil
}

// ImportXBEL parses an XBEL document. Bookmarks inside a folder whose id is
// a known kind get that kind; all others, at any depth, go to the reading
// list. Entries without a usable http(s) URL are skipped.
func ImportXBEL(r io.Reader) ([]*briefly.Bookmark, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, briefly.Errorf(briefly.EINVALID, "parsing XBEL: %v", err)
	}

	root := doc.Root()
	if root == nil || root.Tag != "xbel" {
		return nil, briefly.Errorf(briefly.EINVALID, "not an XBEL document")
	}

	var bookmarks []*briefly.Bookmark
	walk(root, briefly.KindReading, &bookmarks)
	return bookmarks, nil
}

func walk(el *etree.Element, kind briefly.BookmarkKind, out *[]*briefly.Bookmark) {
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "folder":
			k := kind
			if id := briefly.BookmarkKind(child.SelectAttrValue("id", "")); id.Limit() > 0 {
				k = id
			}
			walk(child, k, out)
		case "bookmark":
			if b := parseBookmark(child, kind); b != nil {
				*out = append(*out, b)
			}
		}
	}
}

func parseBookmark(el *etree.Element, kind briefly.BookmarkKind) *briefly.Bookmark {
	href := strings.TrimSpace(el.SelectAttrValue("href", ""))
	if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
		return nil
	}

	var title string
	if t := el.SelectElement("title"); t != nil {
		title = strings.TrimSpace(t.Text())
	}

	b, err := briefly.NewBookmark(kind, href, title)
	if err != nil {
		return nil
	}
	if added, err := time.Parse(time.RFC3339, el.SelectAttrValue("added", "")); err == nil {
		b.AddedAt = added
	}
	return b
}
