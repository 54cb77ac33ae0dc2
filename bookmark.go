package briefly

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// BookmarkKind identifies the list a bookmark belongs to.
type BookmarkKind string

const (
	KindPinned  BookmarkKind = "pinned"
	KindReading BookmarkKind = "reading"
)

// List size limits. Adding past the limit drops the oldest entries.
const (
	MaxPinnedSites = 10
	MaxReadingList = 20
)

// Limit returns the maximum number of bookmarks of kind k.
func (k BookmarkKind) Limit() int {
	switch k {
	case KindPinned:
		return MaxPinnedSites
	case KindReading:
		return MaxReadingList
	}
	return 0
}

// Bookmark is a saved page: either a pinned site or a reading list entry.
type Bookmark struct {
	ID       string       `json:"id"`
	Kind     BookmarkKind `json:"kind"`
	URL      string       `json:"url"`
	Title    string       `json:"title"`
	SiteName string       `json:"siteName"`
	Favicon  string       `json:"favicon"`
	AddedAt  time.Time    `json:"addedAt"`
}

// Validate returns an error if the bookmark contains invalid fields.
func (b *Bookmark) Validate() error {
	if b.URL == "" {
		return Errorf(EINVALID, "bookmark URL required")
	}
	if b.Kind.Limit() == 0 {
		return Errorf(EINVALID, "unknown bookmark kind %q", b.Kind)
	}
	return nil
}

// NewBookmark builds a bookmark for rawURL filling in the site name,
// favicon and a title fallback.
func NewBookmark(kind BookmarkKind, rawURL, title string) (*Bookmark, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil, Errorf(EINVALID, "invalid URL %q", rawURL)
	}
	site := SiteName(u.Hostname())
	if title == "" {
		title = site
	}
	return &Bookmark{
		Kind:     kind,
		URL:      rawURL,
		Title:    title,
		SiteName: site,
		Favicon:  FaviconURL(u.Hostname()),
	}, nil
}

// SiteName returns host with one leading "www." removed.
func SiteName(host string) string {
	return strings.TrimPrefix(host, "www.")
}

// FaviconURL returns the URL of a 32px favicon for host.
func FaviconURL(host string) string {
	return "https://www.google.com/s2/favicons?domain=" + url.QueryEscape(host) + "&sz=32"
}

// BookmarkFilter represents a filter used by FindBookmarks.
type BookmarkFilter struct {
	Kind *BookmarkKind
	URL  *string

	Offset int
	Limit  int
}

// BookmarkService represents a service for managing bookmarks.
type BookmarkService interface {
	// ToggleBookmark removes the bookmark of the same kind and URL if it
	// exists, otherwise adds it. Returns true when the bookmark was added.
	// Adding trims the oldest bookmarks of that kind beyond its limit.
	ToggleBookmark(ctx context.Context, b *Bookmark) (added bool, err error)

	// FindBookmarks retrieves bookmarks matching the filter, newest first.
	FindBookmarks(ctx context.Context, filter BookmarkFilter) ([]*Bookmark, error)

	// DeleteBookmark permanently removes a bookmark.
	// Returns ENOTFOUND if the bookmark does not exist.
	DeleteBookmark(ctx context.Context, id string) error
}
