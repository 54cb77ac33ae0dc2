package briefly

import (
	"context"
	"time"
)

// CachedArticle is the extracted text of a page kept for later summaries
// and questions without fetching the page again.
type CachedArticle struct {
	URL         string
	Title       string
	Byline      string
	SiteName    string
	TextContent string
	ContentHash string
	Summary     string
	ExtractedAt time.Time
}

// Validate returns an error if the cached article contains invalid fields.
func (a *CachedArticle) Validate() error {
	if a.URL == "" {
		return Errorf(EINVALID, "article URL required")
	}
	return nil
}

// ArticleCache stores extracted articles keyed by URL.
type ArticleCache interface {
	// PutArticle inserts or replaces the article stored for its URL.
	// ContentHash and ExtractedAt are set by the implementation.
	PutArticle(ctx context.Context, a *CachedArticle) error

	// FindArticleByURL returns the cached article for url.
	// Returns ENOTFOUND if nothing is cached.
	FindArticleByURL(ctx context.Context, url string) (*CachedArticle, error)
}
