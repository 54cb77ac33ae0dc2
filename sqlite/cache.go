package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fwojciec/briefly"
)

// Ensure ArticleCache implements briefly.ArticleCache at compile time.
var _ briefly.ArticleCache = (*ArticleCache)(nil)

// ArticleCache implements briefly.ArticleCache using SQLite.
type ArticleCache struct {
	db *DB
}

// NewArticleCache creates a new ArticleCache.
func NewArticleCache(db *DB) *ArticleCache {
	return &ArticleCache{db: db}
}

// PutArticle inserts or replaces the cached article for a.URL.
func (c *ArticleCache) PutArticle(ctx context.Context, a *briefly.CachedArticle) error {
	if err := a.Validate(); err != nil {
		return err
	}

	a.ContentHash = hashContent(a.TextContent)
	a.ExtractedAt = time.Now().UTC()

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO articles (url, title, byline, site_name, text_content, content_hash, summary, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title = excluded.title,
			byline = excluded.byline,
			site_name = excluded.site_name,
			text_content = excluded.text_content,
			content_hash = excluded.content_hash,
			summary = excluded.summary,
			extracted_at = excluded.extracted_at
	`, a.URL, a.Title, a.Byline, a.SiteName, a.TextContent, a.ContentHash, a.Summary, formatTime(a.ExtractedAt))

	return err
}

// FindArticleByURL returns the cached article for url.
func (c *ArticleCache) FindArticleByURL(ctx context.Context, url string) (*briefly.CachedArticle, error) {
	var a briefly.CachedArticle
	var extractedAt string

	err := c.db.QueryRowContext(ctx, `
		SELECT url, title, byline, site_name, text_content, content_hash, summary, extracted_at
		FROM articles
		WHERE url = ?
	`, url).Scan(&a.URL, &a.Title, &a.Byline, &a.SiteName, &a.TextContent, &a.ContentHash, &a.Summary, &extractedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, briefly.Errorf(briefly.ENOTFOUND, "article not cached")
	}
	if err != nil {
		return nil, err
	}

	if a.ExtractedAt, err = parseTime(extractedAt, "extracted_at"); err != nil {
		return nil, err
	}

	return &a, nil
}
