package mock

import (
	"context"

	"github.com/fwojciec/briefly"
)

var _ briefly.ArticleCache = (*ArticleCache)(nil)

// ArticleCache is a mock implementation of briefly.ArticleCache.
type ArticleCache struct {
	PutArticleFn       func(ctx context.Context, a *briefly.CachedArticle) error
	FindArticleByURLFn func(ctx context.Context, url string) (*briefly.CachedArticle, error)
}

func (c *ArticleCache) PutArticle(ctx context.Context, a *briefly.CachedArticle) error {
	return c.PutArticleFn(ctx, a)
}

func (c *ArticleCache) FindArticleByURL(ctx context.Context, url string) (*briefly.CachedArticle, error) {
	return c.FindArticleByURLFn(ctx, url)
}
