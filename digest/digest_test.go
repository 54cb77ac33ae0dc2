package digest_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/briefly"
	"github.com/fwojciec/briefly/digest"
	"github.com/fwojciec/briefly/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var longText = strings.Repeat("Words make up this article. ", 10)

// newRunner returns a runner whose fetcher serves the URL back as the page
// body and whose extractor turns it into an article with text.
func newRunner(text func(url string) string) *digest.Runner {
	return &digest.Runner{
		Fetcher: &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				return "<html><body>" + url + "</body></html>", nil
			},
		},
		Extractor: &mock.Extractor{
			ExtractFn: func(rawHTML, pageURL string) (*briefly.Article, error) {
				return &briefly.Article{
					Title:       "Title of " + pageURL,
					SiteName:    "example.com",
					ContentHTML: "<p>" + text(pageURL) + "</p>",
					TextContent: text(pageURL),
					URL:         pageURL,
				}, nil
			},
		},
		Summarizer: &mock.Summarizer{
			SummarizeFn: func(_ context.Context, in string) (*briefly.Summary, error) {
				return &briefly.Summary{Result: "summary"}, nil
			},
		},
		Concurrency: 3,
		RetryDelays: []time.Duration{0},
		MinChars:    briefly.DefaultMinChars,
	}
}

func constText(string) string { return longText }

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	t.Run("summarizes all URLs in input order", func(t *testing.T) {
		t.Parallel()

		r := newRunner(constText)
		urls := []string{"https://a.com/1", "https://b.com/2", "https://c.com/3", "https://d.com/4"}

		result, err := r.Run(context.Background(), urls, nil)

		require.NoError(t, err)
		require.Len(t, result.Entries, 4)
		for i, u := range urls {
			assert.Equal(t, u, result.Entries[i].URL)
			assert.Equal(t, "summary", result.Entries[i].Summary)
			assert.Equal(t, "Title of "+u, result.Entries[i].Title)
			assert.NoError(t, result.Entries[i].Err)
		}
		assert.Equal(t, 4, result.Summarized)
		assert.Zero(t, result.Failed)
	})

	t.Run("short article is skipped without calling the model", func(t *testing.T) {
		t.Parallel()

		r := newRunner(func(url string) string {
			if strings.HasSuffix(url, "short") {
				return "Too short."
			}
			return longText
		})
		var mu sync.Mutex
		var summarized []string
		r.Summarizer = &mock.Summarizer{
			SummarizeFn: func(_ context.Context, in string) (*briefly.Summary, error) {
				mu.Lock()
				defer mu.Unlock()
				summarized = append(summarized, in)
				return &briefly.Summary{Result: "summary"}, nil
			},
		}

		result, err := r.Run(context.Background(), []string{"https://a.com/short", "https://a.com/long"}, nil)

		require.NoError(t, err)
		assert.Equal(t, briefly.EINSUFFICIENT, briefly.ErrorCode(result.Entries[0].Err))
		assert.NoError(t, result.Entries[1].Err)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, 1, result.Summarized)
		assert.Len(t, summarized, 1)
	})

	t.Run("fetch failure is recorded and others continue", func(t *testing.T) {
		t.Parallel()

		r := newRunner(constText)
		var mu sync.Mutex
		attempts := map[string]int{}
		r.Fetcher = &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				mu.Lock()
				attempts[url]++
				mu.Unlock()
				if url == "https://bad.com" {
					return "", errors.New("connection refused")
				}
				return "<html></html>", nil
			},
		}
		r.RetryDelays = []time.Duration{0, 0}

		result, err := r.Run(context.Background(), []string{"https://bad.com", "https://good.com"}, nil)

		require.NoError(t, err)
		assert.Error(t, result.Entries[0].Err)
		assert.NoError(t, result.Entries[1].Err)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, 3, attempts["https://bad.com"])
	})

	t.Run("not found is not retried", func(t *testing.T) {
		t.Parallel()

		r := newRunner(constText)
		attempts := 0
		r.Fetcher = &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				attempts++
				return "", briefly.Errorf(briefly.ENOTFOUND, "page not found")
			},
		}
		r.Concurrency = 1
		r.RetryDelays = []time.Duration{0, 0, 0}

		result, err := r.Run(context.Background(), []string{"https://gone.com"}, nil)

		require.NoError(t, err)
		assert.Equal(t, briefly.ENOTFOUND, briefly.ErrorCode(result.Entries[0].Err))
		assert.Equal(t, 1, attempts)
	})

	t.Run("reports progress", func(t *testing.T) {
		t.Parallel()

		r := newRunner(constText)
		var events []digest.ProgressEvent

		_, err := r.Run(context.Background(), []string{"https://a.com", "https://b.com"}, func(e digest.ProgressEvent) {
			events = append(events, e)
		})

		require.NoError(t, err)
		require.Len(t, events, 4)
		assert.Equal(t, digest.ProgressStarted, events[0].Type)
		assert.Equal(t, 2, events[0].Total)
		assert.Equal(t, digest.ProgressCompleted, events[1].Type)
		assert.Equal(t, 2, events[2].Completed)
		assert.Equal(t, digest.ProgressFinished, events[3].Type)
	})

	t.Run("waits on rate limiter per host", func(t *testing.T) {
		t.Parallel()

		r := newRunner(constText)
		var mu sync.Mutex
		var domains []string
		r.RateLimiter = &mock.DomainLimiter{
			WaitFn: func(_ context.Context, domain string) error {
				mu.Lock()
				defer mu.Unlock()
				domains = append(domains, domain)
				return nil
			},
		}

		_, err := r.Run(context.Background(), []string{"https://a.com/x", "https://a.com/y"}, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"a.com", "a.com"}, domains)
	})

	t.Run("reuses cached summary when text is unchanged", func(t *testing.T) {
		t.Parallel()

		r := newRunner(constText)
		r.Summarizer = &mock.Summarizer{
			SummarizeFn: func(context.Context, string) (*briefly.Summary, error) {
				t.Error("summarizer should not be called")
				return nil, errors.New("unexpected")
			},
		}
		r.Cache = &mock.ArticleCache{
			FindArticleByURLFn: func(_ context.Context, url string) (*briefly.CachedArticle, error) {
				return &briefly.CachedArticle{URL: url, TextContent: longText, Summary: "from cache"}, nil
			},
		}

		result, err := r.Run(context.Background(), []string{"https://a.com"}, nil)

		require.NoError(t, err)
		assert.True(t, result.Entries[0].Cached)
		assert.Equal(t, "from cache", result.Entries[0].Summary)
	})

	t.Run("stores fresh summaries in cache", func(t *testing.T) {
		t.Parallel()

		r := newRunner(constText)
		var stored *briefly.CachedArticle
		r.Cache = &mock.ArticleCache{
			FindArticleByURLFn: func(context.Context, string) (*briefly.CachedArticle, error) {
				return nil, briefly.Errorf(briefly.ENOTFOUND, "article not cached")
			},
			PutArticleFn: func(_ context.Context, a *briefly.CachedArticle) error {
				stored = a
				return nil
			},
		}
		r.Concurrency = 1

		_, err := r.Run(context.Background(), []string{"https://a.com"}, nil)

		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "summary", stored.Summary)
		assert.Equal(t, longText, stored.TextContent)
	})

	t.Run("saves pages in order and commits", func(t *testing.T) {
		t.Parallel()

		r := newRunner(func(url string) string {
			if strings.Contains(url, "short") {
				return "tiny"
			}
			return longText
		})
		r.Converter = &mock.Converter{
			ConvertFn: func(html string) (string, error) { return "markdown body", nil },
		}
		var saved []*briefly.Page
		committed := false
		r.Store = &mock.PageStore{
			SaveFn: func(_ context.Context, p *briefly.Page) error {
				saved = append(saved, p)
				return nil
			},
			CommitFn: func() error {
				committed = true
				return nil
			},
			AbortFn: func() error { return nil },
		}
		r.TokenCounter = &mock.TokenCounter{
			CountTokensFn: func(_ context.Context, text string) (int, error) { return 10, nil },
		}

		result, err := r.Run(context.Background(), []string{"https://a.com/1", "https://a.com/short", "https://a.com/2"}, nil)

		require.NoError(t, err)
		assert.True(t, committed)
		require.Len(t, saved, 2)
		assert.Equal(t, "https://a.com/1", saved[0].URL)
		assert.Equal(t, "https://a.com/2", saved[1].URL)
		assert.Equal(t, "## Summary\n\nsummary\n\n## Article\n\nmarkdown body\n", saved[0].Content)
		assert.Equal(t, 2, result.Saved)
		assert.Equal(t, 20, result.Tokens)
		assert.Positive(t, result.Bytes)
	})

	t.Run("aborts store when nothing succeeded", func(t *testing.T) {
		t.Parallel()

		r := newRunner(func(string) string { return "tiny" })
		aborted := false
		r.Store = &mock.PageStore{
			AbortFn: func() error {
				aborted = true
				return nil
			},
		}

		result, err := r.Run(context.Background(), []string{"https://a.com"}, nil)

		require.NoError(t, err)
		assert.True(t, aborted)
		assert.Zero(t, result.Saved)
	})

	t.Run("canceled context returns error", func(t *testing.T) {
		t.Parallel()

		r := newRunner(constText)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := r.Run(ctx, []string{"https://a.com"}, nil)

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("requires fetcher and extractor", func(t *testing.T) {
		t.Parallel()

		_, err := (&digest.Runner{}).Run(context.Background(), nil, nil)

		assert.Equal(t, briefly.EINTERNAL, briefly.ErrorCode(err))
	})
}
