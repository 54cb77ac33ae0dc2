// Package digest summarizes a batch of pages, typically the reading list,
// and optionally writes each summary with its article as markdown.
package digest

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/fwojciec/briefly"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of pages processed at once.
const DefaultConcurrency = 4

// Runner fetches, extracts and summarizes pages concurrently.
//
// Summarizer, Cache, RateLimiter, Store, Converter and TokenCounter are
// optional. Without a Summarizer the digest only archives articles.
type Runner struct {
	Fetcher      briefly.Fetcher
	Extractor    briefly.Extractor
	Summarizer   briefly.Summarizer
	Cache        briefly.ArticleCache
	RateLimiter  briefly.DomainLimiter
	Store        briefly.PageStore
	Converter    briefly.Converter
	TokenCounter briefly.TokenCounter

	Concurrency   int
	RetryDelays   []time.Duration
	MinChars      int
	MinWords      int
	MaxInputChars int
}

// Entry is the outcome for one URL.
type Entry struct {
	URL      string
	Title    string
	SiteName string
	Byline   string
	Summary  string
	Markdown string

	// Cached is set when the summary was reused because the cached
	// article text is unchanged.
	Cached bool

	// Err is set when the page could not be summarized. An EINSUFFICIENT
	// code means the article was too short and the model was not called.
	Err error
}

// Result holds the outcome of a digest run. Entries follow input order.
type Result struct {
	Entries    []*Entry
	Summarized int
	Skipped    int
	Failed     int
	Saved      int
	Bytes      int
	Tokens     int
}

// ProgressEvent reports progress during a digest run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting digest progress.
type ProgressFunc func(event ProgressEvent)

type indexedEntry struct {
	position int
	entry    *Entry
}

// Run processes urls and returns one entry per URL in input order.
// Per-URL failures are recorded on their entries; Run itself fails only
// when ctx is canceled or the store cannot be written.
func (r *Runner) Run(ctx context.Context, urls []string, progress ProgressFunc) (*Result, error) {
	if r.Fetcher == nil || r.Extractor == nil {
		return nil, briefly.Errorf(briefly.EINTERNAL, "digest requires a fetcher and an extractor")
	}

	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	total := len(urls)
	notify := func(e ProgressEvent) {
		if progress != nil {
			progress(e)
		}
	}

	notify(ProgressEvent{Type: ProgressStarted, Total: total})

	resultCh := make(chan indexedEntry, total)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, u := range urls {
			g.Go(func() error {
				resultCh <- indexedEntry{position: i, entry: r.process(gctx, u)}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	result := &Result{Entries: make([]*Entry, total)}
	completed := 0
	for ie := range resultCh {
		completed++
		result.Entries[ie.position] = ie.entry

		e := ie.entry
		switch {
		case e.Err == nil:
			result.Summarized++
			notify(ProgressEvent{Type: ProgressCompleted, Completed: completed, Total: total, URL: e.URL})
		case briefly.ErrorCode(e.Err) == briefly.EINSUFFICIENT:
			result.Skipped++
			notify(ProgressEvent{Type: ProgressFailed, Completed: completed, Total: total, URL: e.URL, Error: e.Err})
		default:
			result.Failed++
			notify(ProgressEvent{Type: ProgressFailed, Completed: completed, Total: total, URL: e.URL, Error: e.Err})
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	if err := r.save(ctx, result); err != nil {
		return result, err
	}

	notify(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	return result, nil
}

// process handles a single URL.
func (r *Runner) process(ctx context.Context, rawURL string) *Entry {
	entry := &Entry{URL: rawURL}

	if r.RateLimiter != nil {
		u, err := url.Parse(rawURL)
		if err != nil {
			entry.Err = briefly.Errorf(briefly.EINVALID, "invalid URL %q", rawURL)
			return entry
		}
		if err := r.RateLimiter.Wait(ctx, u.Host); err != nil {
			entry.Err = err
			return entry
		}
	}

	delays := r.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	html, err := FetchWithRetryDelays(ctx, rawURL, r.Fetcher.Fetch, nil, delays)
	if err != nil {
		entry.Err = fmt.Errorf("fetching: %w", err)
		return entry
	}

	article, err := r.Extractor.Extract(html, rawURL)
	if err != nil {
		entry.Err = err
		return entry
	}
	entry.Title, entry.SiteName, entry.Byline = article.Title, article.SiteName, article.Byline

	if r.Converter != nil && article.ContentHTML != "" {
		if entry.Markdown, err = r.Converter.Convert(article.ContentHTML); err != nil {
			entry.Err = fmt.Errorf("converting: %w", err)
			return entry
		}
	}

	if err := article.CheckLength(r.MinWords, r.MinChars); err != nil {
		entry.Err = err
		return entry
	}

	if cached := r.cached(ctx, rawURL); cached != nil && cached.TextContent == article.TextContent && cached.Summary != "" {
		entry.Summary, entry.Cached = cached.Summary, true
		return entry
	}

	if r.Summarizer != nil {
		limit := r.MaxInputChars
		if limit <= 0 {
			limit = briefly.DefaultMaxInputChars
		}
		text, _ := briefly.TruncateText(article.TextContent, limit)
		summary, err := r.Summarizer.Summarize(ctx, text)
		if err != nil {
			entry.Err = err
			return entry
		}
		entry.Summary = summary.Result
	}

	if r.Cache != nil {
		if err := r.Cache.PutArticle(ctx, &briefly.CachedArticle{
			URL:         rawURL,
			Title:       article.Title,
			Byline:      article.Byline,
			SiteName:    article.SiteName,
			TextContent: article.TextContent,
			Summary:     entry.Summary,
		}); err != nil {
			entry.Err = fmt.Errorf("caching: %w", err)
		}
	}

	return entry
}

// cached returns the cached article for rawURL or nil.
func (r *Runner) cached(ctx context.Context, rawURL string) *briefly.CachedArticle {
	if r.Cache == nil {
		return nil
	}
	a, err := r.Cache.FindArticleByURL(ctx, rawURL)
	if err != nil {
		return nil
	}
	return a
}

// save writes successful entries to the store in input order and commits.
// Nothing is committed when no entry succeeded.
func (r *Runner) save(ctx context.Context, result *Result) error {
	for _, e := range result.Entries {
		if e.Err != nil {
			continue
		}
		content := FormatEntry(e.Summary, e.Markdown)
		result.Bytes += len(content)
		if r.TokenCounter != nil {
			if tokens, err := r.TokenCounter.CountTokens(ctx, content); err == nil {
				result.Tokens += tokens
			}
		}
		if r.Store == nil {
			continue
		}
		if err := r.Store.Save(ctx, &briefly.Page{
			URL:      e.URL,
			Title:    e.Title,
			SiteName: e.SiteName,
			Byline:   e.Byline,
			Content:  content,
		}); err != nil {
			_ = r.Store.Abort()
			return fmt.Errorf("saving %s: %w", e.URL, err)
		}
		result.Saved++
	}

	if r.Store == nil {
		return nil
	}
	if result.Saved == 0 {
		return r.Store.Abort()
	}
	return r.Store.Commit()
}
