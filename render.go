package briefly

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"unicode/utf8"
)

// ContentDiffers reports whether the article extracted from renderedHTML
// is more than 50% longer than the one extracted from staticHTML, which
// means scripts add real content to the page. An extraction error counts
// as a difference.
func ContentDiffers(staticHTML, renderedHTML, pageURL string, extractor Extractor) bool {
	static, err := extractor.Extract(staticHTML, pageURL)
	if err != nil {
		return true
	}
	rendered, err := extractor.Extract(renderedHTML, pageURL)
	if err != nil {
		return true
	}

	staticLen := utf8.RuneCountInString(static.TextContent)
	renderedLen := utf8.RuneCountInString(rendered.TextContent)
	if staticLen == 0 {
		return renderedLen > 0
	}
	return float64(renderedLen) > float64(staticLen)*1.5
}

// Ensure RenderingFetcher implements Fetcher.
var _ Fetcher = (*RenderingFetcher)(nil)

// RenderingFetcher loads pages with a plain HTTP fetcher and falls back to
// a browser when the page looks rendered by scripts: the static fetch
// failed, or its article is shorter than MinChars and the rendered article
// is markedly longer. Once a host needs the browser, later pages from it
// go straight there.
type RenderingFetcher struct {
	Static Fetcher

	// OpenBrowser starts the browser fetcher on first use. A failed start
	// is remembered and static results are returned from then on.
	OpenBrowser func() (Fetcher, error)

	Extractor Extractor
	MinChars  int

	mu         sync.Mutex
	browser    Fetcher
	browserErr error
	rendered   map[string]bool
}

// Fetch returns the HTML of rawURL from whichever fetcher serves it best.
func (f *RenderingFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	host := hostOf(rawURL)
	if f.needsBrowser(host) {
		if browser, err := f.openBrowser(); err == nil {
			return browser.Fetch(ctx, rawURL)
		}
	}

	staticHTML, staticErr := f.Static.Fetch(ctx, rawURL)
	if staticErr != nil {
		if ctx.Err() != nil || ErrorCode(staticErr) == ENOTFOUND {
			return "", staticErr
		}
		browser, err := f.openBrowser()
		if err != nil {
			return "", staticErr
		}
		return browser.Fetch(ctx, rawURL)
	}

	if !f.looksShort(staticHTML, rawURL) {
		return staticHTML, nil
	}
	browser, err := f.openBrowser()
	if err != nil {
		return staticHTML, nil
	}
	renderedHTML, err := browser.Fetch(ctx, rawURL)
	if err != nil {
		return staticHTML, nil
	}
	if !ContentDiffers(staticHTML, renderedHTML, rawURL, f.Extractor) {
		return staticHTML, nil
	}
	f.markRendered(host)
	return renderedHTML, nil
}

// Close closes the static fetcher and the browser, if one was started.
func (f *RenderingFetcher) Close() error {
	f.mu.Lock()
	browser := f.browser
	f.mu.Unlock()

	err := f.Static.Close()
	if browser != nil {
		err = errors.Join(err, browser.Close())
	}
	return err
}

func (f *RenderingFetcher) looksShort(rawHTML, pageURL string) bool {
	if f.Extractor == nil {
		return false
	}
	article, err := f.Extractor.Extract(rawHTML, pageURL)
	if err != nil {
		return true
	}
	return utf8.RuneCountInString(strings.TrimSpace(article.TextContent)) < f.MinChars
}

func (f *RenderingFetcher) openBrowser() (Fetcher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.browser != nil || f.browserErr != nil {
		return f.browser, f.browserErr
	}
	if f.OpenBrowser == nil {
		f.browserErr = Errorf(EINTERNAL, "no browser configured")
		return nil, f.browserErr
	}
	f.browser, f.browserErr = f.OpenBrowser()
	return f.browser, f.browserErr
}

func (f *RenderingFetcher) needsBrowser(host string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rendered[host]
}

func (f *RenderingFetcher) markRendered(host string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rendered == nil {
		f.rendered = make(map[string]bool)
	}
	f.rendered[host] = true
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return SiteName(strings.ToLower(u.Hostname()))
}
