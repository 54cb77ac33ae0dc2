package briefly

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Pipeline defaults.
const (
	DefaultMinChars      = 50
	DefaultMaxInputChars = 100000
)

// Pipeline ties page loading, extraction and the language model together.
// Summaries and answers are only requested for articles that pass the
// length check; shorter articles are returned with an EINSUFFICIENT error.
type Pipeline struct {
	Fetcher    Fetcher
	Extractor  Extractor
	Summarizer Summarizer
	Asker      Asker

	// MinChars and MinWords are the smallest article worth sending to the
	// model. Zero disables the check.
	MinChars int
	MinWords int

	// MaxInputChars caps the text sent to the model. Zero means
	// DefaultMaxInputChars.
	MaxInputChars int
}

// Extract fetches rawURL and extracts its article.
func (p *Pipeline) Extract(ctx context.Context, rawURL string) (*Article, error) {
	if p.Fetcher == nil {
		return nil, Errorf(EINTERNAL, "no fetcher configured")
	}
	rawHTML, err := p.Fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	return p.ExtractHTML(rawHTML, rawURL)
}

// ExtractHTML extracts the article from a page the caller already holds.
func (p *Pipeline) ExtractHTML(rawHTML, pageURL string) (*Article, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, Errorf(EINVALID, "empty HTML input")
	}
	if p.Extractor == nil {
		return nil, Errorf(EINTERNAL, "no extractor configured")
	}
	return p.Extractor.Extract(rawHTML, pageURL)
}

// Summarize fetches rawURL, extracts its article and summarizes it.
func (p *Pipeline) Summarize(ctx context.Context, rawURL string) (*Article, *Summary, error) {
	if p.Fetcher == nil {
		return nil, nil, Errorf(EINTERNAL, "no fetcher configured")
	}
	rawHTML, err := p.Fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	return p.SummarizeHTML(ctx, rawHTML, rawURL)
}

// SummarizeHTML extracts the article from rawHTML and summarizes it.
// When the article is too short the article is returned together with
// an EINSUFFICIENT error and the summarizer is not called.
func (p *Pipeline) SummarizeHTML(ctx context.Context, rawHTML, pageURL string) (*Article, *Summary, error) {
	article, text, note, err := p.prepare(rawHTML, pageURL)
	if err != nil {
		return article, nil, err
	}
	if p.Summarizer == nil {
		return article, nil, Errorf(EUNAUTHORIZED, "no language model configured")
	}

	summary, err := p.Summarizer.Summarize(ctx, text)
	if err != nil {
		return article, nil, err
	}
	summary.Thoughts = joinThoughts(note, summary.Thoughts)
	return article, summary, nil
}

// Ask fetches rawURL, extracts its article and answers question about it.
func (p *Pipeline) Ask(ctx context.Context, rawURL, question string) (*Article, *Answer, error) {
	if p.Fetcher == nil {
		return nil, nil, Errorf(EINTERNAL, "no fetcher configured")
	}
	rawHTML, err := p.Fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	return p.AskHTML(ctx, rawHTML, rawURL, question)
}

// AskHTML extracts the article from rawHTML and answers question using
// the article text as context.
func (p *Pipeline) AskHTML(ctx context.Context, rawHTML, pageURL, question string) (*Article, *Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, nil, Errorf(EINVALID, "question required")
	}
	article, text, note, err := p.prepare(rawHTML, pageURL)
	if err != nil {
		return article, nil, err
	}
	if p.Asker == nil {
		return article, nil, Errorf(EUNAUTHORIZED, "no language model configured")
	}

	answer, err := p.Asker.Ask(ctx, question, text)
	if err != nil {
		return article, nil, err
	}
	answer.Thoughts = joinThoughts(note, answer.Thoughts)
	return article, answer, nil
}

// prepare extracts the article, checks its length and truncates its text
// for the model. note is non-empty when the text was truncated.
func (p *Pipeline) prepare(rawHTML, pageURL string) (article *Article, text, note string, err error) {
	article, err = p.ExtractHTML(rawHTML, pageURL)
	if err != nil {
		return nil, "", "", err
	}
	if err := article.CheckLength(p.MinWords, p.MinChars); err != nil {
		return article, "", "", err
	}

	limit := p.MaxInputChars
	if limit <= 0 {
		limit = DefaultMaxInputChars
	}
	text, truncated := TruncateText(article.TextContent, limit)
	if truncated {
		note = fmt.Sprintf("Input text truncated from %d to %d characters to fit model limits.",
			utf8.RuneCountInString(article.TextContent), limit)
	}
	return article, text, note, nil
}

// TruncateText shortens text to at most limit runes.
// It reports whether anything was cut.
func TruncateText(text string, limit int) (string, bool) {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text, false
	}
	n := 0
	for i := range text {
		if n == limit {
			return text[:i], true
		}
		n++
	}
	return text, false
}

func joinThoughts(note, thoughts string) string {
	switch {
	case note == "":
		return thoughts
	case thoughts == "":
		return note
	}
	return note + "\n" + thoughts
}
