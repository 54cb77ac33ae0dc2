// Package readability extracts the main article from an HTML document.
//
// Extraction runs in four stages over a private copy of the document:
// sanitizing (scripts and comments), picking the content container,
// post-processing the container (links, nesting, classes) and reading
// metadata. The caller's document is never modified.
package readability

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/fwojciec/briefly"
	"golang.org/x/net/html"
)

// Ensure Extractor implements briefly.Extractor at compile time.
var _ briefly.Extractor = (*Extractor)(nil)

// Parser extracts articles from parsed documents. A Parser only reads its
// options, so one value can serve concurrent calls.
type Parser struct {
	opts   briefly.ExtractOptions
	logger *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for debug output when Debug is on.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// NewParser creates a Parser. Zero values in opts fall back to defaults
// where a zero would be meaningless.
func NewParser(opts briefly.ExtractOptions, options ...Option) *Parser {
	if opts.NbTopCandidates == 0 {
		opts.NbTopCandidates = briefly.DefaultNbTopCandidates
	}
	if opts.AllowedVideoRegex == nil {
		opts.AllowedVideoRegex = briefly.DefaultVideoRegex
	}
	if opts.Strategy == "" {
		opts.Strategy = briefly.StrategyScored
	}
	if opts.Serializer == nil {
		opts.Serializer = InnerHTML
	}
	p := &Parser{opts: opts}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *Parser) debugLogger() *slog.Logger {
	if p.opts.Debug && p.logger != nil {
		return p.logger
	}
	return slog.New(slog.DiscardHandler)
}

// Parse extracts the article from doc. doc is not modified.
// Returns EMISSINGBODY if doc has no body and EINVALID if pageURL does
// not parse.
func (p *Parser) Parse(doc *html.Node, pageURL string) (*briefly.Article, error) {
	if err := p.opts.Validate(); err != nil {
		return nil, err
	}
	page, err := url.Parse(pageURL)
	if err != nil {
		return nil, briefly.Errorf(briefly.EINVALID, "invalid page URL %q", pageURL)
	}
	logger := p.debugLogger()

	work := cloneNode(doc)
	body := findFirst(work, "body")
	if body == nil {
		return nil, briefly.Errorf(briefly.EMISSINGBODY, "document has no body")
	}

	// Structured data lives in scripts, so the byline is read first.
	byline := Byline(work)
	base := page
	if baseEl := findFirst(work, "base"); baseEl != nil && hasAttr(baseEl, "href") {
		if ref, err := url.Parse(getAttr(baseEl, "href")); err == nil {
			base = base.ResolveReference(ref)
		}
	}

	if err := Sanitize(work); err != nil {
		return nil, err
	}

	content, err := p.grab(work, logger)
	if err != nil {
		return nil, err
	}

	FixRelativeURIs(content, base)
	SimplifyNestedElements(content)
	if !p.opts.KeepClasses {
		preserve := map[string]bool{"page": true}
		for _, name := range p.opts.ClassesToPreserve {
			preserve[name] = true
		}
		cleanClasses(content, preserve)
	}

	serialized, err := p.opts.Serializer(content)
	if err != nil {
		return nil, fmt.Errorf("serializing content: %w", err)
	}
	text := PlainText(content)

	return &briefly.Article{
		Title:       Title(work),
		Byline:      byline,
		Direction:   Direction(work),
		Content:     content,
		ContentHTML: serialized,
		TextContent: text,
		Length:      runeLen(text),
		Excerpt:     Excerpt(content),
		SiteName:    briefly.SiteName(page.Hostname()),
		URL:         pageURL,
	}, nil
}

// grab builds the content container from the sanitized document. The
// scored strategy retries with fewer flags while the result is shorter
// than CharThreshold or WordThreshold and keeps the longest attempt.
func (p *Parser) grab(sanitized *html.Node, logger *slog.Logger) (*html.Node, error) {
	switch p.opts.Strategy {
	case briefly.StrategyParagraphs:
		return grabParagraphs(findFirst(sanitized, "body"), p.opts.MinParagraphLength), nil
	case briefly.StrategySelectors:
		return grabSelectors(findFirst(sanitized, "body")), nil
	}

	type attempt struct {
		content *html.Node
		length  int
	}
	var attempts []attempt

	flags := p.opts.Flags
	for {
		work := cloneNode(sanitized)
		if err := prepareDocument(work); err != nil {
			return nil, err
		}
		s := newScorer(&p.opts, flags)
		content := s.grabScored(findFirst(work, "body"), logger)

		text := innerText(content)
		length := runeLen(text)
		words := len(strings.Fields(text))
		if length >= p.opts.CharThreshold && words >= p.opts.WordThreshold {
			return content, nil
		}
		logger.Debug("content below threshold", "length", length, "words", words, "flags", flags)
		attempts = append(attempts, attempt{content: content, length: length})

		switch {
		case flags.Has(briefly.FlagStripUnlikelys):
			flags &^= briefly.FlagStripUnlikelys
		case flags.Has(briefly.FlagWeightClasses):
			flags &^= briefly.FlagWeightClasses
		case flags.Has(briefly.FlagCleanConditionally):
			flags &^= briefly.FlagCleanConditionally
		default:
			best := attempts[0]
			for _, a := range attempts[1:] {
				if a.length > best.length {
					best = a
				}
			}
			return best.content, nil
		}
	}
}

// Extractor implements briefly.Extractor on top of a Parser.
type Extractor struct {
	parser *Parser
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts briefly.ExtractOptions, options ...Option) *Extractor {
	return &Extractor{parser: NewParser(opts, options...)}
}

// Extract parses rawHTML and returns its main article.
func (e *Extractor) Extract(rawHTML, pageURL string) (*briefly.Article, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, briefly.Errorf(briefly.EINVALID, "empty HTML input")
	}
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return e.parser.Parse(doc, pageURL)
}
