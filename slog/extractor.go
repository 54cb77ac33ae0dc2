package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/briefly"
)

// Ensure LoggingExtractor implements briefly.Extractor.
var _ briefly.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with logging.
type LoggingExtractor struct {
	next   briefly.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next briefly.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract logs the page size and resulting article length.
func (e *LoggingExtractor) Extract(rawHTML, pageURL string) (article *briefly.Article, err error) {
	defer func(begin time.Time) {
		var length, words int
		var title string
		if article != nil {
			length, words, title = article.Length, article.WordCount(), article.Title
		}
		e.logger.Info("extract",
			"url", pageURL,
			"bytes", len(rawHTML),
			"title", title,
			"length", length,
			"words", words,
			"duration", time.Since(begin),
			"code", briefly.ErrorCode(err),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(rawHTML, pageURL)
}
