package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/briefly"
)

var (
	_ briefly.Summarizer = (*LoggingSummarizer)(nil)
	_ briefly.Asker      = (*LoggingAsker)(nil)
)

// LoggingSummarizer wraps a Summarizer with logging.
type LoggingSummarizer struct {
	next   briefly.Summarizer
	logger *slog.Logger
}

// NewLoggingSummarizer creates a new LoggingSummarizer.
func NewLoggingSummarizer(next briefly.Summarizer, logger *slog.Logger) *LoggingSummarizer {
	return &LoggingSummarizer{next: next, logger: logger}
}

func (s *LoggingSummarizer) Summarize(ctx context.Context, text string) (summary *briefly.Summary, err error) {
	defer func(begin time.Time) {
		var out int
		if summary != nil {
			out = len(summary.Result)
		}
		s.logger.Info("summarize",
			"input_chars", len(text),
			"output_chars", out,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Summarize(ctx, text)
}

// LoggingAsker wraps an Asker with logging.
type LoggingAsker struct {
	next   briefly.Asker
	logger *slog.Logger
}

// NewLoggingAsker creates a new LoggingAsker.
func NewLoggingAsker(next briefly.Asker, logger *slog.Logger) *LoggingAsker {
	return &LoggingAsker{next: next, logger: logger}
}

func (a *LoggingAsker) Ask(ctx context.Context, question, source string) (answer *briefly.Answer, err error) {
	defer func(begin time.Time) {
		var citations int
		if answer != nil {
			citations = len(answer.Citations)
		}
		a.logger.Info("ask",
			"question", question,
			"input_chars", len(source),
			"citations", citations,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Ask(ctx, question, source)
}
