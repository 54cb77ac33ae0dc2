package mock

import (
	"context"

	"github.com/fwojciec/briefly"
)

// Compile-time interface verification.
var (
	_ briefly.Summarizer = (*Summarizer)(nil)
	_ briefly.Asker      = (*Asker)(nil)
)

// Summarizer is a mock implementation of briefly.Summarizer.
type Summarizer struct {
	SummarizeFn func(ctx context.Context, text string) (*briefly.Summary, error)
}

func (s *Summarizer) Summarize(ctx context.Context, text string) (*briefly.Summary, error) {
	return s.SummarizeFn(ctx, text)
}

// Asker is a mock implementation of briefly.Asker.
type Asker struct {
	AskFn func(ctx context.Context, question, source string) (*briefly.Answer, error)
}

func (a *Asker) Ask(ctx context.Context, question, source string) (*briefly.Answer, error) {
	return a.AskFn(ctx, question, source)
}
