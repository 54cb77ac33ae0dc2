package openai

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/briefly"
)

// Ensure Summarizer implements briefly.Summarizer at compile time.
var _ briefly.Summarizer = (*Summarizer)(nil)

// Summarizer implements briefly.Summarizer using a chat completions model.
type Summarizer struct {
	client ChatClient
	model  string
}

// NewSummarizer creates a new Summarizer. An empty model selects
// DefaultModel.
func NewSummarizer(client ChatClient, model string) *Summarizer {
	if model == "" {
		model = DefaultModel
	}
	return &Summarizer{client: client, model: model}
}

// Summarize returns a concise summary of text. Empty text is EINVALID.
func (s *Summarizer) Summarize(ctx context.Context, text string) (*briefly.Summary, error) {
	if strings.TrimSpace(text) == "" {
		return nil, briefly.Errorf(briefly.EINVALID, "text required")
	}

	var sb strings.Builder
	writeDocument(&sb, text)
	sb.WriteString("Create a concise summary of the following text.")

	begin := time.Now()
	result, err := complete(ctx, s.client,
		BuildRequest(s.model, summaryInstruction, sb.String(), SummaryTemperature, SummaryMaxTokens))
	if err != nil {
		return nil, err
	}

	return &briefly.Summary{
		Result:   result,
		Thoughts: briefly.SummaryThoughts(s.model, time.Since(begin)),
	}, nil
}
