package gemini

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/briefly"
	"google.golang.org/genai"
)

// Ensure Summarizer implements briefly.Summarizer at compile time.
var _ briefly.Summarizer = (*Summarizer)(nil)

// Summarizer implements briefly.Summarizer using Google Gemini.
type Summarizer struct {
	client *genai.Client
	model  string
}

// NewSummarizer creates a new Summarizer. An empty model selects
// DefaultModel.
func NewSummarizer(client *genai.Client, model string) *Summarizer {
	if model == "" {
		model = DefaultModel
	}
	return &Summarizer{client: client, model: model}
}

// Summarize returns a concise summary of text.
func (s *Summarizer) Summarize(ctx context.Context, text string) (*briefly.Summary, error) {
	if strings.TrimSpace(text) == "" {
		return nil, briefly.Errorf(briefly.EINVALID, "text required")
	}

	begin := time.Now()
	result, err := generate(ctx, s.client, s.model, BuildSummaryPrompt(text), BuildSummaryConfig())
	if err != nil {
		return nil, err
	}

	return &briefly.Summary{
		Result:   result.Text(),
		Thoughts: briefly.SummaryThoughts(s.model, time.Since(begin)),
	}, nil
}

// BuildSummaryConfig returns the GenerateContentConfig for summaries.
func BuildSummaryConfig() *genai.GenerateContentConfig {
	return buildConfig(
		"You are a helpful assistant that writes concise, accurate summaries of web articles. Use only the text provided.",
		SummaryTemperature,
		SummaryMaxTokens,
	)
}

// BuildSummaryPrompt builds the user prompt for summarizing text.
func BuildSummaryPrompt(text string) string {
	var sb strings.Builder
	writeDocument(&sb, text)
	sb.WriteString("Create a concise summary of the following text.")
	return sb.String()
}
