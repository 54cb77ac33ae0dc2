package briefly

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Summary is a model-generated summary of an article.
type Summary struct {
	Result string `json:"result"`

	// Thoughts describes the steps taken to produce the result,
	// one per line.
	Thoughts string `json:"thoughts"`
}

// Citation links a span of an answer to the source it was drawn from.
type Citation struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text,omitempty"`
	URI   string `json:"uri,omitempty"`
	Title string `json:"title,omitempty"`
}

// Answer is a model-generated answer to a question about an article.
type Answer struct {
	Result    string     `json:"result"`
	Thoughts  string     `json:"thoughts"`
	Citations []Citation `json:"citations"`
	Documents []string   `json:"documents"`
}

// Summarizer produces summaries of article text.
type Summarizer interface {
	// Summarize returns a summary of text.
	// Returns EINVALID if text is empty.
	Summarize(ctx context.Context, text string) (*Summary, error)
}

// Asker answers natural language questions about article text.
type Asker interface {
	// Ask answers question using source as the only reference text.
	// Returns EINVALID if question or source is empty.
	Ask(ctx context.Context, question, source string) (*Answer, error)
}

// SummaryThoughts returns the progress notes attached to a summary that
// model produced in elapsed time.
func SummaryThoughts(model string, elapsed time.Duration) string {
	return strings.Join([]string{
		"Processing text content for summarization...",
		"Identifying key information and main points...",
		fmt.Sprintf("Creating a concise summary using %s...", model),
		fmt.Sprintf("Summary generated in %.2f seconds.", elapsed.Seconds()),
	}, "\n")
}

// AnswerThoughts returns the progress notes attached to an answer that
// model produced in elapsed time.
func AnswerThoughts(model string, elapsed time.Duration) string {
	return strings.Join([]string{
		"Processing question and context...",
		"Searching for relevant information in the context...",
		fmt.Sprintf("Formulating an answer using %s...", model),
		fmt.Sprintf("Answer generated in %.2f seconds.", elapsed.Seconds()),
	}, "\n")
}
