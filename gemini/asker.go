package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/briefly"
	"google.golang.org/genai"
)

// Ensure Asker implements briefly.Asker at compile time.
var _ briefly.Asker = (*Asker)(nil)

// Asker implements briefly.Asker using Google Gemini.
type Asker struct {
	client *genai.Client
	model  string
}

// NewAsker creates a new Asker. An empty model selects DefaultModel.
func NewAsker(client *genai.Client, model string) *Asker {
	if model == "" {
		model = DefaultModel
	}
	return &Asker{client: client, model: model}
}

// Ask answers question using only the article text in source.
func (a *Asker) Ask(ctx context.Context, question, source string) (*briefly.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, briefly.Errorf(briefly.EINVALID, "question required")
	}
	if strings.TrimSpace(source) == "" {
		return nil, briefly.Errorf(briefly.EINVALID, "source text required")
	}

	begin := time.Now()
	result, err := generate(ctx, a.client, a.model, BuildAskPrompt(question, source), BuildAskConfig())
	if err != nil {
		return nil, err
	}

	answer := ParseAnswer(result)
	answer.Thoughts = briefly.AnswerThoughts(a.model, time.Since(begin))
	return answer, nil
}

// BuildAskConfig returns the GenerateContentConfig for questions.
func BuildAskConfig() *genai.GenerateContentConfig {
	return buildConfig(
		"You are a helpful assistant answering questions about a web article. Answer based only on the document provided. If the answer is not in the document, say so.",
		AskTemperature,
		AskMaxTokens,
	)
}

// BuildAskPrompt builds the user prompt containing the article and question.
func BuildAskPrompt(question, source string) string {
	var sb strings.Builder
	writeDocument(&sb, source)
	fmt.Fprintf(&sb, "Question: %s", question)
	return sb.String()
}

// ParseAnswer converts a response into an answer with its citations.
// Documents lists the distinct sources cited.
func ParseAnswer(resp *genai.GenerateContentResponse) *briefly.Answer {
	answer := &briefly.Answer{
		Result:    resp.Text(),
		Citations: []briefly.Citation{},
		Documents: []string{},
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].CitationMetadata == nil {
		return answer
	}

	seen := make(map[string]bool)
	for _, c := range resp.Candidates[0].CitationMetadata.Citations {
		if c == nil {
			continue
		}
		citation := briefly.Citation{
			Start: int(c.StartIndex),
			End:   int(c.EndIndex),
			URI:   c.URI,
			Title: c.Title,
		}
		if citation.Start >= 0 && citation.Start <= citation.End && citation.End <= len(answer.Result) {
			citation.Text = answer.Result[citation.Start:citation.End]
		}
		answer.Citations = append(answer.Citations, citation)

		source := c.URI
		if source == "" {
			source = c.Title
		}
		if source != "" && !seen[source] {
			seen[source] = true
			answer.Documents = append(answer.Documents, source)
		}
	}
	return answer
}
