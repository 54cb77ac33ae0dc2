package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/briefly"
)

// Ensure Asker implements briefly.Asker at compile time.
var _ briefly.Asker = (*Asker)(nil)

// Asker implements briefly.Asker using a chat completions model.
// Chat completions carry no grounding metadata, so answers have no
// citations.
type Asker struct {
	client ChatClient
	model  string
}

// NewAsker creates a new Asker. An empty model selects DefaultModel.
func NewAsker(client ChatClient, model string) *Asker {
	if model == "" {
		model = DefaultModel
	}
	return &Asker{client: client, model: model}
}

// Ask answers question from the article text in source. The model is
// told to say so when source does not hold the answer.
func (a *Asker) Ask(ctx context.Context, question, source string) (*briefly.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, briefly.Errorf(briefly.EINVALID, "question required")
	}
	if strings.TrimSpace(source) == "" {
		return nil, briefly.Errorf(briefly.EINVALID, "source text required")
	}

	var sb strings.Builder
	writeDocument(&sb, source)
	fmt.Fprintf(&sb, "Question: %s", question)

	begin := time.Now()
	result, err := complete(ctx, a.client,
		BuildRequest(a.model, askInstruction, sb.String(), AskTemperature, AskMaxTokens))
	if err != nil {
		return nil, err
	}

	return &briefly.Answer{
		Result:    result,
		Thoughts:  briefly.AnswerThoughts(a.model, time.Since(begin)),
		Citations: []briefly.Citation{},
		Documents: []string{},
	}, nil
}
