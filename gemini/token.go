package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/briefly"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

// Ensure TokenCounter implements briefly.TokenCounter at compile time.
var _ briefly.TokenCounter = (*TokenCounter)(nil)

// TokenCounter counts tokens locally with the Gemini tokenizer, without
// calling the API. Digest reports use it to size the saved pages.
type TokenCounter struct {
	model string
	tok   *tokenizer.LocalTokenizer
}

// NewTokenCounter creates a TokenCounter for model.
// Returns EINVALID if the local tokenizer does not know model.
func NewTokenCounter(model string) (*TokenCounter, error) {
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, briefly.Errorf(briefly.EINVALID, "no local tokenizer for model %q: %v", model, err)
	}
	return &TokenCounter{model: model, tok: tok}, nil
}

// Model returns the model whose vocabulary is used.
func (tc *TokenCounter) Model() string { return tc.model }

// CountTokens counts the tokens in text. Blank text has no tokens.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}

	result, err := tc.tok.CountTokens([]*genai.Content{genai.NewContentFromText(text, "user")}, nil)
	if err != nil {
		return 0, fmt.Errorf("counting tokens: %w", err)
	}
	return int(result.TotalTokens), nil
}
