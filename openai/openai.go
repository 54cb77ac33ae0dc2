// Package openai implements the summarizer and asker against any
// OpenAI-compatible chat completions endpoint.
package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/briefly"
	goopenai "github.com/sashabaranov/go-openai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// Generation settings.
const (
	SummaryTemperature = 0.3
	SummaryMaxTokens   = 768
	AskTemperature     = 0.2
	AskMaxTokens       = 800
)

const (
	summaryInstruction = "You are a helpful assistant that writes concise, accurate summaries of web articles. Use only the text provided."
	askInstruction     = "You are a helpful assistant answering questions about a web article. Answer based only on the document provided. If the answer is not in the document, say so."
)

// ChatClient is the subset of the go-openai client used here. Any
// OpenAI-compatible backend can satisfy it.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, request goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error)
}

// NewClient returns a go-openai client for apiKey. A non-empty baseURL
// points it at an OpenAI-compatible server.
func NewClient(apiKey, baseURL string) *goopenai.Client {
	config := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return goopenai.NewClientWithConfig(config)
}

// BuildRequest returns a single-turn chat completion request.
func BuildRequest(model, instruction, prompt string, temperature float32, maxTokens int) goopenai.ChatCompletionRequest {
	return goopenai.ChatCompletionRequest{
		Model: model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: instruction},
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
		N:           1,
	}
}

func complete(ctx context.Context, client ChatClient, req goopenai.ChatCompletionRequest) (string, error) {
	if client == nil {
		return "", briefly.Errorf(briefly.EUNAUTHORIZED, "openai client not configured")
	}
	resp, err := client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", briefly.Errorf(briefly.EINTERNAL, "model returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func writeDocument(sb *strings.Builder, text string) {
	sb.WriteString("<document>\n")
	fmt.Fprintf(sb, "%s\n", text)
	sb.WriteString("</document>\n\n")
}
