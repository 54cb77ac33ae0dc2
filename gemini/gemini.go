// Package gemini implements the summarizer, asker and token counter on top
// of the Google Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/briefly"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Generation settings.
const (
	SummaryTemperature = 0.3
	SummaryMaxTokens   = 768
	AskTemperature     = 0.2
	AskMaxTokens       = 800
)

// generate sends a single-turn prompt and returns the raw response.
func generate(ctx context.Context, client *genai.Client, model, prompt string, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if client == nil {
		return nil, briefly.Errorf(briefly.EUNAUTHORIZED, "gemini client not configured")
	}
	result, err := client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, briefly.Errorf(briefly.EINTERNAL, "gemini returned nil result")
	}
	return result, nil
}

func buildConfig(instruction string, temperature float32, maxTokens int32) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: instruction}},
		},
		Temperature:     &temperature,
		MaxOutputTokens: maxTokens,
	}
}

// writeDocument wraps text in a document block.
func writeDocument(sb *strings.Builder, text string) {
	sb.WriteString("<document>\n")
	fmt.Fprintf(sb, "%s\n", text)
	sb.WriteString("</document>\n\n")
}
