package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/briefly"
	"github.com/fwojciec/briefly/mock"
	bslog "github.com/fwojciec/briefly/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingSummarizer_Summarize(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.Summarizer{
		SummarizeFn: func(ctx context.Context, text string) (*briefly.Summary, error) {
			return &briefly.Summary{Result: "short"}, nil
		},
	}

	summary, err := bslog.NewLoggingSummarizer(inner, logger).Summarize(context.Background(), "a long article")

	require.NoError(t, err)
	assert.Equal(t, "short", summary.Result)
	output := buf.String()
	assert.Contains(t, output, "msg=summarize")
	assert.Contains(t, output, "input_chars=14")
	assert.Contains(t, output, "output_chars=5")
}

func TestLoggingAsker_Ask(t *testing.T) {
	t.Parallel()

	t.Run("logs question and citations", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Asker{
			AskFn: func(ctx context.Context, question, source string) (*briefly.Answer, error) {
				return &briefly.Answer{Result: "yes", Citations: []briefly.Citation{{Start: 0, End: 3}}}, nil
			},
		}

		_, err := bslog.NewLoggingAsker(inner, logger).Ask(context.Background(), "really?", "text")

		require.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, "msg=ask")
		assert.Contains(t, output, "question=really?")
		assert.Contains(t, output, "citations=1")
	})

	t.Run("logs error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Asker{
			AskFn: func(ctx context.Context, question, source string) (*briefly.Answer, error) {
				return nil, errors.New("quota exceeded")
			},
		}

		_, err := bslog.NewLoggingAsker(inner, logger).Ask(context.Background(), "why", "text")

		require.Error(t, err)
		assert.Contains(t, buf.String(), `err="quota exceeded"`)
	})
}
