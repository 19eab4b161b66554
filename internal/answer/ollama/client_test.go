package ollama

import (
	"context"
	"errors"
	"syscall"
	"testing"

	"github.com/at-ishikawa/ragask/internal/answer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Answer(t *testing.T) {
	tests := []struct {
		name     string
		question string
		generate generateFunc

		want      string
		wantErrIs error
		wantErr   bool
	}{
		{
			name:     "returns the generated response",
			question: "What is HR policy?",
			generate: func(model, system, prompt string) (generation, error) {
				assert.Equal(t, "llama3", model)
				assert.Equal(t, systemPrompt, system)
				assert.Equal(t, "What is HR policy?", prompt)
				return generation{Response: "A", Done: true}, nil
			},
			want: "A",
		},
		{
			name:     "strips code fences",
			question: "q",
			generate: func(model, system, prompt string) (generation, error) {
				return generation{Response: "```\nA\n```", Done: true}, nil
			},
			want: "A",
		},
		{
			name:     "strips a fence with a language tag",
			question: "q",
			generate: func(model, system, prompt string) (generation, error) {
				return generation{Response: "```markdown\nUse `leave` form.\n```", Done: true}, nil
			},
			want: "Use `leave` form.",
		},
		{
			name:     "keeps inline code at the edges",
			question: "q",
			generate: func(model, system, prompt string) (generation, error) {
				return generation{Response: "Run `hr-leave`", Done: true}, nil
			},
			want: "Run `hr-leave`",
		},
		{
			name:     "empty response",
			question: "q",
			generate: func(model, system, prompt string) (generation, error) {
				return generation{Response: "  ", Done: true}, nil
			},
			wantErrIs: answer.ErrEmptyAnswer,
		},
		{
			name:     "unfinished generation",
			question: "q",
			generate: func(model, system, prompt string) (generation, error) {
				return generation{Response: "partial", Done: false}, nil
			},
			wantErr: true,
		},
		{
			name:     "ollama not running",
			question: "q",
			generate: func(model, system, prompt string) (generation, error) {
				return generation{}, syscall.ECONNREFUSED
			},
			wantErrIs: answer.ErrUnavailable,
		},
		{
			name:     "other errors",
			question: "q",
			generate: func(model, system, prompt string) (generation, error) {
				return generation{}, errors.New("model not found")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &Client{model: "llama3", generate: tt.generate}

			got, err := client.Answer(context.Background(), tt.question)
			if tt.wantErrIs != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErrIs)
				return
			}
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_Answer_ContextDone(t *testing.T) {
	client := &Client{
		model: "llama3",
		generate: func(model, system, prompt string) (generation, error) {
			t.Error("generate should not be called with a cancelled context")
			return generation{}, nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Answer(ctx, "q")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewClient(t *testing.T) {
	client, err := NewClient("", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, client.model)
	assert.NotNil(t, client.generate)

	_, err = NewClient("http://[::1]:namedport", "llama3")
	assert.Error(t, err)
}
