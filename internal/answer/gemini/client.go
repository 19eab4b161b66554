// Package gemini answers questions with the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/at-ishikawa/ragask/internal/answer"
	"google.golang.org/genai"
)

const (
	DefaultModel = "gemini-2.5-flash"

	systemInstruction = `You are an HR assistant. Answer the employee's question about company HR policies concisely, in the language of the question. If you do not know, say so.`
)

type generateFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

type Client struct {
	model    string
	generate generateFunc
}

func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient > %w", err)
	}
	return &Client{
		model:    model,
		generate: client.Models.GenerateContent,
	}, nil
}

// Answer implements the answer.Provider interface
func (client *Client) Answer(ctx context.Context, question string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	}

	resp, err := client.generate(ctx, client.model, genai.Text(question), config)
	if err != nil {
		if answer.IsConnectionError(err) {
			return "", fmt.Errorf("%w: %v", answer.ErrUnavailable, err)
		}
		return "", fmt.Errorf("Models.GenerateContent > %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates: %w", answer.ErrEmptyAnswer)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty candidate text: %w", answer.ErrEmptyAnswer)
	}
	slog.Default().Debug("gemini response",
		"model", client.model,
		"question", question,
		"candidates", len(resp.Candidates))
	return text, nil
}
