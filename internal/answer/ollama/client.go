// Package ollama answers questions with a model served by a local Ollama instance.
package ollama

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/JexSrs/go-ollama"
	"github.com/at-ishikawa/ragask/internal/answer"
)

const (
	DefaultHost  = "http://localhost:11434"
	DefaultModel = "llama3"

	systemPrompt = `You are an HR assistant. Answer the employee's question about company HR policies concisely, in the language of the question.`
)

// generation is the part of a generate response the client relies on
type generation struct {
	Response string
	Done     bool
}

type generateFunc func(model, system, prompt string) (generation, error)

type Client struct {
	model    string
	generate generateFunc
}

func NewClient(host, model string) (*Client, error) {
	if host == "" {
		host = DefaultHost
	}
	if model == "" {
		model = DefaultModel
	}

	ollamaURL, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("url.Parse(%s) > %w", host, err)
	}
	client := ollama.New(*ollamaURL)

	slog.Default().Debug("using ollama", "host", host, "model", model)
	return &Client{
		model: model,
		generate: func(model, system, prompt string) (generation, error) {
			res, err := client.Generate(
				client.Generate.WithModel(model),
				client.Generate.WithSystem(system),
				client.Generate.WithPrompt(prompt),
			)
			if err != nil {
				return generation{}, err
			}
			return generation{Response: res.Response, Done: res.Done}, nil
		},
	}, nil
}

// Answer implements the answer.Provider interface.
// The ollama library does not take a context, so ctx is only checked before the call.
func (client *Client) Answer(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return client.answer(question)
}

func (client *Client) answer(question string) (string, error) {
	res, err := client.generate(client.model, systemPrompt, question)
	if err != nil {
		if answer.IsConnectionError(err) {
			return "", fmt.Errorf("%w: %v", answer.ErrUnavailable, err)
		}
		return "", fmt.Errorf("ollama.Generate > %w", err)
	}
	if !res.Done {
		return "", errors.New("ollama generation did not finish")
	}

	content := trimCodeFence(res.Response)
	if content == "" {
		return "", answer.ErrEmptyAnswer
	}
	return content, nil
}

// trimCodeFence removes a code fence that wraps the whole response, including its language tag.
// Backticks inside the answer are kept.
func trimCodeFence(response string) string {
	content := strings.TrimSpace(response)
	if !strings.HasPrefix(content, "```") || !strings.HasSuffix(content, "```") || len(content) < 6 {
		return content
	}
	content = strings.TrimSuffix(strings.TrimPrefix(content, "```"), "```")
	if newline := strings.IndexByte(content, '\n'); newline >= 0 && !strings.ContainsAny(content[:newline], " \t`") {
		content = content[newline+1:]
	}
	return strings.TrimSpace(content)
}
