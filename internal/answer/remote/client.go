// Package remote answers questions by forwarding them to a separate RAG service over HTTP.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/at-ishikawa/ragask/internal/answer"
	"resty.dev/v3"
)

const (
	askPath = "/rag/ask"

	DefaultTimeout = 30 * time.Second
)

type Client struct {
	httpClient       *resty.Client
	baseURL          string
	timeout          time.Duration
	maxRetryAttempts uint
}

func NewClient(baseURL string, timeout time.Duration, retryAttempts uint) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("Accept", "application/json")

	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient:       client,
		baseURL:          baseURL,
		timeout:          timeout,
		maxRetryAttempts: retryAttempts,
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

type AskRequest struct {
	Question string `json:"question"`
}

type AskResponse struct {
	Answer string `json:"answer"`
}

// Answer implements the answer.Provider interface
func (client *Client) Answer(ctx context.Context, question string) (string, error) {
	var result string
	if err := answer.Do(ctx, client.maxRetryAttempts, func() error {
		response, err := client.ask(ctx, question)
		if err != nil {
			return err
		}
		result = response
		return nil
	}); err != nil {
		return "", err
	}
	return result, nil
}

func (client *Client) ask(ctx context.Context, question string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, client.timeout)
	defer cancel()

	slog.Default().Debug("calling RAG service",
		"baseURL", client.baseURL,
		"question", question)

	response, err := client.httpClient.R().
		SetContext(attemptCtx).
		SetBody(AskRequest{Question: question}).
		SetResult(&AskResponse{}).
		Post(askPath)
	if err != nil {
		if ctx.Err() == nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: no response within %s", answer.ErrUnavailable, client.timeout)
		}
		if answer.IsConnectionError(err) {
			return "", fmt.Errorf("%w: %v", answer.ErrUnavailable, err)
		}
		return "", fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		slog.Default().Error("RAG service error response",
			"status", response.StatusCode(),
			"body", response.String())
		return "", &answer.UpstreamError{
			StatusCode: response.StatusCode(),
			Message:    upstreamMessage(response.String()),
		}
	}
	if response.StatusCode() != http.StatusOK {
		slog.Default().Warn("unexpected RAG service status", "status", response.StatusCode())
	}

	responseBody, ok := response.Result().(*AskResponse)
	if !ok || responseBody == nil || responseBody.Answer == "" {
		slog.Default().Error("invalid RAG service response format", "body", response.String())
		return "", fmt.Errorf("response missing answer field: %w", answer.ErrEmptyAnswer)
	}
	return responseBody.Answer, nil
}

// upstreamMessage picks a human readable message out of an error body.
// FastAPI puts it under "detail", the node gateway under "error" or "message".
func upstreamMessage(body string) string {
	var decoded map[string]any
	if err := json.Unmarshal([]byte(body), &decoded); err != nil {
		return strings.TrimSpace(body)
	}
	for _, key := range []string{"error", "message", "detail"} {
		value, ok := decoded[key]
		if !ok || value == nil {
			continue
		}
		if s, ok := value.(string); ok {
			return s
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			continue
		}
		return string(encoded)
	}
	return strings.TrimSpace(body)
}
