package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/at-ishikawa/ragask/internal/answer"
	"resty.dev/v3"
)

const systemPrompt = `You are an HR assistant for the company's employees.
Answer the employee's question about HR policies, leave, benefits, payroll and workplace procedures.
Answer concisely in the language of the question. If you do not know the answer, say so and suggest contacting the HR department.`

type Client struct {
	httpClient       *resty.Client
	model            string
	maxRetryAttempts uint
}

func NewClient(apiKey, model string, retryAttempts uint) *Client {
	client := resty.New()
	client.SetBaseURL("https://api.openai.com/v1")
	client.SetHeader("Authorization", "Bearer "+apiKey)
	client.SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient:       client,
		model:            model,
		maxRetryAttempts: retryAttempts,
	}
}

func (client Client) Close() error {
	return client.httpClient.Close()
}

// GetModel returns the model name configured for this client
func (client Client) GetModel() string {
	return client.model
}

type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature,omitempty"`
}

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Index        int           `json:"index"`
	Message      ChoiceMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type ChoiceMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Answer implements the answer.Provider interface
func (client *Client) Answer(ctx context.Context, question string) (string, error) {
	var result string
	if err := answer.Do(ctx, client.maxRetryAttempts, func() error {
		response, err := client.answer(ctx, question)
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

func (client *Client) getRequestBody(question string) ChatCompletionRequest {
	return ChatCompletionRequest{
		Model: client.model,
		Messages: []Message{
			{Role: RoleSystem, Content: systemPrompt},
			{Role: RoleUser, Content: question},
		},
		Temperature: 0.2,
	}
}

func (client *Client) answer(ctx context.Context, question string) (string, error) {
	requestBody := client.getRequestBody(question)

	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(requestBody).
		SetResult(&ChatCompletionResponse{}).
		Post("/chat/completions")
	if err != nil {
		if answer.IsConnectionError(err) {
			return "", fmt.Errorf("%w: %v", answer.ErrUnavailable, err)
		}
		return "", fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return "", &answer.UpstreamError{
			StatusCode: response.StatusCode(),
			Message:    response.String(),
		}
	}

	responseBody, ok := response.Result().(*ChatCompletionResponse)
	if !ok || responseBody == nil || len(responseBody.Choices) == 0 {
		return "", fmt.Errorf("empty response body or choices: %s: %w", response.String(), answer.ErrEmptyAnswer)
	}

	content := responseBody.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty response content: %s: %w", response.String(), answer.ErrEmptyAnswer)
	}
	slog.Default().Debug("openai response content",
		"model", client.model,
		"question", question,
		"usage", responseBody.Usage,
	)
	return content, nil
}
