package answer

import (
	"context"
	"errors"
	"fmt"
)

//go:generate mockgen -source=provider.go -destination=../mocks/answer/mock_provider.go -package=mock_answer

// DefaultMaxRetryAttempts is the number of retries after the first call to a backend
const DefaultMaxRetryAttempts uint = 2

// Provider computes an answer for a natural-language question.
// Implementations own all retrieval and generation logic.
type Provider interface {
	Answer(ctx context.Context, question string) (string, error)
}

// Func adapts a plain function to the Provider interface
type Func func(ctx context.Context, question string) (string, error)

func (f Func) Answer(ctx context.Context, question string) (string, error) {
	return f(ctx, question)
}

var (
	// ErrUnavailable is returned when the backend of a provider cannot be reached
	ErrUnavailable = errors.New("answer provider unavailable")
	// ErrEmptyAnswer is returned when the backend responded without an answer
	ErrEmptyAnswer = errors.New("answer provider returned no answer")
)

// UpstreamError is a non-2xx response from a provider's backend
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("response error %d", e.StatusCode)
	}
	return fmt.Sprintf("response error %d: %s", e.StatusCode, e.Message)
}
