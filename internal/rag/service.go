// Package rag exposes the ask operation: a question goes to an answer provider and its answer comes back unchanged.
package rag

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/at-ishikawa/ragask/internal/answer"
	"github.com/at-ishikawa/ragask/internal/validation"
)

type Service struct {
	provider  answer.Provider
	validator *validation.Validator
	timeout   time.Duration
}

// NewService creates a Service. A positive timeout bounds every provider call.
func NewService(provider answer.Provider, timeout time.Duration) (*Service, error) {
	validator, err := validation.New("json")
	if err != nil {
		return nil, fmt.Errorf("validation.New() > %w", err)
	}
	return &Service{
		provider:  provider,
		validator: validator,
		timeout:   timeout,
	}, nil
}

// Ask validates req and passes the question verbatim to the answer provider
func (s *Service) Ask(ctx context.Context, req AskRequest) (AskResponse, error) {
	fieldErrs, err := s.validator.Struct(req)
	if err != nil {
		return AskResponse{}, fmt.Errorf("validator.Struct() > %w", err)
	}
	if len(fieldErrs) > 0 {
		return AskResponse{}, &ValidationError{Fields: fieldErrs}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := s.answer(ctx, req.Question)
	if err != nil {
		return AskResponse{}, fmt.Errorf("provider.Answer() > %w", err)
	}
	slog.Default().Debug("answered question",
		"question", req.Question,
		"elapsed", time.Since(start))
	return AskResponse{Answer: result}, nil
}

// answer stops waiting when ctx is done even if the provider ignores ctx
func (s *Service) answer(ctx context.Context, question string) (string, error) {
	type result struct {
		answer string
		err    error
	}
	resultCh := make(chan result, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				resultCh <- result{err: fmt.Errorf("answer provider panicked: %v", p)}
			}
		}()
		a, err := s.provider.Answer(ctx, question)
		resultCh <- result{answer: a, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-resultCh:
		return r.answer, r.err
	}
}
