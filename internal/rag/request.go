package rag

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/at-ishikawa/ragask/internal/validation"
)

// AskRequest is the body of an ask call
type AskRequest struct {
	Question string `json:"question" validate:"required"`
}

// AskResponse wraps the provider's answer
type AskResponse struct {
	Answer string `json:"answer"`
}

// ValidationError means a request does not match the AskRequest schema.
// It is detected before the answer provider is called.
type ValidationError struct {
	Fields []validation.FieldError
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Fields))
	for _, field := range e.Fields {
		messages = append(messages, field.Message)
	}
	return "invalid request: " + strings.Join(messages, "; ")
}

func newFieldError(field, tag, message string) *ValidationError {
	return &ValidationError{
		Fields: []validation.FieldError{
			{Field: field, Tag: tag, Message: message},
		},
	}
}

// DecodeAskRequest reads an AskRequest from a JSON body.
// Bodies that are not a JSON object and a question that is not a string are reported as ValidationError;
// presence of the question is checked by Service.Ask.
func DecodeAskRequest(body io.Reader) (AskRequest, error) {
	decoder := json.NewDecoder(body)
	var raw map[string]json.RawMessage
	if err := decoder.Decode(&raw); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			return AskRequest{}, newFieldError("body", "required", "body must be a JSON object")
		case errors.Is(err, io.ErrUnexpectedEOF), errors.As(err, &syntaxErr):
			return AskRequest{}, newFieldError("body", "json", fmt.Sprintf("body must be valid JSON: %v", err))
		case errors.As(err, &typeErr):
			return AskRequest{}, newFieldError("body", "object", "body must be a JSON object")
		}
		return AskRequest{}, fmt.Errorf("read request body > %w", err)
	}
	// Only a single JSON value may be sent
	var extra json.RawMessage
	if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
		var syntaxErr *json.SyntaxError
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.As(err, &syntaxErr) {
			return AskRequest{}, fmt.Errorf("read request body > %w", err)
		}
		return AskRequest{}, newFieldError("body", "json", "body must contain a single JSON object")
	}

	var req AskRequest
	question, ok := raw["question"]
	if !ok || string(question) == "null" {
		return req, nil
	}
	if err := json.Unmarshal(question, &req.Question); err != nil {
		return AskRequest{}, newFieldError("question", "string", "question must be a string")
	}
	return req, nil
}
