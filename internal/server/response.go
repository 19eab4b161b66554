package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/at-ishikawa/ragask/internal/answer"
	"github.com/at-ishikawa/ragask/internal/rag"
	"github.com/at-ishikawa/ragask/internal/validation"
)

const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeBadRequest          = "BAD_REQUEST"
	CodeRequestTooLarge     = "REQUEST_TOO_LARGE"
	CodeProviderUnavailable = "PROVIDER_UNAVAILABLE"
	CodeProviderTimeout     = "PROVIDER_TIMEOUT"
	CodeProviderError       = "PROVIDER_ERROR"
	CodeProviderFailure     = "PROVIDER_FAILURE"
)

type ErrorResponse struct {
	Error APIError `json:"error"`
}

type APIError struct {
	Code      string                  `json:"code"`
	Message   string                  `json:"message"`
	Fields    []validation.FieldError `json:"fields,omitempty"`
	RequestID string                  `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Default().Error("failed to write response", "error", err)
	}
}

func errorResp(r *http.Request, code, message string) ErrorResponse {
	return ErrorResponse{
		Error: APIError{
			Code:      code,
			Message:   message,
			RequestID: RequestIDFromContext(r.Context()),
		},
	}
}

// writeError maps an error from decoding or answering a question to a status code and an error body.
// The body never carries an answer.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *rag.ValidationError
	if errors.As(err, &validationErr) {
		resp := errorResp(r, CodeValidation, validationErr.Error())
		resp.Error.Fields = validationErr.Fields
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResp(r, CodeRequestTooLarge, "request body is too large"))
		return
	}

	if errors.Is(err, context.Canceled) && r.Context().Err() != nil {
		slog.Default().Debug("client went away before the answer was ready",
			"requestID", RequestIDFromContext(r.Context()),
			"error", err)
		writeJSON(w, http.StatusInternalServerError, errorResp(r, CodeProviderFailure, "request was cancelled"))
		return
	}
	slog.Default().Error("failed to answer a question",
		"requestID", RequestIDFromContext(r.Context()),
		"error", err)

	var upstreamErr *answer.UpstreamError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusGatewayTimeout, errorResp(r, CodeProviderTimeout, "the answer provider did not respond in time"))
	case errors.Is(err, answer.ErrUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorResp(r, CodeProviderUnavailable, "the answer service is not running or not reachable"))
	case errors.As(err, &upstreamErr):
		status := upstreamErr.StatusCode
		if status < http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		writeJSON(w, status, errorResp(r, CodeProviderError, "the answer service returned an error"))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResp(r, CodeProviderFailure, "failed to compute an answer"))
	}
}
