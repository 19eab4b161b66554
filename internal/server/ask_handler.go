package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/at-ishikawa/ragask/internal/rag"
)

const maxRequestBodyBytes = 1 << 20

type asker interface {
	Ask(ctx context.Context, req rag.AskRequest) (rag.AskResponse, error)
}

// AskHandler serves the ask endpoint
type AskHandler struct {
	service asker
}

func NewAskHandler(service asker) *AskHandler {
	return &AskHandler{service: service}
}

func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	req, err := rag.DecodeAskRequest(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if err != nil {
		var validationErr *rag.ValidationError
		var maxBytesErr *http.MaxBytesError
		if !errors.As(err, &validationErr) && !errors.As(err, &maxBytesErr) {
			writeJSON(w, http.StatusBadRequest, errorResp(r, CodeBadRequest, fmt.Sprintf("failed to read request body: %v", err)))
			return
		}
		writeError(w, r, err)
		return
	}

	resp, err := h.service.Ask(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
