package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/yourorg/freehold/internal/domain"
)

// MessageResponse is the error body used across the API surface.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the error body used by the login endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageResponse{Message: msg})
}

// writeDomainError maps the error taxonomy onto HTTP. Authorization failures
// stay 401, matching the original API surface, even though 403 would be the
// conventional code.
func writeDomainError(w http.ResponseWriter, logger *slog.Logger, err error) {
	if reason, ok := domain.IsNotAuthorized(err); ok {
		writeMessage(w, http.StatusUnauthorized, reason)
		return
	}

	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		writeMessage(w, http.StatusUnauthorized, "Unauthenticated")
	case errors.Is(err, domain.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Not found")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeMessage(w, http.StatusBadRequest, "Email is already used")
	default:
		logger.Error("request failed", slog.String("error", err.Error()))
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}
