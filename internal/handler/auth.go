package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/yourorg/freehold/internal/domain"
	"github.com/yourorg/freehold/internal/security/middleware"
	"github.com/yourorg/freehold/internal/service"
)

// AuthHandler handles registration and login
type AuthHandler struct {
	authService *service.AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// RegisterRequest carries the profile fields; the identity comes from the
// bearer credential of the freshly created account.
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Type      string `json:"type"`
}

// LoginRequest carries the email and the provider-issued credential.
type LoginRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// Register handles POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	if principal == nil {
		writeMessage(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode register request",
			slog.String("error", err.Error()),
		)
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.authService.Register(r.Context(), principal, service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      domain.Role(req.Type),
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			writeMessage(w, http.StatusBadRequest, "Email is already used")
			return
		}
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Invalid credentials"})
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Token)
	if err != nil {
		// Malformed credential and lookup miss are indistinguishable on
		// purpose.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Invalid credentials"})
		return
	}

	writeJSON(w, http.StatusOK, result)
}
