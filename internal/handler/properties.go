package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/yourorg/freehold/internal/domain"
	"github.com/yourorg/freehold/internal/security/middleware"
	"github.com/yourorg/freehold/internal/service"
)

// PropertiesHandler handles the property API surface
type PropertiesHandler struct {
	propertyService *service.PropertyService
	logger          *slog.Logger
}

// NewPropertiesHandler creates a new properties handler
func NewPropertiesHandler(propertyService *service.PropertyService, logger *slog.Logger) *PropertiesHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &PropertiesHandler{
		propertyService: propertyService,
		logger:          logger,
	}
}

// CreatePropertyRequest is the property creation body.
type CreatePropertyRequest struct {
	Name   string `json:"name"`
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

// PropertyResponse echoes a property record.
type PropertyResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	Zip        string `json:"zip"`
	Status     string `json:"status"`
	LandlordID int64  `json:"landlordId"`
}

func propertyResponse(p *domain.Property) PropertyResponse {
	return PropertyResponse{
		ID:         p.ID,
		Name:       p.Name,
		Street:     p.Street,
		City:       p.City,
		State:      p.State,
		Zip:        p.Zip,
		Status:     string(p.Status),
		LandlordID: p.LandlordID,
	}
}

// Create handles POST /api/properties
func (h *PropertiesHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	if principal == nil {
		writeMessage(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	var req CreatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Street == "" || req.City == "" {
		writeMessage(w, http.StatusBadRequest, "street and city are required")
		return
	}

	property, err := h.propertyService.CreateProperty(r.Context(), principal.Email, service.CreatePropertyInput{
		Name:   req.Name,
		Street: req.Street,
		City:   req.City,
		State:  req.State,
		Zip:    req.Zip,
	})
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, propertyResponse(property))
}

// List handles GET /api/properties
func (h *PropertiesHandler) List(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	if principal == nil {
		writeMessage(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	properties, err := h.propertyService.ListProperties(r.Context(), principal.Email)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	resp := make([]PropertyResponse, 0, len(properties))
	for _, p := range properties {
		resp = append(resp, propertyResponse(p))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/properties/{id}
func (h *PropertiesHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	if principal == nil {
		writeMessage(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid property id")
		return
	}

	property, err := h.propertyService.GetProperty(r.Context(), principal.Email, id)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, propertyResponse(property))
}
