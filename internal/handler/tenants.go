package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/yourorg/freehold/internal/domain"
	"github.com/yourorg/freehold/internal/security/audit"
	"github.com/yourorg/freehold/internal/security/middleware"
	"github.com/yourorg/freehold/internal/service"
)

// TenantsHandler handles the tenant API surface
type TenantsHandler struct {
	tenantService *service.TenantService
	auditLog      *audit.Logger
	logger        *slog.Logger
}

// NewTenantsHandler creates a new tenants handler
func NewTenantsHandler(tenantService *service.TenantService, auditLog *audit.Logger, logger *slog.Logger) *TenantsHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &TenantsHandler{
		tenantService: tenantService,
		auditLog:      auditLog,
		logger:        logger,
	}
}

// CreateTenantRequest is the tenant creation body.
type CreateTenantRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	ResidenceID int64  `json:"residenceId"`
}

// TenantResponse echoes a tenant record.
type TenantResponse struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	ResidenceID int64  `json:"residenceId"`
	LandlordID  int64  `json:"landlordId"`
}

func tenantResponse(u *domain.User) TenantResponse {
	resp := TenantResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
	if u.ResidenceID != nil {
		resp.ResidenceID = *u.ResidenceID
	}
	if u.LandlordID != nil {
		resp.LandlordID = *u.LandlordID
	}
	return resp
}

// Create handles POST /api/tenants
func (h *TenantsHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	if principal == nil {
		writeMessage(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	var req CreateTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode create tenant request",
			slog.String("error", err.Error()),
		)
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.ResidenceID == 0 {
		writeMessage(w, http.StatusBadRequest, "email and residenceId are required")
		return
	}

	tenant, err := h.tenantService.CreateTenant(r.Context(), principal.Email, service.CreateTenantInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		ResidenceID: req.ResidenceID,
	})
	if err != nil {
		if reason, denied := domain.IsNotAuthorized(err); denied {
			h.auditLog.LogDenied(r.Context(), principal.Email, "create", reason)
		}
		writeDomainError(w, h.logger, err)
		return
	}

	h.auditLog.LogTenantCreated(r.Context(), principal.Email, tenant.ID)
	writeJSON(w, http.StatusCreated, tenantResponse(tenant))
}

// List handles GET /api/tenants
func (h *TenantsHandler) List(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	if principal == nil {
		writeMessage(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	tenants, err := h.tenantService.ListTenants(r.Context(), principal.Email)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	resp := make([]TenantResponse, 0, len(tenants))
	for _, t := range tenants {
		resp = append(resp, tenantResponse(t))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Remove handles DELETE /api/tenants/{id}
func (h *TenantsHandler) Remove(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	if principal == nil {
		writeMessage(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid tenant id")
		return
	}

	if err := h.tenantService.RemoveTenant(r.Context(), principal.Email, id); err != nil {
		if reason, denied := domain.IsNotAuthorized(err); denied {
			h.auditLog.LogDenied(r.Context(), principal.Email, "remove", reason)
		}
		writeDomainError(w, h.logger, err)
		return
	}

	h.auditLog.LogTenantRemoved(r.Context(), principal.Email, id)
	w.WriteHeader(http.StatusNoContent)
}
