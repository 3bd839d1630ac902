package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yourorg/freehold/internal/domain"
	"github.com/yourorg/freehold/internal/observability/metrics"
)

// TenantService implements the tenant onboarding, listing, and removal
// workflows. All authorization decisions live here, not in the handlers.
type TenantService struct {
	store  domain.Store
	logger *slog.Logger
}

// NewTenantService creates a new tenant service
func NewTenantService(store domain.Store, logger *slog.Logger) *TenantService {
	if logger == nil {
		logger = slog.Default()
	}

	return &TenantService{
		store:  store,
		logger: logger,
	}
}

// CreateTenantInput is the tenant-creation request payload.
type CreateTenantInput struct {
	FirstName   string
	LastName    string
	Email       string
	ResidenceID int64
}

// CreateTenant onboards a tenant for the authenticated landlord.
//
// The principal must resolve to a landlord, and the target property must be
// owned by that landlord; otherwise no write happens. On success the tenant
// user is inserted and the property is marked occupied, both inside one
// transaction.
func (s *TenantService) CreateTenant(ctx context.Context, principalEmail string, input CreateTenantInput) (*domain.User, error) {
	principal, err := s.resolveLandlord(ctx, principalEmail, "Only landlords are authorized to create tenants")
	if err != nil {
		metrics.ObserveOnboarding("denied")
		return nil, err
	}

	tenant := &domain.User{
		Email:       input.Email,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Role:        domain.RoleTenant,
		LandlordID:  &principal.ID,
		ResidenceID: &input.ResidenceID,
	}

	err = s.store.InTx(ctx, func(tx domain.Store) error {
		property, err := tx.Properties().FindByID(ctx, input.ResidenceID)
		if err != nil {
			return err
		}

		if property.LandlordID != principal.ID {
			return domain.NotAuthorized("Not authorized to create association with another landlords property")
		}

		if err := tx.Users().Create(ctx, tenant); err != nil {
			return err
		}

		// Unconditional: adding a tenant always leaves the property occupied.
		if err := tx.Properties().UpdateStatus(ctx, property.ID, domain.StatusOccupied); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		if _, denied := domain.IsNotAuthorized(err); denied {
			metrics.ObserveOnboarding("denied")
		} else {
			metrics.ObserveOnboarding("error")
		}
		return nil, err
	}

	metrics.ObserveOnboarding("created")
	metrics.ObserveOccupancyTransition(string(domain.StatusOccupied))

	s.logger.Info("tenant onboarded",
		slog.Int64("tenant_id", tenant.ID),
		slog.Int64("landlord_id", principal.ID),
		slog.Int64("residence_id", input.ResidenceID),
	)

	return tenant, nil
}

// ListTenants returns the tenants managed by the authenticated landlord, in
// store order. Tenants of other landlords are never included.
func (s *TenantService) ListTenants(ctx context.Context, principalEmail string) ([]*domain.User, error) {
	principal, err := s.resolveLandlord(ctx, principalEmail, "Only landlords are authorized to view tenants")
	if err != nil {
		return nil, err
	}

	return s.store.Users().ListTenantsByLandlord(ctx, principal.ID)
}

// RemoveTenant deletes a tenant owned by the authenticated landlord. When the
// last tenant of a property is removed, the property reverts to vacant, in
// the same transaction as the delete.
func (s *TenantService) RemoveTenant(ctx context.Context, principalEmail string, tenantID int64) error {
	principal, err := s.resolveLandlord(ctx, principalEmail, "Only landlords are authorized to remove tenants")
	if err != nil {
		return err
	}

	var vacated bool
	err = s.store.InTx(ctx, func(tx domain.Store) error {
		tenant, err := tx.Users().FindByID(ctx, tenantID)
		if err != nil {
			return err
		}

		if tenant.Role != domain.RoleTenant || tenant.LandlordID == nil || *tenant.LandlordID != principal.ID {
			return domain.NotAuthorized("Not authorized to remove another landlords tenant")
		}

		if err := tx.Users().Delete(ctx, tenantID); err != nil {
			return err
		}

		if tenant.ResidenceID == nil {
			return nil
		}

		remaining, err := tx.Users().CountTenantsByResidence(ctx, *tenant.ResidenceID)
		if err != nil {
			return err
		}

		if remaining == 0 {
			if err := tx.Properties().UpdateStatus(ctx, *tenant.ResidenceID, domain.StatusVacant); err != nil {
				return err
			}
			vacated = true
		}

		return nil
	})
	if err != nil {
		return err
	}

	if vacated {
		metrics.ObserveOccupancyTransition(string(domain.StatusVacant))
	}

	s.logger.Info("tenant removed",
		slog.Int64("tenant_id", tenantID),
		slog.Int64("landlord_id", principal.ID),
	)

	return nil
}

// resolveLandlord maps the principal email to a landlord user. A missing user
// or a non-landlord role both fail authorization with the given reason.
func (s *TenantService) resolveLandlord(ctx context.Context, email, reason string) (*domain.User, error) {
	user, err := s.store.Users().FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotAuthorized(reason)
		}
		return nil, fmt.Errorf("failed to resolve principal: %w", err)
	}

	if !user.IsLandlord() {
		return nil, domain.NotAuthorized(reason)
	}

	return user, nil
}
