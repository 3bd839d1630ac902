package service

import (
	"context"
	"log/slog"

	"github.com/yourorg/freehold/internal/domain"
)

// PropertyService implements property CRUD scoped to the owning landlord.
type PropertyService struct {
	store  domain.Store
	logger *slog.Logger
}

// NewPropertyService creates a new property service
func NewPropertyService(store domain.Store, logger *slog.Logger) *PropertyService {
	if logger == nil {
		logger = slog.Default()
	}

	return &PropertyService{
		store:  store,
		logger: logger,
	}
}

// CreatePropertyInput is the property-creation request payload.
type CreatePropertyInput struct {
	Name   string
	Street string
	City   string
	State  string
	Zip    string
}

// CreateProperty creates a vacant property owned by the authenticated landlord.
func (s *PropertyService) CreateProperty(ctx context.Context, principalEmail string, input CreatePropertyInput) (*domain.Property, error) {
	principal, err := s.resolveLandlord(ctx, principalEmail)
	if err != nil {
		return nil, err
	}

	property := &domain.Property{
		Name:       input.Name,
		Street:     input.Street,
		City:       input.City,
		State:      input.State,
		Zip:        input.Zip,
		Status:     domain.StatusVacant,
		LandlordID: principal.ID,
	}

	if err := s.store.Properties().Create(ctx, property); err != nil {
		return nil, err
	}

	s.logger.Info("property created",
		slog.Int64("property_id", property.ID),
		slog.Int64("landlord_id", principal.ID),
	)

	return property, nil
}

// ListProperties returns the authenticated landlord's properties.
func (s *PropertyService) ListProperties(ctx context.Context, principalEmail string) ([]*domain.Property, error) {
	principal, err := s.resolveLandlord(ctx, principalEmail)
	if err != nil {
		return nil, err
	}

	return s.store.Properties().ListByLandlord(ctx, principal.ID)
}

// GetProperty returns one property. Cross-landlord access is an authorization
// failure, consistent with the tenant surface.
func (s *PropertyService) GetProperty(ctx context.Context, principalEmail string, id int64) (*domain.Property, error) {
	principal, err := s.resolveLandlord(ctx, principalEmail)
	if err != nil {
		return nil, err
	}

	property, err := s.store.Properties().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if property.LandlordID != principal.ID {
		return nil, domain.NotAuthorized("Not authorized to view another landlords property")
	}

	return property, nil
}

func (s *PropertyService) resolveLandlord(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.store.Users().FindByEmail(ctx, email)
	if err != nil {
		return nil, domain.NotAuthorized("Only landlords are authorized to manage properties")
	}

	if !user.IsLandlord() {
		return nil, domain.NotAuthorized("Only landlords are authorized to manage properties")
	}

	return user, nil
}
