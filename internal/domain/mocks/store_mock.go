// Package mocks provides in-memory repository implementations for tests.
package mocks

import (
	"context"
	"time"

	"github.com/yourorg/freehold/internal/domain"
)

// MemStore is an in-memory domain.Store. It is not safe for concurrent use
// and InTx provides no rollback; tests rely on workflows checking
// authorization before writing.
type MemStore struct {
	UserRepo     *MemUserRepo
	PropertyRepo *MemPropertyRepo
}

func NewMemStore() *MemStore {
	return &MemStore{
		UserRepo:     &MemUserRepo{ByID: map[int64]*domain.User{}},
		PropertyRepo: &MemPropertyRepo{ByID: map[int64]*domain.Property{}},
	}
}

func (s *MemStore) Users() domain.UserRepository {
	return s.UserRepo
}

func (s *MemStore) Properties() domain.PropertyRepository {
	return s.PropertyRepo
}

func (s *MemStore) InTx(_ context.Context, fn func(domain.Store) error) error {
	return fn(s)
}

// SeedLandlord inserts a landlord and returns it.
func (s *MemStore) SeedLandlord(email string) *domain.User {
	u := &domain.User{
		Email:     email,
		FirstName: "landlord",
		LastName:  "person",
		Role:      domain.RoleLandlord,
	}
	s.UserRepo.Create(context.Background(), u)
	return u
}

// SeedProperty inserts a vacant property for the landlord and returns it.
func (s *MemStore) SeedProperty(landlordID int64) *domain.Property {
	p := &domain.Property{
		Name:       "unit",
		Street:     "123 Main St",
		City:       "Springfield",
		Status:     domain.StatusVacant,
		LandlordID: landlordID,
	}
	s.PropertyRepo.Create(context.Background(), p)
	return p
}

// SeedTenant inserts a tenant living in the given property.
func (s *MemStore) SeedTenant(email string, landlordID, residenceID int64) *domain.User {
	u := &domain.User{
		Email:       email,
		FirstName:   "tenant",
		LastName:    "person",
		Role:        domain.RoleTenant,
		LandlordID:  &landlordID,
		ResidenceID: &residenceID,
	}
	s.UserRepo.Create(context.Background(), u)
	return u
}

// MemUserRepo implements domain.UserRepository in memory.
type MemUserRepo struct {
	ByID   map[int64]*domain.User
	nextID int64
}

func (m *MemUserRepo) Create(_ context.Context, u *domain.User) error {
	for _, existing := range m.ByID {
		if existing.Email == u.Email {
			return domain.ErrAlreadyExists
		}
	}
	m.nextID++
	u.ID = m.nextID
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.ByID[u.ID] = u
	return nil
}

func (m *MemUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	if u, ok := m.ByID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (m *MemUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.ByID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MemUserRepo) UpdateByEmail(ctx context.Context, email string, update domain.UserUpdate) (*domain.User, error) {
	u, err := m.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if update.FirstName != nil {
		u.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		u.LastName = *update.LastName
	}
	u.UpdatedAt = time.Now()
	return u, nil
}

func (m *MemUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.ByID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.ByID, id)
	return nil
}

func (m *MemUserRepo) ListTenantsByLandlord(_ context.Context, landlordID int64) ([]*domain.User, error) {
	var out []*domain.User
	for id := int64(1); id <= m.nextID; id++ {
		u, ok := m.ByID[id]
		if !ok {
			continue
		}
		if u.Role == domain.RoleTenant && u.LandlordID != nil && *u.LandlordID == landlordID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *MemUserRepo) CountTenantsByResidence(_ context.Context, propertyID int64) (int, error) {
	count := 0
	for _, u := range m.ByID {
		if u.Role == domain.RoleTenant && u.ResidenceID != nil && *u.ResidenceID == propertyID {
			count++
		}
	}
	return count, nil
}

// MemPropertyRepo implements domain.PropertyRepository in memory.
type MemPropertyRepo struct {
	ByID   map[int64]*domain.Property
	nextID int64
}

func (m *MemPropertyRepo) Create(_ context.Context, p *domain.Property) error {
	if p.Status == "" {
		p.Status = domain.StatusVacant
	}
	m.nextID++
	p.ID = m.nextID
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.ByID[p.ID] = p
	return nil
}

func (m *MemPropertyRepo) FindByID(_ context.Context, id int64) (*domain.Property, error) {
	if p, ok := m.ByID[id]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (m *MemPropertyRepo) ListByLandlord(_ context.Context, landlordID int64) ([]*domain.Property, error) {
	var out []*domain.Property
	for id := int64(1); id <= m.nextID; id++ {
		p, ok := m.ByID[id]
		if !ok {
			continue
		}
		if p.LandlordID == landlordID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MemPropertyRepo) UpdateStatus(_ context.Context, id int64, status domain.OccupancyStatus) error {
	p, ok := m.ByID[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status = status
	p.UpdatedAt = time.Now()
	return nil
}
