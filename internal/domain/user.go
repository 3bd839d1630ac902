package domain

import (
	"context"
	"time"
)

// Role distinguishes the two kinds of users in the system.
type Role string

const (
	RoleLandlord Role = "landlord"
	RoleTenant   Role = "tenant"
)

// User represents a landlord or tenant account. The role is set at
// registration and never changes afterwards.
type User struct {
	ID        int64
	Email     string // Unique email address
	FirstName string
	LastName  string
	Role      Role
	// LandlordID references the owning landlord. Set for tenants only.
	LandlordID *int64
	// ResidenceID references the property a tenant lives in. Set for tenants only.
	ResidenceID *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsLandlord reports whether the user may own properties and manage tenants.
func (u *User) IsLandlord() bool {
	return u.Role == RoleLandlord
}

// UserUpdate holds the mutable user fields for partial updates.
// Nil fields are left untouched.
type UserUpdate struct {
	FirstName *string
	LastName  *string
}

// UserRepository defines data access for users
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	UpdateByEmail(ctx context.Context, email string, update UserUpdate) (*User, error)
	Delete(ctx context.Context, id int64) error
	ListTenantsByLandlord(ctx context.Context, landlordID int64) ([]*User, error)
	CountTenantsByResidence(ctx context.Context, propertyID int64) (int, error)
}
