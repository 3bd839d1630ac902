package domain

import (
	"context"
	"time"
)

// OccupancyStatus is a derived fact about whether a property currently has
// at least one tenant. It is kept consistent with the tenant set on both the
// add and remove paths.
type OccupancyStatus string

const (
	StatusVacant   OccupancyStatus = "vacant"
	StatusOccupied OccupancyStatus = "occupied"
)

// Property represents a rental unit owned by a landlord.
type Property struct {
	ID         int64
	Name       string
	Street     string
	City       string
	State      string
	Zip        string
	Status     OccupancyStatus // starts vacant
	LandlordID int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PropertyRepository defines data access for properties
type PropertyRepository interface {
	Create(ctx context.Context, property *Property) error
	FindByID(ctx context.Context, id int64) (*Property, error)
	ListByLandlord(ctx context.Context, landlordID int64) ([]*Property, error)
	UpdateStatus(ctx context.Context, id int64, status OccupancyStatus) error
}

// Store bundles the repositories over one database and runs functions within
// a single transaction. InTx hands the callback a Store whose repositories
// all write through the same transaction; returning an error rolls back.
type Store interface {
	Users() UserRepository
	Properties() PropertyRepository
	InTx(ctx context.Context, fn func(Store) error) error
}
