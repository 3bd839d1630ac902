package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yourorg/freehold/internal/domain"
	"github.com/yourorg/freehold/pkg/database"
)

const propertyColumns = "id, name, street, city, state, zip, status, landlord_id, created_at, updated_at"

// PostgresPropertyRepository implements domain.PropertyRepository using PostgreSQL
type PostgresPropertyRepository struct {
	db     database.Queryer
	logger *slog.Logger
}

// NewPostgresPropertyRepository creates a new property repository
func NewPostgresPropertyRepository(db database.Queryer, logger *slog.Logger) *PostgresPropertyRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresPropertyRepository{
		db:     db,
		logger: logger,
	}
}

func (r *PostgresPropertyRepository) withQueryer(db database.Queryer) *PostgresPropertyRepository {
	return &PostgresPropertyRepository{db: db, logger: r.logger}
}

// Create inserts a new property. Status defaults to vacant when unset.
func (r *PostgresPropertyRepository) Create(ctx context.Context, property *domain.Property) error {
	if property.Status == "" {
		property.Status = domain.StatusVacant
	}

	query := `
		INSERT INTO properties (name, street, city, state, zip, status, landlord_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		property.Name,
		property.Street,
		property.City,
		property.State,
		property.Zip,
		property.Status,
		property.LandlordID,
	).Scan(&property.ID, &property.CreatedAt, &property.UpdatedAt)

	if err != nil {
		r.logger.Error("failed to create property",
			slog.Int64("landlord_id", property.LandlordID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create property: %w", err)
	}

	return nil
}

// FindByID retrieves a property by ID
func (r *PostgresPropertyRepository) FindByID(ctx context.Context, id int64) (*domain.Property, error) {
	property := &domain.Property{}

	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&property.ID,
		&property.Name,
		&property.Street,
		&property.City,
		&property.State,
		&property.Zip,
		&property.Status,
		&property.LandlordID,
		&property.CreatedAt,
		&property.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get property: %w", err)
	}

	return property, nil
}

// ListByLandlord lists all properties owned by a landlord.
func (r *PostgresPropertyRepository) ListByLandlord(ctx context.Context, landlordID int64) ([]*domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE landlord_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, landlordID)
	if err != nil {
		r.logger.Error("failed to list properties",
			slog.Int64("landlord_id", landlordID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	var properties []*domain.Property
	for rows.Next() {
		property := &domain.Property{}
		err := rows.Scan(
			&property.ID,
			&property.Name,
			&property.Street,
			&property.City,
			&property.State,
			&property.Zip,
			&property.Status,
			&property.LandlordID,
			&property.CreatedAt,
			&property.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		properties = append(properties, property)
	}

	return properties, rows.Err()
}

// UpdateStatus sets the occupancy status of a property.
func (r *PostgresPropertyRepository) UpdateStatus(ctx context.Context, id int64, status domain.OccupancyStatus) error {
	query := `UPDATE properties SET status = $1, updated_at = now() WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update property status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}

	if rows == 0 {
		return domain.ErrNotFound
	}

	return nil
}
