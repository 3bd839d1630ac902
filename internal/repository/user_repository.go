package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
	"github.com/yourorg/freehold/internal/domain"
	"github.com/yourorg/freehold/pkg/database"
)

const uniqueViolation = "23505"

const userColumns = "id, email, first_name, last_name, role, landlord_id, residence_id, created_at, updated_at"

// PostgresUserRepository implements domain.UserRepository using PostgreSQL
type PostgresUserRepository struct {
	db     database.Queryer
	logger *slog.Logger
}

// NewPostgresUserRepository creates a new user repository
func NewPostgresUserRepository(db database.Queryer, logger *slog.Logger) *PostgresUserRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserRepository{
		db:     db,
		logger: logger,
	}
}

// withQueryer returns a copy of the repository bound to another Queryer,
// typically a transaction.
func (r *PostgresUserRepository) withQueryer(db database.Queryer) *PostgresUserRepository {
	return &PostgresUserRepository{db: db, logger: r.logger}
}

// Create inserts a new user. A duplicate email maps to domain.ErrAlreadyExists.
func (r *PostgresUserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (email, first_name, last_name, role, landlord_id, residence_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Role,
		user.LandlordID,
		user.ResidenceID,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrAlreadyExists
		}
		r.logger.Error("failed to create user",
			slog.String("email", user.Email),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// FindByID retrieves a user by ID
func (r *PostgresUserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

// FindByEmail retrieves a user by email
func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

// UpdateByEmail applies a partial update and returns the updated user.
func (r *PostgresUserRepository) UpdateByEmail(ctx context.Context, email string, update domain.UserUpdate) (*domain.User, error) {
	query := `
		UPDATE users
		SET first_name = COALESCE($1, first_name),
		    last_name = COALESCE($2, last_name),
		    updated_at = now()
		WHERE email = $3
		RETURNING ` + userColumns

	return r.scanUser(r.db.QueryRowContext(ctx, query, update.FirstName, update.LastName, email))
}

// Delete removes a user row.
func (r *PostgresUserRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
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

// ListTenantsByLandlord lists all tenants managed by a landlord.
func (r *PostgresUserRepository) ListTenantsByLandlord(ctx context.Context, landlordID int64) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = 'tenant' AND landlord_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, landlordID)
	if err != nil {
		r.logger.Error("failed to list tenants",
			slog.Int64("landlord_id", landlordID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// CountTenantsByResidence counts tenants currently living in a property.
func (r *PostgresUserRepository) CountTenantsByResidence(ctx context.Context, propertyID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM users WHERE role = 'tenant' AND residence_id = $1`
	if err := r.db.QueryRowContext(ctx, query, propertyID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tenants: %w", err)
	}
	return count, nil
}

func (r *PostgresUserRepository) scanUser(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	var landlordID, residenceID sql.NullInt64

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Role,
		&landlordID,
		&residenceID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if landlordID.Valid {
		user.LandlordID = &landlordID.Int64
	}
	if residenceID.Valid {
		user.ResidenceID = &residenceID.Int64
	}

	return user, nil
}

func scanUserRow(rows *sql.Rows) (*domain.User, error) {
	user := &domain.User{}
	var landlordID, residenceID sql.NullInt64

	err := rows.Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Role,
		&landlordID,
		&residenceID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if landlordID.Valid {
		user.LandlordID = &landlordID.Int64
	}
	if residenceID.Valid {
		user.ResidenceID = &residenceID.Int64
	}

	return user, nil
}
