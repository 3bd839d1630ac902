package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/yourorg/freehold/internal/domain"
)

// PostgresStore implements domain.Store. The zero-value repositories read and
// write through the pool; InTx rebinds them to a single transaction so a
// multi-write workflow commits or rolls back as one unit.
type PostgresStore struct {
	db         *sql.DB
	users      *PostgresUserRepository
	properties *PostgresPropertyRepository
	logger     *slog.Logger
}

// NewPostgresStore creates a store over the given connection pool.
func NewPostgresStore(db *sql.DB, logger *slog.Logger) *PostgresStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresStore{
		db:         db,
		users:      NewPostgresUserRepository(db, logger),
		properties: NewPostgresPropertyRepository(db, logger),
		logger:     logger,
	}
}

// Users returns the user repository.
func (s *PostgresStore) Users() domain.UserRepository {
	return s.users
}

// Properties returns the property repository.
func (s *PostgresStore) Properties() domain.PropertyRepository {
	return s.properties
}

// InTx runs fn inside one database transaction. The Store handed to fn writes
// through that transaction; an error from fn rolls everything back.
func (s *PostgresStore) InTx(ctx context.Context, fn func(domain.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txStore := &PostgresStore{
		db:         s.db,
		users:      s.users.withQueryer(tx),
		properties: s.properties.withQueryer(tx),
		logger:     s.logger,
	}

	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("transaction rollback failed", slog.String("error", rbErr.Error()))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
