package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/yourorg/freehold/internal/domain"
)

func newPropertyRepo(t *testing.T) (*PostgresPropertyRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresPropertyRepository(db, nil), mock
}

func TestPropertyCreateDefaultsToVacant(t *testing.T) {
	repo, mock := newPropertyRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO properties")).
		WithArgs("Maple House", "12 Maple Ave", "Springfield", "IL", "62701", domain.StatusVacant, int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(5), now, now))

	property := &domain.Property{
		Name:       "Maple House",
		Street:     "12 Maple Ave",
		City:       "Springfield",
		State:      "IL",
		Zip:        "62701",
		LandlordID: 1,
	}
	if err := repo.Create(context.Background(), property); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if property.ID != 5 {
		t.Errorf("expected assigned id 5, got %d", property.ID)
	}
	if property.Status != domain.StatusVacant {
		t.Errorf("expected vacant status, got %s", property.Status)
	}
}

func TestPropertyFindByID(t *testing.T) {
	repo, mock := newPropertyRepo(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "name", "street", "city", "state", "zip", "status", "landlord_id", "created_at", "updated_at"}).
		AddRow(int64(5), "Maple House", "12 Maple Ave", "Springfield", "IL", "62701", "occupied", int64(1), now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+propertyColumns+" FROM properties WHERE id = $1")).
		WithArgs(int64(5)).
		WillReturnRows(rows)

	property, err := repo.FindByID(context.Background(), 5)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if property.Status != domain.StatusOccupied {
		t.Errorf("expected occupied, got %s", property.Status)
	}
	if property.LandlordID != 1 {
		t.Errorf("expected landlord id 1, got %d", property.LandlordID)
	}
}

func TestPropertyFindByIDNotFound(t *testing.T) {
	repo, mock := newPropertyRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+propertyColumns+" FROM properties WHERE id = $1")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), 99)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPropertyUpdateStatus(t *testing.T) {
	repo, mock := newPropertyRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE properties SET status = $1, updated_at = now() WHERE id = $2")).
		WithArgs(domain.StatusOccupied, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateStatus(context.Background(), 5, domain.StatusOccupied); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPropertyUpdateStatusNotFound(t *testing.T) {
	repo, mock := newPropertyRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE properties SET status = $1, updated_at = now() WHERE id = $2")).
		WithArgs(domain.StatusVacant, int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.UpdateStatus(context.Background(), 99, domain.StatusVacant); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
