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

func TestInTxCommitsOnSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New failed: %v", err)
	}
	defer db.Close()

	store := NewPostgresStore(db, nil)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(2), now, now))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE properties SET status = $1")).
		WithArgs(domain.StatusOccupied, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	residenceID := int64(1)
	err = store.InTx(context.Background(), func(tx domain.Store) error {
		user := &domain.User{Email: "t@example.com", Role: domain.RoleTenant, ResidenceID: &residenceID}
		if err := tx.Users().Create(context.Background(), user); err != nil {
			return err
		}
		return tx.Properties().UpdateStatus(context.Background(), residenceID, domain.StatusOccupied)
	})
	if err != nil {
		t.Fatalf("InTx failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestInTxRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New failed: %v", err)
	}
	defer db.Close()

	store := NewPostgresStore(db, nil)

	mock.ExpectBegin()
	mock.ExpectRollback()

	wantErr := errors.New("authorization check failed")
	err = store.InTx(context.Background(), func(domain.Store) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected the callback error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
