package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestStore_WithinTx(t *testing.T) {
	ctx := context.Background()

	t.Run("Commits on success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		store := NewStore(db)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE bookings SET status = 'active'").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE vehicles SET status = 'rented'").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = store.WithinTx(ctx, func(ctx context.Context, repos repository.Repos) error {
			if err := repos.Bookings.MarkPickedUp(ctx, 1, 2, 0); err != nil {
				return err
			}
			return repos.Vehicles.ReserveForPickup(ctx, 7)
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rolls back when the vehicle is no longer available", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		store := NewStore(db)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE bookings SET status = 'active'").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE vehicles SET status = 'rented'").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err = store.WithinTx(ctx, func(ctx context.Context, repos repository.Repos) error {
			if err := repos.Bookings.MarkPickedUp(ctx, 1, 2, 0); err != nil {
				return err
			}
			return repos.Vehicles.ReserveForPickup(ctx, 7)
		})
		assert.ErrorIs(t, err, repository.ErrStaleState)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Begin failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		store := NewStore(db)

		mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		err = store.WithinTx(ctx, func(ctx context.Context, repos repository.Repos) error {
			t.Fatal("callback must not run")
			return nil
		})
		assert.ErrorContains(t, err, "failed to begin transaction")
	})
}

func TestPageBounds(t *testing.T) {
	page, limit, offset := pageBounds(0, 0)
	assert.Equal(t, int32(1), page)
	assert.Equal(t, int32(10), limit)
	assert.Equal(t, uint(0), offset)

	page, limit, offset = pageBounds(3, 500)
	assert.Equal(t, int32(3), page)
	assert.Equal(t, int32(100), limit)
	assert.Equal(t, uint(200), offset)
}
