package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/tourism-booking/internal/model"
)

func TestTransferBookingRepo_ReferenceExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTransferBookingRepo(db)
	ctx := context.Background()

	t.Run("Taken", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT").
			WithArgs("TRF123456001").
			WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))

		exists, err := repo.ReferenceExists(ctx, "TRF123456001")
		assert.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("Free", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT").
			WithArgs("TRF123456002").
			WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))

		exists, err := repo.ReferenceExists(ctx, "TRF123456002")
		assert.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestTransferBookingRepo_Confirm(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTransferBookingRepo(db)
	ctx := context.Background()

	t.Run("PendingBecomesConfirmed", func(t *testing.T) {
		mock.ExpectExec("UPDATE transfer_bookings").
			WithArgs(model.StatusConfirmed, uint64(3), model.StatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Confirm(ctx, 3))
	})

	t.Run("GuardRejectsNonPending", func(t *testing.T) {
		mock.ExpectExec("UPDATE transfer_bookings").
			WithArgs(model.StatusConfirmed, uint64(3), model.StatusPending).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Confirm(ctx, 3), ErrNotPending)
	})
}

func TestTransferBookingRepo_CancelTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTransferBookingRepo(db)
	ctx := context.Background()

	t.Run("SecondCancelHitsGuard", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE transfer_bookings").
			WithArgs(model.StatusCancelled, "weather", uint64(3), model.StatusPending, model.StatusConfirmed).
			WillReturnResult(sqlmock.NewResult(0, 0))

		tx, err := db.Begin()
		require.NoError(t, err)
		assert.ErrorIs(t, repo.CancelTx(ctx, tx, 3, "weather"), ErrNotCancellable)
	})
}

func TestTransferBookingRepo_CreateTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTransferBookingRepo(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transfer_bookings").
		WillReturnResult(sqlmock.NewResult(11, 1))

	tx, err := db.Begin()
	require.NoError(t, err)

	b := &model.TransferBooking{
		BookingReference: "TRF123456001",
		ScheduleID:       9,
		CustomerID:       10,
		PassengerCount:   3,
		TotalPriceCents:  45000,
		Currency:         "TRY",
		Status:           model.StatusPending,
		PaymentStatus:    model.TransferUnpaid,
	}
	err = repo.CreateTx(ctx, tx, b)
	assert.NoError(t, err)
	assert.Equal(t, uint64(11), b.ID)
}
