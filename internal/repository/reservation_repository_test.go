package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/tourism-booking/internal/model"
)

func TestReservationRepo_CreateTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReservationRepo(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO reservations").
		WillReturnResult(sqlmock.NewResult(7, 1))

	tx, err := db.Begin()
	require.NoError(t, err)

	res := &model.Reservation{
		ReservationNumber: "RES123456ABC",
		HotelID:           1,
		RoomTypeID:        5,
		CustomerID:        10,
		CheckInDate:       day("2026-10-01"),
		CheckOutDate:      day("2026-10-03"),
		Nights:            2,
		AdultCount:        2,
		RoomCount:         1,
		GuestDetails:      json.RawMessage(`[{"first_name":"Ada"}]`),
		TotalPriceCents:   30000,
		RemainingCents:    30000,
		Currency:          "TRY",
		Status:            model.StatusPending,
		PaymentStatus:     model.PaymentPending,
	}
	err = repo.CreateTx(ctx, tx, res)
	assert.NoError(t, err)
	assert.Equal(t, uint64(7), res.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepo_Confirm(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReservationRepo(db)
	ctx := context.Background()

	t.Run("PendingBecomesConfirmed", func(t *testing.T) {
		mock.ExpectExec("UPDATE reservations").
			WithArgs(model.StatusConfirmed, "A1B2C3D4", uint64(7), model.StatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Confirm(ctx, 7, "A1B2C3D4")
		assert.NoError(t, err)
	})

	t.Run("GuardRejectsNonPending", func(t *testing.T) {
		mock.ExpectExec("UPDATE reservations").
			WithArgs(model.StatusConfirmed, "A1B2C3D4", uint64(7), model.StatusPending).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Confirm(ctx, 7, "A1B2C3D4")
		assert.ErrorIs(t, err, ErrNotPending)
	})
}

func TestReservationRepo_CancelTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReservationRepo(db)
	ctx := context.Background()

	t.Run("ActiveReservationCancels", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE reservations").
			WithArgs(model.StatusCancelled, "guest request", uint64(7), model.StatusPending, model.StatusConfirmed).
			WillReturnResult(sqlmock.NewResult(0, 1))

		tx, err := db.Begin()
		require.NoError(t, err)
		err = repo.CancelTx(ctx, tx, 7, "guest request")
		assert.NoError(t, err)
	})

	t.Run("SecondCancelHitsGuard", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE reservations").
			WithArgs(model.StatusCancelled, "guest request", uint64(7), model.StatusPending, model.StatusConfirmed).
			WillReturnResult(sqlmock.NewResult(0, 0))

		tx, err := db.Begin()
		require.NoError(t, err)
		err = repo.CancelTx(ctx, tx, 7, "guest request")
		assert.ErrorIs(t, err, ErrNotCancellable)
	})
}

func TestReservationRepo_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReservationRepo(db)
	ctx := context.Background()

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("FROM reservations WHERE id = \\?").
			WithArgs(uint64(404)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(ctx, 404)
		assert.ErrorIs(t, err, ErrReservationNotFound)
	})
}

func TestReservationRepo_GetByNumber(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReservationRepo(db)
	ctx := context.Background()

	mock.ExpectQuery("FROM reservations WHERE reservation_number = \\?").
		WithArgs("RES000000XXX").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetByNumber(ctx, "RES000000XXX")
	assert.ErrorIs(t, err, ErrReservationNotFound)
}
