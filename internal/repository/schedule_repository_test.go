package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleRepo_ReserveSeatsTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewScheduleRepo(db)
	ctx := context.Background()

	t.Run("IncrementsWhenSeatsRemain", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE transfer_schedules").
			WithArgs(3, uint64(9), 3).
			WillReturnResult(sqlmock.NewResult(0, 1))

		tx, err := db.Begin()
		require.NoError(t, err)
		err = repo.ReserveSeatsTx(ctx, tx, 9, 3)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GuardRejectsOverbooking", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE transfer_schedules").
			WithArgs(3, uint64(9), 3).
			WillReturnResult(sqlmock.NewResult(0, 0))

		tx, err := db.Begin()
		require.NoError(t, err)
		err = repo.ReserveSeatsTx(ctx, tx, 9, 3)
		assert.ErrorIs(t, err, ErrInsufficientSeats)
	})
}

func TestScheduleRepo_ReleaseSeatsTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewScheduleRepo(db)
	ctx := context.Background()

	t.Run("DecrementIsClamped", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE transfer_schedules\\s+SET booked_seats = GREATEST").
			WithArgs(3, uint64(9)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		tx, err := db.Begin()
		require.NoError(t, err)
		err = repo.ReleaseSeatsTx(ctx, tx, 9, 3)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UnknownScheduleFails", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE transfer_schedules").
			WithArgs(3, uint64(404)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		tx, err := db.Begin()
		require.NoError(t, err)
		err = repo.ReleaseSeatsTx(ctx, tx, 404, 3)
		assert.ErrorIs(t, err, ErrScheduleNotFound)
	})
}

func TestScheduleRepo_Search(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewScheduleRepo(db)
	ctx := context.Background()

	cols := []string{"id", "transfer_id", "vehicle_id", "schedule_date", "departure_time", "arrival_time",
		"available_seats", "booked_seats", "special_price_cents", "notes", "is_active", "created_at", "updated_at"}

	t.Run("FiltersByTransferAndWindow", func(t *testing.T) {
		now := day("2026-10-01")
		mock.ExpectQuery("FROM transfer_schedules WHERE is_active = TRUE AND transfer_id = \\? AND schedule_date >= \\?").
			WithArgs(uint64(4), "2026-10-01").
			WillReturnRows(sqlmock.NewRows(cols).
				AddRow(1, 4, 2, now, "09:30:00", nil, 16, 4, nil, nil, true, now, now))

		items, err := repo.Search(ctx, ScheduleFilter{TransferID: 4, DateFrom: now})
		assert.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, uint64(1), items[0].ID)
		assert.Equal(t, 12, items[0].RemainingSeats())
	})

	t.Run("AvailableOnlyAddsSeatPredicate", func(t *testing.T) {
		mock.ExpectQuery("booked_seats < available_seats").
			WillReturnRows(sqlmock.NewRows(cols))

		items, err := repo.Search(ctx, ScheduleFilter{AvailableSeatsOnly: true})
		assert.NoError(t, err)
		assert.Empty(t, items)
	})
}
