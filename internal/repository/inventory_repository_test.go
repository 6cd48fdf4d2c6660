package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestInventoryRepo_ReserveTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewInventoryRepo(db)
	ctx := context.Background()

	t.Run("DecrementsEveryNight", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE room_inventory").
			WithArgs(2, uint64(5), "2026-10-01", 2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE room_inventory").
			WithArgs(2, uint64(5), "2026-10-02", 2).
			WillReturnResult(sqlmock.NewResult(0, 1))

		tx, err := db.Begin()
		require.NoError(t, err)
		err = repo.ReserveTx(ctx, tx, 5, day("2026-10-01"), day("2026-10-03"), 2)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GuardRejectsShortNight", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE room_inventory").
			WithArgs(2, uint64(5), "2026-10-01", 2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		// second night has only one room left, the guard matches no row
		mock.ExpectExec("UPDATE room_inventory").
			WithArgs(2, uint64(5), "2026-10-02", 2).
			WillReturnResult(sqlmock.NewResult(0, 0))

		tx, err := db.Begin()
		require.NoError(t, err)
		err = repo.ReserveTx(ctx, tx, 5, day("2026-10-01"), day("2026-10-03"), 2)
		assert.ErrorIs(t, err, ErrInsufficientAvailability)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GuardRejectsMissingDate", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE room_inventory").
			WithArgs(1, uint64(5), "2026-12-24", 1).
			WillReturnResult(sqlmock.NewResult(0, 0))

		tx, err := db.Begin()
		require.NoError(t, err)
		err = repo.ReserveTx(ctx, tx, 5, day("2026-12-24"), day("2026-12-25"), 1)
		assert.ErrorIs(t, err, ErrInsufficientAvailability)
	})
}

func TestInventoryRepo_ReleaseTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewInventoryRepo(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE room_inventory").
		WithArgs(2, uint64(5), "2026-10-01").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE room_inventory").
		WithArgs(2, uint64(5), "2026-10-02").
		WillReturnResult(sqlmock.NewResult(0, 1))

	tx, err := db.Begin()
	require.NoError(t, err)
	err = repo.ReleaseTx(ctx, tx, 5, day("2026-10-01"), day("2026-10-03"), 2)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryRepo_CheckAvailability(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewInventoryRepo(db)
	ctx := context.Background()

	t.Run("AllNightsCovered", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT").
			WithArgs(uint64(5), "2026-10-01", "2026-10-04", 2).
			WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(3))

		ok, err := repo.CheckAvailability(ctx, 5, day("2026-10-01"), day("2026-10-04"), 2)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("OneNightShort", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT").
			WithArgs(uint64(5), "2026-10-01", "2026-10-04", 2).
			WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(2))

		ok, err := repo.CheckAvailability(ctx, 5, day("2026-10-01"), day("2026-10-04"), 2)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("EmptyRange", func(t *testing.T) {
		ok, err := repo.CheckAvailability(ctx, 5, day("2026-10-04"), day("2026-10-04"), 2)
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestInventoryRepo_InitCalendar(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewInventoryRepo(db)
	ctx := context.Background()

	t.Run("SeedsOneRowPerDate", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO room_inventory").
			WithArgs(
				uint64(5), "2026-10-01", 10, 10,
				uint64(5), "2026-10-02", 10, 10,
				uint64(5), "2026-10-03", 10, 10,
			).
			WillReturnResult(sqlmock.NewResult(1, 3))

		created, err := repo.InitCalendar(ctx, 5, day("2026-10-01"), day("2026-10-04"), 10)
		assert.NoError(t, err)
		assert.Equal(t, 3, created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("EmptyRangeIsNoop", func(t *testing.T) {
		created, err := repo.InitCalendar(ctx, 5, day("2026-10-04"), day("2026-10-04"), 10)
		assert.NoError(t, err)
		assert.Zero(t, created)
	})
}
