package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/tourism-booking/internal/config"
	"github.com/iliyamo/tourism-booking/internal/repository"
)

func newReservationHandler(t *testing.T) (*ReservationHandler, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	h := NewReservationHandler(config.Config{BcryptCost: 4},
		repository.NewReservationRepo(db),
		repository.NewInventoryRepo(db),
		repository.NewHotelRepo(db),
		repository.NewRoomTypeRepo(db),
		repository.NewUserRepo(db))
	return h, mock
}

func hotelRow(id uint64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "name", "city", "country", "stars", "is_active",
		"created_at", "updated_at"}).
		AddRow(id, "Grand", "Antalya", "TR", 5, true, now, now)
}

func roomTypeRow(id, hotelID uint64, basePriceCents int64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "hotel_id", "name", "description", "max_adults",
		"max_children", "base_price_cents", "currency", "is_active", "created_at", "updated_at"}).
		AddRow(id, hotelID, "Deluxe", nil, 2, 1, basePriceCents, "TRY", true, now, now)
}

func TestReservationHandler_Create(t *testing.T) {
	t.Run("CustomerByIDWithPartialPayment", func(t *testing.T) {
		h, mock := newReservationHandler(t)

		mock.ExpectQuery("FROM users WHERE id = \\?").
			WithArgs(uint64(10)).
			WillReturnRows(userRow(10))
		mock.ExpectQuery("FROM hotels WHERE id = \\? AND is_active = TRUE").
			WithArgs(uint64(1)).
			WillReturnRows(hotelRow(1))
		mock.ExpectQuery("FROM room_types WHERE id = \\? AND is_active = TRUE").
			WithArgs(uint64(5)).
			WillReturnRows(roomTypeRow(5, 1, 10000))
		mock.ExpectQuery("SELECT COUNT").
			WithArgs(uint64(5), "2030-05-01", "2030-05-03", 1).
			WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(2))
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE room_inventory").
			WithArgs(1, uint64(5), "2030-05-01", 1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE room_inventory").
			WithArgs(1, uint64(5), "2030-05-02", 1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO reservations").
			WillReturnResult(sqlmock.NewResult(7, 1))
		mock.ExpectCommit()

		c, rec := postJSON("/v1/reservations",
			`{"hotel_id":1,"room_type_id":5,"customer_id":10,"check_in_date":"2030-05-01","check_out_date":"2030-05-03","adult_count":2,"child_count":0,"room_count":1,"paid_amount_cents":5000,"guests":[{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com"}]}`)
		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusCreated, rec.Code)
		// total 20000 for two nights, 5000 paid up front
		assert.Contains(t, rec.Body.String(), `"RemainingCents":15000`)
		assert.Contains(t, rec.Body.String(), `"PaymentStatus":"partial"`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RejectsPaymentAboveTotal", func(t *testing.T) {
		h, mock := newReservationHandler(t)

		mock.ExpectQuery("FROM hotels WHERE id = \\? AND is_active = TRUE").
			WithArgs(uint64(1)).
			WillReturnRows(hotelRow(1))
		mock.ExpectQuery("FROM room_types WHERE id = \\? AND is_active = TRUE").
			WithArgs(uint64(5)).
			WillReturnRows(roomTypeRow(5, 1, 10000))
		mock.ExpectQuery("SELECT COUNT").
			WithArgs(uint64(5), "2030-05-01", "2030-05-03", 1).
			WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(2))

		c, rec := postJSON("/v1/reservations",
			`{"hotel_id":1,"room_type_id":5,"check_in_date":"2030-05-01","check_out_date":"2030-05-03","adult_count":2,"child_count":0,"room_count":1,"paid_amount_cents":50000,"guests":[{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com"}]}`)
		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "exceeds the reservation total")
	})

	t.Run("RejectsNegativePayment", func(t *testing.T) {
		h, _ := newReservationHandler(t)

		c, rec := postJSON("/v1/reservations",
			`{"hotel_id":1,"room_type_id":5,"check_in_date":"2030-05-01","check_out_date":"2030-05-03","adult_count":2,"child_count":0,"room_count":1,"paid_amount_cents":-1,"guests":[{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com"}]}`)
		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
