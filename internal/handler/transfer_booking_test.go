package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/tourism-booking/internal/config"
	"github.com/iliyamo/tourism-booking/internal/repository"
)

// postJSON builds an echo context for a JSON POST carrying an
// authenticated agent, as the JWT middleware would.
func postJSON(target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(77))
	c.Set("role", "AGENT")
	return c, rec
}

func newTransferBookingHandler(t *testing.T) (*TransferBookingHandler, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	h := NewTransferBookingHandler(config.Config{BcryptCost: 4},
		repository.NewTransferBookingRepo(db),
		repository.NewScheduleRepo(db),
		repository.NewTransferRepo(db),
		repository.NewUserRepo(db))
	return h, mock
}

func userRow(id uint64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "email", "password_hash", "first_name", "last_name",
		"phone", "role", "is_active", "created_at", "updated_at"}).
		AddRow(id, "ada@example.com", "x", "Ada", "Lovelace", nil, "CUSTOMER", true, now, now)
}

func scheduleRow(id uint64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "transfer_id", "vehicle_id", "schedule_date", "departure_time",
		"arrival_time", "available_seats", "booked_seats", "special_price_cents", "notes", "is_active",
		"created_at", "updated_at"}).
		AddRow(id, 4, 2, now, "09:30:00", nil, 16, 4, nil, nil, true, now, now)
}

func TestTransferBookingHandler_Create(t *testing.T) {
	t.Run("CustomerByIDWithPartialPayment", func(t *testing.T) {
		h, mock := newTransferBookingHandler(t)

		mock.ExpectQuery("FROM users WHERE id = \\?").
			WithArgs(uint64(10)).
			WillReturnRows(userRow(10))
		mock.ExpectQuery("FROM transfer_schedules WHERE id = \\? AND is_active = TRUE").
			WithArgs(uint64(1)).
			WillReturnRows(scheduleRow(1))
		mock.ExpectQuery("SELECT COUNT").
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE transfer_schedules").
			WithArgs(2, uint64(1), 2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO transfer_bookings").
			WillReturnResult(sqlmock.NewResult(11, 1))
		mock.ExpectCommit()

		c, rec := postJSON("/v1/transfer-bookings",
			`{"schedule_id":1,"customer_id":10,"passenger_count":2,"total_price_cents":5000,"paid_amount_cents":2000}`)
		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), "partially_paid")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("FullPaymentSettlesBooking", func(t *testing.T) {
		h, mock := newTransferBookingHandler(t)

		mock.ExpectQuery("FROM users WHERE id = \\?").
			WithArgs(uint64(10)).
			WillReturnRows(userRow(10))
		mock.ExpectQuery("FROM transfer_schedules WHERE id = \\? AND is_active = TRUE").
			WithArgs(uint64(1)).
			WillReturnRows(scheduleRow(1))
		mock.ExpectQuery("SELECT COUNT").
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE transfer_schedules").
			WithArgs(2, uint64(1), 2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO transfer_bookings").
			WillReturnResult(sqlmock.NewResult(12, 1))
		mock.ExpectCommit()

		c, rec := postJSON("/v1/transfer-bookings",
			`{"schedule_id":1,"customer_id":10,"passenger_count":2,"total_price_cents":5000,"paid_amount_cents":5000}`)
		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), "fully_paid")
	})

	t.Run("RejectsWithoutCustomerOrPassengers", func(t *testing.T) {
		h, _ := newTransferBookingHandler(t)

		c, rec := postJSON("/v1/transfer-bookings",
			`{"schedule_id":1,"passenger_count":2,"total_price_cents":5000}`)
		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "customer_id or at least one passenger")
	})

	t.Run("RejectsOverpayment", func(t *testing.T) {
		h, _ := newTransferBookingHandler(t)

		c, rec := postJSON("/v1/transfer-bookings",
			`{"schedule_id":1,"customer_id":10,"passenger_count":2,"total_price_cents":5000,"paid_amount_cents":6000}`)
		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("UnknownCustomerIs404", func(t *testing.T) {
		h, mock := newTransferBookingHandler(t)

		mock.ExpectQuery("FROM users WHERE id = \\?").
			WithArgs(uint64(404)).
			WillReturnError(sql.ErrNoRows)

		c, rec := postJSON("/v1/transfer-bookings",
			`{"schedule_id":1,"customer_id":404,"passenger_count":2,"total_price_cents":5000}`)
		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
