package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tourism-booking/internal/config"
	"github.com/iliyamo/tourism-booking/internal/model"
	"github.com/iliyamo/tourism-booking/internal/queue"
	"github.com/iliyamo/tourism-booking/internal/repository"
	queue_publisher "github.com/iliyamo/tourism-booking/internal/service"
	"github.com/iliyamo/tourism-booking/internal/utils"
)

// referenceAttempts bounds how often a colliding booking reference is
// regenerated before the request gives up.
const referenceAttempts = 5

// TransferBookingHandler implements seat sales on scheduled departures.
// Seat capacity moves through the guarded ledger updates inside the
// same transaction as the booking row.
type TransferBookingHandler struct {
	Cfg       config.Config
	Bookings  *repository.TransferBookingRepo
	Schedules *repository.ScheduleRepo
	Transfers *repository.TransferRepo
	Users     *repository.UserRepo
}

func NewTransferBookingHandler(cfg config.Config, b *repository.TransferBookingRepo, s *repository.ScheduleRepo, t *repository.TransferRepo, u *repository.UserRepo) *TransferBookingHandler {
	if b == nil || s == nil || t == nil || u == nil {
		panic("nil repository passed to NewTransferBookingHandler")
	}
	return &TransferBookingHandler{Cfg: cfg, Bookings: b, Schedules: s, Transfers: t, Users: u}
}

type createBookingReq struct {
	ScheduleID      uint64          `json:"schedule_id"`
	CustomerID      uint64          `json:"customer_id"`
	PassengerCount  int             `json:"passenger_count"`
	Passengers      []guestDetail   `json:"passengers"`
	PassengerExtra  json.RawMessage `json:"passenger_details"`
	TotalPriceCents int64           `json:"total_price_cents"`
	PaidAmountCents int64           `json:"paid_amount_cents"`
	Currency        string          `json:"currency"`
	PaymentDueDate  *string         `json:"payment_due_date"` // YYYY-MM-DD
	PickupLocation  *string         `json:"pickup_location"`
	DropoffLocation *string         `json:"dropoff_location"`
	SpecialRequests *string         `json:"special_requests"`
	Notes           *string         `json:"notes"`
}

// Create handles POST /v1/transfer-bookings.  The booking reference is
// regenerated on collision up to referenceAttempts times.  The customer
// is either referenced by id or resolved from the lead passenger; seats
// are committed through the guarded increment so overlapping requests
// cannot oversell the departure.
func (h *TransferBookingHandler) Create(c echo.Context) error {
	agentID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ScheduleID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "schedule_id is required"})
	}
	if req.PassengerCount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "passenger_count must be positive"})
	}
	if req.TotalPriceCents < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_price_cents must not be negative"})
	}
	if req.PaidAmountCents < 0 || req.PaidAmountCents > req.TotalPriceCents {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "paid_amount_cents must be between zero and total_price_cents"})
	}
	var lead guestDetail
	if req.CustomerID == 0 {
		if len(req.Passengers) == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer_id or at least one passenger is required"})
		}
		lead = req.Passengers[0]
		lead.Email = strings.ToLower(strings.TrimSpace(lead.Email))
		if lead.Email == "" || lead.FirstName == "" || lead.LastName == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "lead passenger needs first_name, last_name and email"})
		}
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "TRY"
	}
	var dueDate *time.Time
	if req.PaymentDueDate != nil {
		d, err := parseDate(*req.PaymentDueDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment_due_date"})
		}
		dueDate = &d
	}

	ctx := c.Request().Context()
	if req.CustomerID != 0 {
		if _, err := h.Users.GetByID(ctx, req.CustomerID); err != nil {
			if err == repository.ErrCustomerNotFound {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}
	schedule, err := h.Schedules.GetByID(ctx, req.ScheduleID)
	if err != nil {
		if err == repository.ErrScheduleNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if schedule.RemainingSeats() < req.PassengerCount {
		return c.JSON(http.StatusConflict, echo.Map{"error": "insufficient seats on this departure"})
	}

	reference, err := h.uniqueReference(ctx)
	if err != nil {
		if err == repository.ErrReferenceCollision {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to allocate booking reference"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	passengers := req.PassengerExtra
	if len(passengers) == 0 && len(req.Passengers) > 0 {
		passengers, err = json.Marshal(req.Passengers)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid passengers"})
		}
	}

	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	customerID := req.CustomerID
	if customerID == 0 {
		customerID, err = h.Users.ResolveCustomerTx(ctx, tx, lead.Email, lead.FirstName, lead.LastName, lead.Phone, h.Cfg.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve customer"})
		}
	}

	if err := h.Schedules.ReserveSeatsTx(ctx, tx, schedule.ID, req.PassengerCount); err != nil {
		if err == repository.ErrInsufficientSeats {
			return c.JSON(http.StatusConflict, echo.Map{"error": "insufficient seats on this departure"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to reserve seats"})
	}

	b := &model.TransferBooking{
		BookingReference: reference,
		ScheduleID:       schedule.ID,
		CustomerID:       customerID,
		AgentID:          &agentID,
		PassengerCount:   req.PassengerCount,
		PassengerDetails: passengers,
		TotalPriceCents:  req.TotalPriceCents,
		PaidAmountCents:  req.PaidAmountCents,
		Currency:         currency,
		Status:           model.StatusPending,
		PaymentStatus:    model.TransferUnpaid,
		PaymentDueDate:   dueDate,
		PickupLocation:   req.PickupLocation,
		DropoffLocation:  req.DropoffLocation,
		SpecialRequests:  req.SpecialRequests,
		Notes:            req.Notes,
	}
	if b.PaidAmountCents > 0 {
		b.PaymentStatus = model.TransferPartiallyPaid
		if b.IsFullyPaid() {
			b.PaymentStatus = model.TransferFullyPaid
		}
	}
	if err := h.Bookings.CreateTx(ctx, tx, b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusCreated, echo.Map{"item": b})
}

// uniqueReference generates a booking reference that does not collide
// with an existing row, retrying up to referenceAttempts times.
func (h *TransferBookingHandler) uniqueReference(ctx context.Context) (string, error) {
	for i := 0; i < referenceAttempts; i++ {
		ref, err := utils.NewBookingReference()
		if err != nil {
			return "", err
		}
		exists, err := h.Bookings.ReferenceExists(ctx, ref)
		if err != nil {
			return "", err
		}
		if !exists {
			return ref, nil
		}
	}
	return "", repository.ErrReferenceCollision
}

// Confirm handles POST /v1/transfer-bookings/:id/confirm.
func (h *TransferBookingHandler) Confirm(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx := c.Request().Context()
	if err := h.Bookings.Confirm(ctx, id); err != nil {
		if err == repository.ErrNotPending {
			if _, getErr := h.Bookings.GetByID(ctx, id); getErr == repository.ErrBookingNotFound {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
			}
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not pending"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to confirm booking"})
	}
	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
	}
	h.publishConfirmed(b)
	return c.JSON(http.StatusOK, echo.Map{"item": b})
}

func (h *TransferBookingHandler) publishConfirmed(b *model.TransferBooking) {
	ev := queue.BookingConfirmedEvent{
		Kind:            queue.KindTransfer,
		BookingID:       b.ID,
		Reference:       b.BookingReference,
		CustomerID:      b.CustomerID,
		PassengerCount:  b.PassengerCount,
		TotalPriceCents: b.TotalPriceCents,
		Currency:        b.Currency,
		ConfirmedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if schedule, err := h.Schedules.GetByID(ctx, b.ScheduleID); err == nil {
			ev.ScheduleDate = schedule.ScheduleDate.Format("2006-01-02")
			ev.DepartureTime = schedule.DepartureTime
			if t, err := h.Transfers.GetByID(ctx, schedule.TransferID); err == nil {
				ev.TransferName = t.Name
			}
		}
		_ = queue_publisher.PublishBookingConfirmed(ctx, ev)
	}()
}

// Cancel handles POST /v1/transfer-bookings/:id/cancel.  Any pending or
// confirmed booking is cancellable; there is no lead-time window for
// transfers.  The guarded status update and the clamped seat release
// share one transaction.
func (h *TransferBookingHandler) Cancel(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req cancelReq
	_ = c.Bind(&req)

	ctx := c.Request().Context()
	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !b.CanBeCancelled() {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking can no longer be cancelled"})
	}

	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.Bookings.CancelTx(ctx, tx, id, req.Reason); err != nil {
		if err == repository.ErrNotCancellable {
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking can no longer be cancelled"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel booking"})
	}
	if err := h.Schedules.ReleaseSeatsTx(ctx, tx, b.ScheduleID, b.PassengerCount); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release seats"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	updated, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": updated})
}

// GetByID handles GET /v1/transfer-bookings/:id.
func (h *TransferBookingHandler) GetByID(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Bookings.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": b})
}

// GetByReference handles GET /v1/transfer-bookings/reference/:reference.
func (h *TransferBookingHandler) GetByReference(c echo.Context) error {
	reference := strings.TrimSpace(c.Param("reference"))
	if reference == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking reference"})
	}
	b, err := h.Bookings.GetByReference(c.Request().Context(), reference)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": b})
}

// List handles GET /v1/transfer-bookings with optional filters: status,
// customer_id, schedule_id.  Agents only see their own bookings; admins
// see everything.
func (h *TransferBookingHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var f repository.BookingFilter
	if role, _ := c.Get("role").(string); role != model.RoleAdmin {
		f.AgentID = userID
	}
	f.Status = c.QueryParam("status")
	if s := c.QueryParam("customer_id"); s != "" {
		id, err := parseUintParam(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer_id"})
		}
		f.CustomerID = id
	}
	if s := c.QueryParam("schedule_id"); s != "" {
		id, err := parseUintParam(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule_id"})
		}
		f.ScheduleID = id
	}
	items, err := h.Bookings.List(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
