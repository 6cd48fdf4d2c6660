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

// ReservationHandler implements the hotel booking engine.  Creation and
// cancellation run inside a single transaction spanning the reservation
// row and the inventory ledger, so a reservation can never exist
// without its rooms being committed, and rooms are never released
// twice.
type ReservationHandler struct {
	Cfg          config.Config
	Reservations *repository.ReservationRepo
	Inventory    *repository.InventoryRepo
	Hotels       *repository.HotelRepo
	RoomTypes    *repository.RoomTypeRepo
	Users        *repository.UserRepo
}

func NewReservationHandler(cfg config.Config, res *repository.ReservationRepo, inv *repository.InventoryRepo, h *repository.HotelRepo, rt *repository.RoomTypeRepo, u *repository.UserRepo) *ReservationHandler {
	if res == nil || inv == nil || h == nil || rt == nil || u == nil {
		panic("nil repository passed to NewReservationHandler")
	}
	return &ReservationHandler{Cfg: cfg, Reservations: res, Inventory: inv, Hotels: h, RoomTypes: rt, Users: u}
}

type guestDetail struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type createReservationReq struct {
	HotelID            uint64          `json:"hotel_id"`
	RoomTypeID         uint64          `json:"room_type_id"`
	CustomerID         uint64          `json:"customer_id"`
	CheckInDate        string          `json:"check_in_date"`  // YYYY-MM-DD
	CheckOutDate       string          `json:"check_out_date"` // YYYY-MM-DD
	AdultCount         int             `json:"adult_count"`
	ChildCount         int             `json:"child_count"`
	RoomCount          int             `json:"room_count"`
	Guests             []guestDetail   `json:"guests"`
	PaidAmountCents    int64           `json:"paid_amount_cents"`
	SpecialRequests    *string         `json:"special_requests"`
	CancellationPolicy json.RawMessage `json:"cancellation_policy"`
}

// Create handles POST /v1/reservations.  When no customer_id is given
// the primary guest (first entry) identifies the customer: an existing
// account with that email is reused, otherwise a customer account is
// created inside the same transaction as the reservation.  Rooms are
// committed through the guarded inventory decrement, so two agents
// racing for the last room cannot both succeed.
func (h *ReservationHandler) Create(c echo.Context) error {
	agentID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.HotelID == 0 || req.RoomTypeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hotel_id and room_type_id are required"})
	}
	checkIn, err := parseDate(req.CheckInDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in_date"})
	}
	checkOut, err := parseDate(req.CheckOutDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_out_date"})
	}
	if !checkOut.After(checkIn) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out_date must be after check_in_date"})
	}
	if checkIn.Before(utils.DateOnly(time.Now())) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in_date is in the past"})
	}
	if req.RoomCount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_count must be positive"})
	}
	if req.AdultCount <= 0 || req.ChildCount < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid guest counts"})
	}
	if req.PaidAmountCents < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "paid_amount_cents must not be negative"})
	}
	if len(req.Guests) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one guest is required"})
	}
	primary := req.Guests[0]
	primary.Email = strings.ToLower(strings.TrimSpace(primary.Email))
	if req.CustomerID == 0 && (primary.Email == "" || primary.FirstName == "" || primary.LastName == "") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "primary guest needs first_name, last_name and email"})
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
	hotel, err := h.Hotels.GetByID(ctx, req.HotelID)
	if err != nil {
		if err == repository.ErrHotelNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	roomType, err := h.RoomTypes.GetByID(ctx, req.RoomTypeID)
	if err != nil {
		if err == repository.ErrRoomTypeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room type not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if roomType.HotelID != hotel.ID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room type does not belong to hotel"})
	}
	if req.AdultCount > int(roomType.MaxAdults)*req.RoomCount || req.ChildCount > int(roomType.MaxChildren)*req.RoomCount {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "party exceeds room occupancy"})
	}

	// Advisory pre-check for a friendly error; the decrement below is
	// the authoritative guard.
	ok, err := h.Inventory.CheckAvailability(ctx, roomType.ID, checkIn, checkOut, req.RoomCount)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "availability check failed"})
	}
	if !ok {
		return c.JSON(http.StatusConflict, echo.Map{"error": "insufficient availability for the requested dates"})
	}

	nights := utils.Nights(checkIn, checkOut)
	total := utils.HotelTotalCents(roomType.BasePriceCents, nights, req.RoomCount)
	if req.PaidAmountCents > total {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "paid_amount_cents exceeds the reservation total"})
	}
	number, err := utils.NewReservationNumber()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to generate reservation number"})
	}
	guestsJSON, err := json.Marshal(req.Guests)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid guests"})
	}

	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
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
		customerID, err = h.Users.ResolveCustomerTx(ctx, tx, primary.Email, primary.FirstName, primary.LastName, primary.Phone, h.Cfg.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve customer"})
		}
	}

	if err := h.Inventory.ReserveTx(ctx, tx, roomType.ID, checkIn, checkOut, req.RoomCount); err != nil {
		if err == repository.ErrInsufficientAvailability {
			return c.JSON(http.StatusConflict, echo.Map{"error": "insufficient availability for the requested dates"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to reserve inventory"})
	}

	res := &model.Reservation{
		ReservationNumber:  number,
		HotelID:            hotel.ID,
		RoomTypeID:         roomType.ID,
		CustomerID:         customerID,
		AgentID:            &agentID,
		CheckInDate:        utils.DateOnly(checkIn),
		CheckOutDate:       utils.DateOnly(checkOut),
		Nights:             nights,
		AdultCount:         req.AdultCount,
		ChildCount:         req.ChildCount,
		RoomCount:          req.RoomCount,
		GuestDetails:       guestsJSON,
		TotalPriceCents:    total,
		PaidAmountCents:    req.PaidAmountCents,
		RemainingCents:     utils.RemainingCents(total, req.PaidAmountCents),
		Currency:           roomType.Currency,
		Status:             model.StatusPending,
		PaymentStatus:      model.PaymentPending,
		SpecialRequests:    req.SpecialRequests,
		CancellationPolicy: req.CancellationPolicy,
	}
	if res.PaidAmountCents > 0 {
		res.PaymentStatus = model.PaymentPartial
		if res.PaidAmountCents >= total {
			res.PaymentStatus = model.PaymentPaid
		}
	}
	if err := h.Reservations.CreateTx(ctx, tx, res); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reservation"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusCreated, echo.Map{"item": res})
}

// Confirm handles POST /v1/reservations/:id/confirm.  The guarded
// status update only succeeds on pending reservations; anything else is
// a 409.  A confirmation event is published after commit; broker
// failures do not undo the confirmation.
func (h *ReservationHandler) Confirm(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx := c.Request().Context()
	code, err := utils.NewConfirmationCode()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to generate confirmation code"})
	}
	if err := h.Reservations.Confirm(ctx, id, code); err != nil {
		if err == repository.ErrNotPending {
			if _, getErr := h.Reservations.GetByID(ctx, id); getErr == repository.ErrReservationNotFound {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
			}
			return c.JSON(http.StatusConflict, echo.Map{"error": "reservation is not pending"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to confirm reservation"})
	}
	res, err := h.Reservations.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation"})
	}
	h.publishConfirmed(res)
	return c.JSON(http.StatusOK, echo.Map{"item": res})
}

// publishConfirmed emits the confirmation event in the background.  The
// hotel and room-type names are resolved best effort; a broker outage
// only logs.
func (h *ReservationHandler) publishConfirmed(res *model.Reservation) {
	ev := queue.BookingConfirmedEvent{
		Kind:            queue.KindHotel,
		BookingID:       res.ID,
		Reference:       res.ReservationNumber,
		CustomerID:      res.CustomerID,
		CheckInDate:     res.CheckInDate.Format("2006-01-02"),
		CheckOutDate:    res.CheckOutDate.Format("2006-01-02"),
		TotalPriceCents: res.TotalPriceCents,
		Currency:        res.Currency,
		ConfirmedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if res.ConfirmationCode != nil {
		ev.ConfirmationCode = *res.ConfirmationCode
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if hotel, err := h.Hotels.GetByID(ctx, res.HotelID); err == nil {
			ev.HotelName = hotel.Name
		}
		if rt, err := h.RoomTypes.GetByID(ctx, res.RoomTypeID); err == nil {
			ev.RoomTypeName = rt.Name
		}
		_ = queue_publisher.PublishBookingConfirmed(ctx, ev)
	}()
}

type cancelReq struct {
	Reason string `json:"reason"`
}

// Cancel handles POST /v1/reservations/:id/cancel.  Cancellation is
// allowed while the reservation is active and check-in is more than 24
// hours away.  The guarded status update and the inventory release run
// in one transaction; a repeated cancel hits the guard and never
// releases rooms twice.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req cancelReq
	_ = c.Bind(&req)

	ctx := c.Request().Context()
	res, err := h.Reservations.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrReservationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !res.CanBeCancelled(time.Now().UTC()) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation can no longer be cancelled"})
	}

	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.Reservations.CancelTx(ctx, tx, id, req.Reason); err != nil {
		if err == repository.ErrNotCancellable {
			return c.JSON(http.StatusConflict, echo.Map{"error": "reservation can no longer be cancelled"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel reservation"})
	}
	if err := h.Inventory.ReleaseTx(ctx, tx, res.RoomTypeID, res.CheckInDate, res.CheckOutDate, res.RoomCount); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release inventory"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	updated, err := h.Reservations.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": updated})
}

// GetByID handles GET /v1/reservations/:id.
func (h *ReservationHandler) GetByID(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Reservations.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrReservationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": res})
}

// GetByNumber handles GET /v1/reservations/number/:number.
func (h *ReservationHandler) GetByNumber(c echo.Context) error {
	number := strings.TrimSpace(c.Param("number"))
	if number == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation number"})
	}
	res, err := h.Reservations.GetByNumber(c.Request().Context(), number)
	if err != nil {
		if err == repository.ErrReservationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": res})
}

// List handles GET /v1/reservations with optional filters: status,
// customer_id, hotel_id, check_in_from, check_in_to.  Agents only see
// their own reservations; admins see everything.
func (h *ReservationHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var f repository.ReservationFilter
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
	if s := c.QueryParam("hotel_id"); s != "" {
		id, err := parseUintParam(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel_id"})
		}
		f.HotelID = id
	}
	if s := c.QueryParam("check_in_from"); s != "" {
		d, err := parseDate(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in_from"})
		}
		f.CheckInFrom = d
	}
	if s := c.QueryParam("check_in_to"); s != "" {
		d, err := parseDate(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in_to"})
		}
		f.CheckInTo = d
	}
	items, err := h.Reservations.List(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// CheckAvailability handles GET /v1/availability.  Query parameters:
// room_type_id, check_in, check_out, rooms (default 1).  Returns the
// verdict and a price quote for the stay.
func (h *ReservationHandler) CheckAvailability(c echo.Context) error {
	roomTypeID, err := parseUintParam(c.QueryParam("room_type_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room_type_id"})
	}
	checkIn, err := parseDate(c.QueryParam("check_in"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in"})
	}
	checkOut, err := parseDate(c.QueryParam("check_out"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_out"})
	}
	if !checkOut.After(checkIn) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be after check_in"})
	}
	rooms := 1
	if s := c.QueryParam("rooms"); s != "" {
		n, err := parseUintParam(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid rooms"})
		}
		rooms = int(n)
	}
	ctx := c.Request().Context()
	roomType, err := h.RoomTypes.GetByID(ctx, roomTypeID)
	if err != nil {
		if err == repository.ErrRoomTypeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room type not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	available, err := h.Inventory.CheckAvailability(ctx, roomTypeID, checkIn, checkOut, rooms)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "availability check failed"})
	}
	nights := utils.Nights(checkIn, checkOut)
	return c.JSON(http.StatusOK, echo.Map{
		"available":         available,
		"nights":            nights,
		"total_price_cents": utils.HotelTotalCents(roomType.BasePriceCents, nights, rooms),
		"currency":          roomType.Currency,
	})
}
