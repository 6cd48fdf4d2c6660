package handler

import (
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tourism-booking/internal/model"
	"github.com/iliyamo/tourism-booking/internal/repository"
	"github.com/iliyamo/tourism-booking/internal/utils"
)

// TransferHandler serves the transfer catalog: routes, vehicles and
// scheduled departures.
type TransferHandler struct {
	Transfers *repository.TransferRepo
	Vehicles  *repository.VehicleRepo
	Schedules *repository.ScheduleRepo
}

func NewTransferHandler(t *repository.TransferRepo, v *repository.VehicleRepo, s *repository.ScheduleRepo) *TransferHandler {
	if t == nil || v == nil || s == nil {
		panic("nil repository passed to NewTransferHandler")
	}
	return &TransferHandler{Transfers: t, Vehicles: v, Schedules: s}
}

var timeOfDay = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)

type createTransferReq struct {
	Name         string `json:"name"`
	FromLocation string `json:"from_location"`
	ToLocation   string `json:"to_location"`
}

// CreateTransfer handles POST /v1/transfers.
func (h *TransferHandler) CreateTransfer(c echo.Context) error {
	var req createTransferReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" || req.FromLocation == "" || req.ToLocation == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, from_location and to_location are required"})
	}
	t := &model.Transfer{Name: req.Name, FromLocation: req.FromLocation, ToLocation: req.ToLocation, IsActive: true}
	if err := h.Transfers.Create(c.Request().Context(), t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create transfer"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": t})
}

// ListTransfers handles GET /v1/transfers.
func (h *TransferHandler) ListTransfers(c echo.Context) error {
	items, err := h.Transfers.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load transfers"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

type createVehicleReq struct {
	Name        string `json:"name"`
	PlateNumber string `json:"plate_number"`
	Capacity    int    `json:"capacity"`
}

// CreateVehicle handles POST /v1/transfer-vehicles.
func (h *TransferHandler) CreateVehicle(c echo.Context) error {
	var req createVehicleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" || req.Capacity <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and positive capacity are required"})
	}
	v := &model.TransferVehicle{Name: req.Name, PlateNumber: req.PlateNumber, Capacity: req.Capacity, IsActive: true}
	if err := h.Vehicles.Create(c.Request().Context(), v); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create vehicle"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": v})
}

// ListVehicles handles GET /v1/transfer-vehicles.
func (h *TransferHandler) ListVehicles(c echo.Context) error {
	items, err := h.Vehicles.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load vehicles"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

type createScheduleReq struct {
	TransferID        uint64  `json:"transfer_id"`
	VehicleID         uint64  `json:"vehicle_id"`
	ScheduleDate      string  `json:"schedule_date"` // YYYY-MM-DD
	DepartureTime     string  `json:"departure_time"`
	ArrivalTime       *string `json:"arrival_time"`
	AvailableSeats    int     `json:"available_seats"`
	SpecialPriceCents *int64  `json:"special_price_cents"`
	Notes             *string `json:"notes"`
}

// CreateSchedule handles POST /v1/transfer-schedules.  The seats put on
// sale may not exceed the vehicle's physical capacity.
func (h *TransferHandler) CreateSchedule(c echo.Context) error {
	var req createScheduleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.TransferID == 0 || req.VehicleID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "transfer_id and vehicle_id are required"})
	}
	date, err := parseDate(req.ScheduleDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule_date"})
	}
	if !timeOfDay.MatchString(req.DepartureTime) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid departure_time"})
	}
	if req.ArrivalTime != nil && !timeOfDay.MatchString(*req.ArrivalTime) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid arrival_time"})
	}
	if req.AvailableSeats <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "available_seats must be positive"})
	}
	if req.SpecialPriceCents != nil && *req.SpecialPriceCents <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "special_price_cents must be positive"})
	}
	ctx := c.Request().Context()
	if _, err := h.Transfers.GetByID(ctx, req.TransferID); err != nil {
		if err == repository.ErrTransferNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "transfer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	vehicle, err := h.Vehicles.GetByID(ctx, req.VehicleID)
	if err != nil {
		if err == repository.ErrVehicleNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if req.AvailableSeats > vehicle.Capacity {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "available_seats exceeds vehicle capacity"})
	}
	s := &model.TransferSchedule{
		TransferID:        req.TransferID,
		VehicleID:         req.VehicleID,
		ScheduleDate:      utils.DateOnly(date),
		DepartureTime:     req.DepartureTime,
		ArrivalTime:       req.ArrivalTime,
		AvailableSeats:    req.AvailableSeats,
		SpecialPriceCents: req.SpecialPriceCents,
		Notes:             req.Notes,
		IsActive:          true,
	}
	if err := h.Schedules.Create(ctx, s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create schedule"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": s})
}

// ListSchedules handles GET /v1/transfer-schedules.  Supported query
// parameters: transfer_id, vehicle_id, date_from, date_to and
// available_only=true to hide sold-out departures.
func (h *TransferHandler) ListSchedules(c echo.Context) error {
	var f repository.ScheduleFilter
	if s := c.QueryParam("transfer_id"); s != "" {
		id, err := parseUintParam(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid transfer_id"})
		}
		f.TransferID = id
	}
	if s := c.QueryParam("vehicle_id"); s != "" {
		id, err := parseUintParam(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid vehicle_id"})
		}
		f.VehicleID = id
	}
	if s := c.QueryParam("date_from"); s != "" {
		d, err := parseDate(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date_from"})
		}
		f.DateFrom = d
	}
	if s := c.QueryParam("date_to"); s != "" {
		d, err := parseDate(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date_to"})
		}
		f.DateTo = d
	}
	f.AvailableSeatsOnly = c.QueryParam("available_only") == "true"

	items, err := h.Schedules.Search(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load schedules"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
