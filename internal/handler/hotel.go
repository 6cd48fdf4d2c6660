package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tourism-booking/internal/model"
	"github.com/iliyamo/tourism-booking/internal/repository"
	"github.com/iliyamo/tourism-booking/internal/utils"
)

// HotelHandler serves the hotel catalog: properties, room types and the
// per-date inventory calendar.  Write endpoints are admin-only; the
// role check happens in middleware.
type HotelHandler struct {
	Hotels    *repository.HotelRepo
	RoomTypes *repository.RoomTypeRepo
	Inventory *repository.InventoryRepo
}

func NewHotelHandler(h *repository.HotelRepo, rt *repository.RoomTypeRepo, inv *repository.InventoryRepo) *HotelHandler {
	if h == nil || rt == nil || inv == nil {
		panic("nil repository passed to NewHotelHandler")
	}
	return &HotelHandler{Hotels: h, RoomTypes: rt, Inventory: inv}
}

type createHotelReq struct {
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
	Stars   uint8  `json:"stars"`
}

// CreateHotel handles POST /v1/hotels.
func (h *HotelHandler) CreateHotel(c echo.Context) error {
	var req createHotelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" || req.City == "" || req.Country == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, city and country are required"})
	}
	if req.Stars < 1 || req.Stars > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "stars must be between 1 and 5"})
	}
	hotel := &model.Hotel{Name: req.Name, City: req.City, Country: req.Country, Stars: req.Stars, IsActive: true}
	if err := h.Hotels.Create(c.Request().Context(), hotel); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create hotel"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": hotel})
}

// ListHotels handles GET /v1/hotels.
func (h *HotelHandler) ListHotels(c echo.Context) error {
	hotels, err := h.Hotels.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load hotels"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": hotels})
}

type createRoomTypeReq struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	MaxAdults      uint8  `json:"max_adults"`
	MaxChildren    uint8  `json:"max_children"`
	BasePriceCents int64  `json:"base_price_cents"`
	Currency       string `json:"currency"`
}

// CreateRoomType handles POST /v1/hotels/:id/room-types.
func (h *HotelHandler) CreateRoomType(c echo.Context) error {
	hotelID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	if _, err := h.Hotels.GetByID(c.Request().Context(), hotelID); err != nil {
		if err == repository.ErrHotelNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	var req createRoomTypeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" || req.BasePriceCents <= 0 || req.MaxAdults == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, base_price_cents and max_adults are required"})
	}
	if req.Currency == "" {
		req.Currency = "TRY"
	}
	rt := &model.RoomType{
		HotelID:        hotelID,
		Name:           req.Name,
		Description:    req.Description,
		MaxAdults:      req.MaxAdults,
		MaxChildren:    req.MaxChildren,
		BasePriceCents: req.BasePriceCents,
		Currency:       req.Currency,
		IsActive:       true,
	}
	if err := h.RoomTypes.Create(c.Request().Context(), rt); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create room type"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": rt})
}

// ListRoomTypes handles GET /v1/hotels/:id/room-types.
func (h *HotelHandler) ListRoomTypes(c echo.Context) error {
	hotelID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	types, err := h.RoomTypes.ListByHotel(c.Request().Context(), hotelID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load room types"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": types})
}

type initInventoryReq struct {
	StartDate  string `json:"start_date"` // YYYY-MM-DD, inclusive
	EndDate    string `json:"end_date"`   // YYYY-MM-DD, exclusive
	TotalRooms int    `json:"total_rooms"`
}

// InitInventory handles POST /v1/room-types/:id/inventory.  It seeds
// the inventory calendar for a date range with full availability.
// Re-seeding dates that already have rows fails with 409; the calendar
// is append-only once booking starts.
func (h *HotelHandler) InitInventory(c echo.Context) error {
	roomTypeID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room type id"})
	}
	if _, err := h.RoomTypes.GetByID(c.Request().Context(), roomTypeID); err != nil {
		if err == repository.ErrRoomTypeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room type not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	var req initInventoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	from, err := parseDate(req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_date"})
	}
	to, err := parseDate(req.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end_date"})
	}
	if !to.After(from) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date must be after start_date"})
	}
	if req.TotalRooms <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_rooms must be positive"})
	}
	created, err := h.Inventory.InitCalendar(c.Request().Context(), roomTypeID, from, to, req.TotalRooms)
	if err != nil {
		// unique key on (room_type_id, date) rejects overlapping seeds
		return c.JSON(http.StatusConflict, echo.Map{"error": "inventory already initialized for part of the range"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"dates_created": created})
}

// GetInventory handles GET /v1/room-types/:id/inventory.  Query
// parameters "from" and "to" bound the half-open range; "to" defaults
// to 30 days past "from", and "from" defaults to today.
func (h *HotelHandler) GetInventory(c echo.Context) error {
	roomTypeID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room type id"})
	}
	from := utils.DateOnly(time.Now())
	if s := c.QueryParam("from"); s != "" {
		d, err := parseDate(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from date"})
		}
		from = d
	}
	to := from.AddDate(0, 0, 30)
	if s := c.QueryParam("to"); s != "" {
		d, err := parseDate(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to date"})
		}
		to = d
	}
	if !to.After(from) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must be after from"})
	}
	rows, err := h.Inventory.ListCalendar(c.Request().Context(), roomTypeID, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load inventory"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": rows})
}
