package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/tourism-booking/internal/model"
)

// HotelRepo provides access to the hotel catalog.  The booking engine
// only reads through it; writes come from the admin endpoints.
type HotelRepo struct {
	db *sql.DB
}

// NewHotelRepo returns a new HotelRepo bound to the given database.
func NewHotelRepo(db *sql.DB) *HotelRepo { return &HotelRepo{db: db} }

// Create inserts a hotel and populates the generated ID.
func (r *HotelRepo) Create(ctx context.Context, h *model.Hotel) error {
	const q = `INSERT INTO hotels (name, city, country, stars, is_active) VALUES (?, ?, ?, ?, TRUE)`
	res, err := r.db.ExecContext(ctx, q, h.Name, h.City, h.Country, h.Stars)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	return nil
}

// GetByID returns an active hotel or ErrHotelNotFound.
func (r *HotelRepo) GetByID(ctx context.Context, id uint64) (*model.Hotel, error) {
	const q = `SELECT id, name, city, country, stars, is_active, created_at, updated_at
               FROM hotels WHERE id = ? AND is_active = TRUE`
	var h model.Hotel
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&h.ID, &h.Name, &h.City, &h.Country, &h.Stars, &h.IsActive, &h.CreatedAt, &h.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrHotelNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// List returns all active hotels ordered by name.
func (r *HotelRepo) List(ctx context.Context) ([]model.Hotel, error) {
	const q = `SELECT id, name, city, country, stars, is_active, created_at, updated_at
               FROM hotels WHERE is_active = TRUE ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Hotel, 0)
	for rows.Next() {
		var h model.Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.City, &h.Country, &h.Stars, &h.IsActive, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// RoomTypeRepo provides access to the room-type catalog.
type RoomTypeRepo struct {
	db *sql.DB
}

// NewRoomTypeRepo returns a new RoomTypeRepo bound to the given database.
func NewRoomTypeRepo(db *sql.DB) *RoomTypeRepo { return &RoomTypeRepo{db: db} }

const roomTypeColumns = `id, hotel_id, name, description, max_adults, max_children,
       base_price_cents, currency, is_active, created_at, updated_at`

func scanRoomType(row interface{ Scan(...interface{}) error }) (*model.RoomType, error) {
	var rt model.RoomType
	var desc sql.NullString
	err := row.Scan(&rt.ID, &rt.HotelID, &rt.Name, &desc, &rt.MaxAdults, &rt.MaxChildren,
		&rt.BasePriceCents, &rt.Currency, &rt.IsActive, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		rt.Description = desc.String
	}
	return &rt, nil
}

// Create inserts a room type and populates the generated ID.
func (r *RoomTypeRepo) Create(ctx context.Context, rt *model.RoomType) error {
	const q = `INSERT INTO room_types (hotel_id, name, description, max_adults, max_children, base_price_cents, currency, is_active)
               VALUES (?, ?, ?, ?, ?, ?, ?, TRUE)`
	res, err := r.db.ExecContext(ctx, q, rt.HotelID, rt.Name, rt.Description, rt.MaxAdults, rt.MaxChildren, rt.BasePriceCents, rt.Currency)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rt.ID = uint64(id)
	return nil
}

// GetByID returns an active room type or ErrRoomTypeNotFound.
func (r *RoomTypeRepo) GetByID(ctx context.Context, id uint64) (*model.RoomType, error) {
	const q = `SELECT ` + roomTypeColumns + ` FROM room_types WHERE id = ? AND is_active = TRUE`
	rt, err := scanRoomType(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrRoomTypeNotFound
	}
	return rt, err
}

// ListByHotel returns all active room types of a hotel ordered by name.
func (r *RoomTypeRepo) ListByHotel(ctx context.Context, hotelID uint64) ([]model.RoomType, error) {
	const q = `SELECT ` + roomTypeColumns + ` FROM room_types WHERE hotel_id = ? AND is_active = TRUE ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.RoomType, 0)
	for rows.Next() {
		rt, err := scanRoomType(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rt)
	}
	return out, rows.Err()
}
