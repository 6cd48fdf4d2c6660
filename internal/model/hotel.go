package model

import "time"

// Hotel represents a property in the agency catalog as stored in the
// `hotels` table.  Catalog records are read by the booking engine but
// never mutated by it.
//
// Fields:
//
//	ID        – primary key identifier.
//	Name      – display name of the property.
//	City      – city the hotel is located in.
//	Country   – country the hotel is located in.
//	Stars     – official star rating (1–5).
//	IsActive  – soft-delete flag; inactive hotels are hidden from booking.
//	CreatedAt – timestamp of creation.
//	UpdatedAt – timestamp of last update.
type Hotel struct {
	ID        uint64    // hotels.id
	Name      string    // hotels.name
	City      string    // hotels.city
	Country   string    // hotels.country
	Stars     uint8     // hotels.stars
	IsActive  bool      // hotels.is_active
	CreatedAt time.Time // hotels.created_at
	UpdatedAt time.Time // hotels.updated_at
}

// RoomType is a bookable category of room within a hotel.  Each room
// type carries its own base price and its own inventory calendar (one
// RoomInventory row per date).
//
// Fields:
//
//	ID             – primary key identifier.
//	HotelID        – hotel this room type belongs to.
//	Name           – category name (e.g. "Deluxe Double").
//	Description    – free-text description.
//	MaxAdults      – maximum adult occupancy.
//	MaxChildren    – maximum child occupancy.
//	BasePriceCents – nightly base price in minor units.
//	Currency       – ISO currency code for the base price.
//	IsActive       – soft-delete flag.
//	CreatedAt      – timestamp of creation.
//	UpdatedAt      – timestamp of last update.
type RoomType struct {
	ID             uint64    // room_types.id
	HotelID        uint64    // room_types.hotel_id
	Name           string    // room_types.name
	Description    string    // room_types.description
	MaxAdults      uint8     // room_types.max_adults
	MaxChildren    uint8     // room_types.max_children
	BasePriceCents int64     // room_types.base_price_cents
	Currency       string    // room_types.currency
	IsActive       bool      // room_types.is_active
	CreatedAt      time.Time // room_types.created_at
	UpdatedAt      time.Time // room_types.updated_at
}

// RoomInventory is the per-date capacity counter for a room type.  One
// row exists per (room type, calendar date).  Rows are created when the
// inventory calendar is initialized and are only ever mutated by the
// inventory ledger during reserve/release; they are never deleted.
//
// Invariant: AvailableRooms >= 0 at all times, and
// AvailableRooms = TotalRooms − allocated − BlockedRooms.
type RoomInventory struct {
	ID             uint64    // room_inventory.id
	RoomTypeID     uint64    // room_inventory.room_type_id
	Date           time.Time // room_inventory.date (UTC midnight)
	TotalRooms     int       // room_inventory.total_rooms
	AvailableRooms int       // room_inventory.available_rooms
	BlockedRooms   int       // room_inventory.blocked_rooms
	BlockReason    *string   // room_inventory.block_reason (nullable)
	CreatedAt      time.Time // room_inventory.created_at
	UpdatedAt      time.Time // room_inventory.updated_at
}
