package model

import "time"

// Transfer is a catalog route offered by the agency, e.g. an airport
// shuttle between two points.  Individual departures are modelled as
// TransferSchedule rows.
type Transfer struct {
	ID           uint64    // transfers.id
	Name         string    // transfers.name
	FromLocation string    // transfers.from_location
	ToLocation   string    // transfers.to_location
	IsActive     bool      // transfers.is_active
	CreatedAt    time.Time // transfers.created_at
	UpdatedAt    time.Time // transfers.updated_at
}

// TransferVehicle is a vehicle that can be assigned to scheduled
// departures.  Capacity is the physical seat count; a schedule may
// offer fewer seats than the vehicle holds.
type TransferVehicle struct {
	ID          uint64    // transfer_vehicles.id
	Name        string    // transfer_vehicles.name
	PlateNumber string    // transfer_vehicles.plate_number
	Capacity    int       // transfer_vehicles.capacity
	IsActive    bool      // transfer_vehicles.is_active
	CreatedAt   time.Time // transfer_vehicles.created_at
	UpdatedAt   time.Time // transfer_vehicles.updated_at
}

// TransferSchedule is a dated, timed departure of a transfer on a
// specific vehicle.  It owns the seat capacity counters mutated by the
// seat ledger.
//
// Invariant: BookedSeats <= AvailableSeats.
//
// Fields:
//
//	ID                – primary key identifier.
//	TransferID        – transfer this departure belongs to.
//	VehicleID         – vehicle running the departure.
//	ScheduleDate      – calendar date of departure (UTC midnight).
//	DepartureTime     – departure time as "HH:MM:SS".
//	ArrivalTime       – optional arrival time.
//	AvailableSeats    – seats offered for sale on this departure.
//	BookedSeats       – seats already sold.
//	SpecialPriceCents – optional per-seat override price; callers apply
//	                    it before invoking the booking engine.
//	Notes             – optional free text.
//	IsActive          – soft-delete flag.
type TransferSchedule struct {
	ID                uint64    // transfer_schedules.id
	TransferID        uint64    // transfer_schedules.transfer_id
	VehicleID         uint64    // transfer_schedules.vehicle_id
	ScheduleDate      time.Time // transfer_schedules.schedule_date
	DepartureTime     string    // transfer_schedules.departure_time
	ArrivalTime       *string   // transfer_schedules.arrival_time (nullable)
	AvailableSeats    int       // transfer_schedules.available_seats
	BookedSeats       int       // transfer_schedules.booked_seats
	SpecialPriceCents *int64    // transfer_schedules.special_price_cents (nullable)
	Notes             *string   // transfer_schedules.notes (nullable)
	IsActive          bool      // transfer_schedules.is_active
	CreatedAt         time.Time // transfer_schedules.created_at
	UpdatedAt         time.Time // transfer_schedules.updated_at
}

// RemainingSeats returns how many seats can still be sold on this
// departure.
func (s *TransferSchedule) RemainingSeats() int {
	return s.AvailableSeats - s.BookedSeats
}

// IsFullyBooked reports whether no seats remain.
func (s *TransferSchedule) IsFullyBooked() bool {
	return s.BookedSeats >= s.AvailableSeats
}
