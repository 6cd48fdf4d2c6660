// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// collapsing them into a generic failure: capacity shortfalls map to
// HTTP 409, missing records to 404, rejected lifecycle transitions to
// 409, and an exhausted reference-generation budget to 500.
package repository

import "errors"

// Not-found sentinels for the catalog and booking records the engine
// resolves.  Handlers translate these into HTTP 404 responses.
var (
	ErrHotelNotFound       = errors.New("hotel not found")
	ErrRoomTypeNotFound    = errors.New("room type not found")
	ErrTransferNotFound    = errors.New("transfer not found")
	ErrVehicleNotFound     = errors.New("transfer vehicle not found")
	ErrScheduleNotFound    = errors.New("transfer schedule not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrBookingNotFound     = errors.New("transfer booking not found")
	ErrCustomerNotFound    = errors.New("customer not found")
)

// ErrInsufficientAvailability is returned by the inventory ledger when
// at least one date in the requested range cannot supply the requested
// room count.  The ledger guarantees that no partial decrement remains
// when this is returned.
var ErrInsufficientAvailability = errors.New("insufficient room availability")

// ErrInsufficientSeats is returned by the seat ledger when a schedule
// has fewer remaining seats than requested.
var ErrInsufficientSeats = errors.New("insufficient seats")

// ErrNotCancellable is returned when cancellation is attempted outside
// the allowed window or on a record that is no longer active.  A second
// cancel of an already-cancelled record fails with this error and does
// not release inventory again.
var ErrNotCancellable = errors.New("not cancellable")

// ErrNotPending is returned when a confirmation is attempted on a
// record that has already left the pending state.
var ErrNotPending = errors.New("not pending")

// ErrReferenceCollision is returned when the bounded retry budget for
// generating a unique booking reference is exhausted.
var ErrReferenceCollision = errors.New("booking reference collision")

// ErrEmailExists is returned when registering a user with an email
// address that is already taken.
var ErrEmailExists = errors.New("email already exists")
