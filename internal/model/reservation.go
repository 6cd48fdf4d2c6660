package model

import (
	"encoding/json"
	"time"
)

// Booking lifecycle statuses shared by hotel reservations and transfer
// bookings.  "completed" and "no_show" are terminal states reached by
// administrative action, never derived by the engine itself.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
	StatusNoShow    = "no_show"
)

// Payment statuses for hotel reservations.
const (
	PaymentPending  = "pending"
	PaymentPartial  = "partial"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// cancellationNotice is the minimum lead time before check-in during
// which a reservation may still be cancelled.  The stored
// cancellation-policy payload is persisted but not interpreted; the
// window is fixed at 24 hours.
const cancellationNotice = 24 * time.Hour

// Reservation records a hotel room booking.  It is created in status
// "pending" with inventory already committed; all later transitions go
// through the reservation handlers, never through generic updates.
//
// GuestDetails and CancellationPolicy are stored as raw JSON columns;
// the engine treats them as opaque payloads.
type Reservation struct {
	ID                 uint64          // reservations.id
	ReservationNumber  string          // reservations.reservation_number (unique)
	HotelID            uint64          // reservations.hotel_id
	RoomTypeID         uint64          // reservations.room_type_id
	CustomerID         uint64          // reservations.customer_id
	AgentID            *uint64         // reservations.agent_id (nullable)
	CheckInDate        time.Time       // reservations.check_in_date
	CheckOutDate       time.Time       // reservations.check_out_date
	Nights             int             // reservations.nights
	AdultCount         int             // reservations.adult_count
	ChildCount         int             // reservations.child_count
	RoomCount          int             // reservations.room_count
	GuestDetails       json.RawMessage // reservations.guest_details (JSON)
	TotalPriceCents    int64           // reservations.total_price_cents
	PaidAmountCents    int64           // reservations.paid_amount_cents
	RemainingCents     int64           // reservations.remaining_cents
	Currency           string          // reservations.currency
	Status             string          // reservations.status
	PaymentStatus      string          // reservations.payment_status
	SpecialRequests    *string         // reservations.special_requests (nullable)
	CancellationPolicy json.RawMessage // reservations.cancellation_policy (JSON)
	CancelledAt        *time.Time      // reservations.cancelled_at (nullable)
	CancellationReason *string         // reservations.cancellation_reason (nullable)
	ConfirmationCode   *string         // reservations.confirmation_code (nullable)
	CreatedAt          time.Time       // reservations.created_at
	UpdatedAt          time.Time       // reservations.updated_at
}

// IsActive reports whether the reservation still holds inventory.
func (r *Reservation) IsActive() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// CanBeCancelled reports whether the reservation may be cancelled at
// the given instant: it must still be active and check-in must be more
// than the cancellation notice away.
func (r *Reservation) CanBeCancelled(now time.Time) bool {
	return r.IsActive() && r.CheckInDate.Sub(now) > cancellationNotice
}
