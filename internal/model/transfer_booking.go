package model

import (
	"encoding/json"
	"time"
)

// Payment statuses for transfer bookings.  They differ from the hotel
// payment statuses because transfer bookings start unpaid.
const (
	TransferUnpaid        = "unpaid"
	TransferPartiallyPaid = "partially_paid"
	TransferFullyPaid     = "fully_paid"
	TransferRefunded      = "refunded"
)

// TransferBooking records the sale of seats on a scheduled departure.
// Seat capacity is committed on the schedule row at creation time and
// released again on cancellation.
type TransferBooking struct {
	ID                 uint64          // transfer_bookings.id
	BookingReference   string          // transfer_bookings.booking_reference (unique)
	ScheduleID         uint64          // transfer_bookings.schedule_id
	CustomerID         uint64          // transfer_bookings.customer_id
	AgentID            *uint64         // transfer_bookings.agent_id (nullable)
	PassengerCount     int             // transfer_bookings.passenger_count
	PassengerDetails   json.RawMessage // transfer_bookings.passenger_details (JSON, nullable)
	TotalPriceCents    int64           // transfer_bookings.total_price_cents
	PaidAmountCents    int64           // transfer_bookings.paid_amount_cents
	Currency           string          // transfer_bookings.currency
	Status             string          // transfer_bookings.status
	PaymentStatus      string          // transfer_bookings.payment_status
	PaymentDueDate     *time.Time      // transfer_bookings.payment_due_date (nullable)
	PickupLocation     *string         // transfer_bookings.pickup_location (nullable)
	DropoffLocation    *string         // transfer_bookings.dropoff_location (nullable)
	SpecialRequests    *string         // transfer_bookings.special_requests (nullable)
	CancellationReason *string         // transfer_bookings.cancellation_reason (nullable)
	CancelledAt        *time.Time      // transfer_bookings.cancelled_at (nullable)
	Notes              *string         // transfer_bookings.notes (nullable)
	CreatedAt          time.Time       // transfer_bookings.created_at
	UpdatedAt          time.Time       // transfer_bookings.updated_at
}

// RemainingCents returns the unpaid part of the booking total.
func (b *TransferBooking) RemainingCents() int64 {
	return b.TotalPriceCents - b.PaidAmountCents
}

// IsFullyPaid reports whether the booking has been settled in full.
func (b *TransferBooking) IsFullyPaid() bool {
	return b.RemainingCents() <= 0
}

// CanBeCancelled reports whether the booking may still be cancelled.
// Transfer bookings have no lead-time window; any pending or confirmed
// booking is cancellable.
func (b *TransferBooking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}
