// Package queue defines message payloads exchanged over the message broker.
package queue

// Booking kinds carried in BookingConfirmedEvent.Kind.
const (
	KindHotel    = "hotel"
	KindTransfer = "transfer"
)

// BookingConfirmedEvent is published when a hotel reservation or a
// transfer booking is confirmed.  It carries enough context for
// downstream consumers to log or notify without querying the primary
// database.  Hotel-only and transfer-only fields are zero for the
// other kind.
type BookingConfirmedEvent struct {
	Kind             string `json:"kind"`
	BookingID        uint64 `json:"booking_id"`
	Reference        string `json:"reference"`
	CustomerID       uint64 `json:"customer_id"`
	HotelName        string `json:"hotel_name,omitempty"`
	RoomTypeName     string `json:"room_type_name,omitempty"`
	CheckInDate      string `json:"check_in_date,omitempty"`
	CheckOutDate     string `json:"check_out_date,omitempty"`
	TransferName     string `json:"transfer_name,omitempty"`
	ScheduleDate     string `json:"schedule_date,omitempty"`
	DepartureTime    string `json:"departure_time,omitempty"`
	PassengerCount   int    `json:"passenger_count,omitempty"`
	TotalPriceCents  int64  `json:"total_price_cents"`
	Currency         string `json:"currency"`
	ConfirmationCode string `json:"confirmation_code,omitempty"`
	ConfirmedAt      string `json:"confirmed_at"`
}
