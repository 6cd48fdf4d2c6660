package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReservationCanBeCancelled(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	t.Run("PendingFarFromCheckIn", func(t *testing.T) {
		r := &Reservation{Status: StatusPending, CheckInDate: now.Add(48 * time.Hour)}
		assert.True(t, r.CanBeCancelled(now))
	})
	t.Run("ConfirmedFarFromCheckIn", func(t *testing.T) {
		r := &Reservation{Status: StatusConfirmed, CheckInDate: now.Add(48 * time.Hour)}
		assert.True(t, r.CanBeCancelled(now))
	})
	t.Run("TooCloseToCheckIn", func(t *testing.T) {
		r := &Reservation{Status: StatusConfirmed, CheckInDate: now.Add(10 * time.Hour)}
		assert.False(t, r.CanBeCancelled(now))
	})
	t.Run("ExactlyAtNoticeBoundary", func(t *testing.T) {
		r := &Reservation{Status: StatusPending, CheckInDate: now.Add(24 * time.Hour)}
		assert.False(t, r.CanBeCancelled(now))
	})
	t.Run("AlreadyCancelled", func(t *testing.T) {
		r := &Reservation{Status: StatusCancelled, CheckInDate: now.Add(48 * time.Hour)}
		assert.False(t, r.CanBeCancelled(now))
	})
	t.Run("Completed", func(t *testing.T) {
		r := &Reservation{Status: StatusCompleted, CheckInDate: now.Add(48 * time.Hour)}
		assert.False(t, r.CanBeCancelled(now))
	})
}

func TestReservationIsActive(t *testing.T) {
	assert.True(t, (&Reservation{Status: StatusPending}).IsActive())
	assert.True(t, (&Reservation{Status: StatusConfirmed}).IsActive())
	assert.False(t, (&Reservation{Status: StatusCancelled}).IsActive())
	assert.False(t, (&Reservation{Status: StatusNoShow}).IsActive())
}

func TestTransferBookingCanBeCancelled(t *testing.T) {
	// no lead-time window for transfers, status is the only gate
	assert.True(t, (&TransferBooking{Status: StatusPending}).CanBeCancelled())
	assert.True(t, (&TransferBooking{Status: StatusConfirmed}).CanBeCancelled())
	assert.False(t, (&TransferBooking{Status: StatusCancelled}).CanBeCancelled())
	assert.False(t, (&TransferBooking{Status: StatusCompleted}).CanBeCancelled())
}

func TestTransferBookingPayment(t *testing.T) {
	b := &TransferBooking{TotalPriceCents: 50000, PaidAmountCents: 20000}
	assert.Equal(t, int64(30000), b.RemainingCents())
	assert.False(t, b.IsFullyPaid())

	b.PaidAmountCents = 50000
	assert.True(t, b.IsFullyPaid())
}

func TestScheduleSeatCounters(t *testing.T) {
	s := &TransferSchedule{AvailableSeats: 16, BookedSeats: 14}
	assert.Equal(t, 2, s.RemainingSeats())
	assert.False(t, s.IsFullyBooked())

	s.BookedSeats = 16
	assert.True(t, s.IsFullyBooked())
	assert.Equal(t, 0, s.RemainingSeats())
}
