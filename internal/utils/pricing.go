package utils

import (
	"math"
	"time"
)

// Nights returns the number of chargeable nights between check-in and
// check-out as the ceiling of the difference in days.  A stay of one
// calendar day yields 1 night, never 0.  Callers must validate that
// checkOut is after checkIn before computing a price.
func Nights(checkIn, checkOut time.Time) int {
	diff := checkOut.Sub(checkIn).Hours() / 24
	return int(math.Ceil(diff))
}

// HotelTotalCents computes the flat reservation price:
// base nightly rate × nights × room count.
func HotelTotalCents(basePriceCents int64, nights, roomCount int) int64 {
	return basePriceCents * int64(nights) * int64(roomCount)
}

// RemainingCents returns the unpaid part of a total.
func RemainingCents(totalCents, paidCents int64) int64 {
	return totalCents - paidCents
}
