package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"
)

// Business reference formats: a short prefix, the last six digits of
// the current unix-millisecond clock, and a random suffix.  Reservation
// numbers are generated once and rely on the unique index on the
// reservations table as a collision safety net; booking references are
// additionally checked against existing rows by the caller and
// regenerated on collision (bounded retry).

const (
	reservationPrefix = "RES"
	bookingPrefix     = "TRF"

	alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	digits       = "0123456789"
)

// timeSuffix returns the last six digits of the unix-millisecond clock,
// zero-padded on the left when the tail is shorter.
func timeSuffix(now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return fmt.Sprintf("%06s", ms)
}

// randomFrom draws n characters from the given charset using
// crypto/rand.  The charset length is small, so modulo bias from
// rand.Int is not a concern here.
func randomFrom(charset string, n int) (string, error) {
	out := make([]byte, n)
	max := big.NewInt(int64(len(charset)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = charset[idx.Int64()]
	}
	return string(out), nil
}

// NewReservationNumber produces a hotel reservation number of the form
// RES<6 time digits><3 random alphanumerics>, e.g. RES483920K7A.
func NewReservationNumber() (string, error) {
	suffix, err := randomFrom(alphanumeric, 3)
	if err != nil {
		return "", err
	}
	return reservationPrefix + timeSuffix(time.Now()) + suffix, nil
}

// NewBookingReference produces a transfer booking reference of the form
// TRF<6 time digits><3 random digits>, e.g. TRF483920041.  Callers must
// verify uniqueness against existing bookings and regenerate on
// collision.
func NewBookingReference() (string, error) {
	suffix, err := randomFrom(digits, 3)
	if err != nil {
		return "", err
	}
	return bookingPrefix + timeSuffix(time.Now()) + suffix, nil
}

// NewConfirmationCode returns the short token assigned when a
// reservation moves from pending to confirmed.  It is independent of
// the reservation number.
func NewConfirmationCode() (string, error) {
	return randomFrom(alphanumeric, 8)
}
