package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNights(t *testing.T) {
	t.Run("SingleNight", func(t *testing.T) {
		assert.Equal(t, 1, Nights(date("2026-10-01"), date("2026-10-02")))
	})
	t.Run("Week", func(t *testing.T) {
		assert.Equal(t, 7, Nights(date("2026-10-01"), date("2026-10-08")))
	})
	t.Run("PartialDayRoundsUp", func(t *testing.T) {
		checkIn := time.Date(2026, 10, 1, 14, 0, 0, 0, time.UTC)
		checkOut := time.Date(2026, 10, 2, 11, 0, 0, 0, time.UTC)
		assert.Equal(t, 1, Nights(checkIn, checkOut))
	})
}

func TestHotelTotalCents(t *testing.T) {
	t.Run("MultiRoomMultiNight", func(t *testing.T) {
		// 150.00 per night, 3 nights, 2 rooms
		assert.Equal(t, int64(90000), HotelTotalCents(15000, 3, 2))
	})
	t.Run("SingleRoomSingleNight", func(t *testing.T) {
		assert.Equal(t, int64(15000), HotelTotalCents(15000, 1, 1))
	})
}

func TestRemainingCents(t *testing.T) {
	assert.Equal(t, int64(5000), RemainingCents(15000, 10000))
	assert.Equal(t, int64(0), RemainingCents(15000, 15000))
}
