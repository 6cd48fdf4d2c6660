package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateOnly(t *testing.T) {
	in := time.Date(2026, 10, 1, 17, 45, 12, 999, time.FixedZone("X", 3*3600))
	out := DateOnly(in)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), out)
}

func TestDateRange(t *testing.T) {
	t.Run("HalfOpenExcludesCheckout", func(t *testing.T) {
		dates := DateRange(date("2026-10-01"), date("2026-10-04"))
		assert.Len(t, dates, 3)
		assert.Equal(t, date("2026-10-01"), dates[0])
		assert.Equal(t, date("2026-10-03"), dates[2])
	})
	t.Run("OneNightTouchesOneDate", func(t *testing.T) {
		dates := DateRange(date("2026-10-01"), date("2026-10-02"))
		assert.Len(t, dates, 1)
	})
	t.Run("EmptyWhenReversed", func(t *testing.T) {
		assert.Empty(t, DateRange(date("2026-10-04"), date("2026-10-01")))
	})
	t.Run("EmptyWhenEqual", func(t *testing.T) {
		assert.Empty(t, DateRange(date("2026-10-01"), date("2026-10-01")))
	})
}
