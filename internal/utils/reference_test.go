package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReservationNumber(t *testing.T) {
	n, err := NewReservationNumber()
	require.NoError(t, err)
	assert.Len(t, n, 12)
	assert.True(t, strings.HasPrefix(n, "RES"))
	for _, ch := range n[3:] {
		assert.Contains(t, alphanumeric, string(ch))
	}
}

func TestNewBookingReference(t *testing.T) {
	ref, err := NewBookingReference()
	require.NoError(t, err)
	assert.Len(t, ref, 12)
	assert.True(t, strings.HasPrefix(ref, "TRF"))
	// everything after the prefix is numeric
	for _, ch := range ref[3:] {
		assert.Contains(t, digits, string(ch))
	}
}

func TestNewConfirmationCode(t *testing.T) {
	code, err := NewConfirmationCode()
	require.NoError(t, err)
	assert.Len(t, code, 8)
	for _, ch := range code {
		assert.Contains(t, alphanumeric, string(ch))
	}
}

func TestTimeSuffix(t *testing.T) {
	t.Run("TakesLastSixDigits", func(t *testing.T) {
		now := time.UnixMilli(1757000123456)
		assert.Equal(t, "123456", timeSuffix(now))
	})
	t.Run("PadsShortClock", func(t *testing.T) {
		now := time.UnixMilli(42)
		assert.Equal(t, "000042", timeSuffix(now))
	})
}
