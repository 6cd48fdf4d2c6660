package utils

import "time"

// DateOnly truncates t to UTC midnight.  All inventory calendar keys
// are stored this way so that comparisons against DATE columns behave
// consistently regardless of the caller's time zone.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateRange expands the half-open interval [checkIn, checkOut) into
// individual calendar dates.  A one-night stay touches exactly one
// date; the checkout day is never included.  Both bounds are truncated
// to UTC midnight first.
func DateRange(checkIn, checkOut time.Time) []time.Time {
	from := DateOnly(checkIn)
	to := DateOnly(checkOut)
	var dates []time.Time
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}
