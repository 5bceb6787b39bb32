package domain

import "time"

// NextDaily returns the first instant strictly after now at which the wall clock
// in UTC shows c. Daily jobs fire in UTC, so this is what the scheduler will do.
func NextDaily(now time.Time, c Clock) time.Time {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), c.Hour, c.Minute, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
