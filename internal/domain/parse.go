package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrEmptyClock   = errors.New("empty time")
	ErrInvalidClock = errors.New("invalid time")
)

// Clock is a wall-clock time of day with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM" (24h). A single-digit hour is accepted: "7:05".
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Clock{}, ErrEmptyClock
	}
	parts := strings.Split(s, ":")
	if len(parts) != 2 || len(parts[0]) < 1 || len(parts[0]) > 2 || len(parts[1]) != 2 {
		return Clock{}, fmt.Errorf("%w: expected HH:MM, got %q", ErrInvalidClock, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return Clock{}, fmt.Errorf("%w: invalid hour in %q", ErrInvalidClock, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return Clock{}, fmt.Errorf("%w: invalid minute in %q", ErrInvalidClock, s)
	}
	return Clock{Hour: h, Minute: m}, nil
}

// String returns the clock as zero-padded HH:MM.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// NormalizeRegion upper-cases and trims a storm region code.
func NormalizeRegion(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
