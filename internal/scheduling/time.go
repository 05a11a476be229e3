package scheduling

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrInvalidClockTime is returned when a time string does not match HH:MM.
var ErrInvalidClockTime = errors.New("invalid time, use HH:MM")

// clockTimePattern requires a two-digit 24-hour time, e.g. "09:30" or "23:00".
var clockTimePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ClockTime is a time of day in minutes since midnight. Appointments are
// date + ClockTime; durations never cross midnight.
type ClockTime int

// ParseClockTime parses an HH:MM string into a ClockTime.
func ParseClockTime(s string) (ClockTime, error) {
	if !clockTimePattern.MatchString(s) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	hour, _ := strconv.Atoi(s[:2])
	minute, _ := strconv.Atoi(s[3:])
	return ClockTime(hour*60 + minute), nil
}

func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}
