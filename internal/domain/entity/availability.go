package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/it22188236/Hospital-Management/internal/scheduling"
)

var (
	ErrAvailabilityIncomplete = errors.New("availability must define all seven weekdays")
	ErrUnknownWeekday         = errors.New("unknown weekday in availability")
	ErrInvalidWindow          = errors.New("availability window start must be before end")
)

// AvailabilityWindow is one weekday's open interval as stored on the
// doctor record. Times are HH:MM strings; they are only meaningful when
// Available is true.
type AvailabilityWindow struct {
	Available bool   `json:"available"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// WeeklyAvailability maps weekday names (Sunday..Saturday) to windows.
// It is embedded in the doctor record as JSONB and replaced whole-record
// by the doctor-profile update flow; partial records are rejected there,
// never inside the scheduling service.
type WeeklyAvailability map[string]AvailabilityWindow

// weekdayNames are the seven required keys, derived from time.Weekday so
// naming never depends on locale.
var weekdayNames = func() map[string]time.Weekday {
	names := make(map[string]time.Weekday, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		names[d.String()] = d
	}
	return names
}()

// Value implements driver.Valuer for JSONB storage.
func (w WeeklyAvailability) Value() (driver.Value, error) {
	if len(w) == 0 {
		return nil, nil
	}
	return json.Marshal(w)
}

// Scan implements sql.Scanner for JSONB storage.
func (w *WeeklyAvailability) Scan(value interface{}) error {
	if value == nil {
		*w = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("failed to scan availability value: %v", value)
	}

	result := WeeklyAvailability{}
	if err := json.Unmarshal(bytes, &result); err != nil {
		return err
	}
	*w = result
	return nil
}

// Validate checks the fixed 7-key shape: every weekday present, no extra
// keys, and each open day carrying a well-formed start < end interval.
func (w WeeklyAvailability) Validate() error {
	if len(w) != 7 {
		return ErrAvailabilityIncomplete
	}
	for name, window := range w {
		if _, ok := weekdayNames[name]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownWeekday, name)
		}
		if !window.Available {
			continue
		}
		start, err := scheduling.ParseClockTime(window.StartTime)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		end, err := scheduling.ParseClockTime(window.EndTime)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if start >= end {
			return fmt.Errorf("%w (%s)", ErrInvalidWindow, name)
		}
	}
	return nil
}

// Weekly converts the stored shape into the scheduler's weekday-indexed
// form. Malformed times on open days fail here; closed days pass through.
func (w WeeklyAvailability) Weekly() (scheduling.Weekly, error) {
	weekly := make(scheduling.Weekly, len(w))
	for name, window := range w {
		day, ok := weekdayNames[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownWeekday, name)
		}
		if !window.Available {
			weekly[day] = scheduling.Window{}
			continue
		}
		start, err := scheduling.ParseClockTime(window.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		end, err := scheduling.ParseClockTime(window.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		weekly[day] = scheduling.Window{Available: true, Start: start, End: end}
	}
	return weekly, nil
}
