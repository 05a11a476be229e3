package scheduling

import "time"

// SlotStepMinutes is the spacing between bookable slots. It is the same
// constant the booking UI renders, and submitted appointment times are
// required to align to it.
const SlotStepMinutes = 30

// Window is one weekday's open interval for a doctor.
type Window struct {
	Available bool
	Start     ClockTime
	End       ClockTime
}

// Weekly maps each weekday to its window. A valid Weekly carries all seven
// days; closed days have Available=false.
type Weekly map[time.Weekday]Window

// WindowFor resolves the window for a date's weekday. The second return is
// false when the day is missing or marked unavailable; callers treat both
// as "closed" uniformly.
func (w Weekly) WindowFor(date time.Time) (Window, bool) {
	win, ok := w[date.Weekday()]
	if !ok || !win.Available {
		return Window{}, false
	}
	return win, true
}

// Slots expands a window into its bookable times: Start, Start+step, ...
// up to and including End. Start == End yields a single slot. The slice is
// rebuilt on every call.
func Slots(w Window) []ClockTime {
	if !w.Available || w.End < w.Start {
		return nil
	}
	slots := make([]ClockTime, 0, int(w.End-w.Start)/SlotStepMinutes+1)
	for t := w.Start; t <= w.End; t += SlotStepMinutes {
		slots = append(slots, t)
	}
	return slots
}

// Bookable reports whether t is a slot this window offers: inside the
// interval and aligned to the slot step.
func (w Window) Bookable(t ClockTime) bool {
	if !w.Available || t < w.Start || t > w.End {
		return false
	}
	return (t-w.Start)%SlotStepMinutes == 0
}
