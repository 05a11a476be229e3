package clock

import "time"

// Clock abstracts wall-clock time so usecases can be tested with a fixed "now".
type Clock interface {
	Now() time.Time
}

// System is the real clock used in production wiring.
type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

// Fixed always reports the same instant. Intended for tests.
type Fixed struct {
	Time time.Time
}

func (f Fixed) Now() time.Time {
	return f.Time
}
