package simulation

import "time"

// Clock abstracts wall-clock time so catch-up and save stamps are testable
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock
type RealClock struct{}

// Now returns the current time using the system clock
func (RealClock) Now() time.Time {
	return time.Now()
}
