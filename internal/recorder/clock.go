package recorder

import "time"

// Clock supplies case record timestamps as float seconds since the epoch.
// Injectable so tests and golden comparisons can pin time.
type Clock interface {
	Now() float64
}

// WallClock reads the system clock.
type WallClock struct{}

// Now returns the current time in float seconds since the Unix epoch.
func (WallClock) Now() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}

// FixedClock always returns the same instant. Used for deterministic
// test output.
type FixedClock struct {
	T float64
}

// Now returns the fixed instant.
func (c FixedClock) Now() float64 {
	return c.T
}
