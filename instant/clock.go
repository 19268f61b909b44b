package instant

import "time"

// Clock produces the current Instant.
type Clock interface {
	Now() Instant
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() Instant

func (f ClockFunc) Now() Instant { return f() }

// System reads the wall clock.
var System Clock = ClockFunc(func() Instant { return FromTime(time.Now()) })

// Fixed returns a Clock that always reports i.
func Fixed(i Instant) Clock {
	return ClockFunc(func() Instant { return i })
}

// Skewed returns a Clock that reports c's reading shifted by skew.
func Skewed(c Clock, skew time.Duration) Clock {
	return ClockFunc(func() Instant { return c.Now().Add(skew) })
}
