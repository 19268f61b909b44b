// Package instant defines Instant, an absolute point in time counted in
// milliseconds since 1970-01-01T00:00:00Z, and the Clock capability that
// produces the current one.
package instant

import (
	"strconv"
	"time"
)

// Instant is a signed count of milliseconds since the Unix epoch.
type Instant int64

// FromMillis returns the Instant ms milliseconds after the epoch.
func FromMillis(ms int64) Instant {
	return Instant(ms)
}

// FromTime returns the Instant of t, truncated to milliseconds.
func FromTime(t time.Time) Instant {
	return Instant(t.UnixMilli())
}

// Millis returns the number of milliseconds since the epoch.
func (i Instant) Millis() int64 {
	return int64(i)
}

// Time returns i as a UTC time.Time.
func (i Instant) Time() time.Time {
	return time.UnixMilli(int64(i)).UTC()
}

// Add returns i shifted by d, truncated to milliseconds.
func (i Instant) Add(d time.Duration) Instant {
	return i + Instant(d/time.Millisecond)
}

func (i Instant) String() string {
	return "Date(" + strconv.FormatInt(int64(i), 10) + ")"
}

// Range is a half-open interval [Min, Max) of formattable instants.
type Range struct {
	Min Instant
	Max Instant
}

var (
	// Wide covers 1902-01-01 up to 3000-12-31T23:59:59Z exclusive, the
	// range of a 64-bit time_t platform.
	Wide = Range{Min: -2145916800000, Max: 32535215999000}
	// Narrow covers 1902-01-01 up to 2038-01-19T03:14:07Z exclusive, the
	// range of a 32-bit time_t platform.
	Narrow = Range{Min: -2145916800000, Max: 2147483647000}
)

// Contains reports whether i lies in r.
func (r Range) Contains(i Instant) bool {
	return i >= r.Min && i < r.Max
}

// IsFormattable reports whether i can be rendered as a calendar string
// on a 64-bit time_t platform.
func (i Instant) IsFormattable() bool {
	return Wide.Contains(i)
}
