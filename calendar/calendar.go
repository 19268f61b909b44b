// Package calendar splits instants into proleptic Gregorian calendar fields
// in a zone, and builds instants back from calendar or ISO week parts.
package calendar

import (
	"github.com/ngrash/go-tzcal/instant"
	"github.com/ngrash/go-tzcal/internal/civil"
	"github.com/ngrash/go-tzcal/zone"
)

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour
)

// Fields are the calendar fields of an instant as observed in a zone.
// All fields describe the local date and time.
type Fields struct {
	Year        int // may be zero or negative for very early instants
	Month       int // 1-12
	Day         int // 1-31
	Hour        int
	Minute      int
	Second      int // never 60
	Millisecond int

	DayOfWeek    int // 1=Sunday ... 7=Saturday
	ISODayOfWeek int // 1=Monday ... 7=Sunday
	DayOfYear    int // 1-366

	// Week counts Sundays: days before the year's first Sunday are in
	// week 0.
	Week int
	// ISOWeek is the ISO 8601 week of ISOYear, which differs from Year for
	// some dates around New Year.
	ISOWeek int
	ISOYear int

	// Offset is the UTC offset that was applied.
	Offset zone.Offset
}

// Decompose returns the fields of i in z. The offset is the one z observes
// at i.
func Decompose(i instant.Instant, z zone.Zone) Fields {
	return decompose(i.Millis(), z.OffsetAt(i))
}

// DecomposeOffset returns the fields of i at the fixed offset off.
func DecomposeOffset(i instant.Instant, off zone.Offset) Fields {
	return decompose(i.Millis(), off)
}

func decompose(ms int64, off zone.Offset) Fields {
	// Split before applying the offset so instants near the ends of the
	// int64 range do not overflow.
	days := civil.FloorDiv(ms, msPerDay)
	tod := civil.FloorMod(ms, msPerDay) + off.Millis()
	days += civil.FloorDiv(tod, msPerDay)
	tod = civil.FloorMod(tod, msPerDay)

	f := Fields{Offset: off}
	var yday int
	f.Year, f.Month, f.Day, yday = civil.ToDate(days)

	f.Hour = int(tod / msPerHour)
	f.Minute = int(tod / msPerMinute % 60)
	f.Second = int(tod / msPerSecond % 60)
	f.Millisecond = int(tod % msPerSecond)

	wday := civil.Weekday(days)
	f.DayOfWeek = wday + 1
	f.ISODayOfWeek = wday
	if wday == 0 {
		f.ISODayOfWeek = 7
	}
	f.DayOfYear = yday + 1
	f.Week = (yday + 7 - wday) / 7
	f.ISOYear, f.ISOWeek = civil.ISOWeek(f.Year, yday, wday)
	return f
}
