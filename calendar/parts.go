package calendar

import (
	"math"

	"github.com/ngrash/go-tzcal/calerr"
	"github.com/ngrash/go-tzcal/instant"
	"github.com/ngrash/go-tzcal/internal/civil"
	"github.com/ngrash/go-tzcal/zone"
)

const (
	minYear = 0
	maxYear = 9999
)

// Parts are calendar date and time parts. Fields beyond their natural range
// carry into the next larger unit: month 13 is January of the next year,
// month 0 is December of the previous year, day 0 is the last day of the
// previous month and hour -1 is 23:00 of the previous day. Use Date to get
// the first day of a year.
type Parts struct {
	Year        int
	Month       int
	Day         int
	Hour        int
	Minute      int
	Second      int
	Millisecond int
}

// Date returns Parts for midnight of the given date.
//
//	calendar.Date(2017, 1, 1)
func Date(year, month, day int) Parts {
	return Parts{Year: year, Month: month, Day: day}
}

// ISOParts are ISO 8601 week date parts. Week and DayOfWeek carry like the
// fields of Parts, so week 0 is the last week of the previous ISO year.
type ISOParts struct {
	WeekYear    int
	Week        int
	DayOfWeek   int // 1=Monday ... 7=Sunday
	Hour        int
	Minute      int
	Second      int
	Millisecond int
}

// FromParts returns the instant at which the wall clock of z shows p.
// Year must be within 0-9999.
func FromParts(p Parts, z zone.Zone) (instant.Instant, error) {
	if err := checkYear("year", p.Year); err != nil {
		return 0, err
	}

	// Normalise the month so the date arithmetic only sees 1-12.
	m0 := int64(p.Month) - 1
	year := int64(p.Year) + civil.FloorDiv(m0, 12)
	month := int(civil.FloorMod(m0, 12)) + 1
	if year < math.MinInt32 || year > math.MaxInt32 {
		return 0, overflow()
	}
	days := civil.FromDate(int(year), month, 1)
	return fromDays(days, int64(p.Day)-1, p.Hour, p.Minute, p.Second, p.Millisecond, z)
}

// FromISOParts returns the instant at which the wall clock of z shows the
// ISO week date p. WeekYear must be within 0-9999.
func FromISOParts(p ISOParts, z zone.Zone) (instant.Instant, error) {
	if err := checkYear("ISO week year", p.WeekYear); err != nil {
		return 0, err
	}
	extra, ok := mulAdd(int64(p.Week)-1, 7, int64(p.DayOfWeek)-1)
	if !ok {
		return 0, overflow()
	}
	return fromDays(civil.ISOWeekStart(p.WeekYear), extra, p.Hour, p.Minute, p.Second, p.Millisecond, z)
}

// fromDays adds the remaining parts to a day count and resolves the local
// time in z.
func fromDays(days, extraDays int64, hour, minute, second, ms int, z zone.Zone) (instant.Instant, error) {
	var (
		local int64
		ok    = true
	)
	step := func(n, unit int64) {
		if ok {
			local, ok = mulAdd(n, unit, local)
		}
	}
	step(days, msPerDay)
	step(extraDays, msPerDay)
	step(int64(hour), msPerHour)
	step(int64(minute), msPerMinute)
	step(int64(second), msPerSecond)
	step(int64(ms), 1)
	if !ok {
		return 0, overflow()
	}
	return z.LocalToUTC(local), nil
}

// mulAdd returns a*b + c and whether it fits in an int64. b must be > 0.
func mulAdd(a, b, c int64) (int64, bool) {
	if a > math.MaxInt64/b || a < math.MinInt64/b {
		return 0, false
	}
	p := a * b
	s := p + c
	if (c > 0 && s < p) || (c < 0 && s > p) {
		return 0, false
	}
	return s, true
}

func checkYear(name string, year int) error {
	if year < minYear || year > maxYear {
		return calerr.New(calerr.BadValue, "%s must be in the range %d to %d, found %d", name, minYear, maxYear, year)
	}
	return nil
}

func overflow() error {
	return calerr.New(calerr.BadValue, "date parts overflow the representable range")
}
