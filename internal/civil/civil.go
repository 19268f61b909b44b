// Package civil converts between day counts and proleptic Gregorian dates
// with integer arithmetic only. Day counts are days since 1970-01-01 and may
// be negative; years may be zero or negative (astronomical numbering).
//
// The cycle arithmetic follows the Go standard library's time package but
// does not depend on time.Location.
package civil

// The constants mirror time.go in the Go standard library.
const (
	daysPer400Years = 365*400 + 97
	daysPer100Years = 365*100 + 24
	daysPer4Years   = 365*4 + 1

	// absoluteZeroYear starts a 400-year cycle (it is 1 mod 400), so the
	// leap day of each cycle falls in its final year.
	absoluteZeroYear = -292277022399
)

// unixEpochDays is the number of days from the absolute epoch to 1970-01-01.
var unixEpochDays = int64(daysSinceEpoch(1970))

// daysBefore[m] counts the days before month m+1 in a non-leap year.
var daysBefore = [...]int{
	0,
	31,
	31 + 28,
	31 + 28 + 31,
	31 + 28 + 31 + 30,
	31 + 28 + 31 + 30 + 31,
	31 + 28 + 31 + 30 + 31 + 30,
	31 + 28 + 31 + 30 + 31 + 30 + 31,
	31 + 28 + 31 + 30 + 31 + 30 + 31 + 31,
	31 + 28 + 31 + 30 + 31 + 30 + 31 + 31 + 30,
	31 + 28 + 31 + 30 + 31 + 30 + 31 + 31 + 30 + 31,
	31 + 28 + 31 + 30 + 31 + 30 + 31 + 31 + 30 + 31 + 30,
	31 + 28 + 31 + 30 + 31 + 30 + 31 + 31 + 30 + 31 + 30 + 31,
}

// IsLeapYear reports whether year has a February 29th.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the length of month (1-12) in year.
func DaysInMonth(year, month int) int {
	if month == 2 && IsLeapYear(year) {
		return 29
	}
	return daysBefore[month] - daysBefore[month-1]
}

// DaysInYear returns 366 for leap years and 365 otherwise.
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// daysSinceEpoch returns the number of days from the absolute epoch to the
// start of year. This is (year - zeroYear) * 365 accounting for leap days.
func daysSinceEpoch(year int) uint64 {
	y := uint64(int64(year) - absoluteZeroYear)

	// 400-year cycles.
	n := y / 400
	y -= 400 * n
	d := daysPer400Years * n

	// 100-year cycles.
	n = y / 100
	y -= 100 * n
	d += daysPer100Years * n

	// 4-year cycles.
	n = y / 4
	y -= 4 * n
	d += daysPer4Years * n

	// Non-leap years.
	d += 365 * y

	return d
}

// FromDate returns the number of days from 1970-01-01 to the given date.
// day is added linearly, so day 0 is the last day of the previous month and
// days past the end of the month carry into the following months.
func FromDate(year, month, day int) int64 {
	d := int64(daysSinceEpoch(year)) - unixEpochDays
	d += int64(daysBefore[month-1]) + int64(day-1)
	if month > 2 && IsLeapYear(year) {
		d++
	}
	return d
}

// ToDate converts a day count since 1970-01-01 into a calendar date.
// yday is the zero-based day of the year.
func ToDate(days int64) (year, month, day, yday int) {
	d := uint64(days + unixEpochDays)

	// 400-year cycles.
	n := d / daysPer400Years
	y := 400 * n
	d -= daysPer400Years * n

	// 100-year cycles. The last cycle has one extra day, so a quotient
	// of 4 is clamped to 3.
	n = d / daysPer100Years
	n -= n >> 2
	y += 100 * n
	d -= daysPer100Years * n

	// 4-year cycles.
	n = d / daysPer4Years
	y += 4 * n
	d -= daysPer4Years * n

	// Non-leap years, clamping the leap day of a 4-year cycle.
	n = d / 365
	n -= n >> 2
	y += n
	d -= 365 * n

	year = int(int64(y) + absoluteZeroYear)
	yday = int(d)

	day = yday
	if IsLeapYear(year) {
		switch {
		case day > 31+29-1:
			day--
		case day == 31+29-1:
			return year, 2, 29, yday
		}
	}

	month = day / 31
	end := daysBefore[month+1]
	var begin int
	if day >= end {
		month++
		begin = end
	} else {
		begin = daysBefore[month]
	}
	month++
	day = day - begin + 1
	return year, month, day, yday
}

// Weekday returns the day of the week of a day count, 0=Sunday..6=Saturday.
// 1970-01-01 was a Thursday.
func Weekday(days int64) int {
	return int(FloorMod(days+4, 7))
}

// ISOWeek returns the ISO 8601 week-numbering year and week of the date with
// the given zero-based day of year and weekday (0=Sunday).
// Week 1 is the week with the year's first Thursday.
func ISOWeek(year, yday, wday int) (isoYear, week int) {
	isoDow := wday
	if isoDow == 0 {
		isoDow = 7
	}
	week = (yday + 1 - isoDow + 10) / 7
	switch {
	case week < 1:
		return year - 1, ISOWeeksInYear(year - 1)
	case week > ISOWeeksInYear(year):
		return year + 1, 1
	}
	return year, week
}

// ISOWeeksInYear returns 53 for ISO years that start on a Thursday, or on a
// Wednesday in a leap year, and 52 otherwise.
func ISOWeeksInYear(year int) int {
	jan1 := Weekday(FromDate(year, 1, 1))
	if jan1 == 4 || (jan1 == 3 && IsLeapYear(year)) {
		return 53
	}
	return 52
}

// ISOWeekStart returns the day count of the Monday of ISO week 1 of isoYear.
func ISOWeekStart(isoYear int) int64 {
	jan4 := FromDate(isoYear, 1, 4)
	dow := Weekday(jan4)
	if dow == 0 {
		dow = 7
	}
	return jan4 - int64(dow-1)
}

// FloorDiv returns a / b rounded toward negative infinity. b must be > 0.
func FloorDiv(a, b int64) int64 {
	q := a / b
	if a%b < 0 {
		q--
	}
	return q
}

// FloorMod returns a modulo b with the sign of b. b must be > 0.
func FloorMod(a, b int64) int64 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
