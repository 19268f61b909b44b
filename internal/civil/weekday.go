package civil

// LastWeekdayOfMonth returns the day of month of the last weekday
// (0=Sunday) in the given month.
func LastWeekdayOfMonth(year, month, weekday int) int {
	lastDay := DaysInMonth(year, month)
	lastDayWeekday := Weekday(FromDate(year, month, lastDay))

	// Days to step back from the last day to reach weekday.
	offset := (lastDayWeekday - weekday + 7) % 7
	return lastDay - offset
}

// NextWeekday returns the first occurrence of weekday (0=Sunday) on or after
// the given day, carrying into the next month or year when needed.
func NextWeekday(year, month, day, weekday int) (int, int, int) {
	diff := weekday - Weekday(FromDate(year, month, day))
	if diff < 0 {
		diff += 7
	}

	next := day + diff
	if n := DaysInMonth(year, month); next > n {
		next -= n
		month++
		if month > 12 {
			month = 1
			year++
		}
	}
	return year, month, next
}

// NthWeekdayOfMonth returns the day of month of the n-th weekday (0=Sunday)
// in the given month. n is 1-5; 5 means the last such weekday.
func NthWeekdayOfMonth(year, month, n, weekday int) int {
	if n >= 5 {
		return LastWeekdayOfMonth(year, month, weekday)
	}
	_, _, d := NextWeekday(year, month, 1+7*(n-1), weekday)
	return d
}
