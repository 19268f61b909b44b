// Package posixtz parses and evaluates POSIX TZ strings such as
// "EST5EDT,M3.2.0,M11.1.0", the rule carried in the footer of version 2+
// TZif files for instants after the last stored transition.
//
// The TZif version 3 extensions are accepted: transition times may be
// negative or exceed 24 hours.
package posixtz

import (
	"fmt"

	"github.com/ngrash/go-tzcal/internal/civil"
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
)

// Zone is a named offset, in seconds east of UTC.
type Zone struct {
	Name   string
	Offset int
}

type ruleKind int

const (
	ruleJulian       ruleKind = iota // Jn: 1-365, February 29th never counted
	ruleDOY                          // n: 0-365, February 29th counted
	ruleMonthWeekDay                 // Mm.w.d
)

// transition is one of the two yearly changes of a rule.
type transition struct {
	kind  ruleKind
	day   int
	week  int
	month int
	time  int // seconds after local midnight
}

// Rule is a parsed TZ string.
type Rule struct {
	Std    Zone
	DST    Zone
	HasDST bool

	start transition
	end   transition
}

// Parse parses a TZ string. A leading ':' is not supported.
func Parse(s string) (*Rule, error) {
	orig := s
	fail := func(what string) (*Rule, error) {
		return nil, fmt.Errorf("invalid TZ string %q: %s", orig, what)
	}

	var r Rule
	var ok bool
	if r.Std.Name, s, ok = parseName(s); !ok {
		return fail("bad standard time name")
	}
	var off int
	if off, s, ok = parseOffset(s); !ok {
		return fail("bad standard time offset")
	}
	// TZ offsets are added to local time to get UTC, ours are the opposite.
	r.Std.Offset = -off

	if len(s) == 0 {
		return &r, nil
	}

	r.HasDST = true
	if r.DST.Name, s, ok = parseName(s); !ok {
		return fail("bad daylight saving time name")
	}
	if len(s) == 0 || s[0] == ',' {
		r.DST.Offset = r.Std.Offset + secondsPerHour
	} else {
		if off, s, ok = parseOffset(s); !ok {
			return fail("bad daylight saving time offset")
		}
		r.DST.Offset = -off
	}

	if len(s) == 0 {
		// Default DST rules per tzcode.
		s = ",M3.2.0,M11.1.0"
	}
	if s[0] != ',' && s[0] != ';' {
		return fail("expected ',' before rules")
	}
	if r.start, s, ok = parseTransition(s[1:]); !ok || len(s) == 0 || s[0] != ',' {
		return fail("bad start rule")
	}
	if r.end, s, ok = parseTransition(s[1:]); !ok || len(s) > 0 {
		return fail("bad end rule")
	}
	return &r, nil
}

// Lookup returns the zone in effect at sec seconds since the epoch.
func (r *Rule) Lookup(sec int64) Zone {
	if !r.HasDST {
		return r.Std
	}

	days := civil.FloorDiv(sec+int64(r.Std.Offset), secondsPerDay)
	year, _, _, _ := civil.ToDate(days)
	yearStart := civil.FromDate(year, 1, 1) * secondsPerDay

	// The start rule is expressed in standard time, the end rule in
	// daylight saving time.
	start := yearStart + int64(r.start.seconds(year)) - int64(r.Std.Offset)
	end := yearStart + int64(r.end.seconds(year)) - int64(r.DST.Offset)

	var dst bool
	if start < end {
		dst = sec >= start && sec < end
	} else {
		// Southern hemisphere: DST spans the new year.
		dst = sec < end || sec >= start
	}
	if dst {
		return r.DST
	}
	return r.Std
}

// seconds returns the local time of t in year, in seconds after local
// midnight of January 1st.
func (t transition) seconds(year int) int {
	var d int
	switch t.kind {
	case ruleJulian:
		d = t.day - 1
		if civil.IsLeapYear(year) && t.day >= 60 {
			d++
		}
	case ruleDOY:
		d = t.day
	case ruleMonthWeekDay:
		dom := civil.NthWeekdayOfMonth(year, t.month, t.week, t.day)
		d = int(civil.FromDate(year, t.month, dom) - civil.FromDate(year, 1, 1))
	}
	return d*secondsPerDay + t.time
}

// parseName returns the zone name at the start of s: either three or more
// letters, or any text enclosed in angle brackets.
func parseName(s string) (string, string, bool) {
	if len(s) == 0 {
		return "", "", false
	}
	if s[0] == '<' {
		for i := 1; i < len(s); i++ {
			if s[i] == '>' {
				return s[1:i], s[i+1:], true
			}
		}
		return "", "", false
	}
	i := 0
	for i < len(s) && (s[i] >= 'a' && s[i] <= 'z' || s[i] >= 'A' && s[i] <= 'Z') {
		i++
	}
	if i < 3 {
		return "", "", false
	}
	return s[:i], s[i:], true
}

// parseOffset parses [+-]hh[:mm[:ss]] into seconds.
func parseOffset(s string) (int, string, bool) {
	return parseClock(s, 24)
}

// parseClock parses [+-]hh[:mm[:ss]] with hours up to maxHours.
func parseClock(s string, maxHours int) (int, string, bool) {
	if len(s) == 0 {
		return 0, "", false
	}
	neg := false
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		s = s[1:]
		neg = true
	}

	hours, s, ok := parseNum(s, 0, maxHours)
	if !ok {
		return 0, "", false
	}
	off := hours * secondsPerHour
	for _, unit := range []int{secondsPerMinute, 1} {
		if len(s) == 0 || s[0] != ':' {
			break
		}
		var n int
		if n, s, ok = parseNum(s[1:], 0, 59); !ok {
			return 0, "", false
		}
		off += n * unit
	}
	if neg {
		off = -off
	}
	return off, s, true
}

func parseTransition(s string) (transition, string, bool) {
	var t transition
	if len(s) == 0 {
		return t, "", false
	}
	var ok bool
	switch s[0] {
	case 'J':
		t.kind = ruleJulian
		if t.day, s, ok = parseNum(s[1:], 1, 365); !ok {
			return t, "", false
		}
	case 'M':
		t.kind = ruleMonthWeekDay
		if t.month, s, ok = parseNum(s[1:], 1, 12); !ok || len(s) == 0 || s[0] != '.' {
			return t, "", false
		}
		if t.week, s, ok = parseNum(s[1:], 1, 5); !ok || len(s) == 0 || s[0] != '.' {
			return t, "", false
		}
		if t.day, s, ok = parseNum(s[1:], 0, 6); !ok {
			return t, "", false
		}
	default:
		t.kind = ruleDOY
		if t.day, s, ok = parseNum(s, 0, 365); !ok {
			return t, "", false
		}
	}

	t.time = 2 * secondsPerHour
	if len(s) > 0 && s[0] == '/' {
		if t.time, s, ok = parseClock(s[1:], 167); !ok {
			return t, "", false
		}
	}
	return t, s, true
}

// parseNum parses a decimal number in [min, max] at the start of s.
func parseNum(s string, min, max int) (int, string, bool) {
	i, n := 0, 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		n = n*10 + int(s[i]-'0')
		if n > max {
			return 0, "", false
		}
		i++
	}
	if i == 0 || n < min {
		return 0, "", false
	}
	return n, s[i:], true
}
