// Package datefmt renders calendar fields through %-directive format strings.
//
// The recognized directives are:
//
//	%Y  year, 4 digits (0000-9999)
//	%m  month, 2 digits
//	%d  day of month, 2 digits
//	%H  hour, 2 digits
//	%M  minute, 2 digits
//	%S  second, 2 digits
//	%L  millisecond, 3 digits
//	%j  day of year, 3 digits
//	%w  day of week, 1 digit (1=Sunday)
//	%U  week of year, 2 digits (Sunday based)
//	%G  ISO week-numbering year, 4 digits
//	%V  ISO week, 2 digits
//	%u  ISO day of week, 1 digit (1=Monday)
//	%%  a literal '%'
//
// Everything else is copied through unchanged.
package datefmt

import (
	"io"
	"strconv"

	"github.com/ngrash/go-tzcal/calendar"
	"github.com/ngrash/go-tzcal/calerr"
	"github.com/ngrash/go-tzcal/instant"
	"github.com/ngrash/go-tzcal/zone"
)

// Format is a validated format string.
type Format struct {
	src string
	// layout enables the directives only built-in layouts may use:
	// %a (weekday name), %b (month name), %e (space padded day) and
	// %z (offset as +HHMM).
	layout bool
}

// Parse validates s and returns it as a Format.
func Parse(s string) (Format, error) {
	if err := validate(s, false); err != nil {
		return Format{}, err
	}
	return Format{src: s}, nil
}

// MustParse is like Parse but panics if s is invalid.
func MustParse(s string) Format {
	f, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return f
}

// ValidateFormat reports whether s is a valid format string. It fails with
// calerr.UnmatchedPercent for a trailing '%' and calerr.BadFormatSpecifier
// for a '%' followed by an unrecognized character.
func ValidateFormat(s string) error {
	return validate(s, false)
}

func validate(s string, layout bool) error {
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			continue
		}
		i++
		if i == len(s) {
			return calerr.New(calerr.UnmatchedPercent, "unmatched '%%' at end of format string")
		}
		if !known(s[i], layout) {
			return calerr.New(calerr.BadFormatSpecifier, "invalid format character '%%%c' in format string", s[i])
		}
	}
	return nil
}

func known(c byte, layout bool) bool {
	switch c {
	case 'Y', 'm', 'd', 'H', 'M', 'S', 'L', 'j', 'w', 'U', 'G', 'V', 'u', '%':
		return true
	case 'a', 'b', 'e', 'z':
		return layout
	}
	return false
}

func (f Format) String() string { return f.src }

// AppendFields appends the rendering of fields to b. On error b is returned
// unchanged.
func (f Format) AppendFields(b []byte, fields calendar.Fields) ([]byte, error) {
	if err := f.checkYears(fields); err != nil {
		return b, err
	}
	return f.appendFields(b, fields), nil
}

// Fields renders fields.
func (f Format) Fields(fields calendar.Fields) (string, error) {
	b, err := f.AppendFields(make([]byte, 0, len(f.src)+16), fields)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Instant renders i as observed in z.
func (f Format) Instant(i instant.Instant, z zone.Zone) (string, error) {
	return f.Fields(calendar.Decompose(i, z))
}

// Write renders at as observed in z directly to w. Nothing is written when
// a year is out of range.
func (f Format) Write(w io.Writer, at instant.Instant, z zone.Zone) error {
	fields := calendar.Decompose(at, z)
	if err := f.checkYears(fields); err != nil {
		return err
	}
	var (
		scratch [8]byte
		s       = f.src
		start   int
	)
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			continue
		}
		if start < i {
			if _, err := io.WriteString(w, s[start:i]); err != nil {
				return err
			}
		}
		i++
		if _, err := w.Write(appendDirective(scratch[:0], s[i], fields)); err != nil {
			return err
		}
		start = i + 1
	}
	if start < len(s) {
		_, err := io.WriteString(w, s[start:])
		return err
	}
	return nil
}

// checkYears rejects fields whose year cannot be rendered when the format
// prints it.
func (f Format) checkYears(fields calendar.Fields) error {
	s := f.src
	for i := 0; i+1 < len(s); i++ {
		if s[i] != '%' {
			continue
		}
		i++
		var err error
		switch s[i] {
		case 'Y':
			err = checkYear(fields.Year)
		case 'G':
			err = checkYear(fields.ISOYear)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func checkYear(year int) error {
	const msg = "could not convert date to string: date component was outside the supported range of 0-9999: %d"
	switch {
	case year < 0:
		return calerr.New(calerr.DateBeforeYear0, msg, year)
	case year > 9999:
		return calerr.New(calerr.DateAfterYear9999, msg, year)
	}
	return nil
}

func (f Format) appendFields(b []byte, fields calendar.Fields) []byte {
	s := f.src
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			b = append(b, s[i])
			continue
		}
		i++
		b = appendDirective(b, s[i], fields)
	}
	return b
}

var (
	dayNames   = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	monthNames = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
)

func appendDirective(b []byte, c byte, f calendar.Fields) []byte {
	switch c {
	case 'Y':
		return appendPadded(b, f.Year, 4)
	case 'm':
		return appendPadded(b, f.Month, 2)
	case 'd':
		return appendPadded(b, f.Day, 2)
	case 'H':
		return appendPadded(b, f.Hour, 2)
	case 'M':
		return appendPadded(b, f.Minute, 2)
	case 'S':
		return appendPadded(b, f.Second, 2)
	case 'L':
		return appendPadded(b, f.Millisecond, 3)
	case 'j':
		return appendPadded(b, f.DayOfYear, 3)
	case 'w':
		return appendPadded(b, f.DayOfWeek, 1)
	case 'U':
		return appendPadded(b, f.Week, 2)
	case 'G':
		return appendPadded(b, f.ISOYear, 4)
	case 'V':
		return appendPadded(b, f.ISOWeek, 2)
	case 'u':
		return appendPadded(b, f.ISODayOfWeek, 1)
	case '%':
		return append(b, '%')
	case 'a':
		return append(b, dayNames[f.DayOfWeek-1]...)
	case 'b':
		return append(b, monthNames[f.Month-1]...)
	case 'e':
		if f.Day < 10 {
			b = append(b, ' ')
		}
		return strconv.AppendInt(b, int64(f.Day), 10)
	case 'z':
		return f.Offset.Append(b, false)
	}
	panic("datefmt: unvalidated directive %" + string(c))
}

// appendPadded appends n zero padded to width digits. n is never negative.
func appendPadded(b []byte, n, width int) []byte {
	var buf [20]byte
	d := strconv.AppendInt(buf[:0], int64(n), 10)
	for i := len(d); i < width; i++ {
		b = append(b, '0')
	}
	return append(b, d...)
}

// FormatFields renders fields with the format string s.
func FormatFields(fields calendar.Fields, s string) (string, error) {
	f, err := Parse(s)
	if err != nil {
		return "", err
	}
	return f.Fields(fields)
}

// FormatInstant renders i as observed in z with the format string s.
func FormatInstant(i instant.Instant, z zone.Zone, s string) (string, error) {
	f, err := Parse(s)
	if err != nil {
		return "", err
	}
	return f.Instant(i, z)
}

// Write renders i as observed in z with the format string s directly to w.
func Write(w io.Writer, i instant.Instant, z zone.Zone, s string) error {
	f, err := Parse(s)
	if err != nil {
		return err
	}
	return f.Write(w, i, z)
}
