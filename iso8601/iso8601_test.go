package iso8601_test

import (
	"errors"
	"testing"

	"github.com/ngrash/go-tzcal/calerr"
	"github.com/ngrash/go-tzcal/datefmt"
	"github.com/ngrash/go-tzcal/instant"
	"github.com/ngrash/go-tzcal/iso8601"
	"github.com/ngrash/go-tzcal/zone"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want instant.Instant
	}{
		{"1971-02-03T04:05:06.789Z", 34401906789},
		{"1971-02-03T04:05:06.78Z", 34401906780},
		{"1971-02-03T04:05:06.7Z", 34401906700},
		{"1971-02-03T04:05:06Z", 34401906000},
		{"1971-02-03T04:05Z", 34401900000},
		{"1970-01-01T00:00:00.000Z", 0},
		{"1970-06-30T01:06:40.981Z", 15556000981},
		{"2058-02-20T18:29:11.100Z", 2781455351100},
		{"3001-01-01T08:00:00.000Z", 32535244800000},
		{"2013-02-20T18:29:11.100Z", 1361384951100},

		{"1971-02-03T09:16:06.789+0511", 34401906789},
		{"1971-02-03T09:16:06.78+0511", 34401906780},
		{"1971-02-03T09:16:06.7+0511", 34401906700},
		{"1971-02-03T09:16:06+0511", 34401906000},
		{"1971-02-03T09:16+0511", 34401900000},
		{"1971-02-03T09:16+05:11", 34401900000},
		{"1970-06-29T21:06:40.981-0400", 15556000981},
		{"1970-06-29T21:06:40.981-04:00", 15556000981},
		{"2058-02-20T13:29:11.100-0500", 2781455351100},
		{"3000-12-31T23:59:59Z", 32535215999000},
		{"2038-01-19T03:14:07Z", 2147483647000},
		{"2013-02-20T13:29:11.100-0500", 1361384951100},
		{"2013-02-20T13:29:11.100-0501", 1361385011100},
		{"1969-12-31T23:59:59.999Z", -1},
		{"0000-01-01T00:00Z", -62167219200000},
		{"9999-12-31T23:59:59.999Z", 253402300799999},

		// Leap years.
		{"1972-02-29T00:00:00.000Z", 68169600000},
		{"1976-02-29T00:00:00.000Z", 194400000000},
		{"1980-02-29T00:00:00.000Z", 320630400000},
		{"1984-02-29T00:00:00.000Z", 446860800000},
		{"2000-02-29T00:00:00.000Z", 951782400000},
		{"2400-02-29T00:00:00.000Z", 13574563200000},
	}
	for _, tt := range tests {
		got, err := iso8601.Parse(tt.in)
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	invalid := []string{
		// Invalid decimal
		"1970-01-01T00:00:00.0.0Z",
		"1970-01-01T00:00:.0.000Z",
		"1970-01-01T00:.0:00.000Z",
		"1970-01-01T.0:00:00.000Z",
		"1970-01-.1T00:00:00.000Z",
		"1970-.1-01T00:00:00.000Z",

		// Extra sign characters
		"1970-01-01T00:00:00.+00Z",
		"1970-01-01T00:00:+0.000Z",
		"1970-01-01T00:+0:00.000Z",
		"1970-01-01T+0:00:00.000Z",
		"1970-01-+1T00:00:00.000Z",
		"1970-+1-01T00:00:00.000Z",
		"+970-01-01T00:00:00.000Z",
		"1970-01-01T00:00:00.-00Z",
		"1970-01-01T00:00:-0.000Z",
		"1970-01-01T00:-0:00.000Z",
		"1970-01-01T-0:00:00.000Z",
		"1970-01--1T00:00:00.000Z",
		"1970--1-01T00:00:00.000Z",
		"-970-01-01T00:00:00.000Z",

		// Out of range
		"1970-01-01T00:00:60.000Z",
		"1970-01-01T00:60:00.000Z",
		"1970-01-01T24:00:00.000Z",
		"1970-01-32T00:00:00.000Z",
		"1970-01-00T00:00:00.000Z",
		"1970-13-01T00:00:00.000Z",
		"1970-00-01T00:00:00.000Z",
		"1970-02-29T00:00:00.000Z",
		"1900-02-29T00:00:00.000Z",
		"1970-04-31T00:00:00.000Z",

		// Invalid lengths
		"1970-001-01T00:00:00.000Z",
		"1970-01-001T00:00:00.000Z",
		"1970-01-01T000:00:00.000Z",
		"1970-01-01T00:000:00.000Z",
		"1970-01-01T00:00:000.000Z",
		"1970-1-01T00:00:00.000Z",
		"1970-01-1T00:00:00.000Z",
		"1970-01-01T0:00:00.000Z",
		"1970-01-01T00:0:00.000Z",
		"1970-01-01T00:00:0.000Z",
		"1970-01-01T00:00:00.0000Z",
		"19700-01-01T00:00:00.000Z",

		// Invalid delimiters
		"1970+01-01T00:00:00.000Z",
		"1970-01+01T00:00:00.000Z",
		"1970-01-01Q00:00:00.000Z",
		"1970-01-01T00-00:00.000Z",
		"1970-01-01T00:00-00.000Z",
		"1970-01-01T00:00:00-000Z",

		// Missing numbers
		"1970--01T00:00:00.000Z",
		"1970-01-T00:00:00.000Z",
		"1970-01-01T:00:00.000Z",
		"1970-01-01T00::00.000Z",
		"1970-01-01T00:00:.000Z",
		"1970-01-01T00:00:00.Z",

		// Bad time offset field
		"1970-01-01T05:00:01ZZ",
		"1970-01-01T05:00:01+",
		"1970-01-01T05:00:01-",
		"1970-01-01T05:00:01-11111",
		"1970-01-01T05:00:01+1160",
		"1970-01-01T05:00:01+00+0",
		"1970-01-01T05:00:01+2400",
		"1970-01-01T05:00:01+1",
		"1970-01-01T05:00:01+01:0",
		"1970-01-01T05:00:01Z ",

		// Bad prefixes
		"1970-01-01T05:00:",
		"1970-01-01T05:",
		"1970-01-",
		"1970-",
		"1970-01-01T05+0500",
		"1970-01-01T01Z",

		// No local time
		"1970-01-01T00:00:00.000",
		"1970-01-01T00:00:00",
		"1970-01-01T00:00",
		"1970-01-01T00",
		"1970-01-01",
		"1970-01",
		"1970",
		"",

		// Invalid hex base specifiers
		"x970-01-01T00:00:00.000Z",
		"1970-x1-01T00:00:00.000Z",
		"1970-01-x1T00:00:00.000Z",
		"1970-01-01Tx0:00:00.000Z",
		"1970-01-01T00:x0:00.000Z",
		"1970-01-01T00:00:x0.000Z",
		"1970-01-01T00:00:00.x00Z",
		"1970-01-01T00:00:00.000Z+0x00",
	}
	for _, in := range invalid {
		got, err := iso8601.Parse(in)
		if !errors.Is(err, calerr.BadValue) {
			t.Errorf("Parse(%q) = %d, %v, want a BadValue error", in, got, err)
		}
	}
}

func TestParse_ErrorMessages(t *testing.T) {
	tests := []struct {
		in   string
		kind calerr.Kind
		want string
	}{
		{
			"1970-01-01T00:00:00.000",
			calerr.BadValue,
			"BadValue: Not local time",
		},
		{
			"1970-01-01",
			calerr.BadValue,
			"BadValue: Not local time",
		},
		{
			"1970-01-01Q00:00:00.000Z",
			calerr.BadValue,
			"BadValue: Error parsing date string '1970-01-01Q00:00:00.000Z'; 10: Unexpected character 'Q'",
		},
		{
			"1970-01-01T05:00:01+",
			calerr.BadValue,
			"BadValue: Error parsing date string '1970-01-01T05:00:01+'; 20: Unexpected end of input ''",
		},
		{
			"1970-01-01T24:00:00.000Z",
			calerr.BadValue,
			"BadValue: Error parsing date string '1970-01-01T24:00:00.000Z'; 11: The parsed date was invalid '2'",
		},
		{
			"1970-01-01T05:00:01ZZ",
			calerr.TimeZoneIdentifierNotAllowed,
			"TimeZoneIdentifierNotAllowed: Error parsing date string '1970-01-01T05:00:01ZZ'; 19: passing a time zone identifier as part of the string is not allowed 'Z'",
		},
		{
			"2017-06-06T10:00:00America/New_York",
			calerr.TimeZoneIdentifierNotAllowed,
			"TimeZoneIdentifierNotAllowed: Error parsing date string '2017-06-06T10:00:00America/New_York'; 19: passing a time zone identifier as part of the string is not allowed 'A'",
		},
	}
	for _, tt := range tests {
		_, err := iso8601.Parse(tt.in)
		if err == nil {
			t.Errorf("Parse(%q) succeeded, want error", tt.in)
			continue
		}
		if got := calerr.KindOf(err); got != tt.kind {
			t.Errorf("Parse(%q) kind = %v, want %v", tt.in, got, tt.kind)
		}
		if err.Error() != tt.want {
			t.Errorf("Parse(%q) error =\n%s\nwant\n%s", tt.in, err, tt.want)
		}
	}
}

func TestParse_IdentifierIsBadValue(t *testing.T) {
	_, err := iso8601.Parse("2017-06-06T10:00:00EST")
	if !errors.Is(err, calerr.TimeZoneIdentifierNotAllowed) {
		t.Errorf("Parse error = %v, want TimeZoneIdentifierNotAllowed", err)
	}
	if !errors.Is(err, calerr.BadValue) {
		t.Errorf("Parse error = %v, want it to match BadValue", err)
	}
}

// Every formattable instant survives a trip through its ISO string.
func TestParse_RoundTrip(t *testing.T) {
	fixed := zone.Fixed("+05:30", 5*zone.Hour+30*zone.Minute)
	const step = 86400000*37 + 3600000*5 + 60000*7 + 1000*11 + 13
	for i := instant.Wide.Min; i < instant.Wide.Max; i += step {
		for _, s := range []string{datefmt.ISOStringUTC(i), datefmt.ISOStringLocal(i, fixed)} {
			got, err := iso8601.Parse(s)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", s, err)
			}
			if got != i {
				t.Fatalf("Parse(%q) = %d, want %d", s, got, i)
			}
		}
	}
}
