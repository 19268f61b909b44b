package zone

import (
	"github.com/ngrash/go-tzcal/calerr"
)

// Resolver turns zone specifiers into Zones. It holds no mutable state and
// is safe for concurrent use.
type Resolver struct {
	table Table
	local Zone
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLocal sets the zone "local" resolves to. The default is UTC.
func WithLocal(z Zone) Option {
	return func(r *Resolver) { r.local = z }
}

// NewResolver returns a Resolver looking named zones up in table, which may
// be nil when only fixed offsets are needed.
func NewResolver(table Table, opts ...Option) *Resolver {
	r := &Resolver{table: table, local: UTC}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve parses spec:
//
//   - "" and "UTC" yield UTC.
//   - "local" yields the resolver's local zone.
//   - "+HH", "+HHMM" and "+HH:MM" (or with '-') yield a fixed offset.
//   - Anything else is looked up in the table.
//
// Failures are reported as calerr.UnknownZone.
func (r *Resolver) Resolve(spec string) (Zone, error) {
	switch spec {
	case "", "UTC":
		return UTC, nil
	case "local":
		return r.local, nil
	}
	if spec[0] == '+' || spec[0] == '-' {
		off, err := ParseOffset(spec)
		if err != nil {
			return Zone{}, err
		}
		return Fixed(off.Format(true), off), nil
	}
	if r.table == nil || !r.table.Has(spec) {
		return Zone{}, unknown(spec)
	}
	return Named(r.table, spec), nil
}

// ParseOffset parses a fixed UTC offset: a sign followed by HH, HHMM or
// HH:MM, with hours 00-23 and minutes 00-59.
func ParseOffset(s string) (Offset, error) {
	var hh, mm string
	switch {
	case len(s) == 3:
		hh = s[1:3]
	case len(s) == 5:
		hh, mm = s[1:3], s[3:5]
	case len(s) == 6 && s[3] == ':':
		hh, mm = s[1:3], s[4:6]
	default:
		return 0, unknown(s)
	}
	if s[0] != '+' && s[0] != '-' {
		return 0, unknown(s)
	}
	h, ok := twoDigits(hh)
	if !ok || h > 23 {
		return 0, unknown(s)
	}
	var m int
	if mm != "" {
		if m, ok = twoDigits(mm); !ok || m > 59 {
			return 0, unknown(s)
		}
	}
	off := Offset(h)*Hour + Offset(m)*Minute
	if s[0] == '-' {
		off = -off
	}
	return off, nil
}

func twoDigits(s string) (int, bool) {
	if len(s) != 2 || s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}

func unknown(spec string) error {
	return calerr.New(calerr.UnknownZone, "unrecognized time zone identifier: %q", spec)
}
