// Package zone resolves zone specifiers ("UTC", "America/New_York",
// "+05:30", ...) into Zone handles that report the UTC offset in effect at
// any instant.
package zone

import (
	"strconv"

	"github.com/ngrash/go-tzcal/instant"
)

// Offset is a UTC offset in seconds east of Greenwich. Historical local mean
// time offsets are not whole minutes, so seconds are kept.
type Offset int32

const (
	Minute Offset = 60
	Hour          = 60 * Minute
)

// Seconds returns o in seconds.
func (o Offset) Seconds() int { return int(o) }

// Minutes returns o in whole minutes, truncated toward zero.
func (o Offset) Minutes() int { return int(o) / 60 }

// Millis returns o in milliseconds.
func (o Offset) Millis() int64 { return int64(o) * 1000 }

// Format renders o as ±HHMM, or ±HH:MM when colon is set. Seconds are
// dropped.
func (o Offset) Format(colon bool) string {
	return string(o.Append(nil, colon))
}

// Append appends the ±HHMM (or ±HH:MM) form of o to b.
func (o Offset) Append(b []byte, colon bool) []byte {
	sign := byte('+')
	m := o.Minutes()
	if m < 0 {
		sign = '-'
		m = -m
	}
	b = append(b, sign)
	b = appendInt2(b, m/60)
	if colon {
		b = append(b, ':')
	}
	return appendInt2(b, m%60)
}

func (o Offset) String() string { return o.Format(true) }

func appendInt2(b []byte, n int) []byte {
	if n < 10 {
		b = append(b, '0')
	}
	return strconv.AppendInt(b, int64(n), 10)
}

// Table is a read-only source of UTC offset history for named zones.
// Implementations must be safe for concurrent use.
//
// A Zone resolved in a table keeps asking it for offsets, so once Has has
// accepted a name, OffsetAt must keep answering for it. Tables that change
// must hand out immutable snapshots instead of implementing Table
// themselves.
type Table interface {
	// Has reports whether the table knows the named zone.
	Has(name string) bool
	// OffsetAt returns the offset the named zone observes at the instant.
	OffsetAt(name string, at instant.Instant) Offset
}

// Zone is a resolved zone: either a fixed offset or a view of a named zone
// in a Table. The zero Zone is UTC.
type Zone struct {
	name  string
	fixed Offset
	table Table
}

// UTC is the fixed zone with offset zero.
var UTC = Fixed("UTC", 0)

// Fixed returns a zone that always observes off.
func Fixed(name string, off Offset) Zone {
	return Zone{name: name, fixed: off}
}

// Named returns a view of the zone name in t. It does not check that t
// knows the zone; use a Resolver for that.
func Named(t Table, name string) Zone {
	return Zone{name: name, table: t}
}

// Name returns the zone identifier, or the canonical ±HH:MM form for fixed
// offsets.
func (z Zone) Name() string {
	if z.name == "" {
		return "UTC"
	}
	return z.name
}

// IsFixed reports whether z observes a single offset at all instants.
func (z Zone) IsFixed() bool {
	return z.table == nil
}

// OffsetAt returns the offset z observes at i.
func (z Zone) OffsetAt(i instant.Instant) Offset {
	if z.table == nil {
		return z.fixed
	}
	return z.table.OffsetAt(z.name, i)
}

// LocalToUTC returns the instant at which z's wall clock reads local, given
// as milliseconds since the epoch of the local calendar. Wall times that a
// transition skips or repeats resolve using one of the two adjacent offsets.
func (z Zone) LocalToUTC(local int64) instant.Instant {
	if z.table == nil {
		return instant.Instant(local - z.fixed.Millis())
	}
	guess := local - z.OffsetAt(instant.Instant(local)).Millis()
	return instant.Instant(local - z.OffsetAt(instant.Instant(guess)).Millis())
}

func (z Zone) String() string {
	return z.Name()
}
