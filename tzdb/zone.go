package tzdb

import (
	"fmt"
	"sort"

	"github.com/ngrash/go-tzcal/instant"
	"github.com/ngrash/go-tzcal/internal/civil"
	"github.com/ngrash/go-tzcal/internal/posixtz"
	"github.com/ngrash/go-tzcal/tzif"
	"github.com/ngrash/go-tzcal/zone"
)

// Period is the local time observed between two transitions.
type Period struct {
	Offset zone.Offset
	Abbrev string
	DST    bool
}

// Transition is a change to Period at At, in seconds since the epoch.
type Transition struct {
	At int64
	Period
}

// Zone is the offset history of one named zone, decoded from a TZif file.
// A Zone is immutable.
type Zone struct {
	name string
	raw  []byte

	times   []int64
	idx     []uint8
	periods []Period
	rule    *posixtz.Rule
	tz      string
	version tzif.Version
}

// NewZone decodes data as a TZif file for the zone called name.
func NewZone(name string, data []byte) (*Zone, error) {
	f, err := tzif.DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	block := f.Block()
	if len(block.LocalTimeTypes) == 0 {
		return nil, fmt.Errorf("decode %s: no local time types", name)
	}

	z := &Zone{
		name:    name,
		raw:     data,
		times:   block.TransitionTimes,
		idx:     block.TransitionTypes,
		version: f.Version,
	}
	z.periods = make([]Period, len(block.LocalTimeTypes))
	for i, lt := range block.LocalTimeTypes {
		z.periods[i] = Period{
			Offset: zone.Offset(lt.Utoff),
			Abbrev: block.Designation(lt.Idx),
			DST:    lt.Dst,
		}
	}
	if tz := f.Footer.TZString; tz != "" {
		z.tz = tz
		z.rule, err = posixtz.Parse(tz)
		if err != nil {
			return nil, fmt.Errorf("decode %s: footer: %w", name, err)
		}
	}
	return z, nil
}

// Name returns the zone identifier, e.g. "America/New_York".
func (z *Zone) Name() string { return z.name }

// Raw returns the TZif file the zone was decoded from.
func (z *Zone) Raw() []byte { return z.raw }

// Version returns the TZif version of the source file.
func (z *Zone) Version() tzif.Version { return z.version }

// Rule returns the POSIX TZ string governing instants after the last
// transition, or "" when the file carries none.
func (z *Zone) Rule() string { return z.tz }

// Transitions returns the stored transitions in ascending order.
func (z *Zone) Transitions() []Transition {
	out := make([]Transition, len(z.times))
	for i, at := range z.times {
		out[i] = Transition{At: at, Period: z.periods[z.idx[i]]}
	}
	return out
}

// Lookup returns the period in effect at sec seconds since the epoch.
//
// Before the first transition the first local time type applies. From the
// last transition on, the footer rule applies when present.
func (z *Zone) Lookup(sec int64) Period {
	n := len(z.times)
	if z.rule != nil && (n == 0 || sec >= z.times[n-1]) {
		p := z.rule.Lookup(sec)
		return Period{
			Offset: zone.Offset(p.Offset),
			Abbrev: p.Name,
			DST:    z.rule.HasDST && p == z.rule.DST,
		}
	}
	if n == 0 || sec < z.times[0] {
		return z.periods[0]
	}
	i := sort.Search(n, func(i int) bool { return z.times[i] > sec })
	return z.periods[z.idx[i-1]]
}

// OffsetAt returns the UTC offset in effect at i.
func (z *Zone) OffsetAt(i instant.Instant) zone.Offset {
	return z.Lookup(civil.FloorDiv(i.Millis(), 1000)).Offset
}
