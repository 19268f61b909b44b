package datefmt

import (
	"github.com/ngrash/go-tzcal/instant"
	"github.com/ngrash/go-tzcal/zone"
)

func layout(s string) Format {
	if err := validate(s, true); err != nil {
		panic(err)
	}
	return Format{src: s, layout: true}
}

// Built-in layouts.
var (
	ISOUTC      = layout("%Y-%m-%dT%H:%M:%S.%LZ")  // 1970-06-30T01:06:40.981Z
	ISOLocal    = layout("%Y-%m-%dT%H:%M:%S.%L%z") // 1969-12-31T19:00:00.000-0500
	CTime       = layout("%a %b %e %H:%M:%S.%L")   // Sat Aug  5 14:18:11.331
	CTimeShort  = layout("%b %e %H:%M:%S.%L")      // Aug  5 14:18:11.331
	TerseColon  = layout("%Y-%m-%dT%H:%M:%S")      // 1970-06-30T01:06:40
	TerseHyphen = layout("%Y-%m-%dT%H-%M-%S")      // 1970-06-30T01-06-40
)

// Layout is a named built-in layout.
type Layout struct {
	Name   string
	Format Format
	// UTC layouts always render in UTC, whatever zone is asked for.
	UTC bool
}

// Layouts lists the built-in layouts by name.
var Layouts = []Layout{
	{Name: "iso-utc", Format: ISOUTC, UTC: true},
	{Name: "iso-local", Format: ISOLocal},
	{Name: "ctime", Format: CTime},
	{Name: "ctime-short", Format: CTimeShort},
	{Name: "terse-colon", Format: TerseColon, UTC: true},
	{Name: "terse-hyphen", Format: TerseHyphen, UTC: true},
}

// LookupLayout returns the built-in layout called name.
func LookupLayout(name string) (Layout, bool) {
	for _, l := range Layouts {
		if l.Name == name {
			return l, true
		}
	}
	return Layout{}, false
}

// Render renders i with the layout, falling back to Date(<millis>) when i
// lies outside r.
func (l Layout) Render(i instant.Instant, z zone.Zone, r instant.Range) string {
	if l.UTC {
		z = zone.UTC
	}
	return render(l.Format, i, z, r)
}

func render(f Format, i instant.Instant, z zone.Zone, r instant.Range) string {
	if !r.Contains(i) {
		return i.String()
	}
	s, err := f.Instant(i, z)
	if err != nil {
		// Every year inside a Range renders.
		return i.String()
	}
	return s
}

// ISOStringUTC renders i as 1970-06-30T01:06:40.981Z.
func ISOStringUTC(i instant.Instant) string {
	return render(ISOUTC, i, zone.UTC, instant.Wide)
}

// ISOStringLocal renders i in z as 1969-12-31T19:00:00.000-0500.
func ISOStringLocal(i instant.Instant, z zone.Zone) string {
	return render(ISOLocal, i, z, instant.Wide)
}

// CTimeString renders i in z as Sat Aug  5 14:18:11.331.
func CTimeString(i instant.Instant, z zone.Zone) string {
	return render(CTime, i, z, instant.Wide)
}

// String renders i in z like ISOStringLocal when i lies in r, and as
// Date(<millis>) otherwise.
func String(i instant.Instant, z zone.Zone, r instant.Range) string {
	return render(ISOLocal, i, z, r)
}
