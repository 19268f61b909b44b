package zone

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ngrash/go-tzcal/calerr"
	"github.com/ngrash/go-tzcal/instant"
)

// stepTable is a single zone that switches from -5h to -4h at switchAt.
type stepTable struct {
	name     string
	switchAt instant.Instant
}

func (s stepTable) Has(name string) bool { return name == s.name }

func (s stepTable) OffsetAt(_ string, at instant.Instant) Offset {
	if at < s.switchAt {
		return -5 * Hour
	}
	return -4 * Hour
}

func TestOffset_Format(t *testing.T) {
	tests := []struct {
		off   Offset
		colon bool
		want  string
	}{
		{0, false, "+0000"},
		{0, true, "+00:00"},
		{-4 * Hour, false, "-0400"},
		{5*Hour + 30*Minute, true, "+05:30"},
		{-(3*Hour + 20*Minute), false, "-0320"},
		{-17762, false, "-0456"}, // LMT, seconds dropped
		{14 * Hour, true, "+14:00"},
	}
	for _, tt := range tests {
		if got := tt.off.Format(tt.colon); got != tt.want {
			t.Errorf("Offset(%d).Format(%t) = %q, want %q", tt.off, tt.colon, got, tt.want)
		}
	}
}

func TestParseOffset(t *testing.T) {
	tests := []struct {
		in      string
		minutes int
	}{
		{"+02", 120},
		{"-00", 0},
		{"+00", 0},
		{"+0245", 165},
		{"-0245", -165},
		{"+12:00", 720},
		{"-11:00", -660},
		{"+09:27", 567},
		{"-00:37", -37},
		{"+23:59", 23*60 + 59},
	}
	for _, tt := range tests {
		got, err := ParseOffset(tt.in)
		if err != nil {
			t.Errorf("ParseOffset(%q) failed: %v", tt.in, err)
			continue
		}
		if got.Minutes() != tt.minutes {
			t.Errorf("ParseOffset(%q) = %d minutes, want %d", tt.in, got.Minutes(), tt.minutes)
		}
	}
}

func TestParseOffset_Invalid(t *testing.T) {
	for _, in := range []string{
		"",
		"+",
		"+1",
		"+123",
		"+12345",
		"+24",
		"+2400",
		"+12:60",
		"+1260",
		"+12-00",
		"+12:0",
		"12:00",
		"*12:00",
		"+1a",
		"+ 1:00",
		"-12:00:00",
	} {
		_, err := ParseOffset(in)
		if err == nil {
			t.Errorf("ParseOffset(%q) = nil error, want error", in)
			continue
		}
		if !errors.Is(err, calerr.UnknownZone) {
			t.Errorf("ParseOffset(%q) error = %v, want kind UnknownZone", in, err)
		}
	}
}

func TestResolver_Resolve(t *testing.T) {
	table := stepTable{name: "America/New_York", switchAt: 1000}
	r := NewResolver(table, WithLocal(Fixed("+01:00", Hour)))

	tests := []struct {
		spec      string
		wantName  string
		wantFixed bool
		at        instant.Instant
		wantOff   Offset
	}{
		{"", "UTC", true, 0, 0},
		{"UTC", "UTC", true, 0, 0},
		{"local", "+01:00", true, 0, Hour},
		{"+0530", "+05:30", true, 0, 5*Hour + 30*Minute},
		{"-03", "-03:00", true, 0, -3 * Hour},
		{"America/New_York", "America/New_York", false, 0, -5 * Hour},
		{"America/New_York", "America/New_York", false, 1000, -4 * Hour},
	}
	for _, tt := range tests {
		z, err := r.Resolve(tt.spec)
		if err != nil {
			t.Errorf("Resolve(%q) failed: %v", tt.spec, err)
			continue
		}
		got := struct {
			Name  string
			Fixed bool
			Off   Offset
		}{z.Name(), z.IsFixed(), z.OffsetAt(tt.at)}
		want := struct {
			Name  string
			Fixed bool
			Off   Offset
		}{tt.wantName, tt.wantFixed, tt.wantOff}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Resolve(%q) mismatch (-want +got):\n%s", tt.spec, diff)
		}
	}
}

func TestResolver_Unknown(t *testing.T) {
	for _, r := range []*Resolver{
		NewResolver(nil),
		NewResolver(stepTable{name: "Europe/Berlin"}),
	} {
		for _, spec := range []string{"Mars/Olympus_Mons", "utc", "+25:00", "America/New_York"} {
			_, err := r.Resolve(spec)
			if !errors.Is(err, calerr.UnknownZone) {
				t.Errorf("Resolve(%q) error = %v, want kind UnknownZone", spec, err)
			}
		}
	}
}

func TestResolver_DefaultLocalIsUTC(t *testing.T) {
	z, err := NewResolver(nil).Resolve("local")
	if err != nil {
		t.Fatal(err)
	}
	if z.Name() != "UTC" || z.OffsetAt(0) != 0 {
		t.Errorf("Resolve(local) = %v (%v), want UTC", z, z.OffsetAt(0))
	}
}

func TestZone_LocalToUTC(t *testing.T) {
	const hourMs = int64(3600 * 1000)
	z := Named(stepTable{name: "X", switchAt: instant.Instant(10 * hourMs)}, "X")

	tests := []struct {
		local int64
		want  instant.Instant
	}{
		// Well before the switch: local = utc - 5h.
		{0, instant.Instant(5 * hourMs)},
		// Well after the switch: local = utc - 4h.
		{20 * hourMs, instant.Instant(24 * hourMs)},
	}
	for _, tt := range tests {
		if got := z.LocalToUTC(tt.local); got != tt.want {
			t.Errorf("LocalToUTC(%d) = %d, want %d", tt.local, got, tt.want)
		}
	}

	fixed := Fixed("-03:20", -(3*Hour + 20*Minute))
	if got, want := fixed.LocalToUTC(0), instant.Instant(12000000); got != want {
		t.Errorf("fixed LocalToUTC(0) = %d, want %d", got, want)
	}
}

func TestZeroZoneIsUTC(t *testing.T) {
	var z Zone
	if z.Name() != "UTC" || !z.IsFixed() || z.OffsetAt(12345) != 0 {
		t.Errorf("zero Zone = %v, want UTC", z)
	}
}
