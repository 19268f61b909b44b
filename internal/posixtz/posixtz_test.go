package posixtz

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Rule
	}{
		{
			in:   "UTC0",
			want: Rule{Std: Zone{"UTC", 0}},
		},
		{
			in:   "JST-9",
			want: Rule{Std: Zone{"JST", 9 * 3600}},
		},
		{
			in:   "<+0330>-3:30",
			want: Rule{Std: Zone{"+0330", 3*3600 + 1800}},
		},
		{
			in: "EST5EDT,M3.2.0,M11.1.0",
			want: Rule{
				Std: Zone{"EST", -5 * 3600}, DST: Zone{"EDT", -4 * 3600}, HasDST: true,
				start: transition{kind: ruleMonthWeekDay, month: 3, week: 2, day: 0, time: 7200},
				end:   transition{kind: ruleMonthWeekDay, month: 11, week: 1, day: 0, time: 7200},
			},
		},
		{
			in: "<-02>2<-01>,M3.5.0/-1,M10.5.0/0",
			want: Rule{
				Std: Zone{"-02", -2 * 3600}, DST: Zone{"-01", -1 * 3600}, HasDST: true,
				start: transition{kind: ruleMonthWeekDay, month: 3, week: 5, day: 0, time: -3600},
				end:   transition{kind: ruleMonthWeekDay, month: 10, week: 5, day: 0, time: 0},
			},
		},
		{
			in: "XXX3YYY,J60/26,100",
			want: Rule{
				Std: Zone{"XXX", -3 * 3600}, DST: Zone{"YYY", -2 * 3600}, HasDST: true,
				start: transition{kind: ruleJulian, day: 60, time: 26 * 3600},
				end:   transition{kind: ruleDOY, day: 100, time: 7200},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.in, err)
			}
			if diff := cmp.Diff(tt.want, *got, cmp.AllowUnexported(Rule{}, transition{})); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{
		"",
		"E5",
		"EST",
		"EST+",
		"EST25",
		"EST5EDT,M3.2.0",
		"EST5EDT,M13.2.0,M11.1.0",
		"EST5EDT,M3.6.0,M11.1.0",
		"EST5EDT,M3.2.7,M11.1.0",
		"EST5EDT,M3.2.0,M11.1.0,",
		"EST5EDT,J0,J100",
		"<EST5",
	} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) = nil error, want error", in)
		}
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		rule string
		sec  int64
		want Zone
	}{
		{"EST5EDT,M3.2.0,M11.1.0", 2781455351, Zone{"EST", -18000}},
		{"EST5EDT,M3.2.0,M11.1.0", 2782969199, Zone{"EST", -18000}},
		{"EST5EDT,M3.2.0,M11.1.0", 2782969200, Zone{"EDT", -14400}},
		{"EST5EDT,M3.2.0,M11.1.0", 2792707200, Zone{"EDT", -14400}},
		{"EST5EDT,M3.2.0,M11.1.0", 2803528799, Zone{"EDT", -14400}},
		{"EST5EDT,M3.2.0,M11.1.0", 2803528800, Zone{"EST", -18000}},
		{"AEST-10AEDT,M10.1.0,M4.1.0/3", 2525817600, Zone{"AEDT", 39600}},
		{"AEST-10AEDT,M10.1.0,M4.1.0/3", 2538864000, Zone{"AEST", 36000}},
		{"JST-9", 2538864000, Zone{"JST", 32400}},
	}
	for _, tt := range tests {
		r, err := Parse(tt.rule)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", tt.rule, err)
		}
		if diff := cmp.Diff(tt.want, r.Lookup(tt.sec)); diff != "" {
			t.Errorf("Lookup(%q, %d) mismatch (-want +got):\n%s", tt.rule, tt.sec, diff)
		}
	}
}
