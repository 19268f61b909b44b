package tzif

import (
	"errors"
	"fmt"
)

// Validate checks the structural requirements RFC 8536 places on f and
// reports every violation it finds.
func Validate(f File) error {
	var errs []error
	if f.Version != f.V1Header.Version || (f.Version > V1 && f.V1Header.Version != f.V2Header.Version) {
		errs = append(errs, fmt.Errorf("inconsistent version: file = %v, v1 header = %v, v2 header = %v", f.Version, f.V1Header.Version, f.V2Header.Version))
	}

	errs = append(errs, validateBlock("v1", f.V1Header, f.V1Data)...)
	if f.Version > V1 {
		errs = append(errs, validateBlock("v2", f.V2Header, f.V2Data)...)
	}

	return errors.Join(errs...)
}

func validateBlock(name string, h Header, b DataBlock) []error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("invalid %s "+format, append([]any{name}, args...)...))
	}

	if h.Isutcnt != 0 && h.Isutcnt != h.Typecnt {
		add("isutcnt (%d): must be 0 or equal to typecnt (%d)", h.Isutcnt, h.Typecnt)
	}
	if len(b.UTLocalIndicators) != int(h.Isutcnt) {
		add("isutcnt: header = %d, data = %d", h.Isutcnt, len(b.UTLocalIndicators))
	}

	if h.Isstdcnt != 0 && h.Isstdcnt != h.Typecnt {
		add("isstdcnt (%d): must be 0 or equal to typecnt (%d)", h.Isstdcnt, h.Typecnt)
	}
	if len(b.StandardWallIndicators) != int(h.Isstdcnt) {
		add("isstdcnt: header = %d, data = %d", h.Isstdcnt, len(b.StandardWallIndicators))
	}

	if len(b.LeapSeconds) != int(h.Leapcnt) {
		add("leapcnt: header = %d, data = %d", h.Leapcnt, len(b.LeapSeconds))
	}

	if len(b.TransitionTimes) != int(h.Timecnt) {
		add("timecnt: header = %d, transition times = %d", h.Timecnt, len(b.TransitionTimes))
	}
	if times, types := len(b.TransitionTimes), len(b.TransitionTypes); times != types {
		add("transitions: transition times = %d, transition types = %d", times, types)
	}
	for i := 1; i < len(b.TransitionTimes); i++ {
		if b.TransitionTimes[i] <= b.TransitionTimes[i-1] {
			add("transition times: not strictly ascending at index %d", i)
			break
		}
	}

	if h.Typecnt == 0 {
		add("typecnt: must not be zero")
	}
	if len(b.LocalTimeTypes) != int(h.Typecnt) {
		add("typecnt: header = %d, data = %d", h.Typecnt, len(b.LocalTimeTypes))
	}
	for i, typ := range b.TransitionTypes {
		if int(typ) >= len(b.LocalTimeTypes) {
			add("transition type %d at index %d: only %d local time types", typ, i, len(b.LocalTimeTypes))
			break
		}
	}

	if h.Charcnt == 0 {
		add("charcnt: must not be zero")
	}
	if len(b.Designations) != int(h.Charcnt) {
		add("charcnt: header = %d, data = %d", h.Charcnt, len(b.Designations))
	}
	if len(b.Designations) > 0 && b.Designations[len(b.Designations)-1] != 0 {
		add("time zone designations: missing null terminator")
	}
	return errs
}
