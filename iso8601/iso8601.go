// Package iso8601 parses the strict ISO 8601 date-time subset
//
//	YYYY-MM-DDThh:mm[:ss[.f[f[f]]]](Z|±hhmm|±hh:mm)
//
// into instants. Every numeric field has a fixed width, the zone is
// mandatory and zone identifiers such as "EST" are refused.
package iso8601

import (
	"github.com/ngrash/go-tzcal/calerr"
	"github.com/ngrash/go-tzcal/instant"
	"github.com/ngrash/go-tzcal/internal/civil"
)

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour
)

const (
	msgUnexpected   = "Unexpected character"
	msgEOF          = "Unexpected end of input"
	msgInvalid      = "The parsed date was invalid"
	msgIdentifier   = "passing a time zone identifier as part of the string is not allowed"
	msgNotLocalTime = "Not local time"
)

// Parse parses text and returns the instant it denotes.
//
// Grammar violations fail with calerr.BadValue and a message naming the
// offending position and character. A zone identifier where an offset is
// expected fails with calerr.TimeZoneIdentifierNotAllowed, and a string
// without any zone fails with calerr.BadValue "Not local time".
func Parse(text string) (instant.Instant, error) {
	p := parser{s: text}
	return p.parse()
}

type parser struct {
	s   string
	pos int
}

// syntaxError describes a failure at position pos.
type syntaxError struct {
	pos  int
	msg  string
	kind calerr.Kind
}

func (p *parser) fail(pos int, msg string) *syntaxError {
	return &syntaxError{pos: pos, msg: msg, kind: calerr.BadValue}
}

func (p *parser) unexpected() *syntaxError {
	if p.pos >= len(p.s) {
		return p.fail(p.pos, msgEOF)
	}
	return p.fail(p.pos, msgUnexpected)
}

func (p *parser) err(e *syntaxError) error {
	var char string
	if e.pos < len(p.s) {
		char = p.s[e.pos : e.pos+1]
	}
	return calerr.New(e.kind, "Error parsing date string '%s'; %d: %s '%s'", p.s, e.pos, e.msg, char)
}

func (p *parser) parse() (instant.Instant, error) {
	var (
		year, month, day     int
		hour, minute, second int
		ms                   int
		e                    *syntaxError
	)
	if year, e = p.number(4, 0, 9999); e != nil {
		return 0, p.err(e)
	}
	if e = p.expect('-'); e != nil {
		return 0, p.err(e)
	}
	if month, e = p.number(2, 1, 12); e != nil {
		return 0, p.err(e)
	}
	if e = p.expect('-'); e != nil {
		return 0, p.err(e)
	}
	dayPos := p.pos
	if day, e = p.number(2, 1, 31); e != nil {
		return 0, p.err(e)
	}
	if day > civil.DaysInMonth(year, month) {
		return 0, p.err(p.fail(dayPos, msgInvalid))
	}
	if p.pos == len(p.s) {
		return 0, calerr.New(calerr.BadValue, msgNotLocalTime)
	}
	if e = p.expect('T'); e != nil {
		return 0, p.err(e)
	}
	if hour, e = p.number(2, 0, 23); e != nil {
		return 0, p.err(e)
	}
	if e = p.expect(':'); e != nil {
		return 0, p.err(e)
	}
	if minute, e = p.number(2, 0, 59); e != nil {
		return 0, p.err(e)
	}
	if p.peek(':') {
		p.pos++
		if second, e = p.number(2, 0, 59); e != nil {
			return 0, p.err(e)
		}
		if p.peek('.') {
			p.pos++
			if ms, e = p.fraction(); e != nil {
				return 0, p.err(e)
			}
		}
	}

	if p.pos == len(p.s) {
		return 0, calerr.New(calerr.BadValue, msgNotLocalTime)
	}
	off, e := p.zone()
	if e != nil {
		return 0, p.err(e)
	}

	local := civil.FromDate(year, month, day)*msPerDay +
		int64(hour)*msPerHour + int64(minute)*msPerMinute + int64(second)*msPerSecond + int64(ms)
	return instant.Instant(local - off), nil
}

func (p *parser) peek(c byte) bool {
	return p.pos < len(p.s) && p.s[p.pos] == c
}

func (p *parser) expect(c byte) *syntaxError {
	if !p.peek(c) {
		return p.unexpected()
	}
	p.pos++
	return nil
}

// number reads exactly width digits and checks the value lies in [lo, hi].
func (p *parser) number(width, lo, hi int) (int, *syntaxError) {
	start := p.pos
	n := 0
	for i := 0; i < width; i++ {
		if p.pos >= len(p.s) || !isDigit(p.s[p.pos]) {
			return 0, p.unexpected()
		}
		n = n*10 + int(p.s[p.pos]-'0')
		p.pos++
	}
	if n < lo || n > hi {
		return 0, p.fail(start, msgInvalid)
	}
	return n, nil
}

// fraction reads one to three digits of a second and returns milliseconds.
func (p *parser) fraction() (int, *syntaxError) {
	ms, scale := 0, 100
	for n := 0; n < 3 && p.pos < len(p.s) && isDigit(p.s[p.pos]); n++ {
		ms += int(p.s[p.pos]-'0') * scale
		scale /= 10
		p.pos++
	}
	if scale == 100 {
		return 0, p.unexpected()
	}
	return ms, nil
}

// zone reads the zone designator and returns its offset in milliseconds.
// Nothing may follow it.
func (p *parser) zone() (int64, *syntaxError) {
	start := p.pos
	var off int64
	switch c := p.s[p.pos]; {
	case c == 'Z' && !p.identifierAt(p.pos+1):
		p.pos++
	case c == '+' || c == '-':
		p.pos++
		hh, e := p.number(2, 0, 23)
		if e != nil {
			return 0, e
		}
		if p.peek(':') {
			p.pos++
		}
		mm, e := p.number(2, 0, 59)
		if e != nil {
			return 0, e
		}
		off = int64(hh)*msPerHour + int64(mm)*msPerMinute
		if c == '-' {
			off = -off
		}
	case isLetter(c):
		return 0, &syntaxError{pos: start, msg: msgIdentifier, kind: calerr.TimeZoneIdentifierNotAllowed}
	default:
		return 0, p.unexpected()
	}
	if p.pos != len(p.s) {
		return 0, p.unexpected()
	}
	return off, nil
}

// identifierAt reports whether a zone identifier character is at i.
func (p *parser) identifierAt(i int) bool {
	return i < len(p.s) && (isLetter(p.s[i]) || p.s[i] == '/' || p.s[i] == '_')
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isLetter(c byte) bool { return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' }
