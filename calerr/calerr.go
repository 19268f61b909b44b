// Package calerr defines the error kinds returned by the calendar engine.
//
// Callers branch on the kind, never on the message:
//
//	if errors.Is(err, calerr.UnknownZone) { ... }
package calerr

import (
	"errors"
	"fmt"
)

// Kind classifies a calendar engine failure.
type Kind uint8

const (
	// Unknown is the zero Kind. It is never returned by this module.
	Unknown Kind = iota
	// UnknownZone reports a zone specifier that is neither a known zone
	// name nor a valid fixed offset.
	UnknownZone
	// BadFormatSpecifier reports a '%' followed by an unrecognized letter.
	BadFormatSpecifier
	// UnmatchedPercent reports a '%' at the end of a format string.
	UnmatchedPercent
	// DateBeforeYear0 reports a year below 0000 in a formatting operation.
	DateBeforeYear0
	// DateAfterYear9999 reports a year above 9999 in a formatting operation.
	DateAfterYear9999
	// BadValue reports malformed input, most notably an ISO-8601 string
	// that does not match the accepted grammar.
	BadValue
	// TimeZoneIdentifierNotAllowed is the BadValue case of an ISO-8601
	// string carrying a zone identifier instead of a numeric offset.
	TimeZoneIdentifierNotAllowed
)

func (k Kind) String() string {
	switch k {
	case UnknownZone:
		return "UnknownZone"
	case BadFormatSpecifier:
		return "BadFormatSpecifier"
	case UnmatchedPercent:
		return "UnmatchedPercent"
	case DateBeforeYear0:
		return "DateBeforeYear0"
	case DateAfterYear9999:
		return "DateAfterYear9999"
	case BadValue:
		return "BadValue"
	case TimeZoneIdentifierNotAllowed:
		return "TimeZoneIdentifierNotAllowed"
	default:
		return fmt.Sprintf("<undefined kind (%d)>", k)
	}
}

// Error implements the error interface so a Kind can be used as an
// errors.Is target.
func (k Kind) Error() string {
	return k.String()
}

// parent returns the broader kind k belongs to, or Unknown.
func (k Kind) parent() Kind {
	if k == TimeZoneIdentifierNotAllowed {
		return BadValue
	}
	return Unknown
}

// Error is a kinded failure with a human-readable detail.
type Error struct {
	Kind   Kind
	Detail string
}

// New returns an *Error of the given kind with a formatted detail.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Detail
}

// Is reports whether target is e's Kind or the broader kind it belongs to.
func (e *Error) Is(target error) bool {
	var k Kind
	switch t := target.(type) {
	case Kind:
		k = t
	case *Error:
		k = t.Kind
	default:
		return false
	}
	return k != Unknown && (k == e.Kind || k == e.Kind.parent())
}

// KindOf returns the Kind of the first *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}
