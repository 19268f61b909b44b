// Package tzdb provides the named-zone table behind zone.Resolver.
//
// A DB is built from compiled TZif files, read from a zoneinfo directory,
// a .tar.gz archive, an HTTP download or a SQLite snapshot. A DB never
// changes once built. Live swaps whole tables when the source directory
// changes.
package tzdb

import (
	"sort"

	"github.com/ngrash/go-tzcal/instant"
	"github.com/ngrash/go-tzcal/zone"
)

// DB is an immutable set of zones keyed by identifier. It is safe for
// concurrent use and implements zone.Table.
type DB struct {
	zones   map[string]*Zone
	names   []string
	version string
}

var _ zone.Table = (*DB)(nil)

// New returns a DB holding zones. Later zones replace earlier ones with the
// same name. version is the tzdb release, e.g. "2024a", and may be empty.
func New(version string, zones ...*Zone) *DB {
	db := &DB{zones: make(map[string]*Zone, len(zones)), version: version}
	for _, z := range zones {
		db.zones[z.Name()] = z
	}
	db.names = make([]string, 0, len(db.zones))
	for name := range db.zones {
		db.names = append(db.names, name)
	}
	sort.Strings(db.names)
	return db
}

// Has reports whether the DB knows the zone.
func (db *DB) Has(name string) bool {
	_, ok := db.zones[name]
	return ok
}

// OffsetAt returns the offset the zone observes at the instant. Unknown
// zones report zero.
func (db *DB) OffsetAt(name string, at instant.Instant) zone.Offset {
	z, ok := db.zones[name]
	if !ok {
		return 0
	}
	return z.OffsetAt(at)
}

// Zone returns the named zone.
func (db *DB) Zone(name string) (*Zone, bool) {
	z, ok := db.zones[name]
	return z, ok
}

// Names returns the zone identifiers in lexical order.
func (db *DB) Names() []string {
	return append([]string(nil), db.names...)
}

// Len returns the number of zones.
func (db *DB) Len() int { return len(db.names) }

// Version returns the tzdb release the zones came from, if known.
func (db *DB) Version() string { return db.version }
