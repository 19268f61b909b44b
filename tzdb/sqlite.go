package tzdb

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/ngrash/go-tzcal/instant"
	"github.com/ngrash/go-tzcal/internal/logx"
)

//go:embed schema.sql
var schema string

const metaVersion = "version"

// SQLiteStore keeps a snapshot of a DB in a SQLite file, one raw TZif file
// per row.
type SQLiteStore struct {
	db   *sql.DB
	opts options
}

// OpenSQLite opens or creates the snapshot at path.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// SQLite prefers a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return &SQLiteStore{db: db, opts: newOptions(opts)}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save replaces the snapshot with the zones of db.
func (s *SQLiteStore) Save(ctx context.Context, db *DB) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM zones`); err != nil {
		return fmt.Errorf("clear zones: %w", err)
	}
	now := s.opts.clock.Now().Millis()
	for _, name := range db.Names() {
		z, _ := db.Zone(name)
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO zones(name, data, loaded_at) VALUES(?,?,?)`,
			name, z.Raw(), now,
		); err != nil {
			return fmt.Errorf("insert %s: %w", name, err)
		}
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO meta(key, value) VALUES(?,?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		metaVersion, db.Version(),
	); err != nil {
		return fmt.Errorf("store version: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.opts.log.Info("snapshot saved", logx.Int("zones", db.Len()), logx.String("version", db.Version()))
	return nil
}

// Load builds a DB from the snapshot. Rows that fail to decode are skipped.
func (s *SQLiteStore) Load(ctx context.Context) (*DB, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, data FROM zones ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query zones: %w", err)
	}
	defer rows.Close()

	var zones []*Zone
	for rows.Next() {
		var (
			name string
			data []byte
		)
		if err := rows.Scan(&name, &data); err != nil {
			return nil, fmt.Errorf("scan zone: %w", err)
		}
		if z := decodeEntry(s.opts.log, name, data); z != nil {
			zones = append(zones, z)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query zones: %w", err)
	}
	if len(zones) == 0 {
		return nil, fmt.Errorf("no zones found")
	}

	version := s.opts.version
	var v string
	err = s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, metaVersion).Scan(&v)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("query version: %w", err)
	case v != "":
		version = v
	}
	return New(version, zones...), nil
}

// LoadedAt returns when the zone was saved, or false if the snapshot does
// not hold it.
func (s *SQLiteStore) LoadedAt(ctx context.Context, name string) (instant.Instant, bool, error) {
	var ms int64
	err := s.db.QueryRowContext(ctx, `SELECT loaded_at FROM zones WHERE name = ?`, name).Scan(&ms)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return instant.FromMillis(ms), true, nil
}
