package tzdb

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/ngrash/go-tzcal/internal/logx"
	"github.com/ngrash/go-tzcal/tzif"
)

// Zoneinfo trees carry the same zones again under these directories, with
// POSIX or leap-second-aware times.
var skipDirs = map[string]bool{
	"posix": true,
	"right": true,
}

const (
	// versionFile is written by some distributions next to the zones.
	versionFile = "+VERSION"
	// ziFile is the text form of the whole database; its first line names
	// the release.
	ziFile   = "tzdata.zi"
	ziPrefix = "# version "
)

// LoadDir loads every TZif file below dir.
func LoadDir(dir string, opts ...Option) (*DB, error) {
	db, err := LoadFS(os.DirFS(dir), opts...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", dir, err)
	}
	return db, nil
}

// LoadFS loads every TZif file in fsys. Zone names are the slash-separated
// paths relative to the root, e.g. "Europe/Berlin". Files that are not TZif
// or fail to decode are skipped.
func LoadFS(fsys fs.FS, opts ...Option) (*DB, error) {
	o := newOptions(opts)
	version := o.version
	var zones []*Zone

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		switch p {
		case versionFile:
			version = strings.TrimSpace(string(data))
			return nil
		case ziFile:
			if v, ok := ziVersion(data); ok {
				version = v
			}
			return nil
		}
		if z := decodeEntry(o.log, p, data); z != nil {
			zones = append(zones, z)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(zones) == 0 {
		return nil, fmt.Errorf("no zones found")
	}
	o.log.Debug("zones loaded", logx.Int("zones", len(zones)), logx.String("version", version))
	return New(version, zones...), nil
}

// decodeEntry returns the zone held in data, or nil when data is not a
// usable TZif file.
func decodeEntry(log logx.Logger, name string, data []byte) *Zone {
	if !bytes.HasPrefix(data, tzif.Magic[:]) {
		log.Debug("skipping non-TZif file", logx.String("file", name))
		return nil
	}
	z, err := NewZone(name, data)
	if err != nil {
		log.Debug("skipping invalid TZif file", logx.String("file", name), logx.Err(err))
		return nil
	}
	return z
}

func ziVersion(data []byte) (string, bool) {
	line, _, _ := bytes.Cut(data, []byte{'\n'})
	v, ok := strings.CutPrefix(string(line), ziPrefix)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// cleanName turns an archive path into a zone name.
func cleanName(name string) string {
	name = path.Clean(strings.TrimPrefix(name, "./"))
	return strings.TrimPrefix(name, "zoneinfo/")
}
