package tzdb

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/ngrash/go-tzcal/internal/logx"
)

// ReadArchive loads the zones held in a gzip-compressed tar archive of a
// compiled zoneinfo tree, such as one produced by
//
//	tar -C /usr/share -czf zoneinfo.tar.gz zoneinfo
//
// A leading "zoneinfo/" path element is dropped from zone names. The posix/
// and right/ subtrees are skipped.
func ReadArchive(r io.Reader, opts ...Option) (*DB, error) {
	o := newOptions(opts)
	gunzip, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("read gzip: %w", err)
	}
	tr := tar.NewReader(gunzip)

	var (
		version = o.version
		zones   []*Zone
	)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}
		name := cleanName(header.Name)
		if dir, _, ok := strings.Cut(name, "/"); ok && skipDirs[dir] {
			continue
		}

		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("read %q: %w", header.Name, err)
		}
		switch path.Base(name) {
		case versionFile:
			version = strings.TrimSpace(string(data))
			continue
		case ziFile:
			if v, ok := ziVersion(data); ok {
				version = v
			}
			continue
		}
		if z := decodeEntry(o.log, name, data); z != nil {
			zones = append(zones, z)
		}
	}

	if len(zones) == 0 {
		return nil, fmt.Errorf("no zones found")
	}
	o.log.Debug("archive read", logx.Int("zones", len(zones)), logx.String("version", version))
	return New(version, zones...), nil
}
