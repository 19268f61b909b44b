package tzdb

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngrash/go-tzcal/instant"
	"github.com/ngrash/go-tzcal/zone"
)

var fixtureNames = []string{
	"America/New_York",
	"Asia/Tokyo",
	"Australia/Sydney",
	"Europe/Amsterdam",
	"Europe/Berlin",
	"UTC",
}

// fixtureFS returns the test zones plus files a loader must skip.
func fixtureFS(t *testing.T) fstest.MapFS {
	t.Helper()
	m := fstest.MapFS{
		"zone.tab":   {Data: []byte("# tzdb timezone descriptions\n")},
		"tzdata.zi":  {Data: []byte("# version 2024b\n# This zic input file is in the public domain.\n")},
		"leapsecond": {Data: []byte("TZ")},
		"posix/UTC":  {Data: mustRead(t, "UTC")},
		"right/UTC":  {Data: mustRead(t, "UTC")},
	}
	for _, name := range fixtureNames {
		m[name] = &fstest.MapFile{Data: mustRead(t, name)}
	}
	return m
}

func mustRead(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(zoneinfo, filepath.FromSlash(name)))
	require.NoError(t, err)
	return data
}

// writeTree copies fsys below dir.
func writeTree(t *testing.T, fsys fs.FS, dir string) {
	t.Helper()
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		dst := filepath.Join(dir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		return os.WriteFile(dst, data, 0o644)
	})
	require.NoError(t, err)
}

// tarGz archives fsys with every path below prefix.
func tarGz(t *testing.T, fsys fs.FS, prefix string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		if err := tw.WriteHeader(&tar.Header{
			Name:     prefix + p,
			Mode:     0o644,
			Size:     int64(len(data)),
			Typeflag: tar.TypeReg,
		}); err != nil {
			return err
		}
		_, err = tw.Write(data)
		return err
	})
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func checkFixtureDB(t *testing.T, db *DB) {
	t.Helper()
	assert.Equal(t, fixtureNames, db.Names())
	assert.Equal(t, len(fixtureNames), db.Len())
	assert.Equal(t, "2024b", db.Version())
	assert.True(t, db.Has("Europe/Berlin"))
	assert.False(t, db.Has("posix/UTC"))
	assert.False(t, db.Has("zone.tab"))
	assert.Equal(t, -4*zone.Hour, db.OffsetAt("America/New_York", 1497884511551))
	assert.Equal(t, zone.Offset(0), db.OffsetAt("Mars/Olympus_Mons", 0))
}

func TestLoadFS(t *testing.T) {
	db, err := LoadFS(fixtureFS(t))
	require.NoError(t, err)
	checkFixtureDB(t, db)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, fixtureFS(t), dir)

	db, err := LoadDir(dir)
	require.NoError(t, err)
	checkFixtureDB(t, db)
}

func TestLoadDir_Empty(t *testing.T) {
	_, err := LoadDir(t.TempDir())
	assert.ErrorContains(t, err, "no zones found")
}

func TestLoadFS_VersionOption(t *testing.T) {
	fsys := fstest.MapFS{"UTC": {Data: mustRead(t, "UTC")}}
	db, err := LoadFS(fsys, WithVersion("test"))
	require.NoError(t, err)
	assert.Equal(t, "test", db.Version())
	assert.Equal(t, []string{"UTC"}, db.Names())
}

func TestReadArchive(t *testing.T) {
	for _, prefix := range []string{"", "./", "zoneinfo/"} {
		t.Run("prefix="+prefix, func(t *testing.T) {
			data := tarGz(t, fixtureFS(t), prefix)
			db, err := ReadArchive(bytes.NewReader(data))
			require.NoError(t, err)
			checkFixtureDB(t, db)
		})
	}
}

func TestReadArchive_NotGzip(t *testing.T) {
	_, err := ReadArchive(bytes.NewReader([]byte("TZif2")))
	assert.ErrorContains(t, err, "read gzip")
}

func TestDB_ImplementsTable(t *testing.T) {
	db, err := LoadFS(fixtureFS(t))
	require.NoError(t, err)

	r := zone.NewResolver(db)
	z, err := r.Resolve("Asia/Tokyo")
	require.NoError(t, err)
	assert.Equal(t, 9*zone.Hour, z.OffsetAt(instant.Instant(0)))

	_, err = r.Resolve("posix/UTC")
	assert.Error(t, err)
}
