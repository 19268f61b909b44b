package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngrash/go-tzcal/calerr"
	"github.com/ngrash/go-tzcal/instant"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultZoneinfoDir, cfg.ZoneinfoDir)
	assert.Equal(t, "UTC", cfg.LocalZone)
	assert.Equal(t, DefaultFetchTimeout, cfg.Fetch.Timeout.Duration)
	assert.Equal(t, instant.Wide, cfg.Range())
}

func TestReadFile_YAML(t *testing.T) {
	path := writeFile(t, "tzcal.yaml", `
zoneinfo_dir: /opt/zoneinfo
zoneinfo_sqlite: /var/lib/tzcal/zones.db
local_zone: Europe/Berlin
format: "%Y-%m-%d"
narrow_time_t: true
log:
  level: debug
  format: json
fetch:
  url: https://zoneinfo.example.com/zoneinfo.tar.gz
  timeout: 5s
`)
	cfg := Default()
	require.NoError(t, cfg.ReadFile(path))
	require.NoError(t, cfg.Validate())

	want := &Config{
		ZoneinfoDir:    "/opt/zoneinfo",
		ZoneinfoSQLite: "/var/lib/tzcal/zones.db",
		LocalZone:      "Europe/Berlin",
		Format:         "%Y-%m-%d",
		NarrowTimeT:    true,
		Log:            LogConfig{Level: "debug", Format: "json"},
		Fetch: FetchConfig{
			URL:     "https://zoneinfo.example.com/zoneinfo.tar.gz",
			Timeout: Duration{5 * time.Second},
		},
	}
	assert.Equal(t, want, cfg)
	assert.Equal(t, instant.Narrow, cfg.Range())
}

func TestReadFile_TOML(t *testing.T) {
	path := writeFile(t, "tzcal.toml", `
zoneinfo_archive = "/tmp/zoneinfo.tar.gz"
local_zone = "+05:30"

[log]
level = "warn"

[fetch]
timeout = "1m30s"
`)
	cfg := Default()
	require.NoError(t, cfg.ReadFile(path))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/tmp/zoneinfo.tar.gz", cfg.ZoneinfoArchive)
	assert.Equal(t, DefaultZoneinfoDir, cfg.ZoneinfoDir, "unset keys keep their defaults")
	assert.Equal(t, "+05:30", cfg.LocalZone)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
	assert.Equal(t, 90*time.Second, cfg.Fetch.Timeout.Duration)
}

func TestReadFile_EmptyYAML(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.ReadFile(writeFile(t, "empty.yml", "")))
	assert.Equal(t, Default(), cfg)
}

func TestReadFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"unknown yaml key", "c.yaml", "zoneinfo_dri: /x\n", "field zoneinfo_dri not found"},
		{"unknown toml key", "c.toml", "zoneinfo_dri = \"/x\"\n[log]\ncolour = true\n", "unknown keys: log.colour, zoneinfo_dri"},
		{"bad yaml duration", "c.yaml", "fetch:\n  timeout: soon\n", "invalid duration"},
		{"bad toml syntax", "c.toml", "zoneinfo_dir = \n", "toml:"},
		{"unsupported extension", "c.json", "{}", `unsupported format ".json"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Default().ReadFile(writeFile(t, tt.file, tt.content))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}

	err := Default().ReadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"TZCAL_ZONEINFO_DIR":  "/env/zoneinfo",
		"TZCAL_LOCAL_ZONE":    "Asia/Tokyo",
		"TZCAL_LOG_LEVEL":     "error",
		"TZCAL_NARROW_TIME_T": "true",
		"TZCAL_FETCH_TIMEOUT": "2s",
		"TZCAL_FORMAT":        "",
		"UNRELATED":           "x",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	cfg.Format = "%Y"
	require.NoError(t, cfg.ApplyEnv(lookup))

	assert.Equal(t, "/env/zoneinfo", cfg.ZoneinfoDir)
	assert.Equal(t, "Asia/Tokyo", cfg.LocalZone)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.True(t, cfg.NarrowTimeT)
	assert.Equal(t, 2*time.Second, cfg.Fetch.Timeout.Duration)
	assert.Equal(t, "", cfg.Format, "a set but empty variable overrides")
}

func TestApplyEnv_Invalid(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(func(k string) (string, bool) {
		return "maybe", k == "TZCAL_NARROW_TIME_T"
	})
	assert.ErrorContains(t, err, "TZCAL_NARROW_TIME_T")

	err = cfg.ApplyEnv(func(k string) (string, bool) {
		return "later", k == "TZCAL_FETCH_TIMEOUT"
	})
	assert.ErrorContains(t, err, "TZCAL_FETCH_TIMEOUT")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.ZoneinfoDir = ""
	cfg.Format = "%Y-%q"
	cfg.Log.Level = "loud"
	cfg.Log.Format = "xml"
	cfg.Fetch.Timeout = Duration{-time.Second}

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{
		"no zoneinfo source configured",
		"format: BadFormatSpecifier",
		`log.level: unknown level "loud"`,
		`log.format: must be console or json, found "xml"`,
		"fetch.timeout: must not be negative",
	} {
		assert.ErrorContains(t, err, want)
	}
	assert.ErrorIs(t, err, calerr.BadFormatSpecifier)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TZCAL_LOCAL_ZONE=America/New_York\nTZCAL_LOG_FORMAT=json\n"), 0o644))
	path := writeFile(t, "tzcal.yaml", "local_zone: Europe/Berlin\nlog:\n  format: console\n")

	// Variables already in the environment win over .env.
	t.Setenv("TZCAL_LOG_FORMAT", "console")
	t.Cleanup(func() { _ = os.Unsetenv("TZCAL_LOCAL_ZONE") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", cfg.LocalZone, ".env overrides the file")
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_NoFile(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TZCAL_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TZCAL_LOG_FORMAT", "xml")

	_, err := Load("")
	assert.ErrorContains(t, err, "invalid configuration")
}
