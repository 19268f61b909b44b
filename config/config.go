// Package config loads tzcal settings from a YAML or TOML file, an optional
// .env file and TZCAL_* environment variables, in increasing precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	yaml "go.yaml.in/yaml/v3"

	"github.com/ngrash/go-tzcal/datefmt"
	"github.com/ngrash/go-tzcal/instant"
	"github.com/ngrash/go-tzcal/internal/logx"
)

const (
	DefaultZoneinfoDir  = "/usr/share/zoneinfo"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "console"
	DefaultFetchTimeout = 30 * time.Second

	envPrefix = "TZCAL_"
)

// Config holds the complete tzcal configuration.
type Config struct {
	// Zone data sources. The archive and SQLite snapshot, when set, take
	// precedence over the directory.
	ZoneinfoDir     string `yaml:"zoneinfo_dir" toml:"zoneinfo_dir"`
	ZoneinfoArchive string `yaml:"zoneinfo_archive" toml:"zoneinfo_archive"`
	ZoneinfoSQLite  string `yaml:"zoneinfo_sqlite" toml:"zoneinfo_sqlite"`

	// LocalZone is what the zone specifier "local" resolves to.
	LocalZone string `yaml:"local_zone" toml:"local_zone"`
	// Format is the default format string. Empty means ISO 8601 with
	// the local offset.
	Format string `yaml:"format" toml:"format"`
	// NarrowTimeT limits formatting to the range of a 32-bit time_t.
	NarrowTimeT bool `yaml:"narrow_time_t" toml:"narrow_time_t"`

	Log   LogConfig   `yaml:"log" toml:"log"`
	Fetch FetchConfig `yaml:"fetch" toml:"fetch"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"` // console or json
}

// FetchConfig holds settings for downloading zoneinfo archives.
type FetchConfig struct {
	URL     string   `yaml:"url" toml:"url"`
	Timeout Duration `yaml:"timeout" toml:"timeout"`
}

// Duration is a time.Duration written as a string such as "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		ZoneinfoDir: DefaultZoneinfoDir,
		LocalZone:   "UTC",
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Fetch: FetchConfig{
			Timeout: Duration{DefaultFetchTimeout},
		},
	}
}

// Load builds the configuration. path may be empty, in which case only
// the defaults and the environment apply. A .env file in the working
// directory is loaded if present; it never overrides variables that are
// already set.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		if err := cfg.ReadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// ReadFile decodes the file at path over c. The format is chosen by
// extension: .yaml and .yml for YAML, .toml for TOML. Unknown keys are
// rejected.
func (c *Config) ReadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = c.decodeYAML(data)
	case ".toml":
		err = c.decodeTOML(data)
	default:
		return fmt.Errorf("config %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	return nil
}

func (c *Config) decodeYAML(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("yaml: %w", err)
	}
	return nil
}

func (c *Config) decodeTOML(data []byte) error {
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return fmt.Errorf("toml: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return fmt.Errorf("toml: unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// ApplyEnv overrides c with the TZCAL_* variables that lookup finds.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := []struct {
		key string
		dst *string
	}{
		{"ZONEINFO_DIR", &c.ZoneinfoDir},
		{"ZONEINFO_ARCHIVE", &c.ZoneinfoArchive},
		{"ZONEINFO_SQLITE", &c.ZoneinfoSQLite},
		{"LOCAL_ZONE", &c.LocalZone},
		{"FORMAT", &c.Format},
		{"LOG_LEVEL", &c.Log.Level},
		{"LOG_FORMAT", &c.Log.Format},
		{"FETCH_URL", &c.Fetch.URL},
	}
	for _, s := range strs {
		if v, ok := lookup(envPrefix + s.key); ok {
			*s.dst = v
		}
	}

	if v, ok := lookup(envPrefix + "NARROW_TIME_T"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sNARROW_TIME_T: %w", envPrefix, err)
		}
		c.NarrowTimeT = b
	}
	if v, ok := lookup(envPrefix + "FETCH_TIMEOUT"); ok {
		if err := c.Fetch.Timeout.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("%sFETCH_TIMEOUT: %w", envPrefix, err)
		}
	}
	return nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.ZoneinfoDir == "" && c.ZoneinfoArchive == "" && c.ZoneinfoSQLite == "" {
		errs = append(errs, errors.New("no zoneinfo source configured"))
	}
	if c.Format != "" {
		if err := datefmt.ValidateFormat(c.Format); err != nil {
			errs = append(errs, fmt.Errorf("format: %w", err))
		}
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil || c.Log.Level == "" {
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: must be console or json, found %q", c.Log.Format))
	}
	if c.Fetch.Timeout.Duration < 0 {
		errs = append(errs, fmt.Errorf("fetch.timeout: must not be negative, found %s", c.Fetch.Timeout))
	}
	return errors.Join(errs...)
}

// Range returns the formattable range the configuration selects.
func (c *Config) Range() instant.Range {
	if c.NarrowTimeT {
		return instant.Narrow
	}
	return instant.Wide
}

// Logger builds the logger the configuration describes, writing to out.
func (c *Config) Logger(out io.Writer) logx.Logger {
	return logx.New(logx.Config{Level: c.Log.Level, Format: c.Log.Format, Out: out})
}
