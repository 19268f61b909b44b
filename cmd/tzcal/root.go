package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ngrash/go-tzcal/config"
	"github.com/ngrash/go-tzcal/instant"
	"github.com/ngrash/go-tzcal/internal/logx"
	"github.com/ngrash/go-tzcal/iso8601"
	"github.com/ngrash/go-tzcal/tzdb"
	"github.com/ngrash/go-tzcal/zone"
)

// app is the state shared by all subcommands.
type app struct {
	cfgFile  string
	verbose  bool
	zoneinfo string

	cfg   *config.Config
	log   logx.Logger
	clock instant.Clock
}

// newRootCmd builds the command tree. clock supplies "now" wherever an
// instant is optional.
func newRootCmd(clock instant.Clock) *cobra.Command {
	a := &app{clock: clock}

	root := &cobra.Command{
		Use:   "tzcal",
		Short: "Time zone aware calendar tool",
		Long: `tzcal converts between millisecond instants, calendar fields and
formatted strings, using IANA zoneinfo data.

Instants are given as milliseconds since 1970-01-01T00:00:00Z or as
ISO 8601 strings such as 2017-06-06T19:38:43.234Z. Zones are given as
"UTC", "local", an IANA name like America/New_York or a fixed offset
like +05:30.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (.yaml, .yml or .toml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().StringVar(&a.zoneinfo, "zoneinfo", "", "zoneinfo directory (overrides the config)")

	root.AddCommand(
		newFormatCmd(a),
		newParseCmd(a),
		newPartsCmd(a),
		newOffsetCmd(a),
		newFromPartsCmd(a),
		newZonesCmd(a),
		newInspectCmd(a),
		newDiffCmd(a),
		newFetchCmd(a),
		newStreamCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.zoneinfo != "" {
		// An explicit directory beats every configured source.
		cfg.ZoneinfoDir = a.zoneinfo
		cfg.ZoneinfoArchive = ""
		cfg.ZoneinfoSQLite = ""
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	a.cfg = cfg
	a.log = cfg.Logger(cmd.ErrOrStderr())
	return nil
}

// loadDB loads the zone table from the configured source. A SQLite snapshot
// wins over an archive, which wins over a directory.
func (a *app) loadDB(ctx context.Context) (*tzdb.DB, error) {
	opts := []tzdb.Option{tzdb.WithLogger(a.log), tzdb.WithClock(a.clock)}
	switch {
	case a.cfg.ZoneinfoSQLite != "":
		s, err := tzdb.OpenSQLite(ctx, a.cfg.ZoneinfoSQLite, opts...)
		if err != nil {
			return nil, err
		}
		defer s.Close()
		return s.Load(ctx)
	case a.cfg.ZoneinfoArchive != "":
		f, err := os.Open(a.cfg.ZoneinfoArchive)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return tzdb.ReadArchive(f, opts...)
	default:
		return tzdb.LoadDir(a.cfg.ZoneinfoDir, opts...)
	}
}

// resolver returns a resolver over table whose "local" zone is the
// configured one.
func (a *app) resolver(table zone.Table) (*zone.Resolver, error) {
	local, err := zone.NewResolver(table).Resolve(a.cfg.LocalZone)
	if err != nil {
		return nil, fmt.Errorf("local_zone: %w", err)
	}
	return zone.NewResolver(table, zone.WithLocal(local)), nil
}

// resolve loads the zone table and resolves spec in it.
func (a *app) resolve(ctx context.Context, spec string) (zone.Zone, error) {
	db, err := a.loadDB(ctx)
	if err != nil {
		return zone.Zone{}, err
	}
	r, err := a.resolver(db)
	if err != nil {
		return zone.Zone{}, err
	}
	return r.Resolve(spec)
}

// parseInstant accepts milliseconds since the epoch or an ISO 8601 string.
func parseInstant(s string) (instant.Instant, error) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return instant.FromMillis(ms), nil
	}
	return iso8601.Parse(s)
}
