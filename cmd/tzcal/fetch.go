package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ngrash/go-tzcal/internal/logx"
	"github.com/ngrash/go-tzcal/tzdb"
)

func newFetchCmd(a *app) *cobra.Command {
	var (
		outDir     string
		sqlitePath string
		etag       string
	)
	cmd := &cobra.Command{
		Use:   "fetch [<url>]",
		Short: "Download a compiled zoneinfo archive",
		Long: `Download a .tar.gz of compiled TZif files and store it as a zoneinfo
directory (--out) or as a SQLite snapshot (--sqlite). The URL defaults to
fetch.url from the configuration.

With --etag, an unchanged archive is not downloaded again.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := a.cfg.Fetch.URL
			if len(args) == 1 {
				url = args[0]
			}
			if url == "" {
				return errors.New("no URL given and fetch.url is not configured")
			}
			if outDir == "" && sqlitePath == "" {
				return errors.New("one of --out or --sqlite is required")
			}

			ctx := cmd.Context()
			if t := a.cfg.Fetch.Timeout.Duration; t > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, t)
				defer cancel()
			}

			c := tzdb.Client{HTTPClient: http.DefaultClient}
			db, newEtag, err := c.Fetch(ctx, url, etag, tzdb.WithLogger(a.log), tzdb.WithClock(a.clock))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if db == nil {
				fmt.Fprintf(out, "not modified (etag %s)\n", newEtag)
				return nil
			}

			if outDir != "" {
				if err := writeZoneinfo(outDir, db); err != nil {
					return err
				}
			}
			if sqlitePath != "" {
				s, err := tzdb.OpenSQLite(ctx, sqlitePath, tzdb.WithLogger(a.log), tzdb.WithClock(a.clock))
				if err != nil {
					return err
				}
				defer s.Close()
				if err := s.Save(ctx, db); err != nil {
					return err
				}
			}
			a.log.Debug("fetch done", logx.String("url", url), logx.Int("zones", db.Len()))
			fmt.Fprintf(out, "fetched %d zones (version %q, etag %s)\n", db.Len(), db.Version(), newEtag)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "write the zones to this zoneinfo directory")
	cmd.Flags().StringVar(&sqlitePath, "sqlite", "", "save the zones to this SQLite snapshot")
	cmd.Flags().StringVar(&etag, "etag", "", "ETag of the archive already held")
	return cmd
}

// writeZoneinfo writes every zone of db as a TZif file below dir, plus a
// +VERSION file when the version is known.
func writeZoneinfo(dir string, db *tzdb.DB) error {
	for _, name := range db.Names() {
		z, _ := db.Zone(name)
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, z.Raw(), 0o644); err != nil {
			return err
		}
	}
	if v := db.Version(); v != "" {
		return os.WriteFile(filepath.Join(dir, "+VERSION"), []byte(v+"\n"), 0o644)
	}
	return nil
}
