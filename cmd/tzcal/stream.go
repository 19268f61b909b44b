package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ngrash/go-tzcal/datefmt"
	"github.com/ngrash/go-tzcal/instant"
	"github.com/ngrash/go-tzcal/internal/logx"
	"github.com/ngrash/go-tzcal/tzdb"
	"github.com/ngrash/go-tzcal/zone"
)

func newStreamCmd(a *app) *cobra.Command {
	var (
		spec  string
		watch bool
		out   outputFlags
	)
	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Format instants read line by line from stdin",
		Long: `Read one instant per line from stdin, as milliseconds or ISO 8601, and
write it formatted to stdout. Lines that fail are reported on stderr and
skipped.

With --watch the zoneinfo directory is watched and reloaded on change, so
a long-running stream picks up new zone data without a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snapshot, stop, err := a.streamTable(cmd.Context(), watch)
			if err != nil {
				return err
			}
			defer stop()

			write, err := out.writer(a)
			if err != nil {
				return err
			}
			// The zone is resolved again whenever the table is replaced,
			// so a zone dropped by a reload fails loudly.
			var (
				table zone.Table
				z     zone.Zone
			)
			resolve := func() error {
				t := snapshot()
				if t == table {
					return nil
				}
				r, err := a.resolver(t)
				if err != nil {
					return err
				}
				if z, err = r.Resolve(spec); err != nil {
					return err
				}
				table = t
				return nil
			}
			if err := resolve(); err != nil {
				return err
			}

			w := bufio.NewWriter(cmd.OutOrStdout())
			defer w.Flush()
			sc := bufio.NewScanner(cmd.InOrStdin())
			var line, failed int
			for sc.Scan() {
				line++
				text := strings.TrimSpace(sc.Text())
				if text == "" {
					continue
				}
				err := resolve()
				var i instant.Instant
				if err == nil {
					i, err = parseInstant(text)
				}
				if err == nil {
					err = write(w, i, z)
				}
				if err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "line %d: %v\n", line, err)
					continue
				}
				if err := w.Flush(); err != nil {
					return err
				}
			}
			if err := sc.Err(); err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d lines failed", failed, line)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&spec, "zone", "z", "local", "zone to format in")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload the zoneinfo directory when it changes")
	out.register(cmd)
	return cmd
}

// streamTable returns the zone table for stream as a snapshot function.
// When watching, the snapshot follows the zoneinfo directory until stop is
// called; stop also waits for the watcher to exit.
func (a *app) streamTable(ctx context.Context, watch bool) (snapshot func() zone.Table, stop func(), err error) {
	if !watch {
		db, err := a.loadDB(ctx)
		if err != nil {
			return nil, nil, err
		}
		return func() zone.Table { return db }, func() {}, nil
	}
	if a.cfg.ZoneinfoArchive != "" || a.cfg.ZoneinfoSQLite != "" {
		return nil, nil, errors.New("--watch needs a zoneinfo directory source")
	}

	dir := a.cfg.ZoneinfoDir
	opts := []tzdb.Option{tzdb.WithLogger(a.log), tzdb.WithClock(a.clock)}
	live, err := tzdb.NewLive(func() (*tzdb.DB, error) { return tzdb.LoadDir(dir, opts...) }, opts...)
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := live.Watch(ctx, dir); err != nil {
			a.log.Error("zoneinfo watcher stopped", logx.Err(err))
		}
	}()
	stop = func() {
		cancel()
		<-done
	}
	return func() zone.Table { return live.DB() }, stop, nil
}

// writer is like renderer but writes a line to w. Format strings are
// written directly without building a string first.
func (f *outputFlags) writer(a *app) (func(w io.Writer, i instant.Instant, z zone.Zone) error, error) {
	s := f.format
	if s == "" && f.layout == "" {
		s = a.cfg.Format
	}
	if s != "" {
		fmtr, err := datefmt.Parse(s)
		if err != nil {
			return nil, err
		}
		return func(w io.Writer, i instant.Instant, z zone.Zone) error {
			if err := fmtr.Write(w, i, z); err != nil {
				return err
			}
			_, err := io.WriteString(w, "\n")
			return err
		}, nil
	}

	render, err := f.renderer(a)
	if err != nil {
		return nil, err
	}
	return func(w io.Writer, i instant.Instant, z zone.Zone) error {
		s, err := render(i, z)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, s+"\n")
		return err
	}, nil
}
