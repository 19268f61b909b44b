package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ngrash/go-tzcal/internal/civil"
)

func newZonesCmd(a *app) *cobra.Command {
	var (
		offsets bool
		at      string
	)
	cmd := &cobra.Command{
		Use:   "zones",
		Short: "List the zones of the zone table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.loadDB(cmd.Context())
			if err != nil {
				return err
			}
			if !offsets {
				for _, name := range db.Names() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}

			when := a.clock.Now()
			if at != "" {
				if when, err = parseInstant(at); err != nil {
					return err
				}
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, name := range db.Names() {
				z, _ := db.Zone(name)
				p := z.Lookup(civil.FloorDiv(when.Millis(), 1000))
				dst := ""
				if p.DST {
					dst = "DST"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name, p.Offset, p.Abbrev, dst)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVarP(&offsets, "offsets", "o", false, "print each zone's offset and abbreviation")
	cmd.Flags().StringVar(&at, "at", "", "instant for --offsets (default now)")
	return cmd
}
