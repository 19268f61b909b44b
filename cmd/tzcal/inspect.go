package main

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/ngrash/go-tzcal/datefmt"
	"github.com/ngrash/go-tzcal/instant"
	"github.com/ngrash/go-tzcal/tzdb"
	"github.com/ngrash/go-tzcal/tzif"
	"github.com/ngrash/go-tzcal/zone"
)

func newInspectCmd(a *app) *cobra.Command {
	var (
		printV1     bool
		transitions bool
	)
	cmd := &cobra.Command{
		Use:   "inspect <tzif file>",
		Short: "Dump the headers, data blocks and footer of a TZif file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			r := bytes.NewReader(b)
			f, err := tzif.Decode(r)
			if err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			if f.Version == tzif.V1 || printV1 {
				printBlock(out, f.V1Header, f.V1Data)
			}
			if f.Version > tzif.V1 {
				printBlock(out, f.V2Header, f.V2Data)
				fmt.Fprintln(out, "Footer")
				fmt.Fprintln(out, "  TZString =", f.Footer.TZString)
				fmt.Fprintln(out)
			}
			if r.Len() > 0 {
				fmt.Fprintln(out, "remaining data:", r.Len(), "bytes")
			}
			if err := tzif.Validate(f); err != nil {
				fmt.Fprintf(out, "invalid:\n  %s\n", strings.ReplaceAll(err.Error(), "\n", "\n  "))
				return nil
			}

			if transitions {
				z, err := tzdb.NewZone(filepath.Base(args[0]), b)
				if err != nil {
					return err
				}
				printTransitions(out, z)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&printV1, "v1", false, "always print the v1 header and data")
	cmd.Flags().BoolVarP(&transitions, "transitions", "t", false, "list the transitions with their local time types")
	return cmd
}

func printBlock(out io.Writer, h tzif.Header, b tzif.DataBlock) {
	fmt.Fprintln(out, "Header")
	fmt.Fprintln(out, "  version =", h.Version)
	fmt.Fprintln(out, "  isutcnt =", h.Isutcnt)
	fmt.Fprintln(out, "  isstdcnt =", h.Isstdcnt)
	fmt.Fprintln(out, "  leapcnt =", h.Leapcnt)
	fmt.Fprintln(out, "  timecnt =", h.Timecnt)
	fmt.Fprintln(out, "  typecnt =", h.Typecnt)
	fmt.Fprintln(out, "  charcnt =", h.Charcnt)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Data block", h.Version)
	fmt.Fprintf(out, "  TransitionTimes (%d) = %v\n", len(b.TransitionTimes), b.TransitionTimes)
	fmt.Fprintf(out, "  TransitionTypes (%d) = %v\n", len(b.TransitionTypes), b.TransitionTypes)
	fmt.Fprintf(out, "  LocalTimeTypes (%d) = %+v\n", len(b.LocalTimeTypes), b.LocalTimeTypes)
	fmt.Fprintf(out, "  Designations (%d) = %v\n", len(b.Designations), strings.Split(strings.TrimSuffix(string(b.Designations), "\x00"), "\x00"))
	fmt.Fprintf(out, "  LeapSeconds (%d) = %+v\n", len(b.LeapSeconds), b.LeapSeconds)
	fmt.Fprintf(out, "  StandardWallIndicators (%d) = %v\n", len(b.StandardWallIndicators), b.StandardWallIndicators)
	fmt.Fprintf(out, "  UTLocalIndicators (%d) = %v\n", len(b.UTLocalIndicators), b.UTLocalIndicators)
	fmt.Fprintln(out)
}

func printTransitions(out io.Writer, z *tzdb.Zone) {
	fmt.Fprintln(out, "Transitions")
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, t := range z.Transitions() {
		dst := ""
		if t.DST {
			dst = "DST"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", transitionTime(t.At), t.Offset, t.Abbrev, dst)
	}
	tw.Flush()
	if rule := z.Rule(); rule != "" {
		fmt.Fprintln(out, "  then", rule)
	}
}

// transitionTime renders a transition given in seconds. Far-off sentinel
// transitions are printed as raw seconds.
func transitionTime(sec int64) string {
	if sec < math.MinInt64/1000 || sec > math.MaxInt64/1000 {
		return fmt.Sprintf("%ds", sec)
	}
	at := instant.FromMillis(sec * 1000)
	s, err := datefmt.ISOUTC.Instant(at, zone.UTC)
	if err != nil {
		return at.String()
	}
	return s
}

func newDiffCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <tzif file A> <tzif file B>",
		Short: "Compare two TZif files structurally",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var files [2]tzif.File
			for i, name := range args {
				b, err := os.ReadFile(name)
				if err != nil {
					return err
				}
				if files[i], err = tzif.Decode(bytes.NewReader(b)); err != nil {
					return fmt.Errorf("decode %s: %w", name, err)
				}
			}

			out := cmd.OutOrStdout()
			if diff := cmp.Diff(files[0], files[1]); diff != "" {
				fmt.Fprintln(out, "files are different: -A +B")
				fmt.Fprintln(out, diff)
			} else {
				fmt.Fprintln(out, "files are identical")
			}
			return nil
		},
	}
}
