package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ngrash/go-tzcal/calendar"
	"github.com/ngrash/go-tzcal/datefmt"
	"github.com/ngrash/go-tzcal/instant"
	"github.com/ngrash/go-tzcal/iso8601"
	"github.com/ngrash/go-tzcal/zone"
)

// renderer turns an instant into a line of output.
type renderer func(i instant.Instant, z zone.Zone) (string, error)

// outputFlags are the --format and --layout flags shared by format and
// stream.
type outputFlags struct {
	format string
	layout string
}

func (f *outputFlags) register(cmd *cobra.Command) {
	var names []string
	for _, l := range datefmt.Layouts {
		names = append(names, l.Name)
	}
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "format string, e.g. %Y-%m-%d")
	cmd.Flags().StringVarP(&f.layout, "layout", "l", "", "built-in layout: "+strings.Join(names, ", "))
	cmd.MarkFlagsMutuallyExclusive("format", "layout")
}

// renderer picks how instants are rendered: a layout, an explicit format
// string or the configured default.
func (f *outputFlags) renderer(a *app) (renderer, error) {
	r := a.cfg.Range()
	if f.layout != "" {
		l, ok := datefmt.LookupLayout(f.layout)
		if !ok {
			return nil, fmt.Errorf("unknown layout %q", f.layout)
		}
		return func(i instant.Instant, z zone.Zone) (string, error) {
			return l.Render(i, z, r), nil
		}, nil
	}

	s := f.format
	if s == "" {
		s = a.cfg.Format
	}
	if s == "" {
		return func(i instant.Instant, z zone.Zone) (string, error) {
			return datefmt.String(i, z, r), nil
		}, nil
	}
	fmtr, err := datefmt.Parse(s)
	if err != nil {
		return nil, err
	}
	return fmtr.Instant, nil
}

func newFormatCmd(a *app) *cobra.Command {
	var (
		spec string
		out  outputFlags
	)
	cmd := &cobra.Command{
		Use:   "format <instant>...",
		Short: "Format instants in a zone",
		Example: `  tzcal format 1496777923234 --zone America/New_York
  tzcal format 0 --format '%Y week %V' --zone +02:30
  tzcal format 2017-06-06T19:38:43.234Z --layout ctime`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			z, err := a.resolve(cmd.Context(), spec)
			if err != nil {
				return err
			}
			render, err := out.renderer(a)
			if err != nil {
				return err
			}
			for _, arg := range args {
				i, err := parseInstant(arg)
				if err != nil {
					return err
				}
				s, err := render(i, z)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&spec, "zone", "z", "local", "zone to format in")
	out.register(cmd)
	return cmd
}

func newParseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <iso8601>...",
		Short: "Parse ISO 8601 strings into milliseconds since the epoch",
		Example: `  tzcal parse 1970-06-29T21:06:40.981-0400
  tzcal parse 2017-06-06T19:38:43Z 2017-06-06T19:38:43+02:00`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				i, err := iso8601.Parse(arg)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), i.Millis())
			}
			return nil
		},
	}
}

func newPartsCmd(a *app) *cobra.Command {
	var spec string
	cmd := &cobra.Command{
		Use:   "parts <instant>",
		Short: "Print the calendar fields of an instant in a zone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			z, err := a.resolve(cmd.Context(), spec)
			if err != nil {
				return err
			}
			i, err := parseInstant(args[0])
			if err != nil {
				return err
			}
			f := calendar.Decompose(i, z)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "zone          %s\n", z)
			fmt.Fprintf(out, "offset        %s\n", f.Offset)
			fmt.Fprintf(out, "year          %d\n", f.Year)
			fmt.Fprintf(out, "month         %d\n", f.Month)
			fmt.Fprintf(out, "day           %d\n", f.Day)
			fmt.Fprintf(out, "hour          %d\n", f.Hour)
			fmt.Fprintf(out, "minute        %d\n", f.Minute)
			fmt.Fprintf(out, "second        %d\n", f.Second)
			fmt.Fprintf(out, "millisecond   %d\n", f.Millisecond)
			fmt.Fprintf(out, "dayOfWeek     %d\n", f.DayOfWeek)
			fmt.Fprintf(out, "dayOfYear     %d\n", f.DayOfYear)
			fmt.Fprintf(out, "week          %d\n", f.Week)
			fmt.Fprintf(out, "isoYear       %d\n", f.ISOYear)
			fmt.Fprintf(out, "isoWeek       %d\n", f.ISOWeek)
			fmt.Fprintf(out, "isoDayOfWeek  %d\n", f.ISODayOfWeek)
			return nil
		},
	}
	cmd.Flags().StringVarP(&spec, "zone", "z", "local", "zone to decompose in")
	return cmd
}

func newOffsetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "offset <zone> [<instant>]",
		Short: "Print the UTC offset of a zone, now or at an instant",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			z, err := a.resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			at := a.clock.Now()
			if len(args) == 2 {
				if at, err = parseInstant(args[1]); err != nil {
					return err
				}
			}
			off := z.OffsetAt(at)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d minutes)\n", z, off, off.Minutes())
			return nil
		},
	}
}

func newFromPartsCmd(a *app) *cobra.Command {
	var (
		spec string
		p    calendar.Parts
		iso  calendar.ISOParts
	)
	cmd := &cobra.Command{
		Use:   "fromparts",
		Short: "Build an instant from calendar or ISO week date parts",
		Long: `Build an instant from calendar parts, or from ISO week date parts when
--iso-week-year is given. Parts outside their natural range carry, so
--month 13 is January of the following year.`,
		Example: `  tzcal fromparts --year 2017 --month 6 --day 19 --hour 15 --zone Europe/Amsterdam
  tzcal fromparts --iso-week-year 2017 --iso-week 25 --iso-day-of-week 1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			z, err := a.resolve(cmd.Context(), spec)
			if err != nil {
				return err
			}
			var i instant.Instant
			if cmd.Flags().Changed("iso-week-year") {
				iso.Hour, iso.Minute, iso.Second, iso.Millisecond = p.Hour, p.Minute, p.Second, p.Millisecond
				i, err = calendar.FromISOParts(iso, z)
			} else {
				i, err = calendar.FromParts(p, z)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i.Millis())
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&spec, "zone", "z", "UTC", "zone the parts are wall clock time in")
	fl.IntVar(&p.Year, "year", 1970, "year (0-9999)")
	fl.IntVar(&p.Month, "month", 1, "month")
	fl.IntVar(&p.Day, "day", 1, "day of month")
	fl.IntVar(&p.Hour, "hour", 0, "hour")
	fl.IntVar(&p.Minute, "minute", 0, "minute")
	fl.IntVar(&p.Second, "second", 0, "second")
	fl.IntVar(&p.Millisecond, "millisecond", 0, "millisecond")
	fl.IntVar(&iso.WeekYear, "iso-week-year", 0, "ISO week-numbering year (0-9999)")
	fl.IntVar(&iso.Week, "iso-week", 1, "ISO week")
	fl.IntVar(&iso.DayOfWeek, "iso-day-of-week", 1, "ISO day of week, 1=Monday")
	cmd.MarkFlagsMutuallyExclusive("year", "iso-week-year")
	cmd.MarkFlagsMutuallyExclusive("month", "iso-week")
	cmd.MarkFlagsMutuallyExclusive("day", "iso-day-of-week")
	return cmd
}
