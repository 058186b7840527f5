package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/EQt/barnacleboy/internal/stats"
)

func statsCmd(g *globals) *cli.Command {
	var (
		fields []string
		flags  []string
	)

	return &cli.Command{
		Name:      "stats",
		Usage:     "Print value ranges of fields and the rate of flag fields",
		ArgsUsage: "FILE",
		Before:    g.before,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "field", Aliases: []string{"f"}, Usage: "field to summarise (repeatable, default all)", Destination: &fields},
			&cli.StringSliceFlag{Name: "flag", Usage: "0/1 field to report as a percentage (repeatable)", Destination: &flags},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			paths, err := fileArgs(cmd, true)
			if err != nil {
				return err
			}
			f, err := g.open(ctx, paths[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			ranges, err := stats.Summarize(f, fields)
			if err != nil {
				return err
			}
			w := stdout(cmd)
			_, _ = fmt.Fprintf(w, "%s: %s records\n", paths[0], formatCount(uint64(f.Len())))
			printRanges(w, ranges)

			for _, name := range flags {
				c, err := f.Field(name)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(w, "%s: %.2f%%\n", name, stats.FlagRate(c)*100)
			}
			return nil
		},
	}
}

// printRanges writes one line per field:
//
//	abs_position = [min0, max0] x [min1, max1]  mean (m0, m1)
func printRanges(w io.Writer, ranges []stats.Range) {
	indent := 0
	for _, r := range ranges {
		indent = max(indent, len(r.Field))
	}
	for i := 0; i < len(ranges); {
		j := i
		for j < len(ranges) && ranges[j].Field == ranges[i].Field {
			j++
		}
		group := ranges[i:j]
		spans := make([]string, len(group))
		means := make([]string, len(group))
		for k, r := range group {
			spans[k] = fmt.Sprintf("[%g, %g]", r.Min, r.Max)
			means[k] = fmt.Sprintf("%g", r.Mean)
		}
		mean := means[0]
		if len(means) > 1 {
			mean = "(" + strings.Join(means, ", ") + ")"
		}
		_, _ = fmt.Fprintf(w, "%-*s = %s  mean %s", indent, group[0].Field, strings.Join(spans, " x "), mean)
		if nan := group[0].NaN; nan > 0 {
			_, _ = fmt.Fprintf(w, "  nan %d", nan)
		}
		_, _ = fmt.Fprintln(w)
		i = j
	}
}
