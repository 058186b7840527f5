package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/EQt/barnacleboy/internal/batch"
	"github.com/EQt/barnacleboy/internal/logger"
	"github.com/EQt/barnacleboy/internal/stats"
)

type bound struct {
	field  string
	lo, hi float64
}

// parseBound parses "field=lo:hi".
func parseBound(s string) (bound, error) {
	name, span, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(name) == "" {
		return bound{}, fmt.Errorf("invalid bound %q: want field=lo:hi", s)
	}
	loS, hiS, ok := strings.Cut(span, ":")
	if !ok {
		return bound{}, fmt.Errorf("invalid bound %q: want field=lo:hi", s)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(loS), 64)
	if err != nil {
		return bound{}, fmt.Errorf("invalid bound %q: %w", s, err)
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(hiS), 64)
	if err != nil {
		return bound{}, fmt.Errorf("invalid bound %q: %w", s, err)
	}
	if lo > hi {
		return bound{}, fmt.Errorf("invalid bound %q: lower bound exceeds upper", s)
	}
	return bound{field: strings.TrimSpace(name), lo: lo, hi: hi}, nil
}

type checkResult struct {
	entries  int
	unsorted map[string]int
}

func checkCmd(g *globals) *cli.Command {
	var (
		boundSpecs []string
		sorted     []string
	)

	return &cli.Command{
		Name:      "check",
		Usage:     "Validate headers, file sizes and optional value bounds of many files",
		ArgsUsage: "FILE...",
		Before:    g.before,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "bounds", Usage: "require field values in a range, e.g. inNucleus=0:1 (repeatable)", Destination: &boundSpecs},
			&cli.StringSliceFlag{Name: "sorted", Usage: "report whether a field is sorted (repeatable)", Destination: &sorted},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			paths, err := fileArgs(cmd, false)
			if err != nil {
				return err
			}
			bounds := make([]bound, 0, len(boundSpecs))
			for _, s := range boundSpecs {
				b, err := parseBound(s)
				if err != nil {
					return err
				}
				bounds = append(bounds, b)
			}

			results := batch.Run(ctx, paths, g.jobs, func(ctx context.Context, path string) (checkResult, error) {
				return g.checkFile(ctx, path, bounds, sorted)
			})

			w := stdout(cmd)
			for _, r := range results {
				if r.Err != nil {
					_, _ = fmt.Fprintf(w, "FAIL %s: %v\n", r.Path, r.Err)
					continue
				}
				_, _ = fmt.Fprintf(w, "OK   %s (%s records)\n", r.Path, formatCount(uint64(r.Value.entries)))
				for _, name := range sorted {
					if at, ok := r.Value.unsorted[name]; ok {
						_, _ = fmt.Fprintf(w, "     %s: not sorted, first descent at record %d\n", name, at)
					} else {
						_, _ = fmt.Fprintf(w, "     %s: sorted\n", name)
					}
				}
			}
			if n := batch.Failed(results); n > 0 {
				return fmt.Errorf("check: %d of %d files failed", n, len(results))
			}
			logger.FromContext(ctx).Info("all files passed", "files", len(results))
			return nil
		},
	}
}

func (g *globals) checkFile(ctx context.Context, path string, bounds []bound, sorted []string) (checkResult, error) {
	f, err := g.open(ctx, path)
	if err != nil {
		return checkResult{}, err
	}
	defer func() { _ = f.Close() }()

	for _, b := range bounds {
		c, err := f.Field(b.field)
		if err != nil {
			return checkResult{}, err
		}
		if err := stats.CheckBounds(c, b.lo, b.hi); err != nil {
			return checkResult{}, err
		}
	}

	res := checkResult{entries: f.Len(), unsorted: map[string]int{}}
	for _, name := range sorted {
		c, err := f.Field(name)
		if err != nil {
			return checkResult{}, err
		}
		if ok, at := stats.Sorted(c); !ok {
			res.unsorted[name] = at
		}
	}
	return res, nil
}
