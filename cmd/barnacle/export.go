package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/EQt/barnacleboy/internal/export"
)

func exportCmd(g *globals) *cli.Command {
	var (
		outPath  string
		fields   []string
		limit    int
		compress bool
	)

	return &cli.Command{
		Name:      "export",
		Usage:     "Write selected fields as JSON Lines with a manifest",
		ArgsUsage: "FILE",
		Before:    g.before,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output path (default: FILE.jsonl[.zst])", Destination: &outPath},
			&cli.StringSliceFlag{Name: "field", Aliases: []string{"f"}, Usage: "field to export (repeatable, default all)", Destination: &fields},
			&cli.IntFlag{Name: "limit", Usage: "export at most this many records (0 = all)", Destination: &limit},
			&cli.BoolFlag{Name: "zstd", Usage: "compress the output with zstd", Destination: &compress},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			paths, err := fileArgs(cmd, true)
			if err != nil {
				return err
			}
			if limit < 0 {
				return fmt.Errorf("export: negative limit %d", limit)
			}
			in := paths[0]
			f, err := g.open(ctx, in)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			if outPath == "" {
				outPath = strings.TrimSuffix(in, ".bin") + ".jsonl"
				if compress {
					outPath += ".zst"
				}
			}
			m, err := export.WriteFile(ctx, outPath, f, export.Options{
				Fields:   fields,
				Limit:    limit,
				Compress: compress,
				Source:   in,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(stdout(cmd), "wrote %s records to %s (export %s)\n", formatCount(uint64(m.Records)), outPath, m.ID)
			return nil
		},
	}
}
