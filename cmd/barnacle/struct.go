package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

func structCmd(g *globals) *cli.Command {
	var name string

	return &cli.Command{
		Name:      "struct",
		Usage:     "Print a packed C struct matching the record layout",
		ArgsUsage: "FILE",
		Before:    g.before,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "struct name", Value: "Record", Destination: &name},
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
			return f.Layout().RenderStruct(stdout(cmd), name)
		},
	}
}
