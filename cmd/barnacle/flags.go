package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/EQt/barnacleboy/internal/logger"
	"github.com/EQt/barnacleboy/pkg/merfish"
)

// globals holds the flags shared by every subcommand.
type globals struct {
	configPath  string
	byteOrder   string
	noSizeCheck bool
	strictBool  bool
	noMmap      bool
	jobs        int
	logLevel    string
	logFormat   string
	debug       bool
}

func (g *globals) flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config.yaml",
			Sources:     cli.EnvVars(envConfigPath),
			Destination: &g.configPath,
		},
		&cli.StringFlag{
			Name:        "byte-order",
			Usage:       "byte order of the input (native, little, big)",
			Value:       "native",
			Destination: &g.byteOrder,
		},
		&cli.BoolFlag{
			Name:        "no-size-check",
			Usage:       "do not require the file size to match the header (diagnostics only)",
			Destination: &g.noSizeCheck,
		},
		&cli.BoolFlag{
			Name:        "strict-bool",
			Usage:       "reject corruption flag bytes other than 0 and 1",
			Destination: &g.strictBool,
		},
		&cli.BoolFlag{
			Name:        "no-mmap",
			Usage:       "read files into memory instead of mapping them",
			Destination: &g.noMmap,
		},
		&cli.IntFlag{
			Name:        "jobs",
			Aliases:     []string{"j"},
			Usage:       "files processed in parallel (0 = GOMAXPROCS)",
			Destination: &g.jobs,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &g.logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (console, json, text)",
			Value:       "console",
			Destination: &g.logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &g.debug,
		},
	}
}

// before loads the config file, applies it under explicit flags and installs
// the logger in the context.
func (g *globals) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := LoadConfig(g.configFile())
	if err != nil {
		return ctx, err
	}
	applyConfig(cmd, cfg, g)
	if g.debug {
		g.logLevel = "debug"
	}
	log, err := logger.FromFlags(os.Stderr, g.logLevel, g.logFormat)
	if err != nil {
		return ctx, err
	}
	return logger.WithContext(ctx, log), nil
}

func (g *globals) configFile() string {
	if g.configPath != "" {
		return g.configPath
	}
	return defaultConfigPath()
}

func (g *globals) openOptions() ([]merfish.Option, error) {
	order, err := merfish.ParseByteOrder(g.byteOrder)
	if err != nil {
		return nil, err
	}
	opts := []merfish.Option{merfish.WithByteOrder(order)}
	if g.noSizeCheck {
		opts = append(opts, merfish.WithoutSizeCheck())
	}
	if g.strictBool {
		opts = append(opts, merfish.WithStrictBool())
	}
	if g.noMmap {
		opts = append(opts, merfish.WithoutMmap())
	}
	return opts, nil
}

func (g *globals) open(ctx context.Context, path string) (*merfish.File, error) {
	opts, err := g.openOptions()
	if err != nil {
		return nil, err
	}
	f, err := merfish.Open(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	log := logger.FromContext(ctx)
	log.Debug("opened file", "file", path, "entries", f.Len(), "record_size", f.Header().RecordSize(), "mapped", f.Mapped())
	if g.noSizeCheck && uint32(f.Len()) != f.Header().NumEntries {
		log.Warn("file is shorter than its header claims", "file", path,
			"entries", f.Header().NumEntries, "present", f.Len())
	}
	return f, nil
}

func fileArgs(cmd *cli.Command, atMostOne bool) ([]string, error) {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		return nil, fmt.Errorf("%s: missing input file", cmd.Name)
	}
	if atMostOne && len(args) > 1 {
		return nil, fmt.Errorf("%s: expected one input file, got %d", cmd.Name, len(args))
	}
	return args, nil
}
