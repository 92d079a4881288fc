package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/pfsextract/internal/logger"
)

var (
	configFile    string
	logLevel      string
	logFormat     string
	debug         bool
	noColor       bool
	outputSuffix  string
	writeManifest bool

	cfg Config
)

func rootFlags() []cli.Flag {
	return append(loggingFlags(),
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config.yaml (default: user config dir)",
			Destination: &configFile,
		},
	)
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
		&cli.BoolFlag{
			Name:        "no-color",
			Usage:       "disable colored log output",
			Sources:     cli.EnvVars("NO_COLOR"),
			Destination: &noColor,
		},
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "suffix",
			Usage:       "suffix appended to the input path to name the output directory",
			Value:       defaultOutputSuffix,
			Destination: &outputSuffix,
		},
		&cli.BoolFlag{
			Name:        "manifest",
			Usage:       "write manifest.json with sizes and BLAKE3 digests of every artifact",
			Destination: &writeManifest,
		},
	}
}

// setup loads the config file, applies it beneath explicit flags and installs
// the logger into the context.
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if outputSuffix == "" {
		outputSuffix = defaultOutputSuffix
	}
	var err error
	if cfg, err = LoadConfig(configFile); err != nil {
		return ctx, err
	}
	applyConfig(cmd, cfg)

	level := logger.ParseLevel(logLevel)
	if debug {
		level = logger.ParseLevel("debug")
	}
	log, err := logger.ForFormat(logFormat, os.Stderr, level, !noColor)
	if err != nil {
		return ctx, usageError{err}
	}
	return logger.WithContext(ctx, log), nil
}

// reapplyConfig runs after a subcommand has parsed its own flags, whose
// defaults would otherwise shadow values from the config file.
func reapplyConfig(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	applyConfig(cmd, cfg)
	return ctx, nil
}
