package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/pfsextract/internal/input"
	"github.com/samcharles93/pfsextract/internal/logger"
	"github.com/samcharles93/pfsextract/internal/sink"
	"github.com/samcharles93/pfsextract/pkg/pfs"
)

type extractOptions struct {
	input    string
	output   string
	suffix   string
	force    bool
	manifest bool
}

func (o extractOptions) outputDir() string {
	if o.output != "" {
		return o.output
	}
	return o.input + o.suffix
}

func extractCmd() *cli.Command {
	var (
		output string
		force  bool
	)

	return &cli.Command{
		Name:      "extract",
		Usage:     "Extract every section of a PFS image into a directory",
		ArgsUsage: "<pfs_file>",
		Before:    reapplyConfig,
		Flags: append(outputFlags(),
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "output directory (default: <pfs_file><suffix>)",
				Destination: &output,
			},
			&cli.BoolFlag{
				Name:        "force",
				Usage:       "write into an existing output directory",
				Destination: &force,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return usageError{errors.New("extract requires exactly one <pfs_file>")}
			}
			return runExtract(ctx, extractOptions{
				input:    cmd.Args().First(),
				output:   output,
				suffix:   outputSuffix,
				force:    force,
				manifest: writeManifest,
			})
		},
	}
}

func runExtract(ctx context.Context, opts extractOptions) (err error) {
	log := logger.FromContext(ctx)

	img, err := input.Load(opts.input)
	if err != nil {
		return err
	}
	defer func() { _ = img.Close() }()

	dir, err := sink.CreateDir(opts.outputDir(), opts.force)
	if err != nil {
		return err
	}
	defer func() { _ = dir.Close() }()

	var (
		target   pfs.Sink = dir
		manifest *sink.Manifest
	)
	if opts.manifest {
		manifest = sink.NewManifest(dir)
		target = manifest
	}

	log.Info("extracting", "input", opts.input, "size", len(img.Data), "output", dir.Path())
	res, extractErr := pfs.NewExtractor(target, log).Extract(img.Data)

	// Whatever was written before a failure is still described.
	if manifest != nil {
		if err := writeManifestFile(dir, manifest, opts.input); err != nil {
			return errors.Join(extractErr, err)
		}
	}
	if extractErr != nil {
		return fmt.Errorf("extract %s: %w", opts.input, extractErr)
	}

	log.Info("extraction complete",
		"artifacts", res.Artifacts,
		"warnings", len(res.Warnings),
		"output", dir.Path(),
	)
	return nil
}

func writeManifestFile(dir *sink.Dir, m *sink.Manifest, source string) error {
	b, err := m.Marshal(source)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := dir.Write(sink.ManifestName, b); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
