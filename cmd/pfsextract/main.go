package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

const usageText = `pfsextract - extracts contents of Dell firmware update files in PFS format

Usage: pfsextract pfs_file.bin`

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:      "pfsextract",
		Usage:     "Extract Dell PFS firmware update containers",
		ArgsUsage: "<pfs_file>",
		Flags:     rootFlags(),
		Before:    setup,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				_, _ = fmt.Fprintln(cmd.Root().Writer, usageText)
				return errUsage
			}
			return runExtract(ctx, extractOptions{
				input:    cmd.Args().First(),
				suffix:   outputSuffix,
				manifest: writeManifest,
			})
		},
		Commands: []*cli.Command{
			extractCmd(),
			inspectCmd(),
			serveCmd(),
			versionCmd(),
		},
	}
}
