package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/pfsextract/internal/input"
	"github.com/samcharles93/pfsextract/internal/logger"
	"github.com/samcharles93/pfsextract/pkg/pfs"
)

func inspectCmd() *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:      "inspect",
		Usage:     "Print the structure of a PFS image without writing anything",
		ArgsUsage: "<pfs_file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print the decoded tree as JSON",
				Destination: &asJSON,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return usageError{errors.New("inspect requires exactly one <pfs_file>")}
			}
			path := cmd.Args().First()

			img, err := input.Load(path)
			if err != nil {
				return err
			}
			defer func() { _ = img.Close() }()

			tree, err := pfs.Decode(img.Data, false, logger.FromContext(ctx))
			if err != nil {
				return fmt.Errorf("inspect %s: %w", path, err)
			}

			w := cmd.Root().Writer
			if asJSON {
				b, err := json.MarshalIndent(tree, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(w, "%s\n", b)
				return err
			}
			printTree(w, path, tree)
			return nil
		},
	}
}

func printTree(w io.Writer, name string, t *pfs.Tree) {
	c := t.Container
	fmt.Fprintf(w, "%s\n", name)
	fmt.Fprintf(w, "  header: magic=%s version=%d data_size=0x%X\n", c.Header.Magic, c.Header.Version, c.Header.DataSize)
	fmt.Fprintf(w, "  footer: magic=%s data_size=0x%X checksum=0x%08X\n", c.Footer.Magic, c.Footer.DataSize, c.Footer.Checksum)
	printSections(w, t, 1)

	warnings := t.Warnings()
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintf(w, "warnings:\n")
	for _, wn := range warnings {
		fmt.Fprintf(w, "  %s\n", wn)
	}
}

func printSections(w io.Writer, t *pfs.Tree, depth int) {
	indent := strings.Repeat("  ", depth)
	for i := range t.Sections {
		n := &t.Sections[i]
		h := &n.Header
		fmt.Fprintf(w, "%ssection %d @0x%X guid=%s version=%q\n", indent, n.Index, n.Offset, h.GUID1, n.Version)
		fmt.Fprintf(w, "%s  data=0x%X sign=0x%X meta=0x%X mtsg=0x%X\n", indent,
			h.DataSize, h.DataSignatureSize, h.MetadataSize, h.MetadataSignatureSize)
		switch {
		case n.NestedError != "":
			fmt.Fprintf(w, "%s  nested: skipped (%s)\n", indent, n.NestedError)
		case n.Nested != nil:
			nt := n.Nested
			fmt.Fprintf(w, "%s  nested: %d chunks -> %s (%d bytes)\n", indent,
				len(nt.Chunks), n.ArtifactName(pfs.KindPayload), nt.PayloadSize)
			for _, ch := range nt.Chunks {
				fmt.Fprintf(w, "%s    chunk section=%d ordinal=%d size=0x%X\n", indent, ch.Section, ch.Ordinal, ch.Size)
			}
		}
	}
}
