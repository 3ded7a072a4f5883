package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jmgilman/go/archive"
	"github.com/jmgilman/go/fs/billy"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"

	// destDir is where the archive is unpacked.
	destDir string

	rootCmd = &cobra.Command{
		Use:   "archive <file>",
		Short: "Unpack an archive into a single top-level directory",
		Long: `archive unpacks zip, tar.gz, and tar.bz2 archives, normalizing the result
into a single top-level directory regardless of how the archive was laid out.

Archives with multiple entries at their root are extracted inside a wrapper
directory named after the archive. On success the resolved directory, the
detected format tag, and a recursive listing of the result are printed.`,
		Args: cobra.ExactArgs(1),
		RunE: runUnpack,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&destDir, "dest", "d", ".", "destination directory")
	rootCmd.AddCommand(packCmd)
}

// Execute runs the root command. Any failure exits the process non-zero with
// the error message surfaced.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

func runUnpack(cmd *cobra.Command, args []string) error {
	archivePath := args[0]
	log.Info("unpacking", "archive", archivePath, "dest", destDir)

	top, format, err := archive.Unpack(archivePath, destDir)
	if err != nil {
		return err
	}

	fmt.Printf("extracted at %s as %s\n", top, format)
	return listTree(top)
}

// listTree prints a recursive listing (mode, size, path) of the extracted
// result, relative to the resolved top-level directory.
func listTree(root string) error {
	fsys := billy.NewLocal()
	return fsys.Walk(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(filepath.Dir(root), path)
		if err != nil {
			return err
		}

		fmt.Printf("%s %8d %s\n", info.Mode(), info.Size(), rel)
		return nil
	})
}
