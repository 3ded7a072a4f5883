package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jmgilman/go/archive"
)

var (
	// packBaseDir is the directory pack inputs are resolved against.
	packBaseDir string

	// packFormat selects the codec for the produced archive.
	packFormat string

	packCmd = &cobra.Command{
		Use:   "pack <output> <file>...",
		Short: "Pack files into a new archive",
		Long: `pack creates a new archive containing the given files and directories,
resolved relative to the base directory. Directories are added recursively.
An existing output file is overwritten. Zip packing is not supported.`,
		Args: cobra.MinimumNArgs(2),
		RunE: runPack,
	}
)

func init() {
	packCmd.Flags().StringVarP(&packBaseDir, "base", "b", ".", "base directory for input paths")
	packCmd.Flags().StringVarP(&packFormat, "format", "f", "tgz", "archive format (zip, tgz, bz2)")
}

func runPack(cmd *cobra.Command, args []string) error {
	out, files := args[0], args[1:]
	log.Info("packing", "output", out, "format", packFormat, "files", len(files))

	packed, err := archive.Pack(out, files, packBaseDir, archive.Format(packFormat))
	if err != nil {
		return err
	}

	fmt.Printf("packed %d inputs into %s\n", len(files), packed)
	return nil
}
