package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"relocd/internal/move"
	"relocd/internal/progress"
	"relocd/pkg/types"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// NewMoveCmd creates the move command
func NewMoveCmd() *cobra.Command {
	var (
		destName     string
		versionIndex int
		noProgress   bool
		dryRun       bool
	)

	cmd := &cobra.Command{
		Use:   "move SOURCE DESTDIR",
		Short: "Move a single file to a destination directory",
		Long: `Move one file into the given directory. A plain rename is used when
source and destination share a disk; otherwise the file is copied in
chunks and the original deleted afterwards.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]
			destDir := args[1]

			settings := cfg.Settings
			if cmd.Flags().Changed("dry-run") {
				settings.DryRun = dryRun
			}

			name := destName
			if name == "" {
				name = filepath.Base(source)
			}
			suffix := filepath.Ext(name)
			base := strings.TrimSuffix(name, suffix)

			rec := move.NewRecord(source, destDir, base, suffix)
			mover := move.New(rec, settings)
			if cmd.Flags().Changed("version") {
				mover.SetVersionIndex(versionIndex)
			}

			if settings.DryRun {
				fmt.Printf("Dry run: would move %s (%s) -> %s\n",
					mover.CurrentPath(),
					humanize.Bytes(uint64(mover.FileSize())),
					filepath.Join(mover.MoveToDirectory(), mover.DesiredDestName()))
				return nil
			}

			if !noProgress {
				mover.SetObserver(progress.NewConsole(os.Stdout, filepath.Base(source)))
			}

			ok := mover.Run(cmd.Context())

			result := types.MoveResult{
				SourcePath:      source,
				DestinationPath: rec.Path(),
				Status:          mover.Status().String(),
				Moved:           ok,
			}
			if !ok {
				result.Error = fmt.Errorf("move finished with status %s", result.Status)
				fmt.Printf("Failed: %s (%s)\n", result.SourcePath, result.Status)
				return result.Error
			}

			fmt.Printf("%s: %s -> %s\n", result.Status, result.SourcePath, result.DestinationPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&destName, "name", "", "Destination filename (default is the source filename)")
	cmd.Flags().IntVar(&versionIndex, "version", 0, "Version index for a duplicate destination name")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the progress bar")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would be done without moving anything")

	return cmd
}
