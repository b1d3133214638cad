package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"relocd/internal/log"
	"relocd/internal/watch"

	"github.com/spf13/cobra"
)

// NewWatchCmd creates the watch command
func NewWatchCmd() *cobra.Command {
	var dirs []string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch directories and relocate matching files",
		Long: `Watch the configured directories (or the ones given with --dir) and
move new files to their rule targets as they appear. Runs until
interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(dirs) > 0 {
				cfg.Watch.Directories = dirs
			}
			if len(cfg.Watch.Rules) == 0 {
				return fmt.Errorf("no rules configured, nothing to do")
			}

			daemon, err := watch.NewDaemon(cfg)
			if err != nil {
				return fmt.Errorf("error creating daemon: %w", err)
			}

			daemon.SetCallback(func(src, dest string, err error) {
				if err != nil {
					log.LogWithFields(log.F("file", src), log.F("error", err)).Error("relocation failed")
					return
				}
				log.LogWithFields(log.F("from", src), log.F("to", dest)).Info("relocated")
			})

			if err := daemon.Start(); err != nil {
				return fmt.Errorf("error starting daemon: %w", err)
			}

			status := daemon.Status()
			fmt.Printf("Watching %d directories. Press Ctrl+C to stop.\n", len(status.WatchDirectories))
			if cfg.Settings.DryRun {
				fmt.Println("Dry run mode: files will not actually be moved.")
			}

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			<-sigChan

			daemon.Stop()

			status = daemon.Status()
			fmt.Printf("Stopped. %d files moved, %d failed.\n", status.FilesProcessed, status.FilesFailed)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&dirs, "dir", "d", nil, "Directories to watch (overrides the configured list)")

	return cmd
}
