package main

import (
	"fmt"
	"os"

	"relocd/internal/config"
	"relocd/internal/log"

	"github.com/spf13/cobra"
)

var (
	version = "dev"

	cfgFile string
	debug   bool
	cfg     *config.Config
)

// Entry point for the application
func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "relocd",
		Short:   "A file relocation tool",
		Long:    `Relocd moves files to where they belong: one at a time from the command line, or continuously by watching directories and applying rules.`,
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var err error
			if cfgFile != "" {
				cfg, err = config.LoadConfigFile(cfgFile)
			} else {
				cfg, err = config.LoadConfig()
			}
			if err != nil {
				log.Warnf("could not load config: %v, using defaults", err)
				cfg = config.New()
			}

			if debug {
				cfg.Settings.LogLevel = "debug"
			}
			log.SetLevel(cfg.Settings.LogLevel)
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/relocd/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(NewMoveCmd())
	rootCmd.AddCommand(NewWatchCmd())

	return rootCmd
}
