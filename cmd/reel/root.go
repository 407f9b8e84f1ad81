package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"reel/internal/config"
	"reel/internal/tui"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var logLevelFlag string
	var simulateFlag bool
	var dirFlag string

	ctx := newCommandContext(&configFlag, &logLevelFlag, &simulateFlag)

	rootCmd := &cobra.Command{
		Use:           "reel",
		Short:         "Interactive video file converter",
		Long:          "Reel converts video files between container formats.\nRun without arguments for the interactive screen, or use `reel convert` for scripted runs.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(ctx, dirFlag)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Override the configured log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&simulateFlag, "simulate", false, "Force the simulated backend")
	rootCmd.Flags().StringVarP(&dirFlag, "dir", "d", "", "Directory to browse on startup")

	rootCmd.AddCommand(newConvertCommand(ctx))
	rootCmd.AddCommand(newBackendsCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(&configFlag))

	return rootCmd
}

func runInteractive(ctx *commandContext, dirFlag string) error {
	if !stdoutIsTerminal() {
		return errors.New("interactive mode needs a terminal; use `reel convert` for scripted runs")
	}

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if dir := strings.TrimSpace(dirFlag); dir != "" {
		expanded, err := config.ExpandPath(dir)
		if err != nil {
			return fmt.Errorf("resolve browse directory: %w", err)
		}
		info, err := os.Stat(expanded)
		if err != nil {
			return fmt.Errorf("browse directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("browse directory %s is not a directory", expanded)
		}
		cfg.UI.StartDir = expanded
	}

	logger, err := ctx.fileLogger()
	if err != nil {
		return err
	}
	eng, store, err := ctx.openEngine(logger)
	if err != nil {
		return err
	}
	defer store.Close()
	defer eng.Stop()

	return tui.Run(cfg, logger, eng)
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
