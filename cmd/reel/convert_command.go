package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"reel/internal/backend"
	"reel/internal/config"
	"reel/internal/convert"
	"reel/internal/engine"
	"reel/internal/media"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var (
		formatFlag     string
		resolutionFlag string
		bitrateFlag    string
		fpsFlag        string
		outputDirFlag  string
		backendFlag    string
	)

	cmd := &cobra.Command{
		Use:   "convert <source>",
		Short: "Convert a video file without the interactive screen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			sourcePath, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve source path: %w", err)
			}

			format, err := media.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			settings, err := buildSettings(resolutionFlag, bitrateFlag, fpsFlag)
			if err != nil {
				return err
			}

			outputDir := cfg.Paths.OutputDir
			if outputDirFlag != "" {
				outputDir, err = config.ExpandPath(outputDirFlag)
				if err != nil {
					return fmt.Errorf("resolve output directory: %w", err)
				}
			}

			var opts []engine.Option
			if backendFlag != "" {
				kind, ok := backend.ParseKind(backendFlag)
				if !ok {
					return fmt.Errorf("unknown backend %q (native, ffmpeg, simulated)", backendFlag)
				}
				opts = append(opts, engine.WithForcedBackend(kind))
			}

			job, err := convert.NewJob(sourcePath, format, settings, outputDir)
			if err != nil {
				return err
			}

			logger, err := ctx.fileLogger()
			if err != nil {
				return err
			}
			eng, store, err := ctx.openEngine(logger, opts...)
			if err != nil {
				return err
			}
			defer store.Close()
			defer eng.Stop()

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runHeadless(cmd, eng, runCtx, job)
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "to", "t", "mp4", "Target format (mp4, mkv, avi, mov, webm)")
	cmd.Flags().StringVar(&resolutionFlag, "resolution", "", "Target resolution (original, 720p, 1080p, 4k)")
	cmd.Flags().StringVar(&bitrateFlag, "bitrate", "", "Quality tier (auto, low, medium, high)")
	cmd.Flags().StringVar(&fpsFlag, "fps", "", "Target frame rate (original, 24, 30, 60)")
	cmd.Flags().StringVarP(&outputDirFlag, "output", "o", "", "Output directory (defaults to the configured one)")
	cmd.Flags().StringVar(&backendFlag, "backend", "", "Pin the conversion backend instead of auto-selecting")

	return cmd
}

func buildSettings(resolution, bitrate, fps string) (media.Settings, error) {
	settings := media.DefaultSettings()
	var err error
	if resolution != "" {
		if settings.Resolution, err = media.ParseResolution(resolution); err != nil {
			return media.Settings{}, err
		}
	}
	if bitrate != "" {
		if settings.Bitrate, err = media.ParseBitrate(bitrate); err != nil {
			return media.Settings{}, err
		}
	}
	if fps != "" {
		if settings.FrameRate, err = media.ParseFrameRate(fps); err != nil {
			return media.Settings{}, err
		}
	}
	return settings, nil
}

// runHeadless starts the job and prints one line per stage until the
// terminal event arrives. Interrupts cancel through the run context; the
// resulting Cancelled event surfaces as the command error.
func runHeadless(cmd *cobra.Command, eng *engine.Engine, runCtx context.Context, job convert.Job) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Converting %s to %s (%s)\n", filepath.Base(job.SourcePath), job.Format.Name(), job.Settings.Describe())

	events, err := eng.Start(runCtx, job)
	if err != nil {
		return err
	}

	started := time.Now()
	var final convert.Event
	lastStage := convert.Stage("")
	for event := range events {
		if event.Terminal() {
			final = event
			continue
		}
		if event.Stage != lastStage {
			lastStage = event.Stage
			fmt.Fprintf(out, "  %s (%d%%)\n", event.Stage.Label(), event.Percent)
		}
	}

	if final.Err != nil {
		return final.Err
	}

	line := fmt.Sprintf("Completed %s in %s", final.OutputPath, time.Since(started).Round(100*time.Millisecond))
	if info, err := os.Stat(final.OutputPath); err == nil {
		line += fmt.Sprintf(" (%s)", humanize.Bytes(uint64(info.Size())))
	}
	fmt.Fprintln(out, line)
	return nil
}
