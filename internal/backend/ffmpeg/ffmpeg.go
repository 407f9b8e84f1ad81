package ffmpeg

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"reel/internal/backend"
	"reel/internal/config"
	"reel/internal/convert"
	"reel/internal/logging"
	"reel/internal/media/ffprobe"
)

var newCommand = exec.Command

// errTailLines bounds how much diagnostic output a failure message carries.
const errTailLines = 8

// Driver runs conversions through an external ffmpeg binary.
type Driver struct {
	binary      string
	probeBinary string
	grace       time.Duration
	logger      *slog.Logger
}

var _ backend.Backend = (*Driver)(nil)

// New builds the ffmpeg driver from configuration.
func New(cfg *config.Config, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Driver{
		binary:      cfg.Conversion.FFmpegBinary,
		probeBinary: cfg.Conversion.FFprobeBinary,
		grace:       cfg.CancelGrace(),
		logger:      logging.NewComponentLogger(logger, "ffmpeg"),
	}
}

// Kind implements backend.Backend.
func (d *Driver) Kind() backend.Kind { return backend.KindFFmpeg }

// Convert runs ffmpeg against the job and streams parsed progress through
// notify. Cancellation signals the child and waits a bounded grace period
// before killing it. Partial output is removed when the run ends in an
// error.
func (d *Driver) Convert(ctx context.Context, job convert.Job, notify func(convert.Event)) (outputPath string, err error) {
	notify(convert.Progress(convert.StageAnalyzing, 0, "Starting FFmpeg conversion..."))

	parser := &progressParser{}
	if result, probeErr := ffprobe.Inspect(ctx, d.probeBinary, job.SourcePath); probeErr == nil {
		parser.total = result.Duration()
		notify(convert.Progress(convert.StageAnalyzing, 0,
			fmt.Sprintf("Analyzing video file (duration %s)...", parser.total.Round(time.Second))))
	} else {
		d.logger.Debug("ffprobe unavailable, relying on progress stream",
			logging.String(logging.FieldJobID, job.ID), logging.Error(probeErr))
	}

	cmd := newCommand(d.binary, buildArgs(job)...)
	stdout, pipeErr := cmd.StdoutPipe()
	if pipeErr != nil {
		return "", convert.Wrap(convert.ErrBackend, "ffmpeg", "stdout pipe", pipeErr)
	}
	cmd.Stderr = cmd.Stdout
	if startErr := cmd.Start(); startErr != nil {
		return "", convert.Wrap(convert.ErrBackend, "ffmpeg", "start ffmpeg", startErr)
	}
	defer func() {
		if err != nil {
			os.Remove(job.OutputPath)
		}
	}()

	waitDone := make(chan struct{})
	defer close(waitDone)
	go func() {
		select {
		case <-ctx.Done():
			terminate(cmd.Process, d.grace)
		case <-waitDone:
		}
	}()

	stage := convert.StageAnalyzing
	lastPercent := 0
	var tail []string
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := scanner.Text()
		if parser.parseLine(line) {
			percent, ok := parser.percent()
			if !ok {
				continue
			}
			lastPercent = percent
			var evt convert.Event
			if parser.ended {
				stage = convert.StageFinalizing
				evt = convert.Progress(stage, percent, "Finalizing output file...")
			} else {
				stage = convert.StageProcessingVideo
				evt = convert.Progress(stage, percent, fmt.Sprintf("Converting video... %d%%", percent))
			}
			evt.ETA = parser.eta()
			notify(evt)
			continue
		}
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			tail = append(tail, trimmed)
			if len(tail) > errTailLines {
				tail = tail[1:]
			}
			notify(convert.Progress(stage, lastPercent, trimmed))
		}
	}
	if scanErr := scanner.Err(); scanErr != nil && ctx.Err() == nil {
		d.logger.Warn("ffmpeg output stream error",
			logging.String(logging.FieldJobID, job.ID), logging.Error(scanErr))
	}

	waitErr := cmd.Wait()
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if waitErr != nil {
		detail := fmt.Sprintf("conversion failed: %v", waitErr)
		if len(tail) > 0 {
			detail = fmt.Sprintf("%s: %s", detail, strings.Join(tail, "; "))
		}
		return "", convert.Wrap(convert.ErrBackend, "ffmpeg", detail, nil)
	}
	return job.OutputPath, nil
}
