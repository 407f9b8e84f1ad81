// Package simulated implements the fallback conversion driver. It walks the
// full stage sequence with fixed pacing and never touches the source file,
// which keeps demos and converter-less environments working.
package simulated

import (
	"context"
	"fmt"
	"time"

	"reel/internal/backend"
	"reel/internal/convert"
)

// Driver is the always-available simulated converter.
type Driver struct {
	sleep func(ctx context.Context, d time.Duration) error
}

var _ backend.Backend = (*Driver)(nil)

// New builds the simulated driver.
func New() *Driver {
	return &Driver{sleep: sleepWithContext}
}

// Kind implements backend.Backend.
func (d *Driver) Kind() backend.Kind { return backend.KindSimulated }

// Convert walks the stage sequence with fixed pacing. No output file is
// written; the returned path is where a real conversion would have landed.
func (d *Driver) Convert(ctx context.Context, job convert.Job, notify func(convert.Event)) (string, error) {
	notify(convert.Progress(convert.StageAnalyzing, 0, "Analyzing video file..."))
	if err := d.sleep(ctx, 500*time.Millisecond); err != nil {
		return "", err
	}

	notify(convert.Progress(convert.StageExtractingAudio, 10, "Extracting audio stream..."))
	if err := d.sleep(ctx, time.Second); err != nil {
		return "", err
	}

	for percent := 20; percent <= 80; percent++ {
		notify(convert.Progress(convert.StageProcessingVideo, percent, fmt.Sprintf("Converting video frame %d/100...", percent)))
		if err := d.sleep(ctx, 100*time.Millisecond); err != nil {
			return "", err
		}
	}

	notify(convert.Progress(convert.StageMuxing, 90, "Muxing audio and video streams..."))
	if err := d.sleep(ctx, 500*time.Millisecond); err != nil {
		return "", err
	}

	notify(convert.Progress(convert.StageFinalizing, 100, "Finalizing output file..."))
	if err := d.sleep(ctx, 300*time.Millisecond); err != nil {
		return "", err
	}

	return job.OutputPath, nil
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
