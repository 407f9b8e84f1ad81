package backend

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"reel/internal/config"
	"reel/internal/convert"
	"reel/internal/logging"
)

// Status reports the availability of one driver kind.
type Status struct {
	Kind      Kind
	Available bool
	Detail    string
}

// Detection is the result of one probe pass over all drivers, ordered by
// selection priority. Selected is always set because Simulated never fails.
type Detection struct {
	Statuses []Status
	Selected Kind
}

// Status returns the recorded status for kind.
func (d Detection) Status(kind Kind) (Status, bool) {
	for _, status := range d.Statuses {
		if status.Kind == kind {
			return status, true
		}
	}
	return Status{}, false
}

// Require returns the status for kind, or a detection error when the kind
// was not probed or is unavailable.
func (d Detection) Require(kind Kind) (Status, error) {
	status, ok := d.Status(kind)
	if !ok {
		return Status{}, convert.Wrap(convert.ErrDetection, "select backend", fmt.Sprintf("unknown backend %q", kind), nil)
	}
	if !status.Available {
		return Status{}, convert.Wrap(convert.ErrDetection, "select backend", fmt.Sprintf("backend %s unavailable: %s", kind.Label(), status.Detail), nil)
	}
	return status, nil
}

// Detector probes driver availability. Probes are bounded so detection can
// run synchronously from CLI paths; the TUI still runs it off the update
// loop.
type Detector struct {
	ffmpegBinary   string
	probeTimeout   time.Duration
	forceSimulated bool
	disableNative  bool
	logger         *slog.Logger

	lookPath func(string) (string, error)
	runProbe func(ctx context.Context, binary string, args ...string) (string, error)
}

// NewDetector builds a detector using real OS lookups.
func NewDetector(cfg *config.Config, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Detector{
		ffmpegBinary:   cfg.Conversion.FFmpegBinary,
		probeTimeout:   cfg.ProbeTimeout(),
		forceSimulated: cfg.Conversion.ForceSimulated,
		disableNative:  cfg.Conversion.DisableNative,
		logger:         logging.NewComponentLogger(logger, "detector"),
		lookPath:       exec.LookPath,
		runProbe:       runVersionProbe,
	}
}

// Detect probes every driver and returns their statuses with the selected
// kind. Probe failures exclude a driver; they never fail detection itself.
func (d *Detector) Detect(ctx context.Context) Detection {
	if d.forceSimulated {
		detection := Detection{
			Statuses: []Status{
				{Kind: KindNative, Detail: "skipped: simulated mode forced"},
				{Kind: KindFFmpeg, Detail: "skipped: simulated mode forced"},
				{Kind: KindSimulated, Available: true, Detail: "always available"},
			},
			Selected: KindSimulated,
		}
		d.logger.Debug("backend detection forced to simulated")
		return detection
	}

	statuses := []Status{
		d.checkNative(),
		d.checkFFmpeg(ctx),
		{Kind: KindSimulated, Available: true, Detail: "always available"},
	}
	detection := Detection{Statuses: statuses, Selected: KindSimulated}
	for _, status := range statuses {
		if status.Available {
			detection.Selected = status.Kind
			break
		}
	}
	d.logger.Debug("backend detection finished",
		logging.String("selected", string(detection.Selected)))
	return detection
}

func (d *Detector) checkNative() Status {
	if d.disableNative {
		return Status{Kind: KindNative, Detail: "disabled by configuration"}
	}
	return Status{Kind: KindNative, Available: true, Detail: "in-process converter"}
}

func (d *Detector) checkFFmpeg(ctx context.Context) Status {
	status := Status{Kind: KindFFmpeg}
	binary := strings.TrimSpace(d.ffmpegBinary)
	if binary == "" {
		binary = "ffmpeg"
	}
	resolved, err := d.lookPath(binary)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", binary)
		return status
	}
	probeCtx, cancel := context.WithTimeout(ctx, d.probeTimeout)
	defer cancel()
	output, err := d.runProbe(probeCtx, resolved, "-version")
	if err != nil {
		if probeCtx.Err() != nil {
			status.Detail = fmt.Sprintf("probe timed out after %s", d.probeTimeout)
			return status
		}
		status.Detail = fmt.Sprintf("probe failed: %v", err)
		return status
	}
	status.Available = true
	status.Detail = versionLine(output, resolved)
	return status
}

func runVersionProbe(ctx context.Context, binary string, args ...string) (string, error) {
	output, err := exec.CommandContext(ctx, binary, args...).Output()
	return string(output), err
}

// versionLine extracts the first line of a -version banner for display.
func versionLine(output, fallback string) string {
	line := output
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return fallback
	}
	return line
}
