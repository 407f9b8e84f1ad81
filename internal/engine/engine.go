package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"reel/internal/backend"
	"reel/internal/backend/ffmpeg"
	"reel/internal/backend/native"
	"reel/internal/backend/simulated"
	"reel/internal/config"
	"reel/internal/convert"
	"reel/internal/history"
	"reel/internal/logging"
	"reel/internal/preflight"
)

// Recorder persists finished conversion runs.
type Recorder interface {
	Add(ctx context.Context, rec *history.Record) error
}

// Engine dispatches jobs to the best available backend. One job runs at a
// time; a second Start while a run is active returns ErrAlreadyRunning and
// leaves the active run undisturbed.
type Engine struct {
	cfg      *config.Config
	logger   *slog.Logger
	detector *backend.Detector
	drivers  map[backend.Kind]backend.Backend
	recorder Recorder
	forced   backend.Kind

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	last    convert.Event
	hasLast bool
}

// Option customizes engine construction.
type Option func(*Engine)

// WithRecorder persists one history record per finished run.
func WithRecorder(rec Recorder) Option {
	return func(e *Engine) { e.recorder = rec }
}

// WithDetector replaces the default capability detector.
func WithDetector(det *backend.Detector) Option {
	return func(e *Engine) { e.detector = det }
}

// WithBackend registers a driver, replacing any default of the same kind.
func WithBackend(drv backend.Backend) Option {
	return func(e *Engine) { e.drivers[drv.Kind()] = drv }
}

// WithForcedBackend pins dispatch to one backend kind. Runs fail with a
// detection error when that backend is unavailable.
func WithForcedBackend(kind backend.Kind) Option {
	return func(e *Engine) { e.forced = kind }
}

// New constructs an engine with the default driver set.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	e := &Engine{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "engine"),
		detector: backend.NewDetector(cfg, logger),
		drivers: map[backend.Kind]backend.Backend{
			backend.KindNative:    native.New(),
			backend.KindFFmpeg:    ffmpeg.New(cfg, logger),
			backend.KindSimulated: simulated.New(),
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Detect reports backend availability using the engine's detector.
func (e *Engine) Detect(ctx context.Context) backend.Detection {
	return e.detector.Detect(ctx)
}

// run tracks the mutable state of a single conversion. Fields below the
// started timestamp are guarded by Engine.mu.
type run struct {
	job     convert.Job
	events  chan convert.Event
	started time.Time

	kind     backend.Kind
	percent  int
	terminal bool
	final    convert.Event
}

// Start begins converting the job and returns the run's event channel
// immediately. Progress events, exactly one terminal event, and the channel
// close follow in that order. Source validation and backend selection
// happen inside the run, so their failures arrive as terminal events rather
// than errors here.
func (e *Engine) Start(ctx context.Context, job convert.Job) (<-chan convert.Event, error) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return nil, convert.Wrap(convert.ErrAlreadyRunning, "start", "a conversion is already in progress", nil)
	}

	runCtx, cancel := context.WithCancel(ctx)
	r := &run{
		job:     job,
		events:  make(chan convert.Event, e.eventBuffer()),
		started: time.Now(),
	}
	e.running = true
	e.cancel = cancel
	e.last = convert.Event{}
	e.hasLast = false
	e.wg.Add(1)
	e.mu.Unlock()

	go e.runJob(runCtx, r)
	return r.events, nil
}

func (e *Engine) eventBuffer() int {
	if e.cfg != nil && e.cfg.Conversion.EventBuffer > 0 {
		return e.cfg.Conversion.EventBuffer
	}
	return 1
}

// Cancel requests cancellation of the active run, if any. The terminal
// Failed event arrives on the run's channel once the backend stops.
func (e *Engine) Cancel() {
	e.mu.Lock()
	cancel := e.cancel
	e.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Stop cancels any active run and waits for it to finish.
func (e *Engine) Stop() {
	e.Cancel()
	e.wg.Wait()
}

// Running reports whether a conversion is in flight.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Status returns the latest event observed for the most recent run and
// whether that run has reached its terminal event.
func (e *Engine) Status() (convert.Event, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.hasLast {
		return convert.Event{}, false
	}
	return e.last, e.last.Terminal()
}

func (e *Engine) runJob(ctx context.Context, r *run) {
	defer e.wg.Done()

	logger := e.logger.With(logging.String(logging.FieldJobID, r.job.ID))

	outputPath, runErr := e.dispatch(ctx, r, logger)

	var final convert.Event
	if runErr != nil {
		final = convert.Failed(runErr, e.runPercent(r))
	} else {
		final = convert.Completed(outputPath)
	}
	e.publish(r, final)

	e.mu.Lock()
	final = r.final
	e.mu.Unlock()

	e.record(r, final, logger)
	e.logOutcome(r, final, logger)

	e.mu.Lock()
	cancel := e.cancel
	e.running = false
	e.cancel = nil
	e.mu.Unlock()
	if cancel != nil {
		cancel()
	}

	close(r.events)
}

func (e *Engine) dispatch(ctx context.Context, r *run, logger *slog.Logger) (string, error) {
	if err := validateSource(r.job); err != nil {
		return "", err
	}
	if check := preflight.CheckDirectoryAccess("output directory", filepath.Dir(r.job.OutputPath)); !check.Passed {
		return "", convert.Wrap(convert.ErrInvalidJob, "start", check.Detail, nil)
	}

	detection := e.detector.Detect(ctx)
	kind := detection.Selected
	if e.forced != "" {
		kind = e.forced
	}
	if _, err := detection.Require(kind); err != nil {
		return "", err
	}
	drv, ok := e.drivers[kind]
	if !ok {
		return "", convert.Wrap(convert.ErrDetection, "dispatch", fmt.Sprintf("no driver registered for backend %q", kind), nil)
	}

	e.mu.Lock()
	r.kind = kind
	e.mu.Unlock()

	logger.Info("conversion started",
		logging.String(logging.FieldBackend, string(kind)),
		logging.String("source", r.job.SourcePath),
		logging.String("format", string(r.job.Format)),
		logging.String("output", r.job.OutputPath),
	)

	return drv.Convert(ctx, r.job, func(evt convert.Event) {
		e.publish(r, evt)
	})
}

func validateSource(job convert.Job) error {
	info, err := os.Stat(job.SourcePath)
	if err != nil {
		return convert.Wrap(convert.ErrInvalidJob, "start", "source file vanished or is unreadable", err)
	}
	if info.IsDir() || !info.Mode().IsRegular() {
		return convert.Wrap(convert.ErrInvalidJob, "start", fmt.Sprintf("source %q is not a regular file", job.SourcePath), nil)
	}
	return nil
}

// publish applies the event-stream contract: percent never decreases,
// nothing follows the first terminal event, and a missing ETA is estimated
// from elapsed time.
func (e *Engine) publish(r *run, evt convert.Event) {
	e.mu.Lock()
	if r.terminal {
		e.mu.Unlock()
		return
	}
	if evt.Percent < r.percent {
		evt.Percent = r.percent
	} else {
		r.percent = evt.Percent
	}
	if evt.Terminal() {
		r.terminal = true
		r.final = evt
	} else if evt.ETA <= 0 {
		evt.ETA = estimateETA(r.started, evt.Percent)
	}
	e.last = evt
	e.hasLast = true
	e.mu.Unlock()

	if evt.Terminal() {
		e.deliverTerminal(r, evt)
		return
	}

	select {
	case r.events <- evt:
	default:
		// Buffer full: evict the oldest pending event so a lagging consumer
		// delays the driver at most, never wedges it.
		select {
		case <-r.events:
		default:
		}
		select {
		case r.events <- evt:
		default:
		}
	}
}

// deliverTerminal lands the terminal event even when the buffer is full,
// discarding stale progress to make room. The engine is the only sender, so
// the loop is bounded by the buffer size.
func (e *Engine) deliverTerminal(r *run, evt convert.Event) {
	for {
		select {
		case r.events <- evt:
			return
		default:
		}
		select {
		case <-r.events:
		default:
		}
	}
}

func (e *Engine) runPercent(r *run) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return r.percent
}

func (e *Engine) runKind(r *run) backend.Kind {
	e.mu.Lock()
	defer e.mu.Unlock()
	return r.kind
}

func (e *Engine) record(r *run, final convert.Event, logger *slog.Logger) {
	if e.recorder == nil {
		return
	}

	rec := &history.Record{
		JobID:      r.job.ID,
		SourcePath: r.job.SourcePath,
		Format:     string(r.job.Format),
		Settings:   r.job.Settings.Describe(),
		Backend:    string(e.runKind(r)),
		Status:     history.StatusForKind(final.Kind()),
		SourceSize: r.job.SourceSize,
		StartedAt:  r.started.UTC(),
		FinishedAt: time.Now().UTC(),
	}
	if final.Failed() {
		rec.ErrorKind = string(final.Kind())
		rec.ErrorDetail = final.Err.Error()
	} else {
		rec.OutputPath = final.OutputPath
		if info, err := os.Stat(final.OutputPath); err == nil {
			rec.OutputSize = info.Size()
		}
	}

	// The run context may already be cancelled; history still gets written.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.recorder.Add(ctx, rec); err != nil {
		logger.Warn("failed to record conversion history", logging.Error(err))
	}
}

func (e *Engine) logOutcome(r *run, final convert.Event, logger *slog.Logger) {
	elapsed := time.Since(r.started).Round(time.Millisecond)
	switch final.Kind() {
	case convert.KindNone:
		logger.Info("conversion completed",
			logging.String("output", final.OutputPath),
			logging.Duration("elapsed", elapsed),
		)
	case convert.KindCancelled:
		logger.Info("conversion cancelled",
			logging.Int(logging.FieldPercent, final.Percent),
			logging.Duration("elapsed", elapsed),
		)
	default:
		logger.Error("conversion failed",
			logging.Error(final.Err),
			logging.String("error_kind", string(final.Kind())),
			logging.Duration("elapsed", elapsed),
		)
	}
}

func estimateETA(started time.Time, percent int) time.Duration {
	if percent <= 0 || percent >= 100 {
		return 0
	}
	elapsed := time.Since(started)
	if elapsed <= 0 {
		return 0
	}
	return time.Duration(float64(elapsed) * float64(100-percent) / float64(percent))
}
