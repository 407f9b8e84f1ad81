package engine_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"reel/internal/backend"
	"reel/internal/config"
	"reel/internal/convert"
	"reel/internal/engine"
	"reel/internal/history"
	"reel/internal/media"
	"reel/internal/testsupport"
)

type stubDriver struct {
	kind    backend.Kind
	steps   []convert.Event
	output  string
	err     error
	started chan struct{}
	release chan struct{}
}

func (d *stubDriver) Kind() backend.Kind { return d.kind }

func (d *stubDriver) Convert(ctx context.Context, job convert.Job, notify func(convert.Event)) (string, error) {
	if d.started != nil {
		close(d.started)
	}
	for _, evt := range d.steps {
		notify(evt)
	}
	if d.release != nil {
		select {
		case <-d.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if d.err != nil {
		return "", d.err
	}
	if d.output != "" {
		return d.output, nil
	}
	return job.OutputPath, nil
}

type stubRecorder struct {
	mu      sync.Mutex
	records []*history.Record
}

func (r *stubRecorder) Add(_ context.Context, rec *history.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

func (r *stubRecorder) all() []*history.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*history.Record(nil), r.records...)
}

func newTestEngine(t *testing.T, drv *stubDriver, opts ...engine.Option) (*engine.Engine, *config.Config) {
	t.Helper()

	cfg := testsupport.NewConfig(t, testsupport.WithForceSimulated())
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	if drv != nil {
		if drv.kind == "" {
			drv.kind = backend.KindSimulated
		}
		opts = append([]engine.Option{engine.WithBackend(drv)}, opts...)
	}
	return engine.New(cfg, nil, opts...), cfg
}

func newTestJob(t *testing.T, cfg *config.Config) convert.Job {
	t.Helper()

	src := testsupport.WriteVideoFile(t, testsupport.BaseDir(cfg), "sample.mov", 4096)
	job, err := convert.NewJob(src, media.FormatMP4, media.DefaultSettings(), cfg.Paths.OutputDir)
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}
	return job
}

func collectEvents(t *testing.T, ch <-chan convert.Event) []convert.Event {
	t.Helper()

	var events []convert.Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case evt, ok := <-ch:
			if !ok {
				return events
			}
			events = append(events, evt)
		case <-timeout:
			t.Fatal("timed out waiting for events")
		}
	}
}

func TestStartCompletesRun(t *testing.T) {
	drv := &stubDriver{
		steps: []convert.Event{
			convert.Progress(convert.StageAnalyzing, 10, "looking at the file"),
			convert.Progress(convert.StageProcessingVideo, 50, "halfway"),
		},
	}
	eng, cfg := newTestEngine(t, drv)
	job := newTestJob(t, cfg)

	events, err := eng.Start(context.Background(), job)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	collected := collectEvents(t, events)
	if len(collected) != 3 {
		t.Fatalf("expected 3 events, got %d", len(collected))
	}

	final := collected[len(collected)-1]
	if !final.Terminal() || final.Err != nil {
		t.Fatalf("expected successful terminal event, got %#v", final)
	}
	if final.OutputPath != job.OutputPath {
		t.Fatalf("expected output %q, got %q", job.OutputPath, final.OutputPath)
	}

	last := 0
	for _, evt := range collected {
		if evt.Percent < last {
			t.Fatalf("percent decreased from %d to %d", last, evt.Percent)
		}
		last = evt.Percent
	}
	if collected[1].ETA <= 0 {
		t.Fatalf("expected engine to estimate ETA for mid-run event, got %v", collected[1].ETA)
	}

	status, terminal := eng.Status()
	if !terminal || !status.Terminal() {
		t.Fatal("expected terminal status after run")
	}
	if eng.Running() {
		t.Fatal("expected engine to be idle after run")
	}
}

func TestStartSecondRunAlreadyRunning(t *testing.T) {
	drv := &stubDriver{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	eng, cfg := newTestEngine(t, drv)
	job := newTestJob(t, cfg)

	events, err := eng.Start(context.Background(), job)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if _, err := eng.Start(context.Background(), job); convert.Classify(err) != convert.KindAlreadyRunning {
		t.Fatalf("expected AlreadyRunning error, got %v", err)
	}

	close(drv.release)
	collected := collectEvents(t, events)
	final := collected[len(collected)-1]
	if !final.Terminal() || final.Err != nil {
		t.Fatalf("expected first run to complete undisturbed, got %#v", final)
	}
}

func TestCancelYieldsCancelledFailure(t *testing.T) {
	rec := &stubRecorder{}
	drv := &stubDriver{
		steps:   []convert.Event{convert.Progress(convert.StageProcessingVideo, 40, "working")},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	eng, cfg := newTestEngine(t, drv, engine.WithRecorder(rec))
	job := newTestJob(t, cfg)

	events, err := eng.Start(context.Background(), job)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	<-drv.started
	eng.Cancel()

	collected := collectEvents(t, events)
	final := collected[len(collected)-1]
	if !final.Failed() {
		t.Fatalf("expected failing terminal event, got %#v", final)
	}
	if final.Kind() != convert.KindCancelled {
		t.Fatalf("expected cancelled kind, got %q", final.Kind())
	}
	if final.Percent != 40 {
		t.Fatalf("expected terminal percent to hold at 40, got %d", final.Percent)
	}

	records := rec.all()
	if len(records) != 1 || records[0].Status != history.StatusCancelled {
		t.Fatalf("expected one cancelled record, got %#v", records)
	}
}

func TestGuardRejectsEventsAfterTerminal(t *testing.T) {
	rogue := convert.Completed("/tmp/rogue.mp4")
	drv := &stubDriver{
		steps: []convert.Event{
			convert.Progress(convert.StageProcessingVideo, 50, "halfway"),
			rogue,
			convert.Progress(convert.StageProcessingVideo, 80, "should never surface"),
		},
	}
	eng, cfg := newTestEngine(t, drv)
	job := newTestJob(t, cfg)

	events, err := eng.Start(context.Background(), job)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	collected := collectEvents(t, events)
	terminals := 0
	for _, evt := range collected {
		if evt.Terminal() {
			terminals++
		}
		if evt.Percent == 80 {
			t.Fatal("event after terminal leaked through")
		}
	}
	if terminals != 1 {
		t.Fatalf("expected exactly one terminal event, got %d", terminals)
	}
	final := collected[len(collected)-1]
	if final.OutputPath != "/tmp/rogue.mp4" {
		t.Fatalf("expected first terminal event to win, got %#v", final)
	}
}

func TestGuardClampsDecreasingPercent(t *testing.T) {
	drv := &stubDriver{
		steps: []convert.Event{
			convert.Progress(convert.StageProcessingVideo, 60, "ahead"),
			convert.Progress(convert.StageProcessingVideo, 30, "behind"),
		},
	}
	eng, cfg := newTestEngine(t, drv)
	job := newTestJob(t, cfg)

	events, err := eng.Start(context.Background(), job)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	collected := collectEvents(t, events)
	if collected[1].Percent != 60 {
		t.Fatalf("expected regressing percent clamped to 60, got %d", collected[1].Percent)
	}
}

func TestStartFailsWhenSourceVanished(t *testing.T) {
	drv := &stubDriver{}
	eng, cfg := newTestEngine(t, drv)
	job := newTestJob(t, cfg)
	if err := os.Remove(job.SourcePath); err != nil {
		t.Fatalf("remove source: %v", err)
	}

	events, err := eng.Start(context.Background(), job)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	collected := collectEvents(t, events)
	if len(collected) != 1 {
		t.Fatalf("expected only the terminal event, got %d events", len(collected))
	}
	if collected[0].Kind() != convert.KindInvalidJob {
		t.Fatalf("expected invalid job kind, got %q", collected[0].Kind())
	}
}

func TestForcedBackendUnavailable(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Conversion.ForceSimulated = true
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	eng := engine.New(cfg, nil, engine.WithForcedBackend(backend.KindNative))
	job := newTestJob(t, cfg)

	events, err := eng.Start(context.Background(), job)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	collected := collectEvents(t, events)
	final := collected[len(collected)-1]
	if final.Kind() != convert.KindDetection {
		t.Fatalf("expected detection failure, got %#v", final)
	}
}

func TestRecorderCapturesOutcomes(t *testing.T) {
	rec := &stubRecorder{}
	drv := &stubDriver{}
	eng, cfg := newTestEngine(t, drv, engine.WithRecorder(rec))
	job := newTestJob(t, cfg)

	events, err := eng.Start(context.Background(), job)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	collectEvents(t, events)

	drv.err = errors.New("encoder blew up")
	events, err = eng.Start(context.Background(), job)
	if err != nil {
		t.Fatalf("second Start failed: %v", err)
	}
	collectEvents(t, events)

	records := rec.all()
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	completed := records[0]
	if completed.Status != history.StatusCompleted || completed.JobID != job.ID {
		t.Fatalf("unexpected completed record: %#v", completed)
	}
	if completed.Backend != string(backend.KindSimulated) {
		t.Fatalf("expected simulated backend in record, got %q", completed.Backend)
	}
	if completed.OutputPath != job.OutputPath {
		t.Fatalf("expected output path recorded, got %q", completed.OutputPath)
	}

	failed := records[1]
	if failed.Status != history.StatusFailed {
		t.Fatalf("expected failed record, got %#v", failed)
	}
	if failed.ErrorKind != string(convert.KindBackendFailure) || failed.ErrorDetail == "" {
		t.Fatalf("expected backend failure detail, got %#v", failed)
	}
}

func TestStatusBeforeAnyRun(t *testing.T) {
	eng, _ := newTestEngine(t, nil)
	if evt, terminal := eng.Status(); terminal || evt.Terminal() {
		t.Fatalf("expected empty status, got %#v terminal=%v", evt, terminal)
	}
}

func TestStopWaitsForRun(t *testing.T) {
	drv := &stubDriver{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	eng, cfg := newTestEngine(t, drv)
	job := newTestJob(t, cfg)

	events, err := eng.Start(context.Background(), job)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	<-drv.started
	eng.Stop()

	if eng.Running() {
		t.Fatal("expected engine idle after Stop")
	}
	collected := collectEvents(t, events)
	final := collected[len(collected)-1]
	if final.Kind() != convert.KindCancelled {
		t.Fatalf("expected cancelled terminal event, got %#v", final)
	}
}
