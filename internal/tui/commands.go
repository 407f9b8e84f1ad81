package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"reel/internal/backend"
	"reel/internal/convert"
	"reel/internal/engine"
	"reel/internal/media/ffprobe"
)

// detectionMsg delivers the async backend probe result.
type detectionMsg struct {
	detection backend.Detection
}

// eventMsg delivers one engine event. seq ties the message to the run that
// produced it so leftovers from an earlier stream are dropped. ok is false
// when the stream closed.
type eventMsg struct {
	seq   int
	event convert.Event
	ok    bool
}

// probeMsg delivers source metadata for the details popup.
type probeMsg struct {
	seq    int
	result ffprobe.Result
	err    error
}

const (
	detectTimeout = 3 * time.Second
	probeTimeout  = 2 * time.Second
)

func detectBackends(eng *engine.Engine) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), detectTimeout)
		defer cancel()
		return detectionMsg{detection: eng.Detect(ctx)}
	}
}

// waitForEvent blocks on the run's event channel and re-arms itself from
// Update after every delivery, so the interactive loop never polls.
func waitForEvent(seq int, events <-chan convert.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		return eventMsg{seq: seq, event: event, ok: ok}
	}
}

func probeSource(seq int, binary, path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		defer cancel()
		result, err := ffprobe.Inspect(ctx, binary, path)
		return probeMsg{seq: seq, result: result, err: err}
	}
}
