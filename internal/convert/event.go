package convert

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Stage names a phase within a conversion run.
type Stage string

const (
	StageAnalyzing       Stage = "analyzing"
	StageExtractingAudio Stage = "extracting_audio"
	StageProcessingVideo Stage = "processing_video"
	StageMuxing          Stage = "muxing"
	StageFinalizing      Stage = "finalizing"
)

// Stages returns the canonical stage order of a run.
func Stages() []Stage {
	return []Stage{
		StageAnalyzing,
		StageExtractingAudio,
		StageProcessingVideo,
		StageMuxing,
		StageFinalizing,
	}
}

var stageCaser = cases.Title(language.Und)

// Label renders the stage for display, e.g. "Extracting Audio".
func (s Stage) Label() string {
	text := strings.ReplaceAll(string(s), "_", " ")
	return stageCaser.String(text)
}

// Event is one record in a run's ordered progress stream.
type Event struct {
	Stage     Stage
	Percent   int
	ETA       time.Duration
	Message   string
	Timestamp time.Time

	// Done marks the terminal event. Exactly one terminal event ends every
	// run: OutputPath is set on success, Err on failure.
	Done       bool
	OutputPath string
	Err        error
}

// Terminal reports whether the event ends the run.
func (e Event) Terminal() bool { return e.Done }

// Failed reports whether the event is a failing terminal event.
func (e Event) Failed() bool { return e.Done && e.Err != nil }

// Kind classifies a failing terminal event for display.
func (e Event) Kind() ErrorKind { return Classify(e.Err) }

// Progress builds an intermediate event.
func Progress(stage Stage, percent int, message string) Event {
	return Event{
		Stage:     stage,
		Percent:   clampPercent(percent),
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Completed builds the successful terminal event.
func Completed(outputPath string) Event {
	return Event{
		Stage:      StageFinalizing,
		Percent:    100,
		Message:    "Conversion complete",
		Timestamp:  time.Now(),
		Done:       true,
		OutputPath: outputPath,
	}
}

// Failed builds the failing terminal event. The percent records how far the
// run got.
func Failed(err error, percent int) Event {
	return Event{
		Percent:   clampPercent(percent),
		Message:   errMessage(err),
		Timestamp: time.Now(),
		Done:      true,
		Err:       err,
	}
}

// FormatETA renders a duration compactly for status lines ("1m5s").
// Unknown (zero or negative) renders as an empty string.
func FormatETA(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	d = d.Round(time.Second)
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second
	parts := make([]string, 0, 3)
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || hours > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if seconds > 0 || (hours == 0 && minutes == 0) {
		parts = append(parts, fmt.Sprintf("%ds", seconds))
	}
	return strings.Join(parts, "")
}

func clampPercent(percent int) int {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
