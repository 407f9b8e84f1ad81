package history

import (
	"time"

	"reel/internal/convert"
)

// Status describes the final outcome of a recorded run.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// StatusForKind maps a terminal failure kind onto a history status.
func StatusForKind(kind convert.ErrorKind) Status {
	switch kind {
	case convert.KindNone:
		return StatusCompleted
	case convert.KindCancelled:
		return StatusCancelled
	default:
		return StatusFailed
	}
}

// Record is one finished conversion run.
type Record struct {
	ID          int64
	JobID       string
	SourcePath  string
	OutputPath  string
	Format      string
	Settings    string
	Backend     string
	Status      Status
	ErrorKind   string
	ErrorDetail string
	SourceSize  int64
	OutputSize  int64
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Duration returns the wall time the run took.
func (r Record) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
