package convert

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors tagging the failure taxonomy. Wrap attaches one of these
// markers so callers can classify with errors.Is or Classify.
var (
	// ErrDetection marks a backend probe failure. Never fatal: the backend
	// is excluded from selection instead.
	ErrDetection = errors.New("detection failure")
	// ErrAlreadyRunning is returned by Start while a run is active.
	ErrAlreadyRunning = errors.New("conversion already running")
	// ErrInvalidJob marks a job whose source vanished or is unreadable.
	ErrInvalidJob = errors.New("invalid job")
	// ErrBackend marks a driver failure: non-zero exit, encoder error, I/O.
	ErrBackend = errors.New("backend failure")
	// ErrCancelled marks user-requested early termination.
	ErrCancelled = errors.New("conversion cancelled")
)

// ErrorKind is the stable classification of a run failure, used for display
// and history records.
type ErrorKind string

const (
	KindNone           ErrorKind = ""
	KindDetection      ErrorKind = "detection_failure"
	KindAlreadyRunning ErrorKind = "already_running"
	KindInvalidJob     ErrorKind = "invalid_job"
	KindBackendFailure ErrorKind = "backend_failure"
	KindCancelled      ErrorKind = "cancelled"
)

// Label returns the display label for the kind.
func (k ErrorKind) Label() string {
	switch k {
	case KindDetection:
		return "Detection failure"
	case KindAlreadyRunning:
		return "Already running"
	case KindInvalidJob:
		return "Invalid job"
	case KindBackendFailure:
		return "Backend failure"
	case KindCancelled:
		return "Cancelled"
	default:
		return ""
	}
}

// Wrap builds an error message that includes operation context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, operation, message string, err error) error {
	detail := buildDetail(operation, message)
	if marker == nil {
		marker = ErrBackend
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify maps an error to its kind. Context cancellation counts as
// Cancelled; unrecognized errors count as backend failures so every terminal
// Failed event carries a displayable kind.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrCancelled), errors.Is(err, context.Canceled):
		return KindCancelled
	case errors.Is(err, ErrAlreadyRunning):
		return KindAlreadyRunning
	case errors.Is(err, ErrInvalidJob):
		return KindInvalidJob
	case errors.Is(err, ErrDetection):
		return KindDetection
	default:
		return KindBackendFailure
	}
}

func buildDetail(operation, message string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "conversion failure"
	}
	return strings.Join(parts, ": ")
}
