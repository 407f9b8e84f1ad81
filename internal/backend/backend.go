package backend

import (
	"context"

	"reel/internal/convert"
)

// Backend executes conversion jobs. Convert blocks until the job finishes
// and reports intermediate progress through notify; cancellation arrives via
// ctx. It returns the final output path on success. Drivers never emit
// terminal events themselves: the engine synthesizes exactly one terminal
// event from Convert's return values.
type Backend interface {
	Kind() Kind
	Convert(ctx context.Context, job convert.Job, notify func(convert.Event)) (string, error)
}
