package convert

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"reel/internal/media"
)

// Job describes a single conversion request. Jobs are immutable once
// created; progress lives in the event stream, not on the job.
type Job struct {
	ID         string
	SourcePath string
	SourceSize int64
	Format     media.Format
	Settings   media.Settings
	OutputPath string
	CreatedAt  time.Time
}

// NewJob validates the source file and target format and builds a job
// with a generated ID and resolved output path. outputDir may be empty,
// in which case the output lands next to the source.
func NewJob(sourcePath string, format media.Format, settings media.Settings, outputDir string) (Job, error) {
	if sourcePath == "" {
		return Job{}, Wrap(ErrInvalidJob, "new job", "source path is empty", nil)
	}
	info, err := os.Stat(sourcePath)
	if err != nil {
		return Job{}, Wrap(ErrInvalidJob, "new job", fmt.Sprintf("stat source %s", sourcePath), err)
	}
	if info.IsDir() {
		return Job{}, Wrap(ErrInvalidJob, "new job", fmt.Sprintf("source %s is a directory", sourcePath), nil)
	}
	if !info.Mode().IsRegular() {
		return Job{}, Wrap(ErrInvalidJob, "new job", fmt.Sprintf("source %s is not a regular file", sourcePath), nil)
	}
	if !format.Valid() {
		return Job{}, Wrap(ErrInvalidJob, "new job", fmt.Sprintf("unknown output format %q", string(format)), nil)
	}
	return Job{
		ID:         uuid.NewString(),
		SourcePath: sourcePath,
		SourceSize: info.Size(),
		Format:     format,
		Settings:   settings,
		OutputPath: media.OutputPath(sourcePath, format, outputDir),
		CreatedAt:  time.Now().UTC(),
	}, nil
}
