package convert_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"reel/internal/convert"
	"reel/internal/media"
)

func writeSource(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("not a real video"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func TestNewJobResolvesOutput(t *testing.T) {
	source := writeSource(t, "movie.avi")
	job, err := convert.NewJob(source, media.FormatMP4, media.DefaultSettings(), "")
	if err != nil {
		t.Fatalf("NewJob: %v", err)
	}
	if job.ID == "" {
		t.Fatal("expected generated job ID")
	}
	want := filepath.Join(filepath.Dir(source), "movie.mp4")
	if job.OutputPath != want {
		t.Fatalf("expected output %q, got %q", want, job.OutputPath)
	}
	if job.SourceSize <= 0 {
		t.Fatalf("expected source size recorded, got %d", job.SourceSize)
	}
}

func TestNewJobUsesOutputDir(t *testing.T) {
	source := writeSource(t, "clip.mkv")
	outDir := t.TempDir()
	job, err := convert.NewJob(source, media.FormatWebM, media.DefaultSettings(), outDir)
	if err != nil {
		t.Fatalf("NewJob: %v", err)
	}
	if filepath.Dir(job.OutputPath) != outDir {
		t.Fatalf("expected output in %q, got %q", outDir, job.OutputPath)
	}
}

func TestNewJobRejectsMissingSource(t *testing.T) {
	_, err := convert.NewJob(filepath.Join(t.TempDir(), "gone.mp4"), media.FormatMP4, media.DefaultSettings(), "")
	if !errors.Is(err, convert.ErrInvalidJob) {
		t.Fatalf("expected invalid job, got %v", err)
	}
}

func TestNewJobRejectsDirectory(t *testing.T) {
	_, err := convert.NewJob(t.TempDir(), media.FormatMP4, media.DefaultSettings(), "")
	if !errors.Is(err, convert.ErrInvalidJob) {
		t.Fatalf("expected invalid job, got %v", err)
	}
}

func TestNewJobRejectsUnknownFormat(t *testing.T) {
	source := writeSource(t, "movie.avi")
	_, err := convert.NewJob(source, media.Format("flv"), media.DefaultSettings(), "")
	if !errors.Is(err, convert.ErrInvalidJob) {
		t.Fatalf("expected invalid job, got %v", err)
	}
}
