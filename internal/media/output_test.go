package media

import (
	"path/filepath"
	"testing"
)

func TestOutputPathNextToSource(t *testing.T) {
	got := OutputPath(filepath.Join("/videos", "sample.mov"), FormatMP4, "")
	if got != filepath.Join("/videos", "sample.mp4") {
		t.Fatalf("OutputPath = %q", got)
	}
}

func TestOutputPathHonorsOutputDir(t *testing.T) {
	got := OutputPath(filepath.Join("/videos", "sample.mov"), FormatWebM, "/converted")
	if got != filepath.Join("/converted", "sample.webm") {
		t.Fatalf("OutputPath = %q", got)
	}
}

func TestOutputPathAvoidsSelfOverwrite(t *testing.T) {
	source := filepath.Join("/videos", "sample.mp4")
	got := OutputPath(source, FormatMP4, "")
	if got != filepath.Join("/videos", "sample_converted.mp4") {
		t.Fatalf("OutputPath = %q", got)
	}
	if got == source {
		t.Fatal("output must never equal source")
	}
}

func TestStem(t *testing.T) {
	if got := Stem("/a/b/movie.final.mkv"); got != "movie.final" {
		t.Fatalf("Stem = %q", got)
	}
	if got := Stem("clip"); got != "clip" {
		t.Fatalf("Stem = %q", got)
	}
}
