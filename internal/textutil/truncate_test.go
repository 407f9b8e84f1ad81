package textutil

import (
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		s    string
		max  int
		want string
	}{
		{"short unchanged", "movie.mkv", 20, "movie.mkv"},
		{"exact length unchanged", "clip.mp4", 8, "clip.mp4"},
		{"middle removed", "a.very.long.recording.name.mkv", 15, "a.very.…ame.mkv"},
		{"keeps extension visible", "holiday-special-extended-cut.webm", 12, "holid…t.webm"},
		{"zero max", "anything.mkv", 0, ""},
		{"negative max", "anything.mkv", -3, ""},
		{"single rune budget", "anything.mkv", 1, "…"},
		{"empty input", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.s, tt.max)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.s, tt.max, got, tt.want)
			}
		})
	}
}

func TestTruncateRuneSafe(t *testing.T) {
	got := Truncate("séries-été.mkv", 9)
	if got != "séri….mkv" {
		t.Errorf("Truncate() = %q, want %q", got, "séri….mkv")
	}
	if utf8.RuneCountInString(got) != 9 {
		t.Errorf("Truncate() rune count = %d, want 9", utf8.RuneCountInString(got))
	}
}

func TestTruncateNeverExceedsMax(t *testing.T) {
	long := "an-unreasonably-long-video-file-name-from-a-camera-2026-08-22.mkv"
	for max := 1; max <= len(long)+5; max++ {
		got := Truncate(long, max)
		if n := utf8.RuneCountInString(got); n > max {
			t.Errorf("Truncate(len %d) produced %d runes, want <= %d", max, n, max)
		}
	}
}
