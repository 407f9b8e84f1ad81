package media

import "testing"

func TestFormatNamesAndExtensions(t *testing.T) {
	cases := []struct {
		format Format
		name   string
		ext    string
	}{
		{FormatMP4, "MP4", "mp4"},
		{FormatMKV, "MKV", "mkv"},
		{FormatAVI, "AVI", "avi"},
		{FormatMOV, "MOV", "mov"},
		{FormatWebM, "WEBM", "webm"},
	}
	for _, tc := range cases {
		if tc.format.Name() != tc.name {
			t.Fatalf("%s Name() = %q, want %q", tc.format, tc.format.Name(), tc.name)
		}
		if tc.format.Extension() != tc.ext {
			t.Fatalf("%s Extension() = %q, want %q", tc.format, tc.format.Extension(), tc.ext)
		}
		if tc.format.Description() == "" {
			t.Fatalf("%s has no description", tc.format)
		}
	}
}

func TestFormatCyclingWraps(t *testing.T) {
	if got := FormatWebM.Next(); got != FormatMP4 {
		t.Fatalf("WebM.Next() = %v, want MP4", got)
	}
	if got := FormatMP4.Prev(); got != FormatWebM {
		t.Fatalf("MP4.Prev() = %v, want WebM", got)
	}

	// A full forward cycle returns to the start.
	f := FormatMP4
	for range Formats() {
		f = f.Next()
	}
	if f != FormatMP4 {
		t.Fatalf("full cycle ended at %v, want MP4", f)
	}
}

func TestParseFormat(t *testing.T) {
	for _, input := range []string{"mp4", "MP4", ".mp4", " mp4 "} {
		f, err := ParseFormat(input)
		if err != nil {
			t.Fatalf("ParseFormat(%q): %v", input, err)
		}
		if f != FormatMP4 {
			t.Fatalf("ParseFormat(%q) = %v, want MP4", input, f)
		}
	}
	if _, err := ParseFormat("flv"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestFormatFromPath(t *testing.T) {
	f, ok := FormatFromPath("/videos/movie.MKV")
	if !ok || f != FormatMKV {
		t.Fatalf("FormatFromPath = %v, %v", f, ok)
	}
	if _, ok := FormatFromPath("/videos/notes.txt"); ok {
		t.Fatal("expected no format for .txt")
	}
	if !IsVideoPath("clip.webm") {
		t.Fatal("expected clip.webm to be a video path")
	}
}
