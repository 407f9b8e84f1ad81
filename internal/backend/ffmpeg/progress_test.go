package ffmpeg

import (
	"testing"
	"time"
)

func TestParserOutTimeKeys(t *testing.T) {
	parser := &progressParser{total: 10 * time.Second}
	if !parser.parseLine("out_time_us=2500000") {
		t.Fatal("expected out_time_us to parse")
	}
	if percent, ok := parser.percent(); !ok || percent != 25 {
		t.Fatalf("expected 25%%, got %d ok=%v", percent, ok)
	}
	if !parser.parseLine("out_time_ms=5000000") {
		t.Fatal("expected out_time_ms to parse")
	}
	if percent, _ := parser.percent(); percent != 50 {
		t.Fatalf("expected 50%%, got %d", percent)
	}
	if !parser.parseLine("out_time=00:00:07.500000") {
		t.Fatal("expected out_time to parse")
	}
	if percent, _ := parser.percent(); percent != 75 {
		t.Fatalf("expected 75%%, got %d", percent)
	}
}

func TestParserDurationFallback(t *testing.T) {
	parser := &progressParser{}
	if _, ok := parser.percent(); ok {
		t.Fatal("expected no percent before duration known")
	}
	if !parser.parseLine("duration=20.0") {
		t.Fatal("expected duration to parse")
	}
	parser.parseLine("out_time_us=5000000")
	if percent, ok := parser.percent(); !ok || percent != 25 {
		t.Fatalf("expected 25%%, got %d ok=%v", percent, ok)
	}
}

func TestParserBannerDuration(t *testing.T) {
	parser := &progressParser{}
	if !parser.parseLine("  Duration: 00:00:08.00, start: 0.000000, bitrate: 1205 kb/s") {
		t.Fatal("expected banner duration to parse")
	}
	if parser.total != 8*time.Second {
		t.Fatalf("unexpected total %v", parser.total)
	}
	// ffprobe-provided totals win over later banners.
	parser.parseLine("Duration: 00:10:00.00, start: 0")
	if parser.total != 8*time.Second {
		t.Fatalf("banner overwrote known total: %v", parser.total)
	}
}

func TestParserEndMarker(t *testing.T) {
	parser := &progressParser{total: time.Second}
	parser.parseLine("out_time_us=900000")
	if !parser.parseLine("progress=end") {
		t.Fatal("expected end marker to parse")
	}
	if percent, ok := parser.percent(); !ok || percent != 100 {
		t.Fatalf("expected 100%%, got %d ok=%v", percent, ok)
	}
	if parser.parseLine("progress=continue") {
		t.Fatal("continue marker is not a state change")
	}
}

func TestParserCapsAtNinetyNine(t *testing.T) {
	parser := &progressParser{total: time.Second}
	parser.parseLine("out_time_us=5000000")
	if percent, _ := parser.percent(); percent != 99 {
		t.Fatalf("expected cap at 99 before end marker, got %d", percent)
	}
}

func TestParserIgnoresGarbage(t *testing.T) {
	parser := &progressParser{total: time.Second}
	lines := []string{
		"",
		"frame=  123 fps= 25",
		"out_time=-577014:32:22.77",
		"out_time_us=not-a-number",
		"speed=N/A",
		"configuration: --enable-gpl",
		"random noise without equals",
		"unknownkey=5",
	}
	for _, line := range lines {
		if parser.parseLine(line) {
			t.Fatalf("line %q should not change state", line)
		}
	}
	if parser.current != 0 || parser.ended {
		t.Fatalf("garbage mutated parser: %+v", parser)
	}
}

func TestParserETA(t *testing.T) {
	parser := &progressParser{total: 10 * time.Second}
	parser.parseLine("out_time_us=5000000")
	if eta := parser.eta(); eta != 0 {
		t.Fatalf("expected no ETA without speed, got %v", eta)
	}
	if !parser.parseLine("speed=2.5x") {
		t.Fatal("expected speed to parse")
	}
	if eta := parser.eta(); eta != 2*time.Second {
		t.Fatalf("expected 2s ETA, got %v", eta)
	}
	parser.parseLine("progress=end")
	if eta := parser.eta(); eta != 0 {
		t.Fatalf("expected no ETA after end, got %v", eta)
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		input string
		want  time.Duration
		ok    bool
	}{
		{input: "00:00:01.500000", want: 1500 * time.Millisecond, ok: true},
		{input: "01:02:03.000000", want: time.Hour + 2*time.Minute + 3*time.Second, ok: true},
		{input: "-00:00:01.00", ok: false},
		{input: "12:00", ok: false},
		{input: "aa:bb:cc", ok: false},
	}
	for _, tc := range cases {
		got, err := parseClock(tc.input)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Fatalf("parseClock(%q) = %v, %v; expected %v", tc.input, got, err, tc.want)
			}
			continue
		}
		if err == nil {
			t.Fatalf("parseClock(%q) expected error", tc.input)
		}
	}
}
