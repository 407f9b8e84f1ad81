package ffmpeg

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// progressParser accumulates state from ffmpeg's merged output stream. The
// -progress format is key=value lines; everything else is diagnostics. The
// parser is deliberately tolerant: a line it cannot use never aborts the
// run.
type progressParser struct {
	total   time.Duration
	current time.Duration
	speed   float64
	ended   bool
}

// parseLine consumes one line and reports whether it changed parser state.
func (p *progressParser) parseLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if rest, ok := strings.CutPrefix(line, "Duration:"); ok {
		// Banner fallback for sources ffprobe could not inspect.
		if idx := strings.IndexByte(rest, ','); idx >= 0 {
			rest = rest[:idx]
		}
		if p.total == 0 {
			if parsed, err := parseClock(strings.TrimSpace(rest)); err == nil {
				p.total = parsed
				return true
			}
		}
		return false
	}
	key, value, found := strings.Cut(line, "=")
	if !found {
		return false
	}
	value = strings.TrimSpace(value)
	switch strings.TrimSpace(key) {
	case "out_time_us", "out_time_ms":
		// Both keys carry microseconds; out_time_ms is misnamed upstream.
		micros, err := strconv.ParseInt(value, 10, 64)
		if err != nil || micros < 0 {
			return false
		}
		p.current = time.Duration(micros) * time.Microsecond
		return true
	case "out_time":
		parsed, err := parseClock(value)
		if err != nil {
			return false
		}
		p.current = parsed
		return true
	case "duration":
		seconds, err := strconv.ParseFloat(value, 64)
		if err != nil || seconds <= 0 {
			return false
		}
		p.total = time.Duration(seconds * float64(time.Second))
		return true
	case "speed":
		speed, err := strconv.ParseFloat(strings.TrimSuffix(value, "x"), 64)
		if err != nil || speed <= 0 {
			return false
		}
		p.speed = speed
		return true
	case "progress":
		if value == "end" {
			p.ended = true
			return true
		}
		return false
	default:
		return false
	}
}

// percent maps the parsed position onto 0-99. 100 is reserved for the end
// marker so percent cannot reach it on a stale duration estimate.
func (p *progressParser) percent() (int, bool) {
	if p.ended {
		return 100, true
	}
	if p.total <= 0 || p.current <= 0 {
		return 0, false
	}
	percent := int(float64(p.current) / float64(p.total) * 100)
	if percent > 99 {
		percent = 99
	}
	return percent, true
}

// eta estimates remaining wall time from the reported encode speed.
func (p *progressParser) eta() time.Duration {
	if p.ended || p.total <= 0 || p.current <= 0 || p.current >= p.total {
		return 0
	}
	remaining := p.total - p.current
	if p.speed <= 0 {
		return 0
	}
	return time.Duration(float64(remaining) / p.speed)
}

// parseClock parses ffmpeg's HH:MM:SS.fraction timestamps. ffmpeg reports a
// huge negative clock before the first frame; those are rejected.
func parseClock(value string) (time.Duration, error) {
	if strings.HasPrefix(value, "-") {
		return 0, fmt.Errorf("negative clock %q", value)
	}
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("malformed clock %q", value)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("malformed clock %q", value)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("malformed clock %q", value)
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, fmt.Errorf("malformed clock %q", value)
	}
	total := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds*float64(time.Second))
	return total, nil
}
