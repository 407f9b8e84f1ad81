package media

import (
	"fmt"
	"strings"
)

// Resolution is the target frame size.
type Resolution string

const (
	ResolutionOriginal Resolution = "original"
	Resolution720p     Resolution = "720p"
	Resolution1080p    Resolution = "1080p"
	Resolution4K       Resolution = "4k"
)

var allResolutions = []Resolution{ResolutionOriginal, Resolution720p, Resolution1080p, Resolution4K}

// Label returns the display label.
func (r Resolution) Label() string {
	switch r {
	case ResolutionOriginal:
		return "Original"
	case Resolution4K:
		return "4K"
	default:
		return string(r)
	}
}

// Dimensions returns the pixel dimensions for fixed resolutions. ok is false
// for Original, which keeps the source dimensions.
func (r Resolution) Dimensions() (width, height int, ok bool) {
	switch r {
	case Resolution720p:
		return 1280, 720, true
	case Resolution1080p:
		return 1920, 1080, true
	case Resolution4K:
		return 3840, 2160, true
	default:
		return 0, 0, false
	}
}

func (r Resolution) Next() Resolution { return cycle(allResolutions, r, 1) }

func (r Resolution) Prev() Resolution { return cycle(allResolutions, r, -1) }

// Bitrate is the target quality tier.
type Bitrate string

const (
	BitrateAuto   Bitrate = "auto"
	BitrateLow    Bitrate = "low"
	BitrateMedium Bitrate = "medium"
	BitrateHigh   Bitrate = "high"
)

var allBitrates = []Bitrate{BitrateAuto, BitrateLow, BitrateMedium, BitrateHigh}

// Label returns the display label.
func (b Bitrate) Label() string {
	return strings.ToUpper(string(b[:1])) + string(b[1:])
}

// Kbps maps the quality tier to a concrete bitrate for the given resolution.
// Auto returns 0, leaving the choice to the encoder. Combinations without an
// explicit entry (Original resolution) use a medium 1080p-class default.
func (b Bitrate) Kbps(r Resolution) int {
	if b == BitrateAuto {
		return 0
	}
	matrix := map[Resolution]map[Bitrate]int{
		Resolution720p:  {BitrateLow: 1500, BitrateMedium: 2500, BitrateHigh: 4000},
		Resolution1080p: {BitrateLow: 3000, BitrateMedium: 6000, BitrateHigh: 8000},
		Resolution4K:    {BitrateLow: 8000, BitrateMedium: 12000, BitrateHigh: 18000},
	}
	if row, ok := matrix[r]; ok {
		if kbps, ok := row[b]; ok {
			return kbps
		}
	}
	return 6000
}

func (b Bitrate) Next() Bitrate { return cycle(allBitrates, b, 1) }

func (b Bitrate) Prev() Bitrate { return cycle(allBitrates, b, -1) }

// FrameRate is the target frame rate.
type FrameRate string

const (
	FrameRateOriginal FrameRate = "original"
	FrameRate24       FrameRate = "24"
	FrameRate30       FrameRate = "30"
	FrameRate60       FrameRate = "60"
)

var allFrameRates = []FrameRate{FrameRateOriginal, FrameRate24, FrameRate30, FrameRate60}

// Label returns the display label.
func (fr FrameRate) Label() string {
	if fr == FrameRateOriginal {
		return "Original"
	}
	return string(fr) + " fps"
}

// FPS returns the numeric rate. ok is false for Original.
func (fr FrameRate) FPS() (int, bool) {
	switch fr {
	case FrameRate24:
		return 24, true
	case FrameRate30:
		return 30, true
	case FrameRate60:
		return 60, true
	default:
		return 0, false
	}
}

func (fr FrameRate) Next() FrameRate { return cycle(allFrameRates, fr, 1) }

func (fr FrameRate) Prev() FrameRate { return cycle(allFrameRates, fr, -1) }

// Settings bundles the three quality dimensions of a conversion.
type Settings struct {
	Resolution Resolution
	Bitrate    Bitrate
	FrameRate  FrameRate
}

// DefaultSettings keeps everything as-is: original resolution and frame
// rate, encoder-chosen bitrate.
func DefaultSettings() Settings {
	return Settings{
		Resolution: ResolutionOriginal,
		Bitrate:    BitrateAuto,
		FrameRate:  FrameRateOriginal,
	}
}

// Describe renders the settings for status lines, e.g.
// "1080p / Medium / 30 fps".
func (s Settings) Describe() string {
	return fmt.Sprintf("%s / %s / %s", s.Resolution.Label(), s.Bitrate.Label(), s.FrameRate.Label())
}

// ParseResolution converts user input to a Resolution.
func ParseResolution(value string) (Resolution, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "", "original":
		return ResolutionOriginal, nil
	case "720", "720p":
		return Resolution720p, nil
	case "1080", "1080p":
		return Resolution1080p, nil
	case "4k", "2160", "2160p":
		return Resolution4K, nil
	default:
		return "", fmt.Errorf("unsupported resolution %q", value)
	}
}

// ParseBitrate converts user input to a Bitrate.
func ParseBitrate(value string) (Bitrate, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return BitrateAuto, nil
	}
	b := Bitrate(normalized)
	for _, known := range allBitrates {
		if b == known {
			return b, nil
		}
	}
	return "", fmt.Errorf("unsupported bitrate %q", value)
}

// ParseFrameRate converts user input to a FrameRate.
func ParseFrameRate(value string) (FrameRate, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.TrimSuffix(normalized, "fps")
	normalized = strings.TrimSpace(normalized)
	switch normalized {
	case "", "original":
		return FrameRateOriginal, nil
	case "24", "30", "60":
		return FrameRate(normalized), nil
	default:
		return "", fmt.Errorf("unsupported frame rate %q", value)
	}
}
