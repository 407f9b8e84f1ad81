package media

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies a target container format.
type Format string

const (
	FormatMP4  Format = "mp4"
	FormatMKV  Format = "mkv"
	FormatAVI  Format = "avi"
	FormatMOV  Format = "mov"
	FormatWebM Format = "webm"
)

var allFormats = []Format{FormatMP4, FormatMKV, FormatAVI, FormatMOV, FormatWebM}

var formatDescriptions = map[Format]string{
	FormatMP4:  "MPEG-4 Part 14 - Widely supported format with good compression",
	FormatMKV:  "Matroska Video - Container format that can hold many codecs",
	FormatAVI:  "Audio Video Interleave - Microsoft's container format",
	FormatMOV:  "QuickTime File Format - Apple's container format",
	FormatWebM: "WebM - Open, royalty-free format designed for the web",
}

// Formats returns all supported formats in display order.
func Formats() []Format {
	out := make([]Format, len(allFormats))
	copy(out, allFormats)
	return out
}

// Name returns the display name, e.g. "MP4".
func (f Format) Name() string {
	if f == FormatWebM {
		return "WEBM"
	}
	return strings.ToUpper(string(f))
}

// Extension returns the file extension without the leading dot.
func (f Format) Extension() string {
	return string(f)
}

// Description returns a one-line summary of the container.
func (f Format) Description() string {
	return formatDescriptions[f]
}

// Valid reports whether f is one of the supported formats.
func (f Format) Valid() bool {
	_, ok := formatDescriptions[f]
	return ok
}

// Next returns the following format in display order, wrapping at the end.
func (f Format) Next() Format {
	return cycle(allFormats, f, 1)
}

// Prev returns the preceding format in display order, wrapping at the start.
func (f Format) Prev() Format {
	return cycle(allFormats, f, -1)
}

// ParseFormat converts user input ("mp4", "MP4", ".mp4") to a Format.
func ParseFormat(value string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.TrimPrefix(normalized, ".")
	f := Format(normalized)
	if !f.Valid() {
		return "", fmt.Errorf("unsupported format %q", value)
	}
	return f, nil
}

// FormatFromPath derives the format from a file's extension.
func FormatFromPath(path string) (Format, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	f := Format(ext)
	return f, f.Valid()
}

// VideoExtensions returns the recognized source file extensions, dot included.
func VideoExtensions() []string {
	out := make([]string, 0, len(allFormats))
	for _, f := range allFormats {
		out = append(out, "."+f.Extension())
	}
	return out
}

// IsVideoPath reports whether the path carries one of the supported
// container extensions.
func IsVideoPath(path string) bool {
	_, ok := FormatFromPath(path)
	return ok
}

func cycle[T comparable](values []T, current T, step int) T {
	for i, v := range values {
		if v == current {
			next := (i + step + len(values)) % len(values)
			return values[next]
		}
	}
	return values[0]
}
