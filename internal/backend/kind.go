package backend

import "strings"

// Kind identifies a conversion driver.
type Kind string

const (
	KindNative    Kind = "native"
	KindFFmpeg    Kind = "ffmpeg"
	KindSimulated Kind = "simulated"
)

// Kinds returns all driver kinds in selection priority order, most
// preferred first.
func Kinds() []Kind {
	return []Kind{KindNative, KindFFmpeg, KindSimulated}
}

// Label returns the display name for the kind.
func (k Kind) Label() string {
	switch k {
	case KindNative:
		return "Native"
	case KindFFmpeg:
		return "FFmpeg"
	case KindSimulated:
		return "Simulated"
	default:
		return string(k)
	}
}

// ParseKind converts a string into a known Kind.
func ParseKind(value string) (Kind, bool) {
	normalized := Kind(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case KindNative, KindFFmpeg, KindSimulated:
		return normalized, true
	default:
		return "", false
	}
}
