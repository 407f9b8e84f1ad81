// Package textutil provides small text helpers for terminal display,
// mainly shortening long file names so browser rows and detail panels
// stay within their column width.
package textutil

// Ellipsis marks the point where truncated text was removed.
const Ellipsis = "…"

// Truncate shortens s to at most max runes by removing text from the
// middle and marking the cut with an ellipsis. Head and tail are kept so
// both the start of a file name and its extension stay visible. Strings
// already within the limit are returned unchanged.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max == 1 {
		return Ellipsis
	}
	head := (max - 1) / 2
	tail := max - 1 - head
	return string(runes[:head]) + Ellipsis + string(runes[len(runes)-tail:])
}
