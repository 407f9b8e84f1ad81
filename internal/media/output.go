package media

import (
	"path/filepath"
	"strings"
)

// OutputPath derives the destination for a conversion: the source file's
// stem with the target extension, placed in outputDir when set or next to
// the source otherwise. When the derivation would collide with the source
// itself (same dir, same format) the stem gains a "_converted" suffix so
// the source is never overwritten.
func OutputPath(sourcePath string, format Format, outputDir string) string {
	dir := filepath.Dir(sourcePath)
	if strings.TrimSpace(outputDir) != "" {
		dir = outputDir
	}
	stem := Stem(sourcePath)
	out := filepath.Join(dir, stem+"."+format.Extension())
	if out == sourcePath {
		out = filepath.Join(dir, stem+"_converted."+format.Extension())
	}
	return out
}

// Stem returns the file name without directory or extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
