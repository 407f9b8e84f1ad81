// Package browse lists directories for the interactive file picker and
// tracks the current selection.
package browse

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"reel/internal/media"
)

// Entry is one row in the file browser.
type Entry struct {
	Name    string
	Path    string
	IsDir   bool
	Size    int64
	ModTime time.Time
}

// IsParent reports whether the entry points at the parent directory.
func (e Entry) IsParent() bool { return e.Name == ".." }

// DisplaySize returns a humanized size for files, empty for directories.
func (e Entry) DisplaySize() string {
	if e.IsDir {
		return ""
	}
	return humanize.Bytes(uint64(e.Size))
}

// List returns the browsable entries of dir ordered for display: the parent
// entry first (unless dir is the filesystem root), directories sorted by
// name, then video files sorted by name. Hidden entries are skipped unless
// showHidden is set.
func List(dir string, showHidden bool) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %q: %w", dir, err)
	}

	var dirs, files []Entry
	for _, de := range dirEntries {
		name := de.Name()
		if !showHidden && strings.HasPrefix(name, ".") {
			continue
		}
		full := filepath.Join(dir, name)
		info, err := de.Info()
		if err != nil {
			continue
		}
		if de.IsDir() {
			dirs = append(dirs, Entry{Name: name, Path: full, IsDir: true, ModTime: info.ModTime()})
			continue
		}
		if !info.Mode().IsRegular() || !media.IsVideoPath(name) {
			continue
		}
		files = append(files, Entry{Name: name, Path: full, Size: info.Size(), ModTime: info.ModTime()})
	}

	sortEntries(dirs)
	sortEntries(files)

	entries := make([]Entry, 0, len(dirs)+len(files)+1)
	if parent := filepath.Dir(dir); parent != dir {
		entries = append(entries, Entry{Name: "..", Path: parent, IsDir: true})
	}
	entries = append(entries, dirs...)
	entries = append(entries, files...)
	return entries, nil
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
}

// IsRegularFile reports whether path names an existing regular file.
func IsRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Browser tracks the current directory and selection for the interactive
// file picker. Selection wraps in both directions.
type Browser struct {
	dir        string
	entries    []Entry
	selected   int
	showHidden bool
}

// New builds a browser rooted at dir.
func New(dir string, showHidden bool) (*Browser, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve directory %q: %w", dir, err)
	}
	b := &Browser{dir: abs, showHidden: showHidden}
	if err := b.Refresh(); err != nil {
		return nil, err
	}
	return b, nil
}

// Refresh re-reads the current directory and resets the selection.
func (b *Browser) Refresh() error {
	entries, err := List(b.dir, b.showHidden)
	if err != nil {
		return err
	}
	b.entries = entries
	b.selected = 0
	return nil
}

// Dir returns the directory currently listed.
func (b *Browser) Dir() string { return b.dir }

// Entries returns the rows currently listed.
func (b *Browser) Entries() []Entry { return b.entries }

// SelectedIndex returns the position of the highlighted row.
func (b *Browser) SelectedIndex() int { return b.selected }

// Selected returns the highlighted entry, if any.
func (b *Browser) Selected() (Entry, bool) {
	if len(b.entries) == 0 {
		return Entry{}, false
	}
	return b.entries[b.selected], true
}

// Next moves the selection down, wrapping to the top.
func (b *Browser) Next() {
	if len(b.entries) == 0 {
		return
	}
	b.selected = (b.selected + 1) % len(b.entries)
}

// Prev moves the selection up, wrapping to the bottom.
func (b *Browser) Prev() {
	if len(b.entries) == 0 {
		return
	}
	if b.selected > 0 {
		b.selected--
	} else {
		b.selected = len(b.entries) - 1
	}
}

// Enter descends into the selected directory, including the parent entry.
// It reports whether the current directory changed. Selecting a file is not
// a directory change.
func (b *Browser) Enter() (bool, error) {
	entry, ok := b.Selected()
	if !ok || !entry.IsDir {
		return false, nil
	}
	previous := b.dir
	b.dir = entry.Path
	if err := b.Refresh(); err != nil {
		b.dir = previous
		return false, err
	}
	return true, nil
}
