// Package naming builds and recognises the file names of an exported frame
// sequence: <prefix>-<NNN>.<ext>, NNN zero-padded to three digits.
package naming

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// MaxFrames is the largest sequence that still sorts lexicographically with
// three-digit indices.
const MaxFrames = 1000

// FrameName returns the file name for sequence index i.
func FrameName(prefix string, i int, ext string) string {
	return fmt.Sprintf("%s-%03d.%s", prefix, i, ext)
}

// ParseFrameName returns the index encoded in name if it belongs to the
// prefix/ext sequence.
func ParseFrameName(name, prefix, ext string) (int, bool) {
	head := prefix + "-"
	tail := "." + ext
	if !strings.HasPrefix(name, head) || !strings.HasSuffix(name, tail) {
		return 0, false
	}
	digits := strings.TrimSuffix(strings.TrimPrefix(name, head), tail)
	if len(digits) != 3 {
		return 0, false
	}
	n := 0
	for i := 0; i < len(digits); i++ {
		c := digits[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// List returns the paths of existing sequence files in dir, ordered by index.
func List(dir, prefix, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	type item struct {
		idx  int
		path string
	}
	var items []item
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if idx, ok := ParseFrameName(e.Name(), prefix, ext); ok {
			items = append(items, item{idx: idx, path: filepath.Join(dir, e.Name())})
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].idx < items[j].idx })
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.path
	}
	return out, nil
}

// Clean removes existing sequence files from dir and returns how many were
// deleted. A missing dir is not an error.
func Clean(dir, prefix, ext string) (int, error) {
	paths, err := List(dir, prefix, ext)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	removed := 0
	for _, p := range paths {
		if err := os.Remove(p); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
