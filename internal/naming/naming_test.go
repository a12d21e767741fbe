package naming

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestFrameName(t *testing.T) {
	tests := []struct {
		prefix string
		idx    int
		ext    string
		want   string
	}{
		{"product-spin", 0, "webp", "product-spin-000.webp"},
		{"product-spin", 59, "webp", "product-spin-059.webp"},
		{"spin", 7, "jpg", "spin-007.jpg"},
		{"spin", 999, "png", "spin-999.png"},
	}
	for _, tt := range tests {
		if got := FrameName(tt.prefix, tt.idx, tt.ext); got != tt.want {
			t.Errorf("FrameName(%q, %d, %q) = %q, want %q", tt.prefix, tt.idx, tt.ext, got, tt.want)
		}
	}
}

func TestFrameName_SortsUpToMaxFrames(t *testing.T) {
	names := make([]string, 0, MaxFrames)
	for i := MaxFrames - 1; i >= 0; i-- {
		names = append(names, FrameName("p", i, "png"))
	}
	sort.Strings(names)
	for i, n := range names {
		if n != FrameName("p", i, "png") {
			t.Fatalf("position %d holds %q; lexicographic order broken", i, n)
		}
	}
}

func TestParseFrameName(t *testing.T) {
	tests := []struct {
		name    string
		wantIdx int
		wantOK  bool
	}{
		{"product-spin-000.webp", 0, true},
		{"product-spin-042.webp", 42, true},
		{"product-spin-42.webp", 0, false},
		{"product-spin-0042.webp", 0, false},
		{"product-spin-abc.webp", 0, false},
		{"product-spin-+12.webp", 0, false},
		{"product-spin--12.webp", 0, false},
		{"product-spin- 12.webp", 0, false},
		{"product-spin-001.png", 0, false},
		{"other-001.webp", 0, false},
		{"product-spin.json", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, ok := ParseFrameName(tt.name, "product-spin", "webp")
			if ok != tt.wantOK || idx != tt.wantIdx {
				t.Errorf("ParseFrameName(%q) = %d, %v; want %d, %v", tt.name, idx, ok, tt.wantIdx, tt.wantOK)
			}
		})
	}
}

func TestListAndClean(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"s-002.webp", "s-000.webp", "s-001.webp", "s-000.png", "s.json", "keep.txt", "s-+01.webp"} {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := List(dir, "s", "webp")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []string{
		filepath.Join(dir, "s-000.webp"),
		filepath.Join(dir, "s-001.webp"),
		filepath.Join(dir, "s-002.webp"),
	}
	if len(got) != len(want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	removed, err := Clean(dir, "s", "webp")
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if removed != 3 {
		t.Errorf("Clean() removed = %d, want 3", removed)
	}
	for _, keep := range []string{"s-000.png", "s.json", "keep.txt", "s-+01.webp"} {
		if _, err := os.Stat(filepath.Join(dir, keep)); err != nil {
			t.Errorf("Clean() removed unrelated file %s", keep)
		}
	}

	if n, err := Clean(filepath.Join(dir, "missing"), "s", "webp"); err != nil || n != 0 {
		t.Errorf("Clean() on missing dir = %d, %v; want 0, nil", n, err)
	}
}
