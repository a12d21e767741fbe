package format

import "testing"

func TestHumanizeBytes(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{name: "zero bytes", bytes: 0, want: "0 B"},
		{name: "under 1KB", bytes: 1023, want: "1023 B"},
		{name: "exactly 1KB", bytes: 1024, want: "1.0 KB"},
		{name: "typical webp frame", bytes: 48 * 1024, want: "48.0 KB"},
		{name: "1.5 KB", bytes: 1536, want: "1.5 KB"},
		{name: "exactly 1MB", bytes: 1024 * 1024, want: "1.0 MB"},
		{name: "exactly 1GB", bytes: 1024 * 1024 * 1024, want: "1.0 GB"},
		{name: "exactly 1TB", bytes: 1024 * 1024 * 1024 * 1024, want: "1.0 TB"},
		{name: "beyond TB stays in TB", bytes: 2048 * 1024 * 1024 * 1024 * 1024, want: "2048.0 TB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HumanizeBytes(tt.bytes); got != tt.want {
				t.Errorf("HumanizeBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestKBAndMB(t *testing.T) {
	if got := KB(1536); got != "1.5 KB" {
		t.Errorf("KB(1536) = %q, want %q", got, "1.5 KB")
	}
	if got := KB(0); got != "0.0 KB" {
		t.Errorf("KB(0) = %q, want %q", got, "0.0 KB")
	}
	if got := MB(3 * 1024 * 1024); got != "3.00 MB" {
		t.Errorf("MB(3MiB) = %q, want %q", got, "3.00 MB")
	}
	if got := MB(512 * 1024); got != "0.50 MB" {
		t.Errorf("MB(512KiB) = %q, want %q", got, "0.50 MB")
	}
}
