package format

import "strconv"

const unit = 1024

// HumanizeBytes converts a byte count into a human-readable string (e.g., "1.5 MB").
func HumanizeBytes(b int64) string {
	if b < unit {
		return strconv.FormatInt(b, 10) + " B"
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit && exp < 3; n /= unit {
		div *= unit
		exp++
	}
	var buf [24]byte
	s := strconv.AppendFloat(buf[:0], float64(b)/float64(div), 'f', 1, 64)
	suffix := []string{"KB", "MB", "GB", "TB"}[exp]
	return string(s) + " " + suffix
}

// KB renders b in kibibytes with one decimal, the unit used for per-frame sizes.
func KB(b float64) string {
	return strconv.FormatFloat(b/unit, 'f', 1, 64) + " KB"
}

// MB renders b in mebibytes with two decimals, the unit used for run totals.
func MB(b int64) string {
	return strconv.FormatFloat(float64(b)/(unit*unit), 'f', 2, 64) + " MB"
}
