package model

// VideoInfo is the metadata of a video source as reported by ffprobe.
// Width and Height are display dimensions, i.e. already swapped for a
// 90/270 degree rotation.
type VideoInfo struct {
	Path       string
	Codec      string
	Width      int
	Height     int
	FrameCount int     // T; 0 when unknown.
	FPS        float64 // F; 0 when unreported.
	Rotation   int
	Duration   float64 // Container duration in seconds, if reported.
}

// DurationSec is T/F, or 0 when the rate is unknown.
func (v VideoInfo) DurationSec() float64 {
	if v.FPS <= 0 {
		return 0
	}
	return float64(v.FrameCount) / v.FPS
}

// SamplingPlan is computed once per run.
type SamplingPlan struct {
	Total  int // T
	Target int // N
	Stride int // S >= 1
}

// Selects reports whether the frame with zero-based read index r falls on the stride.
func (p SamplingPlan) Selects(r int) bool {
	if p.Stride <= 1 {
		return true
	}
	return r%p.Stride == 0
}

// Expected is the number of frames the plan yields if the source has T frames.
func (p SamplingPlan) Expected() int {
	if p.Total < p.Target {
		return p.Total
	}
	return p.Target
}

// SavedFrame is one exported image.
type SavedFrame struct {
	Index       int // Output sequence index.
	SourceFrame int // Zero-based read index in the source.
	Path        string
	Bytes       int64
}

// Summary aggregates the written files of a run.
type Summary struct {
	Saved      int
	Target     int
	TotalBytes int64
	AvgBytes   float64
}

// Partial reports whether fewer frames than requested were produced.
func (s Summary) Partial() bool {
	return s.Saved < s.Target
}
