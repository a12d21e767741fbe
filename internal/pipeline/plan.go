package pipeline

import (
	"fmt"

	"spinframes/internal/model"
	"spinframes/internal/naming"
)

// NewSamplingPlan computes the stride for taking target frames out of total.
// A source with no more frames than requested is read in full; otherwise every
// floor(total/target)-th frame is taken.
func NewSamplingPlan(total, target int) model.SamplingPlan {
	stride := 1
	if total > target && target > 0 {
		stride = max(1, total/target)
	}
	return model.SamplingPlan{Total: total, Target: target, Stride: stride}
}

// PlanOutputSize returns the frame size to decode at. The longer edge is
// capped at longSide without upscaling; scaled sizes are rounded to even
// numbers. longSide <= 0 keeps the source size.
func PlanOutputSize(info model.VideoInfo, longSide int) (int, int) {
	w, h := info.Width, info.Height
	inLong := max(w, h)
	if longSide <= 0 || inLong <= longSide || w <= 0 || h <= 0 {
		return w, h
	}
	if w >= h {
		return even(longSide), even(roundDiv(h*longSide, w))
	}
	return even(roundDiv(w*longSide, h)), even(longSide)
}

func roundDiv(a, b int) int {
	return (a + b/2) / b
}

func even(v int) int {
	v -= v % 2
	if v < 2 {
		return 2
	}
	return v
}

// validate checks options that would make a run meaningless.
func validate(o model.ExtractOptions) error {
	if o.VideoPath == "" {
		return fmt.Errorf("%w: video path is required", ErrInvalidOptions)
	}
	if o.OutDir == "" {
		return fmt.Errorf("%w: output directory is required", ErrInvalidOptions)
	}
	if o.TotalFrames <= 0 {
		return fmt.Errorf("%w: total frames must be positive, got %d", ErrInvalidOptions, o.TotalFrames)
	}
	if o.TotalFrames > naming.MaxFrames {
		return fmt.Errorf("%w: total frames must be at most %d, got %d", ErrInvalidOptions, naming.MaxFrames, o.TotalFrames)
	}
	if _, err := model.ParseImageFormat(string(o.Format)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if o.Prefix == "" {
		return fmt.Errorf("%w: prefix is required", ErrInvalidOptions)
	}
	if o.LongSide < 0 {
		return fmt.Errorf("%w: long side must not be negative", ErrInvalidOptions)
	}
	return nil
}
