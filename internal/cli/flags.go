package cli

import (
	"fmt"
	"path/filepath"
	"strconv"

	"spinframes/internal/model"
	"spinframes/internal/naming"
)

// Slot names one positional argument.
type Slot int

const (
	SlotVideo Slot = iota
	SlotOutDir
	SlotFrames
	SlotFormat
	SlotQuality
)

// ExtractSlots is the positional order of the extract command:
// [video_path] [output_dir] [total_frames] [image_format] [quality].
var ExtractSlots = []Slot{SlotVideo, SlotOutDir, SlotFrames, SlotFormat, SlotQuality}

// PlanSlots is the positional order of the plan command:
// [video_path] [total_frames].
var PlanSlots = []Slot{SlotVideo, SlotFrames}

// ApplyPositional overrides o with args in slot order. Missing or empty
// arguments keep the value already in o.
func ApplyPositional(o model.ExtractOptions, args []string, slots []Slot) (model.ExtractOptions, error) {
	if len(args) > len(slots) {
		return o, fmt.Errorf("too many arguments: got %d, want at most %d", len(args), len(slots))
	}
	for i, raw := range args {
		if raw == "" {
			continue
		}
		switch slots[i] {
		case SlotVideo:
			o.VideoPath = raw
		case SlotOutDir:
			o.OutDir = raw
		case SlotFrames:
			n, err := strconv.Atoi(raw)
			if err != nil {
				return o, fmt.Errorf("invalid total_frames: %q", raw)
			}
			o.TotalFrames = n
		case SlotFormat:
			o.Format = model.ImageFormat(raw)
		case SlotQuality:
			q, err := strconv.Atoi(raw)
			if err != nil {
				return o, fmt.Errorf("invalid quality: %q", raw)
			}
			o.Quality = q
		}
	}
	return o, nil
}

// Normalize validates the values a user can get wrong on the command line
// and cleans paths. Quality is not range-checked.
func Normalize(o model.ExtractOptions) (model.ExtractOptions, error) {
	f, err := model.ParseImageFormat(string(o.Format))
	if err != nil {
		return o, err
	}
	o.Format = f
	if o.TotalFrames <= 0 || o.TotalFrames > naming.MaxFrames {
		return o, fmt.Errorf("invalid total_frames: %d (valid: 1..%d)", o.TotalFrames, naming.MaxFrames)
	}
	if o.Prefix == "" {
		return o, fmt.Errorf("invalid --prefix: must not be empty")
	}
	if o.LongSide < 0 {
		return o, fmt.Errorf("invalid --long-side: %d", o.LongSide)
	}
	if o.OutDir == "" {
		o.OutDir = "."
	}
	o.OutDir = filepath.Clean(o.OutDir)
	return o, nil
}
