// Package probe reads video metadata with a single ffprobe JSON call.
package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"spinframes/internal/model"
	"spinframes/internal/util"
)

// ErrNoVideoStream is returned when the file has no decodable video stream.
var ErrNoVideoStream = errors.New("no video stream")

// Prober runs ffprobe through a CmdRunner.
type Prober struct {
	ffprobePath  string
	runner       util.CmdRunner
	countPackets bool
}

// New returns a Prober. A nil runner uses os/exec.
func New(ffprobePath string, runner util.CmdRunner) *Prober {
	if runner == nil {
		runner = util.NewDefaultRunner()
	}
	return &Prober{ffprobePath: ffprobePath, runner: runner}
}

// WithPacketCount makes Probe demux the whole file and report the exact
// number of video packets. Slower, but independent of container metadata.
func (p *Prober) WithPacketCount(on bool) *Prober {
	p.countPackets = on
	return p
}

// Args returns the ffprobe arguments used for path.
func (p *Prober) Args(path string) []string {
	args := []string{
		"-v", "error",
		"-print_format", "json",
		"-show_format", "-show_streams",
		"-select_streams", "v:0",
	}
	if p.countPackets {
		args = append(args, "-count_packets")
	}
	return append(args, path)
}

// Probe returns the metadata of the first video stream in path.
func (p *Prober) Probe(ctx context.Context, path string) (model.VideoInfo, error) {
	if p.ffprobePath == "" {
		return model.VideoInfo{}, errors.New("ffprobe path is required")
	}
	res, err := p.runner.Run(ctx, util.CmdSpec{
		Path: p.ffprobePath,
		Args: p.Args(path),
	})
	if err != nil {
		return model.VideoInfo{}, fmt.Errorf("ffprobe %q: %w", path, err)
	}
	info, err := ParseJSON(res.Stdout)
	if err != nil {
		return model.VideoInfo{}, err
	}
	info.Path = path
	return info, nil
}

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
}

type ffprobeStream struct {
	CodecName     string            `json:"codec_name"`
	CodecType     string            `json:"codec_type"`
	Width         int               `json:"width"`
	Height        int               `json:"height"`
	AvgFrameRate  string            `json:"avg_frame_rate"`
	RFrameRate    string            `json:"r_frame_rate"`
	NbFrames      string            `json:"nb_frames"`
	NbReadPackets string            `json:"nb_read_packets"`
	Duration      string            `json:"duration"`
	Disposition   map[string]int    `json:"disposition"`
	Tags          map[string]string `json:"tags"`
	SideData      []sideData        `json:"side_data_list"`
}

type sideData struct {
	Rotation *float64 `json:"rotation"`
}

// ParseJSON converts raw ffprobe JSON output into a VideoInfo.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (model.VideoInfo, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.VideoInfo{}, fmt.Errorf("parse ffprobe JSON: %w", err)
	}

	var vs *ffprobeStream
	for i := range raw.Streams {
		s := &raw.Streams[i]
		if s.CodecType == "video" && s.Disposition["attached_pic"] != 1 {
			vs = s
			break
		}
	}
	if vs == nil || vs.Width <= 0 || vs.Height <= 0 {
		return model.VideoInfo{}, ErrNoVideoStream
	}

	fps := parseRate(vs.AvgFrameRate)
	if fps <= 0 {
		fps = parseRate(vs.RFrameRate)
	}

	duration := parseFloat(vs.Duration)
	if duration <= 0 {
		duration = parseFloat(raw.Format.Duration)
	}

	rot := rotation(vs)
	w, h := vs.Width, vs.Height
	if rot == 90 || rot == 270 {
		w, h = h, w
	}

	return model.VideoInfo{
		Codec:      vs.CodecName,
		Width:      w,
		Height:     h,
		FrameCount: frameCount(vs, fps, duration),
		FPS:        fps,
		Rotation:   rot,
		Duration:   duration,
	}, nil
}

// frameCount prefers an exact packet count, then container metadata, then an
// estimate from duration and rate.
func frameCount(s *ffprobeStream, fps, duration float64) int {
	if n := parseInt(s.NbReadPackets); n > 0 {
		return n
	}
	if n := parseInt(s.NbFrames); n > 0 {
		return n
	}
	for k, v := range s.Tags {
		if strings.HasPrefix(strings.ToUpper(k), "NUMBER_OF_FRAMES") {
			if n := parseInt(v); n > 0 {
				return n
			}
		}
	}
	if fps > 0 && duration > 0 {
		return int(math.Round(fps * duration))
	}
	return 0
}

// rotation returns the clockwise rotation normalised to 0, 90, 180 or 270.
func rotation(s *ffprobeStream) int {
	deg := 0.0
	if v, ok := s.Tags["rotate"]; ok {
		deg = parseFloat(v)
	}
	for _, sd := range s.SideData {
		if sd.Rotation != nil {
			// Display matrix rotation is counter-clockwise.
			deg = -*sd.Rotation
			break
		}
	}
	r := int(math.Round(deg)) % 360
	if r < 0 {
		r += 360
	}
	return r
}

// parseRate parses "30000/1001" style rationals; "0/0" yields 0.
func parseRate(s string) float64 {
	num, den, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return parseFloat(num)
	}
	n, d := parseFloat(num), parseFloat(den)
	if d == 0 {
		return 0
	}
	return n / d
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func parseInt(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
