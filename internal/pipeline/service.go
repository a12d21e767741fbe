// Package pipeline samples a video into a numbered image sequence.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"spinframes/internal/encoder"
	"spinframes/internal/manifest"
	"spinframes/internal/model"
	"spinframes/internal/naming"
	"spinframes/internal/probe"
	"spinframes/internal/progress"
	"spinframes/internal/source"
	"spinframes/internal/util"
	"spinframes/internal/util/format"
)

var (
	// ErrSourceNotFound means the video path does not exist.
	ErrSourceNotFound = errors.New("video file not found")
	// ErrUnreadableSource means the file exists but cannot be probed or decoded.
	ErrUnreadableSource = errors.New("cannot open video file")
	// ErrOutputDir means the output directory cannot be created or prepared.
	ErrOutputDir = errors.New("cannot prepare output directory")
	// ErrInvalidOptions means the run was misconfigured.
	ErrInvalidOptions = errors.New("invalid options")
)

// Prober reads video metadata.
type Prober interface {
	Probe(ctx context.Context, path string) (model.VideoInfo, error)
}

// Service runs one extraction: probe, plan, decode, encode, summarize.
type Service struct {
	opts        model.ExtractOptions
	ffmpegPath  string
	ffprobePath string

	prober   Prober
	opener   source.Opener
	encoder  encoder.Encoder
	runner   util.CmdRunner
	reporter progress.Reporter
	log      *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithOptions sets the extraction options.
func WithOptions(o model.ExtractOptions) Option {
	return func(s *Service) {
		s.opts = o
	}
}

// WithFFmpegPath sets the ffmpeg binary path.
func WithFFmpegPath(p string) Option {
	return func(s *Service) {
		s.ffmpegPath = p
	}
}

// WithFFprobePath sets the ffprobe binary path.
func WithFFprobePath(p string) Option {
	return func(s *Service) {
		s.ffprobePath = p
	}
}

// WithProber replaces the ffprobe-based prober.
func WithProber(p Prober) Option {
	return func(s *Service) {
		s.prober = p
	}
}

// WithOpener replaces the ffmpeg frame source.
func WithOpener(o source.Opener) Option {
	return func(s *Service) {
		s.opener = o
	}
}

// WithEncoder replaces the encoder chosen from the image format.
func WithEncoder(e encoder.Encoder) Option {
	return func(s *Service) {
		s.encoder = e
	}
}

// WithRunner injects a custom command runner (useful for testing).
func WithRunner(r util.CmdRunner) Option {
	return func(s *Service) {
		s.runner = r
	}
}

// WithReporter attaches a progress reporter.
func WithReporter(rp progress.Reporter) Option {
	return func(s *Service) {
		s.reporter = rp
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		s.log = l
	}
}

// NewService constructs a Service. Components not supplied are built from the
// ffmpeg/ffprobe paths.
func NewService(opts ...Option) *Service {
	s := &Service{opts: model.DefaultExtractOptions()}
	for _, o := range opts {
		o(s)
	}
	if s.runner == nil {
		s.runner = util.NewDefaultRunner()
	}
	if s.reporter == nil {
		s.reporter = progress.Nop{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.prober == nil {
		s.prober = probe.New(s.ffprobePath, s.runner).WithPacketCount(s.opts.ExactCount)
	}
	if s.opener == nil {
		s.opener = source.FFmpegOpener{FFmpegPath: s.ffmpegPath, Verbose: s.opts.Verbose}
	}
	return s
}

// Preview is what a run would do, computed without writing anything.
type Preview struct {
	Info   model.VideoInfo
	Plan   model.SamplingPlan
	Width  int
	Height int
	First  string // first output file name
	Last   string // last output file name if the source has enough frames
}

// Result is the outcome of Extract.
type Result struct {
	Info         model.VideoInfo
	Plan         model.SamplingPlan
	Width        int
	Height       int
	OutputDir    string
	DirCreated   bool
	Cleaned      int
	Frames       []model.SavedFrame
	Summary      model.Summary
	EndOfStream  bool // the source ran out before the target was reached
	ManifestPath string
}

// Plan probes the source and computes the sampling plan and output size.
func (s *Service) Plan(ctx context.Context) (Preview, error) {
	o, err := s.normalized()
	if err != nil {
		return Preview{}, err
	}
	info, err := s.probe(ctx, o.VideoPath)
	if err != nil {
		return Preview{}, err
	}
	plan := NewSamplingPlan(info.FrameCount, o.TotalFrames)
	w, h := PlanOutputSize(info, o.LongSide)
	last := plan.Target
	if plan.Total > 0 {
		last = plan.Expected()
	}
	return Preview{
		Info:   info,
		Plan:   plan,
		Width:  w,
		Height: h,
		First:  naming.FrameName(o.Prefix, 0, o.Format.Ext()),
		Last:   naming.FrameName(o.Prefix, max(0, last-1), o.Format.Ext()),
	}, nil
}

// Extract runs the sampler. Missing or unreadable sources fail before
// anything is written. Single frames that cannot be encoded are reported and
// skipped; a source that ends early yields a partial but successful result.
// It never prints; events go to the Reporter, diagnostics to the logger.
func (s *Service) Extract(ctx context.Context) (Result, error) {
	res, err := s.extract(ctx)
	if err != nil {
		s.reporter.Update(progress.Update{Stage: progress.StageError, Message: err.Error()})
		s.reporter.Result(progress.Result{
			OutputDir: res.OutputDir,
			Saved:     res.Summary.Saved,
			Target:    s.opts.TotalFrames,
			Bytes:     res.Summary.TotalBytes,
			AvgBytes:  res.Summary.AvgBytes,
			Err:       err,
		})
		return res, err
	}
	s.reporter.Update(progress.Update{
		Stage:   progress.StageCompleted,
		Current: res.Summary.Saved,
		Total:   res.Summary.Target,
		Bytes:   res.Summary.TotalBytes,
	})
	s.reporter.Result(progress.Result{
		OutputDir: res.OutputDir,
		Saved:     res.Summary.Saved,
		Target:    res.Summary.Target,
		Bytes:     res.Summary.TotalBytes,
		AvgBytes:  res.Summary.AvgBytes,
	})
	return res, nil
}

func (s *Service) extract(ctx context.Context) (Result, error) {
	var res Result
	o, err := s.normalized()
	if err != nil {
		return res, err
	}
	res.OutputDir = o.OutDir
	ext := o.Format.Ext()

	enc := s.encoder
	if enc == nil {
		enc, err = encoder.New(o.Format, o.Quality, encoder.Options{
			FFmpegPath: s.ffmpegPath,
			Runner:     s.runner,
			Verbose:    o.Verbose,
		})
		if err != nil {
			return res, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
		}
	}

	// Step 1: Probe
	s.reporter.Update(progress.Update{Stage: progress.StageProbing, Total: o.TotalFrames})
	info, err := s.probe(ctx, o.VideoPath)
	if err != nil {
		return res, err
	}
	res.Info = info

	// Step 2: Plan
	plan := NewSamplingPlan(info.FrameCount, o.TotalFrames)
	w, h := PlanOutputSize(info, o.LongSide)
	res.Plan, res.Width, res.Height = plan, w, h
	s.log.Debug("sampling plan",
		zap.String("video", o.VideoPath),
		zap.String("codec", info.Codec),
		zap.Int("total", plan.Total),
		zap.Int("target", plan.Target),
		zap.Int("stride", plan.Stride),
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Int("rotation", info.Rotation),
	)

	// Step 3: Open the source before touching the output directory
	src, err := s.opener.Open(ctx, source.Spec{Path: o.VideoPath, Width: w, Height: h})
	if err != nil {
		return res, fmt.Errorf("%w: %s: %w", ErrUnreadableSource, o.VideoPath, err)
	}

	// A source that probes but yields no frame at all cannot be decoded.
	first, err := src.Next()
	if err != nil {
		if cerr := src.Close(); cerr != nil {
			err = cerr
		}
		if cerr := ctx.Err(); cerr != nil {
			return res, cerr
		}
		return res, fmt.Errorf("%w: %s: no decodable frames: %w", ErrUnreadableSource, o.VideoPath, err)
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			s.log.Debug("close source", zap.Error(cerr))
		}
	}()

	// Step 4: Prepare the output directory
	created, err := util.EnsureDir(o.OutDir)
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrOutputDir, err)
	}
	res.DirCreated = created
	if created {
		s.info("Created output directory: %s", o.OutDir)
	}
	if o.Clean {
		n, err := naming.Clean(o.OutDir, o.Prefix, ext)
		if err != nil {
			return res, fmt.Errorf("%w: clean old frames: %w", ErrOutputDir, err)
		}
		res.Cleaned = n
		if n > 0 {
			s.info("Removed %d old frames", n)
		}
	}

	s.info("Video: %d frames, %.2f fps, %.2f s", info.FrameCount, info.FPS, info.DurationSec())
	s.info("Extracting %d frames, every %d frame(s), %dx%d %s", plan.Target, plan.Stride, w, h, o.Format)

	// Step 5: Sample
	s.reporter.Update(progress.Update{Stage: progress.StageExtracting, Total: plan.Target})
	saved := 0
	for r := 0; saved < plan.Target; r++ {
		if err := ctx.Err(); err != nil {
			res.Summary = s.summarize(o, saved)
			return res, err
		}
		img, rerr := first, error(nil)
		if r > 0 {
			img, rerr = src.Next()
		}
		if rerr != nil {
			if !errors.Is(rerr, io.EOF) {
				s.log.Debug("frame read ended the stream", zap.Int("read", r), zap.Error(rerr))
			}
			res.EndOfStream = true
			break
		}
		if !plan.Selects(r) {
			continue
		}

		name := naming.FrameName(o.Prefix, saved, ext)
		path := filepath.Join(o.OutDir, name)
		if err := enc.Encode(ctx, img, path); err != nil {
			s.log.Debug("frame not written", zap.String("path", path), zap.Int("source_frame", r), zap.Error(err))
			s.reporter.Log(progress.Log{Level: progress.LevelWarn, Line: fmt.Sprintf("could not write %s: %v", path, err)})
			continue
		}

		size, _ := util.FileSize(path)
		res.Frames = append(res.Frames, model.SavedFrame{Index: saved, SourceFrame: r, Path: path, Bytes: size})
		saved++
		s.reporter.Update(progress.Update{
			Stage:   progress.StageExtracting,
			Current: saved,
			Total:   plan.Target,
			Bytes:   size,
			Message: fmt.Sprintf("[%d/%d] saved: %s (%s)", saved, plan.Target, name, format.KB(float64(size))),
		})
	}

	if res.EndOfStream && saved < plan.Target {
		s.reporter.Log(progress.Log{
			Level: progress.LevelWarn,
			Line:  fmt.Sprintf("reached the end of the video after %d/%d frames", saved, plan.Target),
		})
	}

	// Step 6: Summarize from what is on disk
	res.Summary = s.summarize(o, saved)

	if o.Manifest {
		p, err := s.writeManifest(o, res)
		if err != nil {
			s.log.Debug("manifest not written", zap.Error(err))
			s.reporter.Log(progress.Log{Level: progress.LevelWarn, Line: fmt.Sprintf("could not write manifest: %v", err)})
		} else {
			res.ManifestPath = p
			s.info("Wrote manifest: %s", p)
		}
	}
	return res, nil
}

// Summarize totals the sizes of the first saved sequence files in outDir.
// Files that are missing are skipped; the average is over saved, or 0.
func Summarize(outDir, prefix, ext string, saved int) model.Summary {
	sum := model.Summary{Saved: saved}
	for i := 0; i < saved; i++ {
		if n, ok := util.FileSize(filepath.Join(outDir, naming.FrameName(prefix, i, ext))); ok {
			sum.TotalBytes += n
		}
	}
	if saved > 0 {
		sum.AvgBytes = float64(sum.TotalBytes) / float64(saved)
	}
	return sum
}

func (s *Service) summarize(o model.ExtractOptions, saved int) model.Summary {
	sum := Summarize(o.OutDir, o.Prefix, o.Format.Ext(), saved)
	sum.Target = o.TotalFrames
	return sum
}

// normalized validates the options and lower-cases the format.
func (s *Service) normalized() (model.ExtractOptions, error) {
	o := s.opts
	if err := validate(o); err != nil {
		return o, err
	}
	o.Format, _ = model.ParseImageFormat(string(o.Format))
	return o, nil
}

// CheckSource reports ErrSourceNotFound for a missing path and
// ErrUnreadableSource for one that is not a regular, stat-able file.
func CheckSource(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return fmt.Errorf("%w: %w", ErrUnreadableSource, err)
	}
	if fi.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrUnreadableSource, path)
	}
	return nil
}

func (s *Service) probe(ctx context.Context, path string) (model.VideoInfo, error) {
	if err := CheckSource(path); err != nil {
		return model.VideoInfo{}, err
	}
	info, err := s.prober.Probe(ctx, path)
	if err != nil {
		return model.VideoInfo{}, fmt.Errorf("%w: %s: %w", ErrUnreadableSource, path, err)
	}
	return info, nil
}

func (s *Service) writeManifest(o model.ExtractOptions, res Result) (string, error) {
	names := make([]string, 0, len(res.Frames))
	for _, f := range res.Frames {
		names = append(names, filepath.Base(f.Path))
	}
	return manifest.Write(o.OutDir, manifest.Manifest{
		Prefix:      o.Prefix,
		Format:      string(o.Format),
		Extension:   o.Format.Ext(),
		TotalFrames: len(names),
		Width:       res.Width,
		Height:      res.Height,
		Stride:      res.Plan.Stride,
		Source:      filepath.Base(o.VideoPath),
		Frames:      names,
	})
}

func (s *Service) info(msg string, args ...any) {
	line := fmt.Sprintf(msg, args...)
	s.log.Debug(line)
	s.reporter.Log(progress.Log{Level: progress.LevelInfo, Line: line})
}
