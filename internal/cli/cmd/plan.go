package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"spinframes/internal/cli"
	"spinframes/internal/pipeline"
	"spinframes/internal/util/deps"
	"spinframes/internal/util/format"
)

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "plan [video_path] [total_frames]",
		Short:         "Show the sampling plan (metadata-only) without writing frames",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(len(cli.PlanSlots)),
		RunE:          runPlan,
	}
	// Reuse same flags; plan ignores the ones that only affect writing
	bindExtractFlags(cmd.Flags())
	return cmd
}

func runPlan(cmd *cobra.Command, args []string) error {
	in, err := assembleInputs(cmd, args, cli.PlanSlots)
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	// A missing video is reported before missing tools.
	if err := pipeline.CheckSource(in.Options.VideoPath); err != nil {
		return exitErrorFor(err)
	}
	ffprobePath, perr := deps.FindFFprobe(in.FFprobePath)
	if perr != nil {
		return &ExitError{Code: ExitMissingDep, Err: perr}
	}

	svc := pipeline.NewService(
		pipeline.WithOptions(in.Options),
		pipeline.WithFFprobePath(ffprobePath),
	)
	p, err := svc.Plan(cmd.Context())
	if err != nil {
		return exitErrorFor(err)
	}
	printPreview(cmd.OutOrStdout(), p)
	return nil
}

func printPreview(w io.Writer, p pipeline.Preview) {
	fmt.Fprintf(w, "Video:        %s\n", p.Info.Path)
	if p.Info.Codec != "" {
		fmt.Fprintf(w, "Codec:        %s\n", p.Info.Codec)
	}
	fmt.Fprintf(w, "Frame size:   %dx%d", p.Info.Width, p.Info.Height)
	if p.Info.Rotation != 0 {
		fmt.Fprintf(w, " (rotated %d)", p.Info.Rotation)
	}
	fmt.Fprintln(w)
	if p.Info.FPS > 0 {
		fmt.Fprintf(w, "Frame rate:   %.3f fps\n", p.Info.FPS)
	}
	if p.Plan.Total > 0 {
		fmt.Fprintf(w, "Total frames: %d\n", p.Plan.Total)
	} else {
		fmt.Fprintln(w, "Total frames: unknown")
	}
	if d := p.Info.DurationSec(); d > 0 {
		fmt.Fprintf(w, "Duration:     %.2fs\n", d)
	}
	fmt.Fprintf(w, "Target:       %d frames\n", p.Plan.Target)
	fmt.Fprintf(w, "Stride:       every %d frame(s)\n", p.Plan.Stride)
	fmt.Fprintf(w, "Output size:  %dx%d\n", p.Width, p.Height)
	if p.Plan.Total > 0 {
		fmt.Fprintf(w, "Expected:     %d frames\n", p.Plan.Expected())
	}
	fmt.Fprintf(w, "Files:        %s .. %s\n", p.First, p.Last)
	if px := int64(p.Width) * int64(p.Height) * 4; px > 0 {
		fmt.Fprintf(w, "Raw frame:    %s decoded\n", format.HumanizeBytes(px))
	}
}
