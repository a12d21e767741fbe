package cmd

import (
	"github.com/spf13/cobra"
)

func newTuiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tui [video_path] [output_dir] [total_frames] [image_format] [quality]",
		Short:         "Force TUI mode for an extraction",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(len(extractUse)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args, runMode{ForceTUI: true})
		},
	}
	bindExtractFlags(cmd.Flags())
	// In TUI mode, '--no-ui' makes no sense, but keep flag for compatibility.
	if f := cmd.Flags().Lookup("no-ui"); f != nil {
		f.Hidden = true
	}
	return cmd
}
