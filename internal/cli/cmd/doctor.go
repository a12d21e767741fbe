package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"spinframes/internal/dirs"
	"spinframes/internal/util"
	"spinframes/internal/util/deps"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "doctor",
		Short:         "Diagnose external dependencies (ffmpeg, ffprobe, libwebp)",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ffmpegFlag, _ := cmd.Flags().GetString("ffmpeg")
			ffprobeFlag, _ := cmd.Flags().GetString("ffprobe")

			ff, ferr := deps.FindFFmpeg(ffmpegFlag)
			if ferr != nil {
				return &ExitError{Code: ExitMissingDep, Err: ferr}
			}
			fp, perr := deps.FindFFprobe(ffprobeFlag)
			if perr != nil {
				return &ExitError{Code: ExitMissingDep, Err: perr}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "FFmpeg:    %s\n", ff)
			fmt.Fprintf(out, "FFprobe:   %s\n", fp)
			if cfg, ok := dirs.ConfigFile(); ok {
				fmt.Fprintf(out, "Config:    %s\n", cfg)
			} else if d, err := dirs.ConfigDir(); err == nil {
				fmt.Fprintf(out, "Config:    none (looked in %s)\n", d)
			}

			res, err := util.Run(cmd.Context(), util.CmdSpec{
				Path: ff,
				Args: []string{"-hide_banner", "-encoders"},
			})
			if err != nil {
				return &ExitError{Code: ExitMissingDep, Err: fmt.Errorf("list ffmpeg encoders: %w", err)}
			}
			if !HasEncoder(string(res.Stdout), "libwebp") {
				fmt.Fprintln(out, "libwebp:   missing (webp output unavailable; png and jpg still work)")
				return &ExitError{Code: ExitMissingDep, Err: errors.New("ffmpeg was built without libwebp")}
			}
			fmt.Fprintln(out, "libwebp:   ok")
			return nil
		},
	}
}

// HasEncoder reports whether `ffmpeg -encoders` output lists name.
func HasEncoder(listing, name string) bool {
	for _, line := range strings.Split(listing, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == name {
			return true
		}
	}
	return false
}
