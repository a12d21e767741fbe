package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"spinframes/internal/config"
	"spinframes/internal/manifest"
	"spinframes/internal/model"
	"spinframes/internal/naming"
	"spinframes/internal/progress"
	"spinframes/internal/storage"
	"spinframes/internal/util/format"
)

func newPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish [output_dir]",
		Short: "Upload an extracted sequence to S3-compatible object storage",
		Long: `publish uploads <prefix>-NNN.<ext> files from output_dir, plus <prefix>.json
when present, to a bucket. Credentials can come from SPINFRAMES_ACCESS_KEY and
SPINFRAMES_SECRET_KEY or the config file instead of flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runPublish,
	}
	fs := cmd.Flags()
	fs.String("endpoint", "", "Object storage endpoint (host:port)")
	fs.String("bucket", "", "Destination bucket; created if missing")
	fs.String("access-key", "", "Access key")
	fs.String("secret-key", "", "Secret key")
	fs.Bool("use-ssl", true, "Use HTTPS")
	fs.String("key-prefix", "", "Object key prefix, e.g. products/chair-42")
	fs.Int("jobs", 4, "Concurrent uploads")
	fs.String("prefix", model.DefaultPrefix, "File name prefix of the sequence")
	fs.String(config.KeyFormat, string(model.DefaultFormat), "Image format of the sequence")
	return cmd
}

func runPublish(cmd *cobra.Command, args []string) error {
	v, err := config.New(cmd.Flags())
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	dir := v.GetString(config.KeyOutDir)
	if len(args) > 0 {
		dir = args[0]
	}
	f, err := model.ParseImageFormat(v.GetString(config.KeyFormat))
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	prefix := stringOr(v.GetString("prefix"), model.DefaultPrefix)

	files, err := naming.List(dir, prefix, f.Ext())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &ExitError{Code: ExitOutputError, Err: fmt.Errorf("output directory %s does not exist", dir)}
		}
		return &ExitError{Code: ExitOutputError, Err: err}
	}
	if len(files) == 0 {
		return &ExitError{Code: ExitOutputError, Err: fmt.Errorf("no %s files found in %s", naming.FrameName(prefix, 0, f.Ext()), dir)}
	}
	if m := manifestPath(dir, prefix); m != "" {
		files = append(files, m)
	}

	store, err := storage.NewMinioStore(storage.Config{
		Endpoint:  v.GetString("endpoint"),
		AccessKey: v.GetString("access-key"),
		SecretKey: v.GetString("secret-key"),
		UseSSL:    v.GetBool("use-ssl"),
		Bucket:    v.GetString("bucket"),
		KeyPrefix: v.GetString("key-prefix"),
	})
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	if err := store.EnsureBucket(cmd.Context()); err != nil {
		return &ExitError{Code: ExitPublishError, Err: err}
	}

	rep := progress.NewConsoleReporter(cmd.OutOrStdout())
	stats, err := storage.Publish(cmd.Context(), store, files, storage.PublishOptions{
		KeyPrefix: v.GetString("key-prefix"),
		Jobs:      v.GetInt("jobs"),
		Reporter:  rep,
	})
	if err != nil {
		return &ExitError{Code: ExitPublishError, Err: fmt.Errorf("publish: %w", err)}
	}
	rep.Log(progress.Log{
		Level: progress.LevelInfo,
		Line: fmt.Sprintf("Uploaded %d files (%s) to bucket %s",
			stats.Files, format.HumanizeBytes(stats.Bytes), v.GetString("bucket")),
	})
	return nil
}

// manifestPath returns the sequence manifest in dir, or "" if there is none.
func manifestPath(dir, prefix string) string {
	p := filepath.Join(dir, manifest.FileName(prefix))
	if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
		return p
	}
	return ""
}
