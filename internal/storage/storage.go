// Package storage publishes exported frame sequences to S3-compatible object
// storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/sync/errgroup"

	"spinframes/internal/model"
	"spinframes/internal/progress"
)

// ImmutableCacheControl is sent with every frame; sequence files are
// rewritten under the same names only when the whole sequence is replaced.
const ImmutableCacheControl = "public, max-age=31536000, immutable"

// Config locates the bucket.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	KeyPrefix string
}

// ObjectStore uploads local files.
type ObjectStore interface {
	PutFile(ctx context.Context, key, path, contentType string) (int64, error)
}

// MinioStore is an ObjectStore backed by minio-go.
type MinioStore struct {
	client *miniogo.Client
	bucket string
}

// NewMinioStore creates a client for cfg. No request is made.
func NewMinioStore(cfg Config) (*MinioStore, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("storage endpoint is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &MinioStore{client: client, bucket: cfg.Bucket}, nil
}

// EnsureBucket creates the bucket if it does not exist.
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, miniogo.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// PutFile uploads the file at path under key.
func (s *MinioStore) PutFile(ctx context.Context, key, path, contentType string) (int64, error) {
	info, err := s.client.FPutObject(ctx, s.bucket, key, path, miniogo.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: ImmutableCacheControl,
	})
	if err != nil {
		return 0, fmt.Errorf("upload %s: %w", key, err)
	}
	return info.Size, nil
}

// PublishOptions control a Publish call.
type PublishOptions struct {
	KeyPrefix string
	Jobs      int               // concurrent uploads; <= 0 means 4
	Reporter  progress.Reporter // optional
}

// PublishStats summarizes a Publish call.
type PublishStats struct {
	Files int
	Bytes int64
}

// Publish uploads files concurrently. The first failure cancels the
// remaining uploads and is returned.
func Publish(ctx context.Context, store ObjectStore, files []string, opts PublishOptions) (PublishStats, error) {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = 4
	}
	rep := opts.Reporter
	if rep == nil {
		rep = progress.Nop{}
	}

	var done, total int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for _, f := range files {
		f := f // capture
		g.Go(func() error {
			key := ObjectKey(opts.KeyPrefix, f)
			n, err := store.PutFile(ctx, key, f, ContentType(f))
			if err != nil {
				return err
			}
			atomic.AddInt64(&total, n)
			cur := atomic.AddInt64(&done, 1)
			rep.Update(progress.Update{
				Stage:   progress.StagePublishing,
				Current: int(cur),
				Total:   len(files),
				Bytes:   n,
				Message: fmt.Sprintf("[%d/%d] uploaded: %s", cur, len(files), key),
			})
			return nil
		})
	}

	err := g.Wait()
	return PublishStats{Files: int(atomic.LoadInt64(&done)), Bytes: atomic.LoadInt64(&total)}, err
}

// ObjectKey joins prefix and the base name of file with forward slashes.
func ObjectKey(prefix, file string) string {
	name := filepath.Base(file)
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

// ContentType derives the MIME type from the file extension.
func ContentType(file string) string {
	ext := strings.TrimPrefix(filepath.Ext(file), ".")
	if strings.EqualFold(ext, "json") {
		return "application/json"
	}
	if f, err := model.ParseImageFormat(ext); err == nil {
		return f.ContentType()
	}
	return "application/octet-stream"
}
