// Package reportstore archives downloaded MOSS report bundles to an
// S3-compatible bucket so they outlive the service's expiry window and the
// grading machine.
package reportstore

import (
	"context"
	"fmt"
	"io/fs"
	"mime"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"

	"github.com/gradeworks/canvasmoss/internal/config"
)

type Store struct {
	api    *minio.Client
	bucket string
	prefix string
	logger zerolog.Logger
}

func New(cfg config.ArchiveConfig, logger zerolog.Logger) (*Store, error) {
	api, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create S3 client: %w", err)
	}
	return &Store{
		api:    api,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		logger: logger,
	}, nil
}

// UploadDir pushes every file under dir to the bucket below prefix/runID/,
// creating the bucket if it does not exist.
func (s *Store) UploadDir(ctx context.Context, dir, runID string) error {
	exists, err := s.api.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.api.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.bucket, err)
		}
	}

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(filepath.Join(s.prefix, runID, rel))
		contentType := mime.TypeByExtension(filepath.Ext(path))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		info, err := s.api.FPutObject(ctx, s.bucket, key, path, minio.PutObjectOptions{
			ContentType: contentType,
		})
		if err != nil {
			return fmt.Errorf("upload %s: %w", key, err)
		}
		s.logger.Debug().
			Str("key", key).
			Int64("size", info.Size).
			Msg("Archived report file")
		return nil
	})
}
