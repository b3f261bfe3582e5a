// Package objstore mirrors promoted assets to S3-compatible object
// storage via MinIO.
package objstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

type Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
}

type Archiver struct {
	client *minio.Client
	bucket string
	log    zerolog.Logger
}

func New(ctx context.Context, cfg Config, log zerolog.Logger) (*Archiver, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	a := &Archiver{
		client: client,
		bucket: cfg.Bucket,
		log:    log.With().Str("component", "objstore").Str("bucket", cfg.Bucket).Logger(),
	}

	if err := a.ensureBucket(ctx); err != nil {
		return nil, err
	}

	return a, nil
}

func (a *Archiver) ensureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
	}
	return nil
}

// Archive uploads every regular file in dir under prefix. The first upload
// failure aborts and is reported; the caller decides whether that matters
// (promotion treats archiving as best-effort).
func (a *Archiver) Archive(ctx context.Context, dir, prefix string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		local := filepath.Join(dir, entry.Name())
		object := prefix + "/" + entry.Name()

		info, err := a.client.FPutObject(ctx, a.bucket, object, local, minio.PutObjectOptions{
			ContentType: "application/octet-stream",
		})
		if err != nil {
			return fmt.Errorf("upload %s: %w", object, err)
		}
		a.log.Debug().Str("object", object).Int64("size", info.Size).Msg("file archived")
	}

	return nil
}
