package pdf

import (
	"bytes"
	"context"
	"fmt"

	"climstore_backend/platform/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOArchiver stores rendered quote documents in an object bucket.
type MinIOArchiver struct {
	client *minio.Client
	bucket string
}

// NewMinIOArchiver connects to the archive store and ensures the bucket exists.
func NewMinIOArchiver(ctx context.Context, cfg config.ArchiveConfig) (*MinIOArchiver, error) {
	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("archive client: %w", err)
	}

	bucket := cfg.GetMinioBucketQuotePDFs()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check archive bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create archive bucket: %w", err)
		}
	}

	return &MinIOArchiver{client: client, bucket: bucket}, nil
}

// Store uploads one rendered document.
func (a *MinIOArchiver) Store(ctx context.Context, name string, doc []byte) error {
	_, err := a.client.PutObject(ctx, a.bucket, name, bytes.NewReader(doc), int64(len(doc)),
		minio.PutObjectOptions{ContentType: "application/pdf"})
	if err != nil {
		return fmt.Errorf("store %s: %w", name, err)
	}
	return nil
}

var _ Archiver = (*MinIOArchiver)(nil)
