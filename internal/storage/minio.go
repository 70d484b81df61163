package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"social-analytics-dashboard/internal/config"
	"social-analytics-dashboard/internal/models"
)

// MinIOClient archives downloaded reports in an S3-compatible bucket.
type MinIOClient struct {
	client *minio.Client
	bucket string
}

func NewMinIOClient(ctx context.Context, cfg *config.Config) (*MinIOClient, error) {
	client, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.MinIOBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinIOBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinIOClient{
		client: client,
		bucket: cfg.MinIOBucket,
	}, nil
}

func (m *MinIOClient) ArchiveReport(ctx context.Context, analysisID, filename string, data []byte) (string, error) {
	objectName := models.ReportObjectName(analysisID, filename)

	_, err := m.client.PutObject(ctx, m.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "text/csv",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to MinIO: %w", err)
	}

	return objectName, nil
}

// DeleteReports removes every archived report of one job.
func (m *MinIOClient) DeleteReports(ctx context.Context, analysisID string) error {
	objects := m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix:    "reports/" + analysisID + "/",
		Recursive: true,
	})
	for object := range objects {
		if object.Err != nil {
			return fmt.Errorf("failed to list reports: %w", object.Err)
		}
		if err := m.client.RemoveObject(ctx, m.bucket, object.Key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("failed to delete from MinIO: %w", err)
		}
	}
	return nil
}
