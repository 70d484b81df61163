package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"social-analytics-dashboard/internal/config"
	"social-analytics-dashboard/internal/services"
	"social-analytics-dashboard/internal/storage"
)

var (
	_ services.ReportArchiver = (*storage.MinIOClient)(nil)
	_ services.ReportCleaner  = (*storage.MinIOClient)(nil)
)

func TestNewMinIOClient_InvalidEndpoint(t *testing.T) {
	_, err := storage.NewMinIOClient(context.Background(), &config.Config{
		MinIOEndpoint:  "",
		MinIOAccessKey: "minio",
		MinIOSecretKey: "minio123",
		MinIOBucket:    "analysis-reports",
	})

	assert.ErrorContains(t, err, "failed to create MinIO client")
}
