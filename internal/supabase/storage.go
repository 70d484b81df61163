package supabase

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	storage "github.com/supabase-community/storage-go"
	"social-analytics-dashboard/internal/models"
)

// StorageClient archives downloaded reports in a Supabase Storage bucket.
type StorageClient struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

func NewStorageClient(supabaseURL, serviceRoleKey, bucket string) (*StorageClient, error) {
	baseURL := strings.TrimSuffix(supabaseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("supabase url is required")
	}
	client := storage.NewClient(baseURL+"/storage/v1", serviceRoleKey, nil)

	return &StorageClient{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}, nil
}

// ArchiveReport uploads a CSV report to reports/<analysis_id>/<filename>,
// replacing any earlier copy, and returns its storage path.
func (s *StorageClient) ArchiveReport(ctx context.Context, analysisID, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	storagePath := models.ReportObjectName(analysisID, filename)

	contentType := "text/csv"
	upsert := true
	_, err := s.client.UploadFile(s.bucket, storagePath, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report: %w", err)
	}

	return storagePath, nil
}

// DeleteReports removes every archived report of one job.
func (s *StorageClient) DeleteReports(ctx context.Context, analysisID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	prefix := "reports/" + analysisID + "/"

	files, err := s.client.ListFiles(s.bucket, prefix, storage.FileSearchOptions{
		Limit: 1000,
	})
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}
	if len(files) == 0 {
		return nil
	}

	paths := make([]string, len(files))
	for i, file := range files {
		paths[i] = prefix + file.Name
	}
	if _, err := s.client.RemoveFile(s.bucket, paths); err != nil {
		return fmt.Errorf("failed to delete reports: %w", err)
	}
	return nil
}
