package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"social-analytics-dashboard/internal/models"
)

// UploadSequencer uploads reference images one brand/model batch at a time.
type UploadSequencer struct {
	client ImageUploader
	newID  func() string
	logger *slog.Logger
}

func NewUploadSequencer(client ImageUploader, logger *slog.Logger) *UploadSequencer {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadSequencer{
		client: client,
		newID:  NewTemporaryID,
		logger: logger,
	}
}

// NewTemporaryID scopes a run's uploads until the backend assigns a job id.
func NewTemporaryID() string {
	return "temp-" + uuid.NewString()
}

// Upload sends every non-empty batch in brand, then model, order. The first
// failure aborts the run and is returned as *UploadError; nothing after it
// is attempted and nothing before it is rolled back.
func (s *UploadSequencer) Upload(ctx context.Context, images *ReferenceImageSet) (models.UploadResult, error) {
	result := models.UploadResult{}
	if images == nil || images.Len() == 0 {
		return result, nil
	}

	tempID := s.newID()
	for _, brand := range images.Brands() {
		for _, model := range images.Models(brand) {
			batch := images.Images(brand, model)
			if len(batch) == 0 {
				continue
			}

			resp, err := s.client.UploadReferenceImages(ctx, brand, model, tempID, batch)
			if err != nil {
				s.logger.Error("reference image upload failed",
					"brand", brand, "model", model, "upload_id", tempID, "error", err)
				return nil, &UploadError{Brand: brand, Model: model, Err: err}
			}

			if result[brand] == nil {
				result[brand] = make(map[string][]string)
			}
			result[brand][model] = resp.Paths
			s.logger.Info("reference images uploaded",
				"brand", brand, "model", model, "count", len(resp.Paths))
		}
	}

	return result, nil
}
