package services

import (
	"context"
	"errors"

	"social-analytics-dashboard/internal/models"
)

// SubmitAnalysis creates one job from validated brand configs and the
// paths returned by the upload sequencer. It does not retry.
func SubmitAnalysis(ctx context.Context, client JobSubmitter, brands map[string]models.BrandConfigIn, uploaded models.UploadResult) (string, error) {
	if len(brands) == 0 {
		return "", &ValidationError{Field: "brands", Message: "At least one brand configuration is required."}
	}
	if uploaded == nil {
		uploaded = models.UploadResult{}
	}

	resp, err := client.StartAnalysis(ctx, models.AnalyzeRequest{
		BrandsConfig:    brands,
		ReferenceImages: uploaded,
	})
	if err != nil {
		return "", &SubmissionError{Err: err}
	}
	if resp.AnalysisID == "" {
		return "", &SubmissionError{Err: errors.New("backend returned no analysis id")}
	}

	return resp.AnalysisID, nil
}
