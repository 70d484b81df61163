package services

import (
	"context"

	"social-analytics-dashboard/internal/analytics"
	"social-analytics-dashboard/internal/models"
)

// ImageUploader uploads one brand/model batch of reference images.
type ImageUploader interface {
	UploadReferenceImages(ctx context.Context, brand, model, analysisID string, images []models.ReferenceImage) (*models.UploadPathsResponse, error)
}

// JobSubmitter creates analysis jobs.
type JobSubmitter interface {
	StartAnalysis(ctx context.Context, req models.AnalyzeRequest) (*models.AnalyzeResponse, error)
}

// StatusFetcher reads the state of one job.
type StatusFetcher interface {
	GetAnalysisStatus(ctx context.Context, analysisID string) (*models.AnalysisStatus, error)
}

// AnalyticsAPI is the subset of the analytics backend the dashboard drives.
// *analytics.Client satisfies it.
type AnalyticsAPI interface {
	ImageUploader
	JobSubmitter
	StatusFetcher
	ListRecentAnalyses(ctx context.Context) ([]models.AnalysisSummary, error)
	FilterResults(ctx context.Context, analysisID string, filter models.TimeFilter) (*models.FilterResponse, error)
	DownloadResults(ctx context.Context, analysisID string, filter *models.TimeFilter) (*analytics.Download, error)
	DeleteAnalysis(ctx context.Context, analysisID string) error
	ProxyImage(ctx context.Context, imageURL string) ([]byte, string, error)
}

var _ AnalyticsAPI = (*analytics.Client)(nil)

// JobStore keeps the jobs this dashboard submitted so they can be found
// again after the poller stops.
type JobStore interface {
	SaveTracked(ctx context.Context, analysis models.TrackedAnalysis) error
	ListTracked(ctx context.Context, owner string) ([]models.TrackedAnalysis, error)
	// GetTracked returns nil, nil for jobs it does not know.
	GetTracked(ctx context.Context, analysisID string) (*models.TrackedAnalysis, error)
	DeleteTracked(ctx context.Context, analysisID string) error
}

// EventPublisher fans lifecycle changes out to other consumers.
type EventPublisher interface {
	PublishAnalysisEvent(ctx context.Context, event models.AnalysisEvent) error
}

// ReportArchiver keeps a copy of downloaded reports.
type ReportArchiver interface {
	ArchiveReport(ctx context.Context, analysisID, filename string, data []byte) (string, error)
}

// ReportCleaner is implemented by archives that can drop a job's reports.
type ReportCleaner interface {
	DeleteReports(ctx context.Context, analysisID string) error
}
