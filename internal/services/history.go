package services

import (
	"context"
	"fmt"
	"log/slog"

	"social-analytics-dashboard/internal/models"
)

// HistoryService lists and deletes jobs outside of any session.
type HistoryService struct {
	client  AnalyticsAPI
	store   JobStore
	cleaner ReportCleaner
	logger  *slog.Logger
}

// NewHistoryService wires history operations. store and archive may be nil;
// an archive that implements ReportCleaner loses a job's reports when the
// job is deleted.
func NewHistoryService(client AnalyticsAPI, store JobStore, archive ReportArchiver, logger *slog.Logger) *HistoryService {
	if logger == nil {
		logger = slog.Default()
	}
	h := &HistoryService{client: client, store: store, logger: logger}
	if cleaner, ok := archive.(ReportCleaner); ok {
		h.cleaner = cleaner
	}
	return h
}

// ListRecent returns the backend's recent jobs.
func (h *HistoryService) ListRecent(ctx context.Context) ([]models.AnalysisSummary, error) {
	summaries, err := h.client.ListRecentAnalyses(ctx)
	if err != nil {
		return nil, err
	}
	if summaries == nil {
		summaries = []models.AnalysisSummary{}
	}
	return summaries, nil
}

// Delete removes a job on the backend, then its local record and archived
// reports. A job tracked for another owner is refused with ErrNotOwner;
// untracked jobs were started elsewhere and may be deleted by anyone. Local
// cleanup failures are only logged.
func (h *HistoryService) Delete(ctx context.Context, analysisID, owner string) error {
	if h.store != nil {
		tracked, err := h.store.GetTracked(ctx, analysisID)
		if err != nil {
			return fmt.Errorf("failed to check analysis owner: %w", err)
		}
		if tracked != nil && tracked.Owner != owner {
			return ErrNotOwner
		}
	}

	if err := h.client.DeleteAnalysis(ctx, analysisID); err != nil {
		return err
	}
	if h.store != nil {
		if err := h.store.DeleteTracked(ctx, analysisID); err != nil {
			h.logger.Warn("failed to delete tracked analysis", "analysis_id", analysisID, "error", err)
		}
	}
	if h.cleaner != nil {
		if err := h.cleaner.DeleteReports(ctx, analysisID); err != nil {
			h.logger.Warn("failed to delete archived reports", "analysis_id", analysisID, "error", err)
		}
	}
	return nil
}

// Tracked returns the jobs submitted by owner through this dashboard.
func (h *HistoryService) Tracked(ctx context.Context, owner string) ([]models.TrackedAnalysis, error) {
	if h.store == nil {
		return []models.TrackedAnalysis{}, nil
	}
	tracked, err := h.store.ListTracked(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked analyses: %w", err)
	}
	if tracked == nil {
		tracked = []models.TrackedAnalysis{}
	}
	return tracked, nil
}

// ProxyImage passes a thumbnail request through to the backend.
func (h *HistoryService) ProxyImage(ctx context.Context, imageURL string) ([]byte, string, error) {
	return h.client.ProxyImage(ctx, imageURL)
}
