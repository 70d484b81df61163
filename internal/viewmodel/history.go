package viewmodel

import (
	"time"

	"social-analytics-dashboard/internal/models"
)

type HistoryEntry struct {
	AnalysisID string `json:"analysis_id"`
	ShortID    string `json:"short_id"`
	Status     string `json:"status"`
	Progress   int    `json:"progress"`
	Message    string `json:"message"`
	UpdatedAt  string `json:"updated_at,omitempty"`
	Color      string `json:"color"`
	Icon       string `json:"icon"`
	Loadable   bool   `json:"loadable"`
}

func BuildHistory(summaries []models.AnalysisSummary) []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(summaries))
	for _, s := range summaries {
		entries = append(entries, BuildHistoryEntry(s))
	}
	return entries
}

func BuildHistoryEntry(s models.AnalysisSummary) HistoryEntry {
	entry := HistoryEntry{
		AnalysisID: s.AnalysisID,
		ShortID:    ShortID(s.AnalysisID),
		Status:     s.Status,
		Progress:   s.Progress,
		Message:    s.Message,
		Loadable:   s.Status == models.StatusCompleted,
	}
	if entry.Message == "" {
		entry.Message = "No message"
	}
	if t, ok := models.ParseTimestamp(s.UpdatedAt); ok {
		entry.UpdatedAt = t.UTC().Format(time.DateTime)
	}

	switch s.Status {
	case models.StatusCompleted:
		entry.Color, entry.Icon = "green", "check-circle"
	case models.StatusError:
		entry.Color, entry.Icon = "red", "times-circle"
	default:
		entry.Color, entry.Icon = "blue", "spinner"
	}
	return entry
}

// ShortID is the first eight characters of a job id.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
