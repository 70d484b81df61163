package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Job statuses reported by the analytics backend.
const (
	StatusStarting   = "starting"
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// AnalysisStatus is the payload of GET /api/analysis/{id}.
type AnalysisStatus struct {
	AnalysisID      string                 `json:"analysis_id,omitempty"`
	Status          string                 `json:"status"`
	Progress        int                    `json:"progress"`
	Message         string                 `json:"message"`
	BrandsData      map[string]BrandResult `json:"brands_data,omitempty"`
	UniversalFilter *UniversalFilter       `json:"universal_filter,omitempty"`
}

// IsTerminal reports whether the backend will not change the job any further.
func (s *AnalysisStatus) IsTerminal() bool {
	return s.Status == StatusCompleted || s.Status == StatusError
}

// AnalysisSummary is one entry of GET /api/recent-analyses.
type AnalysisSummary struct {
	AnalysisID string `json:"analysis_id"`
	Status     string `json:"status"`
	Progress   int    `json:"progress"`
	Message    string `json:"message"`
	UpdatedAt  string `json:"updated_at"`
}

type UniversalFilter struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// TimeFilter is sent to the filter and download endpoints. Bounds are
// written in UTC with exactly three fractional digits, e.g.
// 2025-01-31T23:59:59.000Z.
type TimeFilter struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

const filterTimeLayout = "2006-01-02T15:04:05.000Z07:00"

func (f TimeFilter) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	}{
		StartDate: f.StartDate.UTC().Format(filterTimeLayout),
		EndDate:   f.EndDate.UTC().Format(filterTimeLayout),
	})
}

type BrandResult struct {
	Instagram      PlatformResult `json:"instagram"`
	Facebook       PlatformResult `json:"facebook"`
	OverallMetrics Metrics        `json:"overall_metrics"`
	TopPosts       []Post         `json:"top_posts"`
	LowPosts       []Post         `json:"low_posts"`
	Keywords       []string       `json:"keywords"`
}

type PlatformResult struct {
	Profile Profile `json:"profile"`
	Posts   []Post  `json:"posts"`
	Metrics Metrics `json:"metrics"`
}

type Profile struct {
	Username   string `json:"username"`
	Followers  int    `json:"followers"`
	Following  int    `json:"following"`
	PostsCount int    `json:"posts_count"`
	Platform   string `json:"platform"`
}

type Metrics struct {
	TotalPosts        int                   `json:"total_posts"`
	TotalEngagement   int                   `json:"total_engagement"`
	AverageEngagement float64               `json:"average_engagement"`
	ModelBreakdown    map[string]ModelStats `json:"model_breakdown,omitempty"`
}

type ModelStats struct {
	PostsCount        int     `json:"posts_count"`
	TotalEngagement   int     `json:"total_engagement"`
	AverageEngagement float64 `json:"average_engagement"`
	EngagementRate    float64 `json:"engagement_rate"`
}

type Post struct {
	ID                       string   `json:"id"`
	Platform                 string   `json:"platform"`
	URL                      string   `json:"url"`
	Text                     string   `json:"text,omitempty"`
	Caption                  string   `json:"caption,omitempty"`
	Hashtags                 []string `json:"hashtags,omitempty"`
	Likes                    int      `json:"likes"`
	Comments                 int      `json:"comments"`
	Shares                   int      `json:"shares"`
	Reactions                int      `json:"reactions"`
	Engagement               int      `json:"engagement"`
	Timestamp                string   `json:"timestamp"`
	Thumbnail                string   `json:"thumbnail,omitempty"`
	Thumbnails               []string `json:"thumbnails,omitempty"`
	MediaType                string   `json:"media_type,omitempty"`
	Model                    string   `json:"model,omitempty"`
	Brand                    string   `json:"brand,omitempty"`
	ClassificationReason     string   `json:"classification_reason,omitempty"`
	ClassificationConfidence int      `json:"classification_confidence,omitempty"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp accepts the RFC 3339 and naive ISO 8601 forms the backend
// emits. Naive values are read as UTC.
func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Lifecycle event names.
const (
	EventAnalysisSubmitted = "analysis_submitted"
	EventPollProgress      = "poll_progress"
	EventPollRetry         = "poll_retry"
	EventAnalysisCompleted = "analysis_completed"
	EventAnalysisFailed    = "analysis_failed"
	EventPollingAbandoned  = "polling_abandoned"
)

// AnalysisEvent describes one change in a job's client-side lifecycle.
type AnalysisEvent struct {
	AnalysisID string    `json:"analysis_id"`
	Owner      string    `json:"owner"`
	Event      string    `json:"event"`
	Status     string    `json:"status,omitempty"`
	Progress   int       `json:"progress"`
	Message    string    `json:"message,omitempty"`
	Attempt    int       `json:"attempt,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
