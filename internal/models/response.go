package models

import "time"

// AnalyzeResponse is returned by POST /api/analyze.
type AnalyzeResponse struct {
	AnalysisID string `json:"analysis_id"`
	Status     string `json:"status,omitempty"`
}

// UploadPathsResponse is returned by POST /api/upload-reference-images.
type UploadPathsResponse struct {
	Message string   `json:"message,omitempty"`
	Paths   []string `json:"paths"`
}

// FilterResponse is returned by POST /api/filter-results/{id}.
type FilterResponse struct {
	FilteredResults map[string]BrandResult `json:"filtered_results"`
	TimeFilter      *UniversalFilter       `json:"time_filter,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type SessionCreatedResponse struct {
	SessionID string `json:"session_id"`
}

type ReferenceImagesResponse struct {
	Brand  string                    `json:"brand"`
	Model  string                    `json:"model"`
	Count  int                       `json:"count"`
	Models map[string]map[string]int `json:"models"`
}

type AnalysisStartedResponse struct {
	SessionID  string `json:"session_id"`
	AnalysisID string `json:"analysis_id"`
}

// TrackedAnalysis is a job this dashboard submitted, with the last state
// its poller observed.
type TrackedAnalysis struct {
	AnalysisID string    `json:"analysis_id"`
	Owner      string    `json:"owner"`
	PollState  string    `json:"poll_state"`
	Status     string    `json:"status"`
	Progress   int       `json:"progress"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type TrackedAnalysesResponse struct {
	Analyses []TrackedAnalysis `json:"analyses"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
