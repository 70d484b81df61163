package services

import (
	"errors"
	"fmt"

	"social-analytics-dashboard/internal/analytics"
)

var (
	// ErrRetryExhausted means the poller gave up after too many consecutive
	// transport failures. The job may still finish on the backend.
	ErrRetryExhausted = errors.New("analysis is taking too long, please check back later")

	ErrNoAnalysis           = errors.New("no analysis data available")
	ErrAnalysisNotCompleted = errors.New("analysis is not completed yet")
	ErrInvalidFilterResult  = errors.New("invalid filter response received")
	ErrSessionNotFound      = errors.New("session not found")
	ErrNotOwner             = errors.New("analysis belongs to another user")
	ErrPollerRunning        = errors.New("poller is already running")
)

// ValidationError is raised before any network call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UploadError names the brand/model batch that failed. Batches uploaded
// before it are not rolled back.
type UploadError struct {
	Brand string
	Model string
	Err   error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("failed to upload images for %s - %s: %s", e.Brand, e.Model, UserMessage(e.Err))
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// SubmissionError means no job identifier was obtained.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return "error starting analysis: " + UserMessage(e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// JobError is a backend-reported "error" status, terminal.
type JobError struct {
	AnalysisID string
	Message    string
}

func (e *JobError) Error() string {
	return "analysis failed: " + e.Message
}

// UserMessage returns the backend's detail text when err carries one.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *analytics.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return err.Error()
}
