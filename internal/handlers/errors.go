package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"social-analytics-dashboard/internal/analytics"
	"social-analytics-dashboard/internal/models"
	"social-analytics-dashboard/internal/services"
)

// respondError maps service errors onto the API's status codes.
func respondError(c *gin.Context, err error) {
	status, errText := classify(err)
	c.JSON(status, models.ErrorResponse{Error: errText, Message: services.UserMessage(err)})
}

func classify(err error) (int, string) {
	var (
		validationErr *services.ValidationError
		uploadErr     *services.UploadError
		submissionErr *services.SubmissionError
		apiErr        *analytics.APIError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, "validation failed"
	case errors.Is(err, services.ErrSessionNotFound):
		return http.StatusNotFound, "session not found"
	case errors.Is(err, services.ErrNotOwner):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, services.ErrNoAnalysis), errors.Is(err, services.ErrAnalysisNotCompleted):
		return http.StatusConflict, "analysis not available"
	case errors.As(err, &uploadErr):
		return http.StatusBadGateway, "failed to upload reference images"
	case errors.As(err, &submissionErr):
		return http.StatusBadGateway, "failed to start analysis"
	case errors.Is(err, services.ErrInvalidFilterResult), errors.Is(err, analytics.ErrEmptyDownload):
		return http.StatusBadGateway, "invalid upstream response"
	case errors.As(err, &apiErr):
		if apiErr.StatusCode == http.StatusNotFound {
			return http.StatusNotFound, "analysis not found"
		}
		return http.StatusBadGateway, "analytics backend error"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "analytics backend timeout"
	}
	return http.StatusBadGateway, "analytics backend unavailable"
}
