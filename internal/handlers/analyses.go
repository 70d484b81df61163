package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"social-analytics-dashboard/internal/middleware"
	"social-analytics-dashboard/internal/models"
	"social-analytics-dashboard/internal/services"
	"social-analytics-dashboard/internal/viewmodel"
)

type AnalysesHandler struct {
	history *services.HistoryService
	logger  *slog.Logger
}

func NewAnalysesHandler(history *services.HistoryService, logger *slog.Logger) *AnalysesHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysesHandler{history: history, logger: logger}
}

type HistoryResponse struct {
	Analyses []viewmodel.HistoryEntry `json:"analyses"`
}

// ListAnalyses godoc
// @Summary     List recent analyses
// @Description The analytics backend's job history, shaped for display.
// @Tags        analyses
// @Produce     json
// @Security    Bearer
// @Success     200 {object} HistoryResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /analyses [get]
func (h *AnalysesHandler) ListAnalyses(c *gin.Context) {
	summaries, err := h.history.ListRecent(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list analyses", "error", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, HistoryResponse{Analyses: viewmodel.BuildHistory(summaries)})
}

// DeleteAnalysis godoc
// @Summary     Delete an analysis
// @Tags        analyses
// @Produce     json
// @Security    Bearer
// @Param       analysis_id path string true "Analysis ID"
// @Success     200 {object} models.MessageResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /analyses/{analysis_id} [delete]
func (h *AnalysesHandler) DeleteAnalysis(c *gin.Context) {
	analysisID := c.Param("analysis_id")
	if err := h.history.Delete(c.Request.Context(), analysisID, middleware.Owner(c)); err != nil {
		respondError(c, err)
		return
	}
	h.logger.Info("analysis deleted", "analysis_id", analysisID, "owner", middleware.Owner(c))
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Analysis deleted successfully"})
}

// ListTracked godoc
// @Summary     List analyses started from this dashboard
// @Description Jobs submitted by the caller with the last state their poller observed.
// @Tags        analyses
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.TrackedAnalysesResponse
// @Router      /tracked [get]
func (h *AnalysesHandler) ListTracked(c *gin.Context) {
	tracked, err := h.history.Tracked(c.Request.Context(), middleware.Owner(c))
	if err != nil {
		h.logger.Error("failed to list tracked analyses", "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to list tracked analyses", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, models.TrackedAnalysesResponse{Analyses: tracked})
}

// ImageProxy godoc
// @Summary     Proxy a post thumbnail
// @Description Fetches Instagram and Facebook CDN images through the analytics backend. Other hosts are rejected.
// @Tags        analyses
// @Produce     image/jpeg
// @Param       url query string true "Original image URL"
// @Success     200 {file} file
// @Failure     400 {object} models.ErrorResponse
// @Router      /image-proxy [get]
func (h *AnalysesHandler) ImageProxy(c *gin.Context) {
	raw := c.Query("url")
	if !viewmodel.IsProxiedImageURL(raw) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "unsupported image url",
			Message: "only Instagram and Facebook CDN images can be proxied",
		})
		return
	}

	data, contentType, err := h.history.ProxyImage(c.Request.Context(), raw)
	if err != nil {
		respondError(c, err)
		return
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, contentType, data)
}
