package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"social-analytics-dashboard/internal/middleware"
	"social-analytics-dashboard/internal/models"
	"social-analytics-dashboard/internal/services"
	"social-analytics-dashboard/internal/viewmodel"
)

const maxUploadMemory = 32 << 20

type SessionsHandler struct {
	manager *services.SessionManager
	logger  *slog.Logger
}

func NewSessionsHandler(manager *services.SessionManager, logger *slog.Logger) *SessionsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionsHandler{manager: manager, logger: logger}
}

// SessionResponse is a session snapshot with its display models.
type SessionResponse struct {
	services.SessionSnapshot
	ProgressView viewmodel.Progress    `json:"progress_view"`
	Brands       []viewmodel.BrandCard `json:"brands"`
}

type NotificationsResponse struct {
	Notifications []services.Notification `json:"notifications"`
}

type FilterResultResponse struct {
	Brands []viewmodel.BrandCard `json:"brands"`
}

// CreateSession godoc
// @Summary     Create a dashboard session
// @Tags        sessions
// @Produce     json
// @Security    Bearer
// @Success     201 {object} models.SessionCreatedResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /sessions [post]
func (h *SessionsHandler) CreateSession(c *gin.Context) {
	session := h.manager.Create(middleware.Owner(c))
	h.logger.Info("session created", "session_id", session.ID(), "owner", session.Owner())
	c.JSON(http.StatusCreated, models.SessionCreatedResponse{SessionID: session.ID()})
}

// DeleteSession godoc
// @Summary     Discard a session and cancel its poller
// @Tags        sessions
// @Security    Bearer
// @Param       id path string true "Session ID"
// @Success     204
// @Failure     404 {object} models.ErrorResponse
// @Router      /sessions/{id} [delete]
func (h *SessionsHandler) DeleteSession(c *gin.Context) {
	if err := h.manager.Discard(c.Param("id"), middleware.Owner(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ResetSession godoc
// @Summary     Return a session to configuration
// @Description Cancels polling and clears the job, results and reference images.
// @Tags        sessions
// @Produce     json
// @Security    Bearer
// @Param       id path string true "Session ID"
// @Success     200 {object} SessionResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /sessions/{id}/reset [post]
func (h *SessionsHandler) ResetSession(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	session.Reset()
	c.JSON(http.StatusOK, sessionResponse(session.Snapshot()))
}

// GetSession godoc
// @Summary     Get session state
// @Description Poll state, progress and the displayed results.
// @Tags        sessions
// @Produce     json
// @Security    Bearer
// @Param       id path string true "Session ID"
// @Success     200 {object} SessionResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /sessions/{id} [get]
func (h *SessionsHandler) GetSession(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session.Snapshot()))
}

// AttachReferenceImages godoc
// @Summary     Attach reference images to a brand model
// @Description Replaces the images of one brand/model pair. At most 3 per model.
// @Tags        sessions
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       id    path     string true "Session ID"
// @Param       brand formData string true "Brand name"
// @Param       model formData string true "Model keyword"
// @Param       files formData file   true "Reference images"
// @Success     200 {object} models.ReferenceImagesResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /sessions/{id}/reference-images [post]
func (h *SessionsHandler) AttachReferenceImages(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to parse multipart form",
			Message: err.Error(),
		})
		return
	}

	brand, model := c.PostForm("brand"), c.PostForm("model")
	if brand == "" || model == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "brand and model are required"})
		return
	}

	var headers []*multipart.FileHeader
	for _, field := range []string{"files", "files[]"} {
		if f := c.Request.MultipartForm.File[field]; len(f) > 0 {
			headers = f
			break
		}
	}

	images, err := readImages(headers)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to read uploaded file", Message: err.Error()})
		return
	}

	counts, err := session.AttachImages(brand, model, images)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ReferenceImagesResponse{
		Brand:  brand,
		Model:  model,
		Count:  counts[brand][model],
		Models: counts,
	})
}

// RemoveReferenceImage godoc
// @Summary     Remove one attached reference image
// @Tags        sessions
// @Produce     json
// @Security    Bearer
// @Param       id    path string  true "Session ID"
// @Param       brand path string  true "Brand name"
// @Param       model path string  true "Model keyword"
// @Param       index path integer true "Image index"
// @Success     200 {object} models.ReferenceImagesResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /sessions/{id}/reference-images/{brand}/{model}/{index} [delete]
func (h *SessionsHandler) RemoveReferenceImage(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid image index", Message: err.Error()})
		return
	}

	brand, model := c.Param("brand"), c.Param("model")
	counts, err := session.RemoveImage(brand, model, index)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ReferenceImagesResponse{
		Brand:  brand,
		Model:  model,
		Count:  counts[brand][model],
		Models: counts,
	})
}

// StartAnalysis godoc
// @Summary     Start an analysis
// @Description Validates the brands, uploads attached reference images, submits the job and polls it in the background.
// @Tags        sessions
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       id      path string                      true "Session ID"
// @Param       request body models.StartAnalysisRequest true "Brands to analyse"
// @Success     202 {object} models.AnalysisStartedResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /sessions/{id}/analyze [post]
func (h *SessionsHandler) StartAnalysis(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req models.StartAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	analysisID, err := session.StartAnalysis(c.Request.Context(), req.Brands)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, models.AnalysisStartedResponse{
		SessionID:  session.ID(),
		AnalysisID: analysisID,
	})
}

// GetNotifications godoc
// @Summary     Drain pending notifications
// @Tags        sessions
// @Produce     json
// @Security    Bearer
// @Param       id path string true "Session ID"
// @Success     200 {object} NotificationsResponse
// @Router      /sessions/{id}/notifications [get]
func (h *SessionsHandler) GetNotifications(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, NotificationsResponse{Notifications: session.DrainNotifications()})
}

// ApplyFilter godoc
// @Summary     Filter results by date range
// @Tags        sessions
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       id      path string                  true "Session ID"
// @Param       request body models.DateRangeRequest true "Dates as YYYY-MM-DD"
// @Success     200 {object} FilterResultResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /sessions/{id}/filter [post]
func (h *SessionsHandler) ApplyFilter(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req models.DateRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	results, err := session.ApplyFilter(c.Request.Context(), req.StartDate, req.EndDate)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, FilterResultResponse{Brands: viewmodel.BuildBrandCards(results)})
}

// ClearFilter godoc
// @Summary     Show unfiltered results again
// @Tags        sessions
// @Produce     json
// @Security    Bearer
// @Param       id path string true "Session ID"
// @Success     200 {object} SessionResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /sessions/{id}/filter [delete]
func (h *SessionsHandler) ClearFilter(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	if err := session.ClearFilter(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session.Snapshot()))
}

// Download godoc
// @Summary     Download the CSV report
// @Description Dates are optional; without them the applied filter, if any, is used.
// @Tags        sessions
// @Produce     text/csv
// @Security    Bearer
// @Param       id         path  string true  "Session ID"
// @Param       start_date query string false "YYYY-MM-DD"
// @Param       end_date   query string false "YYYY-MM-DD"
// @Success     200 {file} file
// @Failure     409 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /sessions/{id}/download [get]
func (h *SessionsHandler) Download(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req models.DateRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid query", Message: err.Error()})
		return
	}

	dl, err := session.Download(c.Request.Context(), req.StartDate, req.EndDate)
	if err != nil {
		respondError(c, err)
		return
	}

	contentType := dl.ContentType
	if contentType == "" {
		contentType = "text/csv"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dl.Filename))
	c.Data(http.StatusOK, contentType, dl.Data)
}

// LoadAnalysis godoc
// @Summary     Load a previous analysis into the session
// @Description Only completed analyses can be loaded.
// @Tags        sessions
// @Produce     json
// @Security    Bearer
// @Param       id          path string true "Session ID"
// @Param       analysis_id path string true "Analysis ID"
// @Success     200 {object} SessionResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /sessions/{id}/load/{analysis_id} [post]
func (h *SessionsHandler) LoadAnalysis(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	if _, err := session.LoadPrevious(c.Request.Context(), c.Param("analysis_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session.Snapshot()))
}

func (h *SessionsHandler) session(c *gin.Context) (*services.Session, bool) {
	session, err := h.manager.Get(c.Param("id"), middleware.Owner(c))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return session, true
}

func sessionResponse(snap services.SessionSnapshot) SessionResponse {
	return SessionResponse{
		SessionSnapshot: snap,
		ProgressView:    viewmodel.BuildProgress(snap.Status, snap.Message, snap.Progress),
		Brands:          viewmodel.BuildBrandCards(snap.Results),
	}
}

func readImages(headers []*multipart.FileHeader) ([]models.ReferenceImage, error) {
	images := make([]models.ReferenceImage, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
		}
		images = append(images, models.ReferenceImage{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return images, nil
}
