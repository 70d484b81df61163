package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"social-analytics-dashboard/internal/analytics"
	"social-analytics-dashboard/internal/models"
)

// sideEffectTimeout bounds store, publisher and archive calls made from the
// poll goroutine, which outlive the request that started the job.
const sideEffectTimeout = 10 * time.Second

// SessionDeps are shared by every session of one dashboard process.
// Store, Events and Archive are optional.
type SessionDeps struct {
	Client   AnalyticsAPI
	Poll     PollConfig
	Store    JobStore
	Events   EventPublisher
	Archive  ReportArchiver
	Logger   *slog.Logger
	WaitFunc WaitFunc
}

// SessionSnapshot is a consistent copy of a session's state.
type SessionSnapshot struct {
	SessionID  string                        `json:"session_id"`
	Owner      string                        `json:"owner"`
	State      PollState                     `json:"state"`
	AnalysisID string                        `json:"analysis_id,omitempty"`
	Status     string                        `json:"status,omitempty"`
	Progress   int                           `json:"progress"`
	Message    string                        `json:"message,omitempty"`
	Failures   int                           `json:"failures"`
	Results    map[string]models.BrandResult `json:"results,omitempty"`
	Filter     *models.TimeFilter            `json:"filter,omitempty"`
	DateRange  *DateRange                    `json:"date_range,omitempty"`
	Images     map[string]map[string]int     `json:"images"`
}

// Session is one user's working area: the reference images being
// collected, the job being polled and the results on display. Starting a
// new job, loading an old one or resetting cancels the running poller, and
// anything it reports afterwards is dropped.
type Session struct {
	id       string
	owner    string
	deps     SessionDeps
	uploader *UploadSequencer
	logger   *slog.Logger

	mu         sync.Mutex
	images     *ReferenceImageSet
	state      PollState
	analysisID string
	status     string
	progress   int
	message    string
	failures   int
	results    map[string]models.BrandResult
	displayed  map[string]models.BrandResult
	filter     *models.TimeFilter
	dateRange  *DateRange
	cancel     context.CancelFunc
	generation uint64
	done       chan struct{}
	lastEvent  string

	notes notificationQueue
}

func NewSession(owner string, deps SessionDeps) *Session {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.WaitFunc == nil {
		deps.WaitFunc = SleepContext
	}
	id := uuid.NewString()
	logger := deps.Logger.With("session_id", id)

	done := make(chan struct{})
	close(done)

	return &Session{
		id:       id,
		owner:    owner,
		deps:     deps,
		uploader: NewUploadSequencer(deps.Client, logger),
		logger:   logger,
		images:   NewReferenceImageSet(),
		state:    StateIdle,
		done:     done,
	}
}

func (s *Session) ID() string    { return s.id }
func (s *Session) Owner() string { return s.owner }

// AttachImages replaces the reference images of one brand/model pair.
func (s *Session) AttachImages(brand, model string, images []models.ReferenceImage) (map[string]map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.images.Set(brand, model, images); err != nil {
		s.notes.push(LevelWarning, err.Error())
		return nil, err
	}
	return s.images.Counts(), nil
}

func (s *Session) RemoveImage(brand, model string, index int) (map[string]map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.images.Remove(brand, model, index); err != nil {
		return nil, err
	}
	return s.images.Counts(), nil
}

// StartAnalysis validates brands, uploads the attached reference images,
// submits the job and starts polling it in the background. It returns once
// the job id is known. Any poller already running is cancelled first.
func (s *Session) StartAnalysis(ctx context.Context, brands []models.BrandInput) (string, error) {
	configs, err := ValidateBrands(brands)
	if err != nil {
		s.notes.push(LevelWarning, err.Error())
		return "", err
	}

	s.mu.Lock()
	s.stopPollingLocked()
	s.state = StateIdle
	s.analysisID = ""
	s.results, s.displayed, s.filter, s.dateRange = nil, nil, nil, nil
	s.status = models.StatusStarting
	s.progress = 0
	s.message = "Uploading reference images..."
	images := s.copyImagesLocked()
	gen := s.generation
	s.mu.Unlock()

	uploaded, err := s.uploader.Upload(ctx, images)
	if err != nil {
		s.fail(gen, err)
		return "", err
	}

	analysisID, err := SubmitAnalysis(ctx, s.deps.Client, configs, uploaded)
	if err != nil {
		s.fail(gen, err)
		return "", err
	}

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return analysisID, nil
	}
	pollCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.analysisID = analysisID
	s.state = StatePolling
	s.message = "Analysis started..."
	s.failures = 0
	s.cancel = cancel
	s.done = done
	s.lastEvent = ""
	s.mu.Unlock()

	s.logger.Info("analysis submitted", "analysis_id", analysisID, "brands", len(configs))
	s.notes.push(LevelInfo, "Analysis started! ID: "+analysisID)
	s.track(analysisID, StatePolling, models.StatusStarting, 0, "Analysis started...")
	s.publish(models.EventAnalysisSubmitted, analysisID, models.StatusStarting, 0, "", 0)

	go s.poll(pollCtx, gen, analysisID, done)

	return analysisID, nil
}

func (s *Session) poll(ctx context.Context, gen uint64, analysisID string, done chan struct{}) {
	defer close(done)

	poller := NewPoller(s.deps.Client, s.deps.Poll,
		WithWaitFunc(s.deps.WaitFunc),
		WithPollLogger(s.logger),
		WithEventHandler(func(ev PollEvent) { s.onPollEvent(gen, ev) }),
	)

	status, err := poller.Run(ctx, analysisID)
	s.finish(gen, analysisID, status, err)
}

func (s *Session) onPollEvent(gen uint64, ev PollEvent) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.failures = ev.Failures
	var event string
	if ev.Status != nil {
		s.status = ev.Status.Status
		s.progress = ev.Status.Progress
		s.message = ev.Status.Message
		if ev.State == StatePolling && s.status != s.lastEvent {
			s.lastEvent = s.status
			event = models.EventPollProgress
		}
	} else if ev.Err != nil && ev.State == StatePolling {
		s.message = fmt.Sprintf("Connection issue, retrying (%d/%d)...", ev.Failures, s.deps.Poll.MaxRetries)
		event = models.EventPollRetry
	}
	status, progress, message := s.status, s.progress, s.message
	s.mu.Unlock()

	if event != "" {
		s.publish(event, ev.AnalysisID, status, progress, message, ev.Failures)
	}
}

func (s *Session) finish(gen uint64, analysisID string, status *models.AnalysisStatus, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	var (
		jobErr     *JobError
		state      PollState
		event      string
		message    string
		statusText string
		progress   int
	)
	switch {
	case err == nil:
		state, event = StateCompleted, models.EventAnalysisCompleted
		s.state = StateCompleted
		s.status = status.Status
		s.progress = 100
		s.message = status.Message
		s.results = nonNilResults(status.BrandsData)
		s.displayed = s.results
		s.filter = nil
		dr := SuggestedDateRange(status.UniversalFilter, time.Now().UTC())
		s.dateRange = &dr
		message = status.Message
		statusText, progress = status.Status, 100
	case errors.As(err, &jobErr):
		state, event = StateError, models.EventAnalysisFailed
		message = jobErr.Message
		if status != nil {
			statusText, progress = status.Status, status.Progress
		}
		s.resetToIdleLocked()
	default:
		// the job may still finish upstream; its id stays for history lookup
		state, event = StateAbandoned, models.EventPollingAbandoned
		message = ErrRetryExhausted.Error()
		s.state = StateAbandoned
		s.message = message
		statusText, progress = s.status, s.progress
	}
	s.mu.Unlock()

	switch state {
	case StateCompleted:
		s.logger.Info("analysis completed", "analysis_id", analysisID, "brands", len(status.BrandsData))
		s.notes.push(LevelSuccess, "Analysis completed successfully!")
	case StateError:
		s.logger.Warn("analysis failed", "analysis_id", analysisID, "message", message)
		s.notes.push(LevelError, err.Error())
	default:
		s.logger.Warn("polling abandoned", "analysis_id", analysisID, "error", err)
		s.notes.push(LevelWarning, ErrRetryExhausted.Error())
	}

	s.track(analysisID, state, statusText, progress, message)
	s.publish(event, analysisID, statusText, progress, message, 0)
}

// fail returns the session to configuration after an upload or submission
// error, unless something newer has taken over.
func (s *Session) fail(gen uint64, err error) {
	s.mu.Lock()
	if gen == s.generation {
		s.resetToIdleLocked()
	}
	s.mu.Unlock()
	s.logger.Error("analysis not started", "error", err)
	s.notes.push(LevelError, err.Error())
}

// Snapshot returns a copy of the session's state safe to serialise.
func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := SessionSnapshot{
		SessionID:  s.id,
		Owner:      s.owner,
		State:      s.state,
		AnalysisID: s.analysisID,
		Status:     s.status,
		Progress:   s.progress,
		Message:    s.message,
		Failures:   s.failures,
		Results:    s.displayed,
		Images:     s.images.Counts(),
	}
	if s.filter != nil {
		f := *s.filter
		snap.Filter = &f
	}
	if s.dateRange != nil {
		dr := *s.dateRange
		snap.DateRange = &dr
	}
	return snap
}

// ApplyFilter replaces the displayed results with the backend's results for
// a date range. Invalid dates never reach the backend.
func (s *Session) ApplyFilter(ctx context.Context, startDate, endDate string) (map[string]models.BrandResult, error) {
	analysisID, err := s.completedAnalysis()
	if err != nil {
		s.notes.push(LevelWarning, "No analysis data available. Please run an analysis first.")
		return nil, err
	}

	filter, err := ParseDateRange(startDate, endDate)
	if err != nil {
		s.notes.push(LevelWarning, err.Error())
		return nil, err
	}

	resp, err := s.deps.Client.FilterResults(ctx, analysisID, filter)
	if err != nil {
		s.notes.push(LevelError, "Error applying filter: "+UserMessage(err))
		return nil, err
	}
	if resp.FilteredResults == nil {
		s.notes.push(LevelError, "Error applying filter: "+ErrInvalidFilterResult.Error())
		return nil, ErrInvalidFilterResult
	}

	s.mu.Lock()
	if s.analysisID == analysisID {
		s.displayed = resp.FilteredResults
		s.filter = &filter
	}
	s.mu.Unlock()

	s.notes.push(LevelSuccess, "Time filter applied successfully")
	return resp.FilteredResults, nil
}

// ClearFilter restores the unfiltered results.
func (s *Session) ClearFilter() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.results == nil {
		return ErrNoAnalysis
	}
	s.displayed = s.results
	s.filter = nil
	return nil
}

// Download fetches the CSV report. Explicit dates take precedence over the
// applied filter; with neither the whole job is exported. A configured
// archive keeps a copy, and archive failures are only logged.
func (s *Session) Download(ctx context.Context, startDate, endDate string) (*analytics.Download, error) {
	analysisID, err := s.completedAnalysis()
	if err != nil {
		s.notes.push(LevelWarning, "No analysis data available for download.")
		return nil, err
	}

	var filter *models.TimeFilter
	if startDate != "" && endDate != "" {
		f, err := ParseDateRange(startDate, endDate)
		if err != nil {
			s.notes.push(LevelWarning, err.Error())
			return nil, err
		}
		filter = &f
	} else {
		s.mu.Lock()
		filter = s.filter
		s.mu.Unlock()
	}

	dl, err := s.deps.Client.DownloadResults(ctx, analysisID, filter)
	if err != nil {
		s.notes.push(LevelError, "Download failed: "+UserMessage(err))
		return nil, err
	}

	if s.deps.Archive != nil {
		archiveCtx, cancel := context.WithTimeout(ctx, sideEffectTimeout)
		location, err := s.deps.Archive.ArchiveReport(archiveCtx, analysisID, dl.Filename, dl.Data)
		cancel()
		if err != nil {
			s.logger.Warn("report archive failed", "analysis_id", analysisID, "error", err)
		} else {
			s.logger.Info("report archived", "analysis_id", analysisID, "location", location)
		}
	}

	s.notes.push(LevelSuccess, "Download completed successfully")
	return dl, nil
}

// LoadPrevious shows the results of an earlier job. Only completed jobs
// can be loaded.
func (s *Session) LoadPrevious(ctx context.Context, analysisID string) (*models.AnalysisStatus, error) {
	status, err := s.deps.Client.GetAnalysisStatus(ctx, analysisID)
	if err != nil {
		s.notes.push(LevelError, "Error loading analysis: "+UserMessage(err))
		return nil, err
	}
	if status.Status != models.StatusCompleted {
		s.notes.push(LevelWarning, "Analysis is not completed yet")
		return nil, ErrAnalysisNotCompleted
	}

	s.mu.Lock()
	s.stopPollingLocked()
	s.state = StateCompleted
	s.analysisID = analysisID
	s.status = status.Status
	s.progress = 100
	s.message = status.Message
	s.failures = 0
	s.results = nonNilResults(status.BrandsData)
	s.displayed = s.results
	s.filter = nil
	dr := SuggestedDateRange(status.UniversalFilter, time.Now().UTC())
	s.dateRange = &dr
	s.mu.Unlock()

	s.notes.push(LevelSuccess, "Analysis loaded successfully")
	return status, nil
}

// Reset cancels any poller and clears the job, results and images.
func (s *Session) Reset() {
	s.mu.Lock()
	s.stopPollingLocked()
	s.resetToIdleLocked()
	s.images = NewReferenceImageSet()
	s.mu.Unlock()
}

// DrainNotifications returns and clears pending notifications.
func (s *Session) DrainNotifications() []Notification {
	return s.notes.drain()
}

// PollDone is closed when the current poll goroutine has exited.
func (s *Session) PollDone() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

func (s *Session) completedAnalysis() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.analysisID == "" || s.results == nil {
		return "", ErrNoAnalysis
	}
	return s.analysisID, nil
}

// stopPollingLocked cancels the running poller and invalidates anything it
// may still report.
func (s *Session) stopPollingLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.generation++
}

func (s *Session) resetToIdleLocked() {
	s.state = StateIdle
	s.analysisID = ""
	s.status = ""
	s.progress = 0
	s.message = ""
	s.failures = 0
	s.results, s.displayed, s.filter, s.dateRange = nil, nil, nil, nil
}

func nonNilResults(results map[string]models.BrandResult) map[string]models.BrandResult {
	if results == nil {
		return map[string]models.BrandResult{}
	}
	return results
}

func (s *Session) copyImagesLocked() *ReferenceImageSet {
	cp := NewReferenceImageSet()
	for _, brand := range s.images.Brands() {
		for _, model := range s.images.Models(brand) {
			_ = cp.Set(brand, model, s.images.Images(brand, model))
		}
	}
	return cp
}

func (s *Session) track(analysisID string, state PollState, status string, progress int, message string) {
	if s.deps.Store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	defer cancel()
	err := s.deps.Store.SaveTracked(ctx, models.TrackedAnalysis{
		AnalysisID: analysisID,
		Owner:      s.owner,
		PollState:  string(state),
		Status:     status,
		Progress:   progress,
		Message:    message,
	})
	if err != nil {
		s.logger.Warn("failed to save tracked analysis", "analysis_id", analysisID, "error", err)
	}
}

func (s *Session) publish(event, analysisID, status string, progress int, message string, attempt int) {
	if s.deps.Events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	defer cancel()
	err := s.deps.Events.PublishAnalysisEvent(ctx, models.AnalysisEvent{
		AnalysisID: analysisID,
		Owner:      s.owner,
		Event:      event,
		Status:     status,
		Progress:   progress,
		Message:    message,
		Attempt:    attempt,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn("failed to publish analysis event", "event", event, "analysis_id", analysisID, "error", err)
	}
}
