package services_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"social-analytics-dashboard/internal/analytics"
	"social-analytics-dashboard/internal/models"
)

type uploadCall struct {
	Brand      string
	Model      string
	AnalysisID string
	Count      int
}

// fakeAPI records every call and answers from scripted functions.
type fakeAPI struct {
	mu sync.Mutex

	uploads     []uploadCall
	submissions []models.AnalyzeRequest
	statusCalls int
	filterCalls []models.TimeFilter
	downloads   []*models.TimeFilter
	deleted     []string

	uploadFn   func(brand, model string) error
	submitFn   func(req models.AnalyzeRequest) (*models.AnalyzeResponse, error)
	statusFn   func(call int) (*models.AnalysisStatus, error)
	filterFn   func(filter models.TimeFilter) (*models.FilterResponse, error)
	downloadFn func() (*analytics.Download, error)
	recent     []models.AnalysisSummary
}

func (f *fakeAPI) UploadReferenceImages(_ context.Context, brand, model, analysisID string, images []models.ReferenceImage) (*models.UploadPathsResponse, error) {
	f.mu.Lock()
	f.uploads = append(f.uploads, uploadCall{Brand: brand, Model: model, AnalysisID: analysisID, Count: len(images)})
	f.mu.Unlock()

	if f.uploadFn != nil {
		if err := f.uploadFn(brand, model); err != nil {
			return nil, err
		}
	}
	paths := make([]string, 0, len(images))
	for _, img := range images {
		paths = append(paths, "uploads/reference/"+analysisID+"/"+brand+"/"+model+"/"+img.Filename)
	}
	return &models.UploadPathsResponse{Paths: paths}, nil
}

func (f *fakeAPI) StartAnalysis(_ context.Context, req models.AnalyzeRequest) (*models.AnalyzeResponse, error) {
	f.mu.Lock()
	f.submissions = append(f.submissions, req)
	f.mu.Unlock()

	if f.submitFn != nil {
		return f.submitFn(req)
	}
	return &models.AnalyzeResponse{AnalysisID: "job-1", Status: models.StatusStarting}, nil
}

func (f *fakeAPI) GetAnalysisStatus(_ context.Context, analysisID string) (*models.AnalysisStatus, error) {
	f.mu.Lock()
	f.statusCalls++
	call := f.statusCalls
	f.mu.Unlock()

	if f.statusFn != nil {
		status, err := f.statusFn(call)
		if status != nil && status.AnalysisID == "" {
			status.AnalysisID = analysisID
		}
		return status, err
	}
	return &models.AnalysisStatus{AnalysisID: analysisID, Status: models.StatusCompleted, Progress: 100}, nil
}

func (f *fakeAPI) ListRecentAnalyses(context.Context) ([]models.AnalysisSummary, error) {
	return f.recent, nil
}

func (f *fakeAPI) FilterResults(_ context.Context, _ string, filter models.TimeFilter) (*models.FilterResponse, error) {
	f.mu.Lock()
	f.filterCalls = append(f.filterCalls, filter)
	f.mu.Unlock()

	if f.filterFn != nil {
		return f.filterFn(filter)
	}
	return &models.FilterResponse{FilteredResults: map[string]models.BrandResult{}}, nil
}

func (f *fakeAPI) DownloadResults(_ context.Context, analysisID string, filter *models.TimeFilter) (*analytics.Download, error) {
	f.mu.Lock()
	f.downloads = append(f.downloads, filter)
	f.mu.Unlock()

	if f.downloadFn != nil {
		return f.downloadFn()
	}
	return &analytics.Download{Filename: analytics.DefaultReportFilename(analysisID), Data: []byte("a,b\n")}, nil
}

func (f *fakeAPI) DeleteAnalysis(_ context.Context, analysisID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, analysisID)
	return nil
}

func (f *fakeAPI) ProxyImage(context.Context, string) ([]byte, string, error) {
	return []byte{1}, "image/jpeg", nil
}

func (f *fakeAPI) StatusCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statusCalls
}

var errNetwork = errors.New("connection refused")

// recordedWait returns immediately and remembers every requested delay.
type recordedWait struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (w *recordedWait) Wait(ctx context.Context, d time.Duration) error {
	w.mu.Lock()
	w.delays = append(w.delays, d)
	w.mu.Unlock()
	return ctx.Err()
}

func (w *recordedWait) Delays() []time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]time.Duration(nil), w.delays...)
}

type fakeArchive struct {
	mu    sync.Mutex
	files map[string][]byte
	err   error
}

func (a *fakeArchive) ArchiveReport(_ context.Context, analysisID, filename string, data []byte) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.files == nil {
		a.files = make(map[string][]byte)
	}
	key := "reports/" + analysisID + "/" + filename
	a.files[key] = data
	return key, nil
}

func (a *fakeArchive) DeleteReports(_ context.Context, analysisID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for key := range a.files {
		if strings.HasPrefix(key, "reports/"+analysisID+"/") {
			delete(a.files, key)
		}
	}
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []models.AnalysisEvent
}

func (p *fakePublisher) PublishAnalysisEvent(_ context.Context, event models.AnalysisEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) Names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.events))
	for _, e := range p.events {
		names = append(names, e.Event)
	}
	return names
}

func acmeBrand() models.BrandInput {
	return models.BrandInput{
		Name:         "Acme",
		InstagramURL: "https://instagram.com/acme",
		FacebookURL:  "https://facebook.com/acme",
		Keywords:     []string{"x1", "x2"},
	}
}

func image(name string) models.ReferenceImage {
	return models.ReferenceImage{Filename: name, ContentType: "image/png", Data: []byte(name)}
}
