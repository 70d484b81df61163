package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"social-analytics-dashboard/internal/models"
)

// MemoryJobStore is the JobStore used when no database is configured.
type MemoryJobStore struct {
	mu       sync.RWMutex
	analyses map[string]models.TrackedAnalysis
}

func NewMemoryJobStore() *MemoryJobStore {
	return &MemoryJobStore{analyses: make(map[string]models.TrackedAnalysis)}
}

func (s *MemoryJobStore) SaveTracked(_ context.Context, analysis models.TrackedAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := s.analyses[analysis.AnalysisID]; ok {
		analysis.CreatedAt = existing.CreatedAt
	} else if analysis.CreatedAt.IsZero() {
		analysis.CreatedAt = now
	}
	analysis.UpdatedAt = now
	s.analyses[analysis.AnalysisID] = analysis
	return nil
}

// ListTracked returns an owner's jobs, most recently updated first.
func (s *MemoryJobStore) ListTracked(_ context.Context, owner string) ([]models.TrackedAnalysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.TrackedAnalysis
	for _, a := range s.analyses {
		if a.Owner == owner {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (s *MemoryJobStore) GetTracked(_ context.Context, analysisID string) (*models.TrackedAnalysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.analyses[analysisID]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (s *MemoryJobStore) DeleteTracked(_ context.Context, analysisID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.analyses, analysisID)
	return nil
}
