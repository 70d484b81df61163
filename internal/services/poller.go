package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"social-analytics-dashboard/internal/models"
)

// PollState is the client-side state of one job's status poller.
type PollState string

const (
	StateIdle      PollState = "idle"
	StatePolling   PollState = "polling"
	StateCompleted PollState = "completed"
	StateError     PollState = "error"
	StateAbandoned PollState = "abandoned"
	// StateCancelled means the owner discarded the job; nothing fires afterwards.
	StateCancelled PollState = "cancelled"
)

type PollConfig struct {
	InitialDelay time.Duration
	Interval     time.Duration
	BackoffStep  time.Duration
	MaxBackoff   time.Duration
	MaxRetries   int
}

func DefaultPollConfig() PollConfig {
	return PollConfig{
		InitialDelay: 1 * time.Second,
		Interval:     5 * time.Second,
		BackoffStep:  5 * time.Second,
		MaxBackoff:   20 * time.Second,
		MaxRetries:   50,
	}
}

// Backoff is the delay after the n-th consecutive failure: step*n capped at MaxBackoff.
func (c PollConfig) Backoff(failures int) time.Duration {
	delay := c.BackoffStep * time.Duration(failures)
	if delay > c.MaxBackoff {
		delay = c.MaxBackoff
	}
	return delay
}

// PollEvent is emitted on every state change, status answer and retry.
type PollEvent struct {
	AnalysisID string
	State      PollState
	Status     *models.AnalysisStatus
	Failures   int
	Delay      time.Duration
	Err        error
}

// WaitFunc blocks for d or until ctx is done.
type WaitFunc func(ctx context.Context, d time.Duration) error

// SleepContext is the default WaitFunc. The timer is stopped on cancel.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type PollerOption func(*Poller)

func WithWaitFunc(wait WaitFunc) PollerOption {
	return func(p *Poller) {
		if wait != nil {
			p.wait = wait
		}
	}
}

func WithEventHandler(handler func(PollEvent)) PollerOption {
	return func(p *Poller) {
		p.onEvent = handler
	}
}

func WithPollLogger(logger *slog.Logger) PollerOption {
	return func(p *Poller) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Poller queries a job's status until it reaches a terminal state. Queries
// are strictly sequential; the next one is scheduled only after the
// previous one resolved.
type Poller struct {
	client  StatusFetcher
	config  PollConfig
	wait    WaitFunc
	onEvent func(PollEvent)
	logger  *slog.Logger

	mu       sync.Mutex
	state    PollState
	failures int
	running  bool
}

func NewPoller(client StatusFetcher, config PollConfig, opts ...PollerOption) *Poller {
	p := &Poller{
		client: client,
		config: config,
		wait:   SleepContext,
		logger: slog.Default(),
		state:  StateIdle,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Poller) State() PollState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Failures is the current count of consecutive failed queries.
func (p *Poller) Failures() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failures
}

// Run polls analysisID until completion, backend error, retry exhaustion or
// cancellation of ctx. On completion the final status is returned exactly
// once. A *JobError is returned for a backend "error" status and an error
// wrapping ErrRetryExhausted when MaxRetries consecutive queries failed.
// A result that arrives after ctx is cancelled is discarded.
func (p *Poller) Run(ctx context.Context, analysisID string) (*models.AnalysisStatus, error) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil, ErrPollerRunning
	}
	p.running = true
	p.failures = 0
	p.state = StateIdle
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	p.transition(PollEvent{AnalysisID: analysisID, State: StatePolling})

	if err := p.wait(ctx, p.config.InitialDelay); err != nil {
		return nil, p.cancelled(analysisID, err)
	}

	for {
		status, err := p.client.GetAnalysisStatus(ctx, analysisID)
		if ctx.Err() != nil {
			return nil, p.cancelled(analysisID, ctx.Err())
		}

		if err != nil {
			failures := p.recordFailure()
			if failures >= p.config.MaxRetries {
				p.logger.Warn("polling abandoned", "analysis_id", analysisID, "failures", failures, "error", err)
				p.transition(PollEvent{AnalysisID: analysisID, State: StateAbandoned, Failures: failures, Err: err})
				return nil, fmt.Errorf("%w: %d consecutive failures: %w", ErrRetryExhausted, failures, err)
			}

			delay := p.config.Backoff(failures)
			p.logger.Info("status query failed, retrying",
				"analysis_id", analysisID, "attempt", failures, "max_retries", p.config.MaxRetries,
				"delay", delay, "error", err)
			p.emit(PollEvent{AnalysisID: analysisID, State: StatePolling, Failures: failures, Delay: delay, Err: err})

			if err := p.wait(ctx, delay); err != nil {
				return nil, p.cancelled(analysisID, err)
			}
			continue
		}

		p.resetFailures()

		if !status.IsTerminal() {
			p.emit(PollEvent{AnalysisID: analysisID, State: StatePolling, Status: status, Delay: p.config.Interval})
			if err := p.wait(ctx, p.config.Interval); err != nil {
				return nil, p.cancelled(analysisID, err)
			}
			continue
		}

		if status.Status == models.StatusError {
			p.transition(PollEvent{AnalysisID: analysisID, State: StateError, Status: status})
			return status, &JobError{AnalysisID: analysisID, Message: status.Message}
		}
		p.transition(PollEvent{AnalysisID: analysisID, State: StateCompleted, Status: status})
		return status, nil
	}
}

func (p *Poller) cancelled(analysisID string, err error) error {
	p.mu.Lock()
	p.state = StateCancelled
	p.mu.Unlock()
	p.logger.Debug("polling cancelled", "analysis_id", analysisID)
	return err
}

func (p *Poller) recordFailure() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failures++
	return p.failures
}

func (p *Poller) resetFailures() {
	p.mu.Lock()
	p.failures = 0
	p.mu.Unlock()
}

func (p *Poller) transition(ev PollEvent) {
	p.mu.Lock()
	p.state = ev.State
	p.mu.Unlock()
	p.emit(ev)
}

func (p *Poller) emit(ev PollEvent) {
	if p.onEvent != nil {
		p.onEvent(ev)
	}
}
