// Package daemon implements the background auto-organize loop.
package daemon

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/desk_org/internal/domain"
)

// Runner executes organize passes. usecase.Workspace implements it and
// serializes passes, so the loop and RunNow never overlap.
type Runner interface {
	RunPass(ctx context.Context) (*domain.PassSummary, error)
	CheckTarget() error
}

// Scheduler runs a pass, waits intervalSeconds, and repeats until stopped.
// States are Idle and Running.
type Scheduler struct {
	runner Runner
	logger *zap.Logger

	mu     sync.Mutex
	state  domain.MonitorState
	cancel context.CancelFunc
	done   chan struct{}

	// unit scales intervalSeconds; tests shorten it.
	unit time.Duration
}

// NewScheduler creates an idle scheduler.
func NewScheduler(runner Runner, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		runner: runner,
		logger: logger,
		state:  domain.MonitorState{IntervalSeconds: domain.DefaultIntervalSeconds},
		unit:   time.Second,
	}
}

// Start begins the loop. It is a no-op when already running. The interval
// and the scan target are validated before anything is spawned.
func (s *Scheduler) Start(intervalSeconds int) error {
	if intervalSeconds <= 0 {
		return domain.With(domain.ErrInvalidInterval, "interval must be positive, got %d", intervalSeconds)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Enabled {
		s.logger.Debug("scheduler already running")
		return nil
	}
	if err := s.runner.CheckTarget(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.state = domain.MonitorState{Enabled: true, IntervalSeconds: intervalSeconds}
	s.cancel = cancel
	s.done = done

	go s.loop(ctx, done)

	s.logger.Info("auto organize started", zap.Int("interval_seconds", intervalSeconds))
	return nil
}

// Stop cancels the loop and blocks until an in-flight pass completes.
// It is a no-op when idle.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.state.Enabled {
		s.mu.Unlock()
		return
	}
	cancel, done := s.cancel, s.done
	s.state.Enabled = false
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	cancel()
	<-done
	s.logger.Info("auto organize stopped")
}

// IsRunning reports whether the loop is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Enabled
}

// State returns a copy of the monitor state.
func (s *Scheduler) State() domain.MonitorState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetInterval changes the wait used from the next cycle onward.
func (s *Scheduler) SetInterval(intervalSeconds int) error {
	if intervalSeconds <= 0 {
		return domain.With(domain.ErrInvalidInterval, "interval must be positive, got %d", intervalSeconds)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IntervalSeconds = intervalSeconds
	return nil
}

// RunNow runs a pass immediately. It waits for a running loop pass to finish.
func (s *Scheduler) RunNow(ctx context.Context) (*domain.PassSummary, error) {
	return s.runner.RunPass(ctx)
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		if ctx.Err() != nil {
			return
		}

		s.runOnce(ctx)

		if ctx.Err() != nil {
			return
		}

		timer := time.NewTimer(s.interval())
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	summary, err := s.runner.RunPass(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("scheduled pass failed", zap.Error(err))
		}
		return
	}
	if summary.FilesMoved > 0 || len(summary.Failures) > 0 {
		s.logger.Info("scheduled pass completed",
			zap.String("pass_id", summary.PassID),
			zap.Int("moved", summary.FilesMoved),
			zap.Int("failed", len(summary.Failures)))
	}
}

func (s *Scheduler) interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Duration(s.state.IntervalSeconds) * s.unit
}
