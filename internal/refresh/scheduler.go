// Package refresh drives the periodic re-fetch of dashboard data. A scheduler
// owns exactly one timer: starting it again replaces the previous one. Ticks
// are skipped while the dashboard is hidden, and the refresh callback itself
// reports whether it ran or was dropped by the in-flight guard.
package refresh

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Scheduler triggers a refresh on a fixed period. No jitter, no backoff.
type Scheduler struct {
	interval time.Duration
	visible  func() bool
	refresh  func(ctx context.Context) bool
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a scheduler. visible gates ticks (nil means always visible);
// refresh performs the actual reload and returns false when it was dropped
// because one was already in flight.
func New(interval time.Duration, visible func() bool, refresh func(ctx context.Context) bool, logger *slog.Logger) *Scheduler {
	if visible == nil {
		visible = func() bool { return true }
	}
	return &Scheduler{
		interval: interval,
		visible:  visible,
		refresh:  refresh,
		logger:   logger.With(slog.String("component", "refresh")),
	}
}

// Run blocks, firing the refresh callback every interval until ctx is
// cancelled. It returns nil on clean shutdown.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.InfoContext(ctx, "refresh scheduler started",
		slog.Duration("interval", s.interval),
	)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("refresh scheduler stopped")
			return nil
		case <-ticker.C:
			if !s.visible() {
				s.logger.DebugContext(ctx, "tick skipped, dashboard hidden")
				continue
			}
			if !s.refresh(ctx) {
				s.logger.DebugContext(ctx, "tick dropped, refresh in flight")
			}
		}
	}
}

// Start launches Run on a goroutine, first cancelling any previously started
// timer so only one is ever live.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	go func() {
		defer close(done)
		_ = s.Run(runCtx)
	}()
}

// Stop cancels the live timer, if any, and waits for it to wind down.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Scheduler) stopLocked() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil
}
