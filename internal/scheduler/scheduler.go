package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// TickFunc is one scheduling pass. The context is cancelled when the
// scheduler stops.
type TickFunc func(context.Context)

// Scheduler drives a TickFunc on a fixed interval. The first tick fires
// immediately on Start so due work is not delayed by a full interval.
type Scheduler struct {
	interval time.Duration
	tick     TickFunc

	running atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func New(interval time.Duration, tick TickFunc) (*Scheduler, error) {
	if interval <= 0 {
		return nil, errors.New("interval must be > 0")
	}
	if tick == nil {
		return nil, errors.New("tick must not be nil")
	}
	return &Scheduler{
		interval: interval,
		tick:     tick,
		done:     make(chan struct{}),
	}, nil
}

// Start launches the loop. Returns false if already running.
func (s *Scheduler) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running.Load() {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running.Store(true)

	go s.run(ctx)
	return true
}

// Stop cancels the loop and waits for the current tick to return. Returns
// false if not running.
func (s *Scheduler) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running.Load() {
		return false
	}

	s.cancel()
	<-s.done
	s.running.Store(false)

	slog.Info("scheduler stopped")
	return true
}

func (s *Scheduler) IsRunning() bool {
	return s.running.Load()
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("scheduler started", "interval", s.interval.String())

	s.safeTick(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("scheduler stopping")
			return
		case <-ticker.C:
			s.safeTick(ctx)
		}
	}
}

// safeTick keeps a panicking tick from killing the loop; the next interval
// still fires.
func (s *Scheduler) safeTick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("scheduler tick panic recovered", "panic", r)
		}
	}()

	start := time.Now()
	s.tick(ctx)
	slog.Info("scheduler tick completed", "duration_ms", time.Since(start).Milliseconds())
}
