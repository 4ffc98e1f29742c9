package saver

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/hardercore-api/internal/dependencies/clock"
)

// Persister flushes in-memory state to disk
type Persister interface {
	PersistActive() error
}

// Status describes the outcome of the most recent save
type Status struct {
	LastSaved time.Time
	LastError error
	Saves     int
	Failures  int
}

// Saver periodically flushes the active generation
type Saver struct {
	persister Persister
	interval  time.Duration
	clock     clock.Clock
	logger    *slog.Logger

	mu     sync.Mutex
	status Status
}

// New creates a Saver that flushes p every interval
func New(p Persister, interval time.Duration, clk clock.Clock, logger *slog.Logger) *Saver {
	return &Saver{
		persister: p,
		interval:  interval,
		clock:     clk,
		logger:    logger.With(slog.String("component", "saver")),
	}
}

// Run saves on every tick until ctx is cancelled, then saves once more.
// A failed save is logged and retried on the next tick.
func (s *Saver) Run(ctx context.Context) {
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("saver started", slog.Duration("interval", s.interval))
	for {
		select {
		case <-ticker.C():
			_ = s.SaveNow()
		case <-ctx.Done():
			_ = s.SaveNow()
			s.logger.Info("saver stopped")
			return
		}
	}
}

// SaveNow flushes immediately and records the outcome
func (s *Saver) SaveNow() error {
	start := s.clock.Now()
	err := s.persister.PersistActive()

	s.mu.Lock()
	s.status.LastError = err
	if err != nil {
		s.status.Failures++
	} else {
		s.status.Saves++
		s.status.LastSaved = start
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("save failed", slog.Any("error", err))
		return err
	}
	s.logger.Debug("saved", slog.Duration("duration", s.clock.Now().Sub(start)))
	return nil
}

// Status returns a copy of the current save status
func (s *Saver) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}
