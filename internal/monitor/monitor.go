package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/airpen/airpen/internal/tracker"
)

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	Logger *slog.Logger
	Stats  func() tracker.Stats

	// Totals returns counter totals by metric name. Optional.
	Totals func(ctx context.Context) (map[string]int64, error)

	StatusPath string // status file rewritten on every tick, optional
	Interval   time.Duration
}

// Status is one point-in-time report.
type Status struct {
	Time     time.Time        `json:"time"`
	Tracker  tracker.Stats    `json:"tracker"`
	Counters map[string]int64 `json:"counters,omitempty"`
}

// Service manages status monitoring
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
	done      chan struct{}
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.Interval <= 0 {
		deps.Interval = time.Second
	}
	return &Service{
		deps:     deps,
		stopChan: make(chan struct{}),
	}
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetStatus builds the current status.
func (s *Service) GetStatus(ctx context.Context) Status {
	st := Status{
		Time:    time.Now(),
		Tracker: s.deps.Stats(),
	}
	if s.deps.Totals != nil {
		totals, err := s.deps.Totals(ctx)
		if err != nil {
			s.deps.Logger.Error("Error collecting counters", "error", err)
		} else if len(totals) > 0 {
			st.Counters = totals
		}
	}
	return st
}

// writeStatus replaces the status file content.
func (s *Service) writeStatus(st Status) error {
	if s.deps.StatusPath == "" {
		return nil
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding status: %w", err)
	}
	if err := os.WriteFile(s.deps.StatusPath, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing status file: %w", err)
	}
	return nil
}

// Start starts the status monitor goroutine
func (s *Service) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})
	stop, done := s.stopChan, s.done
	s.mu.Unlock()

	go func() {
		defer close(done)
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}()

		logger := s.deps.Logger
		logger.Debug("Starting status monitor goroutine", "interval", s.deps.Interval)

		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()

		var last tracker.Stats
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				st := s.GetStatus(context.Background())
				if err := s.writeStatus(st); err != nil {
					logger.Error("Error writing status file", "error", err)
				}
				if st.Tracker != last {
					logger.Info("Tracker status",
						"activeTracks", st.Tracker.ActiveTracks,
						"finishedStrokes", st.Tracker.FinishedStrokes,
						"rotating", st.Tracker.Rotating,
					)
					last = st.Tracker
				}
			}
		}
	}()

	return nil
}

// Stop stops the status monitor and waits for the goroutine to exit.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	select {
	case <-s.stopChan:
	default:
		close(s.stopChan)
	}
	done := s.done
	s.mu.Unlock()

	<-done
}
