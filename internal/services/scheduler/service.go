// Package scheduler refreshes the market overview cache on a cron schedule
// so interactive requests are usually served warm.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/prospecto/internal/common"
	"github.com/ternarybob/prospecto/internal/interfaces"
)

// Service runs the background market refresh task.
type Service struct {
	config   common.RefreshConfig
	research interfaces.ResearchService
	logger   arbor.ILogger
	cron     *cron.Cron

	mu         sync.Mutex
	running    bool
	refreshing bool
	cancel     context.CancelFunc
	lastRun    time.Time
	lastError  string
}

func NewService(config common.RefreshConfig, research interfaces.ResearchService, logger arbor.ILogger) *Service {
	return &Service{
		config:   config,
		research: research,
		logger:   logger,
		cron:     cron.New(),
	}
}

// Start begins the refresh schedule. No-op when refresh is disabled.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}
	if !s.config.Enabled {
		s.logger.Info().Msg("Market refresh disabled")
		return nil
	}

	schedule := s.config.Schedule
	if schedule == "" {
		schedule = "*/5 * * * *"
	}

	if _, err := s.cron.AddFunc(schedule, s.refresh); err != nil {
		return fmt.Errorf("invalid refresh schedule '%s': %w", schedule, err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info().Str("schedule", schedule).Msg("Market refresh scheduled")
	return nil
}

// Stop halts the schedule and cancels any in-flight refresh.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	// Wait for the running job to observe cancellation
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("Market refresh stopped")
}

// refresh forces a market overview regeneration. Overlapping runs are
// skipped rather than queued.
func (s *Service) refresh() {
	s.mu.Lock()
	if s.refreshing {
		s.mu.Unlock()
		s.logger.Debug().Msg("Skipping refresh, previous run still in progress")
		return
	}
	s.refreshing = true
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.mu.Unlock()

	defer func() {
		cancel()
		s.mu.Lock()
		s.refreshing = false
		s.cancel = nil
		s.lastRun = time.Now()
		s.mu.Unlock()
	}()

	start := time.Now()
	_, err := s.research.MarketOverview(ctx, true)

	s.mu.Lock()
	if err != nil {
		s.lastError = err.Error()
	} else {
		s.lastError = ""
	}
	s.mu.Unlock()

	if err != nil {
		if ctx.Err() != nil {
			s.logger.Info().Msg("Market refresh cancelled")
			return
		}
		s.logger.Warn().Err(err).Msg("Market refresh failed")
		return
	}

	s.logger.Info().Dur("elapsed", time.Since(start)).Msg("Market overview refreshed")
}

// Status reports scheduler state for the status endpoint.
func (s *Service) Status() (running bool, lastRun time.Time, lastError string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running, s.lastRun, s.lastError
}
