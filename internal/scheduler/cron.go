package scheduler

import (
	"fmt"

	"github.com/amaumene/gocinarr/internal/cache"
	"github.com/amaumene/gocinarr/internal/controllers"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler manages scheduled maintenance tasks
type Scheduler struct {
	cron       *cron.Cron
	enrichCtrl *controllers.EnrichController
	images     *cache.Images
	logger     *logrus.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(enrichCtrl *controllers.EnrichController, images *cache.Images, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		enrichCtrl: enrichCtrl,
		images:     images,
		logger:     logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.logger.Info("Starting scheduler")

	// Midnight: drop session-scoped enrichment data so ratings and episode
	// lists are refetched at most once per day
	_, err := s.cron.AddFunc("0 0 * * *", func() {
		s.runCacheClear()
	})
	if err != nil {
		return fmt.Errorf("failed to add cache clear job: %w", err)
	}

	// Every hour: report cache sizes
	_, err = s.cron.AddFunc("0 * * * *", func() {
		s.runCacheReport()
	})
	if err != nil {
		return fmt.Errorf("failed to add cache report job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started")
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cron.Stop()
}

// runCacheClear executes the nightly cache clear job
func (s *Scheduler) runCacheClear() {
	ratings, seasons := s.enrichCtrl.CacheStats()
	s.enrichCtrl.ClearCaches()
	s.logger.WithFields(logrus.Fields{
		"ratings": ratings,
		"seasons": seasons,
	}).Info("Cleared enrichment caches")
}

// runCacheReport logs current cache sizes
func (s *Scheduler) runCacheReport() {
	ratings, seasons := s.enrichCtrl.CacheStats()
	s.logger.WithFields(logrus.Fields{
		"ratings":     ratings,
		"seasons":     seasons,
		"images":      s.images.Len(),
		"image_bytes": s.images.Bytes(),
	}).Debug("Cache report")
}
