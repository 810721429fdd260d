package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/Scardubu/FootballForecast-sub006/internal/engine"
	"github.com/Scardubu/FootballForecast-sub006/internal/types"
)

// UpcomingLister is the slice of the storage layer the refresher needs.
type UpcomingLister interface {
	UpcomingFixtures(ctx context.Context, within time.Duration) ([]types.Fixture, error)
}

// FeatureRefresher periodically re-extracts features for fixtures kicking off
// soon and primes the cache, so dashboard reads stay warm without hitting the
// extraction path on every request.
type FeatureRefresher struct {
	extractor *engine.Extractor
	fixtures  UpcomingLister
	cache     *FeatureCache
	cron      *cron.Cron
	schedule  string
	lookahead time.Duration
	logger    *logrus.Logger

	mu        sync.Mutex
	isRunning bool
	lastRun   time.Time
	lastCount int
}

func NewFeatureRefresher(
	extractor *engine.Extractor,
	fixtures UpcomingLister,
	cache *FeatureCache,
	schedule string,
	lookahead time.Duration,
	logger *logrus.Logger,
) *FeatureRefresher {
	cronLogger := cron.VerbosePrintfLogger(logger)
	return &FeatureRefresher{
		extractor: extractor,
		fixtures:  fixtures,
		cache:     cache,
		cron:      cron.New(cron.WithLogger(cronLogger)),
		schedule:  schedule,
		lookahead: lookahead,
		logger:    logger,
	}
}

// Start schedules the refresh job and starts the cron loop.
func (r *FeatureRefresher) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isRunning {
		return fmt.Errorf("feature refresher is already running")
	}

	if _, err := r.cron.AddFunc(r.schedule, func() { r.RefreshOnce(context.Background()) }); err != nil {
		return fmt.Errorf("failed to schedule feature refresh: %w", err)
	}

	r.cron.Start()
	r.isRunning = true

	r.logger.WithFields(logrus.Fields{
		"component": "feature_refresher",
		"schedule":  r.schedule,
		"lookahead": r.lookahead,
	}).Info("Feature refresher started")
	return nil
}

// RefreshOnce extracts features for every fixture in the lookahead window.
// Per-fixture failures are logged and skipped; one broken fixture must not
// stall the rest of the window.
func (r *FeatureRefresher) RefreshOnce(ctx context.Context) {
	runLog := r.logger.WithFields(logrus.Fields{
		"component": "feature_refresher",
		"run_id":    uuid.NewString(),
	})
	runLog.Info("Starting feature refresh run")
	start := time.Now()

	upcoming, err := r.fixtures.UpcomingFixtures(ctx, r.lookahead)
	if err != nil {
		runLog.WithError(err).Error("Failed to list upcoming fixtures")
		return
	}

	refreshed := 0
	for _, fixture := range upcoming {
		features, err := r.extractor.Extract(ctx, fixture.ID)
		if err != nil {
			if errors.Is(err, types.ErrFixtureNotFound) {
				runLog.WithField("fixture_id", fixture.ID).Warn("Fixture vanished between listing and extraction")
			} else {
				runLog.WithError(err).WithField("fixture_id", fixture.ID).Error("Feature extraction failed during refresh")
			}
			continue
		}
		if r.cache != nil {
			r.cache.Set(ctx, features)
		}
		refreshed++
	}

	r.mu.Lock()
	r.lastRun = time.Now()
	r.lastCount = refreshed
	r.mu.Unlock()

	runLog.WithFields(logrus.Fields{
		"fixtures":    len(upcoming),
		"refreshed":   refreshed,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Feature refresh run completed")
}

// Status reports the refresher's last run for health endpoints.
func (r *FeatureRefresher) Status() map[string]interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return map[string]interface{}{
		"is_running": r.isRunning,
		"schedule":   r.schedule,
		"last_run":   r.lastRun,
		"last_count": r.lastCount,
	}
}

// Stop halts the cron loop, waiting briefly for a running job.
func (r *FeatureRefresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isRunning {
		return
	}

	ctx := r.cron.Stop()
	select {
	case <-ctx.Done():
		r.logger.WithField("component", "feature_refresher").Info("Feature refresher stopped gracefully")
	case <-time.After(5 * time.Second):
		r.logger.WithField("component", "feature_refresher").Warn("Feature refresher stop timed out")
	}
	r.isRunning = false
}
