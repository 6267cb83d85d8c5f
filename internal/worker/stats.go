package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"linkhub/internal/pkg"
	"linkhub/internal/repository"
)

// StatsWorker periodically cross-checks the denormalized counters.
// View accounting is best effort, so the per-profile sums and the
// platform counter can drift apart after partial failures; the worker
// reports the drift so it shows up in logs instead of in a dashboard
// discrepancy ticket.
type StatsWorker struct {
	profileStatRepo  repository.ProfileStatRepository
	platformStatRepo repository.PlatformStatRepository
	anchorHour       int
	interval         time.Duration
	logger           *pkg.Logger
}

// NewStatsWorker creates a new stats reconciliation worker
func NewStatsWorker(
	repos *repository.Repository,
	anchorHour int,
	interval time.Duration,
	logger *pkg.Logger,
) *StatsWorker {
	if interval <= 0 {
		interval = time.Hour
	}

	return &StatsWorker{
		profileStatRepo:  repos.ProfileStat,
		platformStatRepo: repos.PlatformStat,
		anchorHour:       anchorHour,
		interval:         interval,
		logger:           logger,
	}
}

// Start runs the reconciliation loop until ctx is cancelled
func (w *StatsWorker) Start(ctx context.Context) {
	w.logger.Info("stats worker started", map[string]interface{}{
		"interval": w.interval.String(),
	})

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("stats worker stopped")
			return
		case <-ticker.C:
			if err := w.ReconcileDay(ctx, time.Now()); err != nil {
				w.logger.WithFields(map[string]interface{}{
					"date": time.Now().Format("2006-01-02"),
				}).ErrorWithCause("stats reconciliation failed", err)
			}
		}
	}
}

// ReconcileDay compares the platform view counter for the analytics
// day containing t against the sum of per-profile stats for the same
// bucket. A missing platform stat with zero profile views is clean; a
// mismatch is logged with both numbers.
func (w *StatsWorker) ReconcileDay(ctx context.Context, t time.Time) error {
	bucket := pkg.Times.DayBucket(t, w.anchorHour)

	profileViews, err := w.profileStatRepo.SumViewsByDate(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to sum profile views: %w", err)
	}

	platformStat, err := w.platformStatRepo.GetByDate(ctx, bucket)
	if err != nil {
		if errors.Is(err, pkg.ErrStatNotFound) {
			if profileViews > 0 {
				w.logger.Warn("platform stat missing for day with profile views", map[string]interface{}{
					"date":          bucket.Format("2006-01-02"),
					"profile_views": profileViews,
				})
			}
			return nil
		}
		return fmt.Errorf("failed to get platform stat: %w", err)
	}

	if platformStat.Views != profileViews {
		w.logger.Warn("view counters drifted", map[string]interface{}{
			"date":           bucket.Format("2006-01-02"),
			"platform_views": platformStat.Views,
			"profile_views":  profileViews,
			"drift":          platformStat.Views - profileViews,
		})
		return nil
	}

	w.logger.Debug("view counters consistent", map[string]interface{}{
		"date":  bucket.Format("2006-01-02"),
		"views": platformStat.Views,
	})

	return nil
}
