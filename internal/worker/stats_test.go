package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"linkhub/internal/models"
	"linkhub/internal/pkg"
	"linkhub/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubProfileStatRepo struct {
	sum     int64
	sumErr  error
	lastDay time.Time
}

func (s *stubProfileStatRepo) GetByDate(ctx context.Context, username string, date time.Time) (*models.ProfileDailyStat, error) {
	return nil, pkg.ErrStatNotFound
}

func (s *stubProfileStatRepo) RecordView(ctx context.Context, username string, date time.Time, profileID primitive.ObjectID, countView bool) error {
	return nil
}

func (s *stubProfileStatRepo) SumViewsByDate(ctx context.Context, date time.Time) (int64, error) {
	s.lastDay = date
	return s.sum, s.sumErr
}

type stubPlatformStatRepo struct {
	stat *models.PlatformDailyStat
	err  error
}

func (s *stubPlatformStatRepo) GetByDate(ctx context.Context, date time.Time) (*models.PlatformDailyStat, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.stat, nil
}

func (s *stubPlatformStatRepo) RecordView(ctx context.Context, date time.Time, countView bool, newUser bool) error {
	return nil
}

func (s *stubPlatformStatRepo) IncrementClicks(ctx context.Context, date time.Time) error {
	return nil
}

func newTestWorker(profileStats *stubProfileStatRepo, platformStats *stubPlatformStatRepo) *StatsWorker {
	repos := &repository.Repository{
		ProfileStat:  profileStats,
		PlatformStat: platformStats,
	}
	return NewStatsWorker(repos, 1, time.Hour, pkg.NewLogger(pkg.LevelFatal))
}

func TestReconcileDayConsistent(t *testing.T) {
	profileStats := &stubProfileStatRepo{sum: 42}
	platformStats := &stubPlatformStatRepo{stat: &models.PlatformDailyStat{Views: 42}}

	w := newTestWorker(profileStats, platformStats)
	if err := w.ReconcileDay(context.Background(), time.Now()); err != nil {
		t.Errorf("ReconcileDay() error = %v", err)
	}

	want := pkg.Times.DayBucket(time.Now(), 1)
	if !profileStats.lastDay.Equal(want) {
		t.Errorf("reconciled bucket = %v, want %v", profileStats.lastDay, want)
	}
}

func TestReconcileDayDriftIsNotAnError(t *testing.T) {
	w := newTestWorker(
		&stubProfileStatRepo{sum: 40},
		&stubPlatformStatRepo{stat: &models.PlatformDailyStat{Views: 42}},
	)

	if err := w.ReconcileDay(context.Background(), time.Now()); err != nil {
		t.Errorf("ReconcileDay() error = %v, drift should only be logged", err)
	}
}

func TestReconcileDayMissingPlatformStat(t *testing.T) {
	w := newTestWorker(
		&stubProfileStatRepo{sum: 0},
		&stubPlatformStatRepo{err: pkg.ErrStatNotFound},
	)

	if err := w.ReconcileDay(context.Background(), time.Now()); err != nil {
		t.Errorf("ReconcileDay() error = %v, missing stat for idle day is clean", err)
	}
}

func TestReconcileDayPropagatesStoreErrors(t *testing.T) {
	storeErr := errors.New("store down")

	w := newTestWorker(&stubProfileStatRepo{sumErr: storeErr}, &stubPlatformStatRepo{})
	if err := w.ReconcileDay(context.Background(), time.Now()); !errors.Is(err, storeErr) {
		t.Errorf("ReconcileDay() error = %v, want wrapped store error", err)
	}

	w = newTestWorker(&stubProfileStatRepo{sum: 1}, &stubPlatformStatRepo{err: storeErr})
	if err := w.ReconcileDay(context.Background(), time.Now()); !errors.Is(err, storeErr) {
		t.Errorf("ReconcileDay() error = %v, want wrapped store error", err)
	}
}

func TestStartStopsOnCancel(t *testing.T) {
	w := newTestWorker(&stubProfileStatRepo{}, &stubPlatformStatRepo{stat: &models.PlatformDailyStat{}})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
