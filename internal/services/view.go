package services

import (
	"context"
	"time"

	"linkhub/internal/models"
	"linkhub/internal/pkg"
	"linkhub/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ViewService handles profile view and link click accounting. All
// counter writes are best effort: a failed write is logged and
// swallowed so the profile page still renders.
type ViewService struct {
	profileRepo      repository.ProfileRepository
	profileStatRepo  repository.ProfileStatRepository
	platformStatRepo repository.PlatformStatRepository
	locationService  *LocationService
	anchorHour       int
	logger           *pkg.Logger
}

// NewViewService creates a new view service
func NewViewService(
	repos *repository.Repository,
	locationService *LocationService,
	anchorHour int,
	logger *pkg.Logger,
) *ViewService {
	return &ViewService{
		profileRepo:      repos.Profile,
		profileStatRepo:  repos.ProfileStat,
		platformStatRepo: repos.PlatformStat,
		locationService:  locationService,
		anchorHour:       anchorHour,
		logger:           logger,
	}
}

// RecordView records one view of username across the three counters.
// viewer is the authenticated session username, empty for anonymous
// visitors; owners loading their own page do not add views beyond the
// initial creation. providedLocation is the free-text location from
// the profile document, geocoded once and cached on the record.
//
// The returned accounting record is nil only when every counter write
// failed. Failures never propagate to the caller.
func (s *ViewService) RecordView(ctx context.Context, username, viewer, providedLocation string) *models.Profile {
	countView := viewer != username
	bucket := pkg.Times.DayBucket(time.Now(), s.anchorHour)

	log := s.logger.WithFields(map[string]interface{}{
		"username": username,
		"date":     bucket.Format(time.RFC3339),
	})

	profile, created, err := s.profileRepo.RecordView(ctx, username, countView)
	if err != nil {
		log.ErrorWithCause("failed to record profile view", err)
	}

	var profileID primitive.ObjectID
	if profile != nil {
		profileID = profile.ID
	}
	if err := s.profileStatRepo.RecordView(ctx, username, bucket, profileID, countView); err != nil {
		log.ErrorWithCause("failed to record daily profile stat", err)
	}

	if err := s.platformStatRepo.RecordView(ctx, bucket, countView, created); err != nil {
		log.ErrorWithCause("failed to record platform stat", err)
	}

	if profile != nil {
		profile = s.resolveLocation(ctx, profile, providedLocation, log)
	}

	return profile
}

// RecordClick records one outbound link click on the platform counter
// for the current day bucket. Best effort like view accounting.
func (s *ViewService) RecordClick(ctx context.Context, username string) {
	bucket := pkg.Times.DayBucket(time.Now(), s.anchorHour)

	if err := s.platformStatRepo.IncrementClicks(ctx, bucket); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"username": username,
			"date":     bucket.Format(time.RFC3339),
		}).ErrorWithCause("failed to record link click", err)
	}
}

// ProfileStatsForDay returns the per-profile stat for the analytics
// day containing t, or ErrStatNotFound when the day saw no views.
func (s *ViewService) ProfileStatsForDay(ctx context.Context, username string, t time.Time) (*models.ProfileDailyStat, error) {
	bucket := pkg.Times.DayBucket(t, s.anchorHour)
	return s.profileStatRepo.GetByDate(ctx, username, bucket)
}

// PlatformStatsForDay returns the platform-wide stat for the
// analytics day containing t.
func (s *ViewService) PlatformStatsForDay(ctx context.Context, t time.Time) (*models.PlatformDailyStat, error) {
	bucket := pkg.Times.DayBucket(t, s.anchorHour)
	return s.platformStatRepo.GetByDate(ctx, bucket)
}

// resolveLocation geocodes the profile's free-text location on first
// sight or when the text changed, stores the result and returns a
// fresh snapshot. Geocoding failures leave the record untouched.
func (s *ViewService) resolveLocation(ctx context.Context, profile *models.Profile, providedLocation string, log *pkg.LoggerWithFields) *models.Profile {
	if s.locationService == nil || pkg.Strings.IsEmpty(providedLocation) {
		return profile
	}
	if profile.Location != nil && profile.Location.ProvidedLocation == providedLocation {
		return profile
	}

	location, err := s.locationService.Resolve(ctx, providedLocation)
	if err != nil {
		log.ErrorWithCause("failed to resolve profile location", err)
		return profile
	}

	if err := s.profileRepo.UpdateLocation(ctx, profile.Username, location); err != nil {
		log.ErrorWithCause("failed to store resolved location", err)
		return profile
	}

	updated, err := s.profileRepo.GetByUsername(ctx, profile.Username)
	if err != nil {
		log.ErrorWithCause("failed to reload profile after location update", err)
		return profile
	}

	return updated
}
