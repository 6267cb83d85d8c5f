package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"linkhub/internal/models"
	"linkhub/internal/pkg"
	"linkhub/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The fakes mirror the upsert semantics of the Mongo repositories:
// creation initializes view counters to 1 no matter what, increments
// apply only to existing records.

type fakeProfileRepo struct {
	profiles   map[string]*models.Profile
	failRecord bool
	failGet    bool
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*models.Profile)}
}

func (f *fakeProfileRepo) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	if f.failGet {
		return nil, errors.New("profile store down")
	}
	p, ok := f.profiles[username]
	if !ok {
		return nil, pkg.ErrProfileNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProfileRepo) RecordView(ctx context.Context, username string, countView bool) (*models.Profile, bool, error) {
	if f.failRecord {
		return nil, false, errors.New("profile store down")
	}
	p, ok := f.profiles[username]
	if !ok {
		p = &models.Profile{
			ID:       primitive.NewObjectID(),
			Username: username,
			Views:    1,
		}
		f.profiles[username] = p
		copied := *p
		return &copied, true, nil
	}
	if countView {
		p.Views++
	}
	copied := *p
	return &copied, false, nil
}

func (f *fakeProfileRepo) UpdateLocation(ctx context.Context, username string, location *models.Location) error {
	p, ok := f.profiles[username]
	if !ok {
		return pkg.ErrProfileNotFound
	}
	p.Location = location
	return nil
}

type fakeProfileStatRepo struct {
	stats map[string]*models.ProfileDailyStat
	fail  bool
}

func newFakeProfileStatRepo() *fakeProfileStatRepo {
	return &fakeProfileStatRepo{stats: make(map[string]*models.ProfileDailyStat)}
}

func statKey(username string, date time.Time) string {
	return fmt.Sprintf("%s|%d", username, date.Unix())
}

func (f *fakeProfileStatRepo) GetByDate(ctx context.Context, username string, date time.Time) (*models.ProfileDailyStat, error) {
	s, ok := f.stats[statKey(username, date)]
	if !ok {
		return nil, pkg.ErrStatNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeProfileStatRepo) RecordView(ctx context.Context, username string, date time.Time, profileID primitive.ObjectID, countView bool) error {
	if f.fail {
		return errors.New("stat store down")
	}
	key := statKey(username, date)
	s, ok := f.stats[key]
	if !ok {
		f.stats[key] = &models.ProfileDailyStat{
			Username: username,
			Date:     date,
			Views:    1,
			Profile:  profileID,
		}
		return nil
	}
	if countView {
		s.Views++
	}
	return nil
}

func (f *fakeProfileStatRepo) SumViewsByDate(ctx context.Context, date time.Time) (int64, error) {
	var total int64
	for _, s := range f.stats {
		if s.Date.Equal(date) {
			total += s.Views
		}
	}
	return total, nil
}

type fakePlatformStatRepo struct {
	stats      map[int64]*models.PlatformDailyStat
	failViews  bool
	failClicks bool
}

func newFakePlatformStatRepo() *fakePlatformStatRepo {
	return &fakePlatformStatRepo{stats: make(map[int64]*models.PlatformDailyStat)}
}

func (f *fakePlatformStatRepo) GetByDate(ctx context.Context, date time.Time) (*models.PlatformDailyStat, error) {
	s, ok := f.stats[date.Unix()]
	if !ok {
		return nil, pkg.ErrStatNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakePlatformStatRepo) RecordView(ctx context.Context, date time.Time, countView bool, newUser bool) error {
	if f.failViews {
		return errors.New("platform store down")
	}
	var usersInc int64
	if newUser {
		usersInc = 1
	}
	s, ok := f.stats[date.Unix()]
	if !ok {
		f.stats[date.Unix()] = &models.PlatformDailyStat{
			Date:  date,
			Views: 1,
			Users: usersInc,
		}
		return nil
	}
	if countView {
		s.Views++
	}
	s.Users += usersInc
	return nil
}

func (f *fakePlatformStatRepo) IncrementClicks(ctx context.Context, date time.Time) error {
	if f.failClicks {
		return errors.New("platform store down")
	}
	s, ok := f.stats[date.Unix()]
	if !ok {
		f.stats[date.Unix()] = &models.PlatformDailyStat{Date: date, Clicks: 1}
		return nil
	}
	s.Clicks++
	return nil
}

type viewFixture struct {
	profiles *fakeProfileRepo
	stats    *fakeProfileStatRepo
	platform *fakePlatformStatRepo
	service  *ViewService
}

func newViewFixture(location *LocationService) *viewFixture {
	f := &viewFixture{
		profiles: newFakeProfileRepo(),
		stats:    newFakeProfileStatRepo(),
		platform: newFakePlatformStatRepo(),
	}
	repos := &repository.Repository{
		Profile:      f.profiles,
		ProfileStat:  f.stats,
		PlatformStat: f.platform,
	}
	f.service = NewViewService(repos, location, 1, pkg.NewLogger(pkg.LevelFatal))
	return f
}

func (f *viewFixture) bucket() time.Time {
	return pkg.Times.DayBucket(time.Now(), 1)
}

func TestRecordViewFirstAnonymousVisit(t *testing.T) {
	f := newViewFixture(nil)

	profile := f.service.RecordView(context.Background(), "alice", "", "")
	if profile == nil {
		t.Fatal("RecordView() returned nil profile")
	}
	if profile.Views != 1 {
		t.Errorf("profile.Views = %d, want 1", profile.Views)
	}

	stat, err := f.stats.GetByDate(context.Background(), "alice", f.bucket())
	if err != nil {
		t.Fatalf("daily stat missing: %v", err)
	}
	if stat.Views != 1 {
		t.Errorf("stat.Views = %d, want 1", stat.Views)
	}
	if stat.Profile.IsZero() {
		t.Error("stat.Profile backref not set")
	}

	platform, err := f.platform.GetByDate(context.Background(), f.bucket())
	if err != nil {
		t.Fatalf("platform stat missing: %v", err)
	}
	if platform.Views != 1 || platform.Users != 1 || platform.Clicks != 0 {
		t.Errorf("platform = views %d users %d clicks %d, want 1/1/0",
			platform.Views, platform.Users, platform.Clicks)
	}
}

func TestRecordViewOwnerDoesNotCount(t *testing.T) {
	f := newViewFixture(nil)

	// Seed with one anonymous visit, then the owner loads their page.
	f.service.RecordView(context.Background(), "alice", "", "")
	profile := f.service.RecordView(context.Background(), "alice", "alice", "")

	if profile.Views != 1 {
		t.Errorf("profile.Views = %d, want 1 after owner view", profile.Views)
	}

	platform, _ := f.platform.GetByDate(context.Background(), f.bucket())
	if platform.Views != 1 {
		t.Errorf("platform.Views = %d, want 1 after owner view", platform.Views)
	}
	if platform.Users != 1 {
		t.Errorf("platform.Users = %d, want 1", platform.Users)
	}
}

func TestRecordViewOwnerFirstVisitCreates(t *testing.T) {
	f := newViewFixture(nil)

	profile := f.service.RecordView(context.Background(), "alice", "alice", "")
	if profile == nil {
		t.Fatal("RecordView() returned nil profile")
	}
	if profile.Views != 1 {
		t.Errorf("profile.Views = %d, want 1 on creation", profile.Views)
	}

	platform, _ := f.platform.GetByDate(context.Background(), f.bucket())
	if platform.Users != 1 {
		t.Errorf("platform.Users = %d, want 1 for newly seen profile", platform.Users)
	}
}

func TestRecordViewRepeatVisitsAccumulate(t *testing.T) {
	f := newViewFixture(nil)

	f.service.RecordView(context.Background(), "alice", "", "")
	f.service.RecordView(context.Background(), "alice", "bob", "")
	profile := f.service.RecordView(context.Background(), "alice", "", "")

	if profile.Views != 3 {
		t.Errorf("profile.Views = %d, want 3", profile.Views)
	}

	stat, _ := f.stats.GetByDate(context.Background(), "alice", f.bucket())
	if stat.Views != 3 {
		t.Errorf("stat.Views = %d, want 3", stat.Views)
	}

	platform, _ := f.platform.GetByDate(context.Background(), f.bucket())
	if platform.Views != 3 {
		t.Errorf("platform.Views = %d, want 3", platform.Views)
	}
	if platform.Users != 1 {
		t.Errorf("platform.Users = %d, want 1", platform.Users)
	}
}

func TestRecordViewSwallowsProfileFailure(t *testing.T) {
	f := newViewFixture(nil)
	f.profiles.failRecord = true

	profile := f.service.RecordView(context.Background(), "alice", "", "")
	if profile != nil {
		t.Errorf("RecordView() = %+v, want nil when profile store fails", profile)
	}

	// Remaining counters still advance.
	stat, err := f.stats.GetByDate(context.Background(), "alice", f.bucket())
	if err != nil {
		t.Fatalf("daily stat missing after profile failure: %v", err)
	}
	if stat.Views != 1 {
		t.Errorf("stat.Views = %d, want 1", stat.Views)
	}
	if _, err := f.platform.GetByDate(context.Background(), f.bucket()); err != nil {
		t.Errorf("platform stat missing after profile failure: %v", err)
	}
}

func TestRecordViewSwallowsAllFailures(t *testing.T) {
	f := newViewFixture(nil)
	f.profiles.failRecord = true
	f.stats.fail = true
	f.platform.failViews = true

	if profile := f.service.RecordView(context.Background(), "alice", "", ""); profile != nil {
		t.Errorf("RecordView() = %+v, want nil when everything fails", profile)
	}
}

func TestRecordClick(t *testing.T) {
	f := newViewFixture(nil)

	f.service.RecordClick(context.Background(), "alice")
	f.service.RecordClick(context.Background(), "alice")

	platform, err := f.platform.GetByDate(context.Background(), f.bucket())
	if err != nil {
		t.Fatalf("platform stat missing: %v", err)
	}
	if platform.Clicks != 2 {
		t.Errorf("platform.Clicks = %d, want 2", platform.Clicks)
	}
}

func TestRecordClickSwallowsFailure(t *testing.T) {
	f := newViewFixture(nil)
	f.platform.failClicks = true

	// Must not panic or surface the error.
	f.service.RecordClick(context.Background(), "alice")
}

func TestRecordViewResolvesLocationOnce(t *testing.T) {
	var requests int
	geocoder := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if got := r.URL.Query().Get("q"); got != "Melbourne, Australia" {
			t.Errorf("geocode query = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"display_name":"Melbourne, Victoria, Australia","lat":"-37.8136","lon":"144.9631"}]`)
	}))
	defer geocoder.Close()

	f := newViewFixture(NewLocationService(geocoder.URL, time.Second))

	profile := f.service.RecordView(context.Background(), "alice", "", "Melbourne, Australia")
	if profile == nil || profile.Location == nil {
		t.Fatal("location not resolved on first view")
	}
	if profile.Location.Name != "Melbourne, Victoria, Australia" {
		t.Errorf("location.Name = %q", profile.Location.Name)
	}
	if profile.Location.Lat != -37.8136 || profile.Location.Lon != 144.9631 {
		t.Errorf("location coords = %v/%v", profile.Location.Lat, profile.Location.Lon)
	}
	if profile.Location.ProvidedLocation != "Melbourne, Australia" {
		t.Errorf("location.ProvidedLocation = %q", profile.Location.ProvidedLocation)
	}

	// Unchanged text skips geocoding on later views.
	f.service.RecordView(context.Background(), "alice", "", "Melbourne, Australia")
	if requests != 1 {
		t.Errorf("geocoder hit %d times, want 1", requests)
	}
}

func TestRecordViewSurvivesGeocoderFailure(t *testing.T) {
	geocoder := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer geocoder.Close()

	f := newViewFixture(NewLocationService(geocoder.URL, time.Second))

	profile := f.service.RecordView(context.Background(), "alice", "", "Nowhere")
	if profile == nil {
		t.Fatal("RecordView() returned nil on geocoder failure")
	}
	if profile.Location != nil {
		t.Errorf("profile.Location = %+v, want nil", profile.Location)
	}
	if profile.Views != 1 {
		t.Errorf("profile.Views = %d, want 1", profile.Views)
	}
}
