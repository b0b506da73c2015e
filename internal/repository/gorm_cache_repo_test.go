package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonai-git/restaurant-recommendations/internal/domain"
	"github.com/simonai-git/restaurant-recommendations/internal/testutil"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newCacheRepo(t *testing.T) (*GormCacheRepository, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	return NewGormCacheRepository(testutil.NewDB(t), WithClock(clock.Now)), clock
}

func ptr[T any](v T) *T { return &v }

func summary(id, name string) domain.PlaceSummary {
	return domain.PlaceSummary{
		PlaceID: id,
		Name:    name,
		Address: "1 Market St",
		Lat:     37.79,
		Lng:     -122.39,
		Rating:  ptr(4.5),
		Photos:  []domain.PlacePhoto{{PhotoReference: "ref-" + id, Height: 300, Width: 400}},
		Types:   []string{"sushi_restaurant", "restaurant"},
	}
}

func TestSearchCache_RoundTrip(t *testing.T) {
	repo, clock := newCacheRepo(t)
	ctx := context.Background()

	results := []domain.PlaceSummary{summary("a", "Sushi A"), summary("b", "Sushi B")}
	require.NoError(t, repo.UpsertSearch(ctx, "sushi", results, clock.Now().Add(24*time.Hour)))

	entry, err := repo.GetSearch(ctx, "sushi")
	require.NoError(t, err)
	assert.Equal(t, "sushi", entry.Query)
	assert.Equal(t, results, entry.Results)
}

func TestSearchCache_Missing(t *testing.T) {
	repo, _ := newCacheRepo(t)

	_, err := repo.GetSearch(context.Background(), "ramen")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchCache_UpsertIsIdempotent(t *testing.T) {
	repo, clock := newCacheRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertSearch(ctx, "sushi", []domain.PlaceSummary{summary("a", "Old")}, clock.Now().Add(time.Hour)))
	require.NoError(t, repo.UpsertSearch(ctx, "sushi", []domain.PlaceSummary{summary("b", "New")}, clock.Now().Add(24*time.Hour)))

	var count int64
	require.NoError(t, repo.db.Model(&domain.SearchCacheModel{}).Where("query = ?", "sushi").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	clock.Advance(2 * time.Hour)
	entry, err := repo.GetSearch(ctx, "sushi")
	require.NoError(t, err)
	require.Len(t, entry.Results, 1)
	assert.Equal(t, "New", entry.Results[0].Name)
}

func TestSearchCache_ExpiryBoundary(t *testing.T) {
	repo, clock := newCacheRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertSearch(ctx, "sushi", []domain.PlaceSummary{summary("a", "A")}, clock.Now().Add(24*time.Hour)))

	clock.Advance(23*time.Hour + 59*time.Minute)
	entry, err := repo.GetSearch(ctx, "sushi")
	require.NoError(t, err)
	require.Len(t, entry.Results, 1)

	clock.Advance(2 * time.Minute)
	_, err = repo.GetSearch(ctx, "sushi")
	assert.ErrorIs(t, err, ErrNotFound)

	var count int64
	require.NoError(t, repo.db.Model(&domain.SearchCacheModel{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSearchCache_ExpiredRowIsDeleted(t *testing.T) {
	repo, clock := newCacheRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertSearch(ctx, "sushi", []domain.PlaceSummary{summary("a", "A")}, clock.Now().Add(24*time.Hour)))

	clock.Advance(25 * time.Hour)
	_, err := repo.GetSearch(ctx, "sushi")
	assert.ErrorIs(t, err, ErrNotFound)

	var count int64
	require.NoError(t, repo.db.Model(&domain.SearchCacheModel{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPlace_RoundTripAndFreshness(t *testing.T) {
	repo, clock := newCacheRepo(t)
	ctx := context.Background()

	details := &domain.PlaceDetails{
		PlaceSummary: summary("p1", "Sushi Place"),
		Phone:        "(415) 555-0100",
		Website:      "https://sushi.example",
		Hours:        &domain.OpeningHours{WeekdayText: []string{"Monday: 11AM-9PM"}, OpenNow: true},
		Reviews:      []domain.PlaceReview{{AuthorName: "Ann", Rating: 5, Text: "Great", Time: 1700000000}},
	}
	require.NoError(t, repo.UpsertPlace(ctx, details))

	got, err := repo.GetPlace(ctx, "p1", 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, details, got)

	clock.Advance(25 * time.Hour)
	_, err = repo.GetPlace(ctx, "p1", 24*time.Hour)
	assert.ErrorIs(t, err, ErrNotFound)

	// Stale rows are kept.
	var model domain.RestaurantModel
	require.NoError(t, repo.db.First(&model, "place_id = ?", "p1").Error)
	assert.Equal(t, "sushi", *model.CuisineType)
}

func TestPlace_UpsertRefreshesRow(t *testing.T) {
	repo, clock := newCacheRepo(t)
	ctx := context.Background()

	first := &domain.PlaceDetails{PlaceSummary: summary("p1", "Before")}
	require.NoError(t, repo.UpsertPlace(ctx, first))

	clock.Advance(30 * time.Hour)
	second := &domain.PlaceDetails{PlaceSummary: summary("p1", "After")}
	require.NoError(t, repo.UpsertPlace(ctx, second))

	var count int64
	require.NoError(t, repo.db.Model(&domain.RestaurantModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	got, err := repo.GetPlace(ctx, "p1", 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "After", got.Name)
	assert.Nil(t, got.Hours)
	assert.Empty(t, got.Reviews)
}

func TestPhoto_CompositeKey(t *testing.T) {
	repo, clock := newCacheRepo(t)
	ctx := context.Background()
	exp := clock.Now().Add(24 * time.Hour)

	require.NoError(t, repo.UpsertPhoto(ctx, "ref", 400, &domain.PhotoData{Data: []byte("small"), ContentType: "image/jpeg"}, exp))

	got, err := repo.GetPhoto(ctx, "ref", 400)
	require.NoError(t, err)
	assert.Equal(t, []byte("small"), got.Data)
	assert.Equal(t, "image/jpeg", got.ContentType)

	_, err = repo.GetPhoto(ctx, "ref", 800)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.UpsertPhoto(ctx, "ref", 800, &domain.PhotoData{Data: []byte("large"), ContentType: "image/png"}, exp))
	require.NoError(t, repo.UpsertPhoto(ctx, "ref", 400, &domain.PhotoData{Data: []byte("small-v2"), ContentType: "image/jpeg"}, exp))

	small, err := repo.GetPhoto(ctx, "ref", 400)
	require.NoError(t, err)
	assert.Equal(t, []byte("small-v2"), small.Data)

	large, err := repo.GetPhoto(ctx, "ref", 800)
	require.NoError(t, err)
	assert.Equal(t, []byte("large"), large.Data)
	assert.Equal(t, "image/png", large.ContentType)

	var count int64
	require.NoError(t, repo.db.Model(&domain.PhotoCacheModel{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestPhoto_LongReferenceKeyedByDigest(t *testing.T) {
	repo, clock := newCacheRepo(t)
	ctx := context.Background()
	exp := clock.Now().Add(24 * time.Hour)

	long := strings.Repeat("A", 1000)
	sibling := long[:999] + "B"

	require.NoError(t, repo.UpsertPhoto(ctx, long, 400, &domain.PhotoData{Data: []byte("one"), ContentType: "image/jpeg"}, exp))
	require.NoError(t, repo.UpsertPhoto(ctx, sibling, 400, &domain.PhotoData{Data: []byte("two"), ContentType: "image/jpeg"}, exp))

	got, err := repo.GetPhoto(ctx, long, 400)
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), got.Data)

	got, err = repo.GetPhoto(ctx, sibling, 400)
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), got.Data)

	var model domain.PhotoCacheModel
	require.NoError(t, repo.db.Where("photo_reference = ?", long).First(&model).Error)
	assert.Equal(t, domain.PhotoReferenceHash(long), model.ReferenceHash)
	assert.Len(t, model.ReferenceHash, 64)
}

func TestPhoto_ExpiredRowIsDeleted(t *testing.T) {
	repo, clock := newCacheRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertPhoto(ctx, "ref", 400, &domain.PhotoData{Data: []byte("x"), ContentType: "image/jpeg"}, clock.Now().Add(time.Hour)))

	clock.Advance(time.Hour)
	_, err := repo.GetPhoto(ctx, "ref", 400)
	assert.ErrorIs(t, err, ErrNotFound)

	var count int64
	require.NoError(t, repo.db.Model(&domain.PhotoCacheModel{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteExpired(t *testing.T) {
	repo, clock := newCacheRepo(t)
	ctx := context.Background()
	now := clock.Now()

	require.NoError(t, repo.UpsertSearch(ctx, "old", nil, now.Add(-time.Minute)))
	require.NoError(t, repo.UpsertSearch(ctx, "fresh", nil, now.Add(time.Hour)))
	require.NoError(t, repo.UpsertPhoto(ctx, "old", 400, &domain.PhotoData{Data: []byte("x"), ContentType: "image/jpeg"}, now.Add(-time.Minute)))
	require.NoError(t, repo.UpsertPhoto(ctx, "fresh", 400, &domain.PhotoData{Data: []byte("x"), ContentType: "image/jpeg"}, now.Add(time.Hour)))
	require.NoError(t, repo.UpsertPlace(ctx, &domain.PlaceDetails{PlaceSummary: summary("p1", "Kept")}))

	n, err := repo.DeleteExpiredSearches(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.DeleteExpiredPhotos(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.GetSearch(ctx, "fresh")
	assert.NoError(t, err)
	_, err = repo.GetPhoto(ctx, "fresh", 400)
	assert.NoError(t, err)

	var places int64
	require.NoError(t, repo.db.Model(&domain.RestaurantModel{}).Count(&places).Error)
	assert.Equal(t, int64(1), places)
}

func TestStoreFailureIsNotNotFound(t *testing.T) {
	repo, _ := newCacheRepo(t)
	require.NoError(t, repo.db.Migrator().DropTable(&domain.SearchCacheModel{}))

	_, err := repo.GetSearch(context.Background(), "sushi")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
