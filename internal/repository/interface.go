package repository

import (
	"context"
	"errors"
	"time"

	"github.com/simonai-git/restaurant-recommendations/internal/domain"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicatePlace = errors.New("restaurant with this place id already exists")
)

// CacheRepository is the persistent tier for search results, place details
// and photos. Expired or stale records are reported as ErrNotFound; any
// other error means the store itself failed.
type CacheRepository interface {
	GetSearch(ctx context.Context, query string) (*domain.SearchCacheEntry, error)
	UpsertSearch(ctx context.Context, query string, results []domain.PlaceSummary, expiresAt time.Time) error
	GetPlace(ctx context.Context, placeID string, freshness time.Duration) (*domain.PlaceDetails, error)
	UpsertPlace(ctx context.Context, details *domain.PlaceDetails) error
	GetPhoto(ctx context.Context, ref string, maxWidth int) (*domain.PhotoData, error)
	UpsertPhoto(ctx context.Context, ref string, maxWidth int, photo *domain.PhotoData, expiresAt time.Time) error
	DeleteExpiredSearches(ctx context.Context, now time.Time) (int64, error)
	DeleteExpiredPhotos(ctx context.Context, now time.Time) (int64, error)
}

// RestaurantRepository serves the restaurant listing and creation endpoints.
type RestaurantRepository interface {
	List(ctx context.Context, limit, offset int, cuisine string) ([]domain.Restaurant, int, error)
	Create(ctx context.Context, req *domain.CreateRestaurantRequest) (*domain.Restaurant, error)
}

// Option configures a GORM repository.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
