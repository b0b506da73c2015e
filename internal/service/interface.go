package service

import (
	"context"
	"errors"

	"github.com/simonai-git/restaurant-recommendations/internal/domain"
	"github.com/simonai-git/restaurant-recommendations/internal/places"
)

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrPhotoNotFound      = errors.New("photo not found")
	ErrRateLimited        = places.ErrRateLimited
	ErrDuplicatePlace     = errors.New("restaurant already exists")
)

// PlacesClient is the upstream provider used on a cache miss. Absent
// results are returned as nil with a nil error.
type PlacesClient interface {
	Search(ctx context.Context, query string) ([]domain.PlaceSummary, error)
	Details(ctx context.Context, placeID string) (*domain.PlaceDetails, error)
	Photo(ctx context.Context, ref string, maxWidth int) (*domain.PhotoData, error)
}

// PlacesService answers search, details and photo requests from the fast
// store, then the persistent store, then the upstream provider.
type PlacesService interface {
	SearchRestaurants(ctx context.Context, query string) (*domain.SearchResult, error)
	GetRestaurant(ctx context.Context, placeID string) (*domain.DetailsResult, error)
	GetPhoto(ctx context.Context, ref string, maxWidth int) (*domain.PhotoResult, error)
}

// RestaurantService defines the interface for the restaurant table CRUD.
type RestaurantService interface {
	ListRestaurants(ctx context.Context, req *domain.ListRestaurantsRequest) (*domain.ListRestaurantsResponse, error)
	CreateRestaurant(ctx context.Context, req *domain.CreateRestaurantRequest) (*domain.Restaurant, error)
}
