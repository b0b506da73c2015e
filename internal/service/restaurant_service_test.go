package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonai-git/restaurant-recommendations/internal/domain"
	"github.com/simonai-git/restaurant-recommendations/internal/repository"
	"github.com/simonai-git/restaurant-recommendations/internal/testutil"
)

func newRestaurantService(t *testing.T) RestaurantService {
	t.Helper()
	return NewRestaurantService(repository.NewGormRestaurantRepository(testutil.NewDB(t)))
}

func createRestaurant(t *testing.T, svc RestaurantService, placeID, cuisine string) {
	t.Helper()
	_, err := svc.CreateRestaurant(context.Background(), &domain.CreateRestaurantRequest{
		PlaceID:     placeID,
		Name:        "Restaurant " + placeID,
		Address:     "1 Main St",
		Lat:         ptr(37.7),
		Lng:         ptr(-122.4),
		CuisineType: ptr(cuisine),
	})
	require.NoError(t, err)
}

func TestListRestaurants_Pagination(t *testing.T) {
	svc := newRestaurantService(t)
	for i := 0; i < 3; i++ {
		createRestaurant(t, svc, fmt.Sprintf("p%d", i), "thai")
	}
	createRestaurant(t, svc, "p9", "korean")

	resp, err := svc.ListRestaurants(context.Background(), &domain.ListRestaurantsRequest{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, resp.Restaurants, 2)
	assert.Equal(t, domain.Pagination{Total: 4, Limit: 2, Offset: 0, HasMore: true}, resp.Pagination)

	resp, err = svc.ListRestaurants(context.Background(), &domain.ListRestaurantsRequest{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, resp.Restaurants, 2)
	assert.False(t, resp.Pagination.HasMore)

	resp, err = svc.ListRestaurants(context.Background(), &domain.ListRestaurantsRequest{Cuisine: "thai"})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Pagination.Total)
	assert.Equal(t, defaultLimit, resp.Pagination.Limit)
}

func TestListRestaurants_ClampsLimit(t *testing.T) {
	svc := newRestaurantService(t)

	resp, err := svc.ListRestaurants(context.Background(), &domain.ListRestaurantsRequest{Limit: 1000, Offset: -5})
	require.NoError(t, err)
	assert.Equal(t, maxLimit, resp.Pagination.Limit)
	assert.Equal(t, 0, resp.Pagination.Offset)
	assert.NotNil(t, resp.Restaurants)
}

func TestCreateRestaurant_Duplicate(t *testing.T) {
	svc := newRestaurantService(t)
	createRestaurant(t, svc, "p1", "thai")

	_, err := svc.CreateRestaurant(context.Background(), &domain.CreateRestaurantRequest{
		PlaceID: "p1", Name: "Again", Address: "x", Lat: ptr(1.0), Lng: ptr(2.0),
	})
	assert.ErrorIs(t, err, ErrDuplicatePlace)
}
