package service

import (
	"context"
	"errors"

	"github.com/simonai-git/restaurant-recommendations/internal/domain"
	"github.com/simonai-git/restaurant-recommendations/internal/repository"
	"github.com/simonai-git/restaurant-recommendations/pkg/log"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type restaurantServiceImpl struct {
	repo repository.RestaurantRepository
}

// NewRestaurantService creates a new restaurant service.
func NewRestaurantService(repo repository.RestaurantRepository) RestaurantService {
	return &restaurantServiceImpl{repo: repo}
}

func (s *restaurantServiceImpl) ListRestaurants(ctx context.Context, req *domain.ListRestaurantsRequest) (*domain.ListRestaurantsResponse, error) {
	s.normalizeRequest(req)

	restaurants, total, err := s.repo.List(ctx, req.Limit, req.Offset, req.Cuisine)
	if err != nil {
		return nil, err
	}

	return &domain.ListRestaurantsResponse{
		Restaurants: restaurants,
		Pagination: domain.Pagination{
			Total:   total,
			Limit:   req.Limit,
			Offset:  req.Offset,
			HasMore: req.Offset+len(restaurants) < total,
		},
	}, nil
}

func (s *restaurantServiceImpl) CreateRestaurant(ctx context.Context, req *domain.CreateRestaurantRequest) (*domain.Restaurant, error) {
	l := log.Ctx(ctx)

	restaurant, err := s.repo.Create(ctx, req)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicatePlace) {
			return nil, ErrDuplicatePlace
		}
		return nil, err
	}

	l.Info().Str(log.FieldPlaceID, restaurant.PlaceID).Msg("restaurant created")
	return restaurant, nil
}

func (s *restaurantServiceImpl) normalizeRequest(req *domain.ListRestaurantsRequest) {
	if req.Limit <= 0 {
		req.Limit = defaultLimit
	}
	if req.Limit > maxLimit {
		req.Limit = maxLimit
	}
	if req.Offset < 0 {
		req.Offset = 0
	}
}
