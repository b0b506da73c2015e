package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/simonai-git/restaurant-recommendations/internal/domain"
	"github.com/simonai-git/restaurant-recommendations/pkg/log"
)

// GormRestaurantRepository implements RestaurantRepository using GORM.
type GormRestaurantRepository struct {
	db *gorm.DB
}

// NewGormRestaurantRepository creates a new GORM-based restaurant repository.
func NewGormRestaurantRepository(db *gorm.DB) *GormRestaurantRepository {
	return &GormRestaurantRepository{db: db}
}

// List retrieves restaurants newest first, optionally filtered by cuisine.
func (r *GormRestaurantRepository) List(ctx context.Context, limit, offset int, cuisine string) ([]domain.Restaurant, int, error) {
	l := log.Ctx(ctx)

	query := r.db.WithContext(ctx).Model(&domain.RestaurantModel{})
	if cuisine != "" {
		query = query.Where("cuisine_type = ?", cuisine)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		l.Error().Err(err).Msg("failed to count restaurants")
		return nil, 0, fmt.Errorf("failed to count restaurants: %w", err)
	}

	var models []domain.RestaurantModel
	if err := query.Order("created_at DESC").Order("id DESC").Offset(offset).Limit(limit).Find(&models).Error; err != nil {
		l.Error().Err(err).Msg("failed to list restaurants from db")
		return nil, 0, fmt.Errorf("failed to list restaurants: %w", err)
	}

	restaurants := make([]domain.Restaurant, len(models))
	for i := range models {
		restaurants[i] = *models[i].ToDomain()
	}

	return restaurants, int(total), nil
}

// Create inserts a new restaurant row.
func (r *GormRestaurantRepository) Create(ctx context.Context, req *domain.CreateRestaurantRequest) (*domain.Restaurant, error) {
	l := log.Ctx(ctx)

	model := domain.CreateRequestToModel(req)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicatePlace
		}
		l.Error().Err(err).Str(log.FieldPlaceID, req.PlaceID).Msg("failed to create restaurant in db")
		return nil, fmt.Errorf("failed to create restaurant: %w", err)
	}

	l.Debug().Str(log.FieldPlaceID, model.PlaceID).Uint("id", model.ID).Msg("restaurant created in db")
	return model.ToDomain(), nil
}
