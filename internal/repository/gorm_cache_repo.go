package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/simonai-git/restaurant-recommendations/internal/domain"
	"github.com/simonai-git/restaurant-recommendations/pkg/log"
)

// GormCacheRepository implements CacheRepository using GORM.
type GormCacheRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormCacheRepository creates a new GORM-based cache repository.
func NewGormCacheRepository(db *gorm.DB, opts ...Option) *GormCacheRepository {
	o := buildOptions(opts)
	return &GormCacheRepository{db: db, now: o.now}
}

// GetSearch returns the cached results for a normalized query. An expired
// row is deleted and reported as not found.
func (r *GormCacheRepository) GetSearch(ctx context.Context, query string) (*domain.SearchCacheEntry, error) {
	l := log.Ctx(ctx)

	var model domain.SearchCacheModel
	if err := r.db.WithContext(ctx).First(&model, "query = ?", query).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get search cache: %w", err)
	}

	if !r.now().Before(model.ExpiresAt) {
		if err := r.db.WithContext(ctx).Delete(&domain.SearchCacheModel{}, model.ID).Error; err != nil {
			l.Warn().Err(err).Str(log.FieldQuery, query).Msg("failed to delete expired search cache")
		}
		return nil, ErrNotFound
	}

	return model.ToDomain(), nil
}

// UpsertSearch inserts or replaces the results for a normalized query.
func (r *GormCacheRepository) UpsertSearch(ctx context.Context, query string, results []domain.PlaceSummary, expiresAt time.Time) error {
	now := r.now().UTC()
	model := &domain.SearchCacheModel{
		Query:     query,
		Results:   datatypes.NewJSONSlice(results),
		ExpiresAt: expiresAt.UTC(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "query"}},
		DoUpdates: clause.AssignmentColumns([]string{"results", "expires_at", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert search cache: %w", err)
	}
	return nil
}

// GetPlace returns the place details for placeID if they were refreshed
// within the freshness window. Stale rows are kept but reported as not found.
func (r *GormCacheRepository) GetPlace(ctx context.Context, placeID string, freshness time.Duration) (*domain.PlaceDetails, error) {
	var model domain.RestaurantModel
	if err := r.db.WithContext(ctx).First(&model, "place_id = ?", placeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get place: %w", err)
	}

	if r.now().Sub(model.UpdatedAt) > freshness {
		return nil, ErrNotFound
	}

	return model.ToDetails(), nil
}

// UpsertPlace inserts or refreshes the row for details.PlaceID.
func (r *GormCacheRepository) UpsertPlace(ctx context.Context, details *domain.PlaceDetails) error {
	now := r.now().UTC()
	model := domain.DetailsToModel(details)
	model.CreatedAt = now
	model.UpdatedAt = now

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "place_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "address", "lat", "lng", "rating", "price_level", "total_ratings",
			"open_now", "cuisine_type", "types", "photos", "phone", "website", "hours",
			"reviews", "updated_at",
		}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert place: %w", err)
	}
	return nil
}

// GetPhoto returns the cached image for (ref, maxWidth). An expired row is
// deleted and reported as not found.
func (r *GormCacheRepository) GetPhoto(ctx context.Context, ref string, maxWidth int) (*domain.PhotoData, error) {
	l := log.Ctx(ctx)

	var model domain.PhotoCacheModel
	err := r.db.WithContext(ctx).
		Where("reference_hash = ? AND max_width = ?", domain.PhotoReferenceHash(ref), maxWidth).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get photo cache: %w", err)
	}

	if !r.now().Before(model.ExpiresAt) {
		if err := r.db.WithContext(ctx).Delete(&domain.PhotoCacheModel{}, model.ID).Error; err != nil {
			l.Warn().Err(err).Str(log.FieldPhotoReference, ref).Msg("failed to delete expired photo cache")
		}
		return nil, ErrNotFound
	}

	return model.ToDomain(), nil
}

// UpsertPhoto inserts or replaces the image for (ref, maxWidth).
func (r *GormCacheRepository) UpsertPhoto(ctx context.Context, ref string, maxWidth int, photo *domain.PhotoData, expiresAt time.Time) error {
	now := r.now().UTC()
	model := &domain.PhotoCacheModel{
		ReferenceHash:  domain.PhotoReferenceHash(ref),
		PhotoReference: ref,
		MaxWidth:       maxWidth,
		ImageData:      photo.Data,
		ContentType:    photo.ContentType,
		ExpiresAt:      expiresAt.UTC(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "reference_hash"}, {Name: "max_width"}},
		DoUpdates: clause.AssignmentColumns([]string{"photo_reference", "image_data", "content_type", "expires_at", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert photo cache: %w", err)
	}
	return nil
}

// DeleteExpiredSearches removes every search row expired at now.
func (r *GormCacheRepository) DeleteExpiredSearches(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at <= ?", now.UTC()).Delete(&domain.SearchCacheModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired searches: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteExpiredPhotos removes every photo row expired at now.
func (r *GormCacheRepository) DeleteExpiredPhotos(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at <= ?", now.UTC()).Delete(&domain.PhotoCacheModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired photos: %w", result.Error)
	}
	return result.RowsAffected, nil
}
