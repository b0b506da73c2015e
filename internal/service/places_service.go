package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/simonai-git/restaurant-recommendations/internal/cache"
	"github.com/simonai-git/restaurant-recommendations/internal/config"
	"github.com/simonai-git/restaurant-recommendations/internal/domain"
	"github.com/simonai-git/restaurant-recommendations/internal/metrics"
	"github.com/simonai-git/restaurant-recommendations/internal/repository"
	"github.com/simonai-git/restaurant-recommendations/pkg/log"
)

const (
	resourceSearch = "search"
	resourcePlace  = "place"
	resourcePhoto  = "photo"

	tierFast       = "fast"
	tierPersistent = "persistent"
)

type placesServiceImpl struct {
	fast     cache.FastStore
	repo     repository.CacheRepository
	upstream PlacesClient
	ttl      config.CacheConfig
	now      func() time.Time
}

// NewPlacesService creates a new places service.
func NewPlacesService(fast cache.FastStore, repo repository.CacheRepository, upstream PlacesClient, ttl config.CacheConfig) PlacesService {
	return &placesServiceImpl{
		fast:     fast,
		repo:     repo,
		upstream: upstream,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *placesServiceImpl) SearchRestaurants(ctx context.Context, query string) (*domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	key := domain.NormalizeQuery(query)
	fastKey := cache.SearchKey(key)
	l := log.Ctx(ctx).With().Str(log.FieldResource, resourceSearch).Str(log.FieldQuery, key).Logger()

	if results, ok := cache.GetJSON[[]domain.PlaceSummary](ctx, s.fast, fastKey); ok {
		return s.searchHit(&l, results, domain.SourceFast, query), nil
	}

	entry, err := s.repo.GetSearch(ctx, key)
	switch {
	case err == nil:
		s.setFast(log.Detach(ctx), resourceSearch, fastKey, entry.Results, s.ttl.SearchFastTTL)
		return s.searchHit(&l, entry.Results, domain.SourcePersistent, query), nil
	case !errors.Is(err, repository.ErrNotFound):
		l.Warn().Err(err).Str(log.FieldTier, tierPersistent).Msg("persistent store read failed, treating as miss")
	}

	results, err := s.upstream.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search upstream: %w", err)
	}
	if results == nil {
		results = []domain.PlaceSummary{}
	}

	if len(results) > 0 {
		writeCtx := log.Detach(ctx)
		if err := s.repo.UpsertSearch(writeCtx, key, results, s.now().Add(s.ttl.SearchPersistentTTL)); err != nil {
			metrics.CacheWriteFailure(resourceSearch, tierPersistent)
			l.Error().Err(err).Str(log.FieldTier, tierPersistent).Msg("failed to persist search results")
		}
		s.setFast(writeCtx, resourceSearch, fastKey, results, s.ttl.SearchFastTTL)
	}

	return s.searchHit(&l, results, domain.SourceUpstream, query), nil
}

func (s *placesServiceImpl) searchHit(l *zerolog.Logger, results []domain.PlaceSummary, source domain.Source, query string) *domain.SearchResult {
	metrics.CacheLookup(resourceSearch, string(source))
	l.Debug().Str(log.FieldSource, string(source)).Int("count", len(results)).Msg("search served")
	return &domain.SearchResult{Restaurants: results, Source: source, Query: query}
}

func (s *placesServiceImpl) GetRestaurant(ctx context.Context, placeID string) (*domain.DetailsResult, error) {
	fastKey := cache.PlaceKey(placeID)
	l := log.Ctx(ctx).With().Str(log.FieldResource, resourcePlace).Str(log.FieldPlaceID, placeID).Logger()

	if details, ok := cache.GetJSON[*domain.PlaceDetails](ctx, s.fast, fastKey); ok && details != nil {
		return s.detailsHit(&l, details, domain.SourceFast), nil
	}

	details, err := s.repo.GetPlace(ctx, placeID, s.ttl.PlaceFreshness)
	switch {
	case err == nil:
		s.setFast(log.Detach(ctx), resourcePlace, fastKey, details, s.ttl.PlaceFastTTL)
		return s.detailsHit(&l, details, domain.SourcePersistent), nil
	case !errors.Is(err, repository.ErrNotFound):
		l.Warn().Err(err).Str(log.FieldTier, tierPersistent).Msg("persistent store read failed, treating as miss")
	}

	details, err = s.upstream.Details(ctx, placeID)
	if err != nil {
		return nil, fmt.Errorf("details upstream: %w", err)
	}
	if details == nil {
		metrics.CacheLookup(resourcePlace, "absent")
		return nil, ErrRestaurantNotFound
	}

	writeCtx := log.Detach(ctx)
	if err := s.repo.UpsertPlace(writeCtx, details); err != nil {
		metrics.CacheWriteFailure(resourcePlace, tierPersistent)
		l.Error().Err(err).Str(log.FieldTier, tierPersistent).Msg("failed to persist place details")
	}
	s.setFast(writeCtx, resourcePlace, fastKey, details, s.ttl.PlaceFastTTL)

	return s.detailsHit(&l, details, domain.SourceUpstream), nil
}

func (s *placesServiceImpl) detailsHit(l *zerolog.Logger, details *domain.PlaceDetails, source domain.Source) *domain.DetailsResult {
	metrics.CacheLookup(resourcePlace, string(source))
	l.Debug().Str(log.FieldSource, string(source)).Msg("place details served")
	return &domain.DetailsResult{Restaurant: details, Source: source}
}

func (s *placesServiceImpl) GetPhoto(ctx context.Context, ref string, maxWidth int) (*domain.PhotoResult, error) {
	fastKey := cache.PhotoKey(ref, maxWidth)
	l := log.Ctx(ctx).With().
		Str(log.FieldResource, resourcePhoto).
		Str(log.FieldPhotoReference, ref).
		Int("max_width", maxWidth).
		Logger()

	if photo, ok := cache.GetJSON[*domain.PhotoData](ctx, s.fast, fastKey); ok && photo != nil {
		return s.photoHit(&l, photo, domain.SourceFast), nil
	}

	photo, err := s.repo.GetPhoto(ctx, ref, maxWidth)
	switch {
	case err == nil:
		s.setFast(log.Detach(ctx), resourcePhoto, fastKey, photo, s.ttl.PhotoFastTTL)
		return s.photoHit(&l, photo, domain.SourcePersistent), nil
	case !errors.Is(err, repository.ErrNotFound):
		l.Warn().Err(err).Str(log.FieldTier, tierPersistent).Msg("persistent store read failed, treating as miss")
	}

	photo, err = s.upstream.Photo(ctx, ref, maxWidth)
	if err != nil {
		return nil, fmt.Errorf("photo upstream: %w", err)
	}
	if photo == nil {
		metrics.CacheLookup(resourcePhoto, "absent")
		return nil, ErrPhotoNotFound
	}

	writeCtx := log.Detach(ctx)
	if err := s.repo.UpsertPhoto(writeCtx, ref, maxWidth, photo, s.now().Add(s.ttl.PhotoPersistentTTL)); err != nil {
		metrics.CacheWriteFailure(resourcePhoto, tierPersistent)
		l.Error().Err(err).Str(log.FieldTier, tierPersistent).Msg("failed to persist photo")
	}
	s.setFast(writeCtx, resourcePhoto, fastKey, photo, s.ttl.PhotoFastTTL)

	return s.photoHit(&l, photo, domain.SourceUpstream), nil
}

func (s *placesServiceImpl) photoHit(l *zerolog.Logger, photo *domain.PhotoData, source domain.Source) *domain.PhotoResult {
	metrics.CacheLookup(resourcePhoto, string(source))
	l.Debug().Str(log.FieldSource, string(source)).Int("bytes", len(photo.Data)).Msg("photo served")
	return &domain.PhotoResult{Photo: photo, Source: source}
}

// setFast writes to the fast store. Failures are only counted while the
// store reports itself healthy, so a disabled fast tier stays quiet.
func (s *placesServiceImpl) setFast(ctx context.Context, resource, key string, v any, ttl time.Duration) {
	if !cache.SetJSON(ctx, s.fast, key, v, ttl) && s.fast.Healthy() {
		metrics.CacheWriteFailure(resource, tierFast)
	}
}
