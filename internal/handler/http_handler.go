package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simonai-git/restaurant-recommendations/internal/cache"
	"github.com/simonai-git/restaurant-recommendations/internal/domain"
	"github.com/simonai-git/restaurant-recommendations/internal/service"
	"github.com/simonai-git/restaurant-recommendations/pkg/log"
	"github.com/simonai-git/restaurant-recommendations/pkg/middleware"
	"github.com/simonai-git/restaurant-recommendations/pkg/response"
)

const (
	defaultPhotoWidth = 400
	maxPhotoWidth     = 1600
	maxQueryLength    = 500

	photoCacheControl = "public, max-age=86400"
	msgRateLimited    = "API rate limit exceeded. Please try again later."
)

// Handler handles HTTP requests for the restaurant service.
type Handler struct {
	placesService     service.PlacesService
	restaurantService service.RestaurantService
	fastStore         cache.FastStore
	apiKey            *middleware.APIKeyMiddleware
}

// NewHandler creates a new HTTP handler.
func NewHandler(
	placesService service.PlacesService,
	restaurantService service.RestaurantService,
	fastStore cache.FastStore,
	apiKey *middleware.APIKeyMiddleware,
) *Handler {
	return &Handler{
		placesService:     placesService,
		restaurantService: restaurantService,
		fastStore:         fastStore,
		apiKey:            apiKey,
	}
}

// RegisterRoutes registers all routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	api := r.Group("/api")
	{
		api.GET("/search", h.Search)
		api.GET("/photos/:photoReference", h.GetPhoto)

		restaurants := api.Group("/restaurants")
		{
			restaurants.GET("", h.ListRestaurants)
			restaurants.GET("/:placeId", h.GetRestaurant)

			// Protected when an API key is configured
			restaurants.POST("", h.apiKey.RequireAPIKey(), h.CreateRestaurant)
		}
	}
}

// Search finds restaurants matching the q parameter.
func (h *Handler) Search(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		response.BadRequest(c, "Missing required parameter: q")
		return
	}
	if len(query) > maxQueryLength {
		response.BadRequest(c, "Parameter q is too long")
		return
	}

	result, err := h.placesService.SearchRestaurants(ctx, query)
	if err != nil {
		if errors.Is(err, service.ErrRateLimited) {
			response.TooManyRequests(c, msgRateLimited)
			return
		}
		l.Error().Err(err).Str(log.FieldQuery, query).Msg("failed to search restaurants")
		response.InternalError(c, "Failed to search restaurants")
		return
	}

	response.OK(c, domain.NewSearchResponse(result))
}

// GetRestaurant returns the details of a single place.
func (h *Handler) GetRestaurant(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	placeID := strings.TrimSpace(c.Param("placeId"))
	if placeID == "" {
		response.BadRequest(c, "Missing place ID")
		return
	}

	result, err := h.placesService.GetRestaurant(ctx, placeID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRestaurantNotFound):
			response.NotFound(c, "Restaurant not found")
		case errors.Is(err, service.ErrRateLimited):
			response.TooManyRequests(c, msgRateLimited)
		default:
			l.Error().Err(err).Str(log.FieldPlaceID, placeID).Msg("failed to get restaurant details")
			response.InternalError(c, "Failed to get restaurant details")
		}
		return
	}

	response.OK(c, domain.NewDetailsResponse(result))
}

// GetPhoto streams a place photo at the requested width.
func (h *Handler) GetPhoto(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	ref := strings.TrimSpace(c.Param("photoReference"))
	if ref == "" {
		response.BadRequest(c, "Missing photo reference")
		return
	}

	maxWidth := defaultPhotoWidth
	if raw := c.Query("maxWidth"); raw != "" {
		w, err := strconv.Atoi(raw)
		if err != nil || w < 1 || w > maxPhotoWidth {
			response.BadRequest(c, "maxWidth must be an integer between 1 and 1600")
			return
		}
		maxWidth = w
	}

	result, err := h.placesService.GetPhoto(ctx, ref, maxWidth)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPhotoNotFound):
			response.NotFound(c, "Photo not found or API key not configured")
		case errors.Is(err, service.ErrRateLimited):
			response.TooManyRequests(c, msgRateLimited)
		default:
			l.Error().Err(err).Str(log.FieldPhotoReference, ref).Msg("failed to fetch photo")
			response.InternalError(c, "Failed to fetch photo")
		}
		return
	}

	xCache := "MISS"
	if result.Hit() {
		xCache = "HIT"
	}
	response.Binary(c, result.Photo.ContentType, result.Photo.Data, map[string]string{
		"Cache-Control": photoCacheControl,
		"X-Cache":       xCache,
	})
}

// ListRestaurants lists rows of the restaurant table.
func (h *Handler) ListRestaurants(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.ListRestaurantsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.restaurantService.ListRestaurants(ctx, &req)
	if err != nil {
		l.Error().Err(err).Msg("failed to list restaurants")
		response.InternalError(c, "Failed to fetch restaurants")
		return
	}

	response.OK(c, result)
}

// CreateRestaurant inserts a restaurant row.
func (h *Handler) CreateRestaurant(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.CreateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("failed to bind create restaurant request")
		response.BadRequest(c, err.Error())
		return
	}

	restaurant, err := h.restaurantService.CreateRestaurant(ctx, &req)
	if err != nil {
		if errors.Is(err, service.ErrDuplicatePlace) {
			response.Conflict(c, "Restaurant already exists")
			return
		}
		l.Error().Err(err).Str(log.FieldPlaceID, req.PlaceID).Msg("failed to create restaurant")
		response.InternalError(c, "Failed to create restaurant")
		return
	}

	response.Created(c, restaurant)
}

// Health reports service liveness and fast store state.
func (h *Handler) Health(c *gin.Context) {
	fast := "disabled"
	switch {
	case h.fastStore.Healthy():
		fast = "connected"
	case !isNoOp(h.fastStore):
		fast = "unavailable"
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "fastStore": fast})
}

func isNoOp(s cache.FastStore) bool {
	switch s.(type) {
	case *cache.NoOpFastStore, cache.NoOpFastStore:
		return true
	}
	return false
}
