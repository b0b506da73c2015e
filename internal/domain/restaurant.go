package domain

import "time"

// Restaurant is a row of the restaurant table as exposed by the listing API.
type Restaurant struct {
	ID           uint          `json:"id"`
	PlaceID      string        `json:"placeId"`
	Name         string        `json:"name"`
	Address      string        `json:"address"`
	Lat          float64       `json:"lat"`
	Lng          float64       `json:"lng"`
	Rating       *float64      `json:"rating"`
	PriceLevel   *int          `json:"priceLevel"`
	TotalRatings *int          `json:"totalRatings"`
	OpenNow      *bool         `json:"openNow"`
	CuisineType  *string       `json:"cuisineType"`
	Types        []string      `json:"types"`
	Photos       []PlacePhoto  `json:"photos"`
	Phone        *string       `json:"phone"`
	Website      *string       `json:"website"`
	Hours        *OpeningHours `json:"hours"`
	Reviews      []PlaceReview `json:"reviews"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// CreateRestaurantRequest represents a create restaurant request.
type CreateRestaurantRequest struct {
	PlaceID     string        `json:"placeId" binding:"required,min=1"`
	Name        string        `json:"name" binding:"required,min=1"`
	Address     string        `json:"address" binding:"required"`
	Lat         *float64      `json:"lat" binding:"required"`
	Lng         *float64      `json:"lng" binding:"required"`
	Rating      *float64      `json:"rating"`
	PriceLevel  *int          `json:"priceLevel"`
	CuisineType *string       `json:"cuisineType"`
	Photos      []PlacePhoto  `json:"photos"`
	Phone       *string       `json:"phone"`
	Website     *string       `json:"website"`
	Hours       *OpeningHours `json:"hours"`
}

// ListRestaurantsRequest represents a list restaurants request.
type ListRestaurantsRequest struct {
	Limit   int    `form:"limit"`
	Offset  int    `form:"offset"`
	Cuisine string `form:"cuisine"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

// ListRestaurantsResponse is the body of the listing endpoint.
type ListRestaurantsResponse struct {
	Restaurants []Restaurant `json:"restaurants"`
	Pagination  Pagination   `json:"pagination"`
}
