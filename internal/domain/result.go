package domain

// SearchResult is the outcome of a restaurant search.
type SearchResult struct {
	Restaurants []PlaceSummary
	Source      Source
	Query       string
}

// DetailsResult is the outcome of a place details lookup.
type DetailsResult struct {
	Restaurant *PlaceDetails
	Source     Source
}

// PhotoResult is the outcome of a photo lookup.
type PhotoResult struct {
	Photo  *PhotoData
	Source Source
}

// Hit reports whether the photo came from either cache tier.
func (r *PhotoResult) Hit() bool {
	return r.Source != SourceUpstream
}

// SearchRestaurant is a search hit as returned to clients.
type SearchRestaurant struct {
	PlaceSummary
	CuisineType *string `json:"cuisineType"`
}

// RestaurantDetail is a place details record as returned to clients.
type RestaurantDetail struct {
	PlaceDetails
	CuisineType *string `json:"cuisineType"`
}

// SearchResponse is the body of the search endpoint.
type SearchResponse struct {
	Restaurants []SearchRestaurant `json:"restaurants"`
	Source      Source             `json:"source"`
	Query       string             `json:"query"`
}

// DetailsResponse is the body of the place details endpoint.
type DetailsResponse struct {
	Restaurant RestaurantDetail `json:"restaurant"`
	Source     Source           `json:"source"`
}

// NewSearchResponse decorates each hit with its cuisine type.
func NewSearchResponse(r *SearchResult) SearchResponse {
	items := make([]SearchRestaurant, len(r.Restaurants))
	for i, p := range r.Restaurants {
		items[i] = SearchRestaurant{PlaceSummary: p, CuisineType: CuisinePtr(p.Types)}
	}
	return SearchResponse{Restaurants: items, Source: r.Source, Query: r.Query}
}

// NewDetailsResponse decorates the place with its cuisine type.
func NewDetailsResponse(r *DetailsResult) DetailsResponse {
	return DetailsResponse{
		Restaurant: RestaurantDetail{
			PlaceDetails: *r.Restaurant,
			CuisineType:  CuisinePtr(r.Restaurant.Types),
		},
		Source: r.Source,
	}
}
