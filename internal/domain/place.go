package domain

import (
	"strings"
	"time"
)

// Source tags which layer answered a request.
type Source string

const (
	SourceFast       Source = "fast"
	SourcePersistent Source = "persistent"
	SourceUpstream   Source = "upstream"
)

// PlacePhoto is a photo reference attached to a place.
type PlacePhoto struct {
	PhotoReference string `json:"photoReference"`
	Height         int    `json:"height"`
	Width          int    `json:"width"`
}

// PlaceSummary is a single text search hit.
type PlaceSummary struct {
	PlaceID      string       `json:"placeId"`
	Name         string       `json:"name"`
	Address      string       `json:"address"`
	Lat          float64      `json:"lat"`
	Lng          float64      `json:"lng"`
	Rating       *float64     `json:"rating,omitempty"`
	PriceLevel   *int         `json:"priceLevel,omitempty"`
	TotalRatings *int         `json:"totalRatings,omitempty"`
	OpenNow      *bool        `json:"openNow,omitempty"`
	Photos       []PlacePhoto `json:"photos"`
	Types        []string     `json:"types,omitempty"`
}

// OpeningHours is the weekly hours block of a place.
type OpeningHours struct {
	WeekdayText []string `json:"weekdayText"`
	OpenNow     bool     `json:"openNow"`
}

// PlaceReview is a reduced user review.
type PlaceReview struct {
	AuthorName              string `json:"authorName"`
	Rating                  int    `json:"rating"`
	Text                    string `json:"text"`
	Time                    int64  `json:"time"`
	RelativeTimeDescription string `json:"relativeTimeDescription"`
}

// PlaceDetails is the full record of a single place.
type PlaceDetails struct {
	PlaceSummary
	Phone   string        `json:"phone,omitempty"`
	Website string        `json:"website,omitempty"`
	Hours   *OpeningHours `json:"hours,omitempty"`
	Reviews []PlaceReview `json:"reviews"`
}

// PhotoData is a fetched image payload.
type PhotoData struct {
	Data        []byte `json:"data"`
	ContentType string `json:"contentType"`
}

// SearchCacheEntry is a cached result set for a normalized query.
type SearchCacheEntry struct {
	Query     string
	Results   []PlaceSummary
	ExpiresAt time.Time
}

// NormalizeQuery lowercases and trims a search query so equivalent queries
// share one cache entry.
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}
