package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"gorm.io/datatypes"
)

// SearchCacheModel is the GORM model for the search_cache table.
type SearchCacheModel struct {
	ID        uint                              `gorm:"primaryKey"`
	Query     string                            `gorm:"size:500;uniqueIndex;not null"`
	Results   datatypes.JSONSlice[PlaceSummary] `gorm:"not null"`
	ExpiresAt time.Time                         `gorm:"index;not null"`
	CreatedAt time.Time                         `gorm:"autoCreateTime"`
	UpdatedAt time.Time                         `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for SearchCacheModel.
func (SearchCacheModel) TableName() string {
	return "search_cache"
}

// ToDomain converts SearchCacheModel to a domain SearchCacheEntry.
func (m *SearchCacheModel) ToDomain() *SearchCacheEntry {
	results := []PlaceSummary(m.Results)
	if results == nil {
		results = []PlaceSummary{}
	}
	return &SearchCacheEntry{
		Query:     m.Query,
		Results:   results,
		ExpiresAt: m.ExpiresAt,
	}
}

// RestaurantModel is the GORM model for the restaurants table.
type RestaurantModel struct {
	ID           uint   `gorm:"primaryKey"`
	PlaceID      string `gorm:"size:255;uniqueIndex;not null"`
	Name         string `gorm:"size:500;not null"`
	Address      string `gorm:"size:1000;not null"`
	Lat          float64
	Lng          float64
	Rating       *float64
	PriceLevel   *int
	TotalRatings *int
	OpenNow      *bool
	CuisineType  *string                           `gorm:"size:100;index"`
	Types        datatypes.JSONSlice[string]       `gorm:"not null"`
	Photos       datatypes.JSONSlice[PlacePhoto]   `gorm:"not null"`
	Phone        *string                           `gorm:"size:100"`
	Website      *string                           `gorm:"size:1000"`
	Hours        datatypes.JSONType[*OpeningHours] `gorm:"not null"`
	Reviews      datatypes.JSONSlice[PlaceReview]  `gorm:"not null"`
	CreatedAt    time.Time                         `gorm:"autoCreateTime"`
	UpdatedAt    time.Time                         `gorm:"autoUpdateTime;index"`
}

// TableName specifies the table name for RestaurantModel.
func (RestaurantModel) TableName() string {
	return "restaurants"
}

// ToDetails converts RestaurantModel to domain PlaceDetails.
func (m *RestaurantModel) ToDetails() *PlaceDetails {
	d := &PlaceDetails{
		PlaceSummary: PlaceSummary{
			PlaceID:      m.PlaceID,
			Name:         m.Name,
			Address:      m.Address,
			Lat:          m.Lat,
			Lng:          m.Lng,
			Rating:       m.Rating,
			PriceLevel:   m.PriceLevel,
			TotalRatings: m.TotalRatings,
			OpenNow:      m.OpenNow,
			Photos:       nonNil([]PlacePhoto(m.Photos)),
			Types:        []string(m.Types),
		},
		Hours:   m.Hours.Data(),
		Reviews: nonNil([]PlaceReview(m.Reviews)),
	}
	if m.Phone != nil {
		d.Phone = *m.Phone
	}
	if m.Website != nil {
		d.Website = *m.Website
	}
	return d
}

// ToDomain converts RestaurantModel to a domain Restaurant.
func (m *RestaurantModel) ToDomain() *Restaurant {
	return &Restaurant{
		ID:           m.ID,
		PlaceID:      m.PlaceID,
		Name:         m.Name,
		Address:      m.Address,
		Lat:          m.Lat,
		Lng:          m.Lng,
		Rating:       m.Rating,
		PriceLevel:   m.PriceLevel,
		TotalRatings: m.TotalRatings,
		OpenNow:      m.OpenNow,
		CuisineType:  m.CuisineType,
		Types:        nonNil([]string(m.Types)),
		Photos:       nonNil([]PlacePhoto(m.Photos)),
		Phone:        m.Phone,
		Website:      m.Website,
		Hours:        m.Hours.Data(),
		Reviews:      nonNil([]PlaceReview(m.Reviews)),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// DetailsToModel converts domain PlaceDetails to RestaurantModel.
func DetailsToModel(d *PlaceDetails) *RestaurantModel {
	return &RestaurantModel{
		PlaceID:      d.PlaceID,
		Name:         d.Name,
		Address:      d.Address,
		Lat:          d.Lat,
		Lng:          d.Lng,
		Rating:       d.Rating,
		PriceLevel:   d.PriceLevel,
		TotalRatings: d.TotalRatings,
		OpenNow:      d.OpenNow,
		CuisineType:  CuisinePtr(d.Types),
		Types:        datatypes.NewJSONSlice(nonNil(d.Types)),
		Photos:       datatypes.NewJSONSlice(nonNil(d.Photos)),
		Phone:        optional(d.Phone),
		Website:      optional(d.Website),
		Hours:        datatypes.NewJSONType(d.Hours),
		Reviews:      datatypes.NewJSONSlice(nonNil(d.Reviews)),
	}
}

// CreateRequestToModel converts a create request to RestaurantModel.
func CreateRequestToModel(req *CreateRestaurantRequest) *RestaurantModel {
	return &RestaurantModel{
		PlaceID:     req.PlaceID,
		Name:        req.Name,
		Address:     req.Address,
		Lat:         *req.Lat,
		Lng:         *req.Lng,
		Rating:      req.Rating,
		PriceLevel:  req.PriceLevel,
		CuisineType: req.CuisineType,
		Types:       datatypes.NewJSONSlice([]string{}),
		Photos:      datatypes.NewJSONSlice(nonNil(req.Photos)),
		Phone:       req.Phone,
		Website:     req.Website,
		Hours:       datatypes.NewJSONType(req.Hours),
		Reviews:     datatypes.NewJSONSlice([]PlaceReview{}),
	}
}

// PhotoCacheModel is the GORM model for the photo_cache table.
type PhotoCacheModel struct {
	ID             uint      `gorm:"primaryKey"`
	ReferenceHash  string    `gorm:"type:char(64);not null;uniqueIndex:idx_photo_ref_width"`
	PhotoReference string    `gorm:"size:1000;not null"`
	MaxWidth       int       `gorm:"not null;uniqueIndex:idx_photo_ref_width"`
	ImageData      []byte    `gorm:"not null"`
	ContentType    string    `gorm:"size:100;not null"`
	ExpiresAt      time.Time `gorm:"index;not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for PhotoCacheModel.
func (PhotoCacheModel) TableName() string {
	return "photo_cache"
}

// PhotoReferenceHash returns the hex sha256 of ref. Provider references run
// to several hundred characters, so the unique key is built on the digest.
func PhotoReferenceHash(ref string) string {
	sum := sha256.Sum256([]byte(ref))
	return hex.EncodeToString(sum[:])
}

// ToDomain converts PhotoCacheModel to domain PhotoData.
func (m *PhotoCacheModel) ToDomain() *PhotoData {
	return &PhotoData{Data: m.ImageData, ContentType: m.ContentType}
}

// Models lists every persistent model for auto-migration.
func Models() []interface{} {
	return []interface{}{&SearchCacheModel{}, &RestaurantModel{}, &PhotoCacheModel{}}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
