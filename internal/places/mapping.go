package places

import "github.com/simonai-git/restaurant-recommendations/internal/domain"

const (
	maxPhotos  = 3
	maxReviews = 5
)

func mapPlace(p *rawPlace) (domain.PlaceSummary, error) {
	if p.PlaceID == nil || *p.PlaceID == "" {
		return domain.PlaceSummary{}, &ParseError{Field: "place_id"}
	}
	id := *p.PlaceID
	if p.Name == nil || *p.Name == "" {
		return domain.PlaceSummary{}, &ParseError{Field: "name", PlaceID: id}
	}
	if p.Geometry == nil || p.Geometry.Location == nil ||
		p.Geometry.Location.Lat == nil || p.Geometry.Location.Lng == nil {
		return domain.PlaceSummary{}, &ParseError{Field: "geometry.location", PlaceID: id}
	}

	s := domain.PlaceSummary{
		PlaceID:      id,
		Name:         *p.Name,
		Lat:          *p.Geometry.Location.Lat,
		Lng:          *p.Geometry.Location.Lng,
		Rating:       p.Rating,
		PriceLevel:   p.PriceLevel,
		TotalRatings: p.UserRatingsTotal,
		Photos:       mapPhotos(p.Photos),
		Types:        p.Types,
	}
	switch {
	case p.FormattedAddress != nil:
		s.Address = *p.FormattedAddress
	case p.Vicinity != nil:
		s.Address = *p.Vicinity
	}
	if p.OpeningHours != nil {
		s.OpenNow = p.OpeningHours.OpenNow
	}
	return s, nil
}

func mapPhotos(raw []rawPhoto) []domain.PlacePhoto {
	photos := make([]domain.PlacePhoto, 0, min(len(raw), maxPhotos))
	for _, p := range raw {
		if len(photos) == maxPhotos {
			break
		}
		if p.PhotoReference == "" {
			continue
		}
		photos = append(photos, domain.PlacePhoto{
			PhotoReference: p.PhotoReference,
			Height:         p.Height,
			Width:          p.Width,
		})
	}
	return photos
}

func mapDetails(p *rawPlace) (*domain.PlaceDetails, error) {
	summary, err := mapPlace(p)
	if err != nil {
		return nil, err
	}

	d := &domain.PlaceDetails{
		PlaceSummary: summary,
		Reviews:      make([]domain.PlaceReview, 0, min(len(p.Reviews), maxReviews)),
	}
	if p.FormattedPhoneNumber != nil {
		d.Phone = *p.FormattedPhoneNumber
	}
	if p.Website != nil {
		d.Website = *p.Website
	}
	if h := p.OpeningHours; h != nil {
		hours := &domain.OpeningHours{WeekdayText: h.WeekdayText}
		if hours.WeekdayText == nil {
			hours.WeekdayText = []string{}
		}
		if h.OpenNow != nil {
			hours.OpenNow = *h.OpenNow
		}
		d.Hours = hours
	}
	for i, r := range p.Reviews {
		if i == maxReviews {
			break
		}
		d.Reviews = append(d.Reviews, domain.PlaceReview{
			AuthorName:              r.AuthorName,
			Rating:                  r.Rating,
			Text:                    r.Text,
			Time:                    r.Time,
			RelativeTimeDescription: r.RelativeTimeDescription,
		})
	}
	return d, nil
}
