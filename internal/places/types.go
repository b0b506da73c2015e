package places

// Raw provider payloads. Optional fields are pointers so absence can be told
// apart from zero.

type rawLocation struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type rawGeometry struct {
	Location *rawLocation `json:"location"`
}

type rawPhoto struct {
	PhotoReference string `json:"photo_reference"`
	Height         int    `json:"height"`
	Width          int    `json:"width"`
}

type rawOpeningHours struct {
	OpenNow     *bool    `json:"open_now"`
	WeekdayText []string `json:"weekday_text"`
}

type rawReview struct {
	AuthorName              string `json:"author_name"`
	Rating                  int    `json:"rating"`
	Text                    string `json:"text"`
	Time                    int64  `json:"time"`
	RelativeTimeDescription string `json:"relative_time_description"`
}

type rawPlace struct {
	PlaceID              *string          `json:"place_id"`
	Name                 *string          `json:"name"`
	FormattedAddress     *string          `json:"formatted_address"`
	Vicinity             *string          `json:"vicinity"`
	Geometry             *rawGeometry     `json:"geometry"`
	Rating               *float64         `json:"rating"`
	PriceLevel           *int             `json:"price_level"`
	UserRatingsTotal     *int             `json:"user_ratings_total"`
	OpeningHours         *rawOpeningHours `json:"opening_hours"`
	Photos               []rawPhoto       `json:"photos"`
	Types                []string         `json:"types"`
	FormattedPhoneNumber *string          `json:"formatted_phone_number"`
	Website              *string          `json:"website"`
	Reviews              []rawReview      `json:"reviews"`
}

type textSearchResponse struct {
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message"`
	Results      []rawPlace `json:"results"`
}

type detailsResponse struct {
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message"`
	Result       *rawPlace `json:"result"`
}
