package places

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonai-git/restaurant-recommendations/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(config.PlacesConfig{
		APIKey:    "test-key",
		BaseURL:   srv.URL,
		Latitude:  37.7749,
		Longitude: -122.4194,
		Radius:    50000,
	})
	return c, &calls
}

const searchBody = `{
  "status": "OK",
  "results": [
    {
      "place_id": "p1",
      "name": "Sushi One",
      "formatted_address": "1 Market St, San Francisco",
      "geometry": {"location": {"lat": 37.79, "lng": -122.39}},
      "rating": 4.6,
      "price_level": 3,
      "user_ratings_total": 812,
      "opening_hours": {"open_now": true},
      "photos": [
        {"photo_reference": "r1", "height": 100, "width": 200},
        {"photo_reference": "r2", "height": 100, "width": 200},
        {"photo_reference": "r3", "height": 100, "width": 200},
        {"photo_reference": "r4", "height": 100, "width": 200}
      ],
      "types": ["restaurant", "sushi_restaurant", "point_of_interest"]
    },
    {
      "place_id": "p2",
      "name": "No Geometry"
    },
    {
      "place_id": "p3",
      "name": "Corner Spot",
      "vicinity": "Corner of 3rd",
      "geometry": {"location": {"lat": 37.70, "lng": -122.40}}
    }
  ]
}`

func TestSearch_MapsResults(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/textsearch/json", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "sushi restaurant", q.Get("query"))
		assert.Equal(t, "37.7749,-122.4194", q.Get("location"))
		assert.Equal(t, "50000", q.Get("radius"))
		assert.Equal(t, "restaurant", q.Get("type"))
		assert.Equal(t, "test-key", q.Get("key"))
		w.Write([]byte(searchBody))
	})

	results, err := c.Search(context.Background(), "sushi")
	require.NoError(t, err)
	require.Len(t, results, 2)

	first := results[0]
	assert.Equal(t, "p1", first.PlaceID)
	assert.Equal(t, "Sushi One", first.Name)
	assert.Equal(t, "1 Market St, San Francisco", first.Address)
	assert.InDelta(t, 37.79, first.Lat, 1e-9)
	assert.Equal(t, 4.6, *first.Rating)
	assert.Equal(t, 3, *first.PriceLevel)
	assert.Equal(t, 812, *first.TotalRatings)
	assert.True(t, *first.OpenNow)
	require.Len(t, first.Photos, 3)
	assert.Equal(t, "r3", first.Photos[2].PhotoReference)

	second := results[1]
	assert.Equal(t, "p3", second.PlaceID)
	assert.Equal(t, "Corner of 3rd", second.Address)
	assert.Nil(t, second.Rating)
	assert.Nil(t, second.OpenNow)
	assert.Empty(t, second.Photos)
}

func TestSearch_ZeroResults(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	})

	results, err := c.Search(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_RateLimitedStatus(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OVER_QUERY_LIMIT","error_message":"quota"}`))
	})

	_, err := c.Search(context.Background(), "sushi")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRateLimited)

	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, StatusOverQueryLimit, upErr.Status)
	assert.Equal(t, "quota", upErr.Message)
}

func TestSearch_RateLimitedHTTP(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.Search(context.Background(), "sushi")
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestSearch_OtherStatusIsNotRateLimited(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"bad key"}`))
	})

	_, err := c.Search(context.Background(), "sushi")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrRateLimited))

	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, "REQUEST_DENIED", upErr.Status)
}

func TestSearch_ServerErrorAndMalformedBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err := c.Search(context.Background(), "sushi")
	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, http.StatusInternalServerError, upErr.HTTPStatus)

	c, _ = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":`))
	})
	_, err = c.Search(context.Background(), "sushi")
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, "malformed response", upErr.Message)
}

const detailsBody = `{
  "status": "OK",
  "result": {
    "place_id": "p1",
    "name": "Sushi One",
    "formatted_address": "1 Market St",
    "geometry": {"location": {"lat": 37.79, "lng": -122.39}},
    "formatted_phone_number": "(415) 555-0100",
    "website": "https://sushi.example",
    "opening_hours": {"weekday_text": ["Monday: 11AM-9PM"]},
    "reviews": [
      {"author_name": "A", "rating": 5, "text": "1", "time": 1, "relative_time_description": "a week ago"},
      {"author_name": "B", "rating": 4, "text": "2", "time": 2},
      {"author_name": "C", "rating": 3, "text": "3", "time": 3},
      {"author_name": "D", "rating": 2, "text": "4", "time": 4},
      {"author_name": "E", "rating": 1, "text": "5", "time": 5},
      {"author_name": "F", "rating": 1, "text": "6", "time": 6}
    ],
    "types": ["japanese_restaurant"]
  }
}`

func TestDetails_MapsResult(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/details/json", r.URL.Path)
		assert.Equal(t, "p1", r.URL.Query().Get("place_id"))
		assert.Equal(t, detailsFields, r.URL.Query().Get("fields"))
		w.Write([]byte(detailsBody))
	})

	d, err := c.Details(context.Background(), "p1")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "(415) 555-0100", d.Phone)
	assert.Equal(t, "https://sushi.example", d.Website)
	require.NotNil(t, d.Hours)
	assert.False(t, d.Hours.OpenNow)
	assert.Equal(t, []string{"Monday: 11AM-9PM"}, d.Hours.WeekdayText)
	require.Len(t, d.Reviews, 5)
	assert.Equal(t, "a week ago", d.Reviews[0].RelativeTimeDescription)
	assert.Equal(t, "E", d.Reviews[4].AuthorName)
	assert.Nil(t, d.OpenNow)
}

func TestDetails_NotFoundIsAbsent(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"NOT_FOUND"}`))
	})

	d, err := c.Details(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, d)
}

func TestDetails_MalformedResult(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","result":{"place_id":"p1"}}`))
	})

	_, err := c.Details(context.Background(), "p1")
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "name", parseErr.Field)
}

func TestPhoto(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/photo", r.URL.Path)
		assert.Equal(t, "ref", r.URL.Query().Get("photoreference"))
		assert.Equal(t, "800", r.URL.Query().Get("maxwidth"))
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png-bytes"))
	})

	p, err := c.Photo(context.Background(), "ref", 800)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), p.Data)
	assert.Equal(t, "image/png", p.ContentType)
}

func TestPhoto_Errors(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	_, err := c.Photo(context.Background(), "ref", 400)
	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, http.StatusBadRequest, upErr.HTTPStatus)

	c, _ = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	_, err = c.Photo(context.Background(), "ref", 400)
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestMissingCredentialSkipsNetwork(t *testing.T) {
	for _, key := range []string{"", config.PlaceholderAPIKey} {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
		}))

		c := NewClient(config.PlacesConfig{APIKey: key, BaseURL: srv.URL})
		assert.False(t, c.Enabled())

		results, err := c.Search(context.Background(), "sushi")
		assert.NoError(t, err)
		assert.Empty(t, results)

		d, err := c.Details(context.Background(), "p1")
		assert.NoError(t, err)
		assert.Nil(t, d)

		p, err := c.Photo(context.Background(), "ref", 400)
		assert.NoError(t, err)
		assert.Nil(t, p)

		assert.Zero(t, calls.Load())
		srv.Close()
	}
}
