package places

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/simonai-git/restaurant-recommendations/internal/config"
	"github.com/simonai-git/restaurant-recommendations/internal/domain"
	"github.com/simonai-git/restaurant-recommendations/internal/metrics"
	"github.com/simonai-git/restaurant-recommendations/pkg/log"
)

const (
	opSearch  = "search"
	opDetails = "details"
	opPhoto   = "photo"

	defaultContentType = "image/jpeg"
	maxPhotoBytes      = 10 << 20
	maxErrorBodyBytes  = 512
)

var detailsFields = strings.Join([]string{
	"place_id",
	"name",
	"formatted_address",
	"geometry",
	"rating",
	"user_ratings_total",
	"price_level",
	"opening_hours",
	"photos",
	"formatted_phone_number",
	"website",
	"reviews",
	"types",
}, ",")

// Client talks to the Places web service.
type Client struct {
	baseURL    string
	apiKey     string
	location   string
	radius     string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a Places client. When no usable API key is configured
// every call returns an absent result without touching the network.
func NewClient(cfg config.PlacesConfig, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		location:   strconv.FormatFloat(cfg.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(cfg.Longitude, 'f', -1, 64),
		radius:     strconv.Itoa(cfg.Radius),
		httpClient: &http.Client{Timeout: timeout},
	}
	if cfg.HasCredential() {
		c.apiKey = cfg.APIKey
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether a usable API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// Search runs a text search for restaurants matching query near the
// configured location.
func (c *Client) Search(ctx context.Context, query string) ([]domain.PlaceSummary, error) {
	l := log.Ctx(ctx)
	if !c.Enabled() {
		l.Info().Str(log.FieldUpstreamOp, opSearch).Msg("places api key not configured, returning empty results")
		return []domain.PlaceSummary{}, nil
	}

	params := url.Values{}
	params.Set("query", query+" restaurant")
	params.Set("location", c.location)
	params.Set("radius", c.radius)
	params.Set("type", "restaurant")
	params.Set("key", c.apiKey)

	var resp textSearchResponse
	if err := c.getJSON(ctx, opSearch, "/textsearch/json", params, &resp); err != nil {
		return nil, err
	}
	if resp.Status != StatusOK && resp.Status != StatusZeroResults {
		return nil, c.statusError(ctx, opSearch, resp.Status, resp.ErrorMessage)
	}

	results := make([]domain.PlaceSummary, 0, len(resp.Results))
	for i := range resp.Results {
		place, err := mapPlace(&resp.Results[i])
		if err != nil {
			l.Warn().Err(err).Str(log.FieldQuery, query).Msg("skipping malformed search result")
			continue
		}
		results = append(results, place)
	}

	return results, nil
}

// Details fetches the full record of a place. A place the provider does not
// know is returned as (nil, nil).
func (c *Client) Details(ctx context.Context, placeID string) (*domain.PlaceDetails, error) {
	l := log.Ctx(ctx)
	if !c.Enabled() {
		l.Info().Str(log.FieldUpstreamOp, opDetails).Msg("places api key not configured")
		return nil, nil
	}

	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", detailsFields)
	params.Set("key", c.apiKey)

	var resp detailsResponse
	if err := c.getJSON(ctx, opDetails, "/details/json", params, &resp); err != nil {
		return nil, err
	}

	switch resp.Status {
	case StatusOK:
	case StatusNotFound:
		l.Debug().Str(log.FieldPlaceID, placeID).Msg("place not found upstream")
		return nil, nil
	default:
		return nil, c.statusError(ctx, opDetails, resp.Status, resp.ErrorMessage)
	}

	if resp.Result == nil {
		return nil, &UpstreamError{Op: opDetails, Status: resp.Status, Message: "missing result"}
	}
	details, err := mapDetails(resp.Result)
	if err != nil {
		return nil, &UpstreamError{Op: opDetails, Status: resp.Status, Message: "malformed result", Err: err}
	}
	return details, nil
}

// Photo downloads a place photo scaled to at most maxWidth pixels.
func (c *Client) Photo(ctx context.Context, ref string, maxWidth int) (*domain.PhotoData, error) {
	l := log.Ctx(ctx)
	if !c.Enabled() {
		l.Info().Str(log.FieldUpstreamOp, opPhoto).Msg("places api key not configured")
		return nil, nil
	}

	params := url.Values{}
	params.Set("photoreference", ref)
	params.Set("maxwidth", strconv.Itoa(maxWidth))
	params.Set("key", c.apiKey)

	start := time.Now()
	resp, err := c.do(ctx, opPhoto, "/photo", params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes+1))
	if err != nil {
		metrics.UpstreamRequest(opPhoto, "error", time.Since(start))
		return nil, &UpstreamError{Op: opPhoto, HTTPStatus: resp.StatusCode, Message: "failed to read body", Err: err}
	}
	if len(data) > maxPhotoBytes {
		metrics.UpstreamRequest(opPhoto, "error", time.Since(start))
		return nil, &UpstreamError{Op: opPhoto, HTTPStatus: resp.StatusCode, Message: "photo exceeds size limit"}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultContentType
	}

	metrics.UpstreamRequest(opPhoto, "ok", time.Since(start))
	return &domain.PhotoData{Data: data, ContentType: contentType}, nil
}

// do issues a GET and returns the response when the status is 2xx.
func (c *Client) do(ctx context.Context, op, path string, params url.Values) (*http.Response, error) {
	l := log.Ctx(ctx)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &UpstreamError{Op: op, Message: "failed to build request", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamRequest(op, "error", time.Since(start))
		l.Error().Err(err).Str(log.FieldUpstreamOp, op).Msg("places request failed")
		return nil, &UpstreamError{Op: op, Message: "request failed", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		resp.Body.Close()

		upErr := &UpstreamError{Op: op, HTTPStatus: resp.StatusCode, Message: strings.TrimSpace(string(body))}
		outcome := "error"
		if upErr.RateLimited() {
			outcome = "rate_limited"
		}
		metrics.UpstreamRequest(op, outcome, time.Since(start))
		l.Error().Int(log.FieldStatus, resp.StatusCode).Str(log.FieldUpstreamOp, op).Msg("places api returned error status")
		return nil, upErr
	}

	return resp, nil
}

// getJSON issues a GET and decodes a JSON body into out.
func (c *Client) getJSON(ctx context.Context, op, path string, params url.Values, out interface{}) error {
	start := time.Now()
	resp, err := c.do(ctx, op, path, params)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.UpstreamRequest(op, "error", time.Since(start))
		return &UpstreamError{Op: op, HTTPStatus: resp.StatusCode, Message: "malformed response", Err: err}
	}
	metrics.UpstreamRequest(op, "ok", time.Since(start))
	return nil
}

func (c *Client) statusError(ctx context.Context, op, status, message string) error {
	l := log.Ctx(ctx)
	l.Error().
		Str(log.FieldUpstreamOp, op).
		Str(log.FieldUpstreamStatus, status).
		Str("error_message", message).
		Msg("places api returned non-ok status")

	return &UpstreamError{Op: op, Status: status, Message: message}
}
