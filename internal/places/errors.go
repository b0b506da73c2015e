package places

import (
	"errors"
	"fmt"
	"net/http"
)

// Provider status values that carry meaning for callers.
const (
	StatusOK             = "OK"
	StatusZeroResults    = "ZERO_RESULTS"
	StatusNotFound       = "NOT_FOUND"
	StatusOverQueryLimit = "OVER_QUERY_LIMIT"
)

// ErrRateLimited matches any UpstreamError caused by provider quota limits.
var ErrRateLimited = errors.New("places api rate limited")

// UpstreamError describes a failed call to the Places API.
type UpstreamError struct {
	Op         string // search, details, photo
	Status     string // provider status, empty for transport failures
	HTTPStatus int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	msg := "places " + e.Op + ":"
	switch {
	case e.Status != "":
		msg += " status " + e.Status
	case e.HTTPStatus != 0:
		msg += fmt.Sprintf(" http %d", e.HTTPStatus)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is reports rate limiting as ErrRateLimited.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrRateLimited && e.RateLimited()
}

// RateLimited reports whether the provider rejected the call for quota reasons.
func (e *UpstreamError) RateLimited() bool {
	return e.Status == StatusOverQueryLimit || e.HTTPStatus == http.StatusTooManyRequests
}

// ParseError reports a provider record missing a required field.
type ParseError struct {
	Field   string
	PlaceID string
}

func (e *ParseError) Error() string {
	if e.PlaceID == "" {
		return "places: missing required field " + e.Field
	}
	return fmt.Sprintf("places: place %s missing required field %s", e.PlaceID, e.Field)
}
