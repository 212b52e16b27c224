// Package reviews fetches Google Places reviews with a server-held key,
// normalizes the two upstream response shapes into one contract, and
// formats them for display.
package reviews

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Record is one normalized review, the only review shape clients see.
type Record struct {
	AuthorName     string     `json:"authorName"`
	AuthorPhotoURL string     `json:"authorPhotoUrl"`
	Rating         float64    `json:"rating"`
	Text           string     `json:"text"`
	Timestamp      *time.Time `json:"timestamp,omitempty"`
}

// Summary is the proxy response body.
type Summary struct {
	Reviews         []Record `json:"reviews"`
	Rating          float64  `json:"rating"`
	UserRatingCount int      `json:"userRatingCount"`
}

// Credentials identify the place and authorize upstream calls.
// They never leave the server.
type Credentials struct {
	APIKey  string
	PlaceID string
}

// Configured reports whether both fields are set.
func (c Credentials) Configured() bool {
	return c.APIKey != "" && c.PlaceID != ""
}

var (
	// ErrNotConfigured means the key or place id is missing. No upstream
	// call is made.
	ErrNotConfigured = errors.New("reviews: api key or place id not configured")
	// ErrUpstreamUnavailable is returned while the circuit breaker is open.
	ErrUpstreamUnavailable = errors.New("reviews: upstream temporarily unavailable")
)

// UpstreamError is a non-2xx response, or a failure status reported inside a
// 2xx body. Status is zero in the second case and Reason carries the body
// status.
type UpstreamError struct {
	Status int
	Reason string
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return "reviews: upstream rejected request: " + e.Reason
	}
	if e.Reason == "" {
		return fmt.Sprintf("reviews: upstream returned status %d", e.Status)
	}
	return fmt.Sprintf("reviews: upstream returned status %d: %s", e.Status, e.Reason)
}

// ServerFault reports whether the failure is on the upstream side and should
// count against the circuit breaker.
func (e *UpstreamError) ServerFault() bool {
	return e.Status >= http.StatusInternalServerError
}
