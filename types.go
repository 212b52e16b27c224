package vitrine

import "time"

// ErrorResponse is the failure body of the reviews endpoint.
type ErrorResponse struct {
	Error          string `json:"error"`
	UpstreamStatus int    `json:"upstreamStatus,omitempty"`
}

// ConfigRequest is the body of POST /api/config.
type ConfigRequest struct {
	APIKey  string `json:"apiKey" validate:"required"`
	PlaceID string `json:"placeId" validate:"required"`
}

// AdminResponse is the body returned by POST /api/config.
type AdminResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// StatusResponse is the body of GET /api/status.
type StatusResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
