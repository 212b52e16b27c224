package vitrine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

// AdminClient pushes credentials to a running site's POST /api/config.
type AdminClient struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// PushCredentials sends key and place id. A non-success answer is returned
// as an error carrying the server's message.
func (c *AdminClient) PushCredentials(ctx context.Context, apiKey, placeID string) (AdminResponse, error) {
	body, err := json.Marshal(ConfigRequest{APIKey: apiKey, PlaceID: placeID})
	if err != nil {
		return AdminResponse{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, BuildURL(c.BaseURL, "api", "config"), bytes.NewReader(body))
	if err != nil {
		return AdminResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerAuthToken, c.Token)

	hc := c.HTTP
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return AdminResponse{}, fmt.Errorf("vitrine: push credentials: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return AdminResponse{}, fmt.Errorf("vitrine: read response: %w", err)
	}
	var out AdminResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return AdminResponse{}, fmt.Errorf("vitrine: %s: unexpected response (%d)", req.URL, resp.StatusCode)
	}
	if !out.Success {
		return out, fmt.Errorf("vitrine: %s (%d)", firstNonEmpty(out.Error, http.StatusText(resp.StatusCode)), resp.StatusCode)
	}
	return out, nil
}
