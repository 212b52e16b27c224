package reviews

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
)

// ProxyError is the {error} body returned by the proxy endpoint.
type ProxyError struct {
	Status  int
	Message string
}

func (e *ProxyError) Error() string {
	return fmt.Sprintf("reviews proxy: %d: %s", e.Status, e.Message)
}

// ProxyClient reads the normalized summary from a running site, the way the
// page script does.
type ProxyClient struct {
	BaseURL string
	HTTP    *http.Client
}

// Fetch calls GET {BaseURL}/api/reviews.
func (c *ProxyClient) Fetch(ctx context.Context) (Summary, error) {
	hc := c.HTTP
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(c.BaseURL, "/")+"/api/reviews", nil)
	if err != nil {
		return Summary{}, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := hc.Do(req)
	if err != nil {
		return Summary{}, fmt.Errorf("reviews proxy: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Summary{}, fmt.Errorf("reviews proxy: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(body, &e)
		return Summary{}, &ProxyError{Status: resp.StatusCode, Message: firstNonEmpty(e.Error, http.StatusText(resp.StatusCode))}
	}
	var s Summary
	if err := json.Unmarshal(body, &s); err != nil {
		return Summary{}, fmt.Errorf("reviews proxy: decode: %w", err)
	}
	return s, nil
}
