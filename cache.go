package vitrine

import (
	"context"
	"sync"
	"time"

	"github.com/eringen/vitrine/reviews"
)

// CredentialCache is an in-memory TTL cache over a CredentialStore. Stored
// values win; each missing field falls back to the configured one.
type CredentialCache struct {
	mu       sync.RWMutex
	creds    reviews.Credentials
	loaded   bool
	fetched  time.Time
	ttl      time.Duration
	store    CredentialStore
	fallback reviews.Credentials
	now      func() time.Time
}

// NewCredentialCache creates a CredentialCache backed by s.
func NewCredentialCache(s CredentialStore, fallback reviews.Credentials, ttl time.Duration) *CredentialCache {
	return &CredentialCache{store: s, fallback: fallback, ttl: ttl, now: time.Now}
}

func (c *CredentialCache) valid() bool {
	return c.loaded && c.now().Sub(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read goes to the store.
func (c *CredentialCache) Invalidate() {
	c.mu.Lock()
	c.loaded = false
	c.mu.Unlock()
}

func (c *CredentialCache) load(ctx context.Context) error {
	if c.valid() {
		return nil
	}
	stored, err := c.store.Load(ctx)
	if err != nil {
		return err
	}
	c.creds = reviews.Credentials{
		APIKey:  firstNonEmpty(stored.GoogleAPIKey, c.fallback.APIKey),
		PlaceID: firstNonEmpty(stored.GooglePlaceID, c.fallback.PlaceID),
	}
	c.loaded = true
	c.fetched = c.now()
	return nil
}

// Credentials returns the effective credentials. It tries a read lock first
// and only takes the write lock when a reload is needed.
func (c *CredentialCache) Credentials(ctx context.Context) (reviews.Credentials, error) {
	c.mu.RLock()
	if c.valid() {
		creds := c.creds
		c.mu.RUnlock()
		return creds, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return reviews.Credentials{}, err
	}
	return c.creds, nil
}
