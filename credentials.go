package vitrine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// StoredCredentials is what the admin endpoint persists. The JSON form is the
// config/api-keys.json file format.
type StoredCredentials struct {
	GoogleAPIKey  string     `json:"googleApiKey"`
	GooglePlaceID string     `json:"googlePlaceId"`
	LastUpdated   *time.Time `json:"lastUpdated"`
}

// CredentialStore persists the Places key and place id. Load returns empty
// credentials, not an error, when nothing has been saved yet.
type CredentialStore interface {
	Load(ctx context.Context) (StoredCredentials, error)
	Save(ctx context.Context, c StoredCredentials) error
	Close() error
}

// FileCredentialStore keeps credentials in a JSON file. Writes are serialized
// within the process and replace the file atomically.
type FileCredentialStore struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewFileCredentialStore stores credentials at path.
func NewFileCredentialStore(path string) *FileCredentialStore {
	return &FileCredentialStore{path: path, now: time.Now}
}

func (s *FileCredentialStore) Load(ctx context.Context) (StoredCredentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *FileCredentialStore) read() (StoredCredentials, error) {
	var c StoredCredentials
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("vitrine: read credentials: %w", err)
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return StoredCredentials{}, fmt.Errorf("vitrine: parse %s: %w", s.path, err)
	}
	return c, nil
}

// Save writes c and stamps LastUpdated. Fields other than the key and place
// id already in the file are not preserved.
func (s *FileCredentialStore) Save(ctx context.Context, c StoredCredentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("vitrine: create config dir: %w", err)
	}
	now := s.now().UTC()
	c.LastUpdated = &now
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".api-keys-*.json")
	if err != nil {
		return fmt.Errorf("vitrine: write credentials: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("vitrine: write credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("vitrine: write credentials: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("vitrine: write credentials: %w", err)
	}
	return nil
}

func (s *FileCredentialStore) Close() error { return nil }
