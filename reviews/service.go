package reviews

import (
	"context"
	"errors"
)

// CredentialSource returns the current key and place id.
type CredentialSource interface {
	Credentials(ctx context.Context) (Credentials, error)
}

// CredentialFunc adapts a function to CredentialSource.
type CredentialFunc func(ctx context.Context) (Credentials, error)

func (f CredentialFunc) Credentials(ctx context.Context) (Credentials, error) { return f(ctx) }

// Fetcher is the upstream side of the Service.
type Fetcher interface {
	Fetch(ctx context.Context, creds Credentials) (Summary, error)
}

// Service resolves credentials and fetches the normalized summary.
type Service struct {
	creds    CredentialSource
	upstream Fetcher
}

// NewService wires a credential source to an upstream.
func NewService(creds CredentialSource, upstream Fetcher) *Service {
	return &Service{creds: creds, upstream: upstream}
}

// Fetch returns ErrNotConfigured without calling the upstream when the key
// or place id is missing.
func (s *Service) Fetch(ctx context.Context) (Summary, error) {
	creds, err := s.creds.Credentials(ctx)
	if err != nil {
		return Summary{}, errors.Join(ErrNotConfigured, err)
	}
	if !creds.Configured() {
		return Summary{}, ErrNotConfigured
	}
	sum, err := s.upstream.Fetch(ctx, creds)
	if err != nil {
		return Summary{}, err
	}
	if sum.Reviews == nil {
		sum.Reviews = []Record{}
	}
	return sum, nil
}
