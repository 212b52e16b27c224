package reviews

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func static(c Credentials) CredentialSource {
	return CredentialFunc(func(context.Context) (Credentials, error) { return c, nil })
}

func TestServiceMissingConfigMakesNoCall(t *testing.T) {
	srv, calls := upstream(t, http.StatusOK, newFixture)
	client := NewPlacesClient(NewAPI{}, WithBaseURL(srv.URL))

	for _, c := range []Credentials{{}, {APIKey: "k"}, {PlaceID: "p"}} {
		_, err := NewService(static(c), client).Fetch(context.Background())
		assert.ErrorIs(t, err, ErrNotConfigured)
	}

	failing := CredentialFunc(func(context.Context) (Credentials, error) {
		return Credentials{}, errors.New("disk gone")
	})
	_, err := NewService(failing, client).Fetch(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)

	assert.Equal(t, int32(0), calls.Load())
}

func TestServiceFetch(t *testing.T) {
	srv, calls := upstream(t, http.StatusOK, `{"rating":5,"userRatingCount":1}`)
	svc := NewService(static(creds), NewPlacesClient(NewAPI{}, WithBaseURL(srv.URL)))

	s, err := svc.Fetch(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, s.Reviews)
	assert.Empty(t, s.Reviews)
	assert.Equal(t, int32(1), calls.Load())
}

func TestServicePropagatesUpstreamError(t *testing.T) {
	srv, _ := upstream(t, http.StatusOK, `{"status":"INVALID_REQUEST"}`)
	svc := NewService(static(creds), NewPlacesClient(Legacy{}, WithBaseURL(srv.URL)))

	_, err := svc.Fetch(context.Background())
	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Contains(t, ue.Reason, "INVALID_REQUEST")
}
