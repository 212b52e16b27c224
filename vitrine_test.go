package vitrine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/vitrine/reviews"
	"github.com/eringen/vitrine/views"
)

const placesBody = `{
  "rating": 4.8,
  "userRatingCount": 57,
  "reviews": [
    {"rating": 5, "text": {"text": "<script>alert(1)</script>Ótimo"}, "authorAttribution": {"displayName": "Ana"}, "publishTime": "2025-06-05T12:00:00Z"},
    {"rating": 4, "text": {"text": "Bom"}, "authorAttribution": {"displayName": "Bruno"}}
  ]
}`

const indexHTML = `<!doctype html><html><head>
<script type="application/ld+json">{"@context":"https://schema.org","@type":"Dentist","aggregateRating":{"@type":"AggregateRating","ratingValue":"5.0","reviewCount":"10"}}</script>
</head><body><h1>Clínica</h1></body></html>`

type testUpstream struct {
	srv     *httptest.Server
	calls   atomic.Int32
	status  atomic.Int32
	body    atomic.Value
	lastKey atomic.Value
}

func newUpstream(t *testing.T) *testUpstream {
	t.Helper()
	u := &testUpstream{}
	u.status.Store(http.StatusOK)
	u.body.Store(placesBody)
	u.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.calls.Add(1)
		u.lastKey.Store(r.Header.Get("X-Goog-Api-Key"))
		w.WriteHeader(int(u.status.Load()))
		_, _ = w.Write([]byte(u.body.Load().(string)))
	}))
	t.Cleanup(u.srv.Close)
	return u
}

func newTestApp(t *testing.T, up *testUpstream, mutate func(*SiteConfig), opts ...Option) *App {
	t.Helper()
	dir := t.TempDir()
	static := filepath.Join(dir, "public")
	require.NoError(t, os.MkdirAll(static, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(static, "index.html"), []byte(indexHTML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(static, "style.css"), []byte("body{}"), 0o644))

	cfg := SiteConfig{
		Env:             "test",
		AuthToken:       "s3cret",
		CredentialsPath: filepath.Join(dir, "config", "api-keys.json"),
		StaticDir:       static,
		Places: PlacesConfig{
			APIKey:  "env-key",
			PlaceID: "env-place",
			BaseURL: up.srv.URL,
		},
	}
	if mutate != nil {
		mutate(&cfg)
	}
	a := New(cfg, opts...)
	a.clock = func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }
	require.NoError(t, a.Setup())
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func do(a *App, method, target string, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func TestReviewsEndpoint(t *testing.T) {
	up := newUpstream(t)
	a := newTestApp(t, up, nil)

	rec := do(a, http.MethodGet, "/api/reviews", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	var sum reviews.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	assert.Equal(t, 4.8, sum.Rating)
	assert.Equal(t, 57, sum.UserRatingCount)
	require.Len(t, sum.Reviews, 2)
	assert.Equal(t, "Ana", sum.Reviews[0].AuthorName)
	assert.Nil(t, sum.Reviews[1].Timestamp)
	assert.NotContains(t, rec.Body.String(), "env-key")
	assert.Equal(t, int32(1), up.calls.Load())
}

func TestReviewsEndpointNotConfigured(t *testing.T) {
	up := newUpstream(t)
	a := newTestApp(t, up, func(c *SiteConfig) { c.Places.APIKey = "" })

	rec := do(a, http.MethodGet, "/api/reviews", "", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, views.MsgNotConfigured, body.Error)
	assert.Equal(t, int32(0), up.calls.Load())
}

func TestReviewsEndpointUpstreamError(t *testing.T) {
	up := newUpstream(t)
	up.status.Store(http.StatusForbidden)
	up.body.Store(`{"error":{"code":403,"status":"PERMISSION_DENIED","message":"key env-key invalid"}}`)
	a := newTestApp(t, up, nil)

	rec := do(a, http.MethodGet, "/api/reviews", "", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, views.MsgUnavailable, body.Error)
	assert.Equal(t, http.StatusForbidden, body.UpstreamStatus)
	assert.NotContains(t, rec.Body.String(), "env-key")
}

func TestReviewsEndpointLegacyShape(t *testing.T) {
	up := newUpstream(t)
	up.body.Store(`{"status":"OK","result":{"rating":4.8,"user_ratings_total":57,"reviews":[{"author_name":"Ana","rating":5,"text":"Bom","time":1749124800}]}}`)
	a := newTestApp(t, up, func(c *SiteConfig) { c.Places.API = "legacy" })

	rec := do(a, http.MethodGet, "/api/reviews", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sum reviews.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	require.Len(t, sum.Reviews, 1)
	assert.Equal(t, "Ana", sum.Reviews[0].AuthorName)
	assert.Equal(t, "Bom", sum.Reviews[0].Text)
}

func TestReviewsEndpointLegacyDenied(t *testing.T) {
	up := newUpstream(t)
	up.body.Store(`{"status":"REQUEST_DENIED","error_message":"The provided API key is invalid."}`)
	a := newTestApp(t, up, func(c *SiteConfig) { c.Places.API = "legacy" })

	rec := do(a, http.MethodGet, "/api/reviews", "", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), "upstreamStatus")

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, views.MsgUnavailable, body.Error)
}

func TestReviewsFragment(t *testing.T) {
	up := newUpstream(t)
	a := newTestApp(t, up, nil)

	rec := do(a, http.MethodGet, "/api/reviews/fragment", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<strong>4.8</strong> de 5 estrelas")
	assert.Contains(t, body, "&lt;script&gt;alert(1)&lt;/script&gt;Ótimo")
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "Há 10 dias")
	assert.Equal(t, 2, strings.Count(body, `class="card-avaliacao"`))
}

func TestReviewsFragmentError(t *testing.T) {
	up := newUpstream(t)
	a := newTestApp(t, up, func(c *SiteConfig) { c.Places.PlaceID = "" })

	rec := do(a, http.MethodGet, "/api/reviews/fragment", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "reviews-error")
	assert.Contains(t, rec.Body.String(), views.MsgNotConfigured)
}

func TestHomePatchesSchema(t *testing.T) {
	up := newUpstream(t)
	a := newTestApp(t, up, nil)

	rec := do(a, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ratingValue": "4.8"`)
	assert.Contains(t, rec.Body.String(), `"reviewCount": "57"`)
	assert.Contains(t, rec.Body.String(), "<h1>Clínica</h1>")
}

func TestHomeServesStaticPageWhenUpstreamFails(t *testing.T) {
	up := newUpstream(t)
	up.status.Store(http.StatusInternalServerError)
	a := newTestApp(t, up, nil)

	rec := do(a, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ratingValue":"5.0"`)
}

func TestHomeSchemaPatchDisabled(t *testing.T) {
	up := newUpstream(t)
	a := newTestApp(t, up, func(c *SiteConfig) { c.SchemaPatchDisabled = true })

	rec := do(a, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, indexHTML, rec.Body.String())
	assert.Equal(t, int32(0), up.calls.Load())
}

func TestStaticFiles(t *testing.T) {
	up := newUpstream(t)
	a := newTestApp(t, up, nil)

	rec := do(a, http.MethodGet, "/style.css", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "body{}", rec.Body.String())

	rec = do(a, http.MethodGet, "/missing.css", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(a, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestStatusEndpoint(t *testing.T) {
	a := newTestApp(t, newUpstream(t), nil)

	rec := do(a, http.MethodGet, "/api/status", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Servidor está rodando", body.Message)
	assert.Equal(t, 2025, body.Timestamp.Year())
}

func TestEmbedEndpoint(t *testing.T) {
	a := newTestApp(t, newUpstream(t), nil)

	rec := do(a, http.MethodGet, "/api/embed?permalink=https://www.instagram.com/p/Cx1/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `src="https://www.instagram.com/embed/Cx1/"`)

	for _, p := range []string{"https://www.instagram.com/", "https://www.instagram.com/clinica.rullian/", "instagram.com/p/"} {
		rec = do(a, http.MethodGet, "/api/embed?permalink="+url.QueryEscape(p), "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, p)
		assert.Contains(t, rec.Body.String(), "no content path", p)
	}
}

func TestConfigUpdate(t *testing.T) {
	up := newUpstream(t)
	a := newTestApp(t, up, nil)

	rec := do(a, http.MethodGet, "/api/reviews", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "env-key", up.lastKey.Load())

	rec = do(a, http.MethodPost, "/api/config", `{"apiKey":"new-key","placeId":"new-place"}`,
		map[string]string{"x-auth-token": "s3cret"})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp AdminResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Configuração salva com sucesso", resp.Message)

	stored, err := a.Credentials.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new-key", stored.GoogleAPIKey)
	assert.Equal(t, "new-place", stored.GooglePlaceID)
	require.NotNil(t, stored.LastUpdated)

	rec = do(a, http.MethodGet, "/api/reviews", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "new-key", up.lastKey.Load())
}

func TestConfigUpdateRejects(t *testing.T) {
	a := newTestApp(t, newUpstream(t), nil)
	auth := map[string]string{"x-auth-token": "s3cret"}

	tests := []struct {
		name    string
		body    string
		headers map[string]string
		code    int
		msg     string
	}{
		{"no token", `{"apiKey":"k","placeId":"p"}`, nil, http.StatusUnauthorized, "Não autorizado"},
		{"wrong token", `{"apiKey":"k","placeId":"p"}`, map[string]string{"x-auth-token": "s3cre"}, http.StatusUnauthorized, "Não autorizado"},
		{"missing place", `{"apiKey":"k"}`, auth, http.StatusBadRequest, "apiKey e placeId são obrigatórios"},
		{"blank key", `{"apiKey":"  ","placeId":"p"}`, auth, http.StatusBadRequest, "apiKey e placeId são obrigatórios"},
		{"bad json", `{"apiKey":`, auth, http.StatusBadRequest, "Corpo da requisição inválido"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(a, http.MethodPost, "/api/config", tt.body, tt.headers)
			assert.Equal(t, tt.code, rec.Code)
			var resp AdminResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.msg, resp.Error)
		})
	}

	stored, err := a.Credentials.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored.GoogleAPIKey)
}

type failingStore struct{ StoredCredentials }

func (f failingStore) Load(context.Context) (StoredCredentials, error) { return f.StoredCredentials, nil }
func (failingStore) Save(context.Context, StoredCredentials) error     { return os.ErrPermission }
func (failingStore) Close() error                                      { return nil }

func TestConfigUpdatePersistFailure(t *testing.T) {
	a := newTestApp(t, newUpstream(t), nil, WithCredentialStore(failingStore{}))

	rec := do(a, http.MethodPost, "/api/config", `{"apiKey":"k","placeId":"p"}`, map[string]string{"x-auth-token": "s3cret"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Erro ao salvar configuração")
}

func TestConfigEndpointDisabledWithoutToken(t *testing.T) {
	a := newTestApp(t, newUpstream(t), func(c *SiteConfig) { c.AuthToken = "" })

	rec := do(a, http.MethodPost, "/api/config", `{"apiKey":"k","placeId":"p"}`, map[string]string{"x-auth-token": ""})
	assert.NotEqual(t, http.StatusOK, rec.Code)
	stored, err := a.Credentials.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored.GoogleAPIKey)
}

func TestMetricsEndpoint(t *testing.T) {
	a := newTestApp(t, newUpstream(t), nil)
	do(a, http.MethodGet, "/api/reviews", "", nil)

	rec := do(a, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `vitrine_places_requests_total{api="new",outcome="success"} 1`)
}

func TestCORSOnAPI(t *testing.T) {
	a := newTestApp(t, newUpstream(t), nil)

	rec := do(a, http.MethodGet, "/api/status", "", map[string]string{"Origin": "https://example.org"})
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = do(a, http.MethodGet, "/style.css", "", map[string]string{"Origin": "https://example.org"})
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
