package reviews

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/eringen/vitrine/logging"
)

const (
	DefaultTimeout = 10 * time.Second
	// maxBodyBytes caps what is read from the upstream.
	maxBodyBytes = 4 << 20
)

// Observer receives upstream call outcomes and breaker transitions.
type Observer interface {
	UpstreamCall(api, outcome string, elapsed time.Duration)
	BreakerState(name string, state gobreaker.State)
}

// Outcome labels passed to Observer.UpstreamCall.
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeRejected = "rejected"
	OutcomeCanceled = "canceled"
)

// callerGone marks an upstream error caused by the caller's context ending.
// The breaker does not count it.
type callerGone struct{ err error }

func (e *callerGone) Error() string { return e.err.Error() }
func (e *callerGone) Unwrap() error { return e.err }

// ClientOption configures a PlacesClient.
type ClientOption func(*PlacesClient)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(p *PlacesClient) { p.http = c }
}

// WithBaseURL points the adapter at a different host, mostly for tests.
func WithBaseURL(u string) ClientOption {
	return func(p *PlacesClient) {
		if u != "" {
			p.baseURL = u
		}
	}
}

// WithLanguage sets the review language.
func WithLanguage(lang string) ClientOption {
	return func(p *PlacesClient) { p.language = lang }
}

// WithObserver reports call outcomes to o.
func WithObserver(o Observer) ClientOption {
	return func(p *PlacesClient) { p.observer = o }
}

// WithBreakerSettings overrides the circuit breaker thresholds.
func WithBreakerSettings(failures uint32, openFor time.Duration) ClientOption {
	return func(p *PlacesClient) {
		p.tripAfter = failures
		p.openFor = openFor
	}
}

// PlacesClient performs one upstream call per Fetch. There is no retry; an
// open breaker fails fast with ErrUpstreamUnavailable.
type PlacesClient struct {
	adapter  Adapter
	http     *http.Client
	baseURL  string
	language string
	observer Observer

	tripAfter uint32
	openFor   time.Duration
	cb        *gobreaker.CircuitBreaker[Summary]
}

// NewPlacesClient builds a client for the given adapter.
func NewPlacesClient(adapter Adapter, opts ...ClientOption) *PlacesClient {
	p := &PlacesClient{
		adapter:   adapter,
		http:      &http.Client{Timeout: DefaultTimeout},
		baseURL:   adapter.DefaultBaseURL(),
		language:  DefaultLanguage,
		tripAfter: 5,
		openFor:   30 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}

	name := "places-" + adapter.Name()
	p.cb = gobreaker.NewCircuitBreaker[Summary](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     p.openFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= p.tripAfter
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log := logging.With("places")
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("places circuit breaker state change")
			if p.observer != nil {
				p.observer.BreakerState(name, to)
			}
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var gone *callerGone
			if errors.As(err, &gone) {
				return true
			}
			var ue *UpstreamError
			if errors.As(err, &ue) {
				return !ue.ServerFault()
			}
			return false
		},
	})
	return p
}

// API returns the adapter name.
func (p *PlacesClient) API() string { return p.adapter.Name() }

// State returns the breaker state.
func (p *PlacesClient) State() gobreaker.State { return p.cb.State() }

// Fetch calls the upstream once with creds. Failures caused by ctx ending
// leave the breaker untouched.
func (p *PlacesClient) Fetch(ctx context.Context, creds Credentials) (Summary, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		p.report(OutcomeCanceled, start)
		return Summary{}, fmt.Errorf("reviews: upstream request: %w", err)
	}
	s, err := p.cb.Execute(func() (Summary, error) {
		s, err := p.do(ctx, creds)
		if err != nil && ctx.Err() != nil {
			return s, &callerGone{err: err}
		}
		return s, err
	})
	outcome := OutcomeSuccess
	var gone *callerGone
	switch {
	case err == nil:
	case errors.As(err, &gone):
		outcome = OutcomeCanceled
		err = gone.err
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		outcome = OutcomeRejected
		err = fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	default:
		outcome = OutcomeError
	}
	p.report(outcome, start)
	return s, err
}

func (p *PlacesClient) report(outcome string, start time.Time) {
	if p.observer != nil {
		p.observer.UpstreamCall(p.adapter.Name(), outcome, time.Since(start))
	}
}

func (p *PlacesClient) do(ctx context.Context, creds Credentials) (Summary, error) {
	req, err := p.adapter.NewRequest(ctx, p.baseURL, p.language, creds)
	if err != nil {
		return Summary{}, fmt.Errorf("reviews: build request: %w", err)
	}
	resp, err := p.http.Do(req)
	if err != nil {
		return Summary{}, fmt.Errorf("reviews: upstream request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Summary{}, fmt.Errorf("reviews: read upstream body: %w", err)
	}
	return p.adapter.Decode(resp.StatusCode, body)
}
