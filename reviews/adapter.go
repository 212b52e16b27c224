package reviews

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const (
	APINew    = "new"
	APILegacy = "legacy"

	DefaultNewBaseURL    = "https://places.googleapis.com"
	DefaultLegacyBaseURL = "https://maps.googleapis.com"
	DefaultLanguage      = "pt-BR"

	newFieldMask   = "id,displayName,rating,userRatingCount,reviews"
	legacyFields   = "name,rating,user_ratings_total,reviews"
	legacyStatusOK = "OK"
)

// Adapter is one version of the upstream contract: it builds the request and
// resolves the response fields into a Summary.
type Adapter interface {
	Name() string
	DefaultBaseURL() string
	NewRequest(ctx context.Context, baseURL, language string, creds Credentials) (*http.Request, error)
	Decode(status int, body []byte) (Summary, error)
}

// AdapterFor returns the adapter registered under name ("new" or "legacy").
func AdapterFor(name string) (Adapter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", APINew:
		return NewAPI{}, nil
	case APILegacy:
		return Legacy{}, nil
	default:
		return nil, fmt.Errorf("reviews: unknown places api %q", name)
	}
}

// text is either a plain string or a {"text": "..."} object.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = text(s)
		return nil
	}
	var obj struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	*t = text(obj.Text)
	return nil
}

// timestamp is an RFC 3339 string or unix seconds.
type timestamp struct {
	t time.Time
}

func (ts *timestamp) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			return nil
		}
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			ts.t = t
			return nil
		}
		secs, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("reviews: bad timestamp %q", s)
		}
		ts.t = time.Unix(secs, 0).UTC()
		return nil
	}
	var secs float64
	if err := json.Unmarshal(b, &secs); err != nil {
		return err
	}
	ts.t = time.Unix(int64(secs), 0).UTC()
	return nil
}

// rawReview carries every field name either API version has been seen to
// use. Adapters pick from it in their own order of preference.
type rawReview struct {
	AuthorAttribution struct {
		DisplayName string `json:"displayName"`
		PhotoURI    string `json:"photoUri"`
	} `json:"authorAttribution"`
	AuthorName      string    `json:"author_name"`
	ProfilePhotoURL string    `json:"profilePhotoUrl"`
	ProfilePhoto    string    `json:"profile_photo_url"`
	Text            text      `json:"text"`
	OriginalText    text      `json:"originalText"`
	Comment         string    `json:"comment"`
	Rating          float64   `json:"rating"`
	PublishTime     timestamp `json:"publishTime"`
	Time            timestamp `json:"time"`
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func firstTime(vals ...timestamp) *time.Time {
	for _, v := range vals {
		if !v.t.IsZero() {
			t := v.t
			return &t
		}
	}
	return nil
}

func recordsOf(raws []rawReview, resolve func(rawReview) Record) []Record {
	out := make([]Record, 0, len(raws))
	for _, r := range raws {
		out = append(out, resolve(r))
	}
	return out
}

// NewAPI is the Places API (New) shape: GET /v1/places/{id} with the key and
// field mask in headers.
type NewAPI struct{}

func (NewAPI) Name() string           { return APINew }
func (NewAPI) DefaultBaseURL() string { return DefaultNewBaseURL }

func (NewAPI) NewRequest(ctx context.Context, baseURL, language string, creds Credentials) (*http.Request, error) {
	u := strings.TrimRight(baseURL, "/") + "/v1/places/" + url.PathEscape(creds.PlaceID)
	if language != "" {
		u += "?languageCode=" + url.QueryEscape(language)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Goog-Api-Key", creds.APIKey)
	req.Header.Set("X-Goog-FieldMask", newFieldMask)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

type newPlace struct {
	Rating          float64     `json:"rating"`
	UserRatingCount int         `json:"userRatingCount"`
	Reviews         []rawReview `json:"reviews"`
	Error           *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (NewAPI) Decode(status int, body []byte) (Summary, error) {
	var p newPlace
	jsonErr := json.Unmarshal(body, &p)
	if status < 200 || status > 299 {
		e := &UpstreamError{Status: status}
		if jsonErr == nil && p.Error != nil {
			e.Reason = firstNonEmpty(p.Error.Status, p.Error.Message)
		}
		return Summary{}, e
	}
	if jsonErr != nil {
		return Summary{}, fmt.Errorf("reviews: decode new api body: %w", jsonErr)
	}
	if p.Error != nil {
		return Summary{}, &UpstreamError{Status: p.Error.Code, Reason: firstNonEmpty(p.Error.Status, p.Error.Message)}
	}
	return Summary{
		Reviews: recordsOf(p.Reviews, func(r rawReview) Record {
			return Record{
				AuthorName:     firstNonEmpty(r.AuthorAttribution.DisplayName, r.AuthorName),
				AuthorPhotoURL: firstNonEmpty(r.AuthorAttribution.PhotoURI, r.ProfilePhotoURL, r.ProfilePhoto),
				Rating:         r.Rating,
				Text:           firstNonEmpty(string(r.Text), string(r.OriginalText), r.Comment),
				Timestamp:      firstTime(r.PublishTime, r.Time),
			}
		}),
		Rating:          p.Rating,
		UserRatingCount: p.UserRatingCount,
	}, nil
}

// Legacy is the Place Details shape: GET /maps/api/place/details/json with
// the key in the query and a status field in the body.
type Legacy struct{}

func (Legacy) Name() string           { return APILegacy }
func (Legacy) DefaultBaseURL() string { return DefaultLegacyBaseURL }

func (Legacy) NewRequest(ctx context.Context, baseURL, language string, creds Credentials) (*http.Request, error) {
	q := url.Values{}
	q.Set("place_id", creds.PlaceID)
	q.Set("fields", legacyFields)
	q.Set("key", creds.APIKey)
	if language != "" {
		q.Set("language", language)
	}
	u := strings.TrimRight(baseURL, "/") + "/maps/api/place/details/json?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

type legacyBody struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Result       struct {
		Rating           float64     `json:"rating"`
		UserRatingsTotal int         `json:"user_ratings_total"`
		Reviews          []rawReview `json:"reviews"`
	} `json:"result"`
}

func (Legacy) Decode(status int, body []byte) (Summary, error) {
	if status < 200 || status > 299 {
		return Summary{}, &UpstreamError{Status: status}
	}
	var b legacyBody
	if err := json.Unmarshal(body, &b); err != nil {
		return Summary{}, fmt.Errorf("reviews: decode legacy body: %w", err)
	}
	if b.Status != legacyStatusOK {
		return Summary{}, &UpstreamError{Reason: firstNonEmpty(b.Status+" "+b.ErrorMessage, "missing status")}
	}
	return Summary{
		Reviews: recordsOf(b.Result.Reviews, func(r rawReview) Record {
			return Record{
				AuthorName:     firstNonEmpty(r.AuthorName, r.AuthorAttribution.DisplayName),
				AuthorPhotoURL: firstNonEmpty(r.ProfilePhoto, r.ProfilePhotoURL, r.AuthorAttribution.PhotoURI),
				Rating:         r.Rating,
				Text:           firstNonEmpty(string(r.Text), r.Comment),
				Timestamp:      firstTime(r.Time, r.PublishTime),
			}
		}),
		Rating:          b.Result.Rating,
		UserRatingCount: b.Result.UserRatingsTotal,
	}, nil
}
