package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/SugaryLLC/sugary-web/internal/logger"
)

// ErrKeyMissing means no Google Maps API key was configured. The key
// lives server-side only; it must never appear in a response.
var ErrKeyMissing = errors.New("places: api key is not configured")

const defaultBaseURL = "https://maps.googleapis.com/maps/api/place"

// errorStatuses are Google verdicts the UI needs to read, so they are
// forwarded with HTTP 200 and a status field rather than an HTTP
// error.
type errorPayload struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}

type AutocompleteQuery struct {
	Input        string
	SessionToken string
	Region       string
	Language     string
}

type DetailsQuery struct {
	PlaceID      string
	SessionToken string
	Language     string
}

// Client proxies the legacy Places REST endpoints. Successful bodies
// are forwarded verbatim; Google logical errors are normalized into an
// errorPayload; non-JSON upstream bodies degrade to raw text.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	cache      *Cache
}

func NewClient(apiKey string, cache *Cache) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		cache:      cache,
	}
}

// Autocomplete proxies a predictions lookup. Empty input yields
// ZERO_RESULTS locally without calling Google.
func (c *Client) Autocomplete(ctx context.Context, q AutocompleteQuery) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrKeyMissing
	}
	if q.Input == "" {
		return []byte(`{"status":"ZERO_RESULTS","predictions":[]}`), nil
	}
	if q.Language == "" {
		q.Language = "en"
	}

	// Session tokens are per-user billing correlation; they never
	// belong in a shared cache key.
	cacheKey := fmt.Sprintf("ac:%s:%s:%s", q.Language, q.Region, q.Input)
	if body, ok := c.cache.Get(ctx, cacheKey); ok {
		return body, nil
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("input", q.Input)
	params.Set("language", q.Language)
	if q.Region != "" {
		params.Set("components", "country:"+q.Region)
	}
	if q.SessionToken != "" {
		params.Set("sessiontoken", q.SessionToken)
	}

	body, googleStatus, err := c.fetch(ctx, "/autocomplete/json", params)
	if err != nil {
		return nil, err
	}

	if googleStatus == "OK" || googleStatus == "ZERO_RESULTS" {
		c.cache.Set(ctx, cacheKey, body)
	}
	return body, nil
}

// Details proxies a place details lookup with a fixed field mask.
func (c *Client) Details(ctx context.Context, q DetailsQuery) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrKeyMissing
	}
	if q.PlaceID == "" {
		return json.Marshal(errorPayload{Status: "INVALID_REQUEST", ErrorMessage: "place_id required"})
	}
	if q.Language == "" {
		q.Language = "en"
	}

	cacheKey := fmt.Sprintf("dt:%s:%s", q.Language, q.PlaceID)
	if body, ok := c.cache.Get(ctx, cacheKey); ok {
		return body, nil
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("place_id", q.PlaceID)
	params.Set("language", q.Language)
	params.Set("fields", "name,geometry,formatted_address")
	if q.SessionToken != "" {
		params.Set("sessiontoken", q.SessionToken)
	}

	body, googleStatus, err := c.fetch(ctx, "/details/json", params)
	if err != nil {
		return nil, err
	}

	if googleStatus == "OK" {
		c.cache.Set(ctx, cacheKey, body)
	}
	return body, nil
}

// fetch performs one upstream call and normalizes the body. The
// returned status is Google's logical verdict ("ERROR" when the body
// was not JSON or the HTTP layer failed upstream).
func (c *Client) fetch(ctx context.Context, path string, params url.Values) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("places: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("places: upstream call: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("places: read body: %w", err)
	}

	var probe struct {
		Status       string `json:"status"`
		ErrorMessage string `json:"error_message"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		body, _ := json.Marshal(errorPayload{
			Status:       "ERROR",
			ErrorMessage: nonEmpty(string(raw), "Non-JSON response from Google"),
		})
		return body, "ERROR", nil
	}

	if resp.StatusCode != http.StatusOK || probe.Status == "REQUEST_DENIED" || probe.Status == "INVALID_REQUEST" {
		logger.FromContext(ctx).Errorw("places upstream error",
			"http_status", resp.StatusCode,
			"google_status", probe.Status,
			"error_message", probe.ErrorMessage,
		)
		body, _ := json.Marshal(errorPayload{
			Status: nonEmpty(probe.Status, "ERROR"),
			ErrorMessage: nonEmpty(probe.ErrorMessage,
				fmt.Sprintf("Google returned %d. Check API key restrictions & API enablement.", resp.StatusCode)),
		})
		return body, nonEmpty(probe.Status, "ERROR"), nil
	}

	return raw, probe.Status, nil
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
