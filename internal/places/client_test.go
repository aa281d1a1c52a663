package places

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type mapStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMapStore() *mapStore {
	return &mapStore{data: map[string]string{}}
}

func (s *mapStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	val, ok := s.data[key]
	if !ok {
		return "", errCacheMiss
	}
	return val, nil
}

func (s *mapStore) Set(_ context.Context, key, value string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func newTestClient(t *testing.T, upstream http.Handler, cache *Cache) (*Client, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		upstream.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	c := NewClient("test-key", cache)
	c.baseURL = srv.URL
	return c, &calls
}

func TestAutocomplete_NoKey(t *testing.T) {
	t.Parallel()

	c := NewClient("", nil)
	_, err := c.Autocomplete(context.Background(), AutocompleteQuery{Input: "cairo"})
	require.ErrorIs(t, err, ErrKeyMissing)
}

func TestAutocomplete_EmptyInputSkipsUpstream(t *testing.T) {
	t.Parallel()

	c, calls := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}), nil)

	body, err := c.Autocomplete(context.Background(), AutocompleteQuery{})
	require.NoError(t, err)
	require.JSONEq(t, `{"status":"ZERO_RESULTS","predictions":[]}`, string(body))
	require.Zero(t, calls.Load())
}

func TestAutocomplete_ForwardsSuccessBody(t *testing.T) {
	t.Parallel()

	upstream := `{"status":"OK","predictions":[{"description":"Cairo, Egypt"}]}`
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/autocomplete/json", r.URL.Path)
		require.Equal(t, "test-key", r.URL.Query().Get("key"))
		require.Equal(t, "cairo", r.URL.Query().Get("input"))
		require.Equal(t, "country:eg", r.URL.Query().Get("components"))
		_, _ = w.Write([]byte(upstream))
	}), nil)

	body, err := c.Autocomplete(context.Background(), AutocompleteQuery{Input: "cairo", Region: "eg"})
	require.NoError(t, err)
	require.JSONEq(t, upstream, string(body))
}

func TestAutocomplete_RequestDenied(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"API key invalid"}`))
	}), nil)

	body, err := c.Autocomplete(context.Background(), AutocompleteQuery{Input: "cairo"})
	require.NoError(t, err)

	var payload errorPayload
	require.NoError(t, json.Unmarshal(body, &payload))
	require.Equal(t, "REQUEST_DENIED", payload.Status)
	require.Equal(t, "API key invalid", payload.ErrorMessage)
}

func TestAutocomplete_NonJSONUpstream(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>boom</html>"))
	}), nil)

	body, err := c.Autocomplete(context.Background(), AutocompleteQuery{Input: "cairo"})
	require.NoError(t, err)

	var payload errorPayload
	require.NoError(t, json.Unmarshal(body, &payload))
	require.Equal(t, "ERROR", payload.Status)
	require.Contains(t, payload.ErrorMessage, "boom")
}

func TestAutocomplete_CacheHitSkipsUpstream(t *testing.T) {
	t.Parallel()

	upstream := `{"status":"OK","predictions":[]}`
	cache := newCacheWithStore(newMapStore(), time.Minute)
	c, calls := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(upstream))
	}), cache)

	q := AutocompleteQuery{Input: "cairo", Language: "en"}

	first, err := c.Autocomplete(context.Background(), q)
	require.NoError(t, err)
	second, err := c.Autocomplete(context.Background(), q)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, int32(1), calls.Load())
}

func TestAutocomplete_SessionTokenNotInCacheKey(t *testing.T) {
	t.Parallel()

	cache := newCacheWithStore(newMapStore(), time.Minute)
	c, calls := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK","predictions":[]}`))
	}), cache)

	_, err := c.Autocomplete(context.Background(), AutocompleteQuery{Input: "cairo", SessionToken: "s1"})
	require.NoError(t, err)
	_, err = c.Autocomplete(context.Background(), AutocompleteQuery{Input: "cairo", SessionToken: "s2"})
	require.NoError(t, err)

	require.Equal(t, int32(1), calls.Load())
}

func TestAutocomplete_DeniedResponseNotCached(t *testing.T) {
	t.Parallel()

	cache := newCacheWithStore(newMapStore(), time.Minute)
	c, calls := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"REQUEST_DENIED"}`))
	}), cache)

	q := AutocompleteQuery{Input: "cairo"}
	_, err := c.Autocomplete(context.Background(), q)
	require.NoError(t, err)
	_, err = c.Autocomplete(context.Background(), q)
	require.NoError(t, err)

	require.Equal(t, int32(2), calls.Load())
}

func TestDetails_RequiresPlaceID(t *testing.T) {
	t.Parallel()

	c, calls := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}), nil)

	body, err := c.Details(context.Background(), DetailsQuery{})
	require.NoError(t, err)
	require.Zero(t, calls.Load())

	var payload errorPayload
	require.NoError(t, json.Unmarshal(body, &payload))
	require.Equal(t, "INVALID_REQUEST", payload.Status)
}

func TestDetails_FieldMaskAndCache(t *testing.T) {
	t.Parallel()

	upstream := `{"status":"OK","result":{"name":"Tahrir Square"}}`
	cache := newCacheWithStore(newMapStore(), time.Minute)
	c, calls := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/details/json", r.URL.Path)
		require.Equal(t, "name,geometry,formatted_address", r.URL.Query().Get("fields"))
		_, _ = w.Write([]byte(upstream))
	}), cache)

	q := DetailsQuery{PlaceID: "p1"}
	first, err := c.Details(context.Background(), q)
	require.NoError(t, err)
	second, err := c.Details(context.Background(), q)
	require.NoError(t, err)

	require.JSONEq(t, upstream, string(first))
	require.Equal(t, first, second)
	require.Equal(t, int32(1), calls.Load())
}

func TestCache_NilIsNoOp(t *testing.T) {
	t.Parallel()

	var c *Cache
	_, ok := c.Get(context.Background(), "k")
	require.False(t, ok)
	c.Set(context.Background(), "k", []byte("v"))
}
