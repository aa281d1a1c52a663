package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew_EmptyBaseURL(t *testing.T) {
	t.Parallel()

	c, err := New("", 10*time.Second)
	require.NoError(t, err)
	require.False(t, c.Configured())

	_, err = c.Do(context.Background(), http.MethodGet, "/Account/GetUser", nil)
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestNew_RelativeBaseURL(t *testing.T) {
	t.Parallel()

	_, err := New("not-a-url", 10*time.Second)
	require.Error(t, err)
}

func TestDo_JoinsPathAndSetsDefaultHeaders(t *testing.T) {
	t.Parallel()

	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(srv.URL+"/api", 10*time.Second)
	require.NoError(t, err)

	resp, err := c.Do(context.Background(), http.MethodPost, "/Auth/Login", map[string]string{"UserName": "u"})
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, "/api/Auth/Login", got.URL.Path)
	require.Equal(t, "application/json", got.Header.Get("Content-Type"))
	require.Equal(t, "application/json", got.Header.Get("Accept"))
}

func TestDo_Options(t *testing.T) {
	t.Parallel()

	var gotAuth string
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(srv.URL, 10*time.Second)
	require.NoError(t, err)

	resp, err := c.Do(context.Background(), http.MethodGet, "/Account/SendPassResetLink", nil,
		WithBearer("tok-123"),
		WithQuery(url.Values{"email": {"a@b.c"}, "userType": {"customer"}}))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, "Bearer tok-123", gotAuth)
	require.Equal(t, "a@b.c", gotQuery.Get("email"))
	require.Equal(t, "customer", gotQuery.Get("userType"))
}

func TestDo_EncodesBody(t *testing.T) {
	t.Parallel()

	var decoded map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&decoded))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(srv.URL, 10*time.Second)
	require.NoError(t, err)

	resp, err := c.Do(context.Background(), http.MethodPost, "/Auth/Login", map[string]string{"UserName": "alice"})
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, "alice", decoded["UserName"])
}

func TestDo_TransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c, err := New(srv.URL, time.Second)
	require.NoError(t, err)

	_, err = c.Do(context.Background(), http.MethodGet, "/Auth/Logout", nil)
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrNotConfigured))
}
