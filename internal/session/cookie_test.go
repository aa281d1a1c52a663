package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/SugaryLLC/sugary-web/internal/backend"
)

func TestPairFromEnvelope_BackendExpiries(t *testing.T) {
	t.Parallel()

	env := &backend.Envelope{
		Token:                 "abc",
		RefreshToken:          "def",
		AccessTokenExpiresAt:  "2099-01-01T00:00:00Z",
		RefreshTokenExpiresAt: "2099-02-01T00:00:00Z",
	}

	pair := PairFromEnvelope(env, time.Now())
	require.Equal(t, "abc", pair.AccessToken)
	require.Equal(t, "def", pair.RefreshToken)
	require.Equal(t, time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC), pair.AccessExpiresAt.UTC())
	require.Equal(t, time.Date(2099, 2, 1, 0, 0, 0, 0, time.UTC), pair.RefreshExpiresAt.UTC())
}

func TestPairFromEnvelope_FallbackExpiries(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	pair := PairFromEnvelope(&backend.Envelope{Token: "abc", RefreshToken: "def"}, now)

	require.Equal(t, now.Add(24*time.Hour), pair.AccessExpiresAt)
	require.Equal(t, now.Add(30*24*time.Hour), pair.RefreshExpiresAt)
}

func TestPairFromEnvelope_MalformedExpiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	pair := PairFromEnvelope(&backend.Envelope{
		Token:                "abc",
		AccessTokenExpiresAt: "yesterday-ish",
	}, now)

	require.Equal(t, now.Add(24*time.Hour), pair.AccessExpiresAt)
}

func TestIssue_WritesBothCookies(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	expires := time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)
	Issue(w, TokenPair{
		AccessToken:      "abc",
		RefreshToken:     "def",
		AccessExpiresAt:  expires,
		RefreshExpiresAt: expires,
	}, true)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 2)

	byName := map[string]int{}
	for _, c := range cookies {
		byName[c.Name]++
		require.True(t, c.HttpOnly)
		require.True(t, c.Secure)
		require.Equal(t, "/", c.Path)
		require.Equal(t, expires.Unix(), c.Expires.Unix())
	}
	require.Equal(t, 1, byName[AccessCookie])
	require.Equal(t, 1, byName[RefreshCookie])
	for _, c := range cookies {
		switch c.Name {
		case AccessCookie:
			require.Equal(t, "abc", c.Value)
		case RefreshCookie:
			require.Equal(t, "def", c.Value)
		}
	}
}

func TestClear_EmptiesBothCookies(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	Clear(w, false)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 2)
	for _, c := range cookies {
		require.Empty(t, c.Value)
		require.True(t, c.HttpOnly)
		require.Equal(t, "/", c.Path)
		require.False(t, c.Expires.After(time.Unix(0, 0)))
	}
}

func TestAccessTokenFrom(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("GET", "/", nil)
	_, ok := AccessTokenFrom(r)
	require.False(t, ok)

	r.AddCookie(&http.Cookie{Name: AccessCookie, Value: "abc"})
	token, ok := AccessTokenFrom(r)
	require.True(t, ok)
	require.Equal(t, "abc", token)
}
