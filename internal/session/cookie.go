package session

import (
	"net/http"
	"time"

	"github.com/SugaryLLC/sugary-web/internal/backend"
)

const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"
)

// Fallback lifetimes used when the backend omits expiry timestamps.
const (
	accessFallbackTTL  = 24 * time.Hour
	refreshFallbackTTL = 30 * 24 * time.Hour
)

// TokenPair is one backend-issued session: two opaque bearer tokens
// with absolute expiries. Pairs are only ever built from a successful
// backend response, so issuing one always overwrites both cookies from
// the same origin.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// PairFromEnvelope derives a TokenPair from a successful auth
// envelope. Missing or malformed expiries fall back to now+24h for the
// access token and now+30d for the refresh token.
func PairFromEnvelope(env *backend.Envelope, now time.Time) TokenPair {
	return TokenPair{
		AccessToken:      env.Token,
		RefreshToken:     env.RefreshToken,
		AccessExpiresAt:  parseExpiry(env.AccessTokenExpiresAt, now.Add(accessFallbackTTL)),
		RefreshExpiresAt: parseExpiry(env.RefreshTokenExpiresAt, now.Add(refreshFallbackTTL)),
	}
}

func parseExpiry(raw string, fallback time.Time) time.Time {
	if raw == "" {
		return fallback
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fallback
	}
	return t
}

// Issue writes both session cookies from one pair.
func Issue(w http.ResponseWriter, pair TokenPair, secure bool) {
	setCookie(w, AccessCookie, pair.AccessToken, pair.AccessExpiresAt, secure)
	setCookie(w, RefreshCookie, pair.RefreshToken, pair.RefreshExpiresAt, secure)
}

// Clear drops both session cookies. Logout is locally authoritative:
// this runs whether or not the backend leg succeeded.
func Clear(w http.ResponseWriter, secure bool) {
	setCookie(w, AccessCookie, "", time.Unix(0, 0), secure)
	setCookie(w, RefreshCookie, "", time.Unix(0, 0), secure)
}

// AccessTokenFrom reads the access token cookie off the request.
func AccessTokenFrom(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(AccessCookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func setCookie(w http.ResponseWriter, name, value string, expires time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
