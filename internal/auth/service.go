package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/SugaryLLC/sugary-web/internal/backend"
	"github.com/SugaryLLC/sugary-web/internal/logger"
	"github.com/SugaryLLC/sugary-web/internal/session"
)

// Credentials is the credentialed login request. GuestUserId carries
// the anonymous account across the upgrade so the backend can merge
// guest-owned data into the signed-in account.
type Credentials struct {
	UserName    string `json:"UserName"`
	Password    string `json:"Password"`
	GuestUserId string `json:"GuestUserId,omitempty"`
}

type SignupRequest struct {
	FirstName   string `json:"FirstName"`
	LastName    string `json:"LastName"`
	Email       string `json:"Email"`
	Password    string `json:"Password"`
	GuestUserId string `json:"GuestUserId"`
	Avatar      string `json:"Avatar,omitempty"`
}

// SocialPayload relays a provider-issued identity token to the
// backend. The OAuth handshake that produced the token happened
// elsewhere (client SDK or the server-side code flow).
type SocialPayload struct {
	Provider    string `json:"Provider"`
	Token       string `json:"Token"`
	FirstName   string `json:"FirstName,omitempty"`
	LastName    string `json:"LastName,omitempty"`
	GuestUserId string `json:"GuestUserId,omitempty"`
	IsWeb       *bool  `json:"IsWeb"`
	DeviceInfo  any    `json:"DeviceInfo"`
}

// SocialTokenVerifier checks a provider-issued token locally before it
// is relayed. Implementations must be side-effect free.
type SocialTokenVerifier interface {
	Verify(ctx context.Context, rawToken string) error
}

// Service implements the relay auth actions. It owns no state: every
// action is a single backend round trip mapped onto a Result.
type Service struct {
	backend        *backend.Client
	googleVerifier SocialTokenVerifier
	now            func() time.Time
}

type Option func(*Service)

// WithGoogleVerifier enables local verification of Google ID tokens
// before they are forwarded.
func WithGoogleVerifier(v SocialTokenVerifier) Option {
	return func(s *Service) { s.googleVerifier = v }
}

// WithClock overrides the issuance clock used for cookie expiry
// fallbacks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(client *backend.Client, opts ...Option) *Service {
	s := &Service{
		backend: client,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateGuest provisions an anonymous backend account so visitors
// without a session still get a usable token pair.
func (s *Service) CreateGuest(ctx context.Context) Result {
	return s.authCall(ctx, http.MethodPost, "/Account/Guest", nil, "Failed to create guest user")
}

func (s *Service) Login(ctx context.Context, creds Credentials) Result {
	return s.authCall(ctx, http.MethodPost, "/Auth/Login", creds, "Login failed")
}

func (s *Service) Signup(ctx context.Context, req SignupRequest) Result {
	return s.authCall(ctx, http.MethodPost, "/Account/SignUp", req, "Signup failed")
}

// SocialLogin relays a provider token. Google tokens are verified
// locally first when a verifier is configured; everything else is
// forwarded opaquely for the backend to judge.
func (s *Service) SocialLogin(ctx context.Context, payload SocialPayload) Result {
	if payload.IsWeb == nil {
		isWeb := true
		payload.IsWeb = &isWeb
	}

	if payload.Provider == "google" && s.googleVerifier != nil {
		if err := s.googleVerifier.Verify(ctx, payload.Token); err != nil {
			logger.FromContext(ctx).Warnw("google token rejected", "err", err.Error())
			return failure(KindUpstreamLogical, http.StatusUnauthorized, "Google token could not be verified")
		}
	}

	return s.authCall(ctx, http.MethodPost, "/Auth/Social/Login", payload, payload.Provider+" login failed")
}

// Logout tells the backend to drop the session. The contract is
// best-effort: callers clear cookies no matter what, so every failure
// collapses into a log line.
func (s *Service) Logout(ctx context.Context, accessToken string) {
	opts := []backend.RequestOption{}
	if accessToken != "" {
		opts = append(opts, backend.WithBearer(accessToken))
	}

	resp, err := s.backend.Do(ctx, http.MethodGet, "/Auth/Logout", nil, opts...)
	if err != nil {
		logger.FromContext(ctx).Warnw("backend logout failed", "err", err.Error())
		return
	}
	defer resp.Body.Close()

	dec := backend.DecodeEnvelope(resp.Body)
	if resp.StatusCode >= 300 || dec.Envelope == nil || !dec.Envelope.Success {
		logger.FromContext(ctx).Warnw("backend logout not acknowledged",
			"status", resp.StatusCode,
		)
	}
}

// CurrentUser fetches the user projection for an access token. An
// empty token short-circuits to a failure without touching the
// network.
func (s *Service) CurrentUser(ctx context.Context, accessToken string) Result {
	if accessToken == "" {
		return failure(KindNoSession, 0, "No access token found")
	}

	resp, err := s.backend.Do(ctx, http.MethodGet, "/Account/GetUser", nil, backend.WithBearer(accessToken))
	if err != nil {
		return s.transportFailure(err)
	}
	defer resp.Body.Close()

	dec := backend.DecodeEnvelope(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return failure(KindUpstreamHTTP, resp.StatusCode, dec.Message("Failed to get user data"))
	}

	// GetUser returns the bare projection, not the auth envelope.
	var u User
	if err := json.Unmarshal([]byte(dec.Raw), &u); err != nil {
		return failure(KindParse, resp.StatusCode, "Failed to get user data")
	}
	return Result{Success: true, Status: resp.StatusCode, User: &u}
}

// ForgotPassword asks the backend to mail a reset link. No session is
// involved.
func (s *Service) ForgotPassword(ctx context.Context, email string) Result {
	q := url.Values{
		"email":    {email},
		"userType": {"customer"},
	}
	return s.authCall(ctx, http.MethodGet, "/Account/SendPassResetLink", nil,
		"Failed to send reset link", backend.WithQuery(q))
}

// authCall is the shared request/response mapping behind every
// envelope-shaped action. Cookie material (the Pair) is derived only
// after the response parsed as a success.
func (s *Service) authCall(ctx context.Context, method, path string, body any, fallbackMsg string, opts ...backend.RequestOption) Result {
	resp, err := s.backend.Do(ctx, method, path, body, opts...)
	if err != nil {
		return s.transportFailure(err)
	}
	defer resp.Body.Close()

	dec := backend.DecodeEnvelope(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return failure(KindUpstreamHTTP, resp.StatusCode, dec.Message(fallbackMsg))
	}
	if dec.Envelope == nil {
		return failure(KindParse, resp.StatusCode, dec.Message(fallbackMsg))
	}
	if !dec.Envelope.Success {
		return failure(KindUpstreamLogical, resp.StatusCode, dec.Message(fallbackMsg))
	}

	res := Result{Success: true, Status: resp.StatusCode}
	if len(dec.Envelope.User) > 0 {
		var u User
		if err := json.Unmarshal(dec.Envelope.User, &u); err == nil {
			res.User = &u
		}
	}
	if dec.Envelope.Token != "" {
		pair := session.PairFromEnvelope(dec.Envelope, s.now())
		res.Pair = &pair
	}
	return res
}

func (s *Service) transportFailure(err error) Result {
	if errors.Is(err, backend.ErrNotConfigured) {
		return failure(KindConfigMissing, 0, "Backend base URL is not configured")
	}
	return failure(KindNetwork, 0, err.Error())
}
