package google

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/SugaryLLC/sugary-web/internal/auth/provider"
	"github.com/SugaryLLC/sugary-web/internal/logger"
)

const (
	providerName = "google"
	issuerURL    = "https://accounts.google.com"
)

// Provider implements the server-side Google code flow. The exchanged
// ID token is not consumed here: it is handed back raw so the relay
// can forward it to the backend, which owns the actual sign-in.
type Provider struct {
	oauthConfig *oauth2.Config
	verifier    *oidc.IDTokenVerifier
}

func New(ctx context.Context, clientID, clientSecret, redirectURL string) (*Provider, error) {
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("google oauth config missing required fields")
	}

	oidcProvider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("init google oidc provider: %w", err)
	}

	return &Provider{
		verifier: oidcProvider.Verifier(&oidc.Config{ClientID: clientID}),
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     oidcProvider.Endpoint(),
			Scopes: []string{
				oidc.ScopeOpenID,
				"profile",
				"email",
			},
		},
	}, nil
}

// Name returns the provider identifier used by the registry.
func (p *Provider) Name() string {
	return providerName
}

// AuthCodeURL builds the OAuth authorization URL with PKCE parameters.
func (p *Provider) AuthCodeURL(state string, codeChallenge string) string {
	return p.oauthConfig.AuthCodeURL(
		state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

func (p *Provider) ExchangeCode(ctx context.Context, code, codeVerifier string) (*provider.Identity, error) {
	token, err := p.oauthConfig.Exchange(
		ctx,
		code,
		oauth2.SetAuthURLParam("code_verifier", codeVerifier),
	)
	if err != nil {
		return nil, fmt.Errorf("google token exchange failed: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("google did not return id_token")
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("google id_token verification failed: %w", err)
	}

	var claims struct {
		Subject    string `json:"sub"`
		Email      string `json:"email"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("google id_token claims parse failed: %w", err)
	}
	if claims.Subject == "" {
		return nil, errors.New("google id_token missing subject claim")
	}

	logger.FromContext(ctx).Infow("google oidc verified",
		"issuer", idToken.Issuer,
		"email_present", claims.Email != "",
		"expiry_unix", idToken.Expiry.Unix(),
	)

	return &provider.Identity{
		Provider:  providerName,
		Token:     rawIDToken,
		FirstName: claims.GivenName,
		LastName:  claims.FamilyName,
	}, nil
}

// Verifier checks ID tokens minted client-side by the Google Identity
// Services SDK before the relay forwards them.
type Verifier struct {
	verifier *oidc.IDTokenVerifier
}

func NewVerifier(ctx context.Context, clientID string) (*Verifier, error) {
	if clientID == "" {
		return nil, errors.New("google client id missing")
	}
	oidcProvider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("init google oidc provider: %w", err)
	}
	return &Verifier{
		verifier: oidcProvider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

func (v *Verifier) Verify(ctx context.Context, rawToken string) error {
	_, err := v.verifier.Verify(ctx, rawToken)
	return err
}
