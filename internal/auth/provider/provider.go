package provider

import "context"

// Identity is what a provider hands back after a completed code
// exchange: the raw token the backend relay forwards verbatim, plus
// the few profile claims the relay payload carries. Providers return
// identity facts only; session issuance stays with the relay service.
type Identity struct {
	Provider  string
	Token     string
	FirstName string
	LastName  string
}

// OAuthProvider is the contract for server-side code-flow providers.
type OAuthProvider interface {
	// Name returns the provider identifier (e.g. "google").
	Name() string

	// AuthCodeURL returns the OAuth authorization URL. State and PKCE
	// parameters are supplied by the caller.
	AuthCodeURL(state string, codeChallenge string) string

	// ExchangeCode trades the authorization code for provider
	// credentials and returns a normalized identity.
	ExchangeCode(ctx context.Context, code string, codeVerifier string) (*Identity, error)
}
