package auth

import "github.com/SugaryLLC/sugary-web/internal/session"

// FailureKind classifies why a relay action failed.
type FailureKind string

const (
	KindNone            FailureKind = ""
	KindConfigMissing   FailureKind = "config_missing"   // required configuration absent, no network attempted
	KindNoSession       FailureKind = "no_session"       // action requires an access token and none was present
	KindNetwork         FailureKind = "network"          // transport-level exception
	KindUpstreamHTTP    FailureKind = "upstream_http"    // backend answered non-2xx
	KindUpstreamLogical FailureKind = "upstream_logical" // backend answered 2xx with Success:false
	KindParse           FailureKind = "parse"            // backend body was not usable JSON
)

// Result is the uniform outcome of every relay action. Failures are
// values: no action returns a Go error or panics across the HTTP
// boundary. Status holds the backend HTTP status (0 when the call
// never completed).
type Result struct {
	Success bool        `json:"success"`
	Status  int         `json:"status,omitempty"`
	Message string      `json:"message,omitempty"`
	Kind    FailureKind `json:"-"`
	User    *User       `json:"user,omitempty"`

	// Pair is populated only when the backend issued a session. It
	// never reaches the response body; handlers turn it into cookies
	// strictly after the response was parsed as a success.
	Pair *session.TokenPair `json:"-"`
}

func failure(kind FailureKind, status int, message string) Result {
	return Result{Status: status, Message: message, Kind: kind}
}
