package backend

import (
	"encoding/json"
	"io"
	"strings"
)

// Envelope is the auth-shaped payload the backend returns from session
// issuing endpoints. Field names mirror the backend's PascalCase wire
// format. User stays raw; the gateway treats the projection as opaque.
type Envelope struct {
	Success               bool            `json:"Success"`
	Token                 string          `json:"Token"`
	RefreshToken          string          `json:"RefreshToken"`
	AccessTokenExpiresAt  string          `json:"AccessTokenExpiresAt"`
	RefreshTokenExpiresAt string          `json:"RefreshTokenExpiresAt"`
	User                  json.RawMessage `json:"User"`
	Message               string          `json:"Message"`
}

// Decoded is the result of a defensive body read. Backend bodies are
// not guaranteed to be JSON, so a failed parse degrades to the raw
// text instead of an error.
type Decoded struct {
	Envelope *Envelope
	Raw      string
}

// DecodeEnvelope reads the whole body and attempts an envelope parse.
func DecodeEnvelope(r io.Reader) Decoded {
	data, err := io.ReadAll(r)
	if err != nil {
		return Decoded{}
	}

	d := Decoded{Raw: string(data)}
	if len(data) == 0 {
		return d
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return d
	}
	d.Envelope = &env
	return d
}

// Message returns the most specific failure text available: the
// backend Message, then the raw body, then the caller's fallback.
func (d Decoded) Message(fallback string) string {
	if d.Envelope != nil && d.Envelope.Message != "" {
		return d.Envelope.Message
	}
	if strings.TrimSpace(d.Raw) != "" {
		return d.Raw
	}
	return fallback
}
