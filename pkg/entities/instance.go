package entities

import (
	"encoding/json"
	"time"
)

// Instance describes the service instance itself.
type Instance struct {
	URI         string `json:"uri" validate:"required"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Email       string `json:"email"`
	Version     string `json:"version"`
}

// Report is an abuse report filed by the authenticated user.
type Report struct {
	ID          ID   `json:"id" validate:"required"`
	ActionTaken bool `json:"action_taken"`
}

// SearchResult is the response of the search endpoint. Hashtags are plain
// tag names without the leading '#'.
type SearchResult struct {
	Accounts []Account `json:"accounts" validate:"required"`
	Statuses []Status  `json:"statuses" validate:"required"`
	Hashtags []string  `json:"hashtags" validate:"required"`
}

// Empty is returned by endpoints that answer `{}` on success. Any JSON
// object decodes as Empty, so an `{"error":...}` body from one of these
// endpoints is reported as success rather than as an API error.
type Empty struct{}

// OAuthToken is the token endpoint's response. CreatedAt is sent on the wire
// as Unix seconds.
type OAuthToken struct {
	AccessToken string    `json:"access_token" validate:"required"`
	TokenType   string    `json:"token_type"`
	Scope       string    `json:"scope"`
	CreatedAt   time.Time `json:"created_at"`
}

type oauthTokenJSON struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Scope       string `json:"scope"`
	CreatedAt   int64  `json:"created_at"`
}

// UnmarshalJSON decodes created_at from Unix seconds.
func (t *OAuthToken) UnmarshalJSON(b []byte) error {
	var raw oauthTokenJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*t = OAuthToken{
		AccessToken: raw.AccessToken,
		TokenType:   raw.TokenType,
		Scope:       raw.Scope,
		CreatedAt:   time.Unix(raw.CreatedAt, 0).UTC(),
	}
	return nil
}

// MarshalJSON encodes created_at as Unix seconds.
func (t OAuthToken) MarshalJSON() ([]byte, error) {
	return json.Marshal(oauthTokenJSON{
		AccessToken: t.AccessToken,
		TokenType:   t.TokenType,
		Scope:       t.Scope,
		CreatedAt:   t.CreatedAt.Unix(),
	})
}
