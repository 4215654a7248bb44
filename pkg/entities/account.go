package entities

import "time"

// Account is a user profile on the service.
type Account struct {
	ID             ID        `json:"id" validate:"required"`
	Username       string    `json:"username" validate:"required"`
	Acct           string    `json:"acct" validate:"required"`
	DisplayName    string    `json:"display_name"`
	Note           string    `json:"note"`
	URL            string    `json:"url"`
	Avatar         string    `json:"avatar"`
	AvatarStatic   string    `json:"avatar_static,omitempty"`
	Header         string    `json:"header"`
	HeaderStatic   string    `json:"header_static,omitempty"`
	Locked         bool      `json:"locked"`
	CreatedAt      time.Time `json:"created_at"`
	FollowersCount uint64    `json:"followers_count"`
	FollowingCount uint64    `json:"following_count"`
	StatusesCount  uint64    `json:"statuses_count"`

	// Source is only present on the authenticated user's own account
	// (verify_credentials).
	Source *Source `json:"source,omitempty"`
}

// Source holds the raw profile fields an account was created with.
type Source struct {
	Privacy   *Visibility `json:"privacy,omitempty"`
	Sensitive *bool       `json:"sensitive,omitempty"`
	Note      string      `json:"note"`
	Fields    []Field     `json:"fields,omitempty"`
}

// Field is a profile metadata key/value pair.
type Field struct {
	Name       string     `json:"name"`
	Value      string     `json:"value"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
}

// Relationship describes how the authenticated user relates to another account.
type Relationship struct {
	ID         ID   `json:"id" validate:"required"`
	Following  bool `json:"following"`
	FollowedBy bool `json:"followed_by"`
	Blocking   bool `json:"blocking"`
	Muting     bool `json:"muting"`
	Requested  bool `json:"requested"`
}
