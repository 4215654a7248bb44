package client

import (
	"github.com/google/uuid"
	"github.com/jmerrifield20/fedikit/pkg/entities"
)

// StatusBuilder is the payload for NewStatus. Zero-valued optional fields
// are left out of the request.
type StatusBuilder struct {
	Status      string              `json:"status"`
	InReplyToID uint64              `json:"in_reply_to_id,omitempty"`
	MediaIDs    []uint64            `json:"media_ids,omitempty"`
	Sensitive   *bool               `json:"sensitive,omitempty"`
	SpoilerText string              `json:"spoiler_text,omitempty"`
	Visibility  entities.Visibility `json:"visibility,omitempty"`

	// IdempotencyKey, when set, lets the service drop duplicate submissions
	// of the same status. It is sent as a header, not in the body.
	IdempotencyKey string `json:"-"`
}

// NewIdempotencyKey returns a random key suitable for
// StatusBuilder.IdempotencyKey. Reuse the same key when retrying a post.
func NewIdempotencyKey() string {
	return uuid.NewString()
}
