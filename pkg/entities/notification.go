package entities

import (
	"fmt"
	"time"
)

// NotificationType is the event a notification reports.
type NotificationType string

const (
	NotificationMention   NotificationType = "mention"
	NotificationReblog    NotificationType = "reblog"
	NotificationFavourite NotificationType = "favourite"
	NotificationFollow    NotificationType = "follow"
)

// UnmarshalText rejects notification types the client does not know.
func (t *NotificationType) UnmarshalText(b []byte) error {
	switch s := NotificationType(b); s {
	case NotificationMention, NotificationReblog, NotificationFavourite, NotificationFollow:
		*t = s
		return nil
	default:
		return fmt.Errorf("unknown notification type %q", string(b))
	}
}

// Notification is an event addressed to the authenticated user.
type Notification struct {
	ID        ID               `json:"id" validate:"required"`
	Type      NotificationType `json:"type" validate:"required"`
	CreatedAt time.Time        `json:"created_at"`
	Account   Account          `json:"account"`
	Status    *Status          `json:"status,omitempty"`
}
