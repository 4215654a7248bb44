package entities

import (
	"fmt"
	"time"
)

// Visibility controls who can see a status.
type Visibility string

const (
	VisibilityDirect   Visibility = "direct"
	VisibilityPrivate  Visibility = "private"
	VisibilityUnlisted Visibility = "unlisted"
	VisibilityPublic   Visibility = "public"
)

// UnmarshalText rejects values outside the four known visibilities.
func (v *Visibility) UnmarshalText(b []byte) error {
	switch s := Visibility(b); s {
	case VisibilityDirect, VisibilityPrivate, VisibilityUnlisted, VisibilityPublic:
		*v = s
		return nil
	default:
		return fmt.Errorf("unknown visibility %q", string(b))
	}
}

// Status is a single post.
type Status struct {
	ID                 ID           `json:"id" validate:"required"`
	URI                string       `json:"uri" validate:"required"`
	URL                *string      `json:"url,omitempty"`
	Account            Account      `json:"account"`
	InReplyToID        *ID          `json:"in_reply_to_id,omitempty"`
	InReplyToAccountID *ID          `json:"in_reply_to_account_id,omitempty"`
	Reblog             *Status      `json:"reblog,omitempty"`
	Content            string       `json:"content"`
	CreatedAt          time.Time    `json:"created_at"`
	ReblogsCount       uint64       `json:"reblogs_count"`
	FavouritesCount    uint64       `json:"favourites_count"`
	Reblogged          *bool        `json:"reblogged,omitempty"`
	Favourited         *bool        `json:"favourited,omitempty"`
	Muted              *bool        `json:"muted,omitempty"`
	Sensitive          bool         `json:"sensitive"`
	SpoilerText        string       `json:"spoiler_text"`
	Visibility         Visibility   `json:"visibility" validate:"required"`
	MediaAttachments   []Attachment `json:"media_attachments"`
	Mentions           []Mention    `json:"mentions"`
	Tags               []Tag        `json:"tags"`
	Application        *Application `json:"application,omitempty"`
	Language           *string      `json:"language,omitempty"`
}

// Mention is an account mentioned in a status.
type Mention struct {
	URL      string `json:"url"`
	Username string `json:"username"`
	Acct     string `json:"acct"`
	ID       ID     `json:"id"`
}

// Tag is a hashtag used in a status.
type Tag struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Application is the app a status was posted from.
type Application struct {
	Name    string  `json:"name"`
	Website *string `json:"website,omitempty"`
}

// Context is the thread surrounding a status.
type Context struct {
	Ancestors   []Status `json:"ancestors" validate:"required"`
	Descendants []Status `json:"descendants" validate:"required"`
}

// Card is the link preview attached to a status.
type Card struct {
	URL         string  `json:"url" validate:"required"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Image       *string `json:"image,omitempty"`
}
