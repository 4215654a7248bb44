package entities

// AttachmentType is the media kind of an attachment. Values the client does
// not recognise decode as AttachmentUnknown.
type AttachmentType string

const (
	AttachmentImage   AttachmentType = "image"
	AttachmentVideo   AttachmentType = "video"
	AttachmentGifv    AttachmentType = "gifv"
	AttachmentUnknown AttachmentType = "unknown"
)

// UnmarshalText maps unrecognised values to AttachmentUnknown.
func (t *AttachmentType) UnmarshalText(b []byte) error {
	switch s := AttachmentType(b); s {
	case AttachmentImage, AttachmentVideo, AttachmentGifv:
		*t = s
	default:
		*t = AttachmentUnknown
	}
	return nil
}

// Attachment is an uploaded media file.
type Attachment struct {
	ID          ID             `json:"id" validate:"required"`
	Type        AttachmentType `json:"type" validate:"required"`
	URL         string         `json:"url" validate:"required"`
	RemoteURL   *string        `json:"remote_url,omitempty"`
	PreviewURL  string         `json:"preview_url"`
	TextURL     *string        `json:"text_url,omitempty"`
	Description *string        `json:"description,omitempty"`
}
