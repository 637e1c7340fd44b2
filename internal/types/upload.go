package types

import "time"

type Purpose string

const (
	PurposeResultVideo Purpose = "RESULT_VIDEO"
	PurposeThumbnail   Purpose = "THUMBNAIL"
	PurposeSourceVideo Purpose = "SOURCE_VIDEO"
)

func (p Purpose) Valid() bool {
	switch p {
	case PurposeResultVideo, PurposeThumbnail, PurposeSourceVideo:
		return true
	}
	return false
}

// Folder is the object key namespace for files of this purpose.
func (p Purpose) Folder() string {
	switch p {
	case PurposeThumbnail:
		return "thumbnails"
	case PurposeSourceVideo:
		return "sources"
	default:
		return "videos"
	}
}

// UploadGrant is a one-shot presigned upload. It is never persisted.
type UploadGrant struct {
	ObjectKey   string    `json:"key"`
	URL         string    `json:"url"`
	Purpose     Purpose   `json:"purpose"`
	ContentType string    `json:"content_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}
