package types

import "time"

// VideoRecord is a persisted video. ParentVideoID and Depth are fixed at
// creation: Depth is 1 for a root and parent.Depth+1 otherwise.
type VideoRecord struct {
	VideoID         string    `json:"video_id" db:"video_id"`
	UserID          string    `json:"user_id" db:"user_id"`
	ParentVideoID   *string   `json:"parent_video_id" db:"parent_video_id"`
	Depth           int       `json:"depth" db:"depth"`
	SourceVideoURL  string    `json:"source_video_url" db:"source_video_url"`
	ResultsVideoURL string    `json:"results_video_url" db:"results_video_url"`
	ThumbnailURL    string    `json:"thumbnail_url" db:"thumbnail_url"`
	LikeCount       int64     `json:"like_count" db:"like_count"`
	CommentCount    int64     `json:"comment_count" db:"comment_count"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// IsRoot reports whether the video was not derived from another one.
func (v VideoRecord) IsRoot() bool {
	return v.ParentVideoID == nil
}

// SourceKey returns the object key replayed as this video's source.
// Videos uploaded without a separate source fall back to the result video.
func (v VideoRecord) SourceKey() string {
	if v.SourceVideoURL != "" {
		return v.SourceVideoURL
	}
	return v.ResultsVideoURL
}

// ParentInfo describes the immediate parent of a video.
type ParentInfo struct {
	ParentVideoID           string `json:"parent_video_id"`
	Depth                   int    `json:"depth"`
	SourceVideoPresignedURL string `json:"source_video_presigned_url"`
}

// Ancestor is one entry of a lineage, listed root first.
type Ancestor struct {
	VideoID                 string    `json:"video_id"`
	UserID                  string    `json:"user_id"`
	Depth                   int       `json:"depth"`
	SourceVideoPresignedURL string    `json:"source_video_presigned_url"`
	CreatedAt               time.Time `json:"created_at"`
}

// DepthViolation is a stored record whose depth disagrees with its parentage.
type DepthViolation struct {
	VideoID       string  `json:"video_id" db:"video_id"`
	ParentVideoID *string `json:"parent_video_id" db:"parent_video_id"`
	Depth         int     `json:"depth" db:"depth"`
	ParentDepth   *int    `json:"parent_depth" db:"parent_depth"`
}
