package storage

import (
	"context"

	"github.com/princekumarofficial/remix-service/internal/types"
)

// VideoStore persists video records. Lookups of missing rows return
// types.ErrNotFound.
type VideoStore interface {
	GetVideoByID(ctx context.Context, videoID string) (types.VideoRecord, error)
	// InsertVideo stores rec and returns it with VideoID and CreatedAt filled in.
	InsertVideo(ctx context.Context, rec types.VideoRecord) (types.VideoRecord, error)
	ListChildVideos(ctx context.Context, parentVideoID string) ([]types.VideoRecord, error)
	FindDepthViolations(ctx context.Context, limit int) ([]types.DepthViolation, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, email, password string) (string, error)
	GetUserByEmail(ctx context.Context, email string) (string, string, error)
}

type Storage interface {
	VideoStore
	UserStore
}
