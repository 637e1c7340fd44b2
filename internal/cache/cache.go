package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/princekumarofficial/remix-service/internal/storage"
	"github.com/princekumarofficial/remix-service/internal/types"
)

// VideoCache wraps a video store with a Redis read-through cache.
// Parentage and depth never change after insert, so cached records are safe
// for lineage walks; only the like/comment counters may lag by up to the TTL.
type VideoCache struct {
	storage.VideoStore
	redis *redis.Client
	ttl   time.Duration
}

// Cache key patterns
const (
	VideoKey = "video:%s" // video:videoID
)

const DefaultVideoCacheDuration = 10 * time.Minute

func NewVideoCache(store storage.VideoStore, redisClient *redis.Client, ttl time.Duration) *VideoCache {
	if ttl <= 0 {
		ttl = DefaultVideoCacheDuration
	}
	return &VideoCache{
		VideoStore: store,
		redis:      redisClient,
		ttl:        ttl,
	}
}

// GetVideoByID returns the cached record or fetches it from the store.
func (c *VideoCache) GetVideoByID(ctx context.Context, videoID string) (types.VideoRecord, error) {
	key := fmt.Sprintf(VideoKey, videoID)

	cached, err := c.redis.Get(ctx, key).Result()
	if err == nil {
		var rec types.VideoRecord
		if err := json.Unmarshal([]byte(cached), &rec); err == nil {
			return rec, nil
		}
	} else if err != redis.Nil {
		slog.Warn("Video cache read failed", slog.String("video_id", videoID), slog.String("error", err.Error()))
	}

	// Cache miss - fetch from database
	rec, err := c.VideoStore.GetVideoByID(ctx, videoID)
	if err != nil {
		return rec, err
	}

	c.cacheVideo(ctx, rec)
	return rec, nil
}

func (c *VideoCache) InsertVideo(ctx context.Context, rec types.VideoRecord) (types.VideoRecord, error) {
	created, err := c.VideoStore.InsertVideo(ctx, rec)
	if err != nil {
		return created, err
	}

	c.cacheVideo(ctx, created)
	return created, nil
}

// InvalidateVideo drops a cached record, e.g. after its counters changed.
func (c *VideoCache) InvalidateVideo(ctx context.Context, videoID string) error {
	return c.redis.Del(ctx, fmt.Sprintf(VideoKey, videoID)).Err()
}

func (c *VideoCache) cacheVideo(ctx context.Context, rec types.VideoRecord) {
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, fmt.Sprintf(VideoKey, rec.VideoID), data, c.ttl).Err(); err != nil {
		slog.Warn("Video cache write failed", slog.String("video_id", rec.VideoID), slog.String("error", err.Error()))
	}
}
