package cache

import (
	"fmt"
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/princekumarofficial/remix-service/internal/utils/response"
)

// CacheStats represents cache statistics
type CacheStats struct {
	RedisConnected bool     `json:"redis_connected"`
	VideoKeys      []string `json:"video_keys_sample"`
	VideoKeyCount  int      `json:"video_keys"`
	KeyCount       int64    `json:"total_keys"`
}

// GetCacheStats returns cache statistics
// @Summary Cache statistics
// @Tags admin
// @Produce json
// @Success 200 {object} response.Response "Cache stats retrieved"
// @Failure 403 {object} response.Response "Admin access required"
// @Security BearerAuth
// @Router /admin/cache/stats [get]
func GetCacheStats(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		stats := CacheStats{RedisConnected: true}

		if err := redisClient.Ping(ctx).Err(); err != nil {
			stats.RedisConnected = false
			response.WriteJSON(w, http.StatusOK, response.RequestOK("Cache stats retrieved", stats))
			return
		}

		keys := redisClient.Keys(ctx, fmt.Sprintf(VideoKey, "*"))
		if keys.Err() == nil {
			stats.VideoKeyCount = len(keys.Val())
			stats.VideoKeys = keys.Val()[:min(len(keys.Val()), 10)]
		}

		dbSize := redisClient.DBSize(ctx)
		if dbSize.Err() == nil {
			stats.KeyCount = dbSize.Val()
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Cache stats retrieved", stats))
	}
}

// ClearCache deletes every cached video record. Rate limit buckets are
// never touched.
// @Summary Clear video cache
// @Tags admin
// @Produce json
// @Success 200 {object} response.Response "Cache cleared successfully"
// @Failure 403 {object} response.Response "Admin access required"
// @Failure 500 {object} response.Response "Internal server error"
// @Security BearerAuth
// @Router /admin/cache [delete]
func ClearCache(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		pattern := fmt.Sprintf(VideoKey, "*")

		keys := redisClient.Keys(ctx, pattern)
		if keys.Err() != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(keys.Err()))
			return
		}

		var deleted int64
		if len(keys.Val()) > 0 {
			res := redisClient.Del(ctx, keys.Val()...)
			if res.Err() != nil {
				response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(res.Err()))
				return
			}
			deleted = res.Val()
		}

		result := map[string]interface{}{
			"pattern":      pattern,
			"deleted_keys": deleted,
		}
		response.WriteJSON(w, http.StatusOK, response.RequestOK("Cache cleared successfully", result))
	}
}
