package routes

import (
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/princekumarofficial/remix-service/docs"
	"github.com/princekumarofficial/remix-service/internal/cache"
	"github.com/princekumarofficial/remix-service/internal/config"
	"github.com/princekumarofficial/remix-service/internal/http/handlers/users"
	"github.com/princekumarofficial/remix-service/internal/http/handlers/videos"
	"github.com/princekumarofficial/remix-service/internal/http/middleware"
	"github.com/princekumarofficial/remix-service/internal/storage"
)

type Deps struct {
	Users        storage.UserStore
	Uploads      videos.Uploader
	Lineage      videos.LineageResolver
	JWTSecret    string
	AdminUserIDs []string
	// Redis enables rate limiting and the cache admin routes when set.
	Redis     *redis.Client
	RateLimit config.RateLimit
}

func New(d Deps) http.Handler {
	router := http.NewServeMux()
	auth := middleware.AuthMiddleware(d.JWTSecret)
	vh := videos.NewVideoHandlers(d.Uploads, d.Lineage)

	limited := func(action string, h http.Handler) http.Handler { return h }
	if d.Redis != nil {
		rl := middleware.NewRateLimitConfig(d.Redis, d.RateLimit)
		limited = rl.RateLimitedHandler
	}

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	router.Handle("GET /metrics", promhttp.Handler())
	router.Handle("GET /swagger/", httpSwagger.WrapHandler)

	router.HandleFunc("POST /signup", users.SignUp(d.Users))
	router.HandleFunc("POST /login", users.Login(d.Users, d.JWTSecret))

	router.Handle("POST /video-insert/upload-urls",
		auth(limited(middleware.ActionUploadGrants, vh.UploadURLs())))
	router.Handle("POST /video-insert/complete",
		auth(limited(middleware.ActionUploadComplete, vh.Complete())))

	router.HandleFunc("GET /videos/{id}", vh.GetVideo())
	router.HandleFunc("GET /videos/{id}/parent", vh.Parent())
	router.HandleFunc("GET /videos/{id}/lineage", vh.Lineage())
	router.HandleFunc("GET /videos/{id}/remixes", vh.Remixes())

	if d.Redis != nil {
		admin := func(h http.Handler) http.Handler {
			return auth(middleware.RequireAdmin(d.AdminUserIDs)(h))
		}
		router.Handle("GET /admin/cache/stats", admin(cache.GetCacheStats(d.Redis)))
		router.Handle("DELETE /admin/cache", admin(cache.ClearCache(d.Redis)))
	}

	return middleware.Logging(router)
}
