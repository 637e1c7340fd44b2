package media

import (
	"context"
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/princekumarofficial/remix-service/internal/config"
	"github.com/princekumarofficial/remix-service/internal/types"
)

// Presigner issues short-lived URLs for direct object storage access.
// Implementations hold a read-only signing credential and keep no
// connection or lock beyond a single call.
type Presigner interface {
	PresignPut(ctx context.Context, objectKey, contentType string, ttl time.Duration) (string, error)
	PresignGet(ctx context.Context, objectKey string, ttl time.Duration) (string, error)
}

// New builds the presigner selected by cfg.ObjectStorage.Driver.
func New(ctx context.Context, cfg *config.Config) (Presigner, error) {
	switch cfg.ObjectStorage.Driver {
	case "", "minio":
		return NewMinIO(ctx, cfg.ObjectStorage)
	case "s3":
		return NewS3(ctx, cfg.ObjectStorage)
	default:
		return nil, fmt.Errorf("unknown object storage driver %q", cfg.ObjectStorage.Driver)
	}
}

var knownExtensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"video/mp4":       ".mp4",
	"video/mpeg":      ".mpeg",
	"video/quicktime": ".mov",
	"video/webm":      ".webm",
}

func extensionFor(contentType string) string {
	base := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	if ext, ok := knownExtensions[base]; ok {
		return ext
	}
	extensions, err := mime.ExtensionsByType(base)
	if err == nil && len(extensions) > 0 {
		return extensions[0]
	}
	return ""
}

// GenerateObjectKey creates a fresh key such as "videos/<uuid>.mp4".
// Keys are never reused.
func GenerateObjectKey(purpose types.Purpose, contentType string) string {
	return fmt.Sprintf("%s/%s%s", purpose.Folder(), uuid.New().String(), extensionFor(contentType))
}
