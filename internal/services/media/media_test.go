package media

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/princekumarofficial/remix-service/internal/config"
	"github.com/princekumarofficial/remix-service/internal/types"
)

func TestGenerateObjectKey(t *testing.T) {
	tests := []struct {
		purpose     types.Purpose
		contentType string
		prefix      string
		suffix      string
	}{
		{types.PurposeResultVideo, "video/mp4", "videos/", ".mp4"},
		{types.PurposeSourceVideo, "video/quicktime", "sources/", ".mov"},
		{types.PurposeThumbnail, "image/jpeg", "thumbnails/", ".jpg"},
		{types.PurposeThumbnail, "image/png; charset=binary", "thumbnails/", ".png"},
	}

	for _, tc := range tests {
		key := GenerateObjectKey(tc.purpose, tc.contentType)
		assert.True(t, strings.HasPrefix(key, tc.prefix), key)
		assert.True(t, strings.HasSuffix(key, tc.suffix), key)
	}

	assert.NotEqual(t,
		GenerateObjectKey(types.PurposeResultVideo, "video/mp4"),
		GenerateObjectKey(types.PurposeResultVideo, "video/mp4"))
}

func testStorageConfig() config.ObjectStorage {
	return config.ObjectStorage{
		Endpoint:        "localhost:9000",
		AccessKeyID:     "test-access",
		SecretAccessKey: "test-secret",
		BucketName:      "remix-media",
		Region:          "us-east-1",
	}
}

func TestS3Presigner(t *testing.T) {
	ctx := context.Background()
	p, err := NewS3(ctx, testStorageConfig())
	require.NoError(t, err)

	putURL, err := p.PresignPut(ctx, "videos/abc.mp4", "video/mp4", 5*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(putURL)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/remix-media/videos/abc.mp4", u.Path)
	assert.Equal(t, "300", u.Query().Get("X-Amz-Expires"))
	assert.Contains(t, u.Query().Get("X-Amz-SignedHeaders"), "content-type")

	getURL, err := p.PresignGet(ctx, "sources/abc.mp4", time.Hour)
	require.NoError(t, err)
	u, err = url.Parse(getURL)
	require.NoError(t, err)
	assert.Equal(t, "/remix-media/sources/abc.mp4", u.Path)
	assert.Equal(t, "3600", u.Query().Get("X-Amz-Expires"))
}

func TestMinIOPresigner(t *testing.T) {
	cfg := testStorageConfig()
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Region: cfg.Region,
	})
	require.NoError(t, err)
	p := &MinIO{client: client, bucketName: cfg.BucketName}
	ctx := context.Background()

	putURL, err := p.PresignPut(ctx, "videos/abc.mp4", "video/mp4", 5*time.Minute)
	require.NoError(t, err)
	u, err := url.Parse(putURL)
	require.NoError(t, err)
	assert.Equal(t, "/remix-media/videos/abc.mp4", u.Path)
	assert.Equal(t, "300", u.Query().Get("X-Amz-Expires"))
	assert.Contains(t, u.Query().Get("X-Amz-SignedHeaders"), "content-type")

	getURL, err := p.PresignGet(ctx, "videos/abc.mp4", time.Hour)
	require.NoError(t, err)
	u, err = url.Parse(getURL)
	require.NoError(t, err)
	assert.Equal(t, "3600", u.Query().Get("X-Amz-Expires"))
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := &config.Config{ObjectStorage: config.ObjectStorage{Driver: "ftp"}}
	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}
