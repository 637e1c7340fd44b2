package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/princekumarofficial/remix-service/internal/config"
	"github.com/princekumarofficial/remix-service/internal/services/lineage"
	"github.com/princekumarofficial/remix-service/internal/services/media/mediatest"
	"github.com/princekumarofficial/remix-service/internal/services/upload"
	"github.com/princekumarofficial/remix-service/internal/storage/memory"
	"github.com/princekumarofficial/remix-service/internal/types"
	"github.com/princekumarofficial/remix-service/internal/utils/jwt"
)

const (
	testSecret  = "test-secret"
	testAdminID = "admin-1"
)

type envelope struct {
	Status  string          `json:"status"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	handler   http.Handler
	store     *memory.Memory
	presigner  *mediatest.Presigner
	token      string
	adminToken string
}

func newTestServer(t *testing.T, redisClient *redis.Client) *testServer {
	t.Helper()
	store := memory.New()
	presigner := mediatest.New()

	token, err := jwt.CreateToken("user-1", testSecret)
	require.NoError(t, err)
	adminToken, err := jwt.CreateToken(testAdminID, testSecret)
	require.NoError(t, err)

	h := New(Deps{
		Users:        store,
		Uploads:      upload.NewService(store, presigner),
		Lineage:      lineage.NewService(store, presigner, lineage.DefaultReadTTL),
		JWTSecret:    testSecret,
		AdminUserIDs: []string{testAdminID},
		Redis:        redisClient,
		RateLimit:    config.RateLimit{UploadGrantsPerMinute: 2, UploadCompletePerMinute: 2},
	})
	return &testServer{handler: h, store: store, presigner: presigner, token: token, adminToken: adminToken}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, auth bool) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	token := ""
	if auth {
		token = s.token
	}
	return s.doWithToken(t, method, path, body, token)
}

func (s *testServer) doWithToken(t *testing.T, method, path string, body interface{}, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)

	var env envelope
	_ = json.Unmarshal(rr.Body.Bytes(), &env)
	return rr, env
}

func TestUploadAndLineageScenario(t *testing.T) {
	s := newTestServer(t, nil)

	rr, env := s.do(t, http.MethodPost, "/video-insert/upload-urls", map[string]interface{}{
		"files": []map[string]string{
			{"fileType": "video/mp4", "purpose": "SOURCE_VIDEO"},
			{"fileType": "image/jpeg", "purpose": "THUMBNAIL"},
		},
	}, true)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var grants []struct {
		Key string `json:"key"`
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &grants))
	require.Len(t, grants, 2)
	assert.Regexp(t, `^sources/.+\.mp4$`, grants[0].Key)
	assert.Regexp(t, `^thumbnails/.+\.jpg$`, grants[1].Key)
	assert.Equal(t, mediatest.URL("put", grants[0].Key, upload.UploadGrantTTL), grants[0].URL)

	rr, env = s.do(t, http.MethodPost, "/video-insert/complete", map[string]interface{}{
		"video_key":        grants[0].Key,
		"thumbnail_key":    grants[1].Key,
		"source_video_key": grants[0].Key,
	}, true)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var first types.VideoRecord
	require.NoError(t, json.Unmarshal(env.Data, &first))
	assert.Equal(t, 1, first.Depth)
	assert.Nil(t, first.ParentVideoID)
	assert.Equal(t, "user-1", first.UserID)

	rr, env = s.do(t, http.MethodPost, "/video-insert/complete", map[string]interface{}{
		"video_key":       "videos/remix.mp4",
		"thumbnail_key":   "thumbnails/remix.jpg",
		"parent_video_id": first.VideoID,
	}, true)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var second types.VideoRecord
	require.NoError(t, json.Unmarshal(env.Data, &second))
	assert.Equal(t, 2, second.Depth)

	rr, env = s.do(t, http.MethodGet, "/videos/"+second.VideoID+"/lineage", nil, false)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var ancestors []types.Ancestor
	require.NoError(t, json.Unmarshal(env.Data, &ancestors))
	require.Len(t, ancestors, 1)
	assert.Equal(t, first.VideoID, ancestors[0].VideoID)
	assert.Equal(t, mediatest.URL("get", grants[0].Key, lineage.DefaultReadTTL), ancestors[0].SourceVideoPresignedURL)

	rr, env = s.do(t, http.MethodGet, "/videos/"+second.VideoID+"/parent", nil, false)
	require.Equal(t, http.StatusOK, rr.Code)
	var parent types.ParentInfo
	require.NoError(t, json.Unmarshal(env.Data, &parent))
	assert.Equal(t, first.VideoID, parent.ParentVideoID)
	assert.Equal(t, 1, parent.Depth)

	rr, env = s.do(t, http.MethodGet, "/videos/"+first.VideoID+"/parent", nil, false)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "null", string(env.Data))
	assert.Contains(t, rr.Body.String(), `"data":null`)

	rr, env = s.do(t, http.MethodGet, "/videos/"+first.VideoID+"/remixes", nil, false)
	require.Equal(t, http.StatusOK, rr.Code)
	var remixes []types.VideoRecord
	require.NoError(t, json.Unmarshal(env.Data, &remixes))
	require.Len(t, remixes, 1)
	assert.Equal(t, second.VideoID, remixes[0].VideoID)

	rr, env = s.do(t, http.MethodGet, "/videos/"+first.VideoID+"/lineage", nil, false)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestCompleteWithUnknownParent(t *testing.T) {
	s := newTestServer(t, nil)

	rr, env := s.do(t, http.MethodPost, "/video-insert/complete", map[string]interface{}{
		"video_key":       "videos/a.mp4",
		"thumbnail_key":   "thumbnails/a.jpg",
		"parent_video_id": "nope",
	}, true)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, env.Error, "parent video not found")
	assert.Zero(t, s.store.Count())
}

func TestUploadURLsRejectsBadPurpose(t *testing.T) {
	s := newTestServer(t, nil)

	rr, _ := s.do(t, http.MethodPost, "/video-insert/upload-urls", map[string]interface{}{
		"files": []map[string]string{{"fileType": "video/mp4", "purpose": "AVATAR"}},
	}, true)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Zero(t, s.presigner.Calls)
}

func TestUploadURLsStorageUnavailable(t *testing.T) {
	s := newTestServer(t, nil)
	s.presigner.Fail = true

	rr, env := s.do(t, http.MethodPost, "/video-insert/upload-urls", map[string]interface{}{
		"files": []map[string]string{{"fileType": "video/mp4", "purpose": "RESULT_VIDEO"}},
	}, true)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Empty(t, env.Data)
}

func TestWriteRoutesRequireAuth(t *testing.T) {
	s := newTestServer(t, nil)

	rr, _ := s.do(t, http.MethodPost, "/video-insert/complete", map[string]interface{}{
		"video_key": "videos/a.mp4", "thumbnail_key": "thumbnails/a.jpg",
	}, false)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLineageInconsistentIsInternalError(t *testing.T) {
	s := newTestServer(t, nil)
	gone := "gone"
	s.store.Put(types.VideoRecord{VideoID: "orphan", ParentVideoID: &gone, Depth: 2})

	rr, env := s.do(t, http.MethodGet, "/videos/orphan/lineage", nil, false)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, types.ErrLineageInconsistent.Error(), env.Error)
}

func TestUnknownVideoIsNotFound(t *testing.T) {
	s := newTestServer(t, nil)

	for _, path := range []string{"/videos/missing", "/videos/missing/lineage", "/videos/missing/parent", "/videos/missing/remixes"} {
		rr, _ := s.do(t, http.MethodGet, path, nil, false)
		assert.Equal(t, http.StatusNotFound, rr.Code, path)
	}
}

func TestUploadURLsRateLimited(t *testing.T) {
	client, _ := newRedisClient(t)
	s := newTestServer(t, client)

	body := map[string]interface{}{
		"files": []map[string]string{{"fileType": "video/mp4", "purpose": "RESULT_VIDEO"}},
	}
	for i := 0; i < 2; i++ {
		rr, _ := s.do(t, http.MethodPost, "/video-insert/upload-urls", body, true)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "2", rr.Header().Get("X-RateLimit-Limit"))
	}

	rr, _ := s.do(t, http.MethodPost, "/video-insert/upload-urls", body, true)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

func TestSignUpAndLogin(t *testing.T) {
	s := newTestServer(t, nil)
	creds := map[string]string{"email": "a@example.com", "password": "hunter22"}

	rr, _ := s.do(t, http.MethodPost, "/signup", creds, false)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr, _ = s.do(t, http.MethodPost, "/signup", creds, false)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr, _ = s.do(t, http.MethodPost, "/login", creds, false)
	require.Equal(t, http.StatusOK, rr.Code)
	var out map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	userID, err := jwt.ExtractUserIDFromToken(out["token"], testSecret)
	require.NoError(t, err)
	assert.Equal(t, out["user_id"], userID)

	rr, _ = s.do(t, http.MethodPost, "/login", map[string]string{"email": "a@example.com", "password": "wrong-pass"}, false)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func newRedisClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestAdminRoutesRejectNonAdmins(t *testing.T) {
	client, _ := newRedisClient(t)
	s := newTestServer(t, client)

	rr, env := s.do(t, http.MethodDelete, "/admin/cache", nil, true)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "admin access required", env.Error)

	rr, _ = s.do(t, http.MethodGet, "/admin/cache/stats", nil, true)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr, _ = s.do(t, http.MethodDelete, "/admin/cache", nil, false)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr, _ = s.doWithToken(t, http.MethodGet, "/admin/cache/stats", nil, s.adminToken)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestClearCacheKeepsRateLimits(t *testing.T) {
	client, mr := newRedisClient(t)
	s := newTestServer(t, client)
	require.NoError(t, mr.Set("video:abc", "{}"))

	body := map[string]interface{}{
		"files": []map[string]string{{"fileType": "video/mp4", "purpose": "RESULT_VIDEO"}},
	}
	for i := 0; i < 2; i++ {
		rr, _ := s.do(t, http.MethodPost, "/video-insert/upload-urls", body, true)
		require.Equal(t, http.StatusOK, rr.Code)
	}
	rr, _ := s.do(t, http.MethodPost, "/video-insert/upload-urls", body, true)
	require.Equal(t, http.StatusTooManyRequests, rr.Code)

	// the limited user cannot clear anything
	rr, _ = s.do(t, http.MethodDelete, "/admin/cache?type=rate_limit", nil, true)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// an admin clears videos only, whatever type is asked for
	for _, q := range []string{"", "?type=rate_limit", "?type=all"} {
		rr, _ = s.doWithToken(t, http.MethodDelete, "/admin/cache"+q, nil, s.adminToken)
		require.Equal(t, http.StatusOK, rr.Code)
	}
	assert.False(t, mr.Exists("video:abc"))

	rr, _ = s.do(t, http.MethodPost, "/video-insert/upload-urls", body, true)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}
