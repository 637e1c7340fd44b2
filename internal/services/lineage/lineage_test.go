package lineage

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/princekumarofficial/remix-service/internal/services/media/mediatest"
	"github.com/princekumarofficial/remix-service/internal/storage/memory"
	"github.com/princekumarofficial/remix-service/internal/types"
)

func ptr(s string) *string { return &s }

// seedChain inserts a root and n-1 successive remixes and returns them in
// insertion order (root first).
func seedChain(t *testing.T, store *memory.Memory, n int) []types.VideoRecord {
	t.Helper()
	var chain []types.VideoRecord
	var parentID *string
	for depth := 1; depth <= n; depth++ {
		rec, err := store.InsertVideo(context.Background(), types.VideoRecord{
			UserID:          fmt.Sprintf("user-%d", depth),
			ParentVideoID:   parentID,
			Depth:           depth,
			SourceVideoURL:  fmt.Sprintf("sources/%d.mp4", depth),
			ResultsVideoURL: fmt.Sprintf("videos/%d.mp4", depth),
			ThumbnailURL:    fmt.Sprintf("thumbnails/%d.jpg", depth),
		})
		require.NoError(t, err)
		chain = append(chain, rec)
		parentID = ptr(rec.VideoID)
	}
	return chain
}

func newTestService() (*Service, *memory.Memory, *mediatest.Presigner) {
	store := memory.New()
	presigner := mediatest.New()
	return NewService(store, presigner, DefaultReadTTL), store, presigner
}

func TestFindAncestorChain_FourLevels(t *testing.T) {
	svc, store, _ := newTestService()
	chain := seedChain(t, store, 4)

	ancestors, err := svc.FindAncestorChain(context.Background(), chain[3].VideoID)
	require.NoError(t, err)
	require.Len(t, ancestors, 3)

	for i, a := range ancestors {
		assert.Equal(t, chain[i].VideoID, a.VideoID, "ancestors must be root first")
		assert.Equal(t, i+1, a.Depth)
		assert.Equal(t, mediatest.URL("get", chain[i].SourceVideoURL, DefaultReadTTL), a.SourceVideoPresignedURL)
	}
}

func TestFindAncestorChain_Root(t *testing.T) {
	svc, store, presigner := newTestService()
	chain := seedChain(t, store, 1)

	ancestors, err := svc.FindAncestorChain(context.Background(), chain[0].VideoID)
	require.NoError(t, err)
	assert.NotNil(t, ancestors)
	assert.Empty(t, ancestors)
	assert.Zero(t, presigner.Calls)
}

func TestFindAncestorChain_NotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.FindAncestorChain(context.Background(), "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestFindAncestorChain_PresignsFreshEachCall(t *testing.T) {
	svc, store, presigner := newTestService()
	chain := seedChain(t, store, 3)

	for i := 0; i < 2; i++ {
		_, err := svc.FindAncestorChain(context.Background(), chain[2].VideoID)
		require.NoError(t, err)
	}
	assert.Equal(t, 4, presigner.Calls)
}

func TestFindAncestorChain_FallsBackToResultVideo(t *testing.T) {
	svc, store, _ := newTestService()
	root, err := store.InsertVideo(context.Background(), types.VideoRecord{
		UserID: "u", Depth: 1, ResultsVideoURL: "videos/root.mp4", ThumbnailURL: "thumbnails/root.jpg",
	})
	require.NoError(t, err)
	child, err := store.InsertVideo(context.Background(), types.VideoRecord{
		UserID: "u", Depth: 2, ParentVideoID: ptr(root.VideoID), ResultsVideoURL: "videos/child.mp4", ThumbnailURL: "thumbnails/child.jpg",
	})
	require.NoError(t, err)

	ancestors, err := svc.FindAncestorChain(context.Background(), child.VideoID)
	require.NoError(t, err)
	require.Len(t, ancestors, 1)
	assert.Equal(t, mediatest.URL("get", "videos/root.mp4", DefaultReadTTL), ancestors[0].SourceVideoPresignedURL)
}

func TestFindAncestorChain_Inconsistent(t *testing.T) {
	tests := []struct {
		name    string
		records []types.VideoRecord
		start   string
	}{
		{
			name: "dangling parent",
			records: []types.VideoRecord{
				{VideoID: "b", ParentVideoID: ptr("gone"), Depth: 2},
			},
			start: "b",
		},
		{
			name: "more hops than depth allows",
			records: []types.VideoRecord{
				{VideoID: "a", Depth: 1},
				{VideoID: "b", ParentVideoID: ptr("a"), Depth: 1},
			},
			start: "b",
		},
		{
			name: "parent depth skips a level",
			records: []types.VideoRecord{
				{VideoID: "a", Depth: 1},
				{VideoID: "b", ParentVideoID: ptr("a"), Depth: 3},
			},
			start: "b",
		},
		{
			name: "root with depth above one",
			records: []types.VideoRecord{
				{VideoID: "a", Depth: 2},
			},
			start: "a",
		},
		{
			name: "cycle",
			records: []types.VideoRecord{
				{VideoID: "a", ParentVideoID: ptr("b"), Depth: 5},
				{VideoID: "b", ParentVideoID: ptr("a"), Depth: 4},
			},
			start: "a",
		},
		{
			name: "self parent",
			records: []types.VideoRecord{
				{VideoID: "a", ParentVideoID: ptr("a"), Depth: 3},
			},
			start: "a",
		},
		{
			name: "depth below one",
			records: []types.VideoRecord{
				{VideoID: "a", Depth: 0},
			},
			start: "a",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, store, _ := newTestService()
			for _, rec := range tc.records {
				store.Put(rec)
			}

			ancestors, err := svc.FindAncestorChain(context.Background(), tc.start)
			assert.ErrorIs(t, err, types.ErrLineageInconsistent)
			assert.Nil(t, ancestors)
		})
	}
}

func TestFindAncestorChain_StorageUnavailable(t *testing.T) {
	svc, store, presigner := newTestService()
	chain := seedChain(t, store, 3)
	presigner.Fail = true

	_, err := svc.FindAncestorChain(context.Background(), chain[2].VideoID)
	assert.ErrorIs(t, err, types.ErrStorageUnavailable)
}

func TestFindParentInfo(t *testing.T) {
	svc, store, _ := newTestService()
	chain := seedChain(t, store, 3)

	info, err := svc.FindParentInfo(context.Background(), chain[2].VideoID)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, chain[1].VideoID, info.ParentVideoID)
	assert.Equal(t, 2, info.Depth)
	assert.Equal(t, mediatest.URL("get", chain[1].SourceVideoURL, DefaultReadTTL), info.SourceVideoPresignedURL)
}

func TestFindParentInfo_Root(t *testing.T) {
	svc, store, _ := newTestService()
	chain := seedChain(t, store, 1)

	info, err := svc.FindParentInfo(context.Background(), chain[0].VideoID)
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestFindParentInfo_Errors(t *testing.T) {
	svc, store, _ := newTestService()
	store.Put(types.VideoRecord{VideoID: "orphan", ParentVideoID: ptr("gone"), Depth: 2})

	_, err := svc.FindParentInfo(context.Background(), "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = svc.FindParentInfo(context.Background(), "orphan")
	assert.ErrorIs(t, err, types.ErrLineageInconsistent)
}

func TestGetVideo(t *testing.T) {
	svc, store, _ := newTestService()
	chain := seedChain(t, store, 1)

	view, err := svc.GetVideo(context.Background(), chain[0].VideoID)
	require.NoError(t, err)
	assert.Equal(t, chain[0].VideoID, view.VideoID)
	assert.Equal(t, mediatest.URL("get", "videos/1.mp4", DefaultReadTTL), view.ResultsVideoPresignedURL)
	assert.Equal(t, mediatest.URL("get", "thumbnails/1.jpg", DefaultReadTTL), view.ThumbnailPresignedURL)
}

func TestListRemixes(t *testing.T) {
	svc, store, _ := newTestService()
	chain := seedChain(t, store, 2)
	sibling, err := store.InsertVideo(context.Background(), types.VideoRecord{
		UserID: "u", Depth: 2, ParentVideoID: ptr(chain[0].VideoID), ResultsVideoURL: "videos/s.mp4", ThumbnailURL: "thumbnails/s.jpg",
	})
	require.NoError(t, err)

	remixes, err := svc.ListRemixes(context.Background(), chain[0].VideoID)
	require.NoError(t, err)
	require.Len(t, remixes, 2)
	assert.Equal(t, chain[1].VideoID, remixes[0].VideoID)
	assert.Equal(t, sibling.VideoID, remixes[1].VideoID)

	leaf, err := svc.ListRemixes(context.Background(), sibling.VideoID)
	require.NoError(t, err)
	assert.Empty(t, leaf)

	_, err = svc.ListRemixes(context.Background(), "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
}
