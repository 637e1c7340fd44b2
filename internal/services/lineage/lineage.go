package lineage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/princekumarofficial/remix-service/internal/metrics"
	"github.com/princekumarofficial/remix-service/internal/services/media"
	"github.com/princekumarofficial/remix-service/internal/storage"
	"github.com/princekumarofficial/remix-service/internal/types"
)

const DefaultReadTTL = time.Hour

type Service struct {
	videos    storage.VideoStore
	presigner media.Presigner
	readTTL   time.Duration
}

// VideoView is a record with download URLs for its artifacts.
type VideoView struct {
	types.VideoRecord
	ResultsVideoPresignedURL string `json:"results_video_presigned_url"`
	ThumbnailPresignedURL    string `json:"thumbnail_presigned_url"`
}

func NewService(videos storage.VideoStore, presigner media.Presigner, readTTL time.Duration) *Service {
	if readTTL <= 0 {
		readTTL = DefaultReadTTL
	}
	return &Service{
		videos:    videos,
		presigner: presigner,
		readTTL:   readTTL,
	}
}

// FindParentInfo returns the immediate parent of videoID, or nil when the
// video is a root.
func (s *Service) FindParentInfo(ctx context.Context, videoID string) (*types.ParentInfo, error) {
	rec, err := s.videos.GetVideoByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if rec.IsRoot() {
		return nil, nil
	}

	parent, err := s.videos.GetVideoByID(ctx, *rec.ParentVideoID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, s.inconsistent(videoID, "parent %s does not exist", *rec.ParentVideoID)
		}
		return nil, err
	}

	url, err := s.presignGet(ctx, parent.SourceKey())
	if err != nil {
		return nil, err
	}

	return &types.ParentInfo{
		ParentVideoID:           parent.VideoID,
		Depth:                   parent.Depth,
		SourceVideoPresignedURL: url,
	}, nil
}

// FindAncestorChain walks from videoID up to its root and returns the
// ancestors root first. A root has no ancestors. The walk never takes more
// than depth-1 hops; any disagreement between stored depths and parentage
// aborts it with types.ErrLineageInconsistent.
func (s *Service) FindAncestorChain(ctx context.Context, videoID string) ([]types.Ancestor, error) {
	rec, err := s.videos.GetVideoByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if rec.Depth < 1 {
		return nil, s.inconsistent(videoID, "depth %d below 1", rec.Depth)
	}

	maxHops := rec.Depth - 1
	chain := make([]types.VideoRecord, 0, maxHops)
	seen := map[string]struct{}{rec.VideoID: {}}

	cur := rec
	for !cur.IsRoot() {
		if len(chain) == maxHops {
			return nil, s.inconsistent(videoID, "more than %d ancestors for depth %d", maxHops, rec.Depth)
		}

		parentID := *cur.ParentVideoID
		if _, dup := seen[parentID]; dup {
			return nil, s.inconsistent(videoID, "cycle through %s", parentID)
		}

		parent, err := s.videos.GetVideoByID(ctx, parentID)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				return nil, s.inconsistent(videoID, "ancestor %s does not exist", parentID)
			}
			return nil, err
		}
		if parent.Depth != cur.Depth-1 {
			return nil, s.inconsistent(videoID, "%s at depth %d has parent %s at depth %d",
				cur.VideoID, cur.Depth, parent.VideoID, parent.Depth)
		}

		seen[parentID] = struct{}{}
		chain = append(chain, parent)
		cur = parent
	}

	if len(chain) != maxHops {
		return nil, s.inconsistent(videoID, "root %s reached after %d hops, depth says %d", cur.VideoID, len(chain), maxHops)
	}
	metrics.LineageHops.Observe(float64(len(chain)))

	slices.Reverse(chain)

	ancestors := make([]types.Ancestor, 0, len(chain))
	for _, a := range chain {
		url, err := s.presignGet(ctx, a.SourceKey())
		if err != nil {
			return nil, err
		}
		ancestors = append(ancestors, types.Ancestor{
			VideoID:                 a.VideoID,
			UserID:                  a.UserID,
			Depth:                   a.Depth,
			SourceVideoPresignedURL: url,
			CreatedAt:               a.CreatedAt,
		})
	}

	return ancestors, nil
}

func (s *Service) GetVideo(ctx context.Context, videoID string) (VideoView, error) {
	rec, err := s.videos.GetVideoByID(ctx, videoID)
	if err != nil {
		return VideoView{}, err
	}

	view := VideoView{VideoRecord: rec}
	if view.ResultsVideoPresignedURL, err = s.presignGet(ctx, rec.ResultsVideoURL); err != nil {
		return VideoView{}, err
	}
	if view.ThumbnailPresignedURL, err = s.presignGet(ctx, rec.ThumbnailURL); err != nil {
		return VideoView{}, err
	}
	return view, nil
}

// ListRemixes returns the videos derived directly from videoID, oldest first.
func (s *Service) ListRemixes(ctx context.Context, videoID string) ([]types.VideoRecord, error) {
	if _, err := s.videos.GetVideoByID(ctx, videoID); err != nil {
		return nil, err
	}

	children, err := s.videos.ListChildVideos(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if children == nil {
		children = []types.VideoRecord{}
	}
	return children, nil
}

func (s *Service) presignGet(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	url, err := s.presigner.PresignGet(ctx, key, s.readTTL)
	if err != nil {
		metrics.StorageFailures.WithLabelValues("get").Inc()
		return "", fmt.Errorf("%w: %v", types.ErrStorageUnavailable, err)
	}
	return url, nil
}

func (s *Service) inconsistent(videoID, format string, args ...any) error {
	metrics.LineageInconsistent.Inc()
	detail := fmt.Sprintf(format, args...)
	slog.Error("Lineage inconsistent", slog.String("video_id", videoID), slog.String("detail", detail))
	return fmt.Errorf("%w: video %s: %s", types.ErrLineageInconsistent, videoID, detail)
}
