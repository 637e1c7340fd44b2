package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/princekumarofficial/remix-service/internal/metrics"
	"github.com/princekumarofficial/remix-service/internal/services/media"
	"github.com/princekumarofficial/remix-service/internal/storage"
	"github.com/princekumarofficial/remix-service/internal/types"
)

// UploadGrantTTL is how long an issued upload URL stays valid.
const UploadGrantTTL = 5 * time.Minute

const defaultMaxFiles = 10

type FileRequest struct {
	FileType string        `json:"fileType" validate:"required"`
	Purpose  types.Purpose `json:"purpose" validate:"required,oneof=RESULT_VIDEO THUMBNAIL SOURCE_VIDEO"`
}

type CompleteRequest struct {
	UserID         string
	VideoKey       string
	ThumbnailKey   string
	SourceVideoKey string
	ParentVideoID  *string
	// Depth is what the client believes; the stored depth is always derived
	// from the parent.
	Depth int
}

type Service struct {
	videos    storage.VideoStore
	presigner media.Presigner
	maxFiles  int
	now       func() time.Time
}

type Option func(*Service)

// WithMaxFiles caps how many grants one request may ask for.
func WithMaxFiles(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxFiles = n
		}
	}
}

func NewService(videos storage.VideoStore, presigner media.Presigner, opts ...Option) *Service {
	s := &Service{
		videos:    videos,
		presigner: presigner,
		maxFiles:  defaultMaxFiles,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestUploadGrants issues one presigned PUT per file. grants[i] answers
// files[i]. Either every grant is returned or none.
func (s *Service) RequestUploadGrants(ctx context.Context, files []FileRequest) ([]types.UploadGrant, error) {
	if err := s.validateFiles(files); err != nil {
		return nil, err
	}

	grants := make([]types.UploadGrant, len(files))
	for i, f := range files {
		key := media.GenerateObjectKey(f.Purpose, f.FileType)
		issuedAt := s.now()

		url, err := s.presigner.PresignPut(ctx, key, f.FileType, UploadGrantTTL)
		if err != nil {
			metrics.StorageFailures.WithLabelValues("put").Inc()
			return nil, fmt.Errorf("%w: %v", types.ErrStorageUnavailable, err)
		}

		grants[i] = types.UploadGrant{
			ObjectKey:   key,
			URL:         url,
			Purpose:     f.Purpose,
			ContentType: f.FileType,
			ExpiresAt:   issuedAt.Add(UploadGrantTTL),
		}
	}

	for _, g := range grants {
		metrics.UploadGrantsIssued.WithLabelValues(string(g.Purpose)).Inc()
	}

	return grants, nil
}

func (s *Service) validateFiles(files []FileRequest) error {
	if len(files) == 0 {
		return fmt.Errorf("%w: at least one file is required", types.ErrValidation)
	}
	if len(files) > s.maxFiles {
		return fmt.Errorf("%w: at most %d files per request", types.ErrValidation, s.maxFiles)
	}

	for i, f := range files {
		if !f.Purpose.Valid() {
			return fmt.Errorf("%w: files[%d]: unknown purpose %q", types.ErrValidation, i, f.Purpose)
		}
		if !validMIME(f.FileType) {
			return fmt.Errorf("%w: files[%d]: malformed file type %q", types.ErrValidation, i, f.FileType)
		}
	}
	return nil
}

// validMIME only checks the type/subtype shape.
func validMIME(fileType string) bool {
	mainType, subType, ok := strings.Cut(fileType, "/")
	return ok && mainType != "" && subType != "" && !strings.ContainsAny(fileType, " \t\r\n")
}

// CompleteUpload records an uploaded video. With a parent the new record sits
// one level below it; without one it is a root at depth 1. Calling it twice
// creates two records.
func (s *Service) CompleteUpload(ctx context.Context, req CompleteRequest) (types.VideoRecord, error) {
	if req.UserID == "" || req.VideoKey == "" || req.ThumbnailKey == "" {
		return types.VideoRecord{}, fmt.Errorf("%w: user, video key and thumbnail key are required", types.ErrValidation)
	}

	depth := 1
	var parentID *string
	if req.ParentVideoID != nil && *req.ParentVideoID != "" {
		parent, err := s.videos.GetVideoByID(ctx, *req.ParentVideoID)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				return types.VideoRecord{}, fmt.Errorf("%w: %s", types.ErrParentNotFound, *req.ParentVideoID)
			}
			return types.VideoRecord{}, fmt.Errorf("failed to load parent video: %w", err)
		}
		depth = parent.Depth + 1
		id := parent.VideoID
		parentID = &id
	}

	if req.Depth != 0 && req.Depth != depth {
		slog.Warn("Ignoring client supplied depth",
			slog.Int("client_depth", req.Depth),
			slog.Int("depth", depth),
			slog.String("user_id", req.UserID))
	}

	rec, err := s.videos.InsertVideo(ctx, types.VideoRecord{
		UserID:          req.UserID,
		ParentVideoID:   parentID,
		Depth:           depth,
		SourceVideoURL:  req.SourceVideoKey,
		ResultsVideoURL: req.VideoKey,
		ThumbnailURL:    req.ThumbnailKey,
	})
	if err != nil {
		if errors.Is(err, types.ErrParentNotFound) {
			return types.VideoRecord{}, err
		}
		return types.VideoRecord{}, fmt.Errorf("failed to insert video: %w", err)
	}

	kind := "root"
	if !rec.IsRoot() {
		kind = "remix"
	}
	metrics.UploadsCompleted.WithLabelValues(kind).Inc()

	return rec, nil
}
