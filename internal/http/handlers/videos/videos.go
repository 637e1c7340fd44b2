package videos

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/princekumarofficial/remix-service/internal/http/middleware"
	"github.com/princekumarofficial/remix-service/internal/services/lineage"
	"github.com/princekumarofficial/remix-service/internal/services/upload"
	"github.com/princekumarofficial/remix-service/internal/types"
	"github.com/princekumarofficial/remix-service/internal/utils/response"
)

type Uploader interface {
	RequestUploadGrants(ctx context.Context, files []upload.FileRequest) ([]types.UploadGrant, error)
	CompleteUpload(ctx context.Context, req upload.CompleteRequest) (types.VideoRecord, error)
}

type LineageResolver interface {
	FindParentInfo(ctx context.Context, videoID string) (*types.ParentInfo, error)
	FindAncestorChain(ctx context.Context, videoID string) ([]types.Ancestor, error)
	GetVideo(ctx context.Context, videoID string) (lineage.VideoView, error)
	ListRemixes(ctx context.Context, videoID string) ([]types.VideoRecord, error)
}

type VideoHandlers struct {
	uploads  Uploader
	lineage  LineageResolver
	validate *validator.Validate
}

type UploadURLsRequest struct {
	Files []upload.FileRequest `json:"files" validate:"required,min=1,dive"`
}

type UploadGrantResponse struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type CompleteUploadRequest struct {
	VideoKey       string  `json:"video_key" validate:"required"`
	ThumbnailKey   string  `json:"thumbnail_key" validate:"required"`
	SourceVideoKey string  `json:"source_video_key"`
	ParentVideoID  *string `json:"parent_video_id"`
	Depth          int     `json:"depth" validate:"gte=0"`
}

// ParentResponse always carries the data key, which is null for a root.
type ParentResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Data    *types.ParentInfo `json:"data"`
}

func NewVideoHandlers(uploads Uploader, resolver LineageResolver) *VideoHandlers {
	return &VideoHandlers{
		uploads:  uploads,
		lineage:  resolver,
		validate: validator.New(),
	}
}

// UploadURLs issues presigned upload URLs
// @Summary Request upload URLs
// @Description Issue one presigned PUT URL per file, valid for 5 minutes. The response is in request order.
// @Tags video-insert
// @Accept json
// @Produce json
// @Param request body UploadURLsRequest true "Files to upload"
// @Success 200 {array} UploadGrantResponse "Upload URLs generated successfully"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 503 {object} response.Response "Object storage unavailable"
// @Security BearerAuth
// @Router /video-insert/upload-urls [post]
func (h *VideoHandlers) UploadURLs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("user not authenticated")))
			return
		}

		var req UploadURLsRequest
		if !h.decode(w, r, &req) {
			return
		}

		grants, err := h.uploads.RequestUploadGrants(r.Context(), req.Files)
		if err != nil {
			slog.Error("Failed to issue upload grants", slog.String("error", err.Error()))
			response.WriteError(w, err)
			return
		}

		resp := make([]UploadGrantResponse, len(grants))
		for i, g := range grants {
			resp[i] = UploadGrantResponse{Key: g.ObjectKey, URL: g.URL, ExpiresAt: g.ExpiresAt}
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Upload URLs generated successfully", resp))
	}
}

// Complete records an uploaded video
// @Summary Complete an upload
// @Description Persist a video from uploaded object keys. With parent_video_id the video is a remix one level below its parent.
// @Tags video-insert
// @Accept json
// @Produce json
// @Param request body CompleteUploadRequest true "Uploaded keys"
// @Success 201 {object} types.VideoRecord "Video created successfully"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 404 {object} response.Response "Parent video not found"
// @Failure 500 {object} response.Response "Internal server error"
// @Security BearerAuth
// @Router /video-insert/complete [post]
func (h *VideoHandlers) Complete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("user not authenticated")))
			return
		}

		var req CompleteUploadRequest
		if !h.decode(w, r, &req) {
			return
		}

		rec, err := h.uploads.CompleteUpload(r.Context(), upload.CompleteRequest{
			UserID:         userID,
			VideoKey:       req.VideoKey,
			ThumbnailKey:   req.ThumbnailKey,
			SourceVideoKey: req.SourceVideoKey,
			ParentVideoID:  req.ParentVideoID,
			Depth:          req.Depth,
		})
		if err != nil {
			if response.StatusFor(err) == http.StatusInternalServerError {
				slog.Error("Failed to complete upload", slog.String("error", err.Error()), slog.String("user_id", userID))
			}
			response.WriteError(w, err)
			return
		}
		slog.Info("Video created", slog.String("video_id", rec.VideoID), slog.Int("depth", rec.Depth))

		response.WriteJSON(w, http.StatusCreated, response.RequestOK("Video created successfully", rec))
	}
}

// GetVideo returns a video with download URLs
// @Summary Get a video
// @Tags videos
// @Produce json
// @Param id path string true "Video ID"
// @Success 200 {object} lineage.VideoView "Video retrieved successfully"
// @Failure 404 {object} response.Response "Video not found"
// @Router /videos/{id} [get]
func (h *VideoHandlers) GetVideo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := h.lineage.GetVideo(r.Context(), r.PathValue("id"))
		if err != nil {
			response.WriteError(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.RequestOK("Video retrieved successfully", view))
	}
}

// Parent returns the immediate parent of a video
// @Summary Get parent info
// @Description data is null when the video is a root.
// @Tags videos
// @Produce json
// @Param id path string true "Video ID"
// @Success 200 {object} ParentResponse "Parent retrieved successfully"
// @Failure 404 {object} response.Response "Video not found"
// @Failure 500 {object} response.Response "Lineage inconsistent"
// @Router /videos/{id}/parent [get]
func (h *VideoHandlers) Parent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := h.lineage.FindParentInfo(r.Context(), r.PathValue("id"))
		if err != nil {
			response.WriteError(w, err)
			return
		}
		message := "Parent retrieved successfully"
		if info == nil {
			message = "Video is a root"
		}
		response.WriteJSON(w, http.StatusOK, ParentResponse{
			Status:  response.StatusSuccess,
			Message: message,
			Data:    info,
		})
	}
}

// Lineage returns the ancestors of a video, root first
// @Summary Get lineage
// @Tags videos
// @Produce json
// @Param id path string true "Video ID"
// @Success 200 {array} types.Ancestor "Lineage retrieved successfully"
// @Failure 404 {object} response.Response "Video not found"
// @Failure 500 {object} response.Response "Lineage inconsistent"
// @Failure 503 {object} response.Response "Object storage unavailable"
// @Router /videos/{id}/lineage [get]
func (h *VideoHandlers) Lineage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ancestors, err := h.lineage.FindAncestorChain(r.Context(), r.PathValue("id"))
		if err != nil {
			response.WriteError(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.RequestOK("Lineage retrieved successfully", ancestors))
	}
}

// Remixes lists videos derived directly from a video
// @Summary List remixes
// @Tags videos
// @Produce json
// @Param id path string true "Video ID"
// @Success 200 {array} types.VideoRecord "Remixes retrieved successfully"
// @Failure 404 {object} response.Response "Video not found"
// @Router /videos/{id}/remixes [get]
func (h *VideoHandlers) Remixes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		children, err := h.lineage.ListRemixes(r.Context(), r.PathValue("id"))
		if err != nil {
			response.WriteError(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.RequestOK("Remixes retrieved successfully", children))
	}
}

// decode reads and validates a JSON body, writing the error response itself.
func (h *VideoHandlers) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("request body cannot be empty")))
		return false
	} else if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("invalid request body")))
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(ve))
			return false
		}
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return false
	}
	return true
}
